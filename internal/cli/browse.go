package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/pipeline"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// Browser styles
var (
	browseSharedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	browseNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	browseDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command for exploring a deck interactively.
func (c *CLI) browseCommand() *cobra.Command {
	var opts pipeline.Options
	opts.SymbolsPerCard = pipeline.DefaultSymbolsPerCard

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the deck interactively",
		Long: `Step through the cards of a deck and compare any two of them: the symbol
they share is highlighted. Symbol names are taken from --names or from the
file names in --symbols.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.SymbolsPerCard, "symbols-per-card", "k", opts.SymbolsPerCard, "symbols per card (k-1 must be prime)")
	cmd.Flags().StringVarP(&opts.SymbolsDir, "symbols", "s", "", "directory of symbol images to take names from")
	cmd.Flags().StringVar(&opts.NamesFile, "names", "", "symbol names file")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	t, err := runner.Design(ctx, opts)
	if err != nil {
		return err
	}
	names, err := browseNames(runner, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(NewBrowseModel(t, names), tea.WithContext(ctx)).Run()
	return err
}

func browseNames(runner *pipeline.Runner, opts pipeline.Options) ([]string, error) {
	switch {
	case opts.SymbolsDir != "":
		pool, err := runner.LoadPool(opts)
		if err != nil {
			return nil, err
		}
		names := make([]string, pool.Len())
		for i, s := range pool.All() {
			names[i] = s.Name
		}
		return names, nil
	case opts.NamesFile != "":
		return symbol.ReadNamesFile(opts.NamesFile)
	}
	return nil, nil
}

// =============================================================================
// BrowseModel - Interactive card browser
// =============================================================================

// BrowseModel is the bubbletea model for the card browser.
type BrowseModel struct {
	Table   deck.Table
	Names   []string
	Cursor  int // card shown
	Compare int // card marked for comparison, -1 for none
}

// NewBrowseModel creates a browser positioned on the first card.
func NewBrowseModel(t deck.Table, names []string) BrowseModel {
	return BrowseModel{Table: t, Names: names, Compare: -1}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	last := m.Table.Len() - 1
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h", "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "right", "l", "down", "j":
		if m.Cursor < last {
			m.Cursor++
		}
	case "home", "g":
		m.Cursor = 0
	case "end", "G":
		m.Cursor = last
	case "tab", " ":
		if m.Compare == m.Cursor {
			m.Compare = -1
		} else {
			m.Compare = m.Cursor
		}
	case "c":
		m.Compare = -1
	}
	return m, nil
}

// Shared returns the symbol shared by the current and the marked card.
func (m BrowseModel) Shared() (int, bool) {
	if m.Compare < 0 {
		return 0, false
	}
	return m.Table.Shared(m.Cursor, m.Compare)
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s Card %d", iconCard, m.Cursor+1)))
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  of %d · %d symbols each", m.Table.Len(), m.Table.CardSize())))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("←/→ card  tab mark for comparison  c clear  q quit"))
	b.WriteString("\n\n")

	shared, hasShared := m.Shared()
	card := m.Table.Card(m.Cursor)
	rows := make([][]string, len(card))
	for i, s := range card {
		mark := ""
		if hasShared && s == shared {
			mark = "◀"
		}
		rows[i] = []string{strconv.Itoa(s + 1), symbolLabel(s, m.Names), mark}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Symbol", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if hasShared && row < len(card) && card[row] == shared {
				return base.Inherit(browseSharedStyle)
			}
			if col == 0 {
				return base.Inherit(browseDimStyle)
			}
			return base.Inherit(browseNormalStyle)
		})
	b.WriteString(t.Render())
	b.WriteString("\n\n")

	switch {
	case m.Compare < 0:
		b.WriteString(browseDimStyle.Render("  no card marked"))
	case m.Compare == m.Cursor:
		b.WriteString(browseDimStyle.Render(fmt.Sprintf("  card %d marked, move to another card to compare", m.Compare+1)))
	default:
		b.WriteString(fmt.Sprintf("  shared with card %d: %s",
			m.Compare+1, browseSharedStyle.Render(symbolLabel(shared, m.Names))))
	}
	b.WriteString("\n")

	return b.String()
}
