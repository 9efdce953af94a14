package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/pipeline"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// tableCommand creates the table command that prints the deck design.
func (c *CLI) tableCommand() *cobra.Command {
	var (
		asJSON    bool
		namesFile string
	)
	opts := pipeline.Options{SymbolsPerCard: pipeline.DefaultSymbolsPerCard}

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the deck design",
		Long: `Print which symbols go on which card.

The table is checked before printing: every symbol appears on the same number
of cards and every two cards share exactly one symbol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTable(cmd.Context(), opts, namesFile, asJSON)
		},
	}

	cmd.Flags().IntVarP(&opts.SymbolsPerCard, "symbols-per-card", "k", opts.SymbolsPerCard, "symbols per card (k-1 must be prime)")
	cmd.Flags().StringVar(&namesFile, "names", "", "label symbols with names from this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the table as JSON")

	return cmd
}

func (c *CLI) runTable(ctx context.Context, opts pipeline.Options, namesFile string, asJSON bool) error {
	t, err := pipeline.NewRunner(nil, nil, c.Logger).Design(ctx, opts)
	if err != nil {
		return err
	}
	if err := t.Validate(); err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}

	var names []string
	if namesFile != "" {
		if names, err = symbol.ReadNamesFile(namesFile); err != nil {
			return err
		}
	}

	fmt.Println(renderTable(t, names))
	printSuccess("%s, %d symbols, every pair shares one symbol", t, t.SymbolCount())
	return nil
}

// renderTable formats a deck table with one row per card.
func renderTable(t deck.Table, names []string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	numberStyle := StyleNumber.Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, t.Len())
	for i, card := range t.Cards() {
		labels := make([]string, len(card))
		for j, s := range card {
			labels[j] = symbolLabel(s, names)
		}
		rows[i] = []string{strconv.Itoa(i + 1), strings.Join(labels, ", ")}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Card", "Symbols").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return numberStyle
			default:
				return cellStyle
			}
		}).
		Render()
}

// symbolLabel names symbol s (0-based) for display, falling back to its
// 1-based file index.
func symbolLabel(s int, names []string) string {
	if s < len(names) && names[s] != "" {
		return names[s]
	}
	return strconv.Itoa(s + 1)
}
