package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotdeck/pkg/pipeline"
	"github.com/matzehuels/spotdeck/pkg/render/plane"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// planeOpts holds the command-line flags for the plane command.
type planeOpts struct {
	symbolsPerCard int
	format         string
	output         string
	namesFile      string
	highlight      int // 1-based card, 0 for none
	layout         string
}

// planeCommand creates the plane command that draws the card/symbol incidence graph.
func (c *CLI) planeCommand() *cobra.Command {
	opts := planeOpts{symbolsPerCard: 3, format: plane.FormatSVG, layout: "neato"}

	cmd := &cobra.Command{
		Use:   "plane",
		Short: "Draw the deck as a card/symbol incidence diagram",
		Long: `Draw the deck design as a graph with one node per card and one per symbol,
joining each card to its symbols. Small decks (-k 3 or 4) show the structure
of the underlying projective plane best.`,
		Example: `  spotdeck plane -k 3 -o fano.svg
  spotdeck plane -k 4 --highlight 1 -f png -o plane.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidatePlaneFormat(opts.format); err != nil {
				return err
			}
			return c.runPlane(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.symbolsPerCard, "symbols-per-card", "k", opts.symbolsPerCard, "symbols per card (k-1 must be prime)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png, dot")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: plane.<format>)")
	cmd.Flags().StringVar(&opts.namesFile, "names", "", "label symbols with names from this file")
	cmd.Flags().IntVar(&opts.highlight, "highlight", 0, "highlight a card (1-based) and its symbols")
	cmd.Flags().StringVar(&opts.layout, "layout", opts.layout, "graphviz layout engine")

	return cmd
}

func (c *CLI) runPlane(ctx context.Context, opts planeOpts) error {
	table, err := pipeline.NewRunner(nil, nil, c.Logger).Design(ctx, pipeline.Options{SymbolsPerCard: opts.symbolsPerCard})
	if err != nil {
		return err
	}
	if opts.highlight < 0 || opts.highlight > table.Len() {
		return fmt.Errorf("highlight card %d out of range 1..%d", opts.highlight, table.Len())
	}

	var names []string
	if opts.namesFile != "" {
		if names, err = symbol.ReadNamesFile(opts.namesFile); err != nil {
			return err
		}
	}

	dot := plane.ToDOT(table, plane.Options{Names: names, Layout: opts.layout, Highlight: opts.highlight - 1})

	spinner := newSpinnerWithContext(ctx, "Laying out diagram...")
	spinner.Start()
	data, err := plane.Render(ctx, dot, opts.format)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	output := opts.output
	if output == "" {
		output = "plane." + opts.format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Incidence diagram for %s", table)
	printFile(output)
	return nil
}
