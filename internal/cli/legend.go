package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotdeck/pkg/pipeline"
)

// legendCommand creates the legend command that renders symbol name sheets.
func (c *CLI) legendCommand() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Render legend sheets naming every symbol",
		Long: `Render card-sized legend sheets that show each symbol with its name.

Names come from the names file (lines starting with '>' or 'N. name') or,
when no file is given, from the symbol file names.`,
		Example: `  spotdeck legend --symbols img_preprocessed --names symbols.txt --out cards`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLegend(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.SymbolsDir, "symbols", "s", "", "directory of symbol images")
	cmd.Flags().StringVar(&opts.NamesFile, "names", "", "symbol names file")
	cmd.Flags().StringVarP(&opts.OutputDir, "out", "o", "", "output directory")
	_ = cmd.MarkFlagRequired("symbols")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (c *CLI) runLegend(ctx context.Context, opts pipeline.Options) error {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	pool, err := runner.LoadPool(opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return err
	}

	paths, err := runner.WriteLegend(ctx, opts.OutputDir, pool.All())
	if err != nil {
		return fmt.Errorf("legend: %w", err)
	}

	printSuccess("Legend for %d symbols", pool.Len())
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
