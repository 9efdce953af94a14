package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotdeck/pkg/preprocess"
)

// preprocessCommand creates the preprocess command for preparing raw artwork.
func (c *CLI) preprocessCommand() *cobra.Command {
	var in, out string
	opts := preprocess.Options{Width: preprocess.DefaultWidth}

	cmd := &cobra.Command{
		Use:   "preprocess",
		Short: "Resize and crop raw symbol images",
		Long: `Resize every PNG or JPEG image in a directory to a common width and crop it
to its non-transparent pixels. The results are written as PNG files with the
same base names, ready for 'generate'.`,
		Example: `  spotdeck preprocess --in img --out img_preprocessed`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreprocess(cmd.Context(), in, out, opts)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "directory of raw images")
	cmd.Flags().StringVar(&out, "out", "", "output directory")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "target width in pixels before cropping")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "images processed in parallel (default: number of CPUs)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func (c *CLI) runPreprocess(ctx context.Context, in, out string, opts preprocess.Options) error {
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Preprocessing %s...", in))
	spinner.Start()

	results, err := preprocess.Dir(ctx, in, out, opts)
	if err != nil {
		spinner.StopWithError("Preprocessing failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, r := range results {
		c.Logger.Debug("preprocessed", "file", r.Source, "size", r.Size)
	}
	prog.done(fmt.Sprintf("Preprocessed %d images", len(results)))

	printSuccess("Preprocessed %d images", len(results))
	printFile(out)
	printNewline()
	printNextStep("Generate", fmt.Sprintf("%s generate --symbols %s --out cards", appName, out))
	return nil
}
