package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotdeck/pkg/pipeline"
)

// backsideCommand creates the backside command that renders the card back.
func (c *CLI) backsideCommand() *cobra.Command {
	var output, front, back string

	cmd := &cobra.Command{
		Use:   "backside",
		Short: "Render the card back",
		Long: `Render the back of the cards: a bordered red disc, optionally decorated with
a small image near the top and a large image across the middle.`,
		Example: `  spotdeck backside --out cards/backside.png --front logo.png --back title.png`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBackside(cmd.Context(), output, front, back)
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", pipeline.BacksideFile, "output file")
	cmd.Flags().StringVar(&front, "front", "", "small decoration image")
	cmd.Flags().StringVar(&back, "back", "", "large decoration image")

	return cmd
}

func (c *CLI) runBackside(ctx context.Context, output, front, back string) error {
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	if err := runner.WriteBackside(ctx, output, front, back); err != nil {
		return err
	}
	printSuccess("Card back rendered")
	printFile(output)
	return nil
}
