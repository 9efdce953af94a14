package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spotdeck/pkg/pack"
	"github.com/matzehuels/spotdeck/pkg/pipeline"
)

// configCommand creates the config command for managing TOML option files.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect option files",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// defaultConfig is the option set written by "config init".
func defaultConfig() pipeline.Options {
	return pipeline.Options{
		SymbolsDir:     "img_preprocessed",
		OutputDir:      "cards",
		SymbolsPerCard: pipeline.DefaultSymbolsPerCard,
		Iterations:     pipeline.DefaultIterations,
		Radius:         pipeline.DefaultRadius,
		Seed:           pipeline.DefaultSeed,
		InitialScale:   pack.DefaultInitialScale,
		Weights:        pack.DefaultWeights,
		Legend:         true,
		Backside:       true,
	}
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write an option file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := pipeline.WriteConfig(path, defaultConfig()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess("Config written")
			printFile(path)
			printNewline()
			printNextStep("Generate", fmt.Sprintf("%s generate --config %s", appName, path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print the options a file resolves to, defaults included",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			opts, err := pipeline.LoadConfig(path)
			if err != nil {
				return err
			}
			if err := opts.ValidateForDesign(); err != nil {
				return err
			}
			if err := opts.ValidateForPack(); err != nil {
				return err
			}
			printConfig(opts)
			return nil
		},
	}
}

func printConfig(opts pipeline.Options) {
	p := opts.PackOptions().WithDefaults()
	printKeyValue("symbols", orNone(opts.SymbolsDir))
	printKeyValue("names", orNone(opts.NamesFile))
	printKeyValue("per card", strconv.Itoa(opts.SymbolsPerCard))
	printKeyValue("iterations", strconv.Itoa(p.Iterations))
	printKeyValue("radius", strconv.FormatFloat(p.Radius, 'f', -1, 64))
	printKeyValue("seed", strconv.FormatUint(opts.Seed, 10))
	printKeyValue("scale", strconv.FormatFloat(p.InitialScale, 'f', -1, 64))
	printKeyValue("weights", fmt.Sprintf("rotate %d, rescale %d, move %d", p.Weights.Rotate, p.Weights.Rescale, p.Weights.Reposition))
	if len(opts.Anchors) > 0 {
		printKeyValue("anchors", fmt.Sprint(opts.Anchors))
	}
	printKeyValue("workers", strconv.Itoa(opts.Workers))
	printKeyValue("timeout", orNone(durationString(opts)))
	printKeyValue("out", orNone(opts.OutputDir))
	printKeyValue("legend", strconv.FormatBool(opts.Legend))
	printKeyValue("backside", strconv.FormatBool(opts.Backside))
	printKeyValue("plane", orNone(opts.Plane))
}

func durationString(opts pipeline.Options) string {
	if opts.CardTimeout == 0 {
		return ""
	}
	return opts.CardTimeout.String()
}

func orNone(s string) string {
	if s == "" {
		return StyleDim.Render("none")
	}
	return s
}
