package cli

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/observability"
	"github.com/matzehuels/spotdeck/pkg/pipeline"
)

// generateCommand creates the generate command that runs the full pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		configFile string
		noCache    bool
	)
	opts := pipeline.Options{
		SymbolsPerCard: pipeline.DefaultSymbolsPerCard,
		Iterations:     pipeline.DefaultIterations,
		Radius:         pipeline.DefaultRadius,
		Seed:           pipeline.DefaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a complete deck of cards",
		Long: `Generate a complete deck of cards from a directory of symbol images.

Symbols are read from files named <index>_<name>.png (index starting at 1).
The deck is designed so that every two cards share exactly one symbol, each
card's symbols are packed into the card circle, and the cards are written as
card_<n>.png together with a manifest.json describing every layout.

Options can also be read from a TOML file (--config); flags given on the
command line override the file. Packed layouts are cached locally, so
re-running with the same symbols and options is fast.`,
		Example: `  spotdeck generate --symbols img_preprocessed --out cards
  spotdeck generate -s img -o cards -k 6 --legend --backside
  spotdeck generate --config spotdeck.toml --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveOptions(cmd.Flags(), configFile, opts)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), resolved, noCache)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "read options from a TOML file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	addOptionFlags(cmd.Flags(), &opts)

	return cmd
}

// addOptionFlags binds the pipeline options to flags. Flag names match the
// TOML keys where they overlap.
func addOptionFlags(fs *pflag.FlagSet, opts *pipeline.Options) {
	// Input
	fs.StringVarP(&opts.SymbolsDir, "symbols", "s", opts.SymbolsDir, "directory of symbol images")
	fs.StringVar(&opts.NamesFile, "names", opts.NamesFile, "symbol names file (default: names from file names)")

	// Deck
	fs.IntVarP(&opts.SymbolsPerCard, "symbols-per-card", "k", opts.SymbolsPerCard, "symbols per card (k-1 must be prime)")

	// Packing
	fs.IntVar(&opts.Iterations, "iterations", opts.Iterations, "refinement attempts per card, -1 keeps the starting layout")
	fs.Float64Var(&opts.Radius, "radius", opts.Radius, "card radius in pixels")
	fs.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	fs.Float64Var(&opts.InitialScale, "initial-scale", opts.InitialScale, "starting scale of every symbol (default 0.1)")
	fs.IntVar(&opts.Workers, "workers", opts.Workers, "cards packed in parallel (default: number of CPUs)")
	fs.BoolVar(&opts.KeepGoing, "keep-going", opts.KeepGoing, "continue when a card cannot be packed")
	fs.BoolVar(&opts.Refresh, "refresh", opts.Refresh, "ignore cached layouts")
	fs.DurationVar(&opts.CardTimeout, "card-timeout", opts.CardTimeout, "search time limit per card, keeping the best layout so far (0 for none)")

	// Output
	fs.StringVarP(&opts.OutputDir, "out", "o", opts.OutputDir, "output directory")
	fs.Float64Var(&opts.Border, "border", opts.Border, "card border width in pixels (0 for none)")
	fs.BoolVar(&opts.Legend, "legend", opts.Legend, "render legend sheets")
	fs.BoolVar(&opts.Backside, "backside", opts.Backside, "render the card back")
	fs.StringVar(&opts.BacksideFront, "front", opts.BacksideFront, "small image on the card back")
	fs.StringVar(&opts.BacksideBack, "back", opts.BacksideBack, "large image on the card back")
	fs.StringVar(&opts.Plane, "plane", opts.Plane, "also render the incidence diagram: svg, png, dot")
}

// optionFlags copies the value of each option flag from src to dst.
var optionFlags = map[string]func(dst, src *pipeline.Options){
	"symbols":          func(d, s *pipeline.Options) { d.SymbolsDir = s.SymbolsDir },
	"names":            func(d, s *pipeline.Options) { d.NamesFile = s.NamesFile },
	"symbols-per-card": func(d, s *pipeline.Options) { d.SymbolsPerCard = s.SymbolsPerCard },
	"iterations":       func(d, s *pipeline.Options) { d.Iterations = s.Iterations },
	"radius":           func(d, s *pipeline.Options) { d.Radius = s.Radius },
	"seed":             func(d, s *pipeline.Options) { d.Seed = s.Seed },
	"initial-scale":    func(d, s *pipeline.Options) { d.InitialScale = s.InitialScale },
	"workers":          func(d, s *pipeline.Options) { d.Workers = s.Workers },
	"keep-going":       func(d, s *pipeline.Options) { d.KeepGoing = s.KeepGoing },
	"refresh":          func(d, s *pipeline.Options) { d.Refresh = s.Refresh },
	"card-timeout":     func(d, s *pipeline.Options) { d.CardTimeout = s.CardTimeout },
	"out":              func(d, s *pipeline.Options) { d.OutputDir = s.OutputDir },
	"border":           func(d, s *pipeline.Options) { d.Border = s.Border },
	"legend":           func(d, s *pipeline.Options) { d.Legend = s.Legend },
	"backside":         func(d, s *pipeline.Options) { d.Backside = s.Backside },
	"front":            func(d, s *pipeline.Options) { d.BacksideFront = s.BacksideFront },
	"back":             func(d, s *pipeline.Options) { d.BacksideBack = s.BacksideBack },
	"plane":            func(d, s *pipeline.Options) { d.Plane = s.Plane },
}

// resolveOptions returns the options for a run: the config file when given,
// with every explicitly set flag applied on top. Without a config file the
// flag values (including their defaults) are used as is.
func resolveOptions(fs *pflag.FlagSet, configFile string, flagOpts pipeline.Options) (pipeline.Options, error) {
	if configFile == "" {
		return flagOpts, nil
	}
	opts, err := pipeline.LoadConfig(configFile)
	if err != nil {
		return pipeline.Options{}, err
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := optionFlags[f.Name]; ok {
			apply(&opts, &flagOpts)
		}
	})
	return opts, nil
}

// runGenerate executes the pipeline and prints a summary.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	if c.Logger.GetLevel() > log.DebugLevel {
		p := newPackProgress(ctx, deck.CardsNeeded(opts.SymbolsPerCard))
		observability.SetPipelineHooks(p)
		defer observability.Reset()
		defer p.spinner.Stop()
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if errors.Is(err, errors.ErrCodePlacementExhausted) {
			printError("A card could not be packed")
			printDetail("Try smaller symbols, a larger --radius or a smaller --initial-scale, or pass --keep-going")
		}
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done(fmt.Sprintf("Generated %d cards", result.Stats.Cards-result.Stats.Failed))

	printSuccess("Deck complete")
	printFile(opts.OutputDir)
	printStats(result.Stats)
	for _, entry := range result.Manifest.Failed() {
		printWarning("card %d: %s", entry.Index+1, entry.Error)
	}
	printNewline()
	printNextStep("Browse", fmt.Sprintf("%s browse -k %d --symbols %s", appName, opts.SymbolsPerCard, opts.SymbolsDir))

	if result.Stats.Failed > 0 {
		return fmt.Errorf("%d of %d cards could not be packed", result.Stats.Failed, result.Stats.Cards)
	}
	return nil
}

// packProgress shows a spinner counting packed cards. The spinner starts
// with the first card and clears itself once every card is done.
type packProgress struct {
	observability.NoopPipelineHooks

	spinner *Spinner
	total   int
	done    atomic.Int64
	start   sync.Once
}

func newPackProgress(ctx context.Context, total int) *packProgress {
	return &packProgress{
		spinner: newSpinnerWithContext(ctx, fmt.Sprintf("Packing cards 0/%d", total)),
		total:   total,
	}
}

func (p *packProgress) OnPackStart(context.Context, int, int) {
	p.start.Do(p.spinner.Start)
}

func (p *packProgress) OnPackComplete(context.Context, int, int, time.Duration, error) {
	n := int(p.done.Add(1))
	p.spinner.Update(fmt.Sprintf("Packing cards %d/%d", n, p.total))
	if n == p.total {
		p.spinner.Stop()
	}
}
