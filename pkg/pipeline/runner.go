package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spotdeck/pkg/cache"
	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/observability"
	"github.com/matzehuels/spotdeck/pkg/render/sink"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete design → load → pack → render pipeline and
// writes cards, manifest and the optional extras to opts.OutputDir.
// Configuration errors are reported before any card is packed.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Design
	designStart := time.Now()
	table, err := r.Design(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}
	result.Table = table
	result.Stats.DesignTime = time.Since(designStart)
	result.Stats.Cards = table.Len()

	r.Logger.Info("designed deck",
		"cards", table.Len(),
		"symbols", table.SymbolCount(),
		"per_card", table.CardSize())

	// Stage 2: Load
	loadStart := time.Now()
	pool, err := r.LoadPool(opts)
	if err != nil {
		return nil, fmt.Errorf("load symbols: %w", err)
	}
	if err := CheckPool(pool, table); err != nil {
		return nil, err
	}
	if extra := pool.Len() - table.SymbolCount(); extra > 0 {
		r.Logger.Warn("unused symbols", "count", extra, "first", table.SymbolCount()+1)
	}
	result.Stats.LoadTime = time.Since(loadStart)

	r.Logger.Info("loaded symbols",
		"symbols", pool.Len(),
		"duration", result.Stats.LoadTime)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, err
	}

	// Stage 3: Pack and write cards
	packStart := time.Now()
	cards, err := r.PackDeck(ctx, table, pool, opts, func(ctx context.Context, c *CardResult) error {
		symbols, err := pool.Symbols(c.Symbols)
		if err != nil {
			return err
		}
		path := filepath.Join(opts.OutputDir, CardFile(c.Index))
		if err := r.WriteCard(ctx, path, c.Layout, symbols, opts); err != nil {
			return fmt.Errorf("write card %d: %w", c.Index+1, err)
		}
		c.File = path
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.Cards = cards
	result.Stats.PackTime = time.Since(packStart)

	manifest := sink.NewManifest(opts.Seed, table)
	packed := 0
	for _, c := range cards {
		entry := sink.CardEntry{Index: c.Index, Symbols: c.Symbols, Cached: c.Cached}
		if syms, err := pool.Symbols(c.Symbols); err == nil {
			for _, s := range syms {
				entry.Names = append(entry.Names, s.Name)
			}
		}
		if c.Err != nil {
			entry.Error = c.Err.Error()
			result.Stats.Failed++
		} else {
			entry.File = filepath.Base(c.File)
			entry.Layout = c.Layout
			entry.Coverage = c.Layout.Coverage()
			result.Files = append(result.Files, c.File)
			result.Stats.Coverage += entry.Coverage
			result.Stats.Accepted += c.Stats.AcceptedTotal()
			packed++
		}
		if c.Cached {
			result.Stats.CacheHits++
		}
		manifest.AddCard(entry)
	}
	if packed > 0 {
		result.Stats.Coverage /= float64(packed)
	}

	r.Logger.Info("packed cards",
		"cards", packed,
		"failed", result.Stats.Failed,
		"cached", result.Stats.CacheHits,
		"coverage", fmt.Sprintf("%.1f%%", 100*result.Stats.Coverage),
		"duration", result.Stats.PackTime)

	// Stage 4: Extras and manifest
	renderStart := time.Now()
	used := pool.All()[:table.SymbolCount()]
	if opts.Legend {
		paths, err := r.WriteLegend(ctx, opts.OutputDir, used)
		if err != nil {
			return nil, fmt.Errorf("legend: %w", err)
		}
		manifest.Legend = baseNames(paths)
		result.Files = append(result.Files, paths...)
	}
	if opts.Backside {
		path := filepath.Join(opts.OutputDir, BacksideFile)
		if err := r.WriteBackside(ctx, path, opts.BacksideFront, opts.BacksideBack); err != nil {
			return nil, fmt.Errorf("backside: %w", err)
		}
		manifest.Backside = BacksideFile
		result.Files = append(result.Files, path)
	}
	if opts.Plane != "" {
		path, err := r.WritePlane(ctx, opts.OutputDir, table, symbolNames(used), opts.Plane)
		if err != nil {
			return nil, fmt.Errorf("plane: %w", err)
		}
		result.Files = append(result.Files, path)
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	if err := sink.WriteManifest(manifestPath, manifest); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	result.Manifest = manifest
	result.Files = append(result.Files, manifestPath)
	result.Stats.RenderTime = time.Since(renderStart)

	return result, nil
}

// Design builds the deck table for opts.SymbolsPerCard.
func (r *Runner) Design(ctx context.Context, opts Options) (deck.Table, error) {
	if err := opts.ValidateForDesign(); err != nil {
		return deck.Table{}, err
	}
	table, err := deck.Generate(opts.SymbolsPerCard)
	observability.Pipeline().OnDesignComplete(ctx, opts.SymbolsPerCard, table.Len(), err)
	if err != nil {
		return deck.Table{}, err
	}
	return table, nil
}

// LoadPool reads the symbol pool from opts.SymbolsDir, naming symbols from
// opts.NamesFile when set.
func (r *Runner) LoadPool(opts Options) (*symbol.Pool, error) {
	if opts.SymbolsDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "symbols directory is required")
	}
	var loadOpts []symbol.LoadOption
	if opts.NamesFile != "" {
		names, err := symbol.ReadNamesFile(opts.NamesFile)
		if err != nil {
			return nil, err
		}
		loadOpts = append(loadOpts, symbol.WithNames(names))
	}
	return symbol.LoadDir(opts.SymbolsDir, loadOpts...)
}

// CheckPool verifies that pool holds a symbol for every index of table.
func CheckPool(pool *symbol.Pool, table deck.Table) error {
	if pool.Len() < table.SymbolCount() {
		return errors.New(errors.ErrCodeInvalidPool,
			"deck of %d symbols per card needs %d symbols, found %d",
			table.CardSize(), table.SymbolCount(), pool.Len())
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func symbolNames(symbols []*symbol.Symbol) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = s.Name
	}
	return out
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
