// Package pipeline provides the deck generation pipeline for spotdeck.
//
// This package implements the complete design → load → pack → render
// pipeline used by the CLI. By centralizing this logic, every command that
// touches cards (generate, browse, legend) shares the same defaults,
// validation and caching behavior.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Design: build the symbol table of a projective-plane deck
//  2. Load: read the symbol pool from a directory of images
//  3. Pack: place each card's symbols inside the card circle, in parallel
//  4. Render: write card faces, manifest, legend sheets and card back
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    SymbolsDir:     "img_preprocessed",
//	    OutputDir:      "cards",
//	    SymbolsPerCard: 8,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Files), "files written")
//
// Run individual stages:
//
//	table, err := runner.Design(ctx, opts)
//	pool, err := runner.LoadPool(opts)
//	cards, err := runner.PackDeck(ctx, table, pool, opts)
package pipeline

import (
	"fmt"
	"image"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spotdeck/pkg/cache"
	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/pack"
	"github.com/matzehuels/spotdeck/pkg/render/plane"
	"github.com/matzehuels/spotdeck/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI and config files
// =============================================================================

const (
	// DefaultSymbolsPerCard gives the classic 57-card deck.
	DefaultSymbolsPerCard = 8

	// DefaultIterations is the number of refinement attempts per card.
	DefaultIterations = pack.DefaultIterations

	// DefaultRadius is the card radius in pixels.
	DefaultRadius = pack.DefaultRadius

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// ManifestFile is the manifest name inside the output directory.
	ManifestFile = "manifest.json"

	// BacksideFile is the card back name inside the output directory.
	BacksideFile = "backside.png"
)

// CardFile returns the file name of card i (0-based), numbered from 1.
func CardFile(i int) string { return fmt.Sprintf("card_%d.png", i+1) }

// LegendFile returns the file name of legend sheet i (0-based), numbered from 1.
func LegendFile(i int) string { return fmt.Sprintf("legend_%d.png", i+1) }

// ValidPlaneFormats is the set of supported incidence diagram formats.
var ValidPlaneFormats = map[string]bool{
	plane.FormatSVG: true,
	plane.FormatPNG: true,
	plane.FormatDOT: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the deck pipeline. It can be
// loaded from a TOML file with [LoadConfig].
type Options struct {
	// Input options
	SymbolsDir string `json:"symbols_dir" toml:"symbols"`
	NamesFile  string `json:"names_file,omitempty" toml:"names"`

	// Deck options
	SymbolsPerCard int `json:"symbols_per_card" toml:"symbols_per_card"`

	// Packing options
	Iterations   int          `json:"iterations" toml:"iterations"`
	Radius       float64      `json:"radius" toml:"radius"`
	Seed         uint64       `json:"seed" toml:"seed"`
	InitialScale float64      `json:"initial_scale,omitempty" toml:"initial_scale"`
	Weights      pack.Weights `json:"weights,omitempty" toml:"weights"`
	Workers      int          `json:"workers,omitempty" toml:"workers"`
	KeepGoing    bool         `json:"keep_going,omitempty" toml:"keep_going"`
	Refresh      bool         `json:"refresh,omitempty" toml:"refresh"` // Ignore cached layouts
	// Anchors pins the first starting positions as [x, y] canvas pixels.
	Anchors [][2]int `json:"anchors,omitempty" toml:"anchors"`
	// CardTimeout bounds the search per card; the best layout found so far
	// is kept when it expires. Zero means no limit.
	CardTimeout time.Duration `json:"card_timeout,omitempty" toml:"card_timeout"`

	// Output options
	OutputDir     string  `json:"output_dir" toml:"out"`
	Border        float64 `json:"border,omitempty" toml:"border"` // Card border width in pixels
	Legend        bool    `json:"legend,omitempty" toml:"legend"`
	Backside      bool    `json:"backside,omitempty" toml:"backside"`
	BacksideFront string  `json:"backside_front,omitempty" toml:"backside_front"`
	BacksideBack  string  `json:"backside_back,omitempty" toml:"backside_back"`
	Plane         string  `json:"plane,omitempty" toml:"plane"` // Incidence diagram format, empty for none

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Table is the deck design.
	Table deck.Table

	// Cards holds one entry per card in deck order.
	Cards []CardResult

	// Manifest is the record written to manifest.json.
	Manifest *sink.Manifest

	// Files lists every written file.
	Files []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cards      int
	Failed     int
	CacheHits  int
	Accepted   int
	Coverage   float64 // Mean coverage of the packed cards
	DesignTime time.Duration
	LoadTime   time.Duration
	PackTime   time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateOrder checks that symbolsPerCard yields a projective-plane deck.
func ValidateOrder(symbolsPerCard int) error {
	if symbolsPerCard < 3 || !deck.IsPrime(symbolsPerCard-1) {
		return errors.New(errors.ErrCodeInvalidOrder,
			"%d symbols per card is not supported: symbols per card minus one must be prime", symbolsPerCard)
	}
	return nil
}

// ValidatePlaneFormat checks that a diagram format is valid.
func ValidatePlaneFormat(format string) error {
	if !ValidPlaneFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid plane format: %q (must be one of: svg, png, dot)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.SymbolsDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "symbols directory is required")
	}
	if o.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output directory is required")
	}
	if err := o.ValidateForDesign(); err != nil {
		return err
	}
	if err := o.ValidateForPack(); err != nil {
		return err
	}
	if o.Plane != "" {
		if err := ValidatePlaneFormat(o.Plane); err != nil {
			return err
		}
	}
	if o.Border < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "border cannot be negative, got %v", o.Border)
	}
	o.validated = true
	return nil
}

// SetDesignDefaults sets default values for deck design.
func (o *Options) SetDesignDefaults() {
	if o.SymbolsPerCard == 0 {
		o.SymbolsPerCard = DefaultSymbolsPerCard
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForDesign validates and sets defaults for deck design.
func (o *Options) ValidateForDesign() error {
	o.SetDesignDefaults()
	return ValidateOrder(o.SymbolsPerCard)
}

// SetPackDefaults sets default values for packing.
func (o *Options) SetPackDefaults() {
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForPack validates and sets defaults for packing.
func (o *Options) ValidateForPack() error {
	o.SetPackDefaults()
	if o.CardTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "card timeout cannot be negative, got %v", o.CardTimeout)
	}
	if err := o.PackOptions().WithDefaults().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "packing options")
	}
	return nil
}

// PackOptions returns the packer configuration for one card.
func (o *Options) PackOptions() pack.Options {
	return pack.Options{
		Radius:       o.Radius,
		Iterations:   o.Iterations,
		InitialScale: o.InitialScale,
		Weights:      o.Weights,
		Anchors:      anchorPoints(o.Anchors),
	}
}

func anchorPoints(in [][2]int) []image.Point {
	if len(in) == 0 {
		return nil
	}
	out := make([]image.Point, len(in))
	for i, a := range in {
		out[i] = image.Pt(a[0], a[1])
	}
	return out
}

// LayoutKeyOpts returns cache key options for card i with the given symbol
// content hashes.
func (o *Options) LayoutKeyOpts(card int, symbolHashes []string) cache.LayoutKeyOpts {
	p := o.PackOptions().WithDefaults()
	return cache.LayoutKeyOpts{
		Symbols:    symbolHashes,
		Seed:       o.Seed,
		Card:       card,
		Iterations: p.Iterations,
		Radius:     p.Radius,
		Params: fmt.Sprintf("scale=%v weights=%d/%d/%d jitter=%d/%d/%v/%v anchors=%v",
			p.InitialScale, p.Weights.Rotate, p.Weights.Rescale, p.Weights.Reposition,
			p.AngleJitter, p.PositionJitter, p.Scale.Min, p.Scale.Max, p.Anchors),
	}
}
