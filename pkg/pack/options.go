package pack

import (
	"image"
	"math/rand/v2"

	"github.com/matzehuels/spotdeck/pkg/errors"
)

// Default search parameters.
const (
	DefaultIterations     = 2000
	DefaultRadius         = 500.0
	DefaultInitialScale   = 0.1
	DefaultAngleJitter    = 10
	DefaultPositionJitter = 10
	DefaultInitAttempts   = 1
)

// NoRefinement as Options.Iterations skips the refinement loop, so the
// returned layout is the validated starting configuration.
const NoRefinement = -1

// Weights are the relative probabilities of the three mutation kinds.
// They are tuning knobs, not part of the validity contract.
type Weights struct {
	Rotate     int `json:"rotate" toml:"rotate"`
	Rescale    int `json:"rescale" toml:"rescale"`
	Reposition int `json:"reposition" toml:"reposition"`
}

// DefaultWeights favours small moves: 1/10 rotate, 3/10 rescale, 6/10 move.
var DefaultWeights = Weights{Rotate: 1, Rescale: 3, Reposition: 6}

func (w Weights) total() int { return w.Rotate + w.Rescale + w.Reposition }

// pick maps a uniform draw to a mutation kind.
func (w Weights) pick(rng *rand.Rand) Mutation {
	r := rng.IntN(w.total())
	switch {
	case r < w.Rotate:
		return MutationRotate
	case r < w.Rotate+w.Rescale:
		return MutationRescale
	default:
		return MutationReposition
	}
}

// ScaleJitter bounds the relative scale change of one rescale mutation: the
// scale is multiplied by 1 + u with u drawn uniformly from [Min, Max].
type ScaleJitter struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

// DefaultScaleJitter shrinks by at most 10% and grows by at most 100%.
var DefaultScaleJitter = ScaleJitter{Min: -0.1, Max: 1.0}

// Options configures a packing run. The zero value of every field selects
// its default; call [Options.WithDefaults] to see the effective values.
type Options struct {
	// Radius of the card circle in pixels.
	Radius float64
	// Center of the card circle. Defaults to the canvas center.
	Center image.Point
	// Canvas size. Defaults to a square of side 2*Radius.
	Canvas image.Point
	// Iterations is the number of refinement attempts. Zero selects
	// DefaultIterations; use NoRefinement for an init-only layout.
	Iterations int
	// InitialScale is the scale every symbol starts with.
	InitialScale float64
	// InitAttempts is how many shuffled starting grids are tried before
	// giving up with a PlacementError.
	InitAttempts int
	// AngleJitter is the maximum rotation of one mutation, in degrees.
	AngleJitter int
	// PositionJitter is the maximum move of one mutation along each axis.
	PositionJitter int
	Scale          ScaleJitter
	Weights        Weights
	// Anchors overrides the first starting positions, in canvas pixels.
	// Grid slots past len(Anchors) fill in the rest.
	Anchors []image.Point
	// Warn receives non-fatal problems such as degenerate symbols.
	Warn func(error)
}

// WithDefaults returns a copy of o with every unset field defaulted.
func (o Options) WithDefaults() Options {
	if o.Radius == 0 {
		o.Radius = DefaultRadius
	}
	if o.Canvas == (image.Point{}) {
		side := int(2 * o.Radius)
		o.Canvas = image.Pt(side, side)
	}
	if o.Center == (image.Point{}) {
		o.Center = image.Pt(o.Canvas.X/2, o.Canvas.Y/2)
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.InitialScale == 0 {
		o.InitialScale = DefaultInitialScale
	}
	if o.InitAttempts == 0 {
		o.InitAttempts = DefaultInitAttempts
	}
	if o.AngleJitter == 0 {
		o.AngleJitter = DefaultAngleJitter
	}
	if o.PositionJitter == 0 {
		o.PositionJitter = DefaultPositionJitter
	}
	if o.Scale == (ScaleJitter{}) {
		o.Scale = DefaultScaleJitter
	}
	if o.Weights == (Weights{}) {
		o.Weights = DefaultWeights
	}
	if o.Warn == nil {
		o.Warn = func(error) {}
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("radius", o.Radius); err != nil {
		return err
	}
	if o.Canvas.X <= 0 || o.Canvas.Y <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas size must be positive, got %v", o.Canvas)
	}
	if o.Iterations < NoRefinement {
		return errors.New(errors.ErrCodeInvalidInput, "iterations must be %d or more, got %d", NoRefinement, o.Iterations)
	}
	if err := errors.ValidatePositive("initial scale", o.InitialScale); err != nil {
		return err
	}
	if o.InitAttempts < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "init attempts must be at least 1, got %d", o.InitAttempts)
	}
	if o.AngleJitter < 0 || o.PositionJitter < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "jitter cannot be negative")
	}
	if o.Scale.Min <= -1 || o.Scale.Max < o.Scale.Min {
		return errors.New(errors.ErrCodeInvalidInput, "invalid scale jitter [%v, %v]", o.Scale.Min, o.Scale.Max)
	}
	w := o.Weights
	if w.Rotate < 0 || w.Rescale < 0 || w.Reposition < 0 || w.total() == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "mutation weights must be non-negative and not all zero")
	}
	return nil
}

// NewRand returns the PCG source used for card i of a run seeded with seed.
// Each card gets an independent, reproducible stream.
func NewRand(seed uint64, card int) *rand.Rand {
	stream := uint64(card)*0x9e3779b97f4a7c15 + 1
	return rand.New(rand.NewPCG(seed, seed^stream^0xdeadbeef))
}
