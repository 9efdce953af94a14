package pack

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// Mutation is one kind of random change applied during refinement.
type Mutation int

const (
	MutationRotate Mutation = iota
	MutationRescale
	MutationReposition
)

func (m Mutation) String() string {
	switch m {
	case MutationRotate:
		return "rotate"
	case MutationRescale:
		return "rescale"
	case MutationReposition:
		return "reposition"
	default:
		return fmt.Sprintf("mutation(%d)", int(m))
	}
}

// Outcome reports the result of one refinement attempt.
type Outcome struct {
	Symbol   int
	Kind     Mutation
	Accepted bool
}

// Stats counts refinement attempts per mutation kind.
type Stats struct {
	Attempts int
	Accepted [3]int
	Rejected [3]int
}

// AcceptedTotal returns the number of committed mutations.
func (s Stats) AcceptedTotal() int {
	return s.Accepted[0] + s.Accepted[1] + s.Accepted[2]
}

func (s *Stats) record(o Outcome) {
	s.Attempts++
	if o.Accepted {
		s.Accepted[o.Kind]++
	} else {
		s.Rejected[o.Kind]++
	}
}

// PlacementError reports that a card could not be given a valid starting
// configuration. Symbol is the position (within the card) of the first
// symbol that could not be placed.
type PlacementError struct {
	Symbol int
	Reason string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("cannot place symbol %d: %s", e.Symbol, e.Reason)
}

// Packer runs the search for one card. It is not safe for concurrent use;
// pack different cards with different Packers.
type Packer struct {
	symbols    []*symbol.Symbol
	opts       Options
	rng        *rand.Rand
	placements []Placement
	footprints []symbol.Footprint
	occ        *occupancy
	stats      Stats
	ready      bool
}

// NewPacker prepares a search for symbols. rng must not be shared with another
// running Packer.
func NewPacker(symbols []*symbol.Symbol, opts Options, rng *rand.Rand) (*Packer, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no symbols to pack")
	}
	if rng == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "random source is required")
	}
	return &Packer{symbols: symbols, opts: opts, rng: rng}, nil
}

// Init places every symbol on the starting grid and validates the result.
// It tries up to InitAttempts shuffles and returns a PLACEMENT_EXHAUSTED
// error wrapping a *PlacementError if none is valid.
func (p *Packer) Init() error {
	var last *PlacementError
	for range p.opts.InitAttempts {
		if last = p.tryInit(); last == nil {
			p.ready = true
			p.reportDegenerate()
			return nil
		}
	}
	return errors.Wrap(errors.ErrCodePlacementExhausted, last,
		"no valid starting layout for %d symbols in radius %v", len(p.symbols), p.opts.Radius)
}

func (p *Packer) tryInit() *PlacementError {
	n := len(p.symbols)
	positions := anchors(n, p.opts)
	angles := startAngles(n)
	p.rng.Shuffle(len(positions), func(i, j int) { positions[i], positions[j] = positions[j], positions[i] })
	p.rng.Shuffle(len(angles), func(i, j int) { angles[i], angles[j] = angles[j], angles[i] })

	p.placements = make([]Placement, n)
	p.footprints = make([]symbol.Footprint, n)
	p.occ = newOccupancy(p.opts.Canvas)

	for i, s := range p.symbols {
		pl := Placement{Position: positions[i], Angle: angles[i], Scale: p.opts.InitialScale}
		f := symbol.NewFootprint(s, pl.Position, pl.Angle, pl.Scale)
		if !insideCircle(f.Bounds(), p.opts.Center, p.opts.Radius) {
			return &PlacementError{Symbol: i, Reason: fmt.Sprintf("footprint %v leaves the circle", f.Bounds())}
		}
		if p.occ.collides(f, nil) {
			return &PlacementError{Symbol: i, Reason: fmt.Sprintf("footprint %v overlaps another symbol", f.Bounds())}
		}
		p.placements[i] = pl
		p.footprints[i] = f
		p.occ.add(f)
	}
	return nil
}

func (p *Packer) reportDegenerate() {
	for i, f := range p.footprints {
		if f.Empty() {
			p.opts.Warn(errors.New(errors.ErrCodeDegenerateSymbol,
				"symbol %d (%s) has no opaque pixels", i, p.symbols[i].Name))
		}
	}
}

// Step performs one mutate → validate → commit-or-rollback transition.
// Init must have succeeded.
func (p *Packer) Step() Outcome {
	if !p.ready {
		panic("pack: Step called before a successful Init")
	}
	i := p.rng.IntN(len(p.symbols))
	kind := p.opts.Weights.pick(p.rng)
	old := p.placements[i]
	next := p.mutate(old, kind)

	out := Outcome{Symbol: i, Kind: kind}
	var f symbol.Footprint
	if kind == MutationReposition {
		f = p.footprints[i].MoveTo(next.Position)
	} else if next.Scale > 0 {
		f = symbol.NewFootprint(p.symbols[i], next.Position, next.Angle, next.Scale)
	} else {
		p.stats.record(out)
		return out
	}

	if insideCircle(f.Bounds(), p.opts.Center, p.opts.Radius) && !p.occ.collides(f, &p.footprints[i]) {
		p.occ.remove(p.footprints[i])
		p.occ.add(f)
		p.placements[i] = next
		p.footprints[i] = f
		out.Accepted = true
	}
	p.stats.record(out)
	return out
}

func (p *Packer) mutate(pl Placement, kind Mutation) Placement {
	switch kind {
	case MutationRotate:
		pl.Angle += float64(jitter(p.rng, p.opts.AngleJitter))
	case MutationRescale:
		j := p.opts.Scale
		pl.Scale *= 1 + j.Min + p.rng.Float64()*(j.Max-j.Min)
	default:
		pl.Position.X += jitter(p.rng, p.opts.PositionJitter)
		pl.Position.Y += jitter(p.rng, p.opts.PositionJitter)
	}
	return pl
}

// jitter draws uniformly from [-n, n].
func jitter(rng *rand.Rand, n int) int {
	return rng.IntN(2*n+1) - n
}

// Layout returns a snapshot of the last committed state.
func (p *Packer) Layout() *Layout {
	l := &Layout{
		Radius:     p.opts.Radius,
		Center:     p.opts.Center,
		Canvas:     p.opts.Canvas,
		Placements: make([]Placement, len(p.placements)),
		Sizes:      make([]image.Point, len(p.footprints)),
	}
	copy(l.Placements, p.placements)
	for i, f := range p.footprints {
		l.Sizes[i] = f.Size()
		l.Covered += f.Count()
	}
	return l
}

// Stats returns the refinement counters so far.
func (p *Packer) Stats() Stats { return p.stats }

// Pack runs the full search for one card and returns the final layout.
func Pack(symbols []*symbol.Symbol, opts Options, rng *rand.Rand) (*Layout, error) {
	l, _, err := PackContext(context.Background(), symbols, opts, rng)
	return l, err
}

// PackContext is [Pack] with early stopping: when ctx is done the refinement
// loop ends and the last committed layout is returned without error.
func PackContext(ctx context.Context, symbols []*symbol.Symbol, opts Options, rng *rand.Rand) (*Layout, Stats, error) {
	p, err := NewPacker(symbols, opts, rng)
	if err != nil {
		return nil, Stats{}, err
	}
	if err := p.Init(); err != nil {
		return nil, Stats{}, err
	}
	for range max(0, p.opts.Iterations) {
		if ctx.Err() != nil {
			break
		}
		p.Step()
	}
	return p.Layout(), p.Stats(), nil
}

// anchorGrid is the starting grid on a 1000×1000 canvas.
var anchorGrid = []image.Point{
	{200, 200}, {400, 200}, {600, 200}, {100, 400},
	{300, 400}, {500, 400}, {700, 400}, {500, 600},
}

// anchors returns n starting positions: explicit anchors first, then the
// remaining default grid slots scaled to the canvas, then points on a ring
// around the center.
func anchors(n int, opts Options) []image.Point {
	out := make([]image.Point, 0, n)
	out = append(out, opts.Anchors[:min(n, len(opts.Anchors))]...)
	for _, a := range anchorGrid[min(len(opts.Anchors), len(anchorGrid)):] {
		if len(out) == n {
			return out
		}
		out = append(out, image.Pt(a.X*opts.Canvas.X/1000, a.Y*opts.Canvas.Y/1000))
	}
	extra := n - len(out)
	for k := range extra {
		theta := 2 * math.Pi * float64(k) / float64(extra)
		r := 0.6 * opts.Radius
		out = append(out, image.Pt(
			opts.Center.X+int(r*math.Cos(theta)),
			opts.Center.Y+int(r*math.Sin(theta)),
		))
	}
	return out
}

func startAngles(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(45 * (i % 8))
	}
	return out
}
