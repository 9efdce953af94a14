package pack

import (
	"context"
	stderrors "errors"
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

func square(index, side int) *symbol.Symbol {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := range side {
		for x := range side {
			img.SetNRGBA(x, y, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	return symbol.New(index, "sq", img)
}

func squares(n, side int) []*symbol.Symbol {
	out := make([]*symbol.Symbol, n)
	for i := range out {
		out[i] = square(i, side)
	}
	return out
}

func TestInsideCircle(t *testing.T) {
	center := image.Pt(500, 500)
	tests := []struct {
		name string
		r    image.Rectangle
		want bool
	}{
		{"center", image.Rect(490, 490, 510, 510), true},
		{"touching edge", image.Rect(500, 0, 500, 0), true},
		{"corner outside", image.Rect(100, 100, 200, 200), false},
		{"far outside", image.Rect(1100, 500, 1200, 600), false},
		{"large inside", image.Rect(200, 200, 800, 800), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := insideCircle(tt.r, center, 500); got != tt.want {
				t.Errorf("insideCircle(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestOccupancyCollides(t *testing.T) {
	s := square(0, 10)
	occ := newOccupancy(image.Pt(100, 100))
	a := symbol.NewFootprint(s, image.Pt(10, 10), 0, 1)
	occ.add(a)

	if !occ.collides(symbol.NewFootprint(s, image.Pt(15, 15), 0, 1), nil) {
		t.Error("overlapping footprint should collide")
	}
	if occ.collides(symbol.NewFootprint(s, image.Pt(20, 10), 0, 1), nil) {
		t.Error("adjacent footprint should not collide")
	}
	if occ.collides(a.MoveTo(image.Pt(12, 12)), &a) {
		t.Error("footprint should not collide with its own previous position")
	}
	if !occ.collides(symbol.NewFootprint(s, image.Pt(95, 50), 0, 1), nil) {
		t.Error("footprint past the canvas edge should collide")
	}

	occ.remove(a)
	if occ.collides(symbol.NewFootprint(s, image.Pt(15, 15), 0, 1), nil) {
		t.Error("removed footprint should leave no occupied pixels")
	}
}

func TestPackProducesValidLayout(t *testing.T) {
	syms := squares(8, 40)
	layout, stats, err := PackContext(context.Background(), syms, Options{Radius: 500, Iterations: 2000}, NewRand(42, 0))
	if err != nil {
		t.Fatalf("PackContext: %v", err)
	}
	if stats.Attempts != 2000 {
		t.Errorf("attempts = %d, want 2000", stats.Attempts)
	}
	if stats.AcceptedTotal() == 0 {
		t.Error("no mutation was accepted")
	}
	if len(layout.Placements) != 8 {
		t.Fatalf("placements = %d, want 8", len(layout.Placements))
	}
	if err := Validate(layout, syms); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := Validate(layout, syms); err != nil {
		t.Errorf("second Validate: %v", err)
	}
	if layout.Covered <= 0 || layout.Coverage() <= 0 || layout.Coverage() > 1 {
		t.Errorf("coverage = %v (covered %d)", layout.Coverage(), layout.Covered)
	}
	for i, pl := range layout.Placements {
		if pl.Scale <= 0 {
			t.Errorf("placement %d has scale %v", i, pl.Scale)
		}
	}
}

func TestPackerStepKeepsInvariants(t *testing.T) {
	syms := squares(6, 30)
	p, err := NewPacker(syms, Options{}, NewRand(7, 1))
	if err != nil {
		t.Fatalf("NewPacker: %v", err)
	}
	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var accepted int
	for i := range 300 {
		before := p.Layout()
		out := p.Step()
		after := p.Layout()
		if out.Accepted {
			accepted++
		} else if !slices.Equal(before.Placements, after.Placements) {
			t.Fatalf("step %d: rejected %s changed the layout", i, out.Kind)
		}
		if i%25 == 0 {
			if err := Validate(after, syms); err != nil {
				t.Fatalf("step %d: %v", i, err)
			}
		}
	}
	st := p.Stats()
	if st.Attempts != 300 {
		t.Errorf("attempts = %d, want 300", st.Attempts)
	}
	if st.AcceptedTotal() != accepted {
		t.Errorf("accepted = %d, want %d", st.AcceptedTotal(), accepted)
	}
	if err := Validate(p.Layout(), syms); err != nil {
		t.Errorf("final Validate: %v", err)
	}
}

func TestPackDeterministic(t *testing.T) {
	syms := squares(8, 40)
	a, err := Pack(syms, Options{Iterations: 200}, NewRand(42, 3))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Pack(syms, Options{Iterations: 200}, NewRand(42, 3))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Placements, b.Placements) {
		t.Error("same seed and card produced different layouts")
	}
}

func TestNewRandStreamsDiffer(t *testing.T) {
	a, b := NewRand(42, 0), NewRand(42, 1)
	same := true
	for range 8 {
		if a.Uint64() != b.Uint64() {
			same = false
		}
	}
	if same {
		t.Error("cards 0 and 1 share a random stream")
	}
}

func TestPackImpossibleInit(t *testing.T) {
	syms := squares(8, 900)
	_, err := Pack(syms, Options{InitialScale: 1, InitAttempts: 3}, NewRand(1, 0))
	if err == nil {
		t.Fatal("expected an error for symbols larger than the card")
	}
	if !errors.Is(err, errors.ErrCodePlacementExhausted) {
		t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodePlacementExhausted)
	}
	var pe *PlacementError
	if !stderrors.As(err, &pe) {
		t.Fatalf("error %v does not wrap *PlacementError", err)
	}
	if pe.Symbol != 0 {
		t.Errorf("failing symbol = %d, want 0", pe.Symbol)
	}
}

func TestPackWarnsOnDegenerateSymbol(t *testing.T) {
	syms := squares(4, 40)
	syms[2] = symbol.New(2, "blank", image.NewNRGBA(image.Rect(0, 0, 40, 40)))

	var warnings []error
	opts := Options{Iterations: 50, Warn: func(err error) { warnings = append(warnings, err) }}
	layout, err := Pack(syms, opts, NewRand(3, 0))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one", warnings)
	}
	if !errors.Is(warnings[0], errors.ErrCodeDegenerateSymbol) {
		t.Errorf("warning code = %s", errors.GetCode(warnings[0]))
	}
	if err := Validate(layout, syms); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestPackNoRefinement(t *testing.T) {
	syms := squares(8, 40)
	layout, stats, err := PackContext(context.Background(), syms, Options{Iterations: NoRefinement}, NewRand(42, 0))
	if err != nil {
		t.Fatalf("PackContext: %v", err)
	}
	if stats.Attempts != 0 {
		t.Errorf("attempts = %d, want 0", stats.Attempts)
	}
	if err := Validate(layout, syms); err != nil {
		t.Errorf("starting layout invalid: %v", err)
	}
	if got := (Options{Iterations: NoRefinement}).WithDefaults().Iterations; got != NoRefinement {
		t.Errorf("WithDefaults changed NoRefinement to %d", got)
	}
	if got := (Options{}).WithDefaults().Iterations; got != DefaultIterations {
		t.Errorf("zero iterations defaulted to %d, want %d", got, DefaultIterations)
	}
}

func TestAnchors(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		anchors []image.Point
		want    []image.Point
	}{
		{"grid only", 3, nil, []image.Point{{200, 200}, {400, 200}, {600, 200}}},
		{"partial override", 2, []image.Point{{200, 200}}, []image.Point{{200, 200}, {400, 200}}},
		{"override skips its slots", 3, []image.Point{{150, 150}, {850, 850}}, []image.Point{{150, 150}, {850, 850}, {600, 200}}},
		{"override truncated", 1, []image.Point{{10, 10}, {20, 20}}, []image.Point{{10, 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := anchors(tt.n, Options{Anchors: tt.anchors}.WithDefaults())
			if !slices.Equal(got, tt.want) {
				t.Errorf("anchors = %v, want %v", got, tt.want)
			}
		})
	}

	ring := anchors(10, Options{}.WithDefaults())
	if len(ring) != 10 {
		t.Fatalf("len = %d, want 10", len(ring))
	}
	for i, a := range ring {
		for _, b := range ring[i+1:] {
			if a == b {
				t.Errorf("anchor %v repeated", a)
			}
		}
	}
}

func TestPackPartialAnchors(t *testing.T) {
	syms := squares(2, 40)
	opts := Options{Iterations: NoRefinement, Anchors: []image.Point{{200, 200}}}
	layout, err := Pack(syms, opts, NewRand(42, 0))
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	var got []image.Point
	for _, pl := range layout.Placements {
		got = append(got, pl.Position)
	}
	slices.SortFunc(got, func(a, b image.Point) int { return a.X - b.X })
	want := []image.Point{{200, 200}, {400, 200}}
	if !slices.Equal(got, want) {
		t.Errorf("positions = %v, want %v", got, want)
	}
}

func TestPackContextCancelled(t *testing.T) {
	syms := squares(8, 40)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	layout, stats, err := PackContext(ctx, syms, Options{}, NewRand(42, 0))
	if err != nil {
		t.Fatalf("PackContext: %v", err)
	}
	if stats.Attempts != 0 {
		t.Errorf("attempts = %d after cancellation, want 0", stats.Attempts)
	}
	if err := Validate(layout, syms); err != nil {
		t.Errorf("initial layout invalid: %v", err)
	}
	for i, pl := range layout.Placements {
		if pl.Scale != DefaultInitialScale {
			t.Errorf("placement %d scale = %v, want %v", i, pl.Scale, DefaultInitialScale)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	syms := squares(2, 100)
	base := func() *Layout {
		return &Layout{
			Radius: 500,
			Center: image.Pt(500, 500),
			Canvas: image.Pt(1000, 1000),
			Placements: []Placement{
				{Position: image.Pt(300, 300), Scale: 1},
				{Position: image.Pt(600, 600), Scale: 1},
			},
		}
	}
	if err := Validate(base(), syms); err != nil {
		t.Fatalf("base layout: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Layout)
	}{
		{"overlap", func(l *Layout) { l.Placements[1].Position = image.Pt(350, 350) }},
		{"outside circle", func(l *Layout) { l.Placements[0].Position = image.Pt(10, 10) }},
		{"zero scale", func(l *Layout) { l.Placements[0].Scale = 0 }},
		{"missing placement", func(l *Layout) { l.Placements = l.Placements[:1] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base()
			tt.modify(l)
			err := Validate(l, syms)
			if !errors.Is(err, errors.ErrCodeInvariant) {
				t.Errorf("Validate = %v, want %s", err, errors.ErrCodeInvariant)
			}
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative radius", Options{Radius: -1}},
		{"iterations below NoRefinement", Options{Iterations: -5}},
		{"negative weights", Options{Weights: Weights{Rotate: -1, Rescale: 1}}},
		{"scale jitter collapses", Options{Scale: ScaleJitter{Min: -1, Max: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.WithDefaults().Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if err := (Options{}).WithDefaults().Validate(); err != nil {
		t.Errorf("defaults: %v", err)
	}
}

func TestMutationString(t *testing.T) {
	for m, want := range map[Mutation]string{
		MutationRotate:     "rotate",
		MutationRescale:    "rescale",
		MutationReposition: "reposition",
		Mutation(9):        "mutation(9)",
	} {
		if got := m.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(m), got, want)
		}
	}
}
