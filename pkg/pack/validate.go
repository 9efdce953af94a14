package pack

import (
	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// Validate recomputes every footprint of l from scratch and checks that each
// lies inside the circle and that no two overlap. It returns an
// INVARIANT_VIOLATION error naming the first offending symbol.
func Validate(l *Layout, symbols []*symbol.Symbol) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvariant, "nil layout")
	}
	if len(l.Placements) != len(symbols) {
		return errors.New(errors.ErrCodeInvariant,
			"layout has %d placements for %d symbols", len(l.Placements), len(symbols))
	}
	occ := newOccupancy(l.Canvas)
	for i, pl := range l.Placements {
		if pl.Scale <= 0 {
			return errors.New(errors.ErrCodeInvariant, "symbol %d has scale %v", i, pl.Scale)
		}
		f := symbol.NewFootprint(symbols[i], pl.Position, pl.Angle, pl.Scale)
		if !insideCircle(f.Bounds(), l.Center, l.Radius) {
			return errors.New(errors.ErrCodeInvariant, "symbol %d at %v leaves the circle", i, f.Bounds())
		}
		if occ.collides(f, nil) {
			return errors.New(errors.ErrCodeInvariant, "symbol %d at %v overlaps another symbol", i, f.Bounds())
		}
		occ.add(f)
	}
	return nil
}
