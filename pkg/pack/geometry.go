package pack

import (
	"image"
	"math"

	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// insideCircle reports whether all four corners of r lie within radius of
// center. Corners use the exclusive Max edge, matching the footprint size.
func insideCircle(r image.Rectangle, center image.Point, radius float64) bool {
	corners := [4]image.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Min.X, Y: r.Max.Y},
		r.Max,
	}
	for _, c := range corners {
		if math.Hypot(float64(c.X-center.X), float64(c.Y-center.Y)) > radius {
			return false
		}
	}
	return true
}

// occupancy is the union mask of all accepted footprints of one card.
// Accepted footprints never overlap, so a plain boolean grid is enough and a
// footprint can be removed by clearing its pixels.
type occupancy struct {
	canvas image.Rectangle
	mask   *symbol.Mask
}

func newOccupancy(size image.Point) *occupancy {
	return &occupancy{
		canvas: image.Rectangle{Max: size},
		mask:   symbol.NewMask(size.X, size.Y),
	}
}

// collides reports whether f overlaps any occupied pixel other than those of
// exclude. A footprint extending past the canvas is treated as colliding.
func (o *occupancy) collides(f symbol.Footprint, exclude *symbol.Footprint) bool {
	if !f.Bounds().In(o.canvas) {
		return true
	}
	hit := false
	f.Each(func(x, y int) bool {
		if o.mask.At(x, y) && (exclude == nil || !exclude.Covers(x, y)) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

func (o *occupancy) add(f symbol.Footprint) {
	o.paint(f, true)
}

func (o *occupancy) remove(f symbol.Footprint) {
	o.paint(f, false)
}

func (o *occupancy) paint(f symbol.Footprint, v bool) {
	f.Each(func(x, y int) bool {
		if image.Pt(x, y).In(o.canvas) {
			o.mask.Set(x, y, v)
		}
		return true
	})
}
