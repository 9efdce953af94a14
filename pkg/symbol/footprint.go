package symbol

import "image"

// Footprint is the occupancy of one placed symbol: a mask over the bounding
// rectangle of the transformed image, anchored at Origin on the card canvas.
type Footprint struct {
	Origin image.Point
	mask   *Mask
}

// NewFootprint computes the footprint of sym placed with its top-left corner
// at pos, rotated by angle degrees and scaled by scale.
func NewFootprint(sym *Symbol, pos image.Point, angle, scale float64) Footprint {
	return Footprint{Origin: pos, mask: alphaMask(Transform(sym, angle, scale))}
}

// MoveTo returns the same footprint anchored at pos. The mask depends only on
// angle and scale, so a pure translation reuses it.
func (f Footprint) MoveTo(pos image.Point) Footprint {
	return Footprint{Origin: pos, mask: f.mask}
}

// Bounds returns the footprint rectangle in canvas coordinates.
func (f Footprint) Bounds() image.Rectangle {
	return image.Rect(f.Origin.X, f.Origin.Y, f.Origin.X+f.mask.W, f.Origin.Y+f.mask.H)
}

// Size returns the width and height of the footprint rectangle.
func (f Footprint) Size() image.Point {
	return image.Pt(f.mask.W, f.mask.H)
}

// Covers reports whether the canvas pixel (x, y) is occupied by the footprint.
func (f Footprint) Covers(x, y int) bool {
	return f.mask.At(x-f.Origin.X, y-f.Origin.Y)
}

// Count returns the number of occupied pixels.
func (f Footprint) Count() int { return f.mask.Count() }

// Empty reports whether no pixel is occupied.
func (f Footprint) Empty() bool { return f.Count() == 0 }

// Each calls fn for every occupied pixel in canvas coordinates, stopping early
// when fn returns false.
func (f Footprint) Each(fn func(x, y int) bool) {
	m := f.mask
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.bits[y*m.W+x] && !fn(f.Origin.X+x, f.Origin.Y+y) {
				return
			}
		}
	}
}
