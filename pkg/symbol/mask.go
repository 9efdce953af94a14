package symbol

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Mask is a boolean occupancy grid. Set bits mark opaque pixels.
type Mask struct {
	W, H int
	bits []bool
}

// NewMask allocates an empty mask of the given size.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, bits: make([]bool, w*h)}
}

// At reports whether the pixel at (x, y) is set. Out-of-range reads are false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.bits[y*m.W+x]
}

// Set sets or clears the pixel at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.bits[y*m.W+x] = v
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// alphaMask thresholds the alpha channel of img: any non-zero alpha is set.
func alphaMask(img *image.NRGBA) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.H; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < m.W; x++ {
			m.bits[y*m.W+x] = row[x*4+3] > 0
		}
	}
	return m
}

// Transform scales sym by scale and then rotates it counter-clockwise by angle
// degrees. Rotation expands the bounding box, never crops. The scaled size is
// truncated toward zero and clamped to at least one pixel.
func Transform(sym *Symbol, angle, scale float64) *image.NRGBA {
	size := sym.Size()
	w := max(1, int(float64(size.X)*scale))
	h := max(1, int(float64(size.Y)*scale))

	scaled := imaging.Resize(sym.img, w, h, imaging.Lanczos)
	if a := math.Mod(angle, 360); a == 0 {
		return scaled
	}
	return imaging.Rotate(scaled, angle, color.Transparent)
}

// Thumbnail scales img to fit a size×size box, preserving aspect ratio. Used by
// the legend and the terminal browser where exact footprints do not matter.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	b := img.Bounds()
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, b.Dy()*size/b.Dx())
	} else if b.Dy() > 0 {
		w = max(1, b.Dx()*size/b.Dy())
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
