package symbol

import (
	"image"

	"github.com/disintegration/imaging"
)

// Symbol is one icon of the pool. It is immutable once created.
type Symbol struct {
	Index int
	Name  string
	img   *image.NRGBA
}

// New creates a symbol from an image. The image is copied into NRGBA form so
// later changes to img do not affect the symbol.
func New(index int, name string, img image.Image) *Symbol {
	return &Symbol{Index: index, Name: name, img: imaging.Clone(img)}
}

// Image returns the source pixels. Callers must not modify the result.
func (s *Symbol) Image() *image.NRGBA { return s.img }

// Size returns the nominal size of the symbol in pixels.
func (s *Symbol) Size() image.Point {
	return s.img.Bounds().Size()
}
