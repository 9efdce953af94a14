package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Card back defaults.
var (
	DefaultBacksideFace   = color.NRGBA{R: 160, G: 20, B: 20, A: 255}
	DefaultBacksideBorder = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
)

const (
	DefaultBacksideDiameter    = 500
	DefaultBacksideBorderWidth = 20
)

// Decoration is an image pasted onto the card back, scaled from its
// original size with its top-left corner at Position.
type Decoration struct {
	Image    image.Image
	Position image.Point
	Scale    float64
}

// BacksideOption configures card back rendering.
type BacksideOption func(*backsideRenderer)

type backsideRenderer struct {
	diameter    int
	face        color.Color
	border      color.Color
	borderWidth int
	decorations []Decoration
}

// WithBacksideDiameter sets the card diameter in pixels.
func WithBacksideDiameter(d int) BacksideOption {
	return func(r *backsideRenderer) { r.diameter = d }
}

// WithBacksideColors sets the face and border colours.
func WithBacksideColors(face, border color.Color) BacksideOption {
	return func(r *backsideRenderer) { r.face, r.border = face, border }
}

// WithBacksideBorderWidth sets the border ring width in pixels.
func WithBacksideBorderWidth(w int) BacksideOption {
	return func(r *backsideRenderer) { r.borderWidth = w }
}

// WithDecorations adds images drawn over the face, in order.
func WithDecorations(d ...Decoration) BacksideOption {
	return func(r *backsideRenderer) { r.decorations = append(r.decorations, d...) }
}

// RenderBackside draws a bordered disc and pastes the decorations on it.
func RenderBackside(opts ...BacksideOption) *image.NRGBA {
	r := backsideRenderer{
		diameter:    DefaultBacksideDiameter,
		face:        DefaultBacksideFace,
		border:      DefaultBacksideBorder,
		borderWidth: DefaultBacksideBorderWidth,
	}
	for _, opt := range opts {
		opt(&r)
	}

	d := float64(r.diameter)
	dc := gg.NewContext(r.diameter, r.diameter)
	dc.DrawCircle(d/2, d/2, d/2)
	dc.SetColor(r.border)
	dc.Fill()
	dc.DrawCircle(d/2, d/2, d/2-float64(r.borderWidth))
	dc.SetColor(r.face)
	dc.Fill()

	back := imaging.Clone(dc.Image())
	for _, dec := range r.decorations {
		if dec.Image == nil || dec.Scale <= 0 {
			continue
		}
		b := dec.Image.Bounds()
		w, h := int(float64(b.Dx())*dec.Scale), int(float64(b.Dy())*dec.Scale)
		if w < 1 || h < 1 {
			continue
		}
		back = imaging.Overlay(back, imaging.Resize(dec.Image, w, h, imaging.Lanczos), dec.Position, 1.0)
	}
	return back
}
