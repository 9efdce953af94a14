package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/pack"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// CardOption configures card face rendering.
type CardOption func(*cardRenderer)

type cardRenderer struct {
	face        color.Color
	border      color.Color
	borderWidth float64
}

// WithFace sets the fill colour of the card disc (default white).
func WithFace(c color.Color) CardOption { return func(r *cardRenderer) { r.face = c } }

// WithBorder draws a ring of width w just inside the card edge.
func WithBorder(c color.Color, w float64) CardOption {
	return func(r *cardRenderer) { r.border, r.borderWidth = c, w }
}

// RenderCard draws the card disc and composites every symbol at its
// placement. symbols must be in layout order.
func RenderCard(l *pack.Layout, symbols []*symbol.Symbol, opts ...CardOption) (*image.NRGBA, error) {
	r := cardRenderer{face: color.White}
	for _, opt := range opts {
		opt(&r)
	}
	if l == nil || len(l.Placements) != len(symbols) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout does not match %d symbols", len(symbols))
	}

	dc := gg.NewContext(l.Canvas.X, l.Canvas.Y)
	cx, cy := float64(l.Center.X), float64(l.Center.Y)
	dc.DrawCircle(cx, cy, l.Radius)
	dc.SetColor(r.face)
	dc.Fill()
	if r.border != nil && r.borderWidth > 0 {
		dc.DrawCircle(cx, cy, l.Radius-r.borderWidth/2)
		dc.SetColor(r.border)
		dc.SetLineWidth(r.borderWidth)
		dc.Stroke()
	}

	card := imaging.Clone(dc.Image())
	for i, pl := range l.Placements {
		img := symbol.Transform(symbols[i], pl.Angle, pl.Scale)
		card = imaging.Overlay(card, img, pl.Position, 1.0)
	}
	return card, nil
}
