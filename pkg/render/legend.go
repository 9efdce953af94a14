package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// Legend sheet geometry.
const (
	DefaultLegendDiameter = 500
	DefaultIconSize       = 40
	DefaultLabelSize      = 12.0
	legendPadding         = 5
	legendLeftMargin      = 25
	legendIndent          = 13
)

// DefaultLegendColumns is the number of entries per column, left to right.
var DefaultLegendColumns = []int{5, 9, 5}

// LegendEntry is one icon/label pair.
type LegendEntry struct {
	Icon  image.Image
	Label string
}

// LegendEntries builds one entry per symbol, labelled with its name.
func LegendEntries(symbols []*symbol.Symbol) []LegendEntry {
	out := make([]LegendEntry, len(symbols))
	for i, s := range symbols {
		out[i] = LegendEntry{Icon: s.Image(), Label: s.Name}
	}
	return out
}

// LegendOption configures legend rendering.
type LegendOption func(*legendRenderer)

type legendRenderer struct {
	diameter  int
	iconSize  int
	labelSize float64
	columns   []int
}

// WithLegendDiameter sets the sheet diameter in pixels.
func WithLegendDiameter(d int) LegendOption { return func(r *legendRenderer) { r.diameter = d } }

// WithIconSize sets the square icon size in pixels.
func WithIconSize(s int) LegendOption { return func(r *legendRenderer) { r.iconSize = s } }

// WithLabelSize sets the label font size in pixels.
func WithLabelSize(s float64) LegendOption { return func(r *legendRenderer) { r.labelSize = s } }

// WithColumns sets the per-column entry counts.
func WithColumns(counts ...int) LegendOption { return func(r *legendRenderer) { r.columns = counts } }

func newLegendRenderer(opts []LegendOption) legendRenderer {
	r := legendRenderer{
		diameter:  DefaultLegendDiameter,
		iconSize:  DefaultIconSize,
		labelSize: DefaultLabelSize,
		columns:   DefaultLegendColumns,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r legendRenderer) capacity() int {
	n := 0
	for _, c := range r.columns {
		n += c
	}
	return n
}

// LegendSheets splits entries into sheets of one legend each.
func LegendSheets(entries []LegendEntry, opts ...LegendOption) ([]*image.NRGBA, error) {
	per := newLegendRenderer(opts).capacity()
	var sheets []*image.NRGBA
	for start := 0; start < len(entries); start += per {
		sheet, err := RenderLegend(entries[start:min(start+per, len(entries))], opts...)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

// RenderLegend draws up to one sheet of entries on a white disc. Entries
// fill the columns in order; surplus entries are ignored.
func RenderLegend(entries []LegendEntry, opts ...LegendOption) (*image.NRGBA, error) {
	r := newLegendRenderer(opts)
	face, err := labelFace(r.labelSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	d := r.diameter
	dc := gg.NewContext(d, d)
	dc.DrawCircle(float64(d)/2, float64(d)/2, float64(d)/2)
	dc.SetColor(color.White)
	dc.Fill()
	dc.SetFontFace(face)
	dc.SetColor(color.Black)

	tallest := 0
	for _, c := range r.columns {
		tallest = max(tallest, c)
	}
	rowHeight := (d - legendPadding*4) / max(1, tallest)
	colX := []int{legendLeftMargin, d/3 + legendPadding/2, 2*d/3 + legendPadding/2}
	labelWidth := d/3 - r.iconSize - 2*legendPadding - legendIndent

	type icon struct {
		img image.Image
		at  image.Point
	}
	var icons []icon

	next := 0
	for col, count := range r.columns {
		x := colX[col%len(colX)] + legendIndent
		startY := (d - count*rowHeight) / 2
		for row := 0; row < count && next < len(entries); row++ {
			e := entries[next]
			next++
			y := startY + row*rowHeight
			if e.Icon != nil {
				icons = append(icons, icon{
					img: imaging.Resize(e.Icon, r.iconSize, r.iconSize, imaging.Lanczos),
					at:  image.Pt(x, y),
				})
			}
			label := truncateLabel(face, e.Label, labelWidth)
			dc.DrawStringAnchored(label, float64(x+r.iconSize+legendPadding), float64(y+r.iconSize/2), 0, 0.5)
		}
	}

	sheet := imaging.Clone(dc.Image())
	for _, ic := range icons {
		sheet = imaging.Overlay(sheet, ic.img, ic.at, 1.0)
	}
	return sheet, nil
}
