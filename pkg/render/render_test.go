package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/pack"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

var (
	blue = color.NRGBA{B: 255, A: 255}
	red  = color.NRGBA{R: 255, A: 255}
)

func solid(index, side int, c color.NRGBA) *symbol.Symbol {
	return symbol.New(index, "solid", imaging.New(side, side, c))
}

func TestRenderCard(t *testing.T) {
	l := &pack.Layout{
		Radius:     500,
		Center:     image.Pt(500, 500),
		Canvas:     image.Pt(1000, 1000),
		Placements: []pack.Placement{{Position: image.Pt(490, 490), Scale: 1}},
		Sizes:      []image.Point{{X: 20, Y: 20}},
	}
	card, err := RenderCard(l, []*symbol.Symbol{solid(0, 20, blue)})
	if err != nil {
		t.Fatalf("RenderCard: %v", err)
	}
	if card.Bounds() != image.Rect(0, 0, 1000, 1000) {
		t.Fatalf("bounds = %v", card.Bounds())
	}

	tests := []struct {
		name string
		at   image.Point
		want color.NRGBA
	}{
		{"symbol", image.Pt(500, 500), blue},
		{"face", image.Pt(100, 500), color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"outside circle", image.Pt(5, 5), color.NRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := card.NRGBAAt(tt.at.X, tt.at.Y); got != tt.want {
				t.Errorf("pixel %v = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestRenderCardBorder(t *testing.T) {
	l := &pack.Layout{Radius: 100, Center: image.Pt(100, 100), Canvas: image.Pt(200, 200)}
	card, err := RenderCard(l, nil, WithBorder(color.Black, 10))
	if err != nil {
		t.Fatal(err)
	}
	if got := card.NRGBAAt(100, 5); got != (color.NRGBA{A: 255}) {
		t.Errorf("border pixel = %v, want opaque black", got)
	}
	if got := card.NRGBAAt(100, 100); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("center pixel = %v, want white", got)
	}
}

func TestRenderCardMismatch(t *testing.T) {
	l := &pack.Layout{Radius: 10, Canvas: image.Pt(20, 20), Placements: make([]pack.Placement, 2)}
	_, err := RenderCard(l, []*symbol.Symbol{solid(0, 2, blue)})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestRenderLegend(t *testing.T) {
	entries := make([]LegendEntry, 19)
	for i := range entries {
		entries[i] = LegendEntry{Icon: imaging.New(80, 80, red), Label: "symbol"}
	}
	sheet, err := RenderLegend(entries)
	if err != nil {
		t.Fatalf("RenderLegend: %v", err)
	}
	if sheet.Bounds().Dx() != DefaultLegendDiameter {
		t.Fatalf("width = %d", sheet.Bounds().Dx())
	}
	// First icon of the left column: x = 25+13, y = (500 - 5*53)/2.
	if got := sheet.NRGBAAt(38+20, 117+20); got != red {
		t.Errorf("first icon pixel = %v, want %v", got, red)
	}
	if got := sheet.NRGBAAt(2, 2); got.A != 0 {
		t.Errorf("corner pixel = %v, want transparent", got)
	}
}

func TestLegendSheets(t *testing.T) {
	tests := []struct {
		entries, want int
	}{
		{0, 0},
		{1, 1},
		{19, 1},
		{20, 2},
		{57, 3},
	}
	for _, tt := range tests {
		entries := make([]LegendEntry, tt.entries)
		for i := range entries {
			entries[i] = LegendEntry{Icon: imaging.New(4, 4, red), Label: "x"}
		}
		sheets, err := LegendSheets(entries)
		if err != nil {
			t.Fatalf("LegendSheets(%d): %v", tt.entries, err)
		}
		if len(sheets) != tt.want {
			t.Errorf("LegendSheets(%d) = %d sheets, want %d", tt.entries, len(sheets), tt.want)
		}
	}
}

func TestLegendEntries(t *testing.T) {
	syms := []*symbol.Symbol{solid(0, 2, red), symbol.New(1, "tree", imaging.New(2, 2, blue))}
	entries := LegendEntries(syms)
	if len(entries) != 2 || entries[1].Label != "tree" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestTruncateLabel(t *testing.T) {
	face, err := labelFace(DefaultLabelSize)
	if err != nil {
		t.Fatal(err)
	}
	defer face.Close()

	if got := truncateLabel(face, "owl", 200); got != "owl" {
		t.Errorf("short label changed to %q", got)
	}
	long := "an extraordinarily long symbol name"
	got := truncateLabel(face, long, 60)
	if got == long || len(got) < 3 || got[len(got)-2:] != ".." {
		t.Errorf("truncateLabel = %q", got)
	}
}

func TestRenderBackside(t *testing.T) {
	back := RenderBackside()
	if back.Bounds() != image.Rect(0, 0, 500, 500) {
		t.Fatalf("bounds = %v", back.Bounds())
	}
	if got := back.NRGBAAt(250, 250); got != DefaultBacksideFace {
		t.Errorf("center = %v, want face colour", got)
	}
	if got := back.NRGBAAt(250, 10); got != DefaultBacksideBorder {
		t.Errorf("border = %v, want border colour", got)
	}
	if got := back.NRGBAAt(2, 2); got.A != 0 {
		t.Errorf("corner = %v, want transparent", got)
	}
}

func TestRenderBacksideDecorations(t *testing.T) {
	back := RenderBackside(WithDecorations(
		Decoration{Image: imaging.New(100, 100, blue), Position: image.Pt(200, 200), Scale: 0.5},
		Decoration{Image: imaging.New(100, 100, blue), Position: image.Pt(0, 0), Scale: 0},
	))
	if got := back.NRGBAAt(225, 225); got != blue {
		t.Errorf("decoration pixel = %v, want %v", got, blue)
	}
	if got := back.NRGBAAt(260, 260); got != DefaultBacksideFace {
		t.Errorf("pixel past decoration = %v, want face colour", got)
	}
}
