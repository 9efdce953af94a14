package pack

import (
	"encoding/json"
	"image"
	"math"
)

// Placement is the geometry of one symbol on one card. Position is the
// top-left corner of the transformed symbol's bounding box.
type Placement struct {
	Position image.Point
	Angle    float64 // degrees, counter-clockwise
	Scale    float64 // applied before rotation
}

// Layout is a validated set of placements for one card.
type Layout struct {
	Radius     float64
	Center     image.Point
	Canvas     image.Point
	Placements []Placement
	// Sizes holds the footprint rectangle size of each placement.
	Sizes []image.Point
	// Covered is the number of pixels occupied by symbols.
	Covered int
}

// Coverage returns the fraction of the card circle covered by symbol pixels.
func (l *Layout) Coverage() float64 {
	area := math.Pi * l.Radius * l.Radius
	if area == 0 {
		return 0
	}
	return float64(l.Covered) / area
}

// Bounds returns the footprint rectangle of placement i in canvas coordinates.
func (l *Layout) Bounds(i int) image.Rectangle {
	p := l.Placements[i].Position
	return image.Rectangle{Min: p, Max: p.Add(l.Sizes[i])}
}

type placementJSON struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Angle  float64 `json:"angle"`
	Scale  float64 `json:"scale"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

type layoutJSON struct {
	Radius     float64         `json:"radius"`
	CenterX    int             `json:"center_x"`
	CenterY    int             `json:"center_y"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Covered    int             `json:"covered"`
	Placements []placementJSON `json:"placements"`
}

// MarshalJSON encodes the layout in the manifest format.
func (l *Layout) MarshalJSON() ([]byte, error) {
	out := layoutJSON{
		Radius:     l.Radius,
		CenterX:    l.Center.X,
		CenterY:    l.Center.Y,
		Width:      l.Canvas.X,
		Height:     l.Canvas.Y,
		Covered:    l.Covered,
		Placements: make([]placementJSON, len(l.Placements)),
	}
	for i, p := range l.Placements {
		pj := placementJSON{X: p.Position.X, Y: p.Position.Y, Angle: p.Angle, Scale: p.Scale}
		if i < len(l.Sizes) {
			pj.Width, pj.Height = l.Sizes[i].X, l.Sizes[i].Y
		}
		out.Placements[i] = pj
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a layout. The result is not validated against any
// symbols; use [Validate] before trusting it.
func (l *Layout) UnmarshalJSON(data []byte) error {
	var in layoutJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*l = Layout{
		Radius:     in.Radius,
		Center:     image.Pt(in.CenterX, in.CenterY),
		Canvas:     image.Pt(in.Width, in.Height),
		Covered:    in.Covered,
		Placements: make([]Placement, len(in.Placements)),
		Sizes:      make([]image.Point, len(in.Placements)),
	}
	for i, p := range in.Placements {
		l.Placements[i] = Placement{Position: image.Pt(p.X, p.Y), Angle: p.Angle, Scale: p.Scale}
		l.Sizes[i] = image.Pt(p.Width, p.Height)
	}
	return nil
}
