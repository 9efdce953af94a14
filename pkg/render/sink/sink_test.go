package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/pack"
)

func TestEncodePNG(t *testing.T) {
	img := imaging.New(8, 4, color.NRGBA{R: 200, A: 255})
	for _, opts := range [][]PNGOption{nil, {WithCompression(png.BestCompression)}} {
		data, err := EncodePNG(img, opts...)
		if err != nil {
			t.Fatalf("EncodePNG: %v", err)
		}
		decoded, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.Bounds() != image.Rect(0, 0, 8, 4) {
			t.Errorf("bounds = %v", decoded.Bounds())
		}
	}
}

func TestWritePNGCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "card_1.png")
	if err := WritePNG(path, imaging.New(3, 3, color.White)); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("width = %d, want 3", img.Bounds().Dx())
	}
}

func TestManifestRoundTrip(t *testing.T) {
	table, err := deck.Generate(3)
	if err != nil {
		t.Fatal(err)
	}
	m := NewManifest(42, table)
	if m.RunID == uuid.Nil {
		t.Error("run id not set")
	}
	m.AddCard(CardEntry{
		Index:   0,
		File:    "card_1.png",
		Symbols: table.Card(0),
		Layout: &pack.Layout{
			Radius:     500,
			Center:     image.Pt(500, 500),
			Canvas:     image.Pt(1000, 1000),
			Placements: []pack.Placement{{Position: image.Pt(1, 2), Angle: 45, Scale: 0.5}},
			Sizes:      []image.Point{{X: 10, Y: 12}},
			Covered:    90,
		},
	})
	m.AddCard(CardEntry{Index: 1, Symbols: table.Card(1), Error: "PLACEMENT_EXHAUSTED: no room"})

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}

	if got.RunID != m.RunID || got.Seed != 42 || got.Version != ManifestVersion {
		t.Errorf("header = %+v", got)
	}
	if got.Table.Len() != 7 {
		t.Errorf("table cards = %d, want 7", got.Table.Len())
	}
	if len(got.Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(got.Cards))
	}
	pl := got.Cards[0].Layout.Placements[0]
	if pl.Position != image.Pt(1, 2) || pl.Angle != 45 || pl.Scale != 0.5 {
		t.Errorf("placement = %+v", pl)
	}
	if failed := got.Failed(); len(failed) != 1 || failed[0].Index != 1 {
		t.Errorf("Failed() = %+v", failed)
	}
}

func TestReadManifestErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadManifest(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"table":{"symbols_per_card":3,"symbol_count":7,"cards":[[0,1,2],[0,1,3]]}}`), 0644)
	if _, err := ReadManifest(bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("invalid table: %v", err)
	}
}
