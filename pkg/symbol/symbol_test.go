package symbol

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/spotdeck/pkg/errors"
)

func opaque(w, h int) image.Image {
	return imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
}

func TestTransformScale(t *testing.T) {
	s := New(0, "square", opaque(400, 200))

	img := Transform(s, 0, 0.1)
	if got := img.Bounds().Size(); got != image.Pt(40, 20) {
		t.Errorf("scaled size = %v, want (40,20)", got)
	}

	img = Transform(s, 0, 0.0001)
	if got := img.Bounds().Size(); got != image.Pt(1, 1) {
		t.Errorf("tiny scale size = %v, want (1,1)", got)
	}
}

func TestTransformRotateExpands(t *testing.T) {
	s := New(0, "bar", opaque(20, 10))

	img := Transform(s, 90, 1)
	if got := img.Bounds().Size(); got != image.Pt(10, 20) {
		t.Errorf("rotated size = %v, want (10,20)", got)
	}

	img = Transform(s, 45, 1)
	if got := img.Bounds().Size(); got.X <= 20 || got.Y <= 10 {
		t.Errorf("45° rotation should expand the box, got %v", got)
	}

	img = Transform(s, 360, 1)
	if got := img.Bounds().Size(); got != image.Pt(20, 10) {
		t.Errorf("full turn size = %v, want (20,10)", got)
	}
}

func TestFootprintOpaque(t *testing.T) {
	s := New(0, "square", opaque(400, 400))
	f := NewFootprint(s, image.Pt(100, 50), 0, 0.1)

	if f.Bounds() != image.Rect(100, 50, 140, 90) {
		t.Errorf("Bounds = %v", f.Bounds())
	}
	if f.Count() != 40*40 {
		t.Errorf("Count = %d, want %d", f.Count(), 40*40)
	}
	if !f.Covers(100, 50) || !f.Covers(139, 89) {
		t.Error("corners should be covered")
	}
	if f.Covers(140, 50) || f.Covers(99, 50) {
		t.Error("pixels outside the rectangle should not be covered")
	}
}

func TestFootprintTransparentIsEmpty(t *testing.T) {
	s := New(0, "ghost", imaging.New(30, 30, color.NRGBA{}))
	f := NewFootprint(s, image.Pt(0, 0), 30, 1)
	if !f.Empty() {
		t.Errorf("transparent symbol should give an empty footprint, got %d pixels", f.Count())
	}
}

func TestFootprintShapeFollowsAlpha(t *testing.T) {
	// Left half opaque, right half transparent.
	img := imaging.New(20, 10, color.NRGBA{})
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	f := NewFootprint(New(0, "half", img), image.Pt(0, 0), 0, 1)
	if f.Count() != 100 {
		t.Errorf("Count = %d, want 100", f.Count())
	}
	if f.Covers(15, 5) {
		t.Error("transparent half should not be covered")
	}
}

func TestFootprintDeterministic(t *testing.T) {
	s := New(0, "square", opaque(123, 77))
	a := NewFootprint(s, image.Pt(3, 4), 33, 0.37)
	b := NewFootprint(s, image.Pt(3, 4), 33, 0.37)
	if a.Bounds() != b.Bounds() || a.Count() != b.Count() {
		t.Fatal("footprints differ for identical inputs")
	}
	a.Each(func(x, y int) bool {
		if !b.Covers(x, y) {
			t.Fatalf("pixel (%d,%d) differs", x, y)
		}
		return true
	})
}

func TestFootprintMoveTo(t *testing.T) {
	f := NewFootprint(New(0, "sq", opaque(10, 10)), image.Pt(0, 0), 0, 1)
	g := f.MoveTo(image.Pt(5, 7))
	if g.Bounds() != image.Rect(5, 7, 15, 17) || g.Count() != f.Count() {
		t.Errorf("moved footprint = %v (%d px)", g.Bounds(), g.Count())
	}
	if f.Origin != image.Pt(0, 0) {
		t.Error("MoveTo changed the original footprint")
	}
}

func TestNewPool(t *testing.T) {
	a := New(0, "a", opaque(4, 4))
	b := New(1, "b", opaque(4, 4))

	p, err := NewPool([]*Symbol{a, b})
	if err != nil {
		t.Fatal(err)
	}
	got, err := p.Symbols([]int{1, 0})
	if err != nil || got[0] != b || got[1] != a {
		t.Errorf("Symbols([1 0]) = %v, %v", got, err)
	}
	if _, err := p.Symbols([]int{2}); !errors.Is(err, errors.ErrCodeInvalidPool) {
		t.Errorf("out of range index error = %v", err)
	}

	if _, err := NewPool([]*Symbol{b, a}); err == nil {
		t.Error("out-of-order pool should fail")
	}
	if _, err := NewPool(nil); err == nil {
		t.Error("empty pool should fail")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1_sun.png", "2_old_santa.png", "3_moon.png"} {
		if err := imaging.Save(opaque(8, 6), filepath.Join(dir, name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadDir(dir, WithNames([]string{"", "Santa"}))
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if p.Len() != 3 {
		t.Fatalf("Len = %d, want 3", p.Len())
	}
	want := []string{"sun", "Santa", "moon"}
	for i, w := range want {
		s, _ := p.Get(i)
		if s.Name != w || s.Index != i {
			t.Errorf("symbol %d = %q (index %d), want %q", i, s.Name, s.Index, w)
		}
		if s.Size() != image.Pt(8, 6) {
			t.Errorf("symbol %d size = %v", i, s.Size())
		}
	}
}

func TestLoadDirErrors(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		_, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("gap", func(t *testing.T) {
		dir := t.TempDir()
		_ = imaging.Save(opaque(2, 2), filepath.Join(dir, "1_a.png"))
		_ = imaging.Save(opaque(2, 2), filepath.Join(dir, "3_c.png"))
		_, err := LoadDir(dir)
		if !errors.Is(err, errors.ErrCodeInvalidPool) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		dir := t.TempDir()
		_ = imaging.Save(opaque(2, 2), filepath.Join(dir, "1_a.png"))
		_ = imaging.Save(opaque(2, 2), filepath.Join(dir, "01_b.png"))
		_, err := LoadDir(dir)
		if !errors.Is(err, errors.ErrCodeInvalidPool) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := LoadDir(t.TempDir())
		if !errors.Is(err, errors.ErrCodeInvalidPool) {
			t.Errorf("error = %v", err)
		}
	})
}

func TestParseNames(t *testing.T) {
	input := `Symbols used in the deck
> 1. anchor
> 3. old santa
not a name line
>2. kefir
`
	names, err := ParseNames(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"anchor", "kefir", "old santa"}
	if len(names) != len(want) {
		t.Fatalf("names = %q", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestThumbnail(t *testing.T) {
	th := Thumbnail(opaque(200, 100), 40)
	if th.Bounds().Size() != image.Pt(40, 20) {
		t.Errorf("Thumbnail size = %v", th.Bounds().Size())
	}
}
