package plane

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/errors"
)

func fano(t *testing.T) deck.Table {
	t.Helper()
	table, err := deck.Generate(3)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(fano(t), Options{Highlight: -1})

	if !strings.HasPrefix(dot, "graph deck {") {
		t.Errorf("unexpected header: %q", dot[:20])
	}
	if got := strings.Count(dot, " -- "); got != 21 {
		t.Errorf("edges = %d, want 21", got)
	}
	if got := strings.Count(dot, "shape=box"); got != 7 {
		t.Errorf("card nodes = %d, want 7", got)
	}
	if got := strings.Count(dot, "shape=ellipse"); got != 7 {
		t.Errorf("symbol nodes = %d, want 7", got)
	}
	if !strings.Contains(dot, `layout="neato"`) {
		t.Error("default layout engine missing")
	}
	if strings.Contains(dot, "gold") {
		t.Error("nothing should be highlighted")
	}
}

func TestToDOTNamesAndHighlight(t *testing.T) {
	names := []string{"anchor", "bell"}
	dot := ToDOT(fano(t), Options{Names: names, Highlight: 0, Layout: "circo"})

	for _, want := range []string{`label="anchor"`, `label="bell"`, `label="2"`, `layout="circo"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s", want)
		}
	}
	// Card 0 plus its three symbols.
	if got := strings.Count(dot, "fillcolor=gold"); got != 4 {
		t.Errorf("highlighted nodes = %d, want 4", got)
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	dot := ToDOT(fano(t), Options{Highlight: -1})
	out, err := Render(context.Background(), dot, FormatDOT)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != dot {
		t.Error("DOT format should return the input")
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(fano(t), Options{Highlight: -1})
	svg, err := Render(context.Background(), dot, FormatSVG)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("svg header not normalized: %.120s", svg)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(context.Background(), "graph{}", "gif")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("input without viewBox changed: %s", got)
	}
}
