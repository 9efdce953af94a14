// Package plane renders the card/symbol incidence structure of a deck as a
// Graphviz diagram.
//
// Every card and every symbol becomes a node; an edge joins a card to each
// symbol it carries. For a valid deck each symbol node has degree k and any
// two card nodes have exactly one common neighbour, which makes the
// projective-plane structure visible for small orders.
//
//	dot := plane.ToDOT(table, plane.Options{Names: names})
//	svg, err := plane.Render(ctx, dot, plane.FormatSVG)
package plane

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/errors"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// Options configures incidence diagram rendering.
type Options struct {
	// Names labels symbol nodes; missing names fall back to the index.
	Names []string
	// Layout is the Graphviz engine (default "neato").
	Layout string
	// Highlight marks one card and its symbols, or -1 for none.
	Highlight int
}

// ToDOT converts a deck table to an undirected Graphviz graph.
func ToDOT(t deck.Table, opts Options) string {
	layout := opts.Layout
	if layout == "" {
		layout = "neato"
	}
	var highlighted deck.Card
	if opts.Highlight >= 0 && opts.Highlight < t.Len() {
		highlighted = t.Card(opts.Highlight)
	}

	var buf bytes.Buffer
	buf.WriteString("graph deck {\n")
	fmt.Fprintf(&buf, "  layout=%q;\n", layout)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [fontsize=10];\n")
	buf.WriteString("\n")

	for i := range t.Len() {
		attrs := "shape=box, style=\"rounded,filled\", fillcolor=white"
		if i == opts.Highlight {
			attrs = "shape=box, style=\"rounded,filled\", fillcolor=gold"
		}
		fmt.Fprintf(&buf, "  %q [label=%q, %s];\n", cardID(i), fmt.Sprintf("card %d", i+1), attrs)
	}
	for s := range t.SymbolCount() {
		attrs := "shape=ellipse"
		if highlighted.Contains(s) {
			attrs = "shape=ellipse, style=filled, fillcolor=gold"
		}
		fmt.Fprintf(&buf, "  %q [label=%q, %s];\n", symbolID(s), symbolLabel(s, opts.Names), attrs)
	}

	buf.WriteString("\n")
	for i, c := range t.Cards() {
		for _, s := range c {
			fmt.Fprintf(&buf, "  %q -- %q;\n", cardID(i), symbolID(s))
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func cardID(i int) string   { return "c" + strconv.Itoa(i) }
func symbolID(s int) string { return "s" + strconv.Itoa(s) }

func symbolLabel(s int, names []string) string {
	if s < len(names) && names[s] != "" {
		return names[s]
	}
	return strconv.Itoa(s)
}

// Render lays out a DOT graph with Graphviz and encodes it as format.
// FormatDOT returns the input unchanged.
func Render(ctx context.Context, dot string, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (must be one of: svg, png, dot)", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a
// pixel-sized one anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
