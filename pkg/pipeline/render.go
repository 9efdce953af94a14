package pipeline

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/spotdeck/pkg/deck"
	"github.com/matzehuels/spotdeck/pkg/errors"
	"github.com/matzehuels/spotdeck/pkg/observability"
	"github.com/matzehuels/spotdeck/pkg/pack"
	"github.com/matzehuels/spotdeck/pkg/render"
	"github.com/matzehuels/spotdeck/pkg/render/plane"
	"github.com/matzehuels/spotdeck/pkg/render/sink"
	"github.com/matzehuels/spotdeck/pkg/symbol"
)

// Card back decoration placement on a 500 px card.
var (
	FrontDecoration = render.Decoration{Position: image.Pt(150, 100), Scale: 0.12}
	BackDecoration  = render.Decoration{Position: image.Pt(110, 250), Scale: 0.75}
)

// BorderColor is the colour of the optional card border.
var BorderColor = color.NRGBA{R: 20, G: 20, B: 20, A: 255}

// WriteCard renders one packed card to path.
func (r *Runner) WriteCard(ctx context.Context, path string, l *pack.Layout, symbols []*symbol.Symbol, opts Options) error {
	start := time.Now()
	var cardOpts []render.CardOption
	if opts.Border > 0 {
		cardOpts = append(cardOpts, render.WithBorder(BorderColor, opts.Border))
	}
	img, err := render.RenderCard(l, symbols, cardOpts...)
	if err == nil {
		err = sink.WritePNG(path, img)
	}
	observability.Pipeline().OnRenderComplete(ctx, path, time.Since(start), err)
	return err
}

// WriteLegend renders legend sheets for symbols into dir and returns the
// written paths.
func (r *Runner) WriteLegend(ctx context.Context, dir string, symbols []*symbol.Symbol) ([]string, error) {
	start := time.Now()
	sheets, err := render.LegendSheets(render.LegendEntries(symbols))
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(sheets))
	for i, sheet := range sheets {
		paths[i] = filepath.Join(dir, LegendFile(i))
		err := sink.WritePNG(paths[i], sheet)
		observability.Pipeline().OnRenderComplete(ctx, paths[i], time.Since(start), err)
		if err != nil {
			return nil, err
		}
	}
	r.Logger.Debug("wrote legend", "sheets", len(sheets), "symbols", len(symbols))
	return paths, nil
}

// WriteBackside renders the card back to path, decorated with the optional
// front and back images.
func (r *Runner) WriteBackside(ctx context.Context, path, front, back string) error {
	start := time.Now()
	decorations, err := BacksideDecorations(front, back)
	if err != nil {
		return err
	}
	err = sink.WritePNG(path, render.RenderBackside(render.WithDecorations(decorations...)))
	observability.Pipeline().OnRenderComplete(ctx, path, time.Since(start), err)
	return err
}

// BacksideDecorations loads the card back images. Either path may be empty.
func BacksideDecorations(front, back string) ([]render.Decoration, error) {
	var out []render.Decoration
	for _, d := range []struct {
		path string
		base render.Decoration
	}{{front, FrontDecoration}, {back, BackDecoration}} {
		if d.path == "" {
			continue
		}
		img, err := imaging.Open(d.path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "backside image %s", d.path)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "open %s", d.path)
		}
		dec := d.base
		dec.Image = img
		out = append(out, dec)
	}
	return out, nil
}

// WritePlane renders the incidence diagram of table into dir as
// plane.<format> and returns the path.
func (r *Runner) WritePlane(ctx context.Context, dir string, table deck.Table, names []string, format string) (string, error) {
	if err := ValidatePlaneFormat(format); err != nil {
		return "", err
	}
	start := time.Now()
	data, err := plane.Render(ctx, plane.ToDOT(table, plane.Options{Names: names, Highlight: -1}), format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "plane."+format)
	err = os.WriteFile(path, data, 0644)
	observability.Pipeline().OnRenderComplete(ctx, path, time.Since(start), err)
	return path, err
}
