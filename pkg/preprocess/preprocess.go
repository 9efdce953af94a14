// Package preprocess prepares raw symbol artwork for packing.
//
// Each image is resized to a common width (keeping its aspect ratio) and
// then cropped to the bounding box of its non-transparent pixels, so the
// packer's rectangle tests are not wasted on empty margins.
//
//	img, err := preprocess.Image(src, preprocess.Options{Width: 400})
//	results, err := preprocess.Dir(ctx, "img", "img_preprocessed", preprocess.Options{})
package preprocess

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/spotdeck/pkg/errors"
)

// DefaultWidth is the target width of preprocessed symbols in pixels.
const DefaultWidth = 400

// Options configures preprocessing.
type Options struct {
	// Width is the target width before cropping.
	Width int
	// Workers bounds parallel file processing in [Dir].
	Workers int
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// Image resizes img to the target width and crops it to its opaque pixels.
// An image without any opaque pixel yields a DEGENERATE_SYMBOL error.
func Image(img image.Image, opts Options) (*image.NRGBA, error) {
	opts = opts.withDefaults()
	if opts.Width < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "width must be positive, got %d", opts.Width)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image is empty")
	}
	height := max(1, int(float64(opts.Width)*float64(b.Dy())/float64(b.Dx())))
	resized := imaging.Resize(img, opts.Width, height, imaging.Lanczos)

	box, ok := OpaqueBounds(resized)
	if !ok {
		return nil, errors.New(errors.ErrCodeDegenerateSymbol, "image has no opaque pixels")
	}
	return imaging.Crop(resized, box), nil
}

// OpaqueBounds returns the smallest rectangle holding every pixel with
// alpha > 0, and false if there is none.
func OpaqueBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	box := image.Rectangle{}
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			px := image.Rect(x, y, x+1, y+1)
			if !found {
				box, found = px, true
			} else {
				box = box.Union(px)
			}
		}
	}
	return box, found
}

// Result describes one processed file.
type Result struct {
	Source string
	Output string
	Size   image.Point
}

var supported = []string{".png", ".jpg", ".jpeg"}

// Dir processes every PNG or JPEG file in in and writes it as PNG with the
// same base name to out. Results are sorted by source name.
func Dir(ctx context.Context, in, out string, opts Options) ([]Result, error) {
	opts = opts.withDefaults()
	entries, err := os.ReadDir(in)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input directory %s", in)
	}
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && slices.Contains(supported, ext) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	results := make([]Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src := filepath.Join(in, name)
			img, err := imaging.Open(src)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidImage, err, "open %s", src)
			}
			processed, err := Image(img, opts)
			if err != nil {
				return errors.Wrap(errors.GetCode(err), err, "preprocess %s", name)
			}
			dst := filepath.Join(out, strings.TrimSuffix(name, filepath.Ext(name))+".png")
			if err := imaging.Save(processed, dst); err != nil {
				return err
			}
			results[i] = Result{Source: src, Output: dst, Size: processed.Bounds().Size()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
