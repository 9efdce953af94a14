package sink

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// PNGOption configures PNG encoding.
type PNGOption func(*pngEncoder)

type pngEncoder struct {
	level png.CompressionLevel
}

// WithCompression sets the zlib compression level.
func WithCompression(level png.CompressionLevel) PNGOption {
	return func(e *pngEncoder) { e.level = level }
}

func newPNGEncoder(opts []PNGOption) pngEncoder {
	e := pngEncoder{level: png.DefaultCompression}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image, opts ...PNGOption) ([]byte, error) {
	e := newPNGEncoder(opts)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(e.level)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG encodes img to path, creating parent directories as needed.
func WritePNG(path string, img image.Image, opts ...PNGOption) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	e := newPNGEncoder(opts)
	return imaging.Save(img, path, imaging.PNGCompressionLevel(e.level))
}
