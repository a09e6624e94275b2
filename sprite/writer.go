package sprite

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/ericpauley/go-quantize/quantize"
	xdraw "golang.org/x/image/draw"
)

const maxColors = 256

var errTooManyColors = errors.New("sprite: paletted sheets support at most 256 colors")

// EncodeOptions controls how a sheet is written.
type EncodeOptions struct {
	// Colors, when non-zero, reduces the sheet to a paletted image with at
	// most this many colors
	Colors int
}

// Compose draws every placement onto a transparent canvas.
func Compose(l *Layout) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, l.Width, l.Height))
	for _, p := range l.Placements {
		src := p.Image.Image
		r := image.Rectangle{image.Pt(p.X, p.Y), image.Pt(p.X, p.Y).Add(src.Bounds().Size())}
		xdraw.Draw(dst, r, src, src.Bounds().Min, xdraw.Src)
	}
	return dst
}

func quantizeImage(m image.Image, colors int) *image.Paletted {
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
	xdraw.Draw(pm, b, m, b.Min, xdraw.Src)
	return pm
}

// Encode writes m to w as a PNG.
func Encode(w io.Writer, m image.Image, o EncodeOptions) error {
	if o.Colors > maxColors {
		return errTooManyColors
	}
	if o.Colors > 0 {
		m = quantizeImage(m, o.Colors)
	}
	e := png.Encoder{CompressionLevel: png.BestCompression}
	return e.Encode(w, m)
}

// WriteFile encodes m to file, creating any missing parent directories.
func WriteFile(file string, m image.Image, o EncodeOptions) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := Encode(f, m, o); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
