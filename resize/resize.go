/*
Package resize wraps the image resampling libraries used to produce the
standard density copies of sprite assets.

Two engines are available, mirroring the choice between GraphicsMagick and
ImageMagick offered by the original tooling: "xdraw" scales with the
Catmull-Rom kernel from golang.org/x/image/draw and "imaging" scales with the
Lanczos filter from github.com/disintegration/imaging.
*/
package resize

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
)

// Engine names.
const (
	XDraw   = "xdraw"
	Imaging = "imaging"
)

// ErrUnknownEngine is returned by New for an unrecognised engine name.
var ErrUnknownEngine = errors.New("resize: unknown engine")

// A Resizer scales an image to exactly w by h pixels.
type Resizer interface {
	Resize(src image.Image, w, h int) image.Image
}

type xdrawResizer struct{}

func (xdrawResizer) Resize(src image.Image, w, h int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

type imagingResizer struct{}

func (imagingResizer) Resize(src image.Image, w, h int) image.Image {
	return imaging.Resize(src, w, h, imaging.Lanczos)
}

var engines = map[string]Resizer{
	XDraw:   xdrawResizer{},
	Imaging: imagingResizer{},
}

// Engines returns the sorted list of available engine names.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the named Resizer.
func New(name string) (Resizer, error) {
	if r, ok := engines[name]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %q (must be one of %q)", ErrUnknownEngine, name, Engines())
}

// halve rounds half up and never returns less than one pixel
func halve(n int) int {
	if n <= 1 {
		return 1
	}
	return (n + 1) >> 1
}

// HalfSize returns the dimensions of a 50% copy of an image of size w by h.
func HalfSize(w, h int) (int, int) {
	return halve(w), halve(h)
}

// Half scales src to 50% in both axes.
func Half(r Resizer, src image.Image) image.Image {
	w, h := HalfSize(src.Bounds().Dx(), src.Bounds().Dy())
	return r.Resize(src, w, h)
}

// File decodes the image at in, scales it to 50% and writes it to out as a
// PNG.
func File(r Resizer, in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}

	if err := png.Encode(w, Half(r, m)); err != nil {
		w.Close()
		return err
	}

	return w.Close()
}
