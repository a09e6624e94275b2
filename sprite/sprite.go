/*
Package sprite packs a set of images into a single sprite sheet.

Placement is delegated to a packing engine: the default "shelf" algorithm
uses the shelf allocator from github.com/gogpu/gg/text/msdf, the remaining
algorithms are straight line arrangements. The resulting Layout is then
composited onto a transparent canvas and encoded as a PNG, optionally reduced
to a paletted image with a median cut quantizer.
*/
package sprite

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is a single source image destined for a sprite sheet.
type Image struct {
	// Name is the file name without directory or extension
	Name string
	// Path is the file the image was loaded from
	Path  string
	Image image.Image
}

// Width returns the width of the image in pixels.
func (i *Image) Width() int {
	return i.Image.Bounds().Dx()
}

// Height returns the height of the image in pixels.
func (i *Image) Height() int {
	return i.Image.Bounds().Dy()
}

// Name returns the sprite name for a file, which is its base name with the
// extension removed.
func Name(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load decodes the image stored in file.
func Load(file string) (*Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return &Image{
		Name:  Name(file),
		Path:  file,
		Image: m,
	}, nil
}

// LoadAll decodes each file in turn.
func LoadAll(files []string) ([]*Image, error) {
	images := make([]*Image, 0, len(files))
	for _, file := range files {
		i, err := Load(file)
		if err != nil {
			return nil, err
		}
		images = append(images, i)
	}
	return images, nil
}

// DecodeConfig returns the dimensions of the image stored in file without
// decoding all of it.
func DecodeConfig(file string) (image.Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()

	c, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Config{}, fmt.Errorf("%s: %w", file, err)
	}
	return c, nil
}
