package sprite

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImage(name string, w, h int, c color.Color) *Image {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, c)
		}
	}
	return &Image{Name: name, Image: m}
}

func testImages() []*Image {
	return []*Image{
		newImage("c", 10, 4, color.NRGBA{0, 0, 0xff, 0xff}),
		newImage("a", 4, 2, color.NRGBA{0xff, 0, 0, 0xff}),
		newImage("b", 2, 6, color.NRGBA{0, 0xff, 0, 0xff}),
		newImage("d", 3, 3, color.NRGBA{0xff, 0xff, 0, 0xff}),
	}
}

func rect(p Placement) image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width(), p.Y+p.Height())
}

func TestName(t *testing.T) {
	assert.Equal(t, "icon-home", Name(filepath.Join("a", "b", "icon-home.png")))
	assert.Equal(t, "hd-icon.home", Name("hd-icon.home.jpg"))
}

func TestPack(t *testing.T) {
	for _, padding := range []int{0, 1, 2} {
		for _, algorithm := range Algorithms() {
			images := testImages()
			l, err := Pack(images, padding, algorithm)
			require.NoError(t, err, algorithm)
			require.Len(t, l.Placements, len(images), algorithm)

			bounds := image.Rect(0, 0, l.Width, l.Height)
			for i, p := range l.Placements {
				r := rect(p)
				assert.True(t, r.In(bounds), "%s: %s outside sheet", algorithm, p.Name)
				for _, q := range l.Placements[i+1:] {
					// Grow by the padding so neighbours must be at
					// least that far apart
					grown := image.Rect(r.Min.X, r.Min.Y, r.Max.X+padding, r.Max.Y+padding)
					assert.False(t, grown.Overlaps(rect(q)), "%s: %s overlaps %s", algorithm, p.Name, q.Name)
				}
			}
		}
	}
}

func TestPackDoesNotModifyInput(t *testing.T) {
	images := testImages()
	_, err := Pack(images, 1, Shelf)
	require.NoError(t, err)
	assert.Equal(t, "c", images[0].Name)
	assert.Equal(t, "a", images[1].Name)
}

func TestPackTopDown(t *testing.T) {
	l, err := Pack(testImages(), 1, TopDown)
	require.NoError(t, err)

	assert.Equal(t, 10, l.Width)
	assert.Equal(t, 2+1+6+1+4+1+3, l.Height)

	p, ok := l.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 0, p.X)
	assert.Equal(t, 3, p.Y)
}

func TestPackLeftRight(t *testing.T) {
	l, err := Pack(testImages(), 0, LeftRight)
	require.NoError(t, err)

	assert.Equal(t, 4+2+10+3, l.Width)
	assert.Equal(t, 6, l.Height)
}

func TestPackAltDiagonal(t *testing.T) {
	l, err := Pack(testImages(), 0, AltDiagonal)
	require.NoError(t, err)

	a, ok := l.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, l.Width-4, a.X)
	assert.Equal(t, 0, a.Y)

	d, ok := l.Lookup("d")
	require.True(t, ok)
	assert.Equal(t, 0, d.X)
}

func TestPackShelf(t *testing.T) {
	images := []*Image{
		newImage("a", 4, 2, color.White),
		newImage("b", 2, 2, color.White),
	}

	l, err := Pack(images, 2, Shelf)
	require.NoError(t, err)
	assert.Equal(t, 4, l.Width)
	assert.Equal(t, 6, l.Height)

	b, ok := l.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, image.Pt(0, 4), image.Pt(b.X, b.Y))
}

func TestPackErrors(t *testing.T) {
	_, err := Pack(nil, 1, Shelf)
	assert.ErrorIs(t, err, ErrNoImages)

	_, err = Pack(testImages(), -1, Shelf)
	assert.ErrorIs(t, err, ErrNegativePadding)

	_, err = Pack(testImages(), 1, "binary-tree")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	assert.False(t, ValidAlgorithm("binary-tree"))
}

func TestCompose(t *testing.T) {
	l, err := Pack(testImages(), 1, TopDown)
	require.NoError(t, err)

	m := Compose(l)
	assert.Equal(t, image.Rect(0, 0, l.Width, l.Height), m.Bounds())

	// a is red and placed first at the origin
	assert.Equal(t, color.NRGBA{0xff, 0, 0, 0xff}, m.NRGBAAt(0, 0))
	// The padding row below a is transparent
	assert.Equal(t, color.NRGBA{}, m.NRGBAAt(0, 2))
	// b is green
	assert.Equal(t, color.NRGBA{0, 0xff, 0, 0xff}, m.NRGBAAt(1, 3))
}

func TestEncode(t *testing.T) {
	l, err := Pack(testImages(), 1, Shelf)
	require.NoError(t, err)
	m := Compose(l)

	tables := []struct {
		opts     EncodeOptions
		paletted bool
	}{
		{EncodeOptions{}, false},
		{EncodeOptions{Colors: 16}, true},
	}

	for _, table := range tables {
		b := new(bytes.Buffer)
		require.NoError(t, Encode(b, m, table.opts))

		decoded, err := png.Decode(b)
		require.NoError(t, err)
		assert.Equal(t, m.Bounds(), decoded.Bounds())

		_, ok := decoded.(*image.Paletted)
		assert.Equal(t, table.paletted, ok)
	}

	assert.Error(t, Encode(new(bytes.Buffer), m, EncodeOptions{Colors: 1000}))
}

func TestWriteFileAndLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sprites", "icons.png")

	l, err := Pack(testImages(), 1, Diagonal)
	require.NoError(t, err)
	require.NoError(t, WriteFile(file, Compose(l), EncodeOptions{}))

	i, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "icons", i.Name)
	assert.Equal(t, l.Width, i.Width())
	assert.Equal(t, l.Height, i.Height())

	c, err := DecodeConfig(file)
	require.NoError(t, err)
	assert.Equal(t, l.Width, c.Width)

	images, err := LoadAll([]string{file})
	require.NoError(t, err)
	assert.Len(t, images, 1)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.png"))
	assert.True(t, os.IsNotExist(err))

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0o644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, image.ErrFormat)

	_, err = DecodeConfig(bad)
	assert.ErrorIs(t, err, image.ErrFormat)
}
