package sprite

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/gogpu/gg/text/msdf"
)

// Algorithm names accepted by Pack.
const (
	Shelf       = "shelf"
	TopDown     = "top-down"
	LeftRight   = "left-right"
	Diagonal    = "diagonal"
	AltDiagonal = "alt-diagonal"
)

var (
	// ErrUnknownAlgorithm is returned for an unrecognised algorithm name.
	ErrUnknownAlgorithm = errors.New("sprite: unknown algorithm")
	// ErrNoImages is returned when asked to pack nothing.
	ErrNoImages = errors.New("sprite: no images to pack")
	// ErrNegativePadding is returned when the padding is less than zero.
	ErrNegativePadding = errors.New("sprite: negative padding")

	errDoesNotFit = errors.New("sprite: image does not fit")
)

// Algorithms returns the accepted algorithm names.
func Algorithms() []string {
	return []string{Shelf, TopDown, LeftRight, Diagonal, AltDiagonal}
}

// ValidAlgorithm reports whether name is an accepted algorithm.
func ValidAlgorithm(name string) bool {
	for _, a := range Algorithms() {
		if a == name {
			return true
		}
	}
	return false
}

// Placement is the position of an image within the sprite sheet.
type Placement struct {
	*Image
	X, Y int
}

// Layout is the result of packing a set of images.
type Layout struct {
	Width, Height int
	Placements    []Placement
}

// Lookup returns the placement for the named image.
func (l *Layout) Lookup(name string) (Placement, bool) {
	for _, p := range l.Placements {
		if p.Name == name {
			return p, true
		}
	}
	return Placement{}, false
}

type byName []*Image

func (b byName) Len() int           { return len(b) }
func (b byName) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
func (b byName) Less(i, j int) bool { return b[i].Name < b[j].Name }

// Tallest first, ties broken by name so the output is stable
type byHeight []*Image

func (b byHeight) Len() int      { return len(b) }
func (b byHeight) Swap(i, j int) { b[i], b[j] = b[j], b[i] }
func (b byHeight) Less(i, j int) bool {
	if b[i].Height() != b[j].Height() {
		return b[i].Height() > b[j].Height()
	}
	return b[i].Name < b[j].Name
}

// Pack arranges images using the named algorithm with padding pixels between
// neighbouring images. The input slice is not modified.
func Pack(images []*Image, padding int, algorithm string) (*Layout, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if padding < 0 {
		return nil, ErrNegativePadding
	}

	sorted := append(images[:0:0], images...)

	var (
		placements []Placement
		err        error
	)
	switch algorithm {
	case Shelf, "":
		sort.Sort(byHeight(sorted))
		placements, err = packShelf(sorted, padding)
	case TopDown:
		sort.Sort(byName(sorted))
		placements = packLine(sorted, padding, 0, 1)
	case LeftRight:
		sort.Sort(byName(sorted))
		placements = packLine(sorted, padding, 1, 0)
	case Diagonal:
		sort.Sort(byName(sorted))
		placements = packLine(sorted, padding, 1, 1)
	case AltDiagonal:
		sort.Sort(byName(sorted))
		placements = packAltDiagonal(sorted, padding)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	if err != nil {
		return nil, err
	}

	l := &Layout{Placements: placements}
	for _, p := range placements {
		if w := p.X + p.Width(); w > l.Width {
			l.Width = w
		}
		if h := p.Y + p.Height(); h > l.Height {
			l.Height = h
		}
	}

	return l, nil
}

// packLine advances along x and/or y by the size of each image plus padding
func packLine(images []*Image, padding, dx, dy int) []Placement {
	placements := make([]Placement, 0, len(images))
	var x, y int
	for _, i := range images {
		placements = append(placements, Placement{Image: i, X: x, Y: y})
		x += dx * (i.Width() + padding)
		y += dy * (i.Height() + padding)
	}
	return placements
}

// packAltDiagonal runs from the top right corner to the bottom left
func packAltDiagonal(images []*Image, padding int) []Placement {
	var width int
	for i, m := range images {
		if i > 0 {
			width += padding
		}
		width += m.Width()
	}

	placements := make([]Placement, 0, len(images))
	x, y := width, 0
	for _, i := range images {
		x -= i.Width()
		placements = append(placements, Placement{Image: i, X: x, Y: y})
		x -= padding
		y += i.Height() + padding
	}
	return placements
}

// packShelf sizes an allocator that is guaranteed to hold every image, one
// shelf per image in the worst case, and roughly square otherwise
func packShelf(images []*Image, padding int) ([]Placement, error) {
	var area, maxWidth, height int
	for _, i := range images {
		w, h := i.Width()+padding, i.Height()+padding
		area += w * h
		height += h
		if w > maxWidth {
			maxWidth = w
		}
	}

	width := int(math.Ceil(math.Sqrt(float64(area))))
	if width < maxWidth {
		width = maxWidth
	}

	a := msdf.NewShelfAllocator(width, height, padding)

	placements := make([]Placement, 0, len(images))
	for _, i := range images {
		x, y, ok := a.Allocate(i.Width(), i.Height())
		if !ok {
			return nil, fmt.Errorf("%w: %s (%dx%d)", errDoesNotFit, i.Name, i.Width(), i.Height())
		}
		placements = append(placements, Placement{Image: i, X: x, Y: y})
	}
	return placements, nil
}
