package spritehd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/spritehd/resize"
	"github.com/bodgit/spritehd/sprite"
)

// OddImage is a source image with an odd width or height, which cannot be
// halved exactly.
type OddImage struct {
	File          string
	Width, Height int
}

func (o OddImage) Error() string {
	return fmt.Sprintf("The file '%s' size is not correct. The image size is: %dpx width and %dpx height.", o.File, o.Width, o.Height)
}

// checkSize returns a non-nil *OddImage if file cannot be halved exactly
func checkSize(file string) (*OddImage, error) {
	c, err := sprite.DecodeConfig(file)
	if err != nil {
		return nil, err
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		return &OddImage{File: file, Width: c.Width, Height: c.Height}, nil
	}
	return nil, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}

// hdAssetName prefixes the base name so the high density sprites get
// distinct stylesheet names
func hdAssetName(o Options, file string) string {
	return o.varPrefix() + o.HDPrefix + "-" + filepath.Base(file)
}

// prepareDir makes sure dir exists and is empty
func (s *SpriteHD) prepareDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		s.logger.Printf("An existing directory is getting in the way of creating a temporary asset directory at %s. It's being overwritten.\n", dir)
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return os.MkdirAll(dir, 0o755)
}

// stageHD copies each file into dir under its high density name
func (s *SpriteHD) stageHD(files []string, o Options, dir string) error {
	if err := s.prepareDir(dir); err != nil {
		return err
	}

	for _, file := range files {
		odd, err := checkSize(file)
		if err != nil {
			return err
		}
		if odd != nil {
			if o.failOnOddImageSize() {
				return fmt.Errorf("%w: %v", ErrOddImageSize, odd)
			}
			s.logger.Println(odd)
		}

		if err := copyFile(file, filepath.Join(dir, hdAssetName(o, file))); err != nil {
			return err
		}
	}

	return nil
}

// stageLD writes a 50% copy of each file into dir
func (s *SpriteHD) stageLD(ctx context.Context, files []string, o Options, r resize.Resizer, dir string) error {
	if err := s.prepareDir(dir); err != nil {
		return err
	}

	return s.resizeAll(ctx, r, files, dir, o.Workers)
}

// cleanup removes the temporary asset directories and then the temporary
// assets folder itself, but only if nothing else is left in it
func (s *SpriteHD) cleanup(root string, dirs ...string) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		s.logger.Printf("Deleting temporary assets at %s ...\n", dir)
		if err := os.RemoveAll(dir); err != nil {
			s.logger.Println(err)
		}
	}
	if err := os.Remove(root); err != nil && !os.IsNotExist(err) {
		s.logger.Printf("Leaving %s in place: %v\n", root, err)
	}
}
