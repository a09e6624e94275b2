package spritehd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bodgit/spritehd/resize"
	"github.com/bodgit/spritehd/sprite"
	"github.com/bodgit/spritehd/stylesheet"
)

// Result describes a built target.
type Result struct {
	Target string
	// Cached is true if the target was up to date and nothing was written
	Cached bool
	// Sheets lists the sheets that were written
	Sheets  []Sheet
	Sprites int
}

type templates struct {
	hd, ld *stylesheet.Template
}

// sources expands the target globs, keeping only files with an accepted
// asset format
func sources(t Target, o Options) ([]string, error) {
	matches, err := expand(t.Src)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(matches))
	seen := make(map[string]string, len(matches))
	for _, file := range matches {
		if !o.isAssetFormat(file) {
			continue
		}
		// Sprites are named after the file, minus its directory and
		// extension, so these have to be unique
		name := sprite.Name(file)
		if other, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %s: %s and %s", ErrDuplicateSprite, name, other, file)
		}
		seen[name] = file
		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, t.Name)
	}
	return files, nil
}

func exists(files ...string) bool {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			return false
		}
	}
	return true
}

func outputs(o Options, p Paths) []string {
	if !o.hd() {
		return []string{p.Regular.Image, p.Regular.Style}
	}
	return []string{p.HD.Image, p.HD.Style, p.LD.Image, p.LD.Style}
}

// Build builds a single target, whose options should already have any
// shared options merged in. Unless force is set, a target whose inputs and
// outputs are unchanged since it was last built is skipped.
func (s *SpriteHD) Build(ctx context.Context, t Target, force bool) (*Result, error) {
	o, err := Resolve(Options{}, t.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}

	// Load the templates first so a bad path aborts before anything is
	// written
	var tmpls templates
	if tmpls.hd, err = stylesheet.Resolve(o.HDCSSTemplate); err != nil {
		return nil, fmt.Errorf("%s: hdCssTemplate: %w", t.Name, err)
	}
	if tmpls.ld, err = stylesheet.Resolve(o.LDCSSTemplate); err != nil {
		return nil, fmt.Errorf("%s: ldCssTemplate: %w", t.Name, err)
	}

	files, err := sources(t, o)
	if err != nil {
		return nil, err
	}

	paths := Derive(t.SpriteName, o)
	result := &Result{
		Target:  t.Name,
		Sprites: len(files),
	}

	var sum string
	if s.cache != nil {
		if sum, err = digest(t, o, []*stylesheet.Template{tmpls.hd, tmpls.ld}, files); err != nil {
			return nil, err
		}
		if !force {
			previous, err := s.cache.Lookup(t.Name)
			if err != nil {
				return nil, err
			}
			if previous == sum && exists(outputs(o, paths)...) {
				s.logger.Printf("%s: up to date\n", t.Name)
				result.Cached = true
				return result, nil
			}
		}
	}

	if !o.hd() {
		err = s.buildRegular(files, o, paths, tmpls, result)
	} else {
		err = s.buildHD(ctx, t, files, o, paths, tmpls, result)
	}
	if err != nil {
		if s.cache != nil {
			if err := s.cache.Forget(t.Name); err != nil {
				s.logger.Println(err)
			}
		}
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}

	if s.cache != nil {
		if err := s.cache.Store(t.Name, sum); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// buildRegular packs the sources directly into a single sheet
func (s *SpriteHD) buildRegular(files []string, o Options, p Paths, tmpls templates, result *Result) error {
	images, err := sprite.LoadAll(files)
	if err != nil {
		return err
	}

	if err := s.pack(images, o, p.Regular, o.Padding, tmpls.hd, o.CSSOpts); err != nil {
		return err
	}
	s.logger.Println("Regular spritesheet created.")
	result.Sheets = append(result.Sheets, p.Regular)

	return nil
}

func (s *SpriteHD) buildHD(ctx context.Context, t Target, files []string, o Options, p Paths, tmpls templates, result *Result) error {
	r, err := resize.New(o.ResizeEngine)
	if err != nil {
		return err
	}
	if o.ResizeEngine != resize.XDraw {
		s.logger.Printf("Setting resizer to %s ...\n", o.ResizeEngine)
	}

	defer s.cleanup(o.TempAssetsFolder, p.HD.Assets, p.LD.Assets)

	s.logger.Printf("Creating temporary %s assets ...\n", o.HDPrefix)
	if err := s.stageHD(files, o, p.HD.Assets); err != nil {
		return err
	}

	s.logger.Printf("Creating temporary %s assets ...\n", o.LDPrefix)
	if err := s.stageLD(ctx, files, o, r, p.LD.Assets); err != nil {
		return err
	}
	s.logger.Println("LD assets done.")

	hdOpts := map[string]interface{}{
		"functions":  false,
		"spriteName": t.SpriteName,
	}
	if err := s.packDir(o, p.HD, o.Padding*2, tmpls.hd, hdOpts); err != nil {
		return err
	}
	result.Sheets = append(result.Sheets, p.HD)

	ldOpts := make(map[string]interface{}, len(o.CSSOpts)+3)
	for k, v := range o.CSSOpts {
		ldOpts[k] = v
	}
	ldOpts["hdPath"] = p.HD.StyleName
	ldOpts["hdPrefix"] = o.HDPrefix
	ldOpts["spriteName"] = t.SpriteName
	if err := s.packDir(o, p.LD, o.Padding, tmpls.ld, ldOpts); err != nil {
		return err
	}
	result.Sheets = append(result.Sheets, p.LD)

	return nil
}

// packDir packs every file in the asset directory of sheet
func (s *SpriteHD) packDir(o Options, sheet Sheet, padding int, tmpl *stylesheet.Template, cssOpts map[string]interface{}) error {
	entries, err := os.ReadDir(sheet.Assets)
	if err != nil {
		return err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(sheet.Assets, e.Name()))
		}
	}
	sort.Strings(files)

	images, err := sprite.LoadAll(files)
	if err != nil {
		return err
	}

	return s.pack(images, o, sheet, padding, tmpl, cssOpts)
}

// pack hands the images to the packing engine, then writes the sheet and
// its stylesheet
func (s *SpriteHD) pack(images []*sprite.Image, o Options, sheet Sheet, padding int, tmpl *stylesheet.Template, cssOpts map[string]interface{}) error {
	layout, err := sprite.Pack(images, padding, o.Algorithm)
	if err != nil {
		return err
	}

	if err := sprite.WriteFile(sheet.Image, sprite.Compose(layout), o.encodeOptions()); err != nil {
		return err
	}
	s.logger.Printf("File %s created.\n", sheet.Image)

	if err := tmpl.RenderFile(sheet.Style, stylesheet.NewData(layout, sheet.URL, cssOpts)); err != nil {
		return err
	}
	s.logger.Printf("File %s created.\n", sheet.Style)

	return nil
}

// BuildAll builds each target in turn, stopping at the first failure.
func (s *SpriteHD) BuildAll(ctx context.Context, targets []Target, force bool) ([]*Result, error) {
	results := make([]*Result, 0, len(targets))
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := s.Build(ctx, t, force)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
