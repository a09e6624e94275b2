package spritehd

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bodgit/spritehd/resize"
	"github.com/bodgit/spritehd/sprite"
	"github.com/bodgit/spritehd/stylesheet"
)

// Sheet encoders.
const (
	EnginePNG      = "png"
	EnginePaletted = "paletted"
)

const (
	defaultDestImg    = "images/sprites"
	defaultDestCSS    = "style/scss/sprites"
	defaultPadding    = 1
	defaultTempAssets = "tempAssets"
	defaultHDPrefix   = "hd"
	defaultLDPrefix   = "ld"
	defaultColors     = 256
	imgType           = "png"
)

var defaultAssetFormats = []string{".png", ".jpg", ".jpeg"}

// ImageOptions control the encoding of the sheets.
type ImageOptions struct {
	// Colors is the palette size used by the paletted engine
	Colors int `yaml:"colors,omitempty"`
}

// Options are the settings of a sprite target. Any zero value is replaced
// by its default.
type Options struct {
	DestImg            string                 `yaml:"destImg,omitempty"`
	DestCSS            string                 `yaml:"destCSS,omitempty"`
	ImgPath            *string                `yaml:"imgPath,omitempty"`
	Algorithm          string                 `yaml:"algorithm,omitempty"`
	Padding            int                    `yaml:"padding,omitempty"`
	Engine             string                 `yaml:"engine,omitempty"`
	ImageOpts          ImageOptions           `yaml:"imageOpts,omitempty"`
	CSSOpts            map[string]interface{} `yaml:"cssOpts,omitempty"`
	HDCSSTemplate      string                 `yaml:"hdCssTemplate,omitempty"`
	LDCSSTemplate      string                 `yaml:"ldCssTemplate,omitempty"`
	ResizeEngine       string                 `yaml:"resizeEngine,omitempty"`
	AssetFormats       []string               `yaml:"assetFormats,omitempty"`
	TempAssetsFolder   string                 `yaml:"tempAssetsFolder,omitempty"`
	HD                 *bool                  `yaml:"hd,omitempty"`
	HDPrefix           string                 `yaml:"hdPrefix,omitempty"`
	LDPrefix           string                 `yaml:"ldPrefix,omitempty"`
	FailOnOddImageSize *bool                  `yaml:"failOnOddImageSize,omitempty"`
	Workers            int                    `yaml:"workers,omitempty"`
}

// Merge returns task overlaid with any value set in target.
func Merge(task, target Options) Options {
	o := task

	if target.DestImg != "" {
		o.DestImg = target.DestImg
	}
	if target.DestCSS != "" {
		o.DestCSS = target.DestCSS
	}
	if target.ImgPath != nil {
		o.ImgPath = target.ImgPath
	}
	if target.Algorithm != "" {
		o.Algorithm = target.Algorithm
	}
	if target.Padding != 0 {
		o.Padding = target.Padding
	}
	if target.Engine != "" {
		o.Engine = target.Engine
	}
	if target.ImageOpts.Colors != 0 {
		o.ImageOpts.Colors = target.ImageOpts.Colors
	}
	if len(task.CSSOpts)+len(target.CSSOpts) > 0 {
		o.CSSOpts = make(map[string]interface{}, len(task.CSSOpts)+len(target.CSSOpts))
		for k, v := range task.CSSOpts {
			o.CSSOpts[k] = v
		}
		for k, v := range target.CSSOpts {
			o.CSSOpts[k] = v
		}
	}
	if target.HDCSSTemplate != "" {
		o.HDCSSTemplate = target.HDCSSTemplate
	}
	if target.LDCSSTemplate != "" {
		o.LDCSSTemplate = target.LDCSSTemplate
	}
	if target.ResizeEngine != "" {
		o.ResizeEngine = target.ResizeEngine
	}
	if len(target.AssetFormats) > 0 {
		o.AssetFormats = target.AssetFormats
	}
	if target.TempAssetsFolder != "" {
		o.TempAssetsFolder = target.TempAssetsFolder
	}
	if target.HD != nil {
		o.HD = target.HD
	}
	if target.HDPrefix != "" {
		o.HDPrefix = target.HDPrefix
	}
	if target.LDPrefix != "" {
		o.LDPrefix = target.LDPrefix
	}
	if target.FailOnOddImageSize != nil {
		o.FailOnOddImageSize = target.FailOnOddImageSize
	}
	if target.Workers != 0 {
		o.Workers = target.Workers
	}

	return o
}

func normalizeFormat(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// relativeImgPath is the path from the stylesheet directory to the image
// directory, as used in a CSS url()
func relativeImgPath(destCSS, destImg string) string {
	rel, err := filepath.Rel(destCSS, destImg)
	if err != nil {
		return filepath.ToSlash(destImg)
	}
	return filepath.ToSlash(rel)
}

func (o Options) withDefaults() Options {
	if o.DestImg == "" {
		o.DestImg = defaultDestImg
	}
	if o.DestCSS == "" {
		o.DestCSS = defaultDestCSS
	}
	if o.ImgPath == nil {
		p := relativeImgPath(o.DestCSS, o.DestImg)
		o.ImgPath = &p
	}
	if o.Algorithm == "" {
		o.Algorithm = sprite.Shelf
	}
	if o.Padding == 0 {
		o.Padding = defaultPadding
	}
	if o.Engine == "" {
		o.Engine = EnginePNG
	}
	if o.Engine == EnginePaletted && o.ImageOpts.Colors == 0 {
		o.ImageOpts.Colors = defaultColors
	}
	if o.CSSOpts == nil {
		o.CSSOpts = make(map[string]interface{})
	}
	if o.HDCSSTemplate == "" {
		o.HDCSSTemplate = stylesheet.SCSS
	}
	if o.LDCSSTemplate == "" {
		o.LDCSSTemplate = stylesheet.SCSSHD
	}
	if o.ResizeEngine == "" {
		o.ResizeEngine = resize.XDraw
	}
	if len(o.AssetFormats) == 0 {
		o.AssetFormats = defaultAssetFormats
	}
	formats := make([]string, 0, len(o.AssetFormats))
	for _, f := range o.AssetFormats {
		formats = append(formats, normalizeFormat(f))
	}
	o.AssetFormats = formats
	if o.TempAssetsFolder == "" {
		o.TempAssetsFolder = defaultTempAssets
	}
	if o.HD == nil {
		hd := true
		o.HD = &hd
	}
	if o.HDPrefix == "" {
		o.HDPrefix = defaultHDPrefix
	}
	if o.LDPrefix == "" {
		o.LDPrefix = defaultLDPrefix
	}
	if o.FailOnOddImageSize == nil {
		fail := false
		o.FailOnOddImageSize = &fail
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Validate checks options that have had their defaults applied.
func (o Options) Validate() error {
	if !sprite.ValidAlgorithm(o.Algorithm) {
		return fmt.Errorf("%w: algorithm %q must be one of %q", ErrInvalidOption, o.Algorithm, sprite.Algorithms())
	}
	if _, err := resize.New(o.ResizeEngine); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	switch o.Engine {
	case EnginePNG, EnginePaletted:
	default:
		return fmt.Errorf("%w: engine %q must be one of %q", ErrInvalidOption, o.Engine, []string{EnginePNG, EnginePaletted})
	}
	if o.Padding < 0 {
		return fmt.Errorf("%w: padding %d is negative", ErrInvalidOption, o.Padding)
	}
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative", ErrInvalidOption, o.Workers)
	}
	if o.ImageOpts.Colors < 0 || o.ImageOpts.Colors > defaultColors {
		return fmt.Errorf("%w: colors %d must be between 0 and %d", ErrInvalidOption, o.ImageOpts.Colors, defaultColors)
	}
	if o.HDPrefix == o.LDPrefix {
		return fmt.Errorf("%w: hdPrefix and ldPrefix are both %q", ErrInvalidOption, o.HDPrefix)
	}
	return nil
}

// Resolve merges task and target options, applies defaults and validates
// the result.
func Resolve(task, target Options) (Options, error) {
	o := Merge(task, target).withDefaults()
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o Options) hd() bool {
	return o.HD == nil || *o.HD
}

func (o Options) failOnOddImageSize() bool {
	return o.FailOnOddImageSize != nil && *o.FailOnOddImageSize
}

func (o Options) encodeOptions() sprite.EncodeOptions {
	if o.Engine != EnginePaletted {
		return sprite.EncodeOptions{}
	}
	return sprite.EncodeOptions{Colors: o.ImageOpts.Colors}
}

// varPrefix is the cssOpts.varPrefix value, if any
func (o Options) varPrefix() string {
	if v, ok := o.CSSOpts["varPrefix"]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

func (o Options) isAssetFormat(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	for _, f := range o.AssetFormats {
		if f == ext {
			return true
		}
	}
	return false
}
