package spritehd

import (
	"path"
	"path/filepath"
)

// Sheet is where one sprite sheet and its stylesheet are written.
type Sheet struct {
	// Image is the file the sheet is written to
	Image string
	// URL is the sheet as referenced from the stylesheet
	URL string
	// StyleName is the file name of the stylesheet
	StyleName string
	// Style is the file the stylesheet is written to
	Style string
	// Assets is the temporary directory holding the images for this sheet
	Assets string
}

// Paths holds every location derived from a sprite name.
type Paths struct {
	HD      Sheet
	LD      Sheet
	Regular Sheet
}

func newSheet(o Options, imageName, styleName, assets string) Sheet {
	s := Sheet{
		Image:     filepath.Join(o.DestImg, imageName),
		URL:       path.Join(*o.ImgPath, imageName),
		StyleName: styleName,
		Style:     filepath.Join(o.DestCSS, styleName),
	}
	if assets != "" {
		s.Assets = filepath.Join(o.TempAssetsFolder, assets)
	}
	return s
}

// Derive computes the output locations for spriteName. The options must
// have had their defaults applied.
func Derive(spriteName string, o Options) Paths {
	return Paths{
		HD: newSheet(o,
			o.HDPrefix+"-"+spriteName+"."+imgType,
			"_sprite-"+spriteName+"-hd.scss",
			o.HDPrefix+"-"+spriteName+"-assets"),
		LD: newSheet(o,
			o.LDPrefix+"-"+spriteName+"."+imgType,
			"_sprite-"+spriteName+".scss",
			o.LDPrefix+"-"+spriteName+"-assets"),
		Regular: newSheet(o,
			spriteName+"."+imgType,
			"_sprite-"+spriteName+".scss",
			""),
	}
}
