package spritehd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	o := Options{
		DestImg: "public/img",
		DestCSS: "src/scss",
	}.withDefaults()

	p := Derive("icons", o)

	assert.Equal(t, Sheet{
		Image:     filepath.Join("public", "img", "hd-icons.png"),
		URL:       "../../public/img/hd-icons.png",
		StyleName: "_sprite-icons-hd.scss",
		Style:     filepath.Join("src", "scss", "_sprite-icons-hd.scss"),
		Assets:    filepath.Join("tempAssets", "hd-icons-assets"),
	}, p.HD)

	assert.Equal(t, Sheet{
		Image:     filepath.Join("public", "img", "ld-icons.png"),
		URL:       "../../public/img/ld-icons.png",
		StyleName: "_sprite-icons.scss",
		Style:     filepath.Join("src", "scss", "_sprite-icons.scss"),
		Assets:    filepath.Join("tempAssets", "ld-icons-assets"),
	}, p.LD)

	assert.Equal(t, Sheet{
		Image:     filepath.Join("public", "img", "icons.png"),
		URL:       "../../public/img/icons.png",
		StyleName: "_sprite-icons.scss",
		Style:     filepath.Join("src", "scss", "_sprite-icons.scss"),
	}, p.Regular)
}

func TestDeriveImgPath(t *testing.T) {
	o := Options{
		ImgPath:          stringPtr("/static/sprites"),
		HDPrefix:         "2x",
		LDPrefix:         "1x",
		TempAssetsFolder: "tmp",
	}.withDefaults()

	p := Derive("ui", o)

	assert.Equal(t, "/static/sprites/2x-ui.png", p.HD.URL)
	assert.Equal(t, "/static/sprites/1x-ui.png", p.LD.URL)
	assert.Equal(t, filepath.Join("tmp", "1x-ui-assets"), p.LD.Assets)

	o.ImgPath = stringPtr("")
	assert.Equal(t, "ui.png", Derive("ui", o).Regular.URL)
}
