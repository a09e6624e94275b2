package spritehd

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	o := Options{}.withDefaults()

	assert.Equal(t, "images/sprites", o.DestImg)
	assert.Equal(t, "style/scss/sprites", o.DestCSS)
	require.NotNil(t, o.ImgPath)
	assert.Equal(t, "../../../images/sprites", *o.ImgPath)
	assert.Equal(t, "shelf", o.Algorithm)
	assert.Equal(t, 1, o.Padding)
	assert.Equal(t, EnginePNG, o.Engine)
	assert.Equal(t, "scss", o.HDCSSTemplate)
	assert.Equal(t, "scss-hd", o.LDCSSTemplate)
	assert.Equal(t, "xdraw", o.ResizeEngine)
	assert.Equal(t, []string{".png", ".jpg", ".jpeg"}, o.AssetFormats)
	assert.Equal(t, "tempAssets", o.TempAssetsFolder)
	assert.True(t, o.hd())
	assert.Equal(t, "hd", o.HDPrefix)
	assert.Equal(t, "ld", o.LDPrefix)
	assert.False(t, o.failOnOddImageSize())
	assert.Equal(t, runtime.GOMAXPROCS(0), o.Workers)
	assert.NotNil(t, o.CSSOpts)
	assert.Equal(t, 0, o.encodeOptions().Colors)
	assert.NoError(t, o.Validate())
}

func TestDefaultsKeepExplicitValues(t *testing.T) {
	o := Options{
		ImgPath:      stringPtr(""),
		HD:           boolPtr(false),
		Engine:       EnginePaletted,
		AssetFormats: []string{"PNG", ".Gif"},
	}.withDefaults()

	assert.Equal(t, "", *o.ImgPath)
	assert.False(t, o.hd())
	assert.Equal(t, 256, o.encodeOptions().Colors)
	assert.Equal(t, []string{".png", ".gif"}, o.AssetFormats)
	assert.True(t, o.isAssetFormat("a/b/icon.GIF"))
	assert.False(t, o.isAssetFormat("a/b/icon.jpg"))
}

func TestMerge(t *testing.T) {
	task := Options{
		DestImg:  "img",
		Padding:  4,
		HD:       boolPtr(false),
		CSSOpts:  map[string]interface{}{"varPrefix": "ui-", "functions": true},
		HDPrefix: "2x",
	}
	target := Options{
		DestImg:            "assets/img",
		HD:                 boolPtr(true),
		CSSOpts:            map[string]interface{}{"functions": false},
		FailOnOddImageSize: boolPtr(true),
	}

	o := Merge(task, target)

	assert.Equal(t, "assets/img", o.DestImg)
	assert.Equal(t, 4, o.Padding)
	assert.True(t, *o.HD)
	assert.Equal(t, "2x", o.HDPrefix)
	assert.True(t, *o.FailOnOddImageSize)
	assert.Equal(t, map[string]interface{}{"varPrefix": "ui-", "functions": false}, o.CSSOpts)

	// The task options are untouched
	assert.Equal(t, true, task.CSSOpts["functions"])
	assert.Equal(t, "ui-", o.varPrefix())
}

func TestValidate(t *testing.T) {
	tables := []Options{
		{Algorithm: "binary-tree"},
		{ResizeEngine: "gmsmith"},
		{Engine: "gif"},
		{Padding: -1},
		{Workers: -2},
		{ImageOpts: ImageOptions{Colors: 300}},
		{HDPrefix: "x", LDPrefix: "x"},
	}

	for _, table := range tables {
		_, err := Resolve(Options{}, table)
		assert.ErrorIs(t, err, ErrInvalidOption, "%+v", table)
	}
}

func TestRelativeImgPath(t *testing.T) {
	assert.Equal(t, "../img", relativeImgPath("css", "img"))
	assert.Equal(t, ".", relativeImgPath("public", "public"))
}
