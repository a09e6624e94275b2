package spritehd

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/bodgit/spritehd/stylesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	c, err := NewCache(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer c.Close()

	digest, err := c.Lookup("icons")
	require.NoError(t, err)
	assert.Equal(t, "", digest)

	require.NoError(t, c.Store("icons", "ABC"))
	require.NoError(t, c.Store("icons", "DEF"))

	digest, err = c.Lookup("icons")
	require.NoError(t, err)
	assert.Equal(t, "DEF", digest)

	require.NoError(t, c.Forget("icons"))
	digest, err = c.Lookup("icons")
	require.NoError(t, err)
	assert.Equal(t, "", digest)
}

func TestDigest(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.png")
	writePNG(t, file, 2, 2, color.White)

	tmpl, err := stylesheet.Resolve(stylesheet.SCSS)
	require.NoError(t, err)
	templates := []*stylesheet.Template{tmpl}

	target := Target{Name: "icons", SpriteName: "icons"}
	o := Options{CSSOpts: map[string]interface{}{"b": 1, "a": "x"}}.withDefaults()

	d1, err := digest(target, o, templates, []string{file})
	require.NoError(t, err)

	// Worker count does not matter
	o.Workers++
	d2, err := digest(target, o, templates, []string{file})
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	o.Padding++
	d3, err := digest(target, o, templates, []string{file})
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)

	o.Padding--
	writePNG(t, file, 2, 2, color.Black)
	d4, err := digest(target, o, templates, []string{file})
	require.NoError(t, err)
	assert.NotEqual(t, d1, d4)
}
