/*
Package stylesheet renders the stylesheet fragments that map each sprite to
its position within a sheet.

Templates use text/template syntax. A small set of templates is built in and
any of them may be replaced by a template file on disk.
*/
package stylesheet

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/bodgit/spritehd/sprite"
)

// Names of the built-in templates.
const (
	SCSS   = "scss"
	SCSSHD = "scss-hd"
	CSS    = "css"
	JSON   = "json"
)

// ErrTemplateNotFound is returned when a template is neither a readable file
// nor the name of a built-in template.
var ErrTemplateNotFound = errors.New("stylesheet: template not found")

//go:embed templates/*.tmpl
var builtin embed.FS

// Template is a parsed stylesheet template.
type Template struct {
	// Name is the built-in name or the path the template was read from
	Name string
	// Text is the unparsed template source
	Text string

	tmpl *template.Template
}

var funcs = template.FuncMap{
	"px":        px,
	"dasherize": dasherize,
	"json":      marshalJSON,
}

// Builtin returns the sorted names of the built-in templates.
func Builtin() []string {
	entries, _ := fs.ReadDir(builtin, "templates")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tmpl"))
	}
	sort.Strings(names)
	return names
}

// builtinName strips any directory and every extension, so "scss-hd",
// "scss-hd.tmpl" and "templates/scss-hd.template.mustache" are equivalent
func builtinName(s string) string {
	return strings.SplitN(filepath.Base(s), ".", 2)[0]
}

// Parse parses text as a template called name.
func Parse(name, text string) (*Template, error) {
	t, err := template.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return nil, err
	}
	return &Template{
		Name: name,
		Text: text,
		tmpl: t,
	}, nil
}

// Resolve loads a template. A file on disk takes precedence, otherwise the
// built-in template of the same name is used.
func Resolve(nameOrPath string) (*Template, error) {
	if info, err := os.Stat(nameOrPath); err == nil && info.Mode().IsRegular() {
		b, err := os.ReadFile(nameOrPath)
		if err != nil {
			return nil, err
		}
		return Parse(nameOrPath, string(b))
	}

	b, err := builtin.ReadFile(path.Join("templates", builtinName(nameOrPath)+".tmpl"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, nameOrPath)
	}
	return Parse(builtinName(nameOrPath), string(b))
}

// Render executes the template with data and writes the result to w.
func (t *Template) Render(w io.Writer, data *Data) error {
	return t.tmpl.Execute(w, data)
}

// RenderFile renders the template into file, creating any missing parent
// directories.
func (t *Template) RenderFile(file string, data *Data) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := t.Render(f, data); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", t.Name, err)
	}

	return f.Close()
}

func px(n int) string {
	return strconv.Itoa(n) + "px"
}

// dasherize lower cases s, splitting camel case words and replacing
// separators with a dash
func dasherize(s string) string {
	var b strings.Builder
	var prev rune
	for i, c := range s {
		r := c
		switch {
		case r == '_' || r == ' ' || r == '.':
			r = '-'
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
		prev = c
	}
	return b.String()
}

func marshalJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var cssEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`(`, `\(`,
	`)`, `\)`,
	" ", `\ `,
)

// Sprite describes one image within a sheet.
type Sprite struct {
	Name         string `json:"-"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	OffsetX      int    `json:"offset_x"`
	OffsetY      int    `json:"offset_y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	TotalWidth   int    `json:"total_width"`
	TotalHeight  int    `json:"total_height"`
	Image        string `json:"image"`
	EscapedImage string `json:"-"`
}

// Spritesheet describes the sheet as a whole.
type Spritesheet struct {
	Width        int
	Height       int
	Image        string
	EscapedImage string
}

// Data is passed to a template.
type Data struct {
	Sprites     []Sprite
	Spritesheet Spritesheet
	Options     map[string]interface{}
}

// NewData builds template data for a packed layout whose sheet is reachable
// from the stylesheet at image.
func NewData(l *sprite.Layout, image string, options map[string]interface{}) *Data {
	escaped := cssEscaper.Replace(image)

	d := &Data{
		Spritesheet: Spritesheet{
			Width:        l.Width,
			Height:       l.Height,
			Image:        image,
			EscapedImage: escaped,
		},
		Options: make(map[string]interface{}, len(options)),
	}
	for k, v := range options {
		d.Options[k] = v
	}

	for _, p := range l.Placements {
		d.Sprites = append(d.Sprites, Sprite{
			Name:         p.Name,
			X:            p.X,
			Y:            p.Y,
			OffsetX:      -p.X,
			OffsetY:      -p.Y,
			Width:        p.Width(),
			Height:       p.Height(),
			TotalWidth:   l.Width,
			TotalHeight:  l.Height,
			Image:        image,
			EscapedImage: escaped,
		})
	}
	sort.Slice(d.Sprites, func(i, j int) bool { return d.Sprites[i].Name < d.Sprites[j].Name })

	return d
}

// Option returns the named option formatted as a string, or an empty string
// if it is not set.
func (d *Data) Option(key string) string {
	v, ok := d.Options[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Functions reports whether helper functions and mixins should be emitted.
// They are on unless the "functions" option is explicitly false.
func (d *Data) Functions() bool {
	if v, ok := d.Options["functions"].(bool); ok {
		return v
	}
	return true
}

// SpritesheetName is the name used for the variable listing every sprite.
func (d *Data) SpritesheetName() string {
	if name := d.Option("spriteName"); name != "" {
		return dasherize(name)
	}
	return "spritesheet"
}

// VarName returns the variable name for a sprite.
func (d *Data) VarName(name string) string {
	return dasherize(d.Option("varPrefix") + name)
}

// HDVarName returns the variable name the high density pass used for a
// sprite.
func (d *Data) HDVarName(name string) string {
	return dasherize(d.Option("varPrefix") + d.Option("hdPrefix") + "-" + name)
}

// HDImport is the name of the high density partial suitable for @import.
func (d *Data) HDImport() string {
	p := d.Option("hdPath")
	dir, file := path.Split(filepath.ToSlash(p))
	file = strings.TrimSuffix(strings.TrimPrefix(file, "_"), ".scss")
	return dir + file
}

// JSON returns the sprites keyed by name.
func (d *Data) JSON() map[string]Sprite {
	m := make(map[string]Sprite, len(d.Sprites))
	for _, s := range d.Sprites {
		m[s.Name] = s
	}
	return m
}
