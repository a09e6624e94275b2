package spritehd

import (
	"crypto/sha1"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/bodgit/spritehd/stylesheet"
	"github.com/goccy/go-yaml"
	_ "github.com/mattn/go-sqlite3"
)

// Cache remembers a digest of the inputs of each target so unchanged
// targets can be skipped.
type Cache struct {
	db *sql.DB
}

// NewCache opens or creates the cache database stored in file.
func NewCache(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS target (name TEXT PRIMARY KEY NOT NULL, digest TEXT NOT NULL, built INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the digest recorded for the named target, or an empty
// string if there is none.
func (c *Cache) Lookup(name string) (string, error) {
	var digest string
	switch err := c.db.QueryRow("SELECT digest FROM target WHERE name = ?", name).Scan(&digest); err {
	case sql.ErrNoRows:
		return "", nil
	case nil:
		return digest, nil
	default:
		return "", err
	}
}

// Store records the digest for the named target.
func (c *Cache) Store(name, digest string) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO target (name, digest, built) VALUES (?, ?, ?)", name, digest, time.Now().Unix()); err != nil {
		return err
	}
	return nil
}

// Forget removes any digest recorded for the named target.
func (c *Cache) Forget(name string) error {
	if _, err := c.db.Exec("DELETE FROM target WHERE name = ?", name); err != nil {
		return err
	}
	return nil
}

// digest hashes everything that affects the output of a target: the sprite
// name, the resolved options, the template sources and the name and
// contents of every source file
func digest(t Target, o Options, templates []*stylesheet.Template, files []string) (string, error) {
	h := sha1.New()

	// The worker count has no effect on the output
	o.Workers = 0

	// Sort keys so the marshalled form is stable
	keys := make([]string, 0, len(o.CSSOpts))
	for k := range o.CSSOpts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	opts := make(yaml.MapSlice, 0, len(keys))
	for _, k := range keys {
		opts = append(opts, yaml.MapItem{Key: k, Value: o.CSSOpts[k]})
	}
	o.CSSOpts = nil

	b, err := yaml.Marshal(o)
	if err != nil {
		return "", err
	}
	c, err := yaml.Marshal(opts)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(h, "%s\n%s\n%s\n", t.SpriteName, b, c)

	for _, tmpl := range templates {
		fmt.Fprintf(h, "%s\n%s\n", tmpl.Name, tmpl.Text)
	}

	for _, file := range files {
		fmt.Fprintf(h, "%s\n", file)
		if err := hashFile(h, file); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%X", h.Sum(nil)), nil
}

func hashFile(w io.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
