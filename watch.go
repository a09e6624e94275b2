package spritehd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 500 * time.Millisecond

// watchDirs returns the directories that need watching to see changes to
// anything matched by patterns
func watchDirs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			continue
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		base = filepath.FromSlash(base)
		seen[base] = struct{}{}

		if !strings.Contains(pattern, "**") {
			continue
		}
		subdirs, err := walkDirs(base)
		if err != nil {
			return nil, err
		}
		for _, dir := range subdirs {
			seen[dir] = struct{}{}
		}
	}

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// walkDirs returns root and every directory below it
func walkDirs(root string) ([]string, error) {
	var dirs []string
	if err := filepath.WalkDir(root, func(dir string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Ignore any hidden directories
		if dir != root && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		dirs = append(dirs, dir)
		return nil
	}); err != nil {
		return nil, err
	}
	return dirs, nil
}

// recursive reports whether dir is below the base of a pattern using "**",
// and so new files anywhere in it could match
func recursive(patterns []string, dir string) bool {
	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") || !strings.Contains(pattern, "**") {
			continue
		}
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		rel, err := filepath.Rel(filepath.FromSlash(base), dir)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// matches reports whether file is matched by at least one pattern and not
// excluded by any
func matches(patterns []string, file string) bool {
	file = filepath.ToSlash(filepath.Clean(file))
	matched := false
	for _, pattern := range patterns {
		exclude := strings.HasPrefix(pattern, "!")
		pattern = filepath.ToSlash(filepath.Clean(strings.TrimPrefix(pattern, "!")))
		if ok, _ := doublestar.Match(pattern, file); ok {
			if exclude {
				return false
			}
			matched = true
		}
	}
	return matched
}

// Watch builds every target and then rebuilds any target whose sources
// change until ctx is cancelled. The outcome of each build is passed to fn.
func (s *SpriteHD) Watch(ctx context.Context, targets []Target, fn func(*Result, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	byName := make(map[string]Target, len(targets))
	for _, t := range targets {
		byName[t.Name] = t

		dirs, err := watchDirs(t.Src)
		if err != nil {
			return err
		}
		for _, dir := range dirs {
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			s.logger.Printf("Watching %s\n", dir)
		}
	}

	for _, t := range targets {
		fn(s.Build(ctx, t, false))
	}

	pending := make(chan string)
	debounce := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range debounce {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}

			// Skip temp files
			if filepath.Base(event.Name)[0] == '.' {
				continue
			}

			// Directories created under a "**" pattern need watching
			// too, and may already hold matching files
			newDir := false
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					newDir = s.watchTree(w, targets, event.Name)
				}
			}

			for _, t := range targets {
				if !matches(t.Src, event.Name) && !(newDir && recursive(t.Src, event.Name)) {
					continue
				}
				name := t.Name

				// Debounce: wait before rebuilding so a burst of
				// changes results in a single build
				if timer, exists := debounce[name]; exists {
					timer.Stop()
				}
				debounce[name] = time.AfterFunc(debounceDelay, func() {
					select {
					case pending <- name:
					case <-ctx.Done():
					}
				})
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Printf("Watcher error: %v\n", err)
		case name := <-pending:
			s.logger.Printf("Rebuilding %s\n", name)
			fn(s.Build(ctx, byName[name], false))
		}
	}
}

// watchTree adds dir and everything below it to w if any target needs it,
// reporting whether it did
func (s *SpriteHD) watchTree(w *fsnotify.Watcher, targets []Target, dir string) bool {
	for _, t := range targets {
		if !recursive(t.Src, dir) {
			continue
		}
		dirs, err := walkDirs(dir)
		if err != nil {
			s.logger.Printf("Watcher error: %v\n", err)
			return false
		}
		for _, d := range dirs {
			if err := w.Add(d); err != nil {
				s.logger.Printf("Failed to watch %s: %v\n", d, err)
				continue
			}
			s.logger.Printf("Watching %s\n", d)
		}
		return true
	}
	return false
}
