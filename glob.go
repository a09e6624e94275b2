package spritehd

import (
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// expand returns the regular files matched by patterns, in pattern order
// with each pattern's matches sorted. A pattern beginning with "!" removes
// anything it matches from the files found so far. "**" matches any number
// of directories.
func expand(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		exclude := strings.HasPrefix(pattern, "!")
		pattern = strings.TrimPrefix(pattern, "!")

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)

		if exclude {
			drop := make(map[string]struct{}, len(matches))
			for _, m := range matches {
				drop[m] = struct{}{}
				delete(seen, m)
			}
			kept := files[:0]
			for _, f := range files {
				if _, ok := drop[f]; !ok {
					kept = append(kept, f)
				}
			}
			files = kept
			continue
		}

		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if !info.Mode().IsRegular() {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	return files, nil
}
