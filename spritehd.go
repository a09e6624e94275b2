/*
Package spritehd builds sprite sheets for high and standard density
displays.

Every source image is copied unchanged into a high density ("HD") asset
directory and a 50% copy is written to a standard density ("LD") asset
directory. Each directory is then packed into its own sheet with a matching
stylesheet; the standard density stylesheet imports the high density one and
swaps it in on high resolution displays.
*/
package spritehd

import "log"

// SpriteHD builds sprite targets.
type SpriteHD struct {
	cache  *Cache
	logger *log.Logger
}

// New returns a SpriteHD. The cache may be nil in which case every target is
// always built.
func New(cache *Cache, logger *log.Logger) *SpriteHD {
	return &SpriteHD{
		cache:  cache,
		logger: logger,
	}
}
