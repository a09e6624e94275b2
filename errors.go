package spritehd

import "errors"

// Sentinel errors for configuration and build operations.
var (
	ErrConfigNotFound    = errors.New("config file not found")
	ErrConfigParse       = errors.New("failed to parse config")
	ErrUnknownTarget     = errors.New("unknown target")
	ErrMissingSrc        = errors.New("target has no src")
	ErrMissingSpriteName = errors.New("target has no spriteName")
	ErrNoSources         = errors.New("no source images matched")
	ErrDuplicateSprite   = errors.New("duplicate sprite name")
	ErrOddImageSize      = errors.New("image size is not even")
	ErrInvalidOption     = errors.New("invalid option")
)
