package spritehd

import (
	"fmt"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

// Sources is a list of glob patterns. In YAML it may be written as a single
// string or a sequence of strings.
type Sources []string

// UnmarshalYAML implements yaml.InterfaceUnmarshaler.
func (s *Sources) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*s = Sources{single}
		return nil
	}
	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*s = Sources(list)
	return nil
}

// Target is a single sprite to build.
type Target struct {
	Name       string  `yaml:"-"`
	Src        Sources `yaml:"src"`
	SpriteName string  `yaml:"spriteName"`
	Options    Options `yaml:"options,omitempty"`
}

// Config is the contents of a configuration file. Options are shared by
// every target and overridden by the options of each target.
type Config struct {
	Options Options            `yaml:"options,omitempty"`
	Targets map[string]*Target `yaml:"targets"`
}

// ParseConfig decodes a configuration, rejecting unknown keys.
func ParseConfig(b []byte) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalWithOptions(b, &c, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	for name, t := range c.Targets {
		if t == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingSrc, name)
		}
		t.Name = name
		if len(t.Src) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingSrc, name)
		}
		if t.SpriteName == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingSpriteName, name)
		}
	}

	return &c, nil
}

// LoadConfig reads and decodes the configuration file at file.
func LoadConfig(file string) (*Config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, file)
		}
		return nil, err
	}
	return ParseConfig(b)
}

// Select returns the named targets, or every target if no names are given,
// each with the shared options merged in. Targets are returned sorted by
// name.
func (c *Config) Select(names ...string) ([]Target, error) {
	if len(names) == 0 {
		for name := range c.Targets {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	targets := make([]Target, 0, len(names))
	for _, name := range names {
		t, ok := c.Targets[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
		}
		target := *t
		target.Options = Merge(c.Options, t.Options)
		targets = append(targets, target)
	}

	return targets, nil
}
