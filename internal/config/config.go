// Package config loads strictivars.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// FileName is the name of the configuration file looked up from the working
// directory towards the filesystem root.
const FileName = "strictivars.toml"

var ErrNoConfig = errors.New("no " + FileName + " found")

type Config struct {
	// Path of the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
	// Root is the directory include and exclude patterns are relative to.
	Root string `toml:"-"`

	Instrument InstrumentConfig `toml:"instrument"`
	Cache      CacheConfig      `toml:"cache"`
	Run        RunConfig        `toml:"run"`
}

type InstrumentConfig struct {
	Include     []string `toml:"include"`
	Exclude     []string `toml:"exclude"`
	EvalRewrite *bool    `toml:"eval_rewrite"`
	Ignore      []string `toml:"ignore"`
}

type CacheConfig struct {
	Enabled *bool  `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type RunConfig struct {
	Jobs int `toml:"jobs"`
}

// Default returns the configuration used when no file is found: every .rb
// file under root, eval rewriting and caching on.
func Default(root string) *Config {
	return &Config{
		Root: root,
		Instrument: InstrumentConfig{
			Include: []string{"**/*.rb"},
		},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoConfig
		}
		dir = parent
	}
}

// Load decodes the file at path and validates it.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	cfg := Default(filepath.Dir(abs))
	cfg.Path = abs

	meta, err := toml.DecodeFile(abs, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("instrument", "include") && len(cfg.Instrument.Include) == 0 {
		return nil, fmt.Errorf("%s: [instrument].include must not be empty", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the nearest config above startDir, or the defaults rooted
// at startDir when there is none.
func Discover(startDir string) (*Config, error) {
	path, err := Find(startDir)
	if errors.Is(err, ErrNoConfig) {
		root, absErr := filepath.Abs(startDir)
		if absErr != nil {
			return nil, absErr
		}
		return Default(root), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(path)
}

func (c *Config) validate() error {
	for _, pattern := range slices.Concat(c.Instrument.Include, c.Instrument.Exclude) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	for _, name := range c.Instrument.Ignore {
		if !strings.HasPrefix(name, "@") || strings.HasPrefix(name, "@@") {
			return fmt.Errorf("[instrument].ignore: %q is not an instance variable", name)
		}
	}
	if c.Run.Jobs < 0 {
		return fmt.Errorf("[run].jobs must not be negative")
	}
	return nil
}

// EvalRewrite reports whether eval-family calls are rewritten. Defaults to true.
func (c *Config) EvalRewrite() bool {
	return c.Instrument.EvalRewrite == nil || *c.Instrument.EvalRewrite
}

// CacheEnabled defaults to true.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// Matches reports whether path is selected by the include patterns and not
// rejected by the exclude patterns. Relative paths are taken relative to
// the config root.
func (c *Config) Matches(path string) bool {
	rel := path
	if filepath.IsAbs(path) && c.Root != "" {
		r, err := filepath.Rel(c.Root, path)
		if err != nil || strings.HasPrefix(r, "..") {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)

	included := false
	for _, pattern := range c.Instrument.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range c.Instrument.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}
