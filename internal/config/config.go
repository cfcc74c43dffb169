// Package config loads the TOML build manifest that controls a generation
// run: which codegen.Options are enabled, how many functions to process
// concurrently, and where the disk cache lives.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "snowman.toml"

// Manifest is the parsed [generate]/[driver]/[cache] sections of a
// snowman.toml file.
type Manifest struct {
	Path string

	Generate GenerateConfig `toml:"generate"`
	Driver   DriverConfig   `toml:"driver"`
	Cache    CacheConfig    `toml:"cache"`
}

// GenerateConfig mirrors codegen.Options field-for-field so a manifest can
// toggle every generator switch without this package depending on codegen.
type GenerateConfig struct {
	PreferConstants       bool `toml:"prefer_constants"`
	PreferCStrings        bool `toml:"prefer_cstrings"`
	PreferGlobals         bool `toml:"prefer_globals"`
	RegisterVariableNames bool `toml:"register_variable_names"`
	ExperimentalInlining  bool `toml:"experimental_inlining"`
}

// DriverConfig controls the per-function fan-out.
type DriverConfig struct {
	Jobs int `toml:"jobs"` // <= 0 means GOMAXPROCS
}

// CacheConfig controls the on-disk function-summary cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty means the default XDG cache location
}

// Default returns the manifest snowman uses when no snowman.toml is
// found: every heuristic off, driver concurrency left to the runtime, and
// caching enabled at the default location.
func Default() *Manifest {
	return &Manifest{Cache: CacheConfig{Enabled: true}}
}

// Find walks upward from startDir looking for a snowman.toml, the way
// teacher tooling locates its own project manifest.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the snowman.toml at path.
func Load(path string) (*Manifest, error) {
	m := Default()
	meta, err := toml.DecodeFile(path, m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("cache") && !meta.IsDefined("cache", "enabled") {
		m.Cache.Enabled = true
	}
	m.Path = path
	return m, nil
}

// LoadFromDir finds and loads a snowman.toml starting at dir, falling
// back to Default when none exists.
func LoadFromDir(dir string) (*Manifest, error) {
	path, ok, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// CacheDir resolves the effective cache directory: the manifest's
// explicit [cache].dir, or the XDG-standard default under app.
func (c CacheConfig) CacheDir(app string) (string, error) {
	if dir := strings.TrimSpace(c.Dir); dir != "" {
		return dir, nil
	}
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}
