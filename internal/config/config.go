package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/NomaTechnologiesLTD/Pump-Town/internal/defaults"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// FileNames are the config files Load looks for, in order.
var FileNames = []string{"assemble.yml", "assemble.yaml", "assemble.toml"}

const defaultDebounce = 300 * time.Millisecond

// Config holds everything one assembly needs, loaded from assemble.yml.
type Config struct {
	Template  string      `yaml:"template" toml:"template"`
	Fragments string      `yaml:"fragments" toml:"fragments"`
	Pattern   string      `yaml:"pattern" toml:"pattern"`
	Output    string      `yaml:"output" toml:"output"`
	Manifest  string      `yaml:"manifest,omitempty" toml:"manifest"`
	Order     []string    `yaml:"order" toml:"order"`
	Indent    string      `yaml:"indent" toml:"indent"`
	Anchor    string      `yaml:"anchor" toml:"anchor"`
	Header    string      `yaml:"header" toml:"header"`
	Watch     WatchConfig `yaml:"watch" toml:"watch"`

	// BaseDir is the directory relative paths are resolved against: the
	// directory of the loaded file, or the search dir when no file exists.
	BaseDir string `yaml:"-" toml:"-"`

	// Path is the file the config was read from. Empty for defaults.
	Path string `yaml:"-" toml:"-"`
}

// WatchConfig configures `pumpbuild watch`.
type WatchConfig struct {
	// Debounce is how long to wait for more changes before rebuilding.
	Debounce string `yaml:"debounce" toml:"debounce"`
}

// DebounceDelay returns Debounce as a duration, falling back to 300ms.
func (w WatchConfig) DebounceDelay() time.Duration {
	if w.Debounce == "" {
		return defaultDebounce
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}

// Default returns the embedded default configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaults.AssembleYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return &cfg
}

// Load reads the config for dir. When path is set that file is used and must
// exist; otherwise the first of FileNames found in dir wins. Values in the
// file override the defaults. A directory without a config file yields the
// defaults (not an error).
func Load(dir, path string) (*Config, error) {
	if path == "" {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			} else if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("stat %s: %w", candidate, err)
			}
		}
	}

	cfg := Default()
	cfg.BaseDir = dir
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.Path = path
		cfg.BaseDir = filepath.Dir(path)
	}

	abs, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving base dir: %w", err)
	}
	cfg.BaseDir = abs

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeFile overlays the file at path onto cfg. The format follows the
// file extension.
func decodeFile(path string, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return nil
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var errs []error
	required := []struct {
		name, value string
	}{
		{"template", c.Template},
		{"fragments", c.Fragments},
		{"pattern", c.Pattern},
		{"output", c.Output},
		{"anchor", c.Anchor},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.Pattern != "" && !doublestar.ValidatePattern(c.Pattern) {
		errs = append(errs, fmt.Errorf("pattern %q is not a valid glob", c.Pattern))
	}
	if strings.ContainsAny(c.Header, "\r\n") {
		errs = append(errs, errors.New("header must be a single line"))
	}
	if strings.ContainsAny(c.Indent, "\r\n") {
		errs = append(errs, errors.New("indent must not contain line breaks"))
	}
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			errs = append(errs, fmt.Errorf("watch.debounce: %w", err))
		}
	}
	if c.Template != "" && c.Output != "" && c.TemplatePath() == c.OutputPath() {
		errs = append(errs, errors.New("output must not overwrite the template"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// TemplatePath returns the absolute template path.
func (c *Config) TemplatePath() string { return c.resolve(c.Template) }

// FragmentDir returns the absolute fragment directory.
func (c *Config) FragmentDir() string { return c.resolve(c.Fragments) }

// OutputPath returns the absolute artifact path.
func (c *Config) OutputPath() string { return c.resolve(c.Output) }

// ManifestPath returns the absolute manifest path, or "" when disabled.
func (c *Config) ManifestPath() string {
	if c.Manifest == "" {
		return ""
	}
	return c.resolve(c.Manifest)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.BaseDir, p)
}
