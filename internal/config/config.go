package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/re-centris/method-extractor/internal/analyzer/normalizer"
	"github.com/re-centris/method-extractor/internal/analyzer/parser"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the main configuration structure
type Config struct {
	Backend       string      `yaml:"backend" mapstructure:"backend"`
	MinLines      int         `yaml:"min_lines" mapstructure:"min_lines"`
	OneLine       bool        `yaml:"one_line" mapstructure:"one_line"`
	CommentPolicy string      `yaml:"comment_policy" mapstructure:"comment_policy"`
	Workers       int         `yaml:"workers" mapstructure:"workers"`
	Output        string      `yaml:"output" mapstructure:"output"`
	Extensions    []string    `yaml:"extensions" mapstructure:"extensions"`
	Exclude       []string    `yaml:"exclude" mapstructure:"exclude"`
	CacheSize     int         `yaml:"cache_size" mapstructure:"cache_size"`
	Strict        bool        `yaml:"strict" mapstructure:"strict"`
	MaxFileSize   int64       `yaml:"max_file_size" mapstructure:"max_file_size"`
	Clone         CloneConfig `yaml:"clone" mapstructure:"clone"`
	Log           LogConfig   `yaml:"log" mapstructure:"log"`
}

// CloneConfig contains settings for remote repositories
type CloneConfig struct {
	Dir   string `yaml:"dir" mapstructure:"dir"`
	Depth int    `yaml:"depth" mapstructure:"depth"`
	Keep  bool   `yaml:"keep" mapstructure:"keep"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Debug bool   `yaml:"debug" mapstructure:"debug"`
	File  string `yaml:"file" mapstructure:"file"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend:       "treesitter",
		CommentPolicy: "blank",
		Workers:       0, // 0 means use number of CPU cores
		Output:        "./output",
		Extensions:    []string{".java"},
		Exclude:       []string{},
		CacheSize:     1000,
		MaxFileSize:   10 << 20,
		Clone: CloneConfig{
			Depth: 1,
		},
	}
}

// SetDefaults registers the defaults with v
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("backend", d.Backend)
	v.SetDefault("min_lines", d.MinLines)
	v.SetDefault("one_line", d.OneLine)
	v.SetDefault("comment_policy", d.CommentPolicy)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("output", d.Output)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("exclude", d.Exclude)
	v.SetDefault("cache_size", d.CacheSize)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("max_file_size", d.MaxFileSize)
	v.SetDefault("clone.dir", d.Clone.Dir)
	v.SetDefault("clone.depth", d.Clone.Depth)
	v.SetDefault("clone.keep", d.Clone.Keep)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.file", d.Log.File)
}

// Load decodes the configuration held by v and validates it
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no run can use
func (c *Config) Validate() error {
	if _, err := parser.ParseKind(c.Backend); err != nil {
		return fmt.Errorf("%w: backend: %w", ErrInvalidConfig, err)
	}
	if _, err := normalizer.ParsePolicy(c.CommentPolicy); err != nil {
		return fmt.Errorf("%w: comment_policy: %w", ErrInvalidConfig, err)
	}
	if c.MinLines < 0 {
		return fmt.Errorf("%w: min_lines must not be negative, got %d", ErrInvalidConfig, c.MinLines)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative, got %d", ErrInvalidConfig, c.CacheSize)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: extensions must not be empty", ErrInvalidConfig)
	}
	return nil
}

// MaxWorkers returns the worker count, resolving 0 to the number of CPUs
func (c *Config) MaxWorkers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// NormalizerOptions returns the normalization settings of the run
func (c *Config) NormalizerOptions() normalizer.Options {
	policy, _ := normalizer.ParsePolicy(c.CommentPolicy)
	return normalizer.Options{
		MinLines: c.MinLines,
		OneLine:  c.OneLine,
		Policy:   policy,
	}
}

// ParserConfig returns the backend settings of the run
func (c *Config) ParserConfig() parser.Config {
	return parser.Config{
		Strict:      c.Strict,
		MaxFileSize: c.MaxFileSize,
	}
}

// Write saves the configuration as YAML
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}
