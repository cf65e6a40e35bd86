package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/setanarut/laymix"
	"github.com/setanarut/laymix/logger"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = "laymix.yaml"

// Config represents laymix configuration options
type Config struct {
	// Items are the input files or directories
	Items []string `yaml:"items"`

	// SaveDir is the directory generated images are written to
	SaveDir string `yaml:"savedir"`

	// Prefixes split the input into layer groups
	Prefixes []string `yaml:"prefixes"`

	// IncludeBackground lets every group be left out of a combination
	IncludeBackground bool `yaml:"include_background"`

	// ApplyToAll offers every layer to every background
	ApplyToAll bool `yaml:"apply_to_all"`

	// ExactMatch compares whole names instead of substrings
	ExactMatch bool `yaml:"exact_match"`

	// KeepNames adds layer name parts to output names
	KeepNames bool `yaml:"keep_names"`

	// Delimiter separates output name parts
	Delimiter string `yaml:"delimiter"`

	// Exclude lists glob patterns of input files to skip
	Exclude []string `yaml:"exclude"`

	// Matte is an optional "#rrggbb" color outputs are flattened onto
	Matte string `yaml:"matte"`

	// LogLevel sets the logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		SaveDir:   laymix.DefaultSaveDir,
		Delimiter: "_",
		LogLevel:  "info",
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if len(fileCfg.Items) > 0 {
		cfg.Items = fileCfg.Items
	}
	if fileCfg.SaveDir != "" {
		cfg.SaveDir = fileCfg.SaveDir
	}
	if len(fileCfg.Prefixes) > 0 {
		cfg.Prefixes = fileCfg.Prefixes
	}
	cfg.IncludeBackground = fileCfg.IncludeBackground
	cfg.ApplyToAll = fileCfg.ApplyToAll
	cfg.ExactMatch = fileCfg.ExactMatch
	cfg.KeepNames = fileCfg.KeepNames
	if fileCfg.Delimiter != "" {
		cfg.Delimiter = fileCfg.Delimiter
	}
	if len(fileCfg.Exclude) > 0 {
		cfg.Exclude = fileCfg.Exclude
	}
	if fileCfg.Matte != "" {
		cfg.Matte = fileCfg.Matte
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}

	return cfg, nil
}

// LoadConfigFromDir loads laymix.yaml from dir.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

// Validate checks the configuration for values a run cannot work with
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", c.LogLevel)
	}
	return c.Options().Validate()
}

// Options converts the configuration into mixer options
func (c *Config) Options() laymix.Options {
	return laymix.Options{
		Prefixes:          c.Prefixes,
		SaveDir:           c.SaveDir,
		IncludeBackground: c.IncludeBackground,
		ApplyToAll:        c.ApplyToAll,
		ExactMatch:        c.ExactMatch,
		KeepNames:         c.KeepNames,
		Delimiter:         c.Delimiter,
		Exclude:           c.Exclude,
		Matte:             c.Matte,
	}
}
