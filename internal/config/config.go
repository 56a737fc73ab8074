// Package config loads and validates the fingerprinting configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/viper"
)

// DefaultPattern matches DIGEST(<path>) placeholders, capturing the path.
const DefaultPattern = `DIGEST\(([^)\s]+)\)`

// DefaultReferenceFiles selects which output-tree files are scanned and rewritten.
const DefaultReferenceFiles = "**/*.html"

// Config represents the complete revstamp configuration
type Config struct {
	// Root is the public root directory containing the build output tree
	Root string `json:"root" mapstructure:"root"`

	// Pattern is the placeholder matcher with exactly one capturing group
	// yielding the asset path text
	Pattern string `json:"pattern" mapstructure:"pattern"`

	// DiscardNonFilenamePatternParts controls whether a replacement eliminates
	// the decorator text around the captured path or substitutes the path in place
	DiscardNonFilenamePatternParts bool `json:"discardNonFilenamePatternParts" mapstructure:"discardNonFilenamePatternParts"`

	// ReferenceFiles is the glob selecting reference files under the root
	ReferenceFiles string `json:"referenceFiles" mapstructure:"referenceFiles"`

	// Precision is the hash hex-digit count embedded in renamed filenames
	Precision int `json:"precision" mapstructure:"precision"`

	// AlwaysRun forces the rewriting pass regardless of environment
	AlwaysRun bool `json:"alwaysRun" mapstructure:"alwaysRun"`

	// Environments lists build environments the rewriting pass runs for
	Environments []string `json:"environments" mapstructure:"environments"`

	// PrependHost maps environment names to URL prefixes applied to hashed paths
	PrependHost map[string]string `json:"prependHost" mapstructure:"prependHost"`

	// Manifest is the output location for the original-to-hashed mapping;
	// empty disables manifest output
	Manifest string `json:"manifest" mapstructure:"manifest"`

	// Infixes lists sibling-file suffix variants renamed alongside their
	// primary file (e.g. "@2x")
	Infixes []string `json:"infixes" mapstructure:"infixes"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Root:                           ".",
		Pattern:                        DefaultPattern,
		DiscardNonFilenamePatternParts: true,
		ReferenceFiles:                 DefaultReferenceFiles,
		Precision:                      8,
		AlwaysRun:                      false,
		Environments:                   []string{"production"},
		PrependHost:                    map[string]string{},
		Manifest:                       "",
		Infixes:                        []string{},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads revstamp.{yaml,json} from dir, falling back to defaults when
// no config file exists.
func Load(dir string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("root", defaults.Root)
	v.SetDefault("pattern", defaults.Pattern)
	v.SetDefault("discardNonFilenamePatternParts", defaults.DiscardNonFilenamePatternParts)
	v.SetDefault("referenceFiles", defaults.ReferenceFiles)
	v.SetDefault("precision", defaults.Precision)
	v.SetDefault("alwaysRun", defaults.AlwaysRun)
	v.SetDefault("environments", defaults.Environments)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("infixes", defaults.Infixes)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("revstamp")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.PrependHost == nil {
		cfg.PrependHost = map[string]string{}
	}

	return &cfg, nil
}

// Save writes the configuration to revstamp.json in dir
func (c *Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "revstamp.json"), data, 0o644)
}

// Validate checks the configuration before any file I/O happens
func (c *Config) Validate() error {
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return &ConfigError{Field: "pattern", Message: "does not compile: " + err.Error()}
	}
	if re.NumSubexp() != 1 {
		return &ConfigError{Field: "pattern", Message: "must have exactly one capturing group"}
	}
	if c.Precision < 1 {
		return &ConfigError{Field: "precision", Message: "must be at least 1"}
	}
	if c.Precision > 64 {
		return &ConfigError{Field: "precision", Message: "cannot exceed the 64 hex digits of the content digest"}
	}
	if c.ReferenceFiles == "" {
		return &ConfigError{Field: "referenceFiles", Message: "must not be empty"}
	}
	return nil
}

// ShouldRun reports whether the rewriting pass runs for the given environment.
func (c *Config) ShouldRun(environment string) bool {
	if c.AlwaysRun {
		return true
	}
	for _, env := range c.Environments {
		if env == environment {
			return true
		}
	}
	return false
}

// HostFor returns the URL prefix configured for the given environment,
// or empty when none applies.
func (c *Config) HostFor(environment string) string {
	return c.PrependHost[environment]
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
