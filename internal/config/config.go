// Package config loads the stabl configuration from .stabl/config.json,
// with an optional .stabl/policy.toml overlay for sharing stability
// policy across projects without copying the whole config.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"stabl/internal/policy"
)

// Config represents the complete stabl configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Graph   GraphConfig   `json:"graph" mapstructure:"graph"`
	Policy  PolicyConfig  `json:"policy" mapstructure:"policy"`
	Cascade CascadeConfig `json:"cascade" mapstructure:"cascade"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// GraphConfig locates the graph document used when no explicit path is
// given on the command line.
type GraphConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PolicyConfig contains the stability policy knobs.
type PolicyConfig struct {
	IgnoredClasses                    []string `json:"ignoredClasses" mapstructure:"ignoredClasses"`
	StableClasses                     []string `json:"stableClasses" mapstructure:"stableClasses"`
	TreatUnstableAsIdentityComparable bool     `json:"treatUnstableAsIdentityComparable" mapstructure:"treatUnstableAsIdentityComparable"`
}

// CascadeConfig contains cascade walk configuration.
type CascadeConfig struct {
	MaxDepth int `json:"maxDepth" mapstructure:"maxDepth"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Graph: GraphConfig{
			Path: "stabl.yaml",
		},
		Cascade: CascadeConfig{
			MaxDepth: 8,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <root>/.stabl/config.json and
// applies the policy.toml overlay when present. A missing config file
// yields the defaults.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("graph.path", "stabl.yaml")
	v.SetDefault("cascade.maxDepth", 8)
	v.SetDefault("logging.format", "human")
	v.SetDefault("logging.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".stabl"))

	cfg := DefaultConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	} else {
		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := applyPolicyOverlay(cfg, filepath.Join(root, ".stabl", "policy.toml")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to <root>/.stabl/config.json.
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".stabl")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Cascade.MaxDepth < 0 {
		return &ConfigError{Field: "cascade.maxDepth", Message: "must not be negative"}
	}
	switch c.Logging.Format {
	case "", "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "must be human or json"}
	}
	return nil
}

// PolicyOptions converts the policy section into classifier options.
func (c *Config) PolicyOptions() policy.Options {
	return policy.Options{
		IgnoredPatterns:                   c.Policy.IgnoredClasses,
		StablePatterns:                    c.Policy.StableClasses,
		TreatUnstableAsIdentityComparable: c.Policy.TreatUnstableAsIdentityComparable,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
