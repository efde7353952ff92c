// Package config loads the overlay layer's host-application configuration
// from YAML files: certificate store location, editing defaults and logging.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Common errors
var (
	ErrConfigurationError   = errors.New("configuration error")
	ErrMissingRequiredField = errors.New("missing required field")
)

// ConfigError represents a configuration error with context.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// StoreConfig configures the certificate store.
type StoreConfig struct {
	// Dir is the certificate store directory.
	Dir string `yaml:"dir" json:"dir"`
}

// SetDefaults sets default values for store configuration.
func (c *StoreConfig) SetDefaults() {
	if c.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.Dir = filepath.Join(home, ".overlay", "certificates")
	}
}

// EditingConfig configures editing defaults.
type EditingConfig struct {
	// DefaultAuthor is stamped onto new annotations and signatures.
	DefaultAuthor string `yaml:"default-author" json:"default_author,omitempty"`

	// UndoDepth is the annotation undo history depth.
	UndoDepth int `yaml:"undo-depth" json:"undo_depth,omitempty"`
}

// SetDefaults sets default values for editing configuration.
func (c *EditingConfig) SetDefaults() {
	if c.UndoDepth <= 0 {
		c.UndoDepth = 50
	}
}

// Validate validates the editing configuration.
func (c *EditingConfig) Validate() error {
	if c.UndoDepth < 0 {
		return NewConfigError("undo-depth", "must not be negative")
	}
	return nil
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level" json:"level,omitempty"`

	// Development enables human-readable console output.
	Development bool `yaml:"development" json:"development,omitempty"`
}

// SetDefaults sets default values for logging configuration.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// BuildLogger constructs a zap logger from the configuration.
func (c *LoggingConfig) BuildLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, NewConfigError("level", fmt.Sprintf("unknown log level %q", c.Level))
	}

	var cfg zap.Config
	if c.Development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// AppConfig contains the complete overlay configuration.
type AppConfig struct {
	// Store contains certificate store configuration.
	Store *StoreConfig `yaml:"store" json:"store,omitempty"`

	// Editing contains editing defaults.
	Editing *EditingConfig `yaml:"editing" json:"editing,omitempty"`

	// Logging contains logging configuration.
	Logging *LoggingConfig `yaml:"logging" json:"logging,omitempty"`
}

// SetDefaults fills in defaults for all sections, creating them as needed.
func (c *AppConfig) SetDefaults() {
	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	c.Store.SetDefaults()
	if c.Editing == nil {
		c.Editing = &EditingConfig{}
	}
	c.Editing.SetDefaults()
	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	c.Logging.SetDefaults()
}

// Validate validates the whole configuration.
func (c *AppConfig) Validate() error {
	if c.Store == nil || c.Store.Dir == "" {
		return NewConfigError("store.dir", "required field is missing")
	}
	if c.Editing != nil {
		if err := c.Editing.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Default returns the configuration with all defaults applied.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.SetDefaults()
	return cfg
}

// LoadAppConfig loads the complete application configuration from a file,
// applying defaults for absent sections.
func LoadAppConfig(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config AppConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}
