package config

import (
	"fmt"
	"strings"

	"github.com/kbukum/appkit/logger"
	"github.com/kbukum/appkit/validation"
)

// AppConfig contains the fields every application needs. Options carries
// free-form settings handed to the application as a Map.
//
//	name: orders
//	environment: staging
//	log_level: debug
//	options:
//	  cache_size: 512
type AppConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	LogLevel    string        `yaml:"log_level" mapstructure:"log_level"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
	Options     Map           `yaml:"options" mapstructure:"options"`
}

// FromMap builds an AppConfig for name from a plain option mapping.
// log_level is the only recognized option: it accepts level names in any
// case, the aliases warning, critical and notset, and numeric severities
// (see logger.NormalizeLevel), and defaults to info. Every other key,
// including ones that look like AppConfig fields, is kept opaque in Options
// and never validated. An unrecognized log_level is passed through so that
// Validate rejects it.
func FromMap(name string, m Map) *AppConfig {
	level := "info"
	if raw := m.LogLevel(""); raw != "" {
		level = strings.ToLower(strings.TrimSpace(raw))
		if l, ok := logger.NormalizeLevel(raw); ok {
			level = l
		}
	}
	return &AppConfig{
		Name:     name,
		LogLevel: level,
		Options:  m.Clone(),
	}
}

// ApplyDefaults applies default values. log_level takes precedence over
// logging.level, and debug mode lowers an unset level to debug.
func (c *AppConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.LogLevel != "" {
		c.Logging.Level = c.LogLevel
	}
	if c.Logging.Level == "" && c.Debug {
		c.Logging.Level = "debug"
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
	if c.Options == nil {
		c.Options = Map{}
	}
}

// Validate validates the configuration.
func (c *AppConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// ToMap returns the options mapping with log_level reflecting the effective level.
func (c *AppConfig) ToMap() Map {
	m := c.Options.Clone()
	if c.Logging.Level != "" {
		m[KeyLogLevel] = c.Logging.Level
	}
	return m
}
