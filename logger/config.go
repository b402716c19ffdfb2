package logger

import (
	"fmt"
	"strconv"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
	ServiceName string `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}
	if !contains(validLevels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	validFormats := []string{FormatJSON, FormatConsole, FormatPretty}
	if !contains(validFormats, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	return nil
}

func contains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}

// NormalizeLevel maps a level name or number onto a level accepted by
// Config. Besides the zerolog names it accepts the conventional aliases
// (warning, critical, notset) and numeric severities, where 10, 20, 30, 40
// and 50 are debug, info, warn, error and fatal. A number between two
// severities rounds up to the next one. The second result is false when
// level is not recognized.
func NormalizeLevel(level string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(level))
	switch l {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		return l, true
	case "notset":
		return "trace", true
	case "warning":
		return "warn", true
	case "critical":
		return "fatal", true
	}
	n, err := strconv.Atoi(l)
	if err != nil {
		return "", false
	}
	switch {
	case n <= 0:
		return "trace", true
	case n <= 10:
		return "debug", true
	case n <= 20:
		return "info", true
	case n <= 30:
		return "warn", true
	case n <= 40:
		return "error", true
	default:
		return "fatal", true
	}
}
