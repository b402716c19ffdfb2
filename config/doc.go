// Package config provides the option mapping handed to applications and
// services, plus file and environment loading for the application settings.
//
// Map is a plain key/value mapping with typed getters backed by spf13/cast.
// The only option the lifecycle itself reads is log_level, which sets logger
// verbosity and has no effect on lifecycle behaviour. It accepts level names
// in any case, the aliases warning, critical and notset, and numeric
// severities such as 10 or 40. FromMap leaves every other key unvalidated.
//
//	m := config.Map{"log_level": "debug", "cache_size": 512}
//	size := m.Int("cache_size", 128)
//
// LoadAppConfig reads ./config/<name>.yml (or another supported location and
// format) with Viper, loads an optional .env file with godotenv, and applies
// PREFIX_* environment overrides where PREFIX is the upper-cased app name:
//
//	cfg, err := config.LoadAppConfig("orders")
//	// ORDERS_LOG_LEVEL=debug overrides log_level
//	// ORDERS_LOGGING_FORMAT=json overrides logging.format
package config
