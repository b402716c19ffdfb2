// Package logger provides structured logging for appkit applications
// using zerolog.
//
// It supports JSON and console output, per-logger levels (the application's
// log_level option), and component- or service-scoped loggers with
// structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
package logger
