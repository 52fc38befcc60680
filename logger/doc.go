// Package logger provides structured logging for the HealthyMeal backend
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("healthymeal").WithComponent("openrouter")
//	log.Info("request complete", logger.Fields("duration_ms", 120))
package logger
