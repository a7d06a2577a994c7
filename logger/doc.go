// Package logger provides structured logging for tinydi using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("di")
//	log.Debug("service registered", logger.Fields(logger.FieldServiceKey, key))
package logger
