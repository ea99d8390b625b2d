// Package logger provides structured logging for streamkit using zerolog.
//
// Pipelines log through named component loggers obtained from the registry,
// so an application that calls Init once controls the level and format of
// every engine message.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("stream")
//	log.Debug("chain consumed", logger.Fields(logger.FieldChain, id, logger.FieldOperation, "collect"))
package logger
