// Package config loads streamkit configuration from YAML files, .env files
// and environment variables.
//
// It uses Viper for file parsing and godotenv for .env files. Environment
// variables carrying the configured prefix override file values; the rest
// of the variable name maps onto nested keys:
//
//	STREAMKIT_EXECUTION_WORKERS=8       -> execution.workers
//	STREAMKIT_LOGGING_LEVEL=debug       -> logging.level
//
// # Usage
//
//	var cfg stream.Config
//	err := config.LoadConfig("streamkit", &cfg, config.WithEnvPrefix("STREAMKIT"))
package config
