// Package config provides centralized configuration management for the hours
// report service. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority), including a local .env file
//  2. config.yaml in the working directory or configs/
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern HOURS_* for namespacing:
//
//	HOURS_SERVER_PORT=8080
//	HOURS_LOGGING_LEVEL=debug
//	HOURS_REPORT_DEFAULT_THRESHOLD=40
//	HOURS_REPORT_MAX_UPLOAD_BYTES=33554432
//	HOURS_SECURITY_ALLOWED_ORIGINS=http://localhost:8080,http://127.0.0.1:8080
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// Use config.Default() for a configuration that needs no environment or files.
package config
