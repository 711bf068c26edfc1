// Package config provides centralized configuration for the inflammation
// tools. It handles loading configuration from multiple sources, validation,
// and a type-safe API for reading values.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (INFLAMMATION_CONFIG, default inflammation.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern INFLAMMATION_<SECTION>_<FIELD>:
//
//	INFLAMMATION_SERVER_PORT=8080
//	INFLAMMATION_LOGGING_LEVEL=debug
//	INFLAMMATION_SOURCE_JSON_MULTI_FILE=true
//	INFLAMMATION_SOURCE_WORKERS=8
//
// # Validation
//
// Every section carries go-playground/validator tags and is validated once
// at load time.
//
// # Testing
//
// Use config.Default() to get a configuration that needs no environment
// variables or files.
package config
