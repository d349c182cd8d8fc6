// Package config provides configuration management for the fleet chart tool.
// It handles loading configuration from multiple sources, validation, and
// path resolution relative to the executable.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (config.yaml or configs/config.yaml)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FLEET_<SECTION>_<KEY>:
//
//	FLEET_INPUT_PATH=/data/nuclear_power_plants.xlsx
//	FLEET_INPUT_COLUMNS_COMMERCIAL="Kommerzieller Betrieb"
//	FLEET_AGGREGATION_FIRST_YEAR=1955
//	FLEET_AGGREGATION_CAPTURE_DATE=2023-05-07
//	FLEET_LOGGING_LEVEL=debug
//	FLEET_SERVER_PORT=8050
//	FLEET_SERVER_RATE_LIMIT_RPS=0
//
// # Path Management
//
// The default input path is relative to the executable directory, so the tool
// finds its data the same way regardless of the working directory:
//
//	paths, _ := config.GetPaths()
//	input, _ := cfg.ResolveInputPath(paths)
//
// # Validation
//
// Struct constraints (year window, capture date layout, log level, port
// range) are checked with go-playground/validator at load time.
package config
