// Package config loads runtime configuration for the AtlasInfo CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   sqlite file backing the local store
//	-t int      inactivity timeout (seconds)
//	-k string   OpenWeather API key
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "store_dsn": "atlasinfo.db",
//	  "inactivity_timeout": "30s",
//	  "activity_throttle": "2s",
//	  "simulated_latency": "500ms",
//	  "weather_api_key": "...",
//	  "log_backend": "slog"
//	}
//
// Primary API
//
//   - type Config                     — all runtime settings
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
