// Package config loads runtime configuration for the portal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   base URL of the backend REST API
//	-t int      identity check timeout (seconds)
//	-i int      notification poll interval (seconds)
//	-d string   path to the local cache database
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "60s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000/",
//	  "identity_timeout": "15s",
//	  "notification_poll_interval": "60s",
//	  "cache_path": "portal.db"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
