// Package config loads runtime configuration for the SafeShare client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-d string   path of the local credential database
//	-o string   directory decrypted downloads are written to
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000/api",
//	  "credential_db_path": "safeshare.db",
//	  "download_dir": "downloads",
//	  "encryption_passphrase": "...",
//	  "encryption_salt": "...",
//	  "request_timeout": "30s",
//	  "session_establish_timeout": "10s",
//	  "session_poll_interval": "200ms"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
