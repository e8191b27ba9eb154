// Package config loads runtime configuration for the console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: KBCONSOLE_BASE_URL, KBCONSOLE_REQUEST_TIMEOUT,
//     KBCONSOLE_SESSION_DB, KBCONSOLE_LOG_LEVEL, KBCONSOLE_DOWNLOAD_DIR,
//     optionally seeded from a .env file in the working directory.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the platform API
//	-t int      request timeout (seconds)
//	-d string   session database file
//	-l string   log level
//	-o string   download directory
//
// # JSON schema
//
//	{
//	  "base_url": "http://localhost:8053",
//	  "request_timeout": "10s",
//	  "session_db": "kbconsole.db",
//	  "log_level": "info",
//	  "download_dir": "downloads"
//	}
package config
