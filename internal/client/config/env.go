package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvBaseURL        = "KBCONSOLE_BASE_URL"
	EnvRequestTimeout = "KBCONSOLE_REQUEST_TIMEOUT"
	EnvSessionDB      = "KBCONSOLE_SESSION_DB"
	EnvLogLevel       = "KBCONSOLE_LOG_LEVEL"
	EnvDownloadDir    = "KBCONSOLE_DOWNLOAD_DIR"
)

// envFile is loaded before reading the environment when it exists.
// Variables already set in the process environment win.
var envFile = ".env"

// parseEnv overlays Config with KBCONSOLE_* variables. Unset or empty
// variables leave the field alone. Panics on a malformed timeout.
func parseEnv(cfg *Config) {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			panic(fmt.Errorf("load %s: %w", envFile, err))
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRequestTimeout, err))
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv(EnvSessionDB); v != "" {
		cfg.SessionDB = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvDownloadDir); v != "" {
		cfg.DownloadDir = v
	}
}

// parseTimeout accepts a Go duration ("15s") or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
