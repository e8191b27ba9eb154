package config

import "time"

// Config holds runtime settings for the console.
//
// Fields:
//   - BaseURL: root URL of the platform API.
//   - RequestTimeout: per-request timeout of API calls.
//   - SessionDB: path of the SQLite file keeping the session.
//   - LogLevel: debug, info, warn or error.
//   - DownloadDir: where downloaded files go; empty means the working directory.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	SessionDB      string
	LogLevel       string
	DownloadDir    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8053"
	c.RequestTimeout = 10 * time.Second
	c.SessionDB = "kbconsole.db"
	c.LogLevel = "info"
	c.DownloadDir = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and a .env file), JSON (if present) and command-line
// flags (if present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
