// Package config handles configuration for the web gateway,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the SafeShare web gateway.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.ShutdownTimeout = 5 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
