package config

import "time"

// Config holds runtime settings for the SafeShare client.
//
// EncryptionPassphrase and EncryptionSalt feed the master key derivation;
// they must stay stable between uploads and downloads or previously stored
// files become unreadable.
type Config struct {
	APIBaseURL       string
	CredentialDBPath string
	DownloadDir      string

	EncryptionPassphrase string
	EncryptionSalt       string

	RequestTimeout          time.Duration
	SessionEstablishTimeout time.Duration
	SessionPollInterval     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.CredentialDBPath = "safeshare.db"
	c.DownloadDir = "downloads"
	c.RequestTimeout = 30 * time.Second
	c.SessionEstablishTimeout = 10 * time.Second
	c.SessionPollInterval = 200 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
