package config

import (
	"encoding/json"
	"os"

	"safeshare/internal/flagx"
	"safeshare/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL       string `json:"api_base_url"`
	CredentialDBPath string `json:"credential_db_path"`
	DownloadDir      string `json:"download_dir"`

	EncryptionPassphrase string `json:"encryption_passphrase"`
	EncryptionSalt       string `json:"encryption_salt"`

	RequestTimeout          timex.Duration `json:"request_timeout"`
	SessionEstablishTimeout timex.Duration `json:"session_establish_timeout"`
	SessionPollInterval     timex.Duration `json:"session_poll_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags via
// flagx.JsonConfigFlags(); when neither is present no JSON is loaded.
// Fields absent from the JSON keep their current values. Panics on read or
// unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.CredentialDBPath != "" {
		cfg.CredentialDBPath = jc.CredentialDBPath
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.EncryptionPassphrase != "" {
		cfg.EncryptionPassphrase = jc.EncryptionPassphrase
	}
	if jc.EncryptionSalt != "" {
		cfg.EncryptionSalt = jc.EncryptionSalt
	}
	if jc.RequestTimeout != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Std()
	}
	if jc.SessionEstablishTimeout != 0 {
		cfg.SessionEstablishTimeout = jc.SessionEstablishTimeout.Std()
	}
	if jc.SessionPollInterval != 0 {
		cfg.SessionPollInterval = jc.SessionPollInterval.Std()
	}
}
