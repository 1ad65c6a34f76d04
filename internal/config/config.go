// Package config holds runtime settings for the CLI. Values are resolved
// in three layers, later ones winning: built-in defaults, a JSON file
// given via -c/-config, command-line flags.
package config

import "time"

type Config struct {
	// ServerEndpointURL is the base URL of the backend collection API.
	ServerEndpointURL string

	// DatabasePath is the SQLite file holding the local collections.
	DatabasePath string

	// SyncInterval is the period of the background sync loop.
	SyncInterval time.Duration

	// OnlineCheckInterval is how often connectivity is probed.
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointURL = "http://127.0.0.1:8080"
	c.DatabasePath = "tiendita.db"
	c.SyncInterval = 5 * time.Minute
	c.OnlineCheckInterval = 30 * time.Second
}

// LoadConfig constructs a Config: defaults, then the JSON overlay, then
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
