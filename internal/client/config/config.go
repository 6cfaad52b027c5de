// Package config handles configuration for the field client, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the medsync field client.
//
// Fields:
//   - GatewayURL: base URL of the anchoring gateway.
//   - DatabasePath: path of the local SQLite record store.
//   - AuthorID / OriginID: provenance identity stamped on every record.
//   - KeySalt: salt for deriving the payload encryption key from the
//     operator's passphrase. NOTE: per-device salt, not a secret.
//   - SyncTimeout: end-to-end bound for one sync attempt.
//   - OnlineCheckInterval: how often the client probes gateway reachability.
type Config struct {
	GatewayURL          string
	DatabasePath        string
	AuthorID            string
	OriginID            string
	KeySalt             string
	SyncTimeout         time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible development defaults.
func (c *Config) LoadDefaults() {
	c.GatewayURL = "http://127.0.0.1:8080"
	c.DatabasePath = "records.db"
	c.AuthorID = "doc-unknown"
	c.OriginID = "clinic-unknown"
	c.KeySalt = "medsync-field-device"
	c.SyncTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
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
