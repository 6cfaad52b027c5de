package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rbagirov/medsync/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings parseable by time.ParseDuration (e.g. "10s").
type JsonConfig struct {
	GatewayURL          string `json:"gateway_url"`
	DatabasePath        string `json:"database_path"`
	AuthorID            string `json:"author_id"`
	OriginID            string `json:"origin_id"`
	KeySalt             string `json:"key_salt"`
	SyncTimeout         string `json:"sync_timeout"`
	OnlineCheckInterval string `json:"online_check_interval"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flag; with no flag, nothing is loaded.
// Empty JSON fields leave the current value untouched. Panics on read,
// unmarshal or duration parse errors.
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

	if jc.GatewayURL != "" {
		cfg.GatewayURL = jc.GatewayURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.AuthorID != "" {
		cfg.AuthorID = jc.AuthorID
	}
	if jc.OriginID != "" {
		cfg.OriginID = jc.OriginID
	}
	if jc.KeySalt != "" {
		cfg.KeySalt = jc.KeySalt
	}
	if jc.SyncTimeout != "" {
		cfg.SyncTimeout = mustParseDuration(jc.SyncTimeout)
	}
	if jc.OnlineCheckInterval != "" {
		cfg.OnlineCheckInterval = mustParseDuration(jc.OnlineCheckInterval)
	}
}

func mustParseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}
	return d
}
