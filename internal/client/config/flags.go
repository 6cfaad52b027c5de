package config

import (
	"flag"
	"os"
	"time"

	"github.com/rbagirov/medsync/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-g string   gateway base URL (e.g., "http://127.0.0.1:8080")
//	-f string   local SQLite database path
//	-a string   author (doctor) id
//	-o string   origin (clinic/device) id
//	-t int      sync timeout, seconds
//	-i int      online check interval, seconds
//
// os.Args is first filtered to only the flags handled here via
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-g", "-f", "-a", "-o", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.GatewayURL, "g", config.GatewayURL, "gateway base URL")
	fs.StringVar(&config.DatabasePath, "f", config.DatabasePath, "local database path")
	fs.StringVar(&config.AuthorID, "a", config.AuthorID, "author id")
	fs.StringVar(&config.OriginID, "o", config.OriginID, "origin id")

	syncTimeout := fs.Int("t", int(config.SyncTimeout.Seconds()), "sync timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(config.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SyncTimeout = time.Duration(*syncTimeout) * time.Second
	config.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
