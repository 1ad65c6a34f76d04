package config

import (
	"flag"
	"os"
	"time"

	"github.com/tiendita-app/tiendita/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   base URL of the backend server
//	-d string   path to the local database file
//	-s int      background sync interval in seconds
//	-i int      online check interval in seconds
//
// os.Args is filtered to just these flags first, so parsing does not trip
// over arguments owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointURL, "a", cfg.ServerEndpointURL, "base URL of the backend server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database file")
	syncInterval := fs.Int("s", int(cfg.SyncInterval.Seconds()), "sync interval (in seconds)")
	checkInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*checkInterval) * time.Second
}
