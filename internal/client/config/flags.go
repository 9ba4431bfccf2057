package config

import (
	"flag"
	"os"
	"time"

	"github.com/technoheaven/portal-client/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   base URL of the backend REST API
//	-t int      identity check timeout (in seconds)
//	-i int      notification poll interval (in seconds)
//	-d string   path to the local cache database
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-t", "-i", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "base URL of the backend REST API")
	identityTimeout := fs.Int("t", int(cfg.IdentityTimeout.Seconds()), "identity check timeout (in seconds)")
	pollInterval := fs.Int("i", int(cfg.NotificationPollInterval.Seconds()), "notification poll interval (in seconds)")
	fs.StringVar(&cfg.CachePath, "d", cfg.CachePath, "path to the local cache database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.IdentityTimeout = time.Duration(*identityTimeout) * time.Second
	cfg.NotificationPollInterval = time.Duration(*pollInterval) * time.Second
}
