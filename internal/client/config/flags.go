package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-d string   path of the local state database (default from Config)
//
// The function filters os.Args to the flags it knows about, using
// flagx.FilterArgs, so -c and -e handled elsewhere do not trip it.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "base URL of the API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StateDBPath, "d", cfg.StateDBPath, "path of the local state database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
