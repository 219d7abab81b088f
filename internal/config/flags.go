package config

import (
	"flag"
	"os"
	"time"

	"github.com/vkarpova/atlasinfo/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   sqlite file backing the local store (default from Config)
//	-t int      inactivity timeout in seconds (default from Config)
//	-k string   OpenWeather API key
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-t", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "sqlite file backing the local store")
	inactivityTimeout := fs.Int("t", int(cfg.InactivityTimeout.Seconds()), "inactivity timeout (in seconds)")
	fs.StringVar(&cfg.WeatherAPIKey, "k", cfg.WeatherAPIKey, "OpenWeather API key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.InactivityTimeout = time.Duration(*inactivityTimeout) * time.Second
}
