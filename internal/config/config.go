package config

import "time"

// Config holds runtime settings for the AtlasInfo CLI.
//
// Units: all intervals are time.Duration values (e.g., 30*time.Second).
type Config struct {
	// StoreDSN is the sqlite file backing the local key-value store.
	StoreDSN string

	// InactivityTimeout is how long a session survives without activity.
	InactivityTimeout time.Duration
	// ActivityThrottle limits how often low-priority activity re-arms
	// the inactivity timer.
	ActivityThrottle time.Duration
	// SimulatedLatency delays auth operations to mimic a remote backend.
	// A negative value disables the delay.
	SimulatedLatency time.Duration

	// BroadcastPollInterval is how often sibling processes are checked
	// for a logout marker; BroadcastLinger is how long a published marker
	// stays visible before removal.
	BroadcastPollInterval time.Duration
	BroadcastLinger       time.Duration

	CountriesBaseURL string
	WeatherBaseURL   string
	WeatherAPIKey    string
	CreaturesBaseURL string

	// LogBackend selects the logging implementation: "slog" or "zap".
	LogBackend string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreDSN = "atlasinfo.db"
	c.InactivityTimeout = 30 * time.Second
	c.ActivityThrottle = 2 * time.Second
	c.SimulatedLatency = 500 * time.Millisecond
	c.BroadcastPollInterval = 50 * time.Millisecond
	c.BroadcastLinger = 100 * time.Millisecond
	c.CountriesBaseURL = ""
	c.WeatherBaseURL = ""
	c.WeatherAPIKey = ""
	c.CreaturesBaseURL = ""
	c.LogBackend = "slog"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
