package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/vkarpova/atlasinfo/internal/flagx"
	"github.com/vkarpova/atlasinfo/internal/timex"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "30s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type jsonConfig struct {
	StoreDSN              string          `json:"store_dsn"`
	InactivityTimeout     *timex.Duration `json:"inactivity_timeout"`
	ActivityThrottle      *timex.Duration `json:"activity_throttle"`
	SimulatedLatency      *timex.Duration `json:"simulated_latency"`
	BroadcastPollInterval *timex.Duration `json:"broadcast_poll_interval"`
	BroadcastLinger       *timex.Duration `json:"broadcast_linger"`
	CountriesBaseURL      string          `json:"countries_base_url"`
	WeatherBaseURL        string          `json:"weather_base_url"`
	WeatherAPIKey         string          `json:"weather_api_key"`
	CreaturesBaseURL      string          `json:"creatures_base_url"`
	LogBackend            string          `json:"log_backend"`
}

// parseJSON overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JSONConfigPath().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into jsonConfig.
//   - Copies fields the file actually sets into the provided Config;
//     absent fields keep their earlier values.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJSON -> parseFlags, where later stages
// override earlier ones.
func parseJSON(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JSONConfigPath()
	if jsonConfigFile == "" {
		return
	}

	var jc jsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.StoreDSN != "" {
		cfg.StoreDSN = jc.StoreDSN
	}
	if jc.InactivityTimeout != nil {
		cfg.InactivityTimeout = time.Duration(jc.InactivityTimeout.Duration)
	}
	if jc.ActivityThrottle != nil {
		cfg.ActivityThrottle = time.Duration(jc.ActivityThrottle.Duration)
	}
	if jc.SimulatedLatency != nil {
		cfg.SimulatedLatency = time.Duration(jc.SimulatedLatency.Duration)
	}
	if jc.BroadcastPollInterval != nil {
		cfg.BroadcastPollInterval = time.Duration(jc.BroadcastPollInterval.Duration)
	}
	if jc.BroadcastLinger != nil {
		cfg.BroadcastLinger = time.Duration(jc.BroadcastLinger.Duration)
	}
	if jc.CountriesBaseURL != "" {
		cfg.CountriesBaseURL = jc.CountriesBaseURL
	}
	if jc.WeatherBaseURL != "" {
		cfg.WeatherBaseURL = jc.WeatherBaseURL
	}
	if jc.WeatherAPIKey != "" {
		cfg.WeatherAPIKey = jc.WeatherAPIKey
	}
	if jc.CreaturesBaseURL != "" {
		cfg.CreaturesBaseURL = jc.CreaturesBaseURL
	}
	if jc.LogBackend != "" {
		cfg.LogBackend = jc.LogBackend
	}
}
