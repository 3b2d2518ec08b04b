package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Get reads an environment variable with a fallback.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Corridor is a named road segment tracked for aggregate historical
// incident statistics.
type Corridor struct {
	Name            string   `yaml:"name" json:"name"`
	AnnualIncidents int      `yaml:"annual_incidents" json:"annual_incidents"`
	SeverityScore   float64  `yaml:"severity_score" json:"severity_score"`
	PrimaryCauses   []string `yaml:"primary_causes" json:"primary_causes"`
}

// RerouteConfig groups the rerouting engine thresholds.
type RerouteConfig struct {
	MinTimeSavingsMinutes    float64 `yaml:"min_time_savings_minutes"`
	MaxAdditionalDistancePct float64 `yaml:"max_additional_distance_pct"`
	DelayTriggerMinutes      float64 `yaml:"delay_trigger_minutes"`
	HeavyTrafficDelayMinutes float64 `yaml:"heavy_traffic_delay_minutes"`
	FetchTimeoutSeconds      int     `yaml:"fetch_timeout_seconds"`
}

// Config is the engine configuration loaded at startup.
type Config struct {
	Corridors []Corridor    `yaml:"high_risk_corridors"`
	Reroute   RerouteConfig `yaml:"reroute"`
}

// Default returns the compiled-in configuration used when no file is given.
// The corridor table covers the three corridors with enough history to
// matter; everything else falls back to distance-based exposure estimates.
func Default() Config {
	return Config{
		Corridors: []Corridor{
			{
				Name:            "M25 London Orbital",
				AnnualIncidents: 45,
				SeverityScore:   7.2,
				PrimaryCauses:   []string{"congestion", "weather", "lane_changes"},
			},
			{
				Name:            "M6 Midlands",
				AnnualIncidents: 67,
				SeverityScore:   6.8,
				PrimaryCauses:   []string{"congestion", "aggressive_driving"},
			},
			{
				Name:            "A9 Scotland",
				AnnualIncidents: 34,
				SeverityScore:   8.1,
				PrimaryCauses:   []string{"curves", "weather", "tourist_traffic"},
			},
		},
		Reroute: RerouteConfig{
			MinTimeSavingsMinutes:    10,
			MaxAdditionalDistancePct: 0.10,
			DelayTriggerMinutes:      30,
			HeavyTrafficDelayMinutes: 15,
			FetchTimeoutSeconds:      10,
		},
	}
}

// Load reads a YAML configuration file, filling absent sections from the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
	}

	if cfg.Reroute.MinTimeSavingsMinutes <= 0 {
		cfg.Reroute.MinTimeSavingsMinutes = 10
	}
	if cfg.Reroute.MaxAdditionalDistancePct <= 0 {
		cfg.Reroute.MaxAdditionalDistancePct = 0.10
	}
	if cfg.Reroute.FetchTimeoutSeconds <= 0 {
		cfg.Reroute.FetchTimeoutSeconds = 10
	}

	return cfg, nil
}
