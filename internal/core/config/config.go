package config

import (
	"time"

	"github.com/Royalwole/sesame-sub004/internal/snapshot"
)

// ViewKind identifies which fetch operation a refreshed view runs.
type ViewKind string

const (
	ViewListings  ViewKind = "listings"
	ViewAgent     ViewKind = "agent"
	ViewDashboard ViewKind = "dashboard"
)

// AppConfig is the root application configuration.
type AppConfig struct {
	Server  ServerConfig    `yaml:"server"`
	API     APIConfig       `yaml:"api"`
	Redis   snapshot.Config `yaml:"redis"`
	Logging LoggingConfig   `yaml:"logging"`
	Refresh RefreshConfig   `yaml:"refresh"`
}

// ServerConfig holds the health/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// APIConfig points at the upstream marketplace API.
type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	SignInPath string `yaml:"sign_in_path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RefreshConfig drives the background view refresher. The interval is
// written as a duration string ("90s", "5m") and parsed at load time.
type RefreshConfig struct {
	Interval         time.Duration `yaml:"-"`
	IntervalDuration string        `yaml:"interval"`
	Views            []ViewConfig  `yaml:"views"`
}

// ViewConfig describes one view kept warm by the refresher.
type ViewConfig struct {
	Name        string   `yaml:"name"`
	Kind        ViewKind `yaml:"kind"`
	AgentID     string   `yaml:"agent_id"`
	Status      string   `yaml:"status"`
	ListingType string   `yaml:"listing_type"`
	City        string   `yaml:"city"`
	State       string   `yaml:"state"`
	Page        int      `yaml:"page"`
	Limit       int      `yaml:"limit"`
}
