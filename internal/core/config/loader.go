package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/Royalwole/sesame-sub004/internal/core/domain"
)

// Load reads the YAML config at path, expands ${ENV_VAR} references and
// applies defaults.
func Load(path string) (*AppConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(raw))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Refresh.IntervalDuration != "" {
		d, err := time.ParseDuration(cfg.Refresh.IntervalDuration)
		if err != nil {
			return nil, fmt.Errorf("invalid refresh.interval: %w", err)
		}
		cfg.Refresh.Interval = d
	}

	applyDefaults(&cfg)

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required")
	}

	return &cfg, nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.API.SignInPath == "" {
		cfg.API.SignInPath = "/auth/sign-in"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Refresh.Interval == 0 {
		cfg.Refresh.Interval = 60 * time.Second
	}
	for i := range cfg.Refresh.Views {
		v := &cfg.Refresh.Views[i]
		if v.Kind == "" {
			v.Kind = ViewListings
		}
		if v.Page == 0 {
			v.Page = 1
		}
		if v.Limit == 0 {
			v.Limit = domain.DefaultPageLimit
		}
		if v.Name == "" {
			v.Name = fmt.Sprintf("%s-%d", v.Kind, i)
		}
	}
}
