package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_API_URL", "https://api.example.com")
	t.Setenv("TEST_REDIS_URL", "redis://localhost:6379/0")

	path := writeConfig(t, `
api:
  base_url: ${TEST_API_URL}
redis:
  url: ${TEST_REDIS_URL}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("BaseURL = %q, want expanded env value", cfg.API.BaseURL)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Errorf("Redis.URL = %q, want expanded env value", cfg.Redis.URL)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
refresh:
  views:
    - agent_id: 507f1f77bcf86cd799439011
      kind: agent
    - status: active
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.API.SignInPath != "/auth/sign-in" {
		t.Errorf("SignInPath = %q, want /auth/sign-in", cfg.API.SignInPath)
	}
	if cfg.Refresh.Interval != 60*time.Second {
		t.Errorf("Refresh.Interval = %v, want 60s", cfg.Refresh.Interval)
	}

	agent := cfg.Refresh.Views[0]
	if agent.Kind != ViewAgent || agent.Page != 1 || agent.Limit != 10 {
		t.Errorf("agent view defaults = %+v", agent)
	}
	if agent.Name != "agent-0" {
		t.Errorf("agent view name = %q, want agent-0", agent.Name)
	}

	listings := cfg.Refresh.Views[1]
	if listings.Kind != ViewListings {
		t.Errorf("view kind = %q, want listings default", listings.Kind)
	}
}

func TestLoadParsesRefreshInterval(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
refresh:
  interval: 90s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Refresh.Interval != 90*time.Second {
		t.Errorf("Refresh.Interval = %v, want 90s", cfg.Refresh.Interval)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
refresh:
  interval: ninety seconds
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed refresh.interval, want error")
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded without api.base_url, want error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load succeeded on missing file, want error")
	}
}
