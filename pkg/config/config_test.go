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

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Swarm.URL != "ws://localhost:8080/ws" {
		t.Errorf("swarm url = %q, want default", cfg.Swarm.URL)
	}
	if cfg.Swarm.ReconnectDelay != 2*time.Second {
		t.Errorf("reconnect delay = %v, want 2s", cfg.Swarm.ReconnectDelay)
	}
	if cfg.Server.Port != 8090 {
		t.Errorf("server port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.Dashboard.TargetStocksPct != 60 {
		t.Errorf("target stocks pct = %v, want 60", cfg.Dashboard.TargetStocksPct)
	}
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9000
swarm:
  url: ws://swarm.internal:8080/ws
  reconnect_delay: 5s
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("server port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Swarm.URL != "ws://swarm.internal:8080/ws" {
		t.Errorf("swarm url = %q", cfg.Swarm.URL)
	}
	if cfg.Swarm.ReconnectDelay != 5*time.Second {
		t.Errorf("reconnect delay = %v, want 5s", cfg.Swarm.ReconnectDelay)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad log level", "log:\n  level: loud\n"},
		{"bad port", "server:\n  port: -1\n"},
		{"bad url", "swarm:\n  url: \"not a url\"\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.body)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, "environment: test\nserver:\n  port: 9000\n")

	t.Setenv("SWARM_WS_URL", "ws://override:8081/ws")
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Swarm.URL != "ws://override:8081/ws" {
		t.Errorf("swarm url = %q, want env override", cfg.Swarm.URL)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("server port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Log.Level)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Swarm.ReconnectDelay != 2*time.Second {
		t.Errorf("reconnect delay = %v, want 2s", cfg.Swarm.ReconnectDelay)
	}
}
