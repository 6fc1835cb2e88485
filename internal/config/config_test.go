package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "broker.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "metrics_enabled: false\n")

	cfg, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxClientIDLen != 1024 {
		t.Fatalf("expected default max_clientid_len 1024, got %d", cfg.MaxClientIDLen)
	}
	if !cfg.CacheACL {
		t.Fatalf("expected default cache_acl true")
	}
	if cfg.MetricsEnabled {
		t.Fatalf("expected metrics_enabled overridden to false")
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := writeConfigFile(t, "max_clientid_len: 64\nretry_interval_seconds: 10\nwebsocket_listen_addr: \":9000\"\n")

	cfg, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxClientIDLen != 64 {
		t.Fatalf("expected max_clientid_len 64, got %d", cfg.MaxClientIDLen)
	}
	if cfg.RetryInterval() != 10*time.Second {
		t.Fatalf("expected retry interval 10s, got %v", cfg.RetryInterval())
	}
	if cfg.WebsocketListenAddr != ":9000" {
		t.Fatalf("expected websocket_listen_addr :9000, got %q", cfg.WebsocketListenAddr)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	if err == nil {
		t.Fatal("expected error reading a missing config file")
	}
}
