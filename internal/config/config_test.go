package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageBackend != BackendSQLite {
		t.Fatalf("expected sqlite default, got %q", cfg.StorageBackend)
	}
	if cfg.WarnWindow != 5*time.Minute {
		t.Fatalf("expected 5m warn window, got %v", cfg.WarnWindow)
	}
	if cfg.Retention != 24*time.Hour {
		t.Fatalf("expected 24h retention, got %v", cfg.Retention)
	}
	if cfg.TickInterval != time.Second {
		t.Fatalf("expected 1s tick, got %v", cfg.TickInterval)
	}
	if !cfg.DesktopEnabled {
		t.Fatal("expected desktop notifications on by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
storage:
  backend: json
  path: /tmp/calls.json
reminders:
  warn_window: 10m
scheduler:
  buffer: 8
notifications:
  desktop: false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageBackend != BackendJSON || cfg.StoragePath != "/tmp/calls.json" {
		t.Fatalf("unexpected storage config: %+v", cfg)
	}
	if cfg.WarnWindow != 10*time.Minute {
		t.Fatalf("expected 10m warn window, got %v", cfg.WarnWindow)
	}
	if cfg.SchedulerBuffer != 8 {
		t.Fatalf("expected buffer 8, got %d", cfg.SchedulerBuffer)
	}
	if cfg.DesktopEnabled {
		t.Fatal("expected desktop notifications disabled")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: redis\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}
