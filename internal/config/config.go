package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

var ErrUnknownBackend = errors.New("config: unknown storage backend")

type Config struct {
	StorageBackend  string
	StoragePath     string
	WarnWindow      time.Duration
	Retention       time.Duration
	TickInterval    time.Duration
	SchedulerBuffer int
	DesktopEnabled  bool
}

// Load reads the optional YAML config and CALLD_* environment overrides.
// A missing config file is not an error; defaults apply.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("reminders.warn_window", "5m")
	v.SetDefault("reminders.retention", "24h")
	v.SetDefault("scheduler.tick_interval", "1s")
	v.SetDefault("scheduler.buffer", 64)
	v.SetDefault("notifications.desktop", true)

	v.SetEnvPrefix("CALLD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "calld"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		StorageBackend:  strings.ToLower(strings.TrimSpace(v.GetString("storage.backend"))),
		StoragePath:     v.GetString("storage.path"),
		WarnWindow:      v.GetDuration("reminders.warn_window"),
		Retention:       v.GetDuration("reminders.retention"),
		TickInterval:    v.GetDuration("scheduler.tick_interval"),
		SchedulerBuffer: v.GetInt("scheduler.buffer"),
		DesktopEnabled:  v.GetBool("notifications.desktop"),
	}
	if cfg.StorageBackend != BackendSQLite && cfg.StorageBackend != BackendJSON {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StorageBackend)
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = defaultStoragePath(cfg.StorageBackend)
	}
	if cfg.WarnWindow <= 0 {
		cfg.WarnWindow = 5 * time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.SchedulerBuffer <= 0 {
		cfg.SchedulerBuffer = 64
	}
	return cfg, nil
}

func defaultStoragePath(backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	name := "calld.db"
	if backend == BackendJSON {
		name = "calld.json"
	}
	return filepath.Join(dir, "calld", name)
}
