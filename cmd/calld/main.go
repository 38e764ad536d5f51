package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/calld/internal/config"
	"github.com/sandeepkv93/calld/internal/notify"
	"github.com/sandeepkv93/calld/internal/reminders"
	"github.com/sandeepkv93/calld/internal/scheduler"
	"github.com/sandeepkv93/calld/internal/storage"
	"github.com/sandeepkv93/calld/internal/update"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "calld failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	loc := time.Local
	repo := reminders.NewRepository(store, loc)
	if err := repo.Load(); err != nil {
		return fmt.Errorf("load reminders: %w", err)
	}
	if _, err := repo.PurgeStale(time.Now(), cfg.Retention); err != nil {
		return fmt.Errorf("purge stale reminders: %w", err)
	}

	engine := scheduler.NewEngine(repo, loc, cfg.SchedulerBuffer,
		scheduler.WithWarnWindow(cfg.WarnWindow),
		scheduler.WithTickInterval(cfg.TickInterval),
	)
	engine.Start()
	defer engine.Stop()

	var notifier notify.DesktopNotifier = notify.NoopDesktopNotifier{}
	if cfg.DesktopEnabled {
		notifier = notify.ExecDesktopNotifier{}
	}
	dispatcher := notify.NewDispatcher(notifier, !cfg.DesktopEnabled, nil)

	program := tea.NewProgram(update.NewModel(repo, engine, dispatcher, loc))
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendJSON:
		return storage.NewJSONStore(cfg.StoragePath), nil
	default:
		return storage.OpenSQLite(cfg.StoragePath)
	}
}
