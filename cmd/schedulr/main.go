package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/schedulr/schedulr/internal/reminder"
	"github.com/schedulr/schedulr/internal/storage"
	"github.com/schedulr/schedulr/internal/store"
	"github.com/schedulr/schedulr/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "schedulr failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg := update.RuntimeConfigFromEnv(update.DefaultRuntimeConfig())

	if dir := filepath.Dir(cfg.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	kv, err := storage.OpenSQLite(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer kv.Close()

	ctx := context.Background()
	tasks, err := store.NewTaskStore(ctx, kv)
	if err != nil {
		return err
	}
	habits, err := store.NewHabitStore(ctx, kv)
	if err != nil {
		return err
	}
	settings, err := store.NewSettingsStore(ctx, kv)
	if err != nil {
		return err
	}

	// Day rollover happens once at session start, never from a timer.
	if _, err := habits.RolloverIfNeeded(ctx); err != nil {
		return fmt.Errorf("daily rollover: %w", err)
	}

	var engine *reminder.Engine
	if cfg.RemindersEnabled {
		engine = reminder.NewEngine(cfg.ReminderBuffer)
		engine.Start()
		defer engine.Stop()
		for _, alert := range reminder.AlertsForToday(habits.ActiveHabits(), time.Now()) {
			if err := engine.Schedule(alert); err != nil {
				return fmt.Errorf("schedule habit alert: %w", err)
			}
		}
	}

	m := update.NewModel(ctx, update.Deps{
		Tasks:    tasks,
		Habits:   habits,
		Settings: settings,
		Reminder: engine,
	}, cfg)

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
