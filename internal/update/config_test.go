package update

import "testing"

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.UpcomingLimit != 5 || cfg.ReminderBuffer != 64 {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if !cfg.RemindersEnabled {
		t.Fatal("expected reminders enabled by default")
	}
	if cfg.FocusWorkMinutes != 0 || cfg.Theme != "" {
		t.Fatalf("focus and theme must defer to the settings store by default: %+v", cfg)
	}
	if cfg.StatePath == "" {
		t.Fatal("expected a default state path")
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("SCHEDULR_STATE_PATH", "state/custom.db")
	t.Setenv("SCHEDULR_THEME", "light")
	t.Setenv("SCHEDULR_FOCUS_WORK_MINUTES", "50")
	t.Setenv("SCHEDULR_FOCUS_BREAK_MINUTES", "10")
	t.Setenv("SCHEDULR_UPCOMING_LIMIT", "9")
	t.Setenv("SCHEDULR_REMINDER_BUFFER", "128")
	t.Setenv("SCHEDULR_REMINDERS", "off")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.StatePath != "state/custom.db" {
		t.Fatalf("unexpected state path: %+v", cfg)
	}
	if cfg.Theme != "light" {
		t.Fatalf("unexpected theme: %+v", cfg)
	}
	if cfg.FocusWorkMinutes != 50 || cfg.FocusBreakMinutes != 10 {
		t.Fatalf("unexpected focus config: %+v", cfg)
	}
	if cfg.UpcomingLimit != 9 || cfg.ReminderBuffer != 128 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.RemindersEnabled {
		t.Fatal("expected reminders disabled from env")
	}
}

func TestRuntimeConfigIgnoresBadValues(t *testing.T) {
	t.Setenv("SCHEDULR_FOCUS_WORK_MINUTES", "soon")
	t.Setenv("SCHEDULR_REMINDERS", "maybe")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.FocusWorkMinutes != 0 {
		t.Fatalf("bad int must be ignored: %+v", cfg)
	}
	if !cfg.RemindersEnabled {
		t.Fatal("bad bool must keep the base value")
	}
}
