package update

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type RuntimeConfig struct {
	StatePath         string
	Theme             string
	FocusWorkMinutes  int
	FocusBreakMinutes int
	UpcomingLimit     int
	ReminderBuffer    int
	RemindersEnabled  bool
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StatePath:         defaultStatePath(),
		Theme:             "",
		FocusWorkMinutes:  0,
		FocusBreakMinutes: 0,
		UpcomingLimit:     5,
		ReminderBuffer:    64,
		RemindersEnabled:  true,
	}
}

// RuntimeConfigFromEnv overlays SCHEDULR_* variables on the base config.
// Zero values for the focus durations and theme mean "defer to the settings
// store".
func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("SCHEDULR_STATE_PATH")); v != "" {
		cfg.StatePath = v
	}
	if v := strings.TrimSpace(os.Getenv("SCHEDULR_THEME")); v != "" {
		cfg.Theme = v
	}
	if v, ok := getEnvInt("SCHEDULR_FOCUS_WORK_MINUTES"); ok && v > 0 {
		cfg.FocusWorkMinutes = v
	}
	if v, ok := getEnvInt("SCHEDULR_FOCUS_BREAK_MINUTES"); ok && v > 0 {
		cfg.FocusBreakMinutes = v
	}
	if v, ok := getEnvInt("SCHEDULR_UPCOMING_LIMIT"); ok && v > 0 {
		cfg.UpcomingLimit = v
	}
	if v, ok := getEnvInt("SCHEDULR_REMINDER_BUFFER"); ok && v > 0 {
		cfg.ReminderBuffer = v
	}
	if v, ok := getEnvBool("SCHEDULR_REMINDERS"); ok {
		cfg.RemindersEnabled = v
	}
	return cfg
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "schedulr.db"
	}
	return filepath.Join(home, ".schedulr", "schedulr.db")
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
