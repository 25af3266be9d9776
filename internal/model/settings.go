package model

// Settings is a flat preference map. Values are JSON scalars (string, bool,
// or number); numbers round-trip through storage as float64, which is why
// the store exposes typed accessors for the integer preferences.
type Settings map[string]any

// Well-known preference keys. Unknown keys are preserved across save and
// import so older or newer builds can share a settings blob.
const (
	SettingTheme             = "theme"
	SettingDefaultPriority   = "defaultPriority"
	SettingTaskSortBy        = "taskSortBy"
	SettingWeekStartsOn      = "weekStartsOn"
	SettingFocusWorkMinutes  = "focusWorkMinutes"
	SettingFocusBreakMinutes = "focusBreakMinutes"
)

func DefaultSettings() Settings {
	return Settings{
		SettingTheme:             "dark",
		SettingDefaultPriority:   string(PriorityMedium),
		SettingTaskSortBy:        "deadline",
		SettingWeekStartsOn:      "monday",
		SettingFocusWorkMinutes:  25,
		SettingFocusBreakMinutes: 5,
	}
}

// Clone returns an independent shallow copy. Values are scalars, so a
// shallow copy is a full copy.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
