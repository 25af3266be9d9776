package update

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/views"
)

const settingsExchangePath = "schedulr-settings.json"

func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	keys := m.settingsKeys()

	if m.Settings.Editing {
		switch msg.String() {
		case "esc":
			m.Settings.Editing = false
			m.settingsInput.Blur()
			return m
		case "enter":
			return m.commitSettingsEdit(keys)
		}
		var cmd tea.Cmd
		m.settingsInput, cmd = m.settingsInput.Update(msg)
		_ = cmd
		return m
	}

	switch msg.String() {
	case "j", "down":
		if m.Settings.Cursor < len(keys)-1 {
			m.Settings.Cursor++
		}
	case "k", "up":
		if m.Settings.Cursor > 0 {
			m.Settings.Cursor--
		}
	case "enter":
		if len(keys) == 0 {
			return m
		}
		m.Settings.Editing = true
		m.settingsInput.SetValue(settingValueString(m.settings.Get(keys[m.Settings.Cursor])))
		m.settingsInput.Focus()
	case "x":
		raw, err := m.settings.ExportJSON()
		if err == nil {
			err = os.WriteFile(settingsExchangePath, raw, 0o644)
		}
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.Status = StatusBar{Text: "settings exported to " + settingsExchangePath}
	case "i":
		raw, err := os.ReadFile(settingsExchangePath)
		if err == nil {
			err = m.settings.ImportJSON(m.ctx, raw)
		}
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.theme = views.NewTheme(m.settings.GetString(model.SettingTheme))
		m.Status = StatusBar{Text: "settings imported from " + settingsExchangePath}
	case "0":
		if err := m.settings.ResetToDefaults(m.ctx); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.theme = views.NewTheme(m.settings.GetString(model.SettingTheme))
		m.Status = StatusBar{Text: "settings reset to defaults"}
	}
	return m
}

func (m Model) commitSettingsEdit(keys []string) Model {
	if len(keys) == 0 {
		m.Settings.Editing = false
		return m
	}
	key := keys[m.Settings.Cursor]
	raw := strings.TrimSpace(m.settingsInput.Value())

	// Numbers stay numbers so the typed accessors keep working.
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	}
	if err := m.settings.Update(m.ctx, key, value); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	if key == model.SettingTheme {
		m.theme = views.NewTheme(raw)
	}
	m.Settings.Editing = false
	m.settingsInput.Blur()
	m.Status = StatusBar{Text: fmt.Sprintf("set %s = %s", key, raw)}
	return m
}

func (m Model) settingsKeys() []string {
	all := m.settings.All()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func settingValueString(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.Itoa(int(typed))
	case int:
		return strconv.Itoa(typed)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}

func (m Model) renderSettingsView() string {
	keys := m.settingsKeys()
	rows := make([]views.SettingsRowData, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, views.SettingsRowData{Key: k, Value: settingValueString(m.settings.Get(k))})
	}
	return views.RenderSettingsPanel(m.theme, views.SettingsPanelData{
		Rows:     rows,
		Selected: m.Settings.Cursor,
		EditView: m.settingsInput.View(),
		Editing:  m.Settings.Editing,
	})
}
