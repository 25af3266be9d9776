package views

import (
	"fmt"
	"sort"
	"strings"
)

type TaskRowData struct {
	ID         string
	Title      string
	Deadline   string
	Priority   string
	Status     string
	IsOverdue  bool
	IsInstance bool
}

type TasksPanelData struct {
	ListView   string
	Rows       []TaskRowData
	SelectedID string
	FilterLine string
	Stats      string
}

func RenderTasksPanel(theme Theme, data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	if data.FilterLine != "" {
		b.WriteString(theme.Muted.Render("filter: "+data.FilterLine) + "\n")
	}
	b.WriteString("actions: [a]add [e]edit [d]delete [space]toggle [j/k]move [/]palette\n")
	b.WriteString(data.ListView + "\n")
	for _, row := range data.Rows {
		cursor := " "
		if data.SelectedID == row.ID {
			cursor = ">"
		}
		badge := statusBadge(theme, row)
		line := fmt.Sprintf("%s %s %s", cursor, badge, row.Title)
		if row.Deadline != "" {
			line += " due:" + row.Deadline
		}
		if row.IsInstance {
			line += " " + theme.Muted.Render("(recurring)")
		}
		b.WriteString(line + "\n")
	}
	if len(data.Rows) == 0 {
		b.WriteString("  (no tasks)\n")
	}
	if data.Stats != "" {
		b.WriteString("\n" + theme.Muted.Render(data.Stats))
	}
	return strings.TrimSpace(b.String())
}

func statusBadge(theme Theme, row TaskRowData) string {
	switch {
	case row.Status == "completed":
		return theme.DoneBadge.Render("[DONE]")
	case row.IsOverdue:
		return theme.UrgentBadge.Render("[LATE]")
	case row.Priority == "high":
		return theme.Highlight.Render("[HIGH]")
	case row.Status == "in-progress":
		return "[WIP ]"
	default:
		return "[    ]"
	}
}

type CalendarDayData struct {
	Date    string
	IsToday bool
	Tasks   []TaskRowData
}

type CalendarPanelData struct {
	WeekStart string
	TableView string
	Days      []CalendarDayData
}

func RenderCalendarPanel(theme Theme, data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar:\n")
	b.WriteString(fmt.Sprintf("week of %s\n", data.WeekStart))
	b.WriteString("actions: [h/l]prev/next week [t]today\n")
	b.WriteString(data.TableView + "\n")

	for _, day := range data.Days {
		label := day.Date
		if day.IsToday {
			label = theme.Highlight.Render(label + " (today)")
		}
		b.WriteString(fmt.Sprintf("\n%s:\n", label))
		if len(day.Tasks) == 0 {
			b.WriteString("  (free)\n")
			continue
		}
		for _, row := range day.Tasks {
			b.WriteString(fmt.Sprintf("  %s %s\n", statusBadge(theme, row), row.Title))
		}
	}
	return strings.TrimSpace(b.String())
}

type HabitRowData struct {
	ID          string
	Name        string
	Time        string
	Category    string
	IsCompleted bool
	Streak      int
	Total       int
}

type HabitsPanelData struct {
	Rows       []HabitRowData
	SelectedID string
	StatsLine  string
	ResetDate  string
}

func RenderHabitsPanel(theme Theme, data HabitsPanelData) string {
	var b strings.Builder
	b.WriteString("habits:\n")
	b.WriteString("actions: [space]toggle [a]add [d]delete [J/K]reorder\n")

	grouped := make(map[string][]HabitRowData)
	categories := make([]string, 0)
	for _, row := range data.Rows {
		if _, ok := grouped[row.Category]; !ok {
			categories = append(categories, row.Category)
		}
		grouped[row.Category] = append(grouped[row.Category], row)
	}
	sort.Strings(categories)

	if len(data.Rows) == 0 {
		b.WriteString("  (no habits)\n")
	}
	for _, cat := range categories {
		b.WriteString("\n" + theme.Highlight.Render(cat) + ":\n")
		for _, row := range grouped[cat] {
			cursor := " "
			if data.SelectedID == row.ID {
				cursor = ">"
			}
			check := "[ ]"
			if row.IsCompleted {
				check = theme.DoneBadge.Render("[x]")
			}
			b.WriteString(fmt.Sprintf("%s %s %s @%s", cursor, check, row.Name, row.Time))
			if row.Streak > 0 {
				b.WriteString(theme.Highlight.Render(fmt.Sprintf(" %d-day streak", row.Streak)))
			}
			b.WriteString("\n")
		}
	}
	if data.StatsLine != "" {
		b.WriteString("\n" + theme.Muted.Render(data.StatsLine))
	}
	if data.ResetDate != "" {
		b.WriteString("\n" + theme.Muted.Render("last reset: "+data.ResetDate))
	}
	return strings.TrimSpace(b.String())
}

type FocusPanelData struct {
	TaskTitle          string
	Phase              string
	Timer              string
	ProgressView       string
	ProgressPct        int
	CompletedPomodoros int
	ShowEndPrompt      bool
}

func RenderFocusPanel(theme Theme, data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskTitle))
	} else {
		b.WriteString("task: (none selected)\n")
	}
	b.WriteString(fmt.Sprintf("phase: %s\n", strings.ToUpper(data.Phase)))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("pomodoros completed: %d\n", data.CompletedPomodoros))
	b.WriteString("actions: [space]start/pause [r]reset [n]next-phase\n")
	if data.ShowEndPrompt {
		b.WriteString(theme.Highlight.Render("prompt: session ended, press [n] to continue"))
	}
	return strings.TrimSpace(b.String())
}

type SettingsRowData struct {
	Key   string
	Value string
}

type SettingsPanelData struct {
	Rows     []SettingsRowData
	Selected int
	EditView string
	Editing  bool
}

func RenderSettingsPanel(theme Theme, data SettingsPanelData) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	b.WriteString("actions: [j/k]move [enter]edit [x]export [i]import [0]reset\n\n")
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Selected {
			cursor = ">"
		}
		key := row.Key
		if i == data.Selected {
			key = theme.Highlight.Render(key)
		}
		b.WriteString(fmt.Sprintf("%s %s = %s\n", cursor, key, row.Value))
	}
	if data.Editing {
		b.WriteString("\nedit: " + data.EditView)
	}
	return strings.TrimSpace(b.String())
}

type FormFieldData struct {
	Label string
	View  string
	Error string
}

type TaskFormData struct {
	Title   string
	Fields  []FormFieldData
	Focused int
	Err     string
}

func RenderTaskForm(theme Theme, data TaskFormData) string {
	var b strings.Builder
	b.WriteString(data.Title + ":\n")
	b.WriteString("keys: [tab]next field [enter]save [esc]cancel\n\n")
	for i, field := range data.Fields {
		label := field.Label
		if i == data.Focused {
			label = theme.Highlight.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", label, field.View))
		if field.Error != "" {
			b.WriteString("  " + theme.Error.Render(field.Error) + "\n")
		}
	}
	if data.Err != "" {
		b.WriteString("\n" + theme.Error.Render(data.Err))
	}
	return strings.TrimSpace(b.String())
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}
