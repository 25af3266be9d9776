package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/views"
)

func (m Model) handleHabitsKey(msg tea.KeyMsg) Model {
	active := m.habits.ActiveHabits()
	switch msg.String() {
	case "j", "down":
		if m.Habits.Cursor < len(active)-1 {
			m.Habits.Cursor++
		}
	case "k", "up":
		if m.Habits.Cursor > 0 {
			m.Habits.Cursor--
		}
	case " ":
		habit, ok := m.selectedHabit()
		if !ok {
			return m
		}
		toggled, err := m.habits.ToggleCompletion(m.ctx, habit.ID)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		if toggled.IsCompleted {
			m.Status = StatusBar{Text: fmt.Sprintf("%s done, streak %d", toggled.Name, toggled.Streak)}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("%s unmarked", toggled.Name)}
		}
	case "a":
		m = m.openHabitForm()
	case "d":
		habit, ok := m.selectedHabit()
		if !ok {
			return m
		}
		if err := m.habits.DeleteHabit(m.ctx, habit.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		if m.Habits.Cursor > 0 {
			m.Habits.Cursor--
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted habit: %s", habit.Name)}
	case "K":
		habit, ok := m.selectedHabit()
		if !ok {
			return m
		}
		if err := m.habits.MoveUp(m.ctx, habit.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		if m.Habits.Cursor > 0 {
			m.Habits.Cursor--
		}
	case "J":
		habit, ok := m.selectedHabit()
		if !ok {
			return m
		}
		if err := m.habits.MoveDown(m.ctx, habit.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		if m.Habits.Cursor < len(active)-1 {
			m.Habits.Cursor++
		}
	}
	m.syncBubbleData()
	return m
}

func (m Model) selectedHabit() (model.DailyHabit, bool) {
	active := m.habits.ActiveHabits()
	if len(active) == 0 {
		return model.DailyHabit{}, false
	}
	cursor := m.Habits.Cursor
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(active) {
		cursor = len(active) - 1
	}
	return active[cursor], true
}

func (m Model) renderHabitsView() string {
	rows := make([]views.HabitRowData, 0)
	for _, h := range m.habits.ActiveHabits() {
		rows = append(rows, habitRow(h))
	}
	selectedID := ""
	if habit, ok := m.selectedHabit(); ok {
		selectedID = habit.ID
	}
	stats := m.habits.Stats()
	return views.RenderHabitsPanel(m.theme, views.HabitsPanelData{
		Rows:       rows,
		SelectedID: selectedID,
		StatsLine: fmt.Sprintf("%d of %d done (%d%%), %d remaining",
			stats.Completed, stats.Total, stats.CompletionRate, stats.Remaining),
		ResetDate: m.habits.LastResetDate(),
	})
}

type HabitFormState struct {
	Active  bool
	Inputs  []textinput.Model
	Focused int
	Err     string
}

const (
	habitFieldName = iota
	habitFieldTime
	habitFieldCategory
	habitFieldDescription
	habitFieldCount
)

func (m Model) openHabitForm() Model {
	inputs := make([]textinput.Model, habitFieldCount)
	labels := []string{"name", "time (HH:MM)", "category", "description"}
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = labels[i]
		in.CharLimit = 128
		in.Width = 32
		inputs[i] = in
	}
	inputs[habitFieldTime].SetValue("08:00")
	inputs[habitFieldCategory].SetValue(string(model.CategoryOther))
	inputs[habitFieldName].Focus()

	m.HabitForm = HabitFormState{Active: true, Inputs: inputs}
	return m
}

func (m Model) handleHabitFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.HabitForm = HabitFormState{}
		m.Status = StatusBar{Text: "habit form cancelled"}
		return m
	case "tab", "shift+tab", "enter":
		if msg.String() == "enter" && m.HabitForm.Focused == len(m.HabitForm.Inputs)-1 {
			return m.submitHabitForm()
		}
		delta := 1
		if msg.String() == "shift+tab" {
			delta = -1
		}
		m.HabitForm.Inputs[m.HabitForm.Focused].Blur()
		m.HabitForm.Focused = (m.HabitForm.Focused + delta + habitFieldCount) % habitFieldCount
		m.HabitForm.Inputs[m.HabitForm.Focused].Focus()
		return m
	case "ctrl+s":
		return m.submitHabitForm()
	}
	var cmd tea.Cmd
	m.HabitForm.Inputs[m.HabitForm.Focused], cmd = m.HabitForm.Inputs[m.HabitForm.Focused].Update(msg)
	_ = cmd
	return m
}

func (m Model) submitHabitForm() Model {
	in := model.HabitInput{
		Name:        m.HabitForm.Inputs[habitFieldName].Value(),
		Time:        m.HabitForm.Inputs[habitFieldTime].Value(),
		Category:    model.HabitCategory(m.HabitForm.Inputs[habitFieldCategory].Value()),
		Description: m.HabitForm.Inputs[habitFieldDescription].Value(),
	}
	created, err := m.habits.AddHabit(m.ctx, in)
	if err != nil {
		m.HabitForm.Err = err.Error()
		return m
	}
	m.HabitForm = HabitFormState{}
	m.Status = StatusBar{Text: fmt.Sprintf("added habit: %s", created.Name)}
	m.syncBubbleData()
	return m
}

func (m Model) renderHabitForm() string {
	fields := make([]views.FormFieldData, 0, len(m.HabitForm.Inputs))
	labels := []string{"name", "time", "category", "description"}
	for i, in := range m.HabitForm.Inputs {
		fields = append(fields, views.FormFieldData{Label: labels[i], View: in.View()})
	}
	return views.RenderTaskForm(m.theme, views.TaskFormData{
		Title:   "new habit",
		Fields:  fields,
		Focused: m.HabitForm.Focused,
		Err:     m.HabitForm.Err,
	})
}
