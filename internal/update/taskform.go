package update

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schedulr/schedulr/internal/dateutil"
	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/views"
)

// TaskFormState backs both the add and edit flows; EditID is empty for add.
type TaskFormState struct {
	Active      bool
	EditID      string
	Inputs      []textinput.Model
	Focused     int
	FieldErrors map[string]string
	Err         string
}

const (
	taskFieldTitle = iota
	taskFieldDescription
	taskFieldDeadline
	taskFieldPriority
	taskFieldRecurring
	taskFieldRecurType
	taskFieldInterval
	taskFieldEndDate
	taskFieldCount
)

var taskFieldLabels = []string{
	"title",
	"description",
	"deadline (YYYY-MM-DD)",
	"priority (low/medium/high)",
	"recurring (y/n)",
	"repeat (daily/weekly/monthly/yearly)",
	"interval",
	"end date (YYYY-MM-DD, optional)",
}

// validation errors are keyed by the JSON field names the inputs map to
var taskFieldNames = []string{
	"title",
	"description",
	"deadline",
	"priority",
	"isRecurring",
	"recurrence.type",
	"recurrence.interval",
	"recurrence.endDate",
}

func (m Model) openTaskForm(edit *model.Task) Model {
	inputs := make([]textinput.Model, taskFieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = taskFieldLabels[i]
		in.CharLimit = 256
		in.Width = 36
		inputs[i] = in
	}

	if edit != nil {
		inputs[taskFieldTitle].SetValue(edit.Title)
		inputs[taskFieldDescription].SetValue(edit.Description)
		inputs[taskFieldDeadline].SetValue(dateutil.Key(edit.Deadline))
		inputs[taskFieldPriority].SetValue(string(edit.Priority))
		if edit.IsRecurring {
			inputs[taskFieldRecurring].SetValue("y")
		} else {
			inputs[taskFieldRecurring].SetValue("n")
		}
		if edit.Recurrence != nil {
			inputs[taskFieldRecurType].SetValue(string(edit.Recurrence.Type))
			inputs[taskFieldInterval].SetValue(strconv.Itoa(edit.Recurrence.Interval))
			if edit.Recurrence.EndDate != nil {
				inputs[taskFieldEndDate].SetValue(dateutil.Key(*edit.Recurrence.EndDate))
			}
		}
	} else {
		inputs[taskFieldDeadline].SetValue(dateutil.Key(m.now()))
		inputs[taskFieldPriority].SetValue(m.settings.GetString(model.SettingDefaultPriority))
		inputs[taskFieldRecurring].SetValue("n")
		inputs[taskFieldRecurType].SetValue(string(model.RecurDaily))
		inputs[taskFieldInterval].SetValue("1")
	}
	inputs[taskFieldTitle].Focus()

	form := TaskFormState{Active: true, Inputs: inputs, FieldErrors: make(map[string]string)}
	if edit != nil {
		form.EditID = edit.ID
	}
	m.Form = form
	return m
}

func (m Model) handleTaskFormKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Form = TaskFormState{}
		m.Status = StatusBar{Text: "task form cancelled"}
		return m
	case "tab", "shift+tab":
		delta := 1
		if msg.String() == "shift+tab" {
			delta = -1
		}
		m.Form.Inputs[m.Form.Focused].Blur()
		m.Form.Focused = (m.Form.Focused + delta + taskFieldCount) % taskFieldCount
		m.Form.Inputs[m.Form.Focused].Focus()
		return m
	case "enter":
		if m.Form.Focused == taskFieldCount-1 {
			return m.submitTaskForm()
		}
		m.Form.Inputs[m.Form.Focused].Blur()
		m.Form.Focused++
		m.Form.Inputs[m.Form.Focused].Focus()
		return m
	case "ctrl+s":
		return m.submitTaskForm()
	}
	var cmd tea.Cmd
	m.Form.Inputs[m.Form.Focused], cmd = m.Form.Inputs[m.Form.Focused].Update(msg)
	_ = cmd
	return m
}

func (m Model) submitTaskForm() Model {
	m.Form.FieldErrors = make(map[string]string)
	m.Form.Err = ""

	deadline, err := dateutil.ParseKey(strings.TrimSpace(m.Form.Inputs[taskFieldDeadline].Value()))
	if err != nil {
		m.Form.FieldErrors["deadline"] = "Enter a date as YYYY-MM-DD"
		return m
	}

	recurring := strings.HasPrefix(strings.ToLower(strings.TrimSpace(m.Form.Inputs[taskFieldRecurring].Value())), "y")
	var rec *model.Recurrence
	if recurring {
		interval := 1
		if raw := strings.TrimSpace(m.Form.Inputs[taskFieldInterval].Value()); raw != "" {
			interval, err = strconv.Atoi(raw)
			if err != nil {
				m.Form.FieldErrors["recurrence.interval"] = "Interval must be a number"
				return m
			}
		}
		rec = &model.Recurrence{
			Type:     model.RecurrenceType(strings.ToLower(strings.TrimSpace(m.Form.Inputs[taskFieldRecurType].Value()))),
			Interval: interval,
		}
		if raw := strings.TrimSpace(m.Form.Inputs[taskFieldEndDate].Value()); raw != "" {
			end, err := dateutil.ParseKey(raw)
			if err != nil {
				m.Form.FieldErrors["recurrence.endDate"] = "Enter a date as YYYY-MM-DD"
				return m
			}
			rec.EndDate = &end
		}
	}

	if m.Form.EditID == "" {
		return m.submitTaskAdd(deadline, recurring, rec)
	}
	return m.submitTaskEdit(deadline, recurring, rec)
}

func (m Model) submitTaskAdd(deadline time.Time, recurring bool, rec *model.Recurrence) Model {
	created, err := m.tasks.AddTask(m.ctx, model.TaskInput{
		Title:       m.Form.Inputs[taskFieldTitle].Value(),
		Description: m.Form.Inputs[taskFieldDescription].Value(),
		Deadline:    deadline,
		Priority:    model.Priority(strings.ToLower(strings.TrimSpace(m.Form.Inputs[taskFieldPriority].Value()))),
		IsRecurring: recurring,
		Recurrence:  rec,
	})
	if err != nil {
		m.applyFormError(err)
		return m
	}
	m.Form = TaskFormState{}
	m.Status = StatusBar{Text: fmt.Sprintf("added task: %s", created.Title)}
	m.syncBubbleData()
	return m
}

func (m Model) submitTaskEdit(deadline time.Time, recurring bool, rec *model.Recurrence) Model {
	title := m.Form.Inputs[taskFieldTitle].Value()
	description := m.Form.Inputs[taskFieldDescription].Value()
	priority := model.Priority(strings.ToLower(strings.TrimSpace(m.Form.Inputs[taskFieldPriority].Value())))

	patch := model.TaskPatch{
		Title:       &title,
		Description: &description,
		Deadline:    &deadline,
		Priority:    &priority,
		IsRecurring: &recurring,
	}
	if recurring && rec != nil {
		patch.Recurrence = &model.RecurrencePatch{
			Type:     &rec.Type,
			Interval: &rec.Interval,
		}
		if rec.EndDate != nil {
			patch.Recurrence.EndDate = rec.EndDate
		} else {
			patch.Recurrence.ClearEndDate = true
		}
	}

	updated, err := m.tasks.UpdateTask(m.ctx, m.Form.EditID, patch)
	if err != nil {
		m.applyFormError(err)
		return m
	}
	m.Form = TaskFormState{}
	m.Status = StatusBar{Text: fmt.Sprintf("updated task: %s", updated.Title)}
	m.syncBubbleData()
	return m
}

// applyFormError maps a validation error onto per-field messages; anything
// else lands in the form's general error line.
func (m *Model) applyFormError(err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range verr.Fields {
			m.Form.FieldErrors[fe.Field] = fe.Message
		}
		return
	}
	m.Form.Err = err.Error()
}

func (m Model) renderTaskForm() string {
	fields := make([]views.FormFieldData, 0, len(m.Form.Inputs))
	for i, in := range m.Form.Inputs {
		fields = append(fields, views.FormFieldData{
			Label: taskFieldLabels[i],
			View:  in.View(),
			Error: m.Form.FieldErrors[taskFieldNames[i]],
		})
	}
	title := "new task"
	if m.Form.EditID != "" {
		title = "edit task"
	}
	return views.RenderTaskForm(m.theme, views.TaskFormData{
		Title:   title,
		Fields:  fields,
		Focused: m.Form.Focused,
		Err:     m.Form.Err,
	})
}
