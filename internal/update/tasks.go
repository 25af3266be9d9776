package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/views"
)

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		if m.Tasks.Cursor < len(m.visibleTasks())-1 {
			m.Tasks.Cursor++
		}
	case "k", "up":
		if m.Tasks.Cursor > 0 {
			m.Tasks.Cursor--
		}
	case " ":
		task, ok := m.selectedTask()
		if !ok {
			return m
		}
		toggled, err := m.tasks.ToggleTaskStatus(m.ctx, task.ID)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s is now %s", toggled.Title, toggled.Status)}
	case "d":
		task, ok := m.selectedTask()
		if !ok {
			return m
		}
		if err := m.tasks.DeleteTask(m.ctx, task.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m
		}
		if m.Tasks.Cursor > 0 {
			m.Tasks.Cursor--
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Title)}
	case "a":
		m = m.openTaskForm(nil)
	case "e":
		task, ok := m.selectedTask()
		if !ok {
			return m
		}
		if task.IsInstance {
			// Editing an occurrence edits its template.
			if tmpl, found := m.resolveTaskRef(task.OriginalTaskID); found {
				task = tmpl
			}
		}
		m = m.openTaskForm(&task)
	case "p":
		m.Tasks.Filter.Priority = nextPriorityFilter(m.Tasks.Filter.Priority)
		m.Tasks.Cursor = 0
		m.Status = StatusBar{Text: "priority filter: " + filterLabel(string(m.Tasks.Filter.Priority))}
	case "s":
		m.Tasks.Filter.Status = nextStatusFilter(m.Tasks.Filter.Status)
		m.Tasks.Cursor = 0
		m.Status = StatusBar{Text: "status filter: " + filterLabel(string(m.Tasks.Filter.Status))}
	case "o":
		m.Tasks.Filter.SortBy = nextSortOrder(m.Tasks.Filter.SortBy)
		m.Status = StatusBar{Text: "sorting by " + m.Tasks.Filter.SortBy}
	}
	m.syncBubbleData()
	return m
}

func nextPriorityFilter(p model.Priority) model.Priority {
	switch p {
	case "":
		return model.PriorityHigh
	case model.PriorityHigh:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityLow
	default:
		return ""
	}
}

func nextStatusFilter(s model.TaskStatus) model.TaskStatus {
	switch s {
	case "":
		return model.StatusPending
	case model.StatusPending:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusCompleted
	default:
		return ""
	}
}

func nextSortOrder(by string) string {
	switch by {
	case "priority":
		return "name"
	case "name":
		return "deadline"
	default:
		return "priority"
	}
}

func filterLabel(v string) string {
	if v == "" {
		return "off"
	}
	return v
}

func (m Model) renderTasksView() string {
	today := m.now()
	visible := m.visibleTasks()
	rows := make([]views.TaskRowData, 0, len(visible))
	for _, t := range visible {
		rows = append(rows, taskRow(t, today))
	}
	selectedID := ""
	if task, ok := m.selectedTask(); ok {
		selectedID = task.ID
	}

	filterLine := ""
	if m.Tasks.Filter.Priority != "" {
		filterLine += "prio:" + string(m.Tasks.Filter.Priority) + " "
	}
	if m.Tasks.Filter.Status != "" {
		filterLine += "status:" + string(m.Tasks.Filter.Status) + " "
	}
	if m.Tasks.Filter.Search != "" {
		filterLine += "search:" + m.Tasks.Filter.Search
	}

	stats := m.tasks.TaskStats()
	return views.RenderTasksPanel(m.theme, views.TasksPanelData{
		ListView:   m.taskList.View(),
		Rows:       rows,
		SelectedID: selectedID,
		FilterLine: filterLine,
		Stats: fmt.Sprintf("total %d | pending %d | in-progress %d | completed %d | overdue %d",
			stats.Total, stats.Pending, stats.InProgress, stats.Completed, stats.Overdue),
	})
}
