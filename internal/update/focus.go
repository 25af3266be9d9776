package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schedulr/schedulr/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Focus.Running {
			m.Focus.Running = false
			m.Status = StatusBar{Text: "focus paused"}
			return m, nil
		}
		if m.Focus.RemainingSec <= 0 {
			m.Focus.RemainingSec = m.currentFocusTotal()
		}
		m.Focus.Running = true
		m.Status = StatusBar{Text: "focus running"}
		return m, focusTickCmd()
	case "r":
		m.Focus.Running = false
		m.Focus.RemainingSec = m.currentFocusTotal()
		m.Status = StatusBar{Text: "focus reset"}
		return m, nil
	case "n":
		m.completeFocusPhase()
		return m, nil
	}
	return m, nil
}

func (m Model) onFocusTick() (tea.Model, tea.Cmd) {
	if !m.Focus.Running {
		return m, nil
	}
	if m.Focus.RemainingSec > 0 {
		m.Focus.RemainingSec--
	}
	if m.Focus.RemainingSec == 0 {
		m.Focus.Running = false
		if m.Focus.Phase == FocusPhaseWork {
			m.Status = StatusBar{Text: "work session complete; press n to start break"}
		} else {
			m.Status = StatusBar{Text: "break complete; press n for next focus block"}
		}
		return m, nil
	}
	return m, focusTickCmd()
}

// bootstrapFocusTask seeds the focus target from the task selection when the
// view opens without one.
func (m *Model) bootstrapFocusTask() {
	if m.Focus.TaskID != "" {
		return
	}
	if task, ok := m.selectedTask(); ok {
		m.Focus.TaskID = task.ID
		m.Focus.TaskTitle = task.Title
	}
}

func (m *Model) completeFocusPhase() {
	if m.Focus.Phase == FocusPhaseWork {
		m.Focus.CompletedPomodoros++
		m.Focus.Phase = FocusPhaseBreak
		m.Focus.RemainingSec = m.Focus.BreakDurationSec
		m.Focus.Running = false
		m.Status = StatusBar{Text: "break ready"}
		return
	}
	m.Focus.Phase = FocusPhaseWork
	m.Focus.RemainingSec = m.Focus.WorkDurationSec
	m.Focus.Running = false
	m.Status = StatusBar{Text: "focus block ready"}
}

func (m Model) currentFocusTotal() int {
	if m.Focus.Phase == FocusPhaseBreak {
		return m.Focus.BreakDurationSec
	}
	return m.Focus.WorkDurationSec
}

func (m Model) renderFocusView() string {
	total := m.currentFocusTotal()
	progress := 0.0
	if total > 0 {
		progress = float64(total-m.Focus.RemainingSec) / float64(total)
	}
	return views.RenderFocusPanel(m.theme, views.FocusPanelData{
		TaskTitle:          m.Focus.TaskTitle,
		Phase:              string(m.Focus.Phase),
		Timer:              formatDuration(m.Focus.RemainingSec),
		ProgressView:       m.focusProgress.ViewAs(progress),
		ProgressPct:        int(progress * 100),
		CompletedPomodoros: m.Focus.CompletedPomodoros,
		ShowEndPrompt:      m.Focus.RemainingSec == 0,
	})
}

func formatDuration(totalSec int) string {
	if totalSec < 0 {
		totalSec = 0
	}
	min := totalSec / 60
	sec := totalSec % 60
	return fmt.Sprintf("%02d:%02d", min, sec)
}

func focusTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{} })
}
