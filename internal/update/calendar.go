package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schedulr/schedulr/internal/dateutil"
	"github.com/schedulr/schedulr/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.Calendar.WeekStart = dateutil.AddDays(m.Calendar.WeekStart, -7)
	case "l", "right":
		m.Calendar.WeekStart = dateutil.AddDays(m.Calendar.WeekStart, 7)
	case "t":
		m.Calendar.WeekStart = dateutil.StartOfWeek(m.now())
	}
	m.syncBubbleData()
	return m
}

func (m Model) renderCalendarView() string {
	today := m.now()
	days := make([]views.CalendarDayData, 0, 7)
	for i := 0; i < 7; i++ {
		day := dateutil.AddDays(m.Calendar.WeekStart, i)
		tasks := m.tasks.TasksForDate(day)
		rows := make([]views.TaskRowData, 0, len(tasks))
		for _, t := range tasks {
			rows = append(rows, taskRow(t, today))
		}
		days = append(days, views.CalendarDayData{
			Date:    dateutil.Key(day),
			IsToday: dateutil.SameDay(day, today),
			Tasks:   rows,
		})
	}
	return views.RenderCalendarPanel(m.theme, views.CalendarPanelData{
		WeekStart: dateutil.Key(m.Calendar.WeekStart),
		TableView: m.calendarTable.View(),
		Days:      days,
	})
}
