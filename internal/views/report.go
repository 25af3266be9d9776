package views

import (
	"fmt"
	"strings"
)

type ReportData struct {
	Date      string
	TaskRows  []TaskRowData
	Overdue   []TaskRowData
	Upcoming  []TaskRowData
	HabitRows []HabitRowData
	TaskStats string
	HabitLine string
}

// BuildScheduleReport assembles the daily report as markdown; the caller
// renders it with RenderMarkdown or writes it out raw.
func BuildScheduleReport(data ReportData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Schedule for %s\n\n", data.Date)

	b.WriteString("## Tasks\n\n")
	if len(data.TaskRows) == 0 {
		b.WriteString("Nothing due today.\n")
	}
	for _, row := range data.TaskRows {
		check := " "
		if row.Status == "completed" {
			check = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", check, row.Title, row.Priority)
	}
	if data.TaskStats != "" {
		b.WriteString("\n" + data.TaskStats + "\n")
	}

	if len(data.Overdue) > 0 {
		b.WriteString("\n## Overdue\n\n")
		for _, row := range data.Overdue {
			fmt.Fprintf(&b, "- **%s** was due %s\n", row.Title, row.Deadline)
		}
	}

	if len(data.Upcoming) > 0 {
		b.WriteString("\n## Upcoming\n\n")
		for _, row := range data.Upcoming {
			fmt.Fprintf(&b, "- %s due %s\n", row.Title, row.Deadline)
		}
	}

	b.WriteString("\n## Habits\n\n")
	if len(data.HabitRows) == 0 {
		b.WriteString("No active habits.\n")
	}
	for _, row := range data.HabitRows {
		check := " "
		if row.IsCompleted {
			check = "x"
		}
		line := fmt.Sprintf("- [%s] %s at %s", check, row.Name, row.Time)
		if row.Streak > 1 {
			line += fmt.Sprintf(" (%d-day streak)", row.Streak)
		}
		b.WriteString(line + "\n")
	}
	if data.HabitLine != "" {
		b.WriteString("\n" + data.HabitLine + "\n")
	}
	return b.String()
}

// RenderScheduleReport renders the report markdown for the terminal.
func RenderScheduleReport(theme Theme, data ReportData) string {
	return RenderMarkdown(theme, BuildScheduleReport(data))
}
