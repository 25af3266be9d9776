package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Theme carries the style set for one color scheme. The name doubles as the
// glamour style used for markdown rendering.
type Theme struct {
	Name        string
	Header      lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Panel       lipgloss.Style
	Footer      lipgloss.Style
	Highlight   lipgloss.Style
	Muted       lipgloss.Style
	DoneBadge   lipgloss.Style
	UrgentBadge lipgloss.Style
}

// NewTheme returns the style set for "dark" or "light"; anything else falls
// back to dark.
func NewTheme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return Theme{
			Name:        "light",
			Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
			Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
			Panel:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			Footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
			Highlight:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
			Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			DoneBadge:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
			UrgentBadge: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		}
	default:
		return Theme{
			Name:        "dark",
			Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
			Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			Panel:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			Footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Highlight:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			DoneBadge:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			UrgentBadge: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		}
	}
}

type AppData struct {
	Header     string
	LeftPane   string
	RightPane  string
	StatusLine string
	IsError    bool
	Footer     string
}

func RenderApp(theme Theme, data AppData) string {
	left := theme.Panel.Width(58).Render(data.LeftPane)
	right := theme.Panel.Width(58).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := theme.Status.Render(data.StatusLine)
	if data.IsError {
		status = theme.Error.Render(data.StatusLine)
	}

	lines := []string{
		theme.Header.Render(data.Header),
		row,
		status,
	}
	if data.Footer != "" {
		lines = append(lines, theme.Footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders markdown with the theme's glamour style, falling
// back to the raw text when rendering fails.
func RenderMarkdown(theme Theme, md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, theme.Name)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
