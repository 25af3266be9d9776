package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/schedulr/schedulr/internal/reminder"
	"github.com/schedulr/schedulr/internal/store"
	"github.com/schedulr/schedulr/internal/views"
)

type View string

const (
	ViewTasks    View = "Tasks"
	ViewCalendar View = "Calendar"
	ViewHabits   View = "Habits"
	ViewFocus    View = "Focus"
	ViewSettings View = "Settings"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks    string
	Calendar string
	Habits   string
	Focus    string
	Settings string
	Help     string
	Quit     string
}

// Model is the whole TUI state. Stores are the source of truth; the view
// states below hold only cursors, form buffers, and derived display data.
type Model struct {
	ctx      context.Context
	tasks    *store.TaskStore
	habits   *store.HabitStore
	settings *store.SettingsStore
	now      func() time.Time

	CurrentView View
	Tasks       TasksState
	Calendar    CalendarState
	Habits      HabitsState
	Focus       FocusState
	Settings    SettingsState
	Palette     CommandPaletteState
	Form        TaskFormState
	HabitForm   HabitFormState

	Reminders   *reminder.Engine
	AlertLog    []reminder.HabitAlert
	HelpVisible bool
	ReportOpen  bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	theme views.Theme

	// Bubble components used for rich TUI controls
	taskList      list.Model
	calendarTable table.Model
	paletteInput  textinput.Model
	settingsInput textinput.Model
	focusProgress progress.Model
	helpModel     help.Model
	reportView    viewport.Model
}

type TasksState struct {
	Cursor int
	Filter store.TaskFilter
}

type CalendarState struct {
	WeekStart time.Time
}

type HabitsState struct {
	Cursor int
}

type FocusPhase string

const (
	FocusPhaseWork  FocusPhase = "work"
	FocusPhaseBreak FocusPhase = "break"
)

type FocusState struct {
	TaskID             string
	TaskTitle          string
	WorkDurationSec    int
	BreakDurationSec   int
	RemainingSec       int
	Running            bool
	Phase              FocusPhase
	CompletedPomodoros int
}

type SettingsState struct {
	Cursor  int
	Editing bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type FocusTickMsg struct{}

type HabitAlertMsg struct {
	Alert reminder.HabitAlert
}
