package update

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	bhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/schedulr/schedulr/internal/commands"
	"github.com/schedulr/schedulr/internal/dateutil"
	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/reminder"
	"github.com/schedulr/schedulr/internal/store"
	"github.com/schedulr/schedulr/internal/views"
)

type Deps struct {
	Tasks    *store.TaskStore
	Habits   *store.HabitStore
	Settings *store.SettingsStore
	Reminder *reminder.Engine
	Now      func() time.Time
}

func NewModel(ctx context.Context, deps Deps, cfg RuntimeConfig) Model {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	themeName := cfg.Theme
	if themeName == "" {
		themeName = deps.Settings.GetString(model.SettingTheme)
	}

	workMin := cfg.FocusWorkMinutes
	if workMin <= 0 {
		workMin = deps.Settings.GetInt(model.SettingFocusWorkMinutes)
	}
	breakMin := cfg.FocusBreakMinutes
	if breakMin <= 0 {
		breakMin = deps.Settings.GetInt(model.SettingFocusBreakMinutes)
	}
	if workMin <= 0 {
		workMin = 25
	}
	if breakMin <= 0 {
		breakMin = 5
	}

	m := Model{
		ctx:         ctx,
		tasks:       deps.Tasks,
		habits:      deps.Habits,
		settings:    deps.Settings,
		now:         now,
		CurrentView: ViewTasks,
		Tasks: TasksState{
			Filter: store.TaskFilter{SortBy: deps.Settings.GetString(model.SettingTaskSortBy)},
		},
		Calendar: CalendarState{
			WeekStart: dateutil.StartOfWeek(now()),
		},
		Focus: FocusState{
			WorkDurationSec:  workMin * 60,
			BreakDurationSec: breakMin * 60,
			RemainingSec:     workMin * 60,
			Phase:            FocusPhaseWork,
		},
		Reminders: deps.Reminder,
		Keys: GlobalKeyMap{
			Tasks:    "1",
			Calendar: "2",
			Habits:   "3",
			Focus:    "4",
			Settings: "5",
			Help:     "?",
			Quit:     "q",
		},
		theme: views.NewTheme(themeName),
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.Reminders != nil {
		return waitForAlertCmd(m.Reminders.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.Form.Active {
			return m.handleTaskFormKey(typed), nil
		}
		if m.HabitForm.Active {
			return m.handleHabitFormKey(typed), nil
		}
		if m.CurrentView == ViewSettings && m.Settings.Editing {
			return m.handleSettingsKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.paletteInput.SetValue("")
			m.paletteInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			m.syncBubbleData()
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			m.syncBubbleData()
			return m, nil
		case m.Keys.Habits:
			m.CurrentView = ViewHabits
			m.syncBubbleData()
			return m, nil
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			m.bootstrapFocusTask()
			return m, nil
		case m.Keys.Settings:
			m.CurrentView = ViewSettings
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "R":
			m.ReportOpen = !m.ReportOpen
			m.syncBubbleData()
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewTasks:
			return m.handleTasksKey(typed), nil
		case ViewCalendar:
			return m.handleCalendarKey(typed), nil
		case ViewHabits:
			return m.handleHabitsKey(typed), nil
		case ViewFocus:
			return m.handleFocusKey(typed)
		case ViewSettings:
			return m.handleSettingsKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewFocus {
				m.bootstrapFocusTask()
			}
			m.syncBubbleData()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case FocusTickMsg:
		return m.onFocusTick()
	case HabitAlertMsg:
		m.AlertLog = append(m.AlertLog, typed.Alert)
		if len(m.AlertLog) > 20 {
			m.AlertLog = m.AlertLog[len(m.AlertLog)-20:]
		}
		m.Status = StatusBar{Text: fmt.Sprintf("habit due: %s", typed.Alert.Name)}
		if m.Reminders != nil {
			return m, waitForAlertCmd(m.Reminders.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
		rightPane = m.renderPaletteOrForm()
	case ViewCalendar:
		leftPane = m.renderCalendarView()
		rightPane = m.renderPaletteOrForm()
	case ViewHabits:
		leftPane = m.renderHabitsView()
		rightPane = m.renderPaletteOrForm()
	case ViewFocus:
		leftPane = m.renderFocusView()
		rightPane = m.renderHelpIfVisible()
	case ViewSettings:
		leftPane = m.renderSettingsView()
		rightPane = m.renderHelpIfVisible()
	}
	if m.ReportOpen {
		rightPane = "report:\n" + m.reportView.View()
	}

	return views.RenderApp(m.theme, views.AppData{
		Header:     fmt.Sprintf("schedulr | %s | %s", m.CurrentView, dateutil.Key(m.now())),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: m.Status.Text,
		IsError:    m.Status.IsError,
		Footer: fmt.Sprintf("keys: %s tasks | %s calendar | %s habits | %s focus | %s settings | R report | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Calendar, m.Keys.Habits, m.Keys.Focus, m.Keys.Settings, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewCalendar, ViewHabits, ViewFocus, ViewSettings:
		return true
	default:
		return false
	}
}

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.taskList.Title = "Tasks"
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Prio", Width: 7},
		{Title: "Status", Width: 12},
		{Title: "Title", Width: 24},
	}
	m.calendarTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.paletteInput = textinput.New()
	m.paletteInput.Prompt = "/"
	m.paletteInput.CharLimit = 256
	m.paletteInput.Width = 48

	m.settingsInput = textinput.New()
	m.settingsInput.Prompt = "> "
	m.settingsInput.CharLimit = 128
	m.settingsInput.Width = 32

	m.focusProgress = progress.New(progress.WithDefaultGradient())
	m.helpModel = bhelp.New()
	m.reportView = viewport.New(54, 14)
}

// syncBubbleData refreshes the bubble components from the stores. Called
// after every mutation so list, table, and report track the real state.
func (m *Model) syncBubbleData() {
	visible := m.visibleTasks()
	items := make([]list.Item, 0, len(visible))
	for _, t := range visible {
		items = append(items, listItem{title: t.Title, description: fmt.Sprintf("%s | %s", t.Priority, t.Status)})
	}
	m.taskList.SetItems(items)
	if len(items) > 0 && m.Tasks.Cursor < len(items) {
		m.taskList.Select(m.Tasks.Cursor)
	}

	rows := make([]table.Row, 0)
	for i := 0; i < 7; i++ {
		day := dateutil.AddDays(m.Calendar.WeekStart, i)
		for _, t := range m.tasks.TasksForDate(day) {
			rows = append(rows, table.Row{dateutil.Key(day), string(t.Priority), string(t.Status), t.Title})
		}
	}
	m.calendarTable.SetRows(rows)

	if m.ReportOpen {
		m.reportView.SetContent(views.RenderScheduleReport(m.theme, m.reportData()))
	}
}

func (m Model) visibleTasks() []model.Task {
	return m.tasks.FilterTasks(m.Tasks.Filter)
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		return model.Task{}, false
	}
	cursor := m.Tasks.Cursor
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= len(visible) {
		cursor = len(visible) - 1
	}
	return visible[cursor], true
}

func (m Model) reportData() views.ReportData {
	today := m.now()
	data := views.ReportData{Date: dateutil.Key(today)}
	for _, t := range m.tasks.TasksForDate(today) {
		data.TaskRows = append(data.TaskRows, taskRow(t, today))
	}
	for _, t := range m.tasks.OverdueTasks() {
		data.Overdue = append(data.Overdue, taskRow(t, today))
	}
	for _, t := range m.tasks.UpcomingTasks(5) {
		data.Upcoming = append(data.Upcoming, taskRow(t, today))
	}
	for _, h := range m.habits.ActiveHabits() {
		data.HabitRows = append(data.HabitRows, habitRow(h))
	}
	stats := m.tasks.TaskStats()
	data.TaskStats = fmt.Sprintf("%d tasks, %d completed, %d overdue", stats.Total, stats.Completed, stats.Overdue)
	hstats := m.habits.Stats()
	data.HabitLine = fmt.Sprintf("%d of %d habits done (%d%%)", hstats.Completed, hstats.Total, hstats.CompletionRate)
	return data
}

func taskRow(t model.Task, today time.Time) views.TaskRowData {
	return views.TaskRowData{
		ID:         t.ID,
		Title:      t.Title,
		Deadline:   dateutil.Key(t.Deadline),
		Priority:   string(t.Priority),
		Status:     string(t.Status),
		IsOverdue:  t.Status != model.StatusCompleted && dateutil.DaysBetween(today, t.Deadline) < 0,
		IsInstance: t.IsInstance,
	}
}

func habitRow(h model.DailyHabit) views.HabitRowData {
	return views.HabitRowData{
		ID:          h.ID,
		Name:        h.Name,
		Time:        h.Time,
		Category:    string(h.Category),
		IsCompleted: h.IsCompleted,
		Streak:      h.Streak,
		Total:       h.TotalCompletions,
	}
}

func (m Model) renderPaletteOrForm() string {
	if m.Form.Active {
		return m.renderTaskForm()
	}
	if m.HabitForm.Active {
		return m.renderHabitForm()
	}
	out := views.RenderCommandPalette(m.Palette.Active, m.paletteInput.View())
	if help := m.renderHelpIfVisible(); help != "" {
		out = strings.TrimSpace(out + "\n" + help)
	}
	return out
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Tasks, Action: "switch to Tasks"},
		{Key: m.Keys.Calendar, Action: "switch to Calendar"},
		{Key: m.Keys.Habits, Action: "switch to Habits"},
		{Key: m.Keys.Focus, Action: "switch to Focus"},
		{Key: m.Keys.Settings, Action: "switch to Settings"},
		{Key: "/", Action: "open command palette"},
		{Key: "R", Action: "toggle schedule report"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewTasks:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "a/e", Action: "add / edit task"},
			{Key: "space", Action: "toggle done"},
			{Key: "d", Action: "delete task"},
			{Key: "p/s", Action: "cycle priority / status filter"},
			{Key: "o", Action: "cycle sort order"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next week"},
			{Key: "t", Action: "jump to current week"},
		}
	case ViewHabits:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "toggle completion"},
			{Key: "a/d", Action: "add / delete habit"},
			{Key: "J/K", Action: "reorder"},
		}
	case ViewFocus:
		return []KeyBinding{
			{Key: "space", Action: "start/pause timer"},
			{Key: "r", Action: "reset timer"},
			{Key: "n", Action: "next focus phase"},
		}
	case ViewSettings:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "enter", Action: "edit value"},
			{Key: "x/i", Action: "export / import settings"},
			{Key: "0", Action: "reset to defaults"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.paletteInput.SetValue("")
		m.paletteInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.paletteInput.Value()
		m = m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.paletteInput, cmd = m.paletteInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.paletteInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			deadline := a.Deadline
			if deadline.IsZero() {
				deadline = dateutil.Midnight(m.now())
			}
			priority := model.Priority(a.Priority)
			if priority == "" {
				priority = model.Priority(m.settings.GetString(model.SettingDefaultPriority))
			}
			created, err := m.tasks.AddTask(m.ctx, model.TaskInput{
				Title:    a.Title,
				Deadline: deadline,
				Priority: priority,
			})
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added task: %s", created.Title)}, nil
		},
		Done: func(d commands.DoneArgs) (commands.Result, error) {
			task, ok := m.resolveTaskRef(d.Ref)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matches %q", d.Ref)}
			}
			toggled, err := m.tasks.ToggleTaskStatus(m.ctx, task.ID)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s is now %s", toggled.Title, toggled.Status)}, nil
		},
		Habit: func(h commands.HabitArgs) (commands.Result, error) {
			habit, ok := m.resolveHabitRef(h.Ref)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no habit matches %q", h.Ref)}
			}
			toggled, err := m.habits.ToggleCompletion(m.ctx, habit.ID)
			if err != nil {
				return commands.Result{}, err
			}
			state := "undone"
			if toggled.IsCompleted {
				state = fmt.Sprintf("done, streak %d", toggled.Streak)
			}
			return commands.Result{Message: fmt.Sprintf("%s: %s", toggled.Name, state)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			switch s.Subject {
			case "tasks":
				m.CurrentView = ViewTasks
				m.Tasks.Filter.Priority = model.Priority(s.Priority)
				m.Tasks.Filter.Status = model.TaskStatus(s.Status)
			case "habits":
				m.CurrentView = ViewHabits
			case "overdue":
				m.CurrentView = ViewTasks
				m.Tasks.Filter = store.TaskFilter{SortBy: m.Tasks.Filter.SortBy}
				return commands.Result{Message: fmt.Sprintf("%d overdue task(s)", len(m.tasks.OverdueTasks()))}, nil
			case "upcoming":
				m.CurrentView = ViewTasks
				return commands.Result{Message: fmt.Sprintf("%d upcoming task(s)", len(m.tasks.UpcomingTasks(0)))}, nil
			default:
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("cannot show %q", s.Subject)}
			}
			return commands.Result{Message: "showing " + s.Subject}, nil
		},
		Sort: func(s commands.SortArgs) (commands.Result, error) {
			m.Tasks.Filter.SortBy = s.By
			if err := m.settings.Update(m.ctx, model.SettingTaskSortBy, s.By); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "sorting by " + s.By}, nil
		},
		Set: func(s commands.SetArgs) (commands.Result, error) {
			if err := m.settings.Update(m.ctx, s.Key, s.Value); err != nil {
				return commands.Result{}, err
			}
			if s.Key == model.SettingTheme {
				m.theme = views.NewTheme(s.Value)
			}
			return commands.Result{Message: fmt.Sprintf("set %s = %s", s.Key, s.Value)}, nil
		},
		Export: func(e commands.ExportArgs) (commands.Result, error) {
			var raw []byte
			var err error
			if e.Subject == "tasks" {
				raw, err = m.tasks.ExportJSON()
			} else {
				raw, err = m.settings.ExportJSON()
			}
			if err != nil {
				return commands.Result{}, err
			}
			if err := os.WriteFile(e.Path, raw, 0o644); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported %s to %s", e.Subject, e.Path)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.paletteInput.SetValue("")
	m.paletteInput.Blur()
	m.syncBubbleData()
	return m
}

// resolveTaskRef matches a palette reference against task ids first, then
// title prefixes, case-insensitively.
func (m Model) resolveTaskRef(ref string) (model.Task, bool) {
	needle := strings.ToLower(strings.TrimSpace(ref))
	if needle == "" {
		return model.Task{}, false
	}
	all := m.tasks.Tasks()
	for _, t := range all {
		if strings.ToLower(t.ID) == needle {
			return t, true
		}
	}
	for _, t := range all {
		if strings.HasPrefix(strings.ToLower(t.Title), needle) {
			return t, true
		}
	}
	return model.Task{}, false
}

func (m Model) resolveHabitRef(ref string) (model.DailyHabit, bool) {
	needle := strings.ToLower(strings.TrimSpace(ref))
	if needle == "" {
		return model.DailyHabit{}, false
	}
	for _, h := range m.habits.Habits() {
		if strings.ToLower(h.ID) == needle || strings.HasPrefix(strings.ToLower(h.Name), needle) {
			return h, true
		}
	}
	return model.DailyHabit{}, false
}

func waitForAlertCmd(ch <-chan reminder.HabitAlert) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		alert, ok := <-ch
		if !ok {
			return nil
		}
		return HabitAlertMsg{Alert: alert}
	}
}
