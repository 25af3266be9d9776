package update

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/storage"
	"github.com/schedulr/schedulr/internal/store"
)

func newTestModel(t *testing.T, now time.Time) Model {
	t.Helper()
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	clock := func() time.Time { return now }

	tasks, err := store.NewTaskStoreWithClock(ctx, kv, clock)
	if err != nil {
		t.Fatalf("task store: %v", err)
	}
	habits, err := store.NewHabitStoreWithClock(ctx, kv, clock)
	if err != nil {
		t.Fatalf("habit store: %v", err)
	}
	settings, err := store.NewSettingsStore(ctx, kv)
	if err != nil {
		t.Fatalf("settings store: %v", err)
	}
	return NewModel(ctx, Deps{Tasks: tasks, Habits: habits, Settings: settings, Now: clock}, DefaultRuntimeConfig())
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.Local)
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected default view %q, got %q", ViewTasks, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Focus.WorkDurationSec != 25*60 {
		t.Fatalf("expected settings-backed work duration, got %d", m.Focus.WorkDurationSec)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, _ := m.Update(keyMsg("3"))
	next := updated.(Model)
	if next.CurrentView != ViewHabits {
		t.Fatalf("expected habits view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(keyMsg("4"))
	next = updated.(Model)
	if next.CurrentView != ViewFocus {
		t.Fatalf("expected focus view, got %q", next.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, _ := m.Update(SwitchViewMsg{View: ViewCalendar})
	next := updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected calendar view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewCalendar {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error handling: status=%+v err=%v", next.Status, next.LastError)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestPaletteAddCreatesTask(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, _ := m.Update(keyMsg("/"))
	next := updated.(Model)
	if !next.Palette.Active {
		t.Fatal("expected palette active")
	}

	next = typeString(next, "add Pay rent by:2025-07-01 prio:high")
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)

	if next.Palette.Active {
		t.Fatal("palette must close after execution")
	}
	if next.Status.IsError {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}
	tasks := next.tasks.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "Pay rent" {
		t.Fatalf("unexpected tasks after palette add: %+v", tasks)
	}
	if tasks[0].Priority != model.PriorityHigh {
		t.Fatalf("priority: got %s", tasks[0].Priority)
	}
}

func TestPaletteUnknownCommandSetsErrorStatus(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, _ := m.Update(keyMsg("/"))
	next := typeString(updated.(Model), "frobnicate now")
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if !next.Status.IsError {
		t.Fatalf("expected error status, got %+v", next.Status)
	}
}

func TestHabitsSpaceTogglesCompletion(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, _ := m.Update(keyMsg("3"))
	next := updated.(Model)

	before := next.habits.Stats()
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeySpace})
	next = updated.(Model)
	after := next.habits.Stats()
	if after.Completed != before.Completed+1 {
		t.Fatalf("completed: got %d want %d", after.Completed, before.Completed+1)
	}
	if !strings.Contains(next.Status.Text, "streak") {
		t.Fatalf("expected streak status, got %q", next.Status.Text)
	}
}

func TestTasksSpaceTogglesSelected(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	if _, err := m.tasks.AddTask(m.ctx, model.TaskInput{Title: "Only task", Deadline: day(2025, 6, 12)}); err != nil {
		t.Fatal(err)
	}
	m.syncBubbleData()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	next := updated.(Model)
	tasks := next.tasks.Tasks()
	if tasks[0].Status != model.StatusCompleted {
		t.Fatalf("expected completed after toggle, got %s", tasks[0].Status)
	}
}

func TestHabitFormSubmitAddsHabit(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, _ := m.Update(keyMsg("3"))
	next := updated.(Model)

	updated, _ = next.Update(keyMsg("a"))
	next = updated.(Model)
	if !next.HabitForm.Active {
		t.Fatal("expected habit form active")
	}

	before := len(next.habits.ActiveHabits())
	next = typeString(next, "Stretching")
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	next = updated.(Model)

	if next.HabitForm.Active {
		t.Fatalf("habit form must close after submit, err=%q", next.HabitForm.Err)
	}
	active := next.habits.ActiveHabits()
	if len(active) != before+1 {
		t.Fatalf("habits: got %d want %d", len(active), before+1)
	}
	added := active[len(active)-1]
	if added.Name != "Stretching" || added.Time != "08:00" {
		t.Fatalf("unexpected habit: %+v", added)
	}
	if added.Category != model.CategoryOther {
		t.Fatalf("category: got %s want %s", added.Category, model.CategoryOther)
	}
}

func TestTaskFormOpensAndCancels(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, _ := m.Update(keyMsg("a"))
	next := updated.(Model)
	if !next.Form.Active {
		t.Fatal("expected task form active")
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEsc})
	next = updated.(Model)
	if next.Form.Active {
		t.Fatal("expected task form closed on esc")
	}
}

func TestFocusTickCountsDown(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, _ := m.Update(keyMsg("4"))
	next := updated.(Model)

	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeySpace})
	next = updated.(Model)
	if !next.Focus.Running || cmd == nil {
		t.Fatal("expected running focus timer with tick command")
	}

	before := next.Focus.RemainingSec
	updated, _ = next.Update(FocusTickMsg{})
	next = updated.(Model)
	if next.Focus.RemainingSec != before-1 {
		t.Fatalf("remaining: got %d want %d", next.Focus.RemainingSec, before-1)
	}
}

func TestViewRendersHeader(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	out := m.View()
	if !strings.Contains(out, "schedulr") {
		t.Fatalf("view missing header:\n%s", out)
	}
	if !strings.Contains(out, "2025-06-09") {
		t.Fatalf("view missing date:\n%s", out)
	}
}

func TestQuitKeySetsQuitting(t *testing.T) {
	m := newTestModel(t, day(2025, 6, 9))
	updated, cmd := m.Update(keyMsg("q"))
	next := updated.(Model)
	if !next.Quitting || cmd == nil {
		t.Fatal("expected quitting state and quit command")
	}
}
