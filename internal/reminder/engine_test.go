package reminder

import (
	"testing"
	"time"

	"github.com/schedulr/schedulr/internal/model"
)

func TestEngineEmitsInFireOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now()
	if err := engine.Schedule(HabitAlert{HabitID: "later", At: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(HabitAlert{HabitID: "sooner", At: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitAlert(t, engine.C(), time.Second)
	second := waitAlert(t, engine.C(), time.Second)
	if first.HabitID != "sooner" || second.HabitID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.HabitID, second.HabitID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(HabitAlert{HabitID: "h", At: at}); err != nil {
			t.Fatalf("schedule alert: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped alerts > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesFireTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(HabitAlert{HabitID: "bad"}); err != ErrInvalidFireTime {
		t.Fatalf("expected ErrInvalidFireTime, got %v", err)
	}
}

func TestAlertsForTodaySkipsDoneInactiveAndPast(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	habits := []model.DailyHabit{
		{ID: "h1", Name: "Evening walk", Time: "18:30", IsActive: true},
		{ID: "h2", Name: "Morning pages", Time: "07:00", IsActive: true},
		{ID: "h3", Name: "Done already", Time: "20:00", IsActive: true, IsCompleted: true},
		{ID: "h4", Name: "Paused", Time: "19:00", IsActive: false},
		{ID: "h5", Name: "No clock", Time: "someday", IsActive: true},
	}

	alerts := AlertsForToday(habits, now)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].HabitID != "h1" {
		t.Fatalf("unexpected alert: %+v", alerts[0])
	}
	want := time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC)
	if !alerts[0].At.Equal(want) {
		t.Fatalf("fire time: got %v want %v", alerts[0].At, want)
	}
}

func waitAlert(t *testing.T, ch <-chan HabitAlert, timeout time.Duration) HabitAlert {
	t.Helper()
	select {
	case alert := <-ch:
		return alert
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for alert")
		return HabitAlert{}
	}
}
