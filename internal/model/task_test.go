package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Write quarterly report",
		Deadline:  time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		Priority:  PriorityHigh,
		Status:    StatusPending,
		CreatedAt: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateInvalidEnums(t *testing.T) {
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Bad status",
		Deadline:  time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		Priority:  PriorityLow,
		Status:    TaskStatus("done"),
		CreatedAt: now,
	}
	if err := task.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got: %v", err)
	}

	task.Status = StatusPending
	task.Priority = Priority("urgent")
	if err := task.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestTaskValidateRecurringNeedsRule(t *testing.T) {
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:          "task-1",
		Title:       "Water plants",
		Deadline:    time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		Priority:    PriorityLow,
		Status:      StatusPending,
		IsRecurring: true,
		CreatedAt:   now,
	}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for recurring task without rule")
	}

	task.Recurrence = &Recurrence{Type: RecurrenceType("fortnightly"), Interval: 1}
	if err := task.Validate(); !errors.Is(err, ErrInvalidRecurrenceType) {
		t.Fatalf("expected ErrInvalidRecurrenceType, got: %v", err)
	}

	task.Recurrence = &Recurrence{Type: RecurDaily, Interval: 0}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error for zero interval")
	}
}

func TestTaskInputValidateAtCollectsAllFields(t *testing.T) {
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	in := TaskInput{
		Title:       "   ",
		IsRecurring: true,
		Recurrence:  &Recurrence{Type: RecurWeekly, Interval: 0},
	}
	err := in.ValidateAt(now)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field("title") == "" {
		t.Fatal("expected title error")
	}
	if verr.Field("deadline") == "" {
		t.Fatal("expected deadline error")
	}
	if verr.Field("recurrence.interval") == "" {
		t.Fatal("expected interval error")
	}
}

func TestTaskInputValidateAtRejectsPastDeadline(t *testing.T) {
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	in := TaskInput{
		Title:    "Late already",
		Deadline: time.Date(2025, 6, 8, 23, 0, 0, 0, time.UTC),
	}
	err := in.ValidateAt(now)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field("deadline") != "deadline cannot be in the past" {
		t.Fatalf("unexpected deadline message: %q", verr.Field("deadline"))
	}
}

func TestTaskInputValidateAtAcceptsSameDayDeadline(t *testing.T) {
	now := time.Date(2025, 6, 9, 23, 30, 0, 0, time.UTC)
	in := TaskInput{
		Title:    "Due today",
		Deadline: time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
	}
	if err := in.ValidateAt(now); err != nil {
		t.Fatalf("same-day deadline should be valid, got: %v", err)
	}
}

func TestTaskInputValidateAtEndDateRule(t *testing.T) {
	now := time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	in := TaskInput{
		Title:       "Weekly review",
		Deadline:    time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		IsRecurring: true,
		Recurrence:  &Recurrence{Type: RecurWeekly, Interval: 1, EndDate: &end},
	}
	err := in.ValidateAt(now)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field("recurrence.endDate") == "" {
		t.Fatal("expected end date error when end date equals start")
	}
}
