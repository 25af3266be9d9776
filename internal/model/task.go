package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/schedulr/schedulr/internal/dateutil"
)

var (
	ErrInvalidStatus         = errors.New("model: invalid task status")
	ErrInvalidPriority       = errors.New("model: invalid task priority")
	ErrInvalidRecurrenceType = errors.New("model: invalid recurrence type")
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
	RecurYearly  RecurrenceType = "yearly"
)

func (r RecurrenceType) IsValid() bool {
	switch r {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	default:
		return false
	}
}

// Recurrence describes how a recurring task template repeats, anchored at
// the template's deadline. EndDate, when set, is the last day an occurrence
// may land on.
type Recurrence struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval"`
	EndDate  *time.Time     `json:"endDate,omitempty"`
}

// Task is a stored template. Completing a task never deletes it; recurring
// templates are stored once and expanded per date on demand.
//
// IsInstance and OriginalTaskID appear only on materialized occurrences of
// recurring templates and are never written back to storage.
type Task struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Deadline    time.Time   `json:"deadline"`
	Priority    Priority    `json:"priority"`
	Status      TaskStatus  `json:"status"`
	IsRecurring bool        `json:"isRecurring"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`

	// PriorStatus remembers the last non-completed status across a
	// completion toggle so toggling back restores pending/in-progress
	// rather than always pending.
	PriorStatus TaskStatus `json:"priorStatus,omitempty"`

	IsInstance     bool   `json:"isInstance,omitempty"`
	OriginalTaskID string `json:"originalTaskId,omitempty"`
}

// Validate checks structural invariants of a stored template. Input-level
// rules that depend on "now" (deadline not in the past) belong to the store.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.Deadline.IsZero() {
		return errors.New("model: task deadline is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.IsRecurring {
		if t.Recurrence == nil {
			return errors.New("model: recurrence is required for recurring task")
		}
		if !t.Recurrence.Type.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidRecurrenceType, t.Recurrence.Type)
		}
		if t.Recurrence.Interval < 1 {
			return fmt.Errorf("model: recurrence interval must be >= 1, got %d", t.Recurrence.Interval)
		}
		if t.Recurrence.EndDate != nil && !t.Recurrence.EndDate.After(t.Deadline) {
			return errors.New("model: recurrence end date must be after deadline")
		}
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// TaskInput carries caller-supplied fields for creating a task.
type TaskInput struct {
	Title       string
	Description string
	Deadline    time.Time
	Priority    Priority
	Status      TaskStatus
	IsRecurring bool
	Recurrence  *Recurrence
}

// ValidateAt applies the creation rules against the given clock: title
// required, deadline required and not before today, recurrence interval and
// end date sane. All violations are reported together.
func (in TaskInput) ValidateAt(now time.Time) error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Title) == "" {
		verr.add("title", "title is required")
	}
	if in.Deadline.IsZero() {
		verr.add("deadline", "deadline is required")
	} else if dateutil.DaysBetween(now, in.Deadline) < 0 {
		verr.add("deadline", "deadline cannot be in the past")
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		verr.add("priority", fmt.Sprintf("unknown priority %q", in.Priority))
	}
	if in.Status != "" && !in.Status.IsValid() {
		verr.add("status", fmt.Sprintf("unknown status %q", in.Status))
	}
	if in.IsRecurring {
		rec := in.Recurrence
		if rec == nil {
			verr.add("recurrence", "recurrence is required for recurring tasks")
		} else {
			if !rec.Type.IsValid() {
				verr.add("recurrence.type", fmt.Sprintf("unknown recurrence type %q", rec.Type))
			}
			if rec.Interval < 1 {
				verr.add("recurrence.interval", "interval must be at least 1")
			}
			if rec.EndDate != nil && !in.Deadline.IsZero() && dateutil.DaysBetween(in.Deadline, *rec.EndDate) <= 0 {
				verr.add("recurrence.endDate", "end date must be after the start date")
			}
		}
	}
	return verr.orNil()
}

// TaskPatch is a partial update; nil fields keep the current value.
// Recurrence is merged as a sub-object rather than replaced wholesale.
type TaskPatch struct {
	Title       *string
	Description *string
	Deadline    *time.Time
	Priority    *Priority
	Status      *TaskStatus
	IsRecurring *bool
	Recurrence  *RecurrencePatch
}

type RecurrencePatch struct {
	Type     *RecurrenceType
	Interval *int
	EndDate  *time.Time
	// ClearEndDate removes an existing end date; EndDate wins if both set.
	ClearEndDate bool
}
