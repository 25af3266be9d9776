package store

import (
	"fmt"
	"time"

	"github.com/schedulr/schedulr/internal/dateutil"
	"github.com/schedulr/schedulr/internal/model"
)

// occursOn reports whether a template lands on the given calendar day.
// This is the single recurrence rule shared by every date and week query:
// a recurring task occurs on its own deadline and at deadline + k*interval
// units of its recurrence type, clamped to the last valid day for short
// months, and never past the rule's end date.
func occursOn(t model.Task, day time.Time) bool {
	if !t.IsRecurring || t.Recurrence == nil {
		return dateutil.SameDay(t.Deadline, day)
	}

	offset := dateutil.DaysBetween(t.Deadline, day)
	if offset < 0 {
		return false
	}
	rec := t.Recurrence
	if rec.EndDate != nil && dateutil.DaysBetween(*rec.EndDate, day) > 0 {
		return false
	}
	interval := rec.Interval
	if interval < 1 {
		interval = 1
	}

	switch rec.Type {
	case model.RecurDaily:
		return offset%interval == 0
	case model.RecurWeekly:
		return offset%(7*interval) == 0
	case model.RecurMonthly:
		months := monthsBetween(t.Deadline, day)
		if months < 0 || months%interval != 0 {
			return false
		}
		return dateutil.SameDay(addMonthsClamped(t.Deadline, months), day)
	case model.RecurYearly:
		years := yearOf(day) - yearOf(t.Deadline)
		if years < 0 || years%interval != 0 {
			return false
		}
		return dateutil.SameDay(addMonthsClamped(t.Deadline, years*12), day)
	default:
		return false
	}
}

// instanceFor materializes a display occurrence of a recurring template on
// the given day. Instances are transient: they carry the template's fields,
// a day-scoped id, and are never written back to the store.
func instanceFor(t model.Task, day time.Time) model.Task {
	inst := cloneTask(t)
	inst.ID = fmt.Sprintf("%s@%s", t.ID, dateutil.Key(day))
	inst.Deadline = dateutil.Midnight(day)
	inst.IsInstance = true
	inst.OriginalTaskID = t.ID
	return inst
}

// cloneTask copies a task deeply enough that callers cannot reach store
// state through returned views.
func cloneTask(t model.Task) model.Task {
	out := t
	if t.Recurrence != nil {
		rec := *t.Recurrence
		if t.Recurrence.EndDate != nil {
			end := *t.Recurrence.EndDate
			rec.EndDate = &end
		}
		out.Recurrence = &rec
	}
	return out
}

// addMonthsClamped advances by whole calendar months, preserving the
// day-of-month where valid and clamping to the last day of shorter months
// (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, time.Month(int(m)+months), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, -1).Day()
}

func monthsBetween(a, b time.Time) int {
	return (yearOf(b)-yearOf(a))*12 + int(b.Month()) - int(a.Month())
}

func yearOf(t time.Time) int {
	y, _, _ := t.Date()
	return y
}
