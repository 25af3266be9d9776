package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidHabitTime = errors.New("model: invalid habit time")

type HabitCategory string

const (
	CategoryLearning HabitCategory = "Learning"
	CategoryHealth   HabitCategory = "Health"
	CategoryWork     HabitCategory = "Work"
	CategoryPersonal HabitCategory = "Personal"
	CategoryOther    HabitCategory = "Other"
)

func (c HabitCategory) IsValid() bool {
	switch c {
	case CategoryLearning, CategoryHealth, CategoryWork, CategoryPersonal, CategoryOther:
		return true
	default:
		return false
	}
}

// NormalizeCategory maps unknown or empty categories to Other.
func NormalizeCategory(c HabitCategory) HabitCategory {
	if c.IsValid() {
		return c
	}
	return CategoryOther
}

// DailyHabit is a routine tracked once per calendar day. IsCompleted is
// reset by the daily rollover; Streak counts consecutive completed days;
// LastCompleted holds the YYYY-MM-DD key of the most recent completion, or
// "" if never completed. Order is a 1-based position among active habits.
// Inactive habits are retained but excluded from daily views and ordering.
type DailyHabit struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description,omitempty"`
	Time             string        `json:"time"`
	Category         HabitCategory `json:"category"`
	Order            int           `json:"order"`
	IsActive         bool          `json:"isActive"`
	IsCompleted      bool          `json:"isCompleted"`
	Streak           int           `json:"streak"`
	TotalCompletions int           `json:"totalCompletions"`
	LastCompleted    string        `json:"lastCompleted,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
}

func (h DailyHabit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: habit id is required")
	}
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("model: habit name is required")
	}
	if h.Time != "" {
		if err := validateClock(h.Time); err != nil {
			return err
		}
	}
	if !h.Category.IsValid() {
		return fmt.Errorf("model: invalid habit category %q", h.Category)
	}
	if h.Streak < 0 {
		return errors.New("model: habit streak cannot be negative")
	}
	if h.TotalCompletions < 0 {
		return errors.New("model: habit total completions cannot be negative")
	}
	return nil
}

func validateClock(v string) error {
	if _, err := time.Parse("15:04", v); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidHabitTime, v)
	}
	return nil
}

// HabitInput carries caller-supplied fields for creating a habit. The store
// assigns identity, order and counters.
type HabitInput struct {
	Name        string
	Description string
	Time        string
	Category    HabitCategory
}

func (in HabitInput) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		verr.add("name", "name is required")
	}
	if in.Time != "" {
		if err := validateClock(in.Time); err != nil {
			verr.add("time", fmt.Sprintf("expected HH:MM, got %q", in.Time))
		}
	}
	return verr.orNil()
}

// HabitPatch is a partial update; nil fields keep the current value.
// Counters and order are owned by the store and are not patchable here.
type HabitPatch struct {
	Name        *string
	Description *string
	Time        *string
	Category    *HabitCategory
	IsActive    *bool
}
