package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/schedulr/schedulr/internal/dateutil"
	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/storage"
)

// HabitStore owns the daily-habit collection and the lastResetDate marker
// that drives the day rollover. Ordering applies to active habits only;
// inactive habits are retained but excluded from daily views.
type HabitStore struct {
	kv            storage.KV
	now           func() time.Time
	habits        []model.DailyHabit
	lastResetDate string
}

func NewHabitStore(ctx context.Context, kv storage.KV) (*HabitStore, error) {
	return NewHabitStoreWithClock(ctx, kv, time.Now)
}

func NewHabitStoreWithClock(ctx context.Context, kv storage.KV, now func() time.Time) (*HabitStore, error) {
	s := &HabitStore{kv: kv, now: now}

	raw, err := kv.Get(ctx, storage.KeyDailyHabits)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &s.habits); err != nil {
			return nil, fmt.Errorf("decode habits: %w", err)
		}
	case errors.Is(err, storage.ErrNotFound):
		s.habits = defaultHabits(now())
	default:
		return nil, fmt.Errorf("load habits: %w", err)
	}

	marker, err := kv.Get(ctx, storage.KeyLastResetDate)
	switch {
	case err == nil:
		s.lastResetDate = string(marker)
	case errors.Is(err, storage.ErrNotFound):
		s.lastResetDate = dateutil.Key(now())
	default:
		return nil, fmt.Errorf("load reset marker: %w", err)
	}
	return s, nil
}

// defaultHabits seeds a first run with a starter routine so the habit view
// is not empty before the user adds anything.
func defaultHabits(now time.Time) []model.DailyHabit {
	starter := []struct {
		name, description, clock string
		category                 model.HabitCategory
	}{
		{"Study DSA", "Daily one-hour data structures and algorithms practice", "09:00", model.CategoryLearning},
		{"Morning Exercise", "30-minute morning workout or walk", "06:30", model.CategoryHealth},
		{"Journaling", "Write daily thoughts and reflections", "21:00", model.CategoryPersonal},
	}
	out := make([]model.DailyHabit, 0, len(starter))
	for i, h := range starter {
		out = append(out, model.DailyHabit{
			ID:          uuid.NewString(),
			Name:        h.name,
			Description: h.description,
			Time:        h.clock,
			Category:    h.category,
			Order:       i + 1,
			IsActive:    true,
			CreatedAt:   now,
		})
	}
	return out
}

// AddHabit creates an active habit at the end of the order with zeroed
// counters.
func (s *HabitStore) AddHabit(ctx context.Context, in model.HabitInput) (model.DailyHabit, error) {
	if err := in.Validate(); err != nil {
		return model.DailyHabit{}, err
	}
	habit := model.DailyHabit{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Time:        in.Time,
		Category:    model.NormalizeCategory(in.Category),
		Order:       len(s.activeIndexes()) + 1,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	s.habits = append(s.habits, habit)
	return habit, s.persist(ctx)
}

func (s *HabitStore) UpdateHabit(ctx context.Context, id string, patch model.HabitPatch) (model.DailyHabit, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.DailyHabit{}, fmt.Errorf("%w: habit %s", ErrNotFound, id)
	}
	// Patch a copy so a rejected merge leaves the stored habit intact.
	habit := s.habits[idx]
	if patch.Name != nil {
		habit.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		habit.Description = *patch.Description
	}
	if patch.Time != nil {
		habit.Time = *patch.Time
	}
	if patch.Category != nil {
		habit.Category = model.NormalizeCategory(*patch.Category)
	}
	activeFlipped := patch.IsActive != nil && *patch.IsActive != habit.IsActive
	if activeFlipped {
		habit.IsActive = *patch.IsActive
	}
	if err := habit.Validate(); err != nil {
		return model.DailyHabit{}, err
	}
	s.habits[idx] = habit
	if activeFlipped {
		s.renumber()
	}
	return habit, s.persist(ctx)
}

func (s *HabitStore) DeleteHabit(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: habit %s", ErrNotFound, id)
	}
	s.habits = append(s.habits[:idx], s.habits[idx+1:]...)
	s.renumber()
	return s.persist(ctx)
}

// ToggleCompletion flips a habit's completion for today and keeps the
// streak books. Completing continues the streak when yesterday's record
// shows completion (or the streak is fresh), otherwise starts a new streak
// of 1. Un-completing walks both counters back one step; lastCompleted is
// deliberately left in place so the rollover's grace rule still sees the
// most recent real completion.
func (s *HabitStore) ToggleCompletion(ctx context.Context, id string) (model.DailyHabit, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.DailyHabit{}, fmt.Errorf("%w: habit %s", ErrNotFound, id)
	}
	habit := &s.habits[idx]
	now := s.now()
	today := dateutil.Key(now)
	yesterday := dateutil.Key(dateutil.AddDays(now, -1))

	if !habit.IsCompleted {
		habit.IsCompleted = true
		habit.TotalCompletions++
		if habit.LastCompleted == yesterday || habit.Streak == 0 {
			habit.Streak++
		} else {
			habit.Streak = 1
		}
		habit.LastCompleted = today
	} else {
		habit.IsCompleted = false
		habit.TotalCompletions = max(0, habit.TotalCompletions-1)
		habit.Streak = max(0, habit.Streak-1)
	}
	return *habit, s.persist(ctx)
}

// MoveUp swaps the habit with its predecessor among active habits; the
// first habit stays put.
func (s *HabitStore) MoveUp(ctx context.Context, id string) error {
	return s.moveBy(ctx, id, -1)
}

// MoveDown swaps the habit with its successor among active habits; the
// last habit stays put.
func (s *HabitStore) MoveDown(ctx context.Context, id string) error {
	return s.moveBy(ctx, id, 1)
}

func (s *HabitStore) moveBy(ctx context.Context, id string, delta int) error {
	active := s.activeIndexes()
	pos := -1
	for i, idx := range active {
		if s.habits[idx].ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return fmt.Errorf("%w: habit %s", ErrNotFound, id)
	}
	swap := pos + delta
	if swap < 0 || swap >= len(active) {
		return nil // boundary: nothing to do
	}
	s.habits[active[pos]].Order, s.habits[active[swap]].Order = s.habits[active[swap]].Order, s.habits[active[pos]].Order
	s.renumber()
	return s.persist(ctx)
}

// Reorder removes the active habit at fromIndex (0-based within the
// order-sorted active subset) and reinserts it at toIndex, then renumbers.
// Out-of-range indexes are a no-op.
func (s *HabitStore) Reorder(ctx context.Context, fromIndex, toIndex int) error {
	active := s.activeIndexes()
	if fromIndex < 0 || fromIndex >= len(active) || toIndex < 0 || toIndex >= len(active) || fromIndex == toIndex {
		return nil
	}
	moved := active[fromIndex]
	rest := append(append([]int{}, active[:fromIndex]...), active[fromIndex+1:]...)
	reordered := append(append(append([]int{}, rest[:toIndex]...), moved), rest[toIndex:]...)
	for pos, idx := range reordered {
		s.habits[idx].Order = pos + 1
	}
	return s.persist(ctx)
}

// ResetDaily closes the day's books: every completion flag is cleared and
// streaks are recomputed. A streak survives when yesterday's record shows a
// completion, whether or not today's flag was still set; otherwise it
// resets to zero.
func (s *HabitStore) ResetDaily(ctx context.Context) error {
	yesterday := dateutil.Key(dateutil.AddDays(s.now(), -1))
	for i := range s.habits {
		habit := &s.habits[i]
		if habit.LastCompleted != yesterday {
			habit.Streak = 0
		}
		habit.IsCompleted = false
	}
	return s.persist(ctx)
}

// RolloverIfNeeded runs the daily reset when the stored marker disagrees
// with today, then stamps the marker. It is idempotent within a day and is
// called at session start rather than from a timer.
func (s *HabitStore) RolloverIfNeeded(ctx context.Context) (bool, error) {
	today := dateutil.Key(s.now())
	if s.lastResetDate == today {
		return false, nil
	}
	if err := s.ResetDaily(ctx); err != nil {
		return true, err
	}
	s.lastResetDate = today
	if err := s.kv.Set(ctx, storage.KeyLastResetDate, []byte(today)); err != nil {
		return true, err
	}
	return true, nil
}

// LastResetDate exposes the rollover marker for status displays.
func (s *HabitStore) LastResetDate() string {
	return s.lastResetDate
}

type HabitStats struct {
	Total          int
	Completed      int
	Remaining      int
	CompletionRate int
}

// Stats summarizes active habits only.
func (s *HabitStore) Stats() HabitStats {
	stats := HabitStats{}
	for _, h := range s.habits {
		if !h.IsActive {
			continue
		}
		stats.Total++
		if h.IsCompleted {
			stats.Completed++
		}
	}
	stats.Remaining = stats.Total - stats.Completed
	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}

// ByCategory groups active habits by category, each group in display order.
func (s *HabitStore) ByCategory() map[model.HabitCategory][]model.DailyHabit {
	out := make(map[model.HabitCategory][]model.DailyHabit)
	for _, h := range s.ActiveHabits() {
		out[h.Category] = append(out[h.Category], h)
	}
	return out
}

// ActiveHabits returns a copy of the active habits sorted by display order.
func (s *HabitStore) ActiveHabits() []model.DailyHabit {
	out := make([]model.DailyHabit, 0)
	for _, h := range s.habits {
		if h.IsActive {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Habits returns a copy of the whole collection, active or not.
func (s *HabitStore) Habits() []model.DailyHabit {
	out := make([]model.DailyHabit, len(s.habits))
	copy(out, s.habits)
	return out
}

// activeIndexes returns indexes of active habits in display order.
func (s *HabitStore) activeIndexes() []int {
	out := make([]int, 0, len(s.habits))
	for i, h := range s.habits {
		if h.IsActive {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return s.habits[out[a]].Order < s.habits[out[b]].Order })
	return out
}

// renumber restores contiguous 1..N order values across the active subset,
// ties broken by current order then insertion position.
func (s *HabitStore) renumber() {
	for pos, idx := range s.activeIndexes() {
		s.habits[idx].Order = pos + 1
	}
}

func (s *HabitStore) indexOf(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

func (s *HabitStore) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.habits)
	if err != nil {
		return fmt.Errorf("%w: encode habits: %v", storage.ErrPersistence, err)
	}
	return s.kv.Set(ctx, storage.KeyDailyHabits, raw)
}
