package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/schedulr/schedulr/internal/dateutil"
	"github.com/schedulr/schedulr/internal/model"
	"github.com/schedulr/schedulr/internal/storage"
)

// TaskStore owns the ordered collection of task templates. Recurring tasks
// are stored once and expanded lazily per queried date; instances never
// enter the collection.
type TaskStore struct {
	kv    storage.KV
	now   func() time.Time
	tasks []model.Task
}

func NewTaskStore(ctx context.Context, kv storage.KV) (*TaskStore, error) {
	return NewTaskStoreWithClock(ctx, kv, time.Now)
}

// NewTaskStoreWithClock injects the clock used for "today" comparisons and
// timestamps; tests pin it to fixed dates.
func NewTaskStoreWithClock(ctx context.Context, kv storage.KV, now func() time.Time) (*TaskStore, error) {
	s := &TaskStore{kv: kv, now: now, tasks: make([]model.Task, 0)}
	raw, err := kv.Get(ctx, storage.KeyTasks)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s, nil
		}
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if err := json.Unmarshal(raw, &s.tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return s, nil
}

// AddTask validates the input, assigns identity and timestamps, appends the
// template, and persists. The created task is returned even when the
// persist step fails; in that case the error wraps storage.ErrPersistence
// and the in-memory collection already holds the task.
func (s *TaskStore) AddTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	now := s.now()
	if err := in.ValidateAt(now); err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Deadline:    in.Deadline,
		Priority:    in.Priority,
		Status:      in.Status,
		IsRecurring: in.IsRecurring,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	}
	if in.IsRecurring && in.Recurrence != nil {
		rec := *in.Recurrence
		task.Recurrence = &rec
	}

	s.tasks = append(s.tasks, task)
	return cloneTask(task), s.persist(ctx)
}

// UpdateTask merges the patch over the stored template. Top-level fields
// replace; recurrence merges field by field.
func (s *TaskStore) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}
	// Patch a copy so a rejected merge leaves the stored template intact.
	merged := cloneTask(s.tasks[idx])
	task := &merged

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Deadline != nil {
		task.Deadline = *patch.Deadline
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.IsRecurring != nil {
		task.IsRecurring = *patch.IsRecurring
		if !task.IsRecurring {
			task.Recurrence = nil
		}
	}
	if patch.Recurrence != nil {
		if task.Recurrence == nil {
			task.Recurrence = &model.Recurrence{Type: model.RecurDaily, Interval: 1}
		}
		if patch.Recurrence.Type != nil {
			task.Recurrence.Type = *patch.Recurrence.Type
		}
		if patch.Recurrence.Interval != nil {
			task.Recurrence.Interval = *patch.Recurrence.Interval
		}
		switch {
		case patch.Recurrence.EndDate != nil:
			end := *patch.Recurrence.EndDate
			task.Recurrence.EndDate = &end
		case patch.Recurrence.ClearEndDate:
			task.Recurrence.EndDate = nil
		}
	}
	task.UpdatedAt = s.now()

	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	s.tasks[idx] = merged
	return cloneTask(merged), s.persist(ctx)
}

// DeleteTask removes the template. A missing id is reported as ErrNotFound
// rather than silently ignored.
func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: task %s", ErrNotFound, id)
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	return s.persist(ctx)
}

// ToggleTaskStatus flips between completed and the task's last
// non-completed status. Completing remembers pending/in-progress;
// un-completing restores it.
func (s *TaskStore) ToggleTaskStatus(ctx context.Context, id string) (model.Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}
	task := &s.tasks[idx]
	if task.Status == model.StatusCompleted {
		restored := task.PriorStatus
		if restored == "" {
			restored = model.StatusPending
		}
		task.Status = restored
		task.PriorStatus = ""
	} else {
		task.PriorStatus = task.Status
		task.Status = model.StatusCompleted
	}
	task.UpdatedAt = s.now()
	return cloneTask(*task), s.persist(ctx)
}

// TasksForDate returns the tasks landing on the given day: non-recurring
// templates whose deadline matches, plus materialized occurrences of
// recurring templates. Results are copies ordered as stored.
func (s *TaskStore) TasksForDate(day time.Time) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if !occursOn(t, day) {
			continue
		}
		if t.IsRecurring {
			out = append(out, instanceFor(t, day))
		} else {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

// TasksForWeek returns the union of TasksForDate over the seven days
// starting at weekStart, in day order.
func (s *TaskStore) TasksForWeek(weekStart time.Time) []model.Task {
	out := make([]model.Task, 0)
	for i := 0; i < 7; i++ {
		out = append(out, s.TasksForDate(dateutil.AddDays(weekStart, i))...)
	}
	return out
}

// UpcomingTasks returns non-completed templates with a deadline strictly
// after today, ascending by deadline, truncated to limit (no limit if
// limit <= 0).
func (s *TaskStore) UpcomingTasks(limit int) []model.Task {
	now := s.now()
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.Status == model.StatusCompleted {
			continue
		}
		if dateutil.DaysBetween(now, t.Deadline) > 0 {
			out = append(out, cloneTask(t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// OverdueTasks returns non-completed templates whose deadline fell before
// today.
func (s *TaskStore) OverdueTasks() []model.Task {
	now := s.now()
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.Status == model.StatusCompleted {
			continue
		}
		if dateutil.DaysBetween(now, t.Deadline) < 0 {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

type TaskStats struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
	Overdue    int
}

// TaskStats counts the template collection by status; Overdue uses the same
// rule as OverdueTasks.
func (s *TaskStore) TaskStats() TaskStats {
	now := s.now()
	stats := TaskStats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		switch t.Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusInProgress:
			stats.InProgress++
		case model.StatusCompleted:
			stats.Completed++
		}
		if t.Status != model.StatusCompleted && dateutil.DaysBetween(now, t.Deadline) < 0 {
			stats.Overdue++
		}
	}
	return stats
}

// TaskFilter narrows and orders the template collection for list views.
type TaskFilter struct {
	Search   string
	Priority model.Priority
	Status   model.TaskStatus
	SortBy   string // deadline | priority | name
}

var priorityRank = map[model.Priority]int{
	model.PriorityHigh:   0,
	model.PriorityMedium: 1,
	model.PriorityLow:    2,
}

// FilterTasks returns a filtered, sorted copy of the templates.
func (s *TaskStore) FilterTasks(f TaskFilter) []model.Task {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	switch f.SortBy {
	case "priority":
		sort.SliceStable(out, func(i, j int) bool { return priorityRank[out[i].Priority] < priorityRank[out[j].Priority] })
	case "name":
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Deadline.Before(out[j].Deadline) })
	}
	return out
}

// Tasks returns a copy of the full template collection in stored order.
func (s *TaskStore) Tasks() []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, cloneTask(t))
	}
	return out
}

// ExportJSON serializes the template collection for download. Import is
// intentionally not offered; the export is a read-only backup surface.
func (s *TaskStore) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(s.tasks, "", "  ")
}

func (s *TaskStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("%w: encode tasks: %v", storage.ErrPersistence, err)
	}
	return s.kv.Set(ctx, storage.KeyTasks, raw)
}
