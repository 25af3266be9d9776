package reminder

import (
	"time"

	"github.com/schedulr/schedulr/internal/model"
)

// AlertsForToday builds one alert per active, not-yet-completed habit whose
// scheduled clock time is still ahead of now. Habits without a parseable
// HH:MM time are skipped; they simply have no nudge.
func AlertsForToday(habits []model.DailyHabit, now time.Time) []HabitAlert {
	out := make([]HabitAlert, 0, len(habits))
	for _, h := range habits {
		if !h.IsActive || h.IsCompleted {
			continue
		}
		clock, err := time.Parse("15:04", h.Time)
		if err != nil {
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
		if !at.After(now) {
			continue
		}
		out = append(out, HabitAlert{HabitID: h.ID, Name: h.Name, At: at})
	}
	return out
}
