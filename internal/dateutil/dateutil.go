// Package dateutil provides day-granularity date helpers. Every date
// comparison in the stores routes through this package so that "same day"
// means the same thing everywhere: equality of local calendar fields,
// never wall-clock arithmetic on raw timestamps.
package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// KeyLayout is the canonical day-key format used in persisted state.
const KeyLayout = "2006-01-02"

var ErrInvalidKey = errors.New("dateutil: invalid date key")

// Key normalizes a time to its YYYY-MM-DD day key using local calendar
// fields. Time-of-day and sub-day offsets never influence the key.
func Key(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// ParseKey parses a YYYY-MM-DD key back into a midnight local time.
func ParseKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return t, nil
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Key(a) == Key(b)
}

// Midnight truncates a time to 00:00 of its calendar day, keeping the
// location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves n whole calendar days forward (or backward for negative n).
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// StartOfWeek returns the Monday beginning the week containing t. A Sunday
// belongs to the week that started six days earlier.
func StartOfWeek(t time.Time) time.Time {
	day := Midnight(t)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return AddDays(day, -offset)
}

// DaysBetween returns the signed number of whole calendar days from a to b,
// ignoring time-of-day. Both days are re-anchored in UTC so DST transitions
// cannot produce off-by-one results.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
