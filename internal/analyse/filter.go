// Package analyse holds the pure reporting folds: range filtering, grouping
// and attendee time tallies. Nothing here reads global state; every input
// arrives as an argument and every result is a fresh value.
package analyse

import (
	"time"

	"icstime/internal/model"
)

// DateLayout is the command-line date format.
const DateLayout = "2006-01-02"

// DayBounds returns the first and last instant of the calendar days from
// and to in loc. The returned end is inclusive.
func DayBounds(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// FilterRange keeps the events whose start lies on or between the calendar
// days from and to. A reversed range yields an empty result.
func FilterRange(events []model.Event, from, to time.Time, loc *time.Location) []model.Event {
	lo, hi := DayBounds(from, to, loc)

	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev.Start.Before(lo) || ev.Start.After(hi) {
			continue
		}
		out = append(out, ev)
	}
	return out
}
