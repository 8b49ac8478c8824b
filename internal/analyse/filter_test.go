package analyse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icstime/internal/model"
)

func summaries(events []model.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Summary)
	}
	return out
}

func TestFilterRangeInclusive(t *testing.T) {
	events := []model.Event{
		event("before", at(2023, time.December, 31, 23, 59), 30),
		event("first-midnight", at(2024, time.January, 1, 0, 0), 30),
		event("middle", at(2024, time.January, 15, 12, 0), 30),
		event("last-late", at(2024, time.January, 31, 23, 59), 30),
		event("after", at(2024, time.February, 1, 0, 0), 30),
	}

	got := FilterRange(events, day(2024, time.January, 1), day(2024, time.January, 31), time.UTC)

	assert.Equal(t, []string{"first-midnight", "middle", "last-late"}, summaries(got))
}

func TestFilterRangeEveryEventWithinBounds(t *testing.T) {
	from, to := day(2024, time.March, 3), day(2024, time.March, 9)
	lo, hi := DayBounds(from, to, time.UTC)

	var events []model.Event
	for h := 0; h < 24*14; h += 5 {
		events = append(events, event("e", at(2024, time.March, 1, 0, 0).Add(time.Duration(h)*time.Hour), 60))
	}

	got := FilterRange(events, from, to, time.UTC)
	require.NotEmpty(t, got)
	for _, ev := range got {
		assert.False(t, ev.Start.Before(lo), "event %s before range", ev.Start)
		assert.False(t, ev.Start.After(hi), "event %s after range", ev.Start)
	}
	for _, ev := range events {
		inRange := !ev.Start.Before(lo) && !ev.Start.After(hi)
		if inRange {
			assert.Contains(t, got, ev)
		}
	}
}

func TestFilterRangeReversedIsEmpty(t *testing.T) {
	events := []model.Event{
		event("a", at(2024, time.January, 10, 9, 0), 30),
		event("b", at(2024, time.January, 20, 9, 0), 30),
	}

	got := FilterRange(events, day(2024, time.January, 31), day(2024, time.January, 1), time.UTC)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterRangeUsesLocationDayBoundaries(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	// 2024-01-31 20:00 UTC is already 2024-02-01 in Seoul.
	ev := event("late", at(2024, time.January, 31, 20, 0).In(seoul), 30)

	assert.Len(t, FilterRange([]model.Event{ev}, day(2024, time.January, 1), day(2024, time.January, 31), time.UTC), 1)
	assert.Empty(t, FilterRange([]model.Event{ev}, day(2024, time.January, 1), day(2024, time.January, 31), seoul))
}

func TestDayBounds(t *testing.T) {
	lo, hi := DayBounds(at(2024, time.May, 2, 13, 45), at(2024, time.May, 2, 8, 0), time.UTC)

	assert.Equal(t, day(2024, time.May, 2), lo)
	assert.Equal(t, day(2024, time.May, 3).Add(-time.Nanosecond), hi)
}
