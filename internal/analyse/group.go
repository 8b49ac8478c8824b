package analyse

import (
	"fmt"
	"sort"
	"time"

	"icstime/internal/model"
)

// GroupMode selects the bucket key.
type GroupMode string

const (
	GroupByMonth GroupMode = "month"
	GroupByTitle GroupMode = "title"
)

// ParseGroupMode validates a --groupBy value.
func ParseGroupMode(s string) (GroupMode, error) {
	switch m := GroupMode(s); m {
	case GroupByMonth, GroupByTitle:
		return m, nil
	default:
		return "", fmt.Errorf("invalid group mode %q (want %q or %q)", s, GroupByMonth, GroupByTitle)
	}
}

// Bucket is one aggregation group.
type Bucket struct {
	Key          string
	Events       []model.Event
	TotalMinutes int

	// first is the month start for month buckets; zero otherwise.
	first time.Time
}

// Group folds events into buckets. Title buckets keep first-seen order and
// compare titles verbatim. Month buckets are ordered chronologically.
func Group(events []model.Event, mode GroupMode) []Bucket {
	buckets := make([]Bucket, 0)
	index := make(map[string]int)

	for _, ev := range events {
		key := ev.Summary
		if mode == GroupByMonth {
			key = ev.Month()
		}

		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key})
			if mode == GroupByMonth {
				buckets[i].first = ev.MonthStart()
			}
		}
		buckets[i].Events = append(buckets[i].Events, ev)
		buckets[i].TotalMinutes += ev.DurationMinutes
	}

	if mode == GroupByMonth {
		sort.SliceStable(buckets, func(a, b int) bool {
			return buckets[a].first.Before(buckets[b].first)
		})
	}
	return buckets
}
