package analyse

import (
	"sort"
	"strings"

	"icstime/internal/model"
)

// PersonFilter selects which attendees are tallied.
type PersonFilter struct {
	Everyone bool
	People   []string
}

// ParsePersonFilter splits a comma-separated --person value. A value that
// is empty after trimming selects everyone.
func ParsePersonFilter(raw string) PersonFilter {
	parts := strings.Split(raw, ",")
	people := make([]string, 0, len(parts))
	for _, p := range parts {
		people = append(people, strings.TrimSpace(p))
	}
	if len(people) == 1 && people[0] == "" {
		return PersonFilter{Everyone: true}
	}
	return PersonFilter{People: people}
}

// Matches reports whether a is selected. Names and addresses are compared
// exactly.
func (f PersonFilter) Matches(a model.Attendee) bool {
	if f.Everyone {
		return true
	}
	for _, p := range f.People {
		if p == "" {
			continue
		}
		if p == a.Name || (a.Email != "" && p == a.Email) {
			return true
		}
	}
	return false
}

// Tally is the time spent with one attendee.
type Tally struct {
	Name    string
	Minutes int
}

// Track sums, per matching attendee name, the full duration of every event
// they attend. Durations are not split between co-attendees. The result is
// ordered by minutes descending, then name ascending.
func Track(events []model.Event, filter PersonFilter) []Tally {
	totals := make(map[string]int)

	for _, ev := range events {
		seen := make(map[string]bool, len(ev.Attendees))
		for _, a := range ev.Attendees {
			if !filter.Matches(a) || seen[a.Name] {
				continue
			}
			seen[a.Name] = true
			totals[a.Name] += ev.DurationMinutes
		}
	}

	out := make([]Tally, 0, len(totals))
	for name, minutes := range totals {
		out = append(out, Tally{Name: name, Minutes: minutes})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Minutes != out[j].Minutes {
			return out[i].Minutes > out[j].Minutes
		}
		return out[i].Name < out[j].Name
	})
	return out
}
