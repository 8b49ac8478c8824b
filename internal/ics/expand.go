package ics

import (
	"errors"
	"math"
	"time"

	"github.com/teambition/rrule-go"

	appLog "icstime/internal/log"
	"icstime/internal/model"
)

const (
	defaultMaxOccurrencesPerEvent = 5000
)

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// DisplayLocation is the timezone to which all occurrences will be converted.
	// If nil, time.Local is used.
	DisplayLocation *time.Location

	// RangeStart / RangeEnd define the inclusive window recurring events are
	// expanded over. Non-recurring events pass through untouched; the range
	// filter decides about them.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps a single RRULE. If zero,
	// defaultMaxOccurrencesPerEvent is used.
	MaxOccurrencesPerEvent int
}

// ExpandResult wraps the list of expanded occurrences and the UIDs whose
// expansion hit the cap.
type ExpandResult struct {
	Events          []model.Event
	TruncatedEvents []string
}

// ExpandOccurrences turns parsed VEVENTs into concrete events, keeping the
// order in which base events appear. It handles:
//
//   - Single non-recurring events (one event each)
//   - RRULE-based recurrence, with EXDATE removal
//   - RECURRENCE-ID overrides replacing the matching instance
//
// An override whose base event is absent is emitted as a plain event.
func ExpandOccurrences(events []ParsedEvent, cfg ExpandConfig) ExpandResult {
	var result ExpandResult

	if cfg.DisplayLocation == nil {
		cfg.DisplayLocation = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	overridesByUID := make(map[string][]ParsedEvent)
	baseUIDs := make(map[string]bool)
	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
		} else {
			baseUIDs[ev.UID] = true
		}
	}

	out := make([]model.Event, 0, len(events))

	for _, ev := range events {
		if ev.IsOverride && ev.Recurrence != nil {
			if !baseUIDs[ev.UID] {
				out = append(out, ev.Event(cfg.DisplayLocation))
			}
			continue
		}

		occ, hitCap := expandEvent(ev, overridesByUID[ev.UID], cfg)
		out = append(out, occ...)

		if hitCap {
			result.TruncatedEvents = append(result.TruncatedEvents, ev.UID)
			appLog.Error("expand: truncated occurrences for UID due to cap",
				errors.New("max occurrences reached"),
				"uid", ev.UID,
				"cap", cfg.MaxOccurrencesPerEvent,
			)
		}
	}

	result.Events = out
	return result
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Event, bool) {
	if ev.RawRRule == "" {
		if o, ok := findOverrideForStart(overrides, ev.Start, ev.AllDay); ok {
			return []model.Event{o.Event(cfg.DisplayLocation)}, false
		}
		return []model.Event{ev.Event(cfg.DisplayLocation)}, false
	}
	return expandRecurringEvent(ev, overrides, cfg)
}

func expandRecurringEvent(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.Event, bool) {
	out := make([]model.Event, 0)
	hitCap := false

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		// Keep the event as a single instance rather than losing it.
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return []model.Event{ev.Event(cfg.DisplayLocation)}, false
	}

	// All-day dates are floating: anchor them at midnight in the display
	// zone so the range bounds compare against the same calendar day.
	dtStart := ev.Start
	exDates := ev.ExDates
	if ev.AllDay {
		dtStart = floatingDate(ev.Start, cfg.DisplayLocation)
		exDates = make([]time.Time, 0, len(ev.ExDates))
		for _, ex := range ev.ExDates {
			exDates = append(exDates, floatingDate(ex, cfg.DisplayLocation))
		}
	}

	r.DTStart(dtStart)

	var set rrule.Set
	set.RRule(r)

	for _, ex := range exDates {
		set.ExDate(ex.In(dtStart.Location()))
	}

	rangeStart := cfg.RangeStart.In(dtStart.Location())
	rangeEnd := cfg.RangeEnd.In(dtStart.Location())

	occTimes := set.Between(rangeStart, rangeEnd, true)

	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	dur := ev.End.Sub(ev.Start)
	days := int(math.Round(dur.Hours() / 24))
	for _, occStart := range occTimes {
		occEnd := occStart.Add(dur)
		if ev.AllDay {
			occEnd = occStart.AddDate(0, 0, days)
		}

		if o, ok := findOverrideForStart(overrides, occStart, ev.AllDay); ok {
			out = append(out, o.Event(cfg.DisplayLocation))
			continue
		}

		out = append(out, ev.occurrence(occStart, occEnd, cfg.DisplayLocation))
	}

	return out, hitCap
}

// findOverrideForStart finds an override whose RECURRENCE-ID matches the
// given instance start. All-day instances match on the calendar date.
func findOverrideForStart(overrides []ParsedEvent, instanceStart time.Time, allDay bool) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence == nil {
			continue
		}
		if allDay && sameDate(*ov.Recurrence, instanceStart) {
			return ov, true
		}
		if ov.Recurrence.Equal(instanceStart) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

// floatingDate keeps t's calendar date and moves it to midnight in loc.
func floatingDate(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
