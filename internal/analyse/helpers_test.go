package analyse

import (
	"time"

	"icstime/internal/model"
)

func at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func event(summary string, start time.Time, minutes int, attendees ...string) model.Event {
	ev := model.Event{
		Summary:         summary,
		Location:        model.DefaultLocation,
		Status:          model.DefaultStatus,
		Class:           model.DefaultClass,
		Start:           start,
		End:             start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Attendees:       []model.Attendee{},
	}
	for _, a := range attendees {
		ev.Attendees = append(ev.Attendees, model.Attendee{Name: a})
	}
	return ev
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sumMinutes(events []model.Event) int {
	total := 0
	for _, ev := range events {
		total += ev.DurationMinutes
	}
	return total
}
