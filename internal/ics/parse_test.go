package ics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icstime/internal/model"
)

func TestParseICSFields(t *testing.T) {
	events, err := ParseICS("a.ics", calendar(standupA, standupB))
	require.NoError(t, err)
	require.Len(t, events, 2)

	a := events[0]
	assert.Equal(t, "a.ics", a.Source)
	assert.Equal(t, "standup-a@test", a.UID)
	assert.Equal(t, "Standup", a.Summary)
	assert.Equal(t, "Room 1", a.Location)
	assert.Equal(t, "PUBLIC", a.Class)
	assert.Equal(t, model.DefaultStatus, a.Status)
	assert.True(t, a.Start.Equal(time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)))
	assert.True(t, a.End.Equal(time.Date(2024, time.January, 5, 9, 15, 0, 0, time.UTC)))
	assert.False(t, a.AllDay)
	assert.Equal(t, []model.Attendee{{Name: "Alice", Email: "alice@example.com"}}, a.Attendees)

	assert.Equal(t, "PRIVATE", events[1].Class)
}

func TestParseICSDefaults(t *testing.T) {
	events, err := ParseICS("b.ics", calendar(bare))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0].Event(time.UTC)
	assert.Equal(t, model.DefaultSummary, ev.Summary)
	assert.Equal(t, model.DefaultLocation, ev.Location)
	assert.Equal(t, model.DefaultStatus, ev.Status)
	assert.Equal(t, model.DefaultClass, ev.Class)
	assert.False(t, ev.IsPrivate())
	assert.Empty(t, ev.Attendees)
	assert.Equal(t, 30, ev.DurationMinutes)
	assert.Equal(t, "February 2024", ev.Month())
}

func TestParseICSIgnoresOtherComponents(t *testing.T) {
	events, err := ParseICS("c.ics", calendar(todo, standupA))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "standup-a@test", events[0].UID)
}

func TestParseICSAttendeeWithoutCN(t *testing.T) {
	const ev = `
BEGIN:VEVENT
UID:nocn@test
DTSTAMP:20240101T000000Z
DTSTART:20240105T090000Z
DTEND:20240105T100000Z
ATTENDEE:mailto:dana@example.com
ATTENDEE;CN=Eve;ROLE=REQ-PARTICIPANT:mailto:eve@example.com
END:VEVENT
`
	events, err := ParseICS("d.ics", calendar(ev))
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, []model.Attendee{
		{Name: "dana@example.com", Email: "dana@example.com"},
		{Name: "Eve", Email: "eve@example.com"},
	}, events[0].Attendees)
}

func TestParseICSRecurrenceFields(t *testing.T) {
	events, err := ParseICS("w.ics", calendar(weekly, weeklyOverride))
	require.NoError(t, err)
	require.Len(t, events, 2)

	base := events[0]
	assert.Equal(t, "FREQ=WEEKLY;COUNT=4", base.RawRRule)
	require.Len(t, base.ExDates, 1)
	assert.True(t, base.ExDates[0].Equal(time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)))
	assert.False(t, base.IsOverride)

	ov := events[1]
	assert.True(t, ov.IsOverride)
	require.NotNil(t, ov.Recurrence)
	assert.True(t, ov.Recurrence.Equal(time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC)))
}

func TestParseICSRejectsGarbage(t *testing.T) {
	_, err := ParseICS("bad.ics", []byte("this is not a calendar"))
	assert.ErrorIs(t, err, ErrParse)

	_, err = ParseICS("empty.ics", []byte("  \n"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestExtractConvertsToLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)

	events, err := Extract("a.ics", calendar(standupA), seoul)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, seoul, ev.Start.Location())
	assert.Equal(t, 18, ev.Start.Hour())
	assert.Equal(t, 15, ev.DurationMinutes)
}

func TestEventAllDay(t *testing.T) {
	p := ParsedEvent{
		Summary: "Holiday",
		Class:   model.DefaultClass,
		AllDay:  true,
		Start:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:     time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC),
	}
	seoul := time.FixedZone("KST", 9*60*60)

	ev := p.Event(seoul)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, seoul), ev.Start)
	assert.Equal(t, 1440, ev.DurationMinutes)
	assert.True(t, ev.AllDay)
}

func TestParseICSTime(t *testing.T) {
	utc, err := parseICSTime("20250101T090000Z", time.Local)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC), utc)

	seoul := time.FixedZone("KST", 9*60*60)
	local, err := parseICSTime("20250101T090000", seoul)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 1, 9, 0, 0, 0, seoul), local)

	date, err := parseICSTime("20250101", seoul)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, seoul), date)

	_, err = parseICSTime(" ", seoul)
	assert.Error(t, err)
}

func TestParseICSWindowsTZID(t *testing.T) {
	const ev = `
BEGIN:VEVENT
UID:outlook@test
DTSTAMP:20240101T000000Z
DTSTART;TZID=W. Europe Standard Time:20240105T090000
DTEND;TZID=W. Europe Standard Time:20240105T100000
SUMMARY:Planning
END:VEVENT
`
	events, err := ParseICS("o.ics", calendar(ev))
	require.NoError(t, err)
	require.Len(t, events, 1)

	got := events[0].Event(time.UTC)
	assert.Equal(t, time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, 60, got.DurationMinutes)
}

func TestTZIDLocation(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		name   string
		params map[string][]string
		want   string
	}{
		{name: "none", params: nil, want: "UTC"},
		{name: "iana", params: map[string][]string{"TZID": {"Europe/Berlin"}}, want: berlin.String()},
		{name: "quoted", params: map[string][]string{"TZID": {`"Europe/Berlin"`}}, want: berlin.String()},
		{name: "windows", params: map[string][]string{"TZID": {"W. Europe Standard Time"}}, want: berlin.String()},
		{name: "unknown", params: map[string][]string{"TZID": {"Somewhere Standard Time"}}, want: "UTC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tzidLocation(tt.params, time.UTC).String())
		})
	}
}

func TestParseICSDurationWithoutDTEnd(t *testing.T) {
	const ev = `
BEGIN:VEVENT
UID:dur@test
DTSTAMP:20240101T000000Z
DTSTART:20240105T090000Z
DURATION:PT45M
SUMMARY:Review
END:VEVENT
`
	events, err := ParseICS("d.ics", calendar(ev))
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.True(t, events[0].End.Equal(time.Date(2024, time.January, 5, 9, 45, 0, 0, time.UTC)))
	assert.Equal(t, 45, events[0].Event(time.UTC).DurationMinutes)
}

func TestAddICSDuration(t *testing.T) {
	start := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "PT45M", want: start.Add(45 * time.Minute)},
		{in: "PT1H30M", want: start.Add(90 * time.Minute)},
		{in: "PT90S", want: start.Add(90 * time.Second)},
		{in: "P1D", want: start.AddDate(0, 0, 1)},
		{in: "P1W", want: start.AddDate(0, 0, 7)},
		{in: "P1DT2H", want: start.AddDate(0, 0, 1).Add(2 * time.Hour)},
		{in: "+PT5M", want: start.Add(5 * time.Minute)},
		{in: "-PT15M", want: start.Add(-15 * time.Minute)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := addICSDuration(start, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "P", "PT", "1H", "PT1", "P1H", "PT1D", "P1X"} {
		_, err := addICSDuration(start, bad)
		assert.Error(t, err, bad)
	}
}
