package ics

import "strings"

// calendar wraps VEVENT blocks in a VCALENDAR and converts to CRLF lines.
func calendar(events ...string) []byte {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\nVERSION:2.0\nPRODID:-//icstime//test//EN\n")
	for _, ev := range events {
		b.WriteString(strings.TrimLeft(ev, "\n"))
	}
	b.WriteString("END:VCALENDAR\n")
	return []byte(strings.ReplaceAll(b.String(), "\n", "\r\n"))
}

const standupA = `
BEGIN:VEVENT
UID:standup-a@test
DTSTAMP:20240101T000000Z
DTSTART:20240105T090000Z
DTEND:20240105T091500Z
SUMMARY:Standup
LOCATION:Room 1
CLASS:PUBLIC
ATTENDEE;CN=Alice:mailto:alice@example.com
END:VEVENT
`

const standupB = `
BEGIN:VEVENT
UID:standup-b@test
DTSTAMP:20240101T000000Z
DTSTART:20240110T100000Z
DTEND:20240110T110000Z
SUMMARY:Standup
CLASS:PRIVATE
ATTENDEE;CN=Bob:mailto:bob@example.com
END:VEVENT
`

const bare = `
BEGIN:VEVENT
UID:bare@test
DTSTAMP:20240101T000000Z
DTSTART:20240201T080000Z
DTEND:20240201T083000Z
END:VEVENT
`

const todo = `
BEGIN:VTODO
UID:todo@test
DTSTAMP:20240101T000000Z
SUMMARY:Not an event
END:VTODO
`

const weekly = `
BEGIN:VEVENT
UID:weekly@test
DTSTAMP:20240101T000000Z
DTSTART:20240101T100000Z
DTEND:20240101T103000Z
SUMMARY:Weekly
RRULE:FREQ=WEEKLY;COUNT=4
EXDATE:20240115T100000Z
END:VEVENT
`

const weeklyOverride = `
BEGIN:VEVENT
UID:weekly@test
DTSTAMP:20240101T000000Z
RECURRENCE-ID:20240108T100000Z
DTSTART:20240108T140000Z
DTEND:20240108T150000Z
SUMMARY:Weekly (moved)
END:VEVENT
`
