package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TZIDs resolve without system tzdata

	ical "github.com/arran4/golang-ical"

	appLog "icstime/internal/log"
	"icstime/internal/model"
)

// ErrParse marks a calendar body the underlying parser rejected outright.
var ErrParse = errors.New("ics parse failed")

// ParsedEvent is the normalized representation of a VEVENT as produced
// by the ICS parser. Recurrence expansion operates on this type; the
// reporting pipeline consumes model.Event built from it.
type ParsedEvent struct {
	Source string

	UID string

	Summary  string
	Location string
	Status   string
	Class    string

	Start  time.Time
	End    time.Time
	AllDay bool

	Attendees []model.Attendee

	RawRRule   string
	ExDates    []time.Time
	Recurrence *time.Time // RECURRENCE-ID (if present) in event's own timezone
	IsOverride bool       // true if this VEVENT is an override for a recurring instance
}

// ParseICS parses a single ICS payload into a list of ParsedEvent, in the
// order the VEVENTs appear. Other component kinds are ignored.
//
//   - It relies on the underlying library's VTIMEZONE/TZID handling to
//     construct proper time.Time values (with Location set).
//   - Missing optional properties are filled with the model defaults here,
//     once, so later stages never look at blanks.
//   - A VEVENT without a usable DTSTART cannot be placed in time and is
//     skipped; everything else the library accepts is kept.
func ParseICS(src string, body []byte) ([]ParsedEvent, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: %s: empty ICS body", ErrParse, src)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "source", src)
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, src, err)
	}

	events := make([]ParsedEvent, 0)

	for _, comp := range cal.Events() {
		ev, perr := parseVEvent(src, comp)
		if perr != nil {
			appLog.Info("ics vevent skipped", "source", src, "uid", ev.UID, "reason", perr.Error())
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "source", src, "event_count", len(events))
	return events, nil
}

// Extract parses body and returns its VEVENTs as model events in loc,
// without recurrence expansion.
func Extract(src string, body []byte, loc *time.Location) ([]model.Event, error) {
	parsed, err := ParseICS(src, body)
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(parsed))
	for _, p := range parsed {
		out = append(out, p.Event(loc))
	}
	return out, nil
}

func parseVEvent(src string, ve *ical.VEvent) (ParsedEvent, error) {
	out := ParsedEvent{
		Source:   src,
		Summary:  model.DefaultSummary,
		Location: model.DefaultLocation,
		Status:   model.DefaultStatus,
		Class:    model.DefaultClass,
	}

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}
	if v := propValue(ve, ical.ComponentPropertySummary); v != "" {
		out.Summary = v
	}
	if v := propValue(ve, ical.ComponentPropertyLocation); v != "" {
		out.Location = v
	}
	if v := propValue(ve, ical.ComponentPropertyStatus); v != "" {
		out.Status = v
	}
	if v := propValue(ve, ical.ComponentPropertyClass); v != "" {
		out.Class = v
	}

	dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStartProp == nil {
		return out, errors.New("missing DTSTART")
	}
	start, err := ve.GetStartAt()
	if err != nil {
		// The library rejects TZIDs it cannot load, e.g. Windows zone names
		// from Outlook exports; resolve those ourselves.
		start, err = parseICSTime(dtStartProp.Value, tzidLocation(dtStartProp.ICalParameters, time.Local))
		if err != nil {
			return out, fmt.Errorf("DTSTART: %w", err)
		}
	}
	out.Start = start

	// Detect all-day: VALUE=DATE or a value with no time part.
	if vs, ok := dtStartProp.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		out.AllDay = true
	}
	if !strings.Contains(dtStartProp.Value, "T") {
		out.AllDay = true
	}

	out.End = eventEnd(ve, start, out.AllDay)

	for _, a := range ve.Attendees() {
		out.Attendees = append(out.Attendees, toAttendee(a))
	}

	// RRULE is kept raw; expansion lives in expand.go.
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	// EXDATE can appear multiple times, each with a comma-separated list.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part, tzidLocation(p.ICalParameters, start.Location())); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRecurrenceId); p != nil {
		if t, err := parseICSTime(p.Value, tzidLocation(p.ICalParameters, start.Location())); err == nil {
			out.Recurrence = &t
			out.IsOverride = true
		}
	}

	return out, nil
}

// Event converts the parsed VEVENT into a model.Event placed in loc.
func (p ParsedEvent) Event(loc *time.Location) model.Event {
	return p.occurrence(p.Start, p.End, loc)
}

func (p ParsedEvent) occurrence(start, end time.Time, loc *time.Location) model.Event {
	if loc == nil {
		loc = time.Local
	}
	if p.AllDay {
		// All-day dates are floating; keep the calendar date in loc.
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
		end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	} else {
		start = start.In(loc)
		end = end.In(loc)
	}

	attendees := make([]model.Attendee, len(p.Attendees))
	copy(attendees, p.Attendees)

	return model.Event{
		Source:          p.Source,
		UID:             p.UID,
		Summary:         p.Summary,
		Location:        p.Location,
		Status:          p.Status,
		Class:           p.Class,
		AllDay:          p.AllDay,
		Start:           start,
		End:             end,
		DurationMinutes: model.Minutes(start, end),
		Attendees:       attendees,
	}
}

// eventEnd resolves DTEND, then DURATION. Without either, a timed event
// ends when it starts and an all-day event lasts one day.
func eventEnd(ve *ical.VEvent, start time.Time, allDay bool) time.Time {
	if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil {
		if end, err := ve.GetEndAt(); err == nil {
			return end
		}
		if end, err := parseICSTime(p.Value, tzidLocation(p.ICalParameters, start.Location())); err == nil {
			return end
		}
	}
	if p := ve.GetProperty(ical.ComponentPropertyDuration); p != nil {
		if end, err := addICSDuration(start, p.Value); err == nil {
			return end
		}
	}
	if allDay {
		return start.AddDate(0, 0, 1)
	}
	return start
}

// addICSDuration adds an RFC 5545 dur-value such as "PT45M", "P1D" or
// "-P1W2DT3H" to start. Day and week parts are calendar days.
func addICSDuration(start time.Time, v string) (time.Time, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	sign := 1
	switch {
	case strings.HasPrefix(v, "-"):
		sign, v = -1, v[1:]
	case strings.HasPrefix(v, "+"):
		v = v[1:]
	}
	if !strings.HasPrefix(v, "P") || len(v) < 3 {
		return time.Time{}, fmt.Errorf("invalid duration %q", v)
	}

	var (
		days    int
		clock   time.Duration
		n       int
		digits  bool
		inTime  bool
		anyUnit bool
	)
	for _, c := range v[1:] {
		switch {
		case c >= '0' && c <= '9':
			n = n*10 + int(c-'0')
			digits = true
			continue
		case c == 'T' && !digits && !inTime:
			inTime = true
			continue
		}
		if !digits {
			return time.Time{}, fmt.Errorf("invalid duration %q", v)
		}
		switch {
		case c == 'W' && !inTime:
			days += 7 * n
		case c == 'D' && !inTime:
			days += n
		case c == 'H' && inTime:
			clock += time.Duration(n) * time.Hour
		case c == 'M' && inTime:
			clock += time.Duration(n) * time.Minute
		case c == 'S' && inTime:
			clock += time.Duration(n) * time.Second
		default:
			return time.Time{}, fmt.Errorf("invalid duration %q", v)
		}
		n, digits, anyUnit = 0, false, true
	}
	if digits || !anyUnit {
		return time.Time{}, fmt.Errorf("invalid duration %q", v)
	}

	return start.AddDate(0, 0, sign*days).Add(time.Duration(sign) * clock), nil
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

func toAttendee(a *ical.Attendee) model.Attendee {
	out := model.Attendee{Email: a.Email()}
	if cns, ok := a.ICalParameters[string(ical.ParameterCn)]; ok && len(cns) > 0 {
		out.Name = cns[0]
	}
	if out.Name == "" {
		out.Name = out.Email
	}
	return out
}

// windowsZones maps the Windows zone names Outlook and Exchange write into
// TZID to IANA names.
var windowsZones = map[string]string{
	"UTC":                            "UTC",
	"GMT Standard Time":              "Europe/London",
	"Greenwich Standard Time":        "Atlantic/Reykjavik",
	"W. Europe Standard Time":        "Europe/Berlin",
	"Romance Standard Time":          "Europe/Paris",
	"Central Europe Standard Time":   "Europe/Budapest",
	"Central European Standard Time": "Europe/Warsaw",
	"E. Europe Standard Time":        "Europe/Chisinau",
	"FLE Standard Time":              "Europe/Kiev",
	"GTB Standard Time":              "Europe/Bucharest",
	"Russian Standard Time":          "Europe/Moscow",
	"Eastern Standard Time":          "America/New_York",
	"Central Standard Time":          "America/Chicago",
	"Mountain Standard Time":         "America/Denver",
	"US Mountain Standard Time":      "America/Phoenix",
	"Pacific Standard Time":          "America/Los_Angeles",
	"Alaskan Standard Time":          "America/Anchorage",
	"Hawaiian Standard Time":         "Pacific/Honolulu",
	"Atlantic Standard Time":         "America/Halifax",
	"E. South America Standard Time": "America/Sao_Paulo",
	"India Standard Time":            "Asia/Kolkata",
	"China Standard Time":            "Asia/Shanghai",
	"Tokyo Standard Time":            "Asia/Tokyo",
	"Korea Standard Time":            "Asia/Seoul",
	"Singapore Standard Time":        "Asia/Singapore",
	"AUS Eastern Standard Time":      "Australia/Sydney",
	"New Zealand Standard Time":      "Pacific/Auckland",
}

// tzidLocation resolves a TZID parameter as an IANA name or a known Windows
// zone name, else returns fallback.
func tzidLocation(params map[string][]string, fallback *time.Location) *time.Location {
	tzs, ok := params["TZID"]
	if !ok || len(tzs) == 0 {
		return fallback
	}
	tzid := strings.Trim(tzs[0], `"`)
	if loc, err := time.LoadLocation(tzid); err == nil {
		return loc
	}
	if name, ok := windowsZones[tzid]; ok {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	appLog.Debug("ics unknown TZID, using fallback zone", "tzid", tzid, "fallback", fallback.String())
	return fallback
}

// parseICSTime parses a basic ICS date/date-time string into time.Time.
// Floating values are interpreted in loc.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		const layout = "20060102T150405Z"
		return time.Parse(layout, v)
	}

	// Local date-time, e.g., 20250101T090000
	if strings.Contains(v, "T") {
		const layout = "20060102T150405"
		return time.ParseInLocation(layout, v, loc)
	}

	// Date-only (all-day), e.g., 20250101
	const layoutDate = "20060102"
	return time.ParseInLocation(layoutDate, v, loc)
}
