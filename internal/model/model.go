package model

import "time"

// Defaults filled in by the extractor when a VEVENT omits the property.
const (
	DefaultSummary  = "No title"
	DefaultLocation = "No location"
	DefaultStatus   = "CONFIRMED"
	DefaultClass    = "PUBLIC"

	ClassPrivate = "PRIVATE"
)

// MonthLayout renders the month bucket label, e.g. "March 2024".
const MonthLayout = "January 2006"

// Attendee is a single ATTENDEE of an event.
type Attendee struct {
	// Name is the CN parameter, or the address when CN is absent.
	Name  string
	Email string
}

// Event is one concrete calendar occurrence after normalization.
// Every field is populated; downstream code never checks for blanks.
type Event struct {
	Source string // file the event was read from
	UID    string

	Summary  string
	Location string
	Status   string
	Class    string

	AllDay bool

	// Start / End are in the display timezone.
	Start time.Time
	End   time.Time

	// DurationMinutes is End-Start truncated to whole minutes.
	DurationMinutes int

	// Attendees is empty when the event lists nobody.
	Attendees []Attendee
}

// Month returns the month label used for grouping.
func (e Event) Month() string {
	return e.Start.Format(MonthLayout)
}

// MonthStart is the first instant of the event's month, used to order
// month buckets chronologically.
func (e Event) MonthStart() time.Time {
	return time.Date(e.Start.Year(), e.Start.Month(), 1, 0, 0, 0, 0, e.Start.Location())
}

func (e Event) IsPrivate() bool {
	return e.Class == ClassPrivate
}

// Minutes returns the whole minutes between start and end, truncated
// toward zero.
func Minutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
