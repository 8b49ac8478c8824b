package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zones resolve without system tzdata

	"icstime/internal/analyse"
	"icstime/internal/report"
)

// ErrUsage marks a missing or invalid command-line option.
var ErrUsage = errors.New("usage error")

// Flags holds raw command-line values before validation.
type Flags struct {
	Files     []string
	StartDate string
	EndDate   string
	GroupBy   string

	Person    string
	PersonSet bool

	Expand   bool
	Color    string
	Timezone string
}

// Options is the validated configuration of one run. It is built once in
// main and passed to every stage.
type Options struct {
	Files   []string
	Start   time.Time
	End     time.Time
	GroupBy analyse.GroupMode

	// People is nil when no attendee report was requested.
	People *analyse.PersonFilter

	Location       *time.Location
	Expand         bool
	MaxOccurrences int
	Color          report.ColorMode
	TimeLayout     string
}

// Resolve validates flags and merges them over cfg. Any returned error
// wraps ErrUsage.
func Resolve(f Flags, cfg *Config) (Options, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var missing []string
	if len(f.Files) == 0 {
		missing = append(missing, "--files")
	}
	if f.StartDate == "" {
		missing = append(missing, "--startDate")
	}
	if f.EndDate == "" {
		missing = append(missing, "--endDate")
	}
	if f.GroupBy == "" {
		missing = append(missing, "--groupBy")
	}
	if len(missing) > 0 {
		return Options{}, fmt.Errorf("%w: missing required option(s): %s", ErrUsage, strings.Join(missing, ", "))
	}

	tz := cfg.Timezone
	if f.Timezone != "" {
		tz = f.Timezone
	}
	loc := time.Local
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return Options{}, fmt.Errorf("%w: timezone %q: %v", ErrUsage, tz, err)
		}
		loc = l
	}

	start, err := time.ParseInLocation(analyse.DateLayout, f.StartDate, loc)
	if err != nil {
		return Options{}, fmt.Errorf("%w: --startDate %q: want YYYY-MM-DD", ErrUsage, f.StartDate)
	}
	end, err := time.ParseInLocation(analyse.DateLayout, f.EndDate, loc)
	if err != nil {
		return Options{}, fmt.Errorf("%w: --endDate %q: want YYYY-MM-DD", ErrUsage, f.EndDate)
	}

	mode, err := analyse.ParseGroupMode(f.GroupBy)
	if err != nil {
		return Options{}, fmt.Errorf("%w: --groupBy: %v", ErrUsage, err)
	}

	color := report.ColorMode(cfg.Color)
	if f.Color != "" {
		color = report.ColorMode(f.Color)
	}
	switch color {
	case report.ColorAuto, report.ColorAlways, report.ColorNever:
	default:
		return Options{}, fmt.Errorf("%w: --color %q: want auto, always or never", ErrUsage, f.Color)
	}

	opts := Options{
		Files:          append([]string(nil), f.Files...),
		Start:          start,
		End:            end,
		GroupBy:        mode,
		Location:       loc,
		Expand:         cfg.ExpandRecurrences || f.Expand,
		MaxOccurrences: cfg.MaxOccurrences,
		Color:          color,
		TimeLayout:     cfg.TimeFormat,
	}
	if f.PersonSet {
		pf := analyse.ParsePersonFilter(f.Person)
		opts.People = &pf
	}
	return opts, nil
}
