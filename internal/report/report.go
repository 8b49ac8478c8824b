package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"icstime/internal/analyse"
	"icstime/internal/model"
)

// DefaultTimeLayout renders event start/end times.
const DefaultTimeLayout = "Mon Jan 02 2006 15:04 MST"

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
)

// ColorMode controls ANSI colouring of event lines.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Style carries the presentation choices.
type Style struct {
	Color      bool
	TimeLayout string
}

// Input is everything the report shows. People is nil when no attendee
// section was requested.
type Input struct {
	Mode    analyse.GroupMode
	Buckets []analyse.Bucket
	People  *analyse.PersonFilter
	Tallies []analyse.Tally
}

// UseColor resolves mode against the destination writer.
func UseColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// FormatDuration renders minutes as "H hours M minutes", dropping a zero
// unit. Zero renders as "0 minutes".
func FormatDuration(minutes int) string {
	hours := minutes / 60
	mins := minutes % 60

	switch {
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%d hours %d minutes", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%d hours", hours)
	case mins > 0:
		return fmt.Sprintf("%d minutes", mins)
	default:
		return "0 minutes"
	}
}

// Render writes the grouped report, then the attendee section if requested.
func Render(w io.Writer, in Input, style Style) error {
	if style.TimeLayout == "" {
		style.TimeLayout = DefaultTimeLayout
	}

	var b strings.Builder

	title := cases.Title(language.English).String(string(in.Mode))
	fmt.Fprintf(&b, "Events Grouped by %s:\n", title)

	for _, bucket := range in.Buckets {
		fmt.Fprintf(&b, "%s:\n", bucket.Key)
		fmt.Fprintf(&b, "  Total Duration: %s\n", FormatDuration(bucket.TotalMinutes))
		b.WriteString("  Events:\n")
		for _, ev := range bucket.Events {
			b.WriteString(eventLine(ev, style))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	if in.People != nil {
		fmt.Fprintf(&b, "Time spent with %s:\n", describePeople(*in.People))
		for _, t := range in.Tallies {
			fmt.Fprintf(&b, "  %s: %s\n", t.Name, FormatDuration(t.Minutes))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func eventLine(ev model.Event, style Style) string {
	span := fmt.Sprintf("(%s - %s)", ev.Start.Format(style.TimeLayout), ev.End.Format(style.TimeLayout))

	if ev.IsPrivate() {
		return paint(fmt.Sprintf("    - %s (PRIVATE) %s", ev.Summary, span), ansiRed, style.Color)
	}
	return paint(fmt.Sprintf("    - %s %s", ev.Summary, span), ansiGreen, style.Color)
}

func paint(s, color string, enabled bool) string {
	if !enabled {
		return s
	}
	return color + s + ansiReset
}

func describePeople(f analyse.PersonFilter) string {
	if f.Everyone {
		return "everyone"
	}
	quoted := make([]string, 0, len(f.People))
	for _, p := range f.People {
		quoted = append(quoted, "'"+p+"'")
	}
	return strings.Join(quoted, " OR ")
}
