package app

import (
	"io"

	"icstime/internal/analyse"
	"icstime/internal/config"
	"icstime/internal/ics"
	appLog "icstime/internal/log"
	"icstime/internal/model"
	"icstime/internal/report"
)

// Run executes one report: load every file, extract, filter, aggregate
// and render to w. Any load or parse failure aborts before output.
func Run(opts config.Options, loader *ics.Loader, w io.Writer) error {
	files, err := loader.LoadAll(opts.Files)
	if err != nil {
		return err
	}

	events, err := extractAll(files, opts)
	if err != nil {
		return err
	}

	filtered := analyse.FilterRange(events, opts.Start, opts.End, opts.Location)
	appLog.Info("events filtered",
		"total", len(events),
		"in_range", len(filtered),
		"start", opts.Start.Format(analyse.DateLayout),
		"end", opts.End.Format(analyse.DateLayout),
	)

	in := report.Input{
		Mode:    opts.GroupBy,
		Buckets: analyse.Group(filtered, opts.GroupBy),
		People:  opts.People,
	}
	if opts.People != nil {
		in.Tallies = analyse.Track(filtered, *opts.People)
	}

	return report.Render(w, in, report.Style{
		Color:      report.UseColor(opts.Color, w),
		TimeLayout: opts.TimeLayout,
	})
}

func extractAll(files []ics.File, opts config.Options) ([]model.Event, error) {
	all := make([]model.Event, 0)

	for _, f := range files {
		if !opts.Expand {
			events, err := ics.Extract(f.Path, f.Body, opts.Location)
			if err != nil {
				return nil, err
			}
			all = append(all, events...)
			continue
		}

		parsed, err := ics.ParseICS(f.Path, f.Body)
		if err != nil {
			return nil, err
		}
		lo, hi := analyse.DayBounds(opts.Start, opts.End, opts.Location)
		res := ics.ExpandOccurrences(parsed, ics.ExpandConfig{
			DisplayLocation:        opts.Location,
			RangeStart:             lo,
			RangeEnd:               hi,
			MaxOccurrencesPerEvent: opts.MaxOccurrences,
		})
		all = append(all, res.Events...)
	}

	return all, nil
}
