package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"icstime/internal/app"
	"icstime/internal/config"
	"icstime/internal/ics"
	appLog "icstime/internal/log"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// listFlag collects a repeatable, comma-separated flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// personFlag remembers whether --person was given at all, since an empty
// value is meaningful.
type personFlag struct {
	value string
	set   bool
}

func (p *personFlag) String() string { return p.value }

func (p *personFlag) Set(v string) error {
	p.value = v
	p.set = true
	return nil
}

// cliConfig holds CLI flag values that are not part of config.Flags.
type cliConfig struct {
	configPath string
	dotenv     string
	verbose    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, flags, cli, persons := newFlagSet(stderr)
	positional, err := parseInterspersed(fs, bareValueFlags(args))
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	// Positional arguments are treated as additional files, so
	// "-f a.ics b.ics -s ..." reads both files.
	flags.Files = append(flags.Files, positional...)
	flags.Person, flags.PersonSet = persons.value, persons.set

	conf, err := config.Load(cli.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "icstime: %v\n", err)
		return exitError
	}
	if err := conf.ApplyEnv(cli.dotenv); err != nil {
		fmt.Fprintf(stderr, "icstime: %v\n", err)
		return exitError
	}

	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))
	if cli.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	opts, err := config.Resolve(*flags, conf)
	if err != nil {
		fmt.Fprintf(stderr, "icstime: %v\n\n", err)
		fs.Usage()
		return exitUsage
	}

	appLog.Debug("effective options",
		"files", len(opts.Files),
		"group_by", opts.GroupBy,
		"timezone", opts.Location.String(),
		"expand", opts.Expand,
		"color", opts.Color,
		"person", opts.People != nil,
	)

	if err := app.Run(opts, ics.NewLoader(stdin), stdout); err != nil {
		appLog.Error("report failed", err)
		fmt.Fprintf(stderr, "icstime: %v\n", err)
		return exitError
	}
	return exitOK
}

// bareValueFlags rewrites a valueless -p/--person (last argument, or
// followed by another flag) into "-p=", so a bare -p selects everyone
// instead of swallowing the next argument.
func bareValueFlags(args []string) []string {
	out := make([]string, 0, len(args))
	for i, a := range args {
		if a == "--" {
			return append(out, args[i:]...)
		}
		switch a {
		case "-p", "--p", "-person", "--person":
			if i+1 == len(args) || (strings.HasPrefix(args[i+1], "-") && args[i+1] != "-") {
				a += "="
			}
		}
		out = append(out, a)
	}
	return out
}

// parseInterspersed parses args allowing positional arguments between
// flags, and returns the positional ones in order.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func newFlagSet(stderr io.Writer) (*flag.FlagSet, *config.Flags, *cliConfig, *personFlag) {
	var (
		flags   config.Flags
		cli     cliConfig
		persons personFlag
	)

	fs := flag.NewFlagSet("icstime", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Var((*listFlag)(&flags.Files), "files", "ICS file(s) to read; repeatable or comma-separated, \"-\" for stdin (required)")
	fs.Var((*listFlag)(&flags.Files), "f", "shorthand for --files")
	fs.StringVar(&flags.StartDate, "startDate", "", "Start date, YYYY-MM-DD, inclusive (required)")
	fs.StringVar(&flags.StartDate, "s", "", "shorthand for --startDate")
	fs.StringVar(&flags.EndDate, "endDate", "", "End date, YYYY-MM-DD, inclusive (required)")
	fs.StringVar(&flags.EndDate, "e", "", "shorthand for --endDate")
	fs.StringVar(&flags.GroupBy, "groupBy", "", `Group events by "month" or "title" (required)`)
	fs.StringVar(&flags.GroupBy, "g", "", "shorthand for --groupBy")
	fs.Var(&persons, "person", "Track time spent with one or more persons (comma-separated names or emails); empty includes everyone")
	fs.Var(&persons, "p", "shorthand for --person")

	fs.BoolVar(&flags.Expand, "expand", false, "Expand recurring events into their occurrences")
	fs.StringVar(&flags.Color, "color", "", "Colorize event lines: auto, always or never")
	fs.StringVar(&flags.Timezone, "tz", "", "IANA timezone for day boundaries and output (default: local)")
	fs.StringVar(&cli.configPath, "config", "", "Path to YAML config file")
	fs.StringVar(&cli.dotenv, "env-file", ".env", "Path to dotenv file with ICSTIME_* overrides")
	fs.BoolVar(&cli.verbose, "verbose", false, "Debug logging to stderr")
	fs.BoolVar(&cli.verbose, "v", false, "shorthand for --verbose")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: icstime -f FILE [-f FILE...] -s YYYY-MM-DD -e YYYY-MM-DD -g month|title [-p NAMES]")
		fs.PrintDefaults()
	}

	return fs, &flags, &cli, &persons
}
