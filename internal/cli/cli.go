// Package cli implements the perpetual command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/perpetual-calendar/internal/calendar"
	"github.com/zapponejosh/perpetual-calendar/internal/config"
	"github.com/zapponejosh/perpetual-calendar/internal/logger"
)

// ErrInsufficientArguments is returned when fewer positional arguments than
// required are given.
var ErrInsufficientArguments = errors.New("not enough arguments given")

// Messages printed to stdout for the two user errors.
const (
	msgInsufficientArguments = "Not enough arguments given."
	msgIllegalDate           = "Date not legal"
)

// App wires the commands to their output streams.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Now    func() time.Time
}

// Execute runs the command line with args (without the program name) and
// returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.LoadLogging()
	if err != nil {
		fmt.Fprintf(stderr, "perpetual: using default logging: %v\n", err)
		cfg = &config.Config{LogLevel: "warn", LogFormat: "text"}
	}

	app := &App{
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger.New(cfg, stderr),
		Now:    time.Now,
	}
	return app.Execute(args)
}

// Main is the entry point used by cmd/perpetual.
func Main() {
	os.Exit(Execute(os.Args[1:], os.Stdout, os.Stderr))
}

// Execute runs the root command with args and maps errors to exit codes.
func (a *App) Execute(args []string) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}

	root := a.Command()
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return 0
	}

	switch {
	case errors.Is(err, ErrInsufficientArguments):
		fmt.Fprintln(a.Stdout, msgInsufficientArguments)
	case errors.Is(err, calendar.ErrIllegalDate):
		fmt.Fprintln(a.Stdout, msgIllegalDate)
	default:
		fmt.Fprintf(a.Stderr, "Error: %v\n", err)
	}
	a.log().Debug("command failed", slog.Any("error", err))
	return 1
}

func (a *App) log() *slog.Logger {
	if a.Logger == nil {
		return logger.Discard()
	}
	return a.Logger
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Command builds the root command and its subcommands.
func (a *App) Command() *cobra.Command {
	var through bool

	root := &cobra.Command{
		Use:   "perpetual [--through] <day> <month> <year>",
		Short: "List a day and month in the Julian and Gregorian calendars",
		Long: `Simulate the Julian and Gregorian calendars side by side, one day at a
time from 1 January of year 0, and print every day on which either
calendar shows the given date. Each row carries the day number, both
calendar dates and the weekday. With --through, the day and month are
reported in every year up to and including the given year.

Flags must come before the date so a negative year is read as a number.

Example:
  perpetual 15 10 1582
  perpetual --through 1 3 3
`,
		Args:          minimumArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := parseQuery(args)
			if err != nil {
				return err
			}
			q.Through = through
			return a.runSimulation(q)
		},
	}
	root.Flags().BoolVar(&through, "through", false, "report occurrences in every year up to the given year")
	root.Flags().SetInterspersed(false)

	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	root.AddCommand(a.convertCommand())
	root.AddCommand(a.leapCommand())

	return root
}

// minimumArgs is cobra.MinimumNArgs with our sentinel error.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("need %d, got %d: %w", n, len(args), ErrInsufficientArguments)
		}
		return nil
	}
}

// parseInt reads one positional argument. Anything that is not a number
// makes the date illegal.
func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number: %w", name, s, calendar.ErrIllegalDate)
	}
	return n, nil
}

// parseDate reads day, month and year from the first three arguments.
func parseDate(args []string) (calendar.Date, error) {
	day, err := parseInt("day", args[0])
	if err != nil {
		return calendar.Date{}, err
	}
	month, err := parseInt("month", args[1])
	if err != nil {
		return calendar.Date{}, err
	}
	year, err := parseInt("year", args[2])
	if err != nil {
		return calendar.Date{}, err
	}
	return calendar.Date{Day: day, Month: month, Year: year}, nil
}

func parseQuery(args []string) (calendar.Query, error) {
	d, err := parseDate(args)
	if err != nil {
		return calendar.Query{}, err
	}
	return calendar.Query{Day: d.Day, Month: d.Month, Year: d.Year}, nil
}

// runSimulation validates q, then prints the header and one row per match.
func (a *App) runSimulation(q calendar.Query) error {
	if err := calendar.Validate(q); err != nil {
		return err
	}

	report := calendar.NewReporter(a.Stdout)
	if err := report.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	start := time.Now()
	var writeErr error
	stats, err := calendar.Run(q, func(m calendar.Match) {
		if writeErr == nil {
			writeErr = report.WriteMatch(m)
		}
	})
	if err != nil {
		return err
	}
	if writeErr != nil {
		return fmt.Errorf("write match: %w", writeErr)
	}

	a.log().Debug("simulation complete",
		slog.Int("day", q.Day),
		slog.Int("month", q.Month),
		slog.Int("year", q.Year),
		slog.Bool("through", q.Through),
		slog.Int("days", stats.Days),
		slog.Int("matches", stats.Matches),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
