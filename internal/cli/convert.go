package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/perpetual-calendar/internal/calendar"
)

func (a *App) convertCommand() *cobra.Command {
	var calendarName string

	cmd := &cobra.Command{
		Use:   "convert [--calendar julian|gregorian] <day> <month> <year>",
		Short: "Express a date in the other calendar and name its weekday",
		Long: `Read the date as a Gregorian date and as a Julian date (or only the
calendar chosen with --calendar) and print the matching date in the
other calendar, the weekday, and the day number counted from 1 January
of year 0. Unlike the simulator, 29 February is accepted in leap years.

Example:
  perpetual convert 4 10 1582
  perpetual convert --calendar julian 29 2 1900
`,
		Args: minimumArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDate(args)
			if err != nil {
				return err
			}

			systems := []calendar.System{calendar.Gregorian, calendar.Julian}
			if calendarName != "" {
				sys, err := calendar.ParseSystem(calendarName)
				if err != nil {
					return err
				}
				systems = []calendar.System{sys}
			}

			// Validate everything before printing anything.
			now := a.now()
			convs := make([]calendar.Conversion, 0, len(systems))
			for _, sys := range systems {
				conv, err := calendar.Convert(sys, d, now)
				if err != nil {
					return err
				}
				convs = append(convs, conv)
			}

			for _, conv := range convs {
				if err := writeConversion(a.Stdout, conv); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(a.Stdout)
			return err
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "calendar the date is given in (julian or gregorian); both when empty")

	return cmd
}

func writeConversion(w io.Writer, c calendar.Conversion) error {
	leap := "is not a " + c.System.String() + " leap year."
	if c.Leap {
		leap = "is a " + c.System.String() + " leap year."
	}

	_, err := fmt.Fprintf(w, "\n%-10s: %-2d %s %d =\n%-10s: %-2d %s %d\n"+
		"It %s on a %s,\nand %s day nr: %d\n"+
		"as counted from January 1 of Year 0\non the %s calendar.\n%d %s\n",
		c.System, c.Date.Day, calendar.MonthName(c.Date.Month), c.Date.Year,
		c.System.Other(), c.Equivalent.Day, calendar.MonthName(c.Equivalent.Month), c.Equivalent.Year,
		c.Tense.Fall(), c.Weekday, c.Tense.Be(), c.DayNumber,
		c.System, c.Date.Year, leap,
	)
	return err
}

func (a *App) leapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "leap <year>",
		Short: "Report whether a year is a Julian and a Gregorian leap year",
		Args:  minimumArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseInt("year", args[0])
			if err != nil {
				return err
			}
			for _, sys := range []calendar.System{calendar.Julian, calendar.Gregorian} {
				verdict := "is not"
				if sys.IsLeap(year) {
					verdict = "is"
				}
				if _, err := fmt.Fprintf(a.Stdout, "%d %s a %s leap year.\n", year, verdict, sys); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
