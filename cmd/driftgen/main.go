package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/zapponejosh/perpetual-calendar/internal/calendar"
)

// This tool prints how far the Gregorian calendar runs ahead of the Julian
// one, century by century, and lists the day pairs around the 1582 reform.

// driftDay is the Julian date each row is taken on. 1 March keeps the
// February leap day of the row's own year on the same side in both
// calendars.
const (
	driftDay   = 1
	driftMonth = 3
)

type row struct {
	year      int
	julian    calendar.Date
	gregorian calendar.Date
	drift     int
	weekday   string
}

func main() {
	from := flag.Int("from", 0, "First year of the drift table")
	to := flag.Int("to", 2100, "Last year of the drift table")
	step := flag.Int("step", 100, "Years between rows")
	reform := flag.Bool("reform", true, "Also list the October 1582 pairing")
	verify := flag.Bool("verify", false, "Check every row against the day-by-day simulator")
	flag.Parse()

	if *from < 0 || *to < *from || *step <= 0 {
		fmt.Fprintln(os.Stderr, "need 0 <= from <= to and step > 0")
		os.Exit(2)
	}

	rows := driftTable(*from, *to, *step)

	fmt.Printf("=== Julian/Gregorian Drift %d-%d ===\n\n", *from, *to)
	driftTbl := table.NewWriter()
	driftTbl.SetOutputMirror(os.Stdout)
	driftTbl.AppendHeader(driftHeader)
	for _, r := range rows {
		driftTbl.AppendRow(table.Row{r.year, r.julian, r.gregorian, fmt.Sprintf("%+d", r.drift), r.weekday})
	}
	driftTbl.Render()
	fmt.Println()

	if *reform {
		printReform()
	}

	if *verify {
		start := time.Now()
		mismatches := verifyRows(rows)
		for _, m := range mismatches {
			fmt.Println("  MISMATCH:", m)
		}
		fmt.Printf("Verified %d rows against the simulator in %s, %d mismatches\n",
			len(rows), time.Since(start).Round(time.Millisecond), len(mismatches))
		if len(mismatches) > 0 {
			os.Exit(1)
		}
	}
}

// driftTable computes one row per step years from the closed-form day count.
func driftTable(from, to, step int) []row {
	var rows []row
	for year := from; year <= to; year += step {
		j := calendar.Date{Day: driftDay, Month: driftMonth, Year: year}
		seq := calendar.Sequence(calendar.Julian, j)
		g := calendar.FromSequence(calendar.Gregorian, seq)

		rows = append(rows, row{
			year:      year,
			julian:    j,
			gregorian: g,
			drift:     seq - calendar.Sequence(calendar.Gregorian, j),
			weekday:   calendar.WeekdayOf(seq),
		})
	}
	return rows
}

var driftHeader = table.Row{
	"Year",
	"Julian",
	"Gregorian",
	"Drift",
	"Weekday",
}

var reformHeader = table.Row{
	"Day Number",
	"Julian",
	"Gregorian",
	"Weekday",
	"",
}

func printReform() {
	fmt.Println("October 1582:")
	reformTbl := table.NewWriter()
	reformTbl.SetOutputMirror(os.Stdout)
	reformTbl.AppendHeader(reformHeader)
	for day := 1; day <= 15; day++ {
		j := calendar.Date{Day: day, Month: 10, Year: 1582}
		seq := calendar.Sequence(calendar.Julian, j)
		g := calendar.FromSequence(calendar.Gregorian, seq)

		marker := ""
		if day == 4 {
			marker = "last Julian day"
		} else if day == 5 {
			marker = "first Gregorian day"
		}
		reformTbl.AppendRow(table.Row{seq, j, g, calendar.WeekdayOf(seq), marker})
	}
	reformTbl.Render()
	fmt.Println()
}

// verifyRows steps the simulator up to the last row and compares each row's
// pairing with the dual date the simulator shows on that day.
func verifyRows(rows []row) []string {
	if len(rows) == 0 {
		return nil
	}

	sim := calendar.NewSimulator()
	var mismatches []string
	for _, r := range rows {
		for sim.Current().Julian != r.julian {
			sim.Step()
		}
		cur := sim.Current()
		if cur.Gregorian != r.gregorian || cur.Weekday != r.weekday {
			mismatches = append(mismatches, fmt.Sprintf("%s: table %s %s, simulator %s %s",
				r.julian, r.gregorian, r.weekday, cur.Gregorian, cur.Weekday))
		}
	}
	return mismatches
}
