package calendar

import (
	"cmp"
	"fmt"
	"time"
)

// Days in a full leap cycle of each calendar.
const (
	julianCycleDays    = 4*365 + 1
	julianCycleYears   = 4
	gregorianCycleDays = 400*365 + 97
	gregorianCycleYear = 400
)

// Tense places a date relative to today.
type Tense string

const (
	Past    Tense = "past"
	Present Tense = "present"
	Future  Tense = "future"
)

// Fall returns the verb for "it ... on a Monday".
func (t Tense) Fall() string {
	switch t {
	case Past:
		return "fell"
	case Present:
		return "falls"
	default:
		return "will fall"
	}
}

// Be returns the verb for "and ... day nr".
func (t Tense) Be() string {
	switch t {
	case Past:
		return "was"
	case Present:
		return "is"
	default:
		return "will be"
	}
}

// Conversion is a date expressed in both calendars.
type Conversion struct {
	System     System `json:"calendar"`
	Date       Date   `json:"date"`
	Equivalent Date   `json:"equivalent"`
	Weekday    string `json:"weekday"`
	DayNumber  int    `json:"day_number"`
	Sequence   int    `json:"sequence"`
	Leap       bool   `json:"leap"`
	Tense      Tense  `json:"tense"`
}

// epochLag is how many days a calendar's 1 Jan 0 trails the first simulated day.
func epochLag(sys System) int {
	if sys == Gregorian {
		return 2
	}
	return 0
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}

// daysBefore counts the days from 1 Jan 0 up to, not including, 1 Jan year.
// It is negative for years before 0.
func daysBefore(sys System, year int) int {
	n := 365*year + floorDiv(year+3, 4)
	if sys == Gregorian {
		n += floorDiv(year+399, 400) - floorDiv(year+99, 100)
	}
	return n
}

// DayNumber counts d within its own calendar, 1 Jan 0 being day 1.
func DayNumber(sys System, d Date) int {
	return daysBefore(sys, d.Year) + dayOfYear(sys, d)
}

// Sequence returns the simulator's day number for d, the value reported in
// the "Day Number" column when the simulator reaches d.
func Sequence(sys System, d Date) int {
	return DayNumber(sys, d) + epochLag(sys)
}

// FromSequence returns the date sys shows on simulated day n.
func FromSequence(sys System, n int) Date {
	cycleDays, cycleYears := julianCycleDays, julianCycleYears
	if sys == Gregorian {
		cycleDays, cycleYears = gregorianCycleDays, gregorianCycleYear
	}

	k := n - epochLag(sys) - 1
	cycles := floorDiv(k, cycleDays)
	rem := k - cycles*cycleDays
	year := cycles * cycleYears

	for {
		length := 365
		if sys.IsLeap(year) {
			length = 366
		}
		if rem < length {
			break
		}
		rem -= length
		year++
	}

	month := 1
	for {
		length := lengthIn(sys, month, year)
		if rem < length {
			break
		}
		rem -= length
		month++
	}

	return Date{Day: rem + 1, Month: month, Year: year}
}

// WeekdayOf names the weekday of simulated day n.
func WeekdayOf(n int) string {
	return weekdays[floorMod(n+sequenceOffset, 7)]
}

// ValidateIn checks d against sys's leap-adjusted month lengths. Unlike
// Validate, 29 February is accepted in leap years.
func ValidateIn(sys System, d Date) error {
	if d.Year < 0 {
		return fmt.Errorf("year %d before epoch: %w", d.Year, ErrIllegalDate)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("month %d: %w", d.Month, ErrIllegalDate)
	}
	if d.Day < 1 || d.Day > lengthIn(sys, d.Month, d.Year) {
		return fmt.Errorf("day %d of %s %d (%s): %w", d.Day, MonthAbbrev(d.Month), d.Year, sys, ErrIllegalDate)
	}
	return nil
}

// Convert expresses d, a date in sys, in the other calendar. The tense comes
// from comparing d as written with now's year, month and day, whichever
// calendar d belongs to.
func Convert(sys System, d Date, now time.Time) (Conversion, error) {
	if err := ValidateIn(sys, d); err != nil {
		return Conversion{}, err
	}

	seq := Sequence(sys, d)

	tense := Present
	switch c := compareDates(d, Date{Day: now.Day(), Month: int(now.Month()), Year: now.Year()}); {
	case c < 0:
		tense = Past
	case c > 0:
		tense = Future
	}

	return Conversion{
		System:     sys,
		Date:       d,
		Equivalent: FromSequence(sys.Other(), seq),
		Weekday:    WeekdayOf(seq),
		DayNumber:  DayNumber(sys, d),
		Sequence:   seq,
		Leap:       sys.IsLeap(d.Year),
		Tense:      tense,
	}, nil
}

// compareDates orders a and b by year, then month, then day.
func compareDates(a, b Date) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Month, b.Month); c != 0 {
		return c
	}
	return cmp.Compare(a.Day, b.Day)
}
