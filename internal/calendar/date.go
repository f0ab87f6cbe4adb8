// Package calendar simulates the Julian and Gregorian calendars side by side,
// one day at a time, from a shared epoch.
package calendar

import (
	"errors"
	"fmt"
)

// ErrIllegalDate is returned when a day does not exist in the given month.
var ErrIllegalDate = errors.New("date not legal")

// monthLengths holds the standard (non-leap) month lengths. Index 0 is unused
// so months can be looked up by their 1-based number.
var monthLengths = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

var monthAbbrevs = [13]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var monthNames = [13]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Date is a single calendar's day, month and year. It carries no notion of
// which calendar it belongs to; see System.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// String renders the date as "4 Oct 1582".
func (d Date) String() string {
	return fmt.Sprintf("%d %s %d", d.Day, MonthAbbrev(d.Month), d.Year)
}

// MonthLength returns the non-leap length of month. ok is false when month
// is outside 1-12.
func MonthLength(month int) (length int, ok bool) {
	if month < 1 || month > 12 {
		return 0, false
	}
	return monthLengths[month], true
}

// MonthAbbrev returns the three letter name of month, or "?" when out of range.
func MonthAbbrev(month int) string {
	if month < 1 || month > 12 {
		return "?"
	}
	return monthAbbrevs[month]
}

// MonthName returns the full English name of month, or "?" when out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "?"
	}
	return monthNames[month]
}

// lengthIn returns the length of month in year under sys.
func lengthIn(sys System, month, year int) int {
	if month == 2 {
		return sys.FebruaryLength(year)
	}
	return monthLengths[month]
}

// dayOfYear returns the 1-based ordinal of d within its year under sys.
func dayOfYear(sys System, d Date) int {
	n := d.Day
	for m := 1; m < d.Month; m++ {
		n += lengthIn(sys, m, d.Year)
	}
	return n
}
