package calendar

import (
	"fmt"
	"io"
)

// Reporter writes matches as a fixed-width table.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// WriteHeader writes the column titles.
func (r *Reporter) WriteHeader() error {
	_, err := fmt.Fprintf(r.w, "%-15s%-18s%-20s%s\n",
		"Day Number", "Julian Calendar", "Gregorian Calendar", "Day of the week")
	return err
}

// WriteMatch writes one table row.
func (r *Reporter) WriteMatch(m Match) error {
	_, err := fmt.Fprintf(r.w, "%-15d%-3d%-4s%-11d%-3d%-4s%-13d%s\n",
		m.Sequence,
		m.Julian.Day, MonthAbbrev(m.Julian.Month), m.Julian.Year,
		m.Gregorian.Day, MonthAbbrev(m.Gregorian.Month), m.Gregorian.Year,
		m.Weekday,
	)
	return err
}
