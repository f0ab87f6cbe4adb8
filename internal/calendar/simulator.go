package calendar

import (
	"context"
	"fmt"
)

// weekdays is rotated so that the simulator's counter, taken modulo 7,
// indexes the right name: the counter starts at 6 on Julian 1 Jan 0, a
// Thursday.
var weekdays = [7]string{"Friday", "Saturday", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}

const (
	// epochCounter is the weekday counter on the first simulated day.
	// weekdays[6] is Thursday, the weekday of Julian 1 Jan 0.
	epochCounter = 6

	// sequenceOffset turns the counter into a 1-based day number:
	// epochCounter - sequenceOffset == 1 on the first simulated day.
	sequenceOffset = 5

	// ctxCheckInterval is how many simulated days pass between context checks.
	ctxCheckInterval = 1 << 16
)

var (
	// julianEpoch is the Julian cursor on the first simulated day.
	julianEpoch = Date{Day: 1, Month: 1, Year: 0}

	// gregorianEpoch trails the Julian cursor by two days: Gregorian
	// 1 Jan 0 fell on a Saturday, when the Julian calendar already showed
	// 3 Jan 0. Carried forward, this gives the ten day gap of October 1582.
	gregorianEpoch = Date{Day: 30, Month: 12, Year: -1}
)

// Query selects the day, month and year to look for. Year is also the year
// the simulation runs to.
type Query struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`

	// Through reports every occurrence up to and including Year instead of
	// only those that fall in Year itself.
	Through bool `json:"through"`
}

// Match is one reported simulated day.
type Match struct {
	Sequence  int    `json:"sequence"`
	Julian    Date   `json:"julian"`
	Gregorian Date   `json:"gregorian"`
	Weekday   string `json:"weekday"`
}

// Stats summarizes a simulation run.
type Stats struct {
	Days    int `json:"days"`
	Matches int `json:"matches"`
}

// Validate rejects a query whose day exceeds the standard length of its
// month. The non-leap table is used for every year, so 29 February is never
// accepted.
func Validate(q Query) error {
	length, ok := MonthLength(q.Month)
	if !ok {
		return fmt.Errorf("month %d: %w", q.Month, ErrIllegalDate)
	}
	if q.Day > length {
		return fmt.Errorf("day %d of %s: %w", q.Day, MonthAbbrev(q.Month), ErrIllegalDate)
	}
	return nil
}

// Simulator holds the two calendar cursors and the shared weekday counter.
// The zero value is not usable; call NewSimulator.
type Simulator struct {
	julian    Date
	gregorian Date
	counter   int
}

// NewSimulator returns a simulator positioned on the epoch.
func NewSimulator() *Simulator {
	return &Simulator{
		julian:    julianEpoch,
		gregorian: gregorianEpoch,
		counter:   epochCounter,
	}
}

// Current returns the dual date the simulator is on.
func (s *Simulator) Current() Match {
	return Match{
		Sequence:  s.counter - sequenceOffset,
		Julian:    s.julian,
		Gregorian: s.gregorian,
		Weekday:   weekdays[s.counter%7],
	}
}

// Step advances both cursors by one day.
func (s *Simulator) Step() {
	jfeb := Julian.FebruaryLength(s.julian.Year)
	gfeb := Gregorian.FebruaryLength(s.gregorian.Year)

	Advance(&s.julian, jfeb)
	Advance(&s.gregorian, gfeb)
	s.counter++
}

// pastYear reports whether both cursors have moved beyond year.
func (s *Simulator) pastYear(year int) bool {
	return s.julian.Year > year && s.gregorian.Year > year
}

func (q Query) matches(d Date) bool {
	if d.Day != q.Day || d.Month != q.Month {
		return false
	}
	if q.Through {
		return d.Year <= q.Year
	}
	return d.Year == q.Year
}

// Run simulates from the epoch until both calendars are past q.Year, calling
// emit for every day on which either calendar shows q's date.
func Run(q Query, emit func(Match)) (Stats, error) {
	return RunContext(context.Background(), q, emit)
}

// RunContext is Run with cancellation. The context is polled periodically,
// not on every simulated day.
func RunContext(ctx context.Context, q Query, emit func(Match)) (Stats, error) {
	if err := Validate(q); err != nil {
		return Stats{}, err
	}

	var stats Stats
	sim := NewSimulator()
	for {
		if q.matches(sim.julian) || q.matches(sim.gregorian) {
			stats.Matches++
			if emit != nil {
				emit(sim.Current())
			}
		}

		sim.Step()
		stats.Days++

		if sim.pastYear(q.Year) {
			return stats, nil
		}
		if stats.Days%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
	}
}

// Occurrences returns every match for q.
func Occurrences(q Query) ([]Match, error) {
	var matches []Match
	if _, err := Run(q, func(m Match) {
		matches = append(matches, m)
	}); err != nil {
		return nil, err
	}
	return matches, nil
}
