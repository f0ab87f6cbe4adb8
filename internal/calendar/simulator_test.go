package calendar

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdayIndex(t *testing.T, name string) int {
	t.Helper()
	for i, w := range weekdays {
		if w == name {
			return i
		}
	}
	t.Fatalf("unknown weekday %q", name)
	return -1
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr bool
	}{
		{"new year", Query{Day: 1, Month: 1, Year: 0}, false},
		{"end of year", Query{Day: 31, Month: 12, Year: 2000}, false},
		{"30 february", Query{Day: 30, Month: 2, Year: 2000}, true},
		{"29 february is never legal", Query{Day: 29, Month: 2, Year: 2000}, true},
		{"31 april", Query{Day: 31, Month: 4, Year: 2000}, true},
		{"month 13", Query{Day: 1, Month: 13, Year: 2000}, true},
		{"month 0", Query{Day: 1, Month: 0, Year: 2000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.q)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIllegalDate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSimulator_Epoch(t *testing.T) {
	sim := NewSimulator()
	first := sim.Current()
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, Date{1, 1, 0}, first.Julian)
	assert.Equal(t, Date{30, 12, -1}, first.Gregorian)
	assert.Equal(t, "Thursday", first.Weekday)

	sim.Step()
	sim.Step()
	third := sim.Current()
	assert.Equal(t, 3, third.Sequence)
	assert.Equal(t, Date{3, 1, 0}, third.Julian)
	assert.Equal(t, Date{1, 1, 0}, third.Gregorian)
	assert.Equal(t, "Saturday", third.Weekday)
}

func TestSimulator_WeekdayAdvancesDaily(t *testing.T) {
	sim := NewSimulator()
	prev := sim.Current()
	for i := 0; i < 3000; i++ {
		sim.Step()
		cur := sim.Current()
		assert.Equal(t, prev.Sequence+1, cur.Sequence)
		assert.Equal(t, (weekdayIndex(t, prev.Weekday)+1)%7, weekdayIndex(t, cur.Weekday))
		assert.Equal(t, WeekdayOf(cur.Sequence), cur.Weekday)
		prev = cur
	}
}

func TestOccurrences_FixedPoint(t *testing.T) {
	matches, err := Occurrences(Query{Day: 1, Month: 1, Year: 0})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, Match{
		Sequence:  1,
		Julian:    Date{1, 1, 0},
		Gregorian: Date{30, 12, -1},
		Weekday:   "Thursday",
	}, matches[0])
	assert.Equal(t, Match{
		Sequence:  3,
		Julian:    Date{3, 1, 0},
		Gregorian: Date{1, 1, 0},
		Weekday:   "Saturday",
	}, matches[1])
}

func TestOccurrences_Reform1582(t *testing.T) {
	matches, err := Occurrences(Query{Day: 15, Month: 10, Year: 1582})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Julian Thursday 4 October was followed by Gregorian Friday 15 October.
	assert.Equal(t, Date{5, 10, 1582}, matches[0].Julian)
	assert.Equal(t, Date{15, 10, 1582}, matches[0].Gregorian)
	assert.Equal(t, "Friday", matches[0].Weekday)
	assert.Equal(t, 578104, matches[0].Sequence)

	assert.Equal(t, Date{15, 10, 1582}, matches[1].Julian)
	assert.Equal(t, Date{25, 10, 1582}, matches[1].Gregorian)
	assert.Equal(t, "Monday", matches[1].Weekday)
	assert.Equal(t, 10, matches[1].Sequence-matches[0].Sequence)

	matches, err = Occurrences(Query{Day: 4, Month: 10, Year: 1582})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, Date{4, 10, 1582}, matches[1].Julian)
	assert.Equal(t, Date{14, 10, 1582}, matches[1].Gregorian)
	assert.Equal(t, "Thursday", matches[1].Weekday)
}

func TestOccurrences_Millennium(t *testing.T) {
	matches, err := Occurrences(Query{Day: 1, Month: 1, Year: 2000})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, Date{1, 1, 2000}, matches[0].Gregorian)
	assert.Equal(t, Date{19, 12, 1999}, matches[0].Julian)
	assert.Equal(t, "Saturday", matches[0].Weekday)

	assert.Equal(t, Date{1, 1, 2000}, matches[1].Julian)
	assert.Equal(t, Date{14, 1, 2000}, matches[1].Gregorian)
	assert.Equal(t, "Friday", matches[1].Weekday)
}

func TestOccurrences_QueryYearOnly(t *testing.T) {
	matches, err := Occurrences(Query{Day: 25, Month: 12, Year: 2024})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, Match{739613, Date{12, 12, 2024}, Date{25, 12, 2024}, "Wednesday"}, matches[0])
	// The Julian 25 December reaches the Gregorian calendar in the next year.
	assert.Equal(t, Match{739626, Date{25, 12, 2024}, Date{7, 1, 2025}, "Tuesday"}, matches[1])
}

func TestOccurrences_Through(t *testing.T) {
	all, err := Occurrences(Query{Day: 1, Month: 3, Year: 3, Through: true})
	require.NoError(t, err)
	assert.Len(t, all, 8)
	assert.Equal(t, Match{61, Date{1, 3, 0}, Date{28, 2, 0}, "Monday"}, all[0])
	assert.Equal(t, Match{1158, Date{3, 3, 3}, Date{1, 3, 3}, "Saturday"}, all[7])

	inYear, err := Occurrences(Query{Day: 1, Month: 3, Year: 3})
	require.NoError(t, err)
	assert.Equal(t, all[6:], inYear)
}

func TestRun_Stats(t *testing.T) {
	var seen int
	stats, err := Run(Query{Day: 1, Month: 1, Year: 0}, func(Match) { seen++ })
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Matches)
	assert.Equal(t, 2, seen)
	assert.Equal(t, 368, stats.Days)
}

func TestRun_IllegalDate(t *testing.T) {
	called := false
	_, err := Run(Query{Day: 30, Month: 2, Year: 2000}, func(Match) { called = true })
	assert.ErrorIs(t, err, ErrIllegalDate)
	assert.False(t, called)
}

func TestRunContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := RunContext(ctx, Query{Day: 1, Month: 1, Year: 1_000_000}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ctxCheckInterval, stats.Days)
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	require.NoError(t, r.WriteHeader())
	require.NoError(t, r.WriteMatch(Match{1, Date{1, 1, 0}, Date{30, 12, -1}, "Thursday"}))
	require.NoError(t, r.WriteMatch(Match{578104, Date{5, 10, 1582}, Date{15, 10, 1582}, "Friday"}))

	want := "Day Number     Julian Calendar   Gregorian Calendar  Day of the week\n" +
		"1              1  Jan 0          30 Dec -1           Thursday\n" +
		"578104         5  Oct 1582       15 Oct 1582         Friday\n"
	assert.Equal(t, want, buf.String())
}
