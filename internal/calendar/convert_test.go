package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

func TestSequence_MatchesSimulator(t *testing.T) {
	sim := NewSimulator()
	for i := 0; i < 800_000; i++ {
		if i%997 == 0 {
			m := sim.Current()
			assert.Equal(t, m.Sequence, Sequence(Julian, m.Julian), "julian %s", m.Julian)
			assert.Equal(t, m.Julian, FromSequence(Julian, m.Sequence))
			assert.Equal(t, m.Gregorian, FromSequence(Gregorian, m.Sequence))
			if m.Gregorian.Year >= 0 {
				assert.Equal(t, m.Sequence, Sequence(Gregorian, m.Gregorian), "gregorian %s", m.Gregorian)
			}
		}
		sim.Step()
	}
}

func TestFromSequence_PreEpoch(t *testing.T) {
	assert.Equal(t, Date{30, 12, -1}, FromSequence(Gregorian, 1))
	assert.Equal(t, Date{31, 12, -1}, FromSequence(Gregorian, 2))
	assert.Equal(t, Date{31, 12, -1}, FromSequence(Julian, 0))
	assert.Equal(t, 1, Sequence(Gregorian, Date{30, 12, -1}))
}

func TestDayNumber(t *testing.T) {
	assert.Equal(t, 1, DayNumber(Julian, Date{1, 1, 0}))
	assert.Equal(t, 1, DayNumber(Gregorian, Date{1, 1, 0}))
	assert.Equal(t, 367, DayNumber(Gregorian, Date{1, 1, 1}))
	assert.Equal(t, 578103, DayNumber(Julian, Date{4, 10, 1582}))
	assert.Equal(t, 578102, DayNumber(Gregorian, Date{15, 10, 1582}))
}

func TestWeekdayOf(t *testing.T) {
	assert.Equal(t, "Thursday", WeekdayOf(1))
	assert.Equal(t, "Wednesday", WeekdayOf(0))
	assert.Equal(t, "Thursday", WeekdayOf(-6))
	assert.Equal(t, "Sunday", WeekdayOf(Sequence(Gregorian, Date{18, 10, 2026})))
}

func TestValidateIn(t *testing.T) {
	tests := []struct {
		name    string
		sys     System
		d       Date
		wantErr bool
	}{
		{"gregorian leap day", Gregorian, Date{29, 2, 2000}, false},
		{"gregorian 1900 leap day", Gregorian, Date{29, 2, 1900}, true},
		{"julian 1900 leap day", Julian, Date{29, 2, 1900}, false},
		{"day zero", Julian, Date{0, 3, 1900}, true},
		{"negative year", Julian, Date{1, 1, -1}, true},
		{"month 13", Gregorian, Date{1, 13, 2000}, true},
		{"31 june", Gregorian, Date{31, 6, 2000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIn(tt.sys, tt.d)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIllegalDate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name      string
		sys       System
		d         Date
		want      Date
		weekday   string
		leap      bool
		tense     Tense
		dayNumber int
	}{
		{"reform eve", Julian, Date{4, 10, 1582}, Date{14, 10, 1582}, "Thursday", false, Past, 578103},
		{"reform day", Gregorian, Date{15, 10, 1582}, Date{5, 10, 1582}, "Friday", false, Past, 578102},
		{"julian leap day", Julian, Date{29, 2, 1900}, Date{13, 3, 1900}, "Tuesday", true, Past, 0},
		{"gregorian leap day", Gregorian, Date{29, 2, 2000}, Date{16, 2, 2000}, "Tuesday", true, Past, 0},
		{"today", Gregorian, Date{18, 10, 2026}, Date{5, 10, 2026}, "Sunday", false, Present, 0},
		{"julian today", Julian, Date{18, 10, 2026}, Date{31, 10, 2026}, "Saturday", false, Present, 0},
		{"julian date read as written", Julian, Date{10, 10, 2026}, Date{23, 10, 2026}, "Friday", false, Past, 0},
		{"tomorrow", Gregorian, Date{19, 10, 2026}, Date{6, 10, 2026}, "Monday", false, Future, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := Convert(tt.sys, tt.d, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.sys, conv.System)
			assert.Equal(t, tt.d, conv.Date)
			assert.Equal(t, tt.want, conv.Equivalent)
			assert.Equal(t, tt.weekday, conv.Weekday)
			assert.Equal(t, tt.leap, conv.Leap)
			assert.Equal(t, tt.tense, conv.Tense)
			if tt.dayNumber != 0 {
				assert.Equal(t, tt.dayNumber, conv.DayNumber)
			}
		})
	}
}

func TestConvert_Illegal(t *testing.T) {
	_, err := Convert(Gregorian, Date{29, 2, 1900}, testNow)
	assert.ErrorIs(t, err, ErrIllegalDate)
}

func TestTenseVerbs(t *testing.T) {
	assert.Equal(t, "fell", Past.Fall())
	assert.Equal(t, "was", Past.Be())
	assert.Equal(t, "falls", Present.Fall())
	assert.Equal(t, "is", Present.Be())
	assert.Equal(t, "will fall", Future.Fall())
	assert.Equal(t, "will be", Future.Be())
}
