package calendar

import (
	"fmt"
	"strings"
)

// System identifies one of the two simulated calendars.
type System int

const (
	Julian System = iota
	Gregorian
)

// String returns the calendar's display name.
func (s System) String() string {
	switch s {
	case Julian:
		return "Julian"
	case Gregorian:
		return "Gregorian"
	default:
		return fmt.Sprintf("System(%d)", int(s))
	}
}

// Other returns the opposite calendar.
func (s System) Other() System {
	if s == Julian {
		return Gregorian
	}
	return Julian
}

// ParseSystem accepts "julian" or "gregorian" in any case.
func ParseSystem(name string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "julian":
		return Julian, nil
	case "gregorian":
		return Gregorian, nil
	default:
		return 0, fmt.Errorf("unknown calendar %q: want julian or gregorian", name)
	}
}

// MarshalText encodes the calendar as its lower-case name.
func (s System) MarshalText() ([]byte, error) {
	switch s {
	case Julian, Gregorian:
		return []byte(strings.ToLower(s.String())), nil
	default:
		return nil, fmt.Errorf("invalid calendar %d", int(s))
	}
}

// UnmarshalText decodes a name accepted by ParseSystem.
func (s *System) UnmarshalText(text []byte) error {
	sys, err := ParseSystem(string(text))
	if err != nil {
		return err
	}
	*s = sys
	return nil
}

// IsLeap reports whether year is a leap year under s.
func (s System) IsLeap(year int) bool {
	if s == Julian {
		return IsJulianLeap(year)
	}
	return IsGregorianLeap(year)
}

// FebruaryLength is 28 plus one in leap years.
func (s System) FebruaryLength(year int) int {
	if s.IsLeap(year) {
		return monthLengths[2] + 1
	}
	return monthLengths[2]
}

// IsJulianLeap reports whether year is a leap year in the Julian calendar:
// every fourth year, with no century exception.
func IsJulianLeap(year int) bool {
	return year%4 == 0
}

// IsGregorianLeap reports whether year is a leap year in the Gregorian
// calendar: every fourth year, except century years not divisible by 400.
func IsGregorianLeap(year int) bool {
	return year%400 == 0 || (year%4 == 0 && year%100 != 0)
}
