package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeapRules(t *testing.T) {
	tests := []struct {
		year      int
		julian    bool
		gregorian bool
	}{
		{0, true, true},
		{1, false, false},
		{4, true, true},
		{100, true, false},
		{400, true, true},
		{1582, false, false},
		{1700, true, false},
		{1900, true, false},
		{2000, true, true},
		{2023, false, false},
		{2024, true, true},
		{2100, true, false},
		{-4, true, true},
		{-100, true, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.julian, IsJulianLeap(tt.year), "IsJulianLeap(%d)", tt.year)
		assert.Equal(t, tt.gregorian, IsGregorianLeap(tt.year), "IsGregorianLeap(%d)", tt.year)
		assert.Equal(t, tt.julian, Julian.IsLeap(tt.year))
		assert.Equal(t, tt.gregorian, Gregorian.IsLeap(tt.year))
	}
}

func TestLeapRules_Properties(t *testing.T) {
	for y := -800; y <= 2800; y++ {
		if IsGregorianLeap(y) {
			assert.Zero(t, y%4, "Gregorian leap year %d not divisible by 4", y)
		}
		switch {
		case y%4 != 0:
			assert.False(t, IsJulianLeap(y), "year %d", y)
			assert.False(t, IsGregorianLeap(y), "year %d", y)
		case y%100 == 0 && y%400 != 0:
			assert.True(t, IsJulianLeap(y), "year %d", y)
			assert.False(t, IsGregorianLeap(y), "year %d", y)
		default:
			assert.True(t, IsJulianLeap(y), "year %d", y)
			assert.Equal(t, IsJulianLeap(y), IsGregorianLeap(y), "year %d", y)
		}
	}
}

func TestFebruaryLength(t *testing.T) {
	assert.Equal(t, 29, Julian.FebruaryLength(1900))
	assert.Equal(t, 28, Gregorian.FebruaryLength(1900))
	assert.Equal(t, 29, Gregorian.FebruaryLength(2000))
	assert.Equal(t, 28, Julian.FebruaryLength(2023))
}

func TestParseSystem(t *testing.T) {
	sys, err := ParseSystem("Julian")
	require.NoError(t, err)
	assert.Equal(t, Julian, sys)

	sys, err = ParseSystem(" gregorian ")
	require.NoError(t, err)
	assert.Equal(t, Gregorian, sys)
	assert.Equal(t, Julian, sys.Other())

	_, err = ParseSystem("hebrew")
	assert.Error(t, err)
}

func TestSystem_Text(t *testing.T) {
	b, err := Gregorian.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "gregorian", string(b))

	var sys System
	require.NoError(t, sys.UnmarshalText([]byte("julian")))
	assert.Equal(t, Julian, sys)

	_, err = System(7).MarshalText()
	assert.Error(t, err)
}
