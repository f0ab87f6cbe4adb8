package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/perpetual-calendar/internal/logger"
)

const header = "Day Number     Julian Calendar   Gregorian Calendar  Day of the week\n"

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := &App{
		Stdout: &stdout,
		Stderr: &stderr,
		Logger: logger.Discard(),
		Now: func() time.Time {
			return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
		},
	}
	code := app.Execute(args)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestSimulate_FixedPoint(t *testing.T) {
	res := run(t, "1", "1", "0")
	require.Equal(t, 0, res.code, res.stderr)

	want := header +
		"1              1  Jan 0          30 Dec -1           Thursday\n" +
		"3              3  Jan 0          1  Jan 0            Saturday\n"
	assert.Equal(t, want, res.stdout)
}

func TestSimulate_Reform(t *testing.T) {
	res := run(t, "15", "10", "1582")
	require.Equal(t, 0, res.code, res.stderr)

	want := header +
		"578104         5  Oct 1582       15 Oct 1582         Friday\n" +
		"578114         15 Oct 1582       25 Oct 1582         Monday\n"
	assert.Equal(t, want, res.stdout)
}

func TestSimulate_OnlyQueryYear(t *testing.T) {
	res := run(t, "25", "12", "2024")
	require.Equal(t, 0, res.code, res.stderr)

	want := header +
		"739613         12 Dec 2024       25 Dec 2024         Wednesday\n" +
		"739626         25 Dec 2024       7  Jan 2025         Tuesday\n"
	assert.Equal(t, want, res.stdout)
}

func TestSimulate_ThroughListsEveryYear(t *testing.T) {
	res := run(t, "--through", "1", "3", "3")
	require.Equal(t, 0, res.code, res.stderr)

	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	assert.Len(t, lines, 9)
	assert.Equal(t, strings.TrimSuffix(header, "\n"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "61 "), lines[1])

	res = run(t, "1", "3", "3")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, 3, strings.Count(res.stdout, "\n"))
}

func TestSimulate_NegativeYearIsPositional(t *testing.T) {
	res := run(t, "1", "1", "-5")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, header, res.stdout)
}

func TestSimulate_IllegalDate(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"30 february", []string{"30", "2", "2000"}},
		{"29 february", []string{"29", "2", "2000"}},
		{"31 november", []string{"31", "11", "1999"}},
		{"month 13", []string{"1", "13", "1999"}},
		{"not a number", []string{"x", "1", "1999"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args...)
			assert.Equal(t, 1, res.code)
			assert.Equal(t, "Date not legal\n", res.stdout)
		})
	}
}

func TestSimulate_InsufficientArguments(t *testing.T) {
	for _, args := range [][]string{nil, {"1"}, {"1", "1"}} {
		res := run(t, args...)
		assert.Equal(t, 1, res.code)
		assert.Equal(t, "Not enough arguments given.\n", res.stdout)
	}
}

func TestSimulate_UnknownFlag(t *testing.T) {
	res := run(t, "--bogus", "1", "1", "1")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "unknown flag")
}

func TestConvert_SingleCalendar(t *testing.T) {
	res := run(t, "convert", "--calendar", "julian", "4", "10", "1582")
	require.Equal(t, 0, res.code, res.stderr)

	want := "\n" +
		"Julian    : 4  October 1582 =\n" +
		"Gregorian : 14 October 1582\n" +
		"It fell on a Thursday,\n" +
		"and was day nr: 578103\n" +
		"as counted from January 1 of Year 0\n" +
		"on the Julian calendar.\n" +
		"1582 is not a Julian leap year.\n" +
		"\n"
	assert.Equal(t, want, res.stdout)
}

func TestConvert_BothCalendars(t *testing.T) {
	res := run(t, "convert", "18", "10", "2026")
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Gregorian : 18 October 2026 =\nJulian    : 5  October 2026\nIt falls on a Sunday,")
	assert.Contains(t, res.stdout, "Julian    : 18 October 2026 =\nGregorian : 31 October 2026\nIt falls on a Saturday,")
	assert.Less(t, strings.Index(res.stdout, "Gregorian : 18"), strings.Index(res.stdout, "Julian    : 18"))
}

func TestConvert_IllegalInOneCalendar(t *testing.T) {
	res := run(t, "convert", "29", "2", "1900")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "Date not legal\n", res.stdout)

	res = run(t, "convert", "--calendar", "julian", "29", "2", "1900")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "1900 is a Julian leap year.")
}

func TestConvert_UnknownCalendar(t *testing.T) {
	res := run(t, "convert", "--calendar", "hebrew", "1", "1", "2000")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown calendar")
}

func TestExecute_ServiceSettingsDoNotWarn(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("API_KEY", "")
	t.Setenv("PORT", "not-a-port")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	var stdout, stderr bytes.Buffer
	code := Execute([]string{"15", "10", "1582"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stderr.String())
	assert.True(t, strings.HasPrefix(stdout.String(), header))
	assert.Equal(t, 3, strings.Count(stdout.String(), "\n"))
}

func TestLeap(t *testing.T) {
	res := run(t, "leap", "1900")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "1900 is a Julian leap year.\n1900 is not a Gregorian leap year.\n", res.stdout)

	res = run(t, "leap")
	assert.Equal(t, 1, res.code)
	assert.Equal(t, "Not enough arguments given.\n", res.stdout)
}
