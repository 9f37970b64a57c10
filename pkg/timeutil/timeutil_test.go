package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAndEndOfDay(t *testing.T) {
	ts := DateTime(2024, 3, 15, 14, 30, 45)

	start := StartOfDay(ts)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.Equal(t, 15, start.Day())

	end := EndOfDay(ts)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 15, end.Day())

	assert.True(t, end.After(start))
}

func TestDayBoundaryUsesJakartaTime(t *testing.T) {
	// 18:00 UTC is already 01:00 the next day in Jakarta.
	utcEvening := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)

	start := StartOfDay(utcEvening)
	assert.Equal(t, 16, start.Day())
	assert.Equal(t, "2024-03-16", FormatDateStr(utcEvening))
}

func TestIsSameDay(t *testing.T) {
	morning := DateTime(2024, 3, 15, 7, 0, 0)
	evening := DateTime(2024, 3, 15, 22, 0, 0)
	nextDay := DateTime(2024, 3, 16, 0, 0, 1)

	assert.True(t, IsSameDay(morning, evening))
	assert.False(t, IsSameDay(evening, nextDay))

	// The same instant expressed in UTC still matches.
	assert.True(t, IsSameDay(morning, morning.UTC()))
}

func TestStartOfWeek(t *testing.T) {
	// 2024-03-15 is a Friday; the week starts Monday 2024-03-11.
	friday := Date(2024, 3, 15)
	monday := StartOfWeek(friday)

	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, 11, monday.Day())

	// Sunday belongs to the week that started six days earlier.
	sunday := Date(2024, 3, 17)
	assert.Equal(t, 11, StartOfWeek(sunday).Day())
}

func TestDaysBetween(t *testing.T) {
	a := DateTime(2024, 3, 15, 23, 0, 0)
	b := DateTime(2024, 3, 18, 1, 0, 0)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, 3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}

func TestParseDateJakarta(t *testing.T) {
	ts, err := ParseDateJakarta("2024-03-15")
	require.NoError(t, err)

	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, time.March, ts.Month())
	assert.Equal(t, 15, ts.Day())
	assert.Equal(t, JakartaTZ, ts.Location())

	_, err = ParseDateJakarta("15/03/2024")
	assert.Error(t, err)
}

func TestFormatIndonesian(t *testing.T) {
	ts := DateTime(2024, 3, 15, 9, 5, 0)
	assert.Equal(t, "15/03/2024 09:05 WIB", FormatIndonesian(ts))
}

func TestWeekdayAndMonthNames(t *testing.T) {
	assert.Equal(t, "Jumat", WeekdayNameID(Date(2024, 3, 15)))
	assert.Equal(t, "Senin", WeekdayNameID(Date(2024, 3, 11)))
	assert.Equal(t, "Minggu", WeekdayNameID(Date(2024, 3, 17)))

	assert.Equal(t, "Maret", MonthNameID(time.March))
	assert.Equal(t, "Desember", MonthNameID(time.December))
	assert.Equal(t, "", MonthNameID(time.Month(13)))
}
