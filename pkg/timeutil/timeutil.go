// Package timeutil provides timezone utilities for Jakarta timezone (UTC+7).
// All school-day boundaries in EmoClass are computed in local Jakarta time,
// so check-in uniqueness and daily statistics align with the classroom day.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// JakartaTZ is the Jakarta timezone (UTC+7, no DST).
// Indonesia does not observe DST, so this is constant year-round.
var JakartaTZ = time.FixedZone("Asia/Jakarta", 7*60*60)

// Now returns the current time in Jakarta timezone.
func Now() time.Time {
	return time.Now().In(JakartaTZ)
}

// ToJakarta converts a time to Jakarta timezone.
func ToJakarta(t time.Time) time.Time {
	return t.In(JakartaTZ)
}

// ToUTC converts a time to UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// Date creates a time in Jakarta timezone with the given date.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, JakartaTZ)
}

// DateTime creates a time in Jakarta timezone with the given date and time.
func DateTime(year, month, day, hour, min, sec int) time.Time {
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, JakartaTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Jakarta timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToJakarta(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, JakartaTZ)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in Jakarta timezone.
func EndOfDay(t time.Time) time.Time {
	local := ToJakarta(t)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, JakartaTZ)
}

// StartOfWeek returns the start of the week (Monday 00:00:00) in Jakarta timezone.
func StartOfWeek(t time.Time) time.Time {
	local := ToJakarta(t)
	weekday := int(local.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	daysToSubtract := weekday - 1 // Monday = 1
	return StartOfDay(local.AddDate(0, 0, -daysToSubtract))
}

// EndOfWeek returns the end of the week (Sunday 23:59:59) in Jakarta timezone.
func EndOfWeek(t time.Time) time.Time {
	start := StartOfWeek(t)
	return EndOfDay(start.AddDate(0, 0, 6))
}

// IsToday checks if the given time is today in Jakarta timezone.
func IsToday(t time.Time) bool {
	now := Now()
	local := ToJakarta(t)
	return local.Year() == now.Year() &&
		local.Month() == now.Month() &&
		local.Day() == now.Day()
}

// IsSameDay checks if two times are on the same day in Jakarta timezone.
func IsSameDay(t1, t2 time.Time) bool {
	a, b := ToJakarta(t1), ToJakarta(t2)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DaysSince calculates the number of days since the given time.
func DaysSince(t time.Time) int {
	now := StartOfDay(Now())
	then := StartOfDay(t)
	duration := now.Sub(then)
	return int(duration.Hours() / 24)
}

// DaysBetween calculates the number of days between two times.
func DaysBetween(t1, t2 time.Time) int {
	a := StartOfDay(t1)
	b := StartOfDay(t2)
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
	// FormatDateTimeSeconds includes seconds.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
	// FormatIndonesianDate is the Indonesian date format (DD/MM/YYYY).
	FormatIndonesianDate = "02/01/2006"
	// FormatIndonesianDateTime is the Indonesian datetime format.
	FormatIndonesianDateTime = "02/01/2006 15:04"
)

// FormatJakarta formats a time in Jakarta timezone with the given layout.
func FormatJakarta(t time.Time, layout string) string {
	return ToJakarta(t).Format(layout)
}

// FormatDateStr formats a time as a date string (YYYY-MM-DD) in Jakarta timezone.
func FormatDateStr(t time.Time) string {
	return FormatJakarta(t, FormatDate)
}

// FormatTimeStr formats a time as a time string (HH:MM) in Jakarta timezone.
func FormatTimeStr(t time.Time) string {
	return FormatJakarta(t, FormatTime)
}

// FormatIndonesian formats a time in Indonesian format (DD/MM/YYYY HH:MM WIB).
func FormatIndonesian(t time.Time) string {
	return fmt.Sprintf("%s WIB", FormatJakarta(t, FormatIndonesianDateTime))
}

// ParseJakarta parses a time string in Jakarta timezone.
func ParseJakarta(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, JakartaTZ)
}

// ParseDateJakarta parses a date string (YYYY-MM-DD) in Jakarta timezone.
func ParseDateJakarta(value string) (time.Time, error) {
	return ParseJakarta(FormatDate, value)
}

// WeekdayNameID returns the Indonesian name for a weekday.
func WeekdayNameID(t time.Time) string {
	local := ToJakarta(t)
	switch local.Weekday() {
	case time.Monday:
		return "Senin"
	case time.Tuesday:
		return "Selasa"
	case time.Wednesday:
		return "Rabu"
	case time.Thursday:
		return "Kamis"
	case time.Friday:
		return "Jumat"
	case time.Saturday:
		return "Sabtu"
	case time.Sunday:
		return "Minggu"
	default:
		return ""
	}
}

// MonthNameID returns the Indonesian name for a month.
func MonthNameID(m time.Month) string {
	names := []string{
		"", "Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
	if int(m) >= 1 && int(m) <= 12 {
		return names[m]
	}
	return ""
}
