// Package timeutil provides campus-local calendar helpers. A check-in day,
// a digest week, and notification quiet hours are all defined in the campus
// timezone, never in UTC.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// StartOfDay returns 00:00:00 of t's day in the given location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59.999999999 of t's day in the given location.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, loc)
}

// StartOfWeek returns Monday 00:00:00 of t's week in the given location.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	weekday := int(local.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return StartOfDay(local.AddDate(0, 0, -(weekday-1)), loc)
}

// EndOfWeek returns Sunday 23:59:59 of t's week in the given location.
func EndOfWeek(t time.Time, loc *time.Location) time.Time {
	return EndOfDay(StartOfWeek(t, loc).AddDate(0, 0, 6), loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	la, lb := a.In(loc), b.In(loc)
	return la.Year() == lb.Year() && la.Month() == lb.Month() && la.Day() == lb.Day()
}

// DaysBetween returns the number of whole calendar days from a to b in loc.
// Negative when b is before a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	start := StartOfDay(a, loc)
	end := StartOfDay(b, loc)
	return int(end.Sub(start).Hours() / 24)
}

// Default quiet hours. A nudge at 3am does more harm than a missed one.
const (
	DefaultQuietStartHour = 22
	DefaultQuietEndHour   = 8
)

// InQuietHours reports whether t falls inside the [startHour, endHour)
// window in loc. The window may wrap midnight (22 to 8). startHour equal to
// endHour means quiet hours are disabled.
func InQuietHours(t time.Time, startHour, endHour int, loc *time.Location) bool {
	if startHour == endHour {
		return false
	}

	hour := t.In(loc).Hour()
	if startHour < endHour {
		return hour >= startHour && hour < endHour
	}
	// Wraps midnight
	return hour >= startHour || hour < endHour
}

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatTime is the standard time format (HH:MM).
	FormatTime = "15:04"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
)

// FormatIn formats t in the given location with the given layout.
func FormatIn(t time.Time, loc *time.Location, layout string) string {
	return t.In(loc).Format(layout)
}

// FormatDateStr formats t as a date string (YYYY-MM-DD) in loc.
func FormatDateStr(t time.Time, loc *time.Location) string {
	return FormatIn(t, loc, FormatDate)
}

// FormatRelative returns a human-readable description of how long ago t was,
// relative to now.
func FormatRelative(now, t time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = -d
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
