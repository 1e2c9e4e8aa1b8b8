// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"strings"
	"time"
)

// UserID identifies a student across every collection in the store.
// The engine treats it as opaque; it comes from the authentication layer.
type UserID string

// IsValid checks that the user ID is non-empty and has no whitespace.
func (u UserID) IsValid() bool {
	s := string(u)
	return len(s) > 0 && len(s) <= 128 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation.
func (u UserID) String() string {
	return string(u)
}

// Day represents a calendar day. A user can have at most one daily log per Day;
// equality is by date only, never by clock time.
type Day struct {
	t time.Time
}

// DayOf truncates a timestamp to its calendar day in the given location.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return Day{t: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)}
}

// Time returns midnight of the day in its location.
func (d Day) Time() time.Time {
	return d.t
}

// Equal reports whether two Days are the same calendar day.
func (d Day) Equal(other Day) bool {
	return d.t.Year() == other.t.Year() && d.t.YearDay() == other.t.YearDay()
}

// Before reports whether d is an earlier calendar day than other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t) && !d.Equal(other)
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return d.t.Format("2006-01-02")
}
