package scheduler

import (
	"fmt"
	"time"
)

// DailyAtSchedule fires once a day at a fixed wall-clock time in the given
// location. The location matters: the missed check-in sweep must fire at the
// campus cutoff hour, not the server's.
type DailyAtSchedule struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// NewDailyAtSchedule creates a schedule firing daily at hour:minute in loc.
func NewDailyAtSchedule(hour, minute int, loc *time.Location) *DailyAtSchedule {
	if loc == nil {
		loc = time.UTC
	}
	return &DailyAtSchedule{Hour: hour, Minute: minute, Location: loc}
}

// Next returns the next hour:minute strictly after t.
func (s *DailyAtSchedule) Next(t time.Time) time.Time {
	t = t.In(s.Location)
	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, s.Location)
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// String returns the string representation of the schedule.
func (s *DailyAtSchedule) String() string {
	return fmt.Sprintf("@daily %02d:%02d %s", s.Hour, s.Minute, s.Location)
}

// WeeklyOnSchedule fires once a week on a fixed weekday at a fixed wall-clock
// time in the given location.
type WeeklyOnSchedule struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

// NewWeeklyOnSchedule creates a schedule firing weekly on the given weekday.
func NewWeeklyOnSchedule(weekday time.Weekday, hour, minute int, loc *time.Location) *WeeklyOnSchedule {
	if loc == nil {
		loc = time.UTC
	}
	return &WeeklyOnSchedule{Weekday: weekday, Hour: hour, Minute: minute, Location: loc}
}

// Next returns the next matching weekday occurrence strictly after t.
func (s *WeeklyOnSchedule) Next(t time.Time) time.Time {
	t = t.In(s.Location)
	next := time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, s.Location)

	daysAhead := (int(s.Weekday) - int(next.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, daysAhead)
	if !next.After(t) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// String returns the string representation of the schedule.
func (s *WeeklyOnSchedule) String() string {
	return fmt.Sprintf("@weekly %s %02d:%02d %s", s.Weekday, s.Hour, s.Minute, s.Location)
}
