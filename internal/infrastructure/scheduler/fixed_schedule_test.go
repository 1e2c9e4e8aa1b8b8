package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyAtSchedule_Next(t *testing.T) {
	s := NewDailyAtSchedule(21, 0, time.UTC)

	// Before the fire time: same day.
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC), s.Next(now))

	// Exactly at the fire time: tomorrow, the schedule is strictly-after.
	now = time.Date(2026, 3, 10, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 21, 0, 0, 0, time.UTC), s.Next(now))

	// After the fire time: tomorrow.
	now = time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 21, 0, 0, 0, time.UTC), s.Next(now))
}

func TestDailyAtSchedule_NextRespectsLocation(t *testing.T) {
	almaty := time.FixedZone("Asia/Almaty", 5*60*60)
	s := NewDailyAtSchedule(21, 0, almaty)

	// 17:00 UTC is 22:00 in Almaty - past today's cutoff there.
	now := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	next := s.Next(now)

	assert.Equal(t, 11, next.Day())
	assert.Equal(t, 21, next.Hour())
	assert.Equal(t, almaty, next.Location())
}

func TestWeeklyOnSchedule_Next(t *testing.T) {
	// Sundays at 18:00. March 10 2026 is a Tuesday.
	s := NewWeeklyOnSchedule(time.Sunday, 18, 0, time.UTC)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	next := s.Next(now)

	assert.Equal(t, time.Sunday, next.Weekday())
	assert.Equal(t, time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC), next)
}

func TestWeeklyOnSchedule_NextSameDay(t *testing.T) {
	// March 15 2026 is a Sunday.
	s := NewWeeklyOnSchedule(time.Sunday, 18, 0, time.UTC)

	// Earlier that Sunday: fires today.
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC), s.Next(now))

	// Past the fire time that Sunday: next week.
	now = time.Date(2026, 3, 15, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 22, 18, 0, 0, 0, time.UTC), s.Next(now))
}

func TestScheduleStrings(t *testing.T) {
	daily := NewDailyAtSchedule(21, 0, time.UTC)
	assert.Equal(t, "@daily 21:00 UTC", daily.String())

	weekly := NewWeeklyOnSchedule(time.Sunday, 18, 30, time.UTC)
	assert.Equal(t, "@weekly Sunday 18:30 UTC", weekly.String())

	interval := NewIntervalSchedule(15 * time.Minute)
	assert.Equal(t, "@every 15m0s", interval.String())
}
