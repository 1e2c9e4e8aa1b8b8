package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var almaty = time.FixedZone("Asia/Almaty", 5*60*60)

func TestStartOfDay(t *testing.T) {
	// 01:30 UTC is 06:30 in Almaty, so the campus day starts at 19:00 UTC
	// the previous evening.
	utc := time.Date(2026, 3, 10, 1, 30, 0, 0, time.UTC)
	start := StartOfDay(utc, almaty)

	assert.Equal(t, 2026, start.Year())
	assert.Equal(t, 10, start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, almaty, start.Location())
}

func TestStartOfWeek(t *testing.T) {
	// Wednesday -> preceding Monday.
	wed := time.Date(2026, 3, 11, 15, 0, 0, 0, almaty)
	start := StartOfWeek(wed, almaty)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 9, start.Day())

	// Sunday belongs to the week that started six days earlier.
	sun := time.Date(2026, 3, 15, 8, 0, 0, 0, almaty)
	start = StartOfWeek(sun, almaty)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 9, start.Day())
}

func TestSameDay_AcrossTimezones(t *testing.T) {
	// 22:00 UTC on the 9th is already the 10th in Almaty.
	a := time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 10, 6, 0, 0, 0, almaty)

	assert.True(t, SameDay(a, b, almaty))
	assert.False(t, SameDay(a, b, time.UTC))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 3, 9, 23, 59, 0, 0, almaty)
	b := time.Date(2026, 3, 12, 0, 1, 0, 0, almaty)

	assert.Equal(t, 3, DaysBetween(a, b, almaty))
	assert.Equal(t, -3, DaysBetween(b, a, almaty))
	assert.Equal(t, 0, DaysBetween(a, a, almaty))
}

func TestInQuietHours_WrapsMidnight(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 3, 10, hour, 30, 0, 0, almaty)
	}

	// 22:00 - 08:00 window.
	assert.True(t, InQuietHours(at(22), 22, 8, almaty))
	assert.True(t, InQuietHours(at(2), 22, 8, almaty))
	assert.True(t, InQuietHours(at(7), 22, 8, almaty))
	assert.False(t, InQuietHours(at(8), 22, 8, almaty))
	assert.False(t, InQuietHours(at(12), 22, 8, almaty))
	assert.False(t, InQuietHours(at(21), 22, 8, almaty))
}

func TestInQuietHours_SameDayWindow(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 3, 10, hour, 0, 0, 0, almaty)
	}

	assert.True(t, InQuietHours(at(13), 12, 14, almaty))
	assert.False(t, InQuietHours(at(14), 12, 14, almaty))
}

func TestInQuietHours_Disabled(t *testing.T) {
	now := time.Date(2026, 3, 10, 3, 0, 0, 0, almaty)
	assert.False(t, InQuietHours(now, 0, 0, almaty))
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", FormatRelative(now, now.Add(-30*time.Second)))
	assert.Equal(t, "5m ago", FormatRelative(now, now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", FormatRelative(now, now.Add(-3*time.Hour)))
	assert.Equal(t, "2d ago", FormatRelative(now, now.Add(-49*time.Hour)))
}
