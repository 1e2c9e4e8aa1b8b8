package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK TRACKER
// Consecutive-day check-in counter. The streak lives only in redis: losing it
// costs a vanity number, never data, so there is no postgres fallback. The
// key TTL doubles as the reset mechanism - skip two days and the key is gone.
// ══════════════════════════════════════════════════════════════════════════════

// streakEntry is the stored streak state.
type streakEntry struct {
	Count   int    `json:"count"`
	LastDay string `json:"last_day"` // YYYY-MM-DD
}

// StreakTracker counts consecutive daily check-ins per user.
type StreakTracker struct {
	cache *Cache
}

// NewStreakTracker creates a new StreakTracker.
func NewStreakTracker(cache *Cache) *StreakTracker {
	return &StreakTracker{cache: cache}
}

// RecordCheckin registers a check-in for the given day and returns the
// current streak. A same-day resubmission keeps the count unchanged; a
// check-in on the day after the last one extends it; anything else (including
// an expired key) restarts at 1.
func (t *StreakTracker) RecordCheckin(ctx context.Context, userID shared.UserID, day shared.Day) (int, error) {
	key := StreakKey(userID.String())

	var entry streakEntry
	err := t.cache.Get(ctx, key, &entry)
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		return 0, fmt.Errorf("streak_tracker: read failed: %w", err)
	}

	today := day.String()
	yesterday := shared.DayOf(day.Time().AddDate(0, 0, -1), day.Time().Location()).String()

	switch entry.LastDay {
	case today:
		// Same-day resubmission, streak unchanged.
	case yesterday:
		entry.Count++
	default:
		entry.Count = 1
	}
	entry.LastDay = today

	if err := t.cache.Set(ctx, key, entry, TTLStreak); err != nil {
		return 0, fmt.Errorf("streak_tracker: write failed: %w", err)
	}

	return entry.Count, nil
}

// Current returns the streak without recording a check-in. Zero on a miss.
func (t *StreakTracker) Current(ctx context.Context, userID shared.UserID) (int, error) {
	var entry streakEntry
	err := t.cache.Get(ctx, StreakKey(userID.String()), &entry)
	if errors.Is(err, ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	// A stale entry (last check-in before yesterday) reads as zero even if
	// the key has not expired yet.
	if last, perr := time.Parse("2006-01-02", entry.LastDay); perr == nil {
		if time.Since(last) > TTLStreak {
			return 0, nil
		}
	}

	return entry.Count, nil
}
