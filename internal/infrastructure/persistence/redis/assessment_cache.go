package redis

import (
	"context"
	"errors"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSESSMENT CACHE
// Hot copy of each user's newest assessment. Refreshed on every evaluation;
// the dashboard reads it first and falls through to postgres on a miss.
// ══════════════════════════════════════════════════════════════════════════════

// cachedAssessment is the wire form of an assessment in redis.
type cachedAssessment struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	RiskScore          float64   `json:"risk_score"`
	RiskLevel          string    `json:"risk_level"`
	RecoveryStatus     string    `json:"recovery_status"`
	AccelerationStatus string    `json:"acceleration_status"`
	StressVelocity     float64   `json:"stress_velocity"`
	BehavioralState    string    `json:"behavioral_state"`
	Flags              []string  `json:"flags"`
	Insight            string    `json:"insight"`
	PreventiveMeasures []string  `json:"preventive_measures"`
	Timestamp          time.Time `json:"timestamp"`
}

// AssessmentCache stores the latest assessment per user with a short TTL.
type AssessmentCache struct {
	cache *Cache
}

// NewAssessmentCache creates a new AssessmentCache.
func NewAssessmentCache(cache *Cache) *AssessmentCache {
	return &AssessmentCache{cache: cache}
}

// SetLatest stores the assessment as the user's newest.
func (c *AssessmentCache) SetLatest(ctx context.Context, a *risk.Assessment) error {
	entry := cachedAssessment{
		ID:                 a.ID,
		UserID:             a.UserID.String(),
		RiskScore:          a.RiskScore,
		RiskLevel:          string(a.RiskLevel),
		RecoveryStatus:     string(a.RecoveryStatus),
		AccelerationStatus: string(a.AccelerationStatus),
		StressVelocity:     a.StressVelocity,
		BehavioralState:    string(a.BehavioralState),
		Flags:              a.Flags.Strings(),
		Insight:            a.Insight,
		PreventiveMeasures: a.PreventiveMeasures,
		Timestamp:          a.Timestamp,
	}

	return c.cache.Set(ctx, AssessmentKey(a.UserID.String()), entry, TTLLatestAssessment)
}

// GetLatest returns the cached newest assessment, or shared.ErrNotFound on a
// miss so callers can fall through to the store uniformly.
func (c *AssessmentCache) GetLatest(ctx context.Context, userID shared.UserID) (*risk.Assessment, error) {
	var entry cachedAssessment
	err := c.cache.Get(ctx, AssessmentKey(userID.String()), &entry)
	if errors.Is(err, ErrCacheMiss) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a := &risk.Assessment{
		ID:                 entry.ID,
		UserID:             shared.UserID(entry.UserID),
		RiskScore:          entry.RiskScore,
		RiskLevel:          risk.RiskLevel(entry.RiskLevel),
		RecoveryStatus:     risk.RecoveryStatus(entry.RecoveryStatus),
		AccelerationStatus: risk.AccelerationStatus(entry.AccelerationStatus),
		StressVelocity:     entry.StressVelocity,
		BehavioralState:    risk.BehavioralState(entry.BehavioralState),
		Insight:            entry.Insight,
		PreventiveMeasures: entry.PreventiveMeasures,
		Timestamp:          entry.Timestamp,
	}
	for _, f := range entry.Flags {
		a.Flags = append(a.Flags, risk.Flag(f))
	}

	return a, nil
}

// InvalidateLatest drops the cached entry for a user.
func (c *AssessmentCache) InvalidateLatest(ctx context.Context, userID shared.UserID) error {
	return c.cache.Delete(ctx, AssessmentKey(userID.String()))
}
