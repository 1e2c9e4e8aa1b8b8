package risk

import (
	"context"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// BaselineRepository is the persistence port for baselines.
type BaselineRepository interface {
	// Get returns the stored baseline, or shared.ErrBaselineNotFound.
	Get(ctx context.Context, userID shared.UserID) (*Baseline, error)

	// CreateIfAbsent persists the baseline with first-write-wins semantics:
	// if two concurrent runs both compute a baseline for the same user, only
	// one write survives. Returns created=false when a baseline already
	// existed, which is not an error.
	CreateIfAbsent(ctx context.Context, baseline Baseline) (created bool, err error)
}

// AssessmentRepository is the append-only persistence port for risk scores.
type AssessmentRepository interface {
	// Append stores a new assessment. Assessments are never updated.
	Append(ctx context.Context, assessment *Assessment) error

	// ListRecent returns up to n assessments ordered most-recent-first.
	ListRecent(ctx context.Context, userID shared.UserID, n int) ([]*Assessment, error)

	// RecentScores returns just the risk scores of the latest n assessments,
	// most-recent-first. The trend analyzer needs exactly TrendWindow of them.
	RecentScores(ctx context.Context, userID shared.UserID, n int) ([]float64, error)

	// Latest returns the newest assessment, or shared.ErrNotFound.
	Latest(ctx context.Context, userID shared.UserID) (*Assessment, error)
}

// OverrideRepository records counselor-issued risk level overrides. These are
// audit rows only; they never mutate stored assessments.
type OverrideRepository interface {
	Append(ctx context.Context, override *Override) error
	ListForUser(ctx context.Context, userID shared.UserID, n int) ([]*Override, error)
}
