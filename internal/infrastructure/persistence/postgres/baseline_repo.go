package postgres

import (
	"context"
	"fmt"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BASELINE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// BaselineRepository implements risk.BaselineRepository for PostgreSQL.
type BaselineRepository struct {
	conn *Connection
}

// NewBaselineRepository creates a new BaselineRepository.
func NewBaselineRepository(conn *Connection) *BaselineRepository {
	return &BaselineRepository{conn: conn}
}

// Get returns the stored baseline for a user.
func (r *BaselineRepository) Get(ctx context.Context, userID shared.UserID) (*risk.Baseline, error) {
	query := `
		SELECT user_id, stress, sleep, mood, workload, nutrition, created_at
		FROM baselines
		WHERE user_id = $1
	`

	var b risk.Baseline
	var id string
	err := r.conn.QueryRow(ctx, query, userID.String()).Scan(
		&id,
		&b.Stress,
		&b.Sleep,
		&b.Mood,
		&b.Workload,
		&b.Nutrition,
		&b.CreatedAt,
	)

	if IsNoRows(err) {
		return nil, shared.ErrBaselineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get baseline: %w", err)
	}

	b.UserID = shared.UserID(id)
	return &b, nil
}

// CreateIfAbsent persists the baseline with first-write-wins semantics.
// ON CONFLICT DO NOTHING makes concurrent creations collapse to a single
// surviving row; the loser gets created=false and no error.
func (r *BaselineRepository) CreateIfAbsent(ctx context.Context, baseline risk.Baseline) (bool, error) {
	query := `
		INSERT INTO baselines (user_id, stress, sleep, mood, workload, nutrition, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO NOTHING
	`

	result, err := r.conn.Exec(ctx, query,
		baseline.UserID.String(),
		baseline.Stress,
		baseline.Sleep,
		baseline.Mood,
		baseline.Workload,
		baseline.Nutrition,
		baseline.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create baseline: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
