package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSESSMENT REPOSITORY IMPLEMENTATION
// Append-only: assessments are inserted and read, never updated or deleted.
// ══════════════════════════════════════════════════════════════════════════════

// AssessmentRepository implements risk.AssessmentRepository for PostgreSQL.
type AssessmentRepository struct {
	conn *Connection
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(conn *Connection) *AssessmentRepository {
	return &AssessmentRepository{conn: conn}
}

const assessmentColumns = `
	id, user_id, risk_score, risk_level, recovery_status, acceleration_status,
	stress_velocity, behavioral_state, flags, insight, preventive_measures, recorded_at
`

// Append stores a new assessment.
func (r *AssessmentRepository) Append(ctx context.Context, a *risk.Assessment) error {
	query := `
		INSERT INTO risk_scores (` + assessmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	flagsJSON, err := json.Marshal(a.Flags.Strings())
	if err != nil {
		return fmt.Errorf("failed to marshal flags: %w", err)
	}
	measuresJSON, err := json.Marshal(a.PreventiveMeasures)
	if err != nil {
		return fmt.Errorf("failed to marshal preventive measures: %w", err)
	}

	_, err = r.conn.Exec(ctx, query,
		a.ID,
		a.UserID.String(),
		a.RiskScore,
		string(a.RiskLevel),
		string(a.RecoveryStatus),
		string(a.AccelerationStatus),
		a.StressVelocity,
		string(a.BehavioralState),
		flagsJSON,
		a.Insight,
		measuresJSON,
		a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append assessment: %w", err)
	}

	return nil
}

// ListRecent returns up to n assessments ordered most-recent-first.
func (r *AssessmentRepository) ListRecent(ctx context.Context, userID shared.UserID, n int) ([]*risk.Assessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM risk_scores
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID.String(), n)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	return r.scanAssessments(rows)
}

// RecentScores returns just the scores of the latest n assessments,
// most-recent-first. Cheaper than ListRecent when only trend math needs them.
func (r *AssessmentRepository) RecentScores(ctx context.Context, userID shared.UserID, n int) ([]float64, error) {
	query := `
		SELECT risk_score
		FROM risk_scores
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID.String(), n)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}

	return scores, rows.Err()
}

// Latest returns the newest assessment.
func (r *AssessmentRepository) Latest(ctx context.Context, userID shared.UserID) (*risk.Assessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM risk_scores
		WHERE user_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	row := r.conn.QueryRow(ctx, query, userID.String())
	a, err := scanAssessmentFields(row)
	if IsNoRows(err) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest assessment: %w", err)
	}
	return a, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *AssessmentRepository) scanAssessments(rows pgx.Rows) ([]*risk.Assessment, error) {
	var assessments []*risk.Assessment
	for rows.Next() {
		a, err := scanAssessmentFields(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return assessments, nil
}

func scanAssessmentFields(row pgx.Row) (*risk.Assessment, error) {
	var a risk.Assessment
	var userID, level, recovery, acceleration, state string
	var flagsJSON, measuresJSON []byte

	err := row.Scan(
		&a.ID,
		&userID,
		&a.RiskScore,
		&level,
		&recovery,
		&acceleration,
		&a.StressVelocity,
		&state,
		&flagsJSON,
		&a.Insight,
		&measuresJSON,
		&a.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	a.UserID = shared.UserID(userID)
	a.RiskLevel = risk.RiskLevel(level)
	a.RecoveryStatus = risk.RecoveryStatus(recovery)
	a.AccelerationStatus = risk.AccelerationStatus(acceleration)
	a.BehavioralState = risk.BehavioralState(state)

	var flagStrings []string
	if len(flagsJSON) > 0 {
		if err := json.Unmarshal(flagsJSON, &flagStrings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal flags: %w", err)
		}
	}
	for _, f := range flagStrings {
		a.Flags = append(a.Flags, risk.Flag(f))
	}

	if len(measuresJSON) > 0 {
		if err := json.Unmarshal(measuresJSON, &a.PreventiveMeasures); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preventive measures: %w", err)
		}
	}

	return &a, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// OVERRIDE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// OverrideRepository implements risk.OverrideRepository for PostgreSQL.
type OverrideRepository struct {
	conn *Connection
}

// NewOverrideRepository creates a new OverrideRepository.
func NewOverrideRepository(conn *Connection) *OverrideRepository {
	return &OverrideRepository{conn: conn}
}

// Append stores a new override audit row.
func (r *OverrideRepository) Append(ctx context.Context, o *risk.Override) error {
	query := `
		INSERT INTO risk_overrides (id, user_id, overridden_level, counselor_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		o.ID,
		o.UserID.String(),
		string(o.OverriddenLevel),
		o.CounselorID,
		o.Reason,
		o.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append override: %w", err)
	}

	return nil
}

// ListForUser returns a user's overrides, newest first.
func (r *OverrideRepository) ListForUser(ctx context.Context, userID shared.UserID, n int) ([]*risk.Override, error) {
	query := `
		SELECT id, user_id, overridden_level, counselor_id, reason, created_at
		FROM risk_overrides
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID.String(), n)
	if err != nil {
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	defer rows.Close()

	var overrides []*risk.Override
	for rows.Next() {
		var o risk.Override
		var userID, level string

		err := rows.Scan(&o.ID, &userID, &level, &o.CounselorID, &o.Reason, &o.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}

		o.UserID = shared.UserID(userID)
		o.OverriddenLevel = risk.RiskLevel(level)
		overrides = append(overrides, &o)
	}

	return overrides, rows.Err()
}
