package postgres

import (
	"context"
	"fmt"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/alert"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ALERT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AlertRepository implements alert.Repository for PostgreSQL.
type AlertRepository struct {
	conn *Connection
}

// NewAlertRepository creates a new AlertRepository.
func NewAlertRepository(conn *Connection) *AlertRepository {
	return &AlertRepository{conn: conn}
}

// Append stores a new alert.
func (r *AlertRepository) Append(ctx context.Context, a *alert.Alert) error {
	query := `
		INSERT INTO alerts (id, user_id, alert_type, assessment_id, resolved, resolved_by, resolved_at, raised_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		a.ID,
		a.UserID.String(),
		string(a.Type),
		nullableString(a.AssessmentID),
		a.Resolved,
		a.ResolvedBy,
		a.ResolvedAt,
		a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append alert: %w", err)
	}

	return nil
}

// GetByID returns an alert by its identifier.
func (r *AlertRepository) GetByID(ctx context.Context, id string) (*alert.Alert, error) {
	query := `
		SELECT id, user_id, alert_type, COALESCE(assessment_id::text, ''), resolved, resolved_by, resolved_at, raised_at
		FROM alerts
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	a, err := scanAlertFields(row)
	if IsNoRows(err) {
		return nil, shared.ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return a, nil
}

// ListUnresolved returns unresolved alerts for a user, newest first.
func (r *AlertRepository) ListUnresolved(ctx context.Context, userID shared.UserID, limit int) ([]*alert.Alert, error) {
	query := `
		SELECT id, user_id, alert_type, COALESCE(assessment_id::text, ''), resolved, resolved_by, resolved_at, raised_at
		FROM alerts
		WHERE user_id = $1 AND resolved = FALSE
		ORDER BY raised_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*alert.Alert
	for rows.Next() {
		a, err := scanAlertFields(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// CountUnresolved returns the number of open alerts for a user.
func (r *AlertRepository) CountUnresolved(ctx context.Context, userID shared.UserID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM alerts WHERE user_id = $1 AND resolved = FALSE",
		userID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unresolved alerts: %w", err)
	}
	return count, nil
}

// MarkResolved persists a resolution. The WHERE guard keeps the resolved flag
// one-directional even if two counselors race on the same alert.
func (r *AlertRepository) MarkResolved(ctx context.Context, a *alert.Alert) error {
	query := `
		UPDATE alerts
		SET resolved = TRUE, resolved_by = $1, resolved_at = $2
		WHERE id = $3 AND resolved = FALSE
	`

	result, err := r.conn.Exec(ctx, query, a.ResolvedBy, a.ResolvedAt, a.ID)
	if err != nil {
		return fmt.Errorf("failed to mark alert resolved: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrAlertAlreadyClosed
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanAlertFields(row pgx.Row) (*alert.Alert, error) {
	var a alert.Alert
	var userID, alertType string

	err := row.Scan(
		&a.ID,
		&userID,
		&alertType,
		&a.AssessmentID,
		&a.Resolved,
		&a.ResolvedBy,
		&a.ResolvedAt,
		&a.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	a.UserID = shared.UserID(userID)
	a.Type = alert.Type(alertType)
	return &a, nil
}

// nullableString maps "" to SQL NULL for UUID-typed columns.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
