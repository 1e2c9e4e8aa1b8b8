package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY LOG REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// DailyLogRepository implements behavior.Repository for PostgreSQL.
type DailyLogRepository struct {
	conn *Connection
}

// NewDailyLogRepository creates a new DailyLogRepository.
func NewDailyLogRepository(conn *Connection) *DailyLogRepository {
	return &DailyLogRepository{conn: conn}
}

// UpsertForDay writes the log for its day. A second submission for the same
// (user, day) pair replaces the earlier ratings and refreshes the timestamp;
// the row keeps its original id and created_at.
func (r *DailyLogRepository) UpsertForDay(ctx context.Context, log *behavior.DailyLog) (bool, error) {
	query := `
		INSERT INTO daily_logs (
			id, user_id, day, stress, sleep, mood, workload, nutrition,
			note, submitted_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, day) DO UPDATE SET
			stress = EXCLUDED.stress,
			sleep = EXCLUDED.sleep,
			mood = EXCLUDED.mood,
			workload = EXCLUDED.workload,
			nutrition = EXCLUDED.nutrition,
			note = EXCLUDED.note,
			submitted_at = EXCLUDED.submitted_at
		RETURNING (xmax <> 0) AS replaced
	`

	var replaced bool
	err := r.conn.QueryRow(ctx, query,
		log.ID,
		log.UserID.String(),
		log.Day.Time(),
		int(log.Metrics.Stress),
		int(log.Metrics.Sleep),
		int(log.Metrics.Mood),
		int(log.Metrics.Workload),
		int(log.Metrics.Nutrition),
		log.Note,
		log.Timestamp,
		log.CreatedAt,
	).Scan(&replaced)
	if err != nil {
		return false, fmt.Errorf("failed to upsert daily log: %w", err)
	}

	return replaced, nil
}

// GetForDay returns the log for a specific day.
func (r *DailyLogRepository) GetForDay(ctx context.Context, userID shared.UserID, day shared.Day) (*behavior.DailyLog, error) {
	query := `
		SELECT id, user_id, day, stress, sleep, mood, workload, nutrition,
			   note, submitted_at, created_at
		FROM daily_logs
		WHERE user_id = $1 AND day = $2
	`

	row := r.conn.QueryRow(ctx, query, userID.String(), day.Time())
	return r.scanDailyLog(row)
}

// ListRecent returns up to n logs ordered most-recent-first by submission time.
func (r *DailyLogRepository) ListRecent(ctx context.Context, userID shared.UserID, n int) ([]*behavior.DailyLog, error) {
	query := `
		SELECT id, user_id, day, stress, sleep, mood, workload, nutrition,
			   note, submitted_at, created_at
		FROM daily_logs
		WHERE user_id = $1
		ORDER BY submitted_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID.String(), n)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent daily logs: %w", err)
	}
	defer rows.Close()

	return r.scanDailyLogs(rows)
}

// ListOldest returns up to n logs ordered oldest-first by submission time.
func (r *DailyLogRepository) ListOldest(ctx context.Context, userID shared.UserID, n int) ([]*behavior.DailyLog, error) {
	query := `
		SELECT id, user_id, day, stress, sleep, mood, workload, nutrition,
			   note, submitted_at, created_at
		FROM daily_logs
		WHERE user_id = $1
		ORDER BY submitted_at ASC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID.String(), n)
	if err != nil {
		return nil, fmt.Errorf("failed to list oldest daily logs: %w", err)
	}
	defer rows.Close()

	return r.scanDailyLogs(rows)
}

// CountForUser returns how many logs exist for a user.
func (r *DailyLogRepository) CountForUser(ctx context.Context, userID shared.UserID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM daily_logs WHERE user_id = $1",
		userID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count daily logs: %w", err)
	}
	return count, nil
}

// ListUsersWithoutLogForDay returns users that have logged at least once but
// have no entry for the given day. The missed-checkin worker pages through
// these to publish reminder events.
func (r *DailyLogRepository) ListUsersWithoutLogForDay(ctx context.Context, day shared.Day, limit int) ([]shared.UserID, error) {
	query := `
		SELECT DISTINCT user_id
		FROM daily_logs
		WHERE user_id NOT IN (
			SELECT user_id FROM daily_logs WHERE day = $1
		)
		ORDER BY user_id
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, day.Time(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users without log: %w", err)
	}
	defer rows.Close()

	var users []shared.UserID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, shared.UserID(id))
	}

	return users, rows.Err()
}

// ListActiveUsers returns users that have submitted at least one log since the
// given time. The weekly digest job iterates over these.
func (r *DailyLogRepository) ListActiveUsers(ctx context.Context, since time.Time, limit int) ([]shared.UserID, error) {
	query := `
		SELECT DISTINCT user_id
		FROM daily_logs
		WHERE submitted_at >= $1
		ORDER BY user_id
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	defer rows.Close()

	var users []shared.UserID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, shared.UserID(id))
	}

	return users, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *DailyLogRepository) scanDailyLog(row pgx.Row) (*behavior.DailyLog, error) {
	log, err := scanDailyLogFields(row)
	if IsNoRows(err) {
		return nil, shared.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan daily log: %w", err)
	}
	return log, nil
}

func (r *DailyLogRepository) scanDailyLogs(rows pgx.Rows) ([]*behavior.DailyLog, error) {
	var logs []*behavior.DailyLog
	for rows.Next() {
		log, err := scanDailyLogFields(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return logs, nil
}

func scanDailyLogFields(row pgx.Row) (*behavior.DailyLog, error) {
	var log behavior.DailyLog
	var userID string
	var day time.Time
	var stress, sleep, mood, workload, nutrition int

	err := row.Scan(
		&log.ID,
		&userID,
		&day,
		&stress,
		&sleep,
		&mood,
		&workload,
		&nutrition,
		&log.Note,
		&log.Timestamp,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	log.UserID = shared.UserID(userID)
	log.Day = shared.DayOf(day, day.Location())
	log.Metrics = behavior.Metrics{
		Stress:    behavior.Rating(stress),
		Sleep:     behavior.Rating(sleep),
		Mood:      behavior.Rating(mood),
		Workload:  behavior.Rating(workload),
		Nutrition: behavior.Rating(nutrition),
	}

	return &log, nil
}
