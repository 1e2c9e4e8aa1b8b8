package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/planner"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLANNER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PlannerRepository implements planner.Repository for PostgreSQL.
type PlannerRepository struct {
	conn *Connection
}

// NewPlannerRepository creates a new PlannerRepository.
func NewPlannerRepository(conn *Connection) *PlannerRepository {
	return &PlannerRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tasks
// ─────────────────────────────────────────────────────────────────────────────

// AddTask stores a new task.
func (r *PlannerRepository) AddTask(ctx context.Context, t *planner.Task) error {
	query := `
		INSERT INTO planner_tasks (id, user_id, title, description, due, reminder_time, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.conn.Exec(ctx, query,
		t.ID,
		t.UserID.String(),
		t.Title,
		t.Description,
		t.Due,
		t.ReminderTime,
		t.Completed,
		t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add planner task: %w", err)
	}

	return nil
}

// GetTask returns a task by its identifier.
func (r *PlannerRepository) GetTask(ctx context.Context, id string) (*planner.Task, error) {
	query := `
		SELECT id, user_id, title, description, due, reminder_time, completed, created_at
		FROM planner_tasks
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	t, err := scanTaskFields(row)
	if IsNoRows(err) {
		return nil, shared.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get planner task: %w", err)
	}
	return t, nil
}

// MarkCompleted persists a completion. Completing twice is caught at the row
// level, mirroring the entity guard.
func (r *PlannerRepository) MarkCompleted(ctx context.Context, t *planner.Task) error {
	query := `
		UPDATE planner_tasks
		SET completed = TRUE
		WHERE id = $1 AND completed = FALSE
	`

	result, err := r.conn.Exec(ctx, query, t.ID)
	if err != nil {
		return fmt.Errorf("failed to mark task completed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrTaskAlreadyClosed
	}

	return nil
}

// ListUpcoming returns incomplete tasks due from now on, soonest first.
func (r *PlannerRepository) ListUpcoming(ctx context.Context, userID shared.UserID, limit int) ([]*planner.Task, error) {
	query := `
		SELECT id, user_id, title, description, due, reminder_time, completed, created_at
		FROM planner_tasks
		WHERE user_id = $1 AND completed = FALSE AND due >= $2
		ORDER BY due ASC
		LIMIT $3
	`

	rows, err := r.conn.Query(ctx, query, userID.String(), time.Now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*planner.Task
	for rows.Next() {
		t, err := scanTaskFields(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan planner task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Deadlines
// ─────────────────────────────────────────────────────────────────────────────

// AddDeadline stores a new deadline.
func (r *PlannerRepository) AddDeadline(ctx context.Context, d *planner.Deadline) error {
	query := `
		INSERT INTO deadlines (id, user_id, title, course, due_date, deadline_type, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		d.ID,
		d.UserID.String(),
		d.Title,
		d.Course,
		d.Date,
		string(d.Type),
		string(d.Priority),
	)
	if err != nil {
		return fmt.Errorf("failed to add deadline: %w", err)
	}

	return nil
}

// ListDeadlines returns a user's deadlines ordered by date.
func (r *PlannerRepository) ListDeadlines(ctx context.Context, userID shared.UserID) ([]*planner.Deadline, error) {
	query := `
		SELECT id, user_id, title, course, due_date, deadline_type, priority
		FROM deadlines
		WHERE user_id = $1
		ORDER BY due_date ASC
	`

	rows, err := r.conn.Query(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list deadlines: %w", err)
	}
	defer rows.Close()

	var deadlines []*planner.Deadline
	for rows.Next() {
		var d planner.Deadline
		var userID, deadlineType, priority string

		err := rows.Scan(&d.ID, &userID, &d.Title, &d.Course, &d.Date, &deadlineType, &priority)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deadline: %w", err)
		}

		d.UserID = shared.UserID(userID)
		d.Type = planner.DeadlineType(deadlineType)
		d.Priority = planner.Priority(priority)
		deadlines = append(deadlines, &d)
	}

	return deadlines, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanTaskFields(row pgx.Row) (*planner.Task, error) {
	var t planner.Task
	var userID string

	err := row.Scan(
		&t.ID,
		&userID,
		&t.Title,
		&t.Description,
		&t.Due,
		&t.ReminderTime,
		&t.Completed,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.UserID = shared.UserID(userID)
	return &t, nil
}
