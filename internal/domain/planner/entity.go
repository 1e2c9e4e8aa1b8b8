// Package planner contains the student's planner: one-off tasks with
// reminders and dated deadlines. The risk engine never reads these; the
// dashboard uses them for upcoming-task lists and exam-mode signaling.
package planner

import (
	"context"
	"strings"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// Priority ranks a deadline's urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DeadlineType categorizes a deadline.
type DeadlineType string

const (
	DeadlineAssignment DeadlineType = "assignment"
	DeadlineExam       DeadlineType = "exam"
	DeadlineProject    DeadlineType = "project"
)

// Task is a single planner entry with an optional reminder.
type Task struct {
	ID           string
	UserID       shared.UserID
	Title        string
	Description  string
	Due          time.Time
	ReminderTime string // "HH:MM", empty means no reminder
	Completed    bool
	CreatedAt    time.Time
}

// NewTask builds a validated task.
func NewTask(id string, userID shared.UserID, title, description string, due time.Time, reminderTime string, now time.Time) (*Task, error) {
	if !userID.IsValid() {
		return nil, shared.WrapError("planner", "NewTask", shared.ErrInvalidID, "invalid user id", nil)
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.WrapError("planner", "NewTask", shared.ErrEmptyValue, "task title is required", nil)
	}
	return &Task{
		ID:           id,
		UserID:       userID,
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		Due:          due,
		ReminderTime: reminderTime,
		CreatedAt:    now,
	}, nil
}

// Complete marks the task done. Completing twice is an error.
func (t *Task) Complete() error {
	if t.Completed {
		return shared.ErrTaskAlreadyClosed
	}
	t.Completed = true
	return nil
}

// Deadline is a dated academic obligation used for exam-mode and
// deadline-cluster signals on the dashboard.
type Deadline struct {
	ID       string
	UserID   shared.UserID
	Title    string
	Course   string
	Date     time.Time
	Type     DeadlineType
	Priority Priority
}

// examWindowDays is how far ahead an exam triggers exam mode.
const examWindowDays = 7

// clusterMinimum is how many near-term deadlines make a cluster.
const clusterMinimum = 3

// Signals are presentation-level flags derived from deadlines. They feed the
// dashboard only and are not part of risk scoring.
type Signals struct {
	ExamMode        bool
	ExamsSoon       []*Deadline
	DeadlineCluster bool
	ClusterCount    int
}

// DeriveSignals computes exam-mode and deadline-cluster flags: an exam within
// the next examWindowDays days turns exam mode on, and clusterMinimum or more
// deadlines inside the same window mark a cluster.
func DeriveSignals(deadlines []*Deadline, now time.Time) Signals {
	var signals Signals
	horizon := now.AddDate(0, 0, examWindowDays)

	for _, d := range deadlines {
		if d.Date.Before(now) || d.Date.After(horizon) {
			continue
		}
		signals.ClusterCount++
		if d.Type == DeadlineExam {
			signals.ExamsSoon = append(signals.ExamsSoon, d)
		}
	}

	signals.ExamMode = len(signals.ExamsSoon) > 0
	signals.DeadlineCluster = signals.ClusterCount >= clusterMinimum
	return signals
}

// Repository is the persistence port for planner tasks and deadlines.
type Repository interface {
	// AddTask stores a new task.
	AddTask(ctx context.Context, task *Task) error

	// GetTask returns a task, or shared.ErrTaskNotFound.
	GetTask(ctx context.Context, id string) (*Task, error)

	// MarkCompleted persists a completion.
	MarkCompleted(ctx context.Context, task *Task) error

	// ListUpcoming returns incomplete tasks due from now on, soonest first.
	ListUpcoming(ctx context.Context, userID shared.UserID, limit int) ([]*Task, error)

	// AddDeadline stores a new deadline.
	AddDeadline(ctx context.Context, deadline *Deadline) error

	// ListDeadlines returns a user's deadlines ordered by date.
	ListDeadlines(ctx context.Context, userID shared.UserID) ([]*Deadline, error)
}
