package command

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/planner"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLANNER COMMANDS
// Adding and completing tasks, and registering deadlines. The risk engine
// never touches these; the dashboard and the schedule predictor read them.
// ══════════════════════════════════════════════════════════════════════════════

// AddPlannerTaskCommand creates a planner task.
type AddPlannerTaskCommand struct {
	UserID       string
	Title        string
	Description  string
	Due          time.Time
	ReminderTime string
}

// Validate validates the command.
func (c AddPlannerTaskCommand) Validate() error {
	if !shared.UserID(c.UserID).IsValid() {
		return shared.WrapError("planner", "AddTask", shared.ErrUnauthenticated, "caller identity missing", nil)
	}
	if strings.TrimSpace(c.Title) == "" {
		return shared.WrapError("planner", "AddTask", shared.ErrEmptyValue, "task title is required", nil)
	}
	return nil
}

// PlannerHandler handles planner write commands.
type PlannerHandler struct {
	tasks planner.Repository
	bus   shared.EventBus
	newID func() string
	now   func() time.Time
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(tasks planner.Repository, bus shared.EventBus) *PlannerHandler {
	return &PlannerHandler{
		tasks: tasks,
		bus:   bus,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// AddTask stores a new task.
func (h *PlannerHandler) AddTask(ctx context.Context, cmd AddPlannerTaskCommand) (*planner.Task, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	task, err := planner.NewTask(h.newID(), shared.UserID(cmd.UserID), cmd.Title, cmd.Description, cmd.Due, cmd.ReminderTime, h.now())
	if err != nil {
		return nil, err
	}

	if err := h.tasks.AddTask(ctx, task); err != nil {
		return nil, shared.WrapStoreError("planner", "AddTask", err)
	}

	if h.bus != nil {
		_ = h.bus.Publish(ctx, shared.BaseEvent{
			Type:        shared.EventTaskAdded,
			Timestamp:   h.now(),
			AggregateId: cmd.UserID,
		})
	}

	return task, nil
}

// CompleteTask marks a task done.
func (h *PlannerHandler) CompleteTask(ctx context.Context, userID, taskID string) error {
	if !shared.UserID(userID).IsValid() {
		return shared.WrapError("planner", "Complete", shared.ErrUnauthenticated, "caller identity missing", nil)
	}

	task, err := h.tasks.GetTask(ctx, taskID)
	if err != nil {
		if shared.IsNotFound(err) {
			return err
		}
		return shared.WrapStoreError("planner", "Complete.Get", err)
	}

	// Tasks belong to their owner; a counselor key does not grant planner writes.
	if task.UserID.String() != userID {
		return shared.ErrForbidden
	}

	if err := task.Complete(); err != nil {
		return err
	}

	if err := h.tasks.MarkCompleted(ctx, task); err != nil {
		return shared.WrapStoreError("planner", "Complete.Save", err)
	}

	if h.bus != nil {
		_ = h.bus.Publish(ctx, shared.BaseEvent{
			Type:        shared.EventTaskCompleted,
			Timestamp:   h.now(),
			AggregateId: userID,
		})
	}

	return nil
}

// AddDeadlineCommand registers a dated academic obligation.
type AddDeadlineCommand struct {
	UserID   string
	Title    string
	Course   string
	Date     time.Time
	Type     string
	Priority string
}

// AddDeadline stores a new deadline.
func (h *PlannerHandler) AddDeadline(ctx context.Context, cmd AddDeadlineCommand) (*planner.Deadline, error) {
	if !shared.UserID(cmd.UserID).IsValid() {
		return nil, shared.WrapError("planner", "AddDeadline", shared.ErrUnauthenticated, "caller identity missing", nil)
	}
	if strings.TrimSpace(cmd.Title) == "" {
		return nil, shared.WrapError("planner", "AddDeadline", shared.ErrEmptyValue, "deadline title is required", nil)
	}

	deadline := &planner.Deadline{
		ID:       h.newID(),
		UserID:   shared.UserID(cmd.UserID),
		Title:    strings.TrimSpace(cmd.Title),
		Course:   strings.TrimSpace(cmd.Course),
		Date:     cmd.Date,
		Type:     planner.DeadlineType(cmd.Type),
		Priority: planner.Priority(cmd.Priority),
	}

	if err := h.tasks.AddDeadline(ctx, deadline); err != nil {
		return nil, shared.WrapStoreError("planner", "AddDeadline", err)
	}

	return deadline, nil
}
