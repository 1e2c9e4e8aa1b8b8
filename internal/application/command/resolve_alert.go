package command

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/alert"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COUNSELOR COMMANDS
// Resolving an alert and overriding a risk level are the only two write
// operations outside the student's own pipeline. Both are audit-friendly:
// the resolve flips one flag, the override appends a row and mutates nothing.
// ══════════════════════════════════════════════════════════════════════════════

// ResolveAlertCommand marks an alert handled by a counselor.
type ResolveAlertCommand struct {
	AlertID     string
	CounselorID string
}

// Validate validates the command.
func (c ResolveAlertCommand) Validate() error {
	if strings.TrimSpace(c.AlertID) == "" {
		return shared.WrapError("alert", "Resolve", shared.ErrInvalidID, "alert id is required", nil)
	}
	if strings.TrimSpace(c.CounselorID) == "" {
		return shared.WrapError("alert", "Resolve", shared.ErrUnauthenticated, "counselor identity missing", nil)
	}
	return nil
}

// ResolveAlertHandler handles ResolveAlertCommand.
type ResolveAlertHandler struct {
	alerts alert.Repository
	bus    shared.EventBus
	now    func() time.Time
}

// NewResolveAlertHandler creates a new ResolveAlertHandler.
func NewResolveAlertHandler(alerts alert.Repository, bus shared.EventBus) *ResolveAlertHandler {
	return &ResolveAlertHandler{
		alerts: alerts,
		bus:    bus,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes the resolve alert command.
func (h *ResolveAlertHandler) Handle(ctx context.Context, cmd ResolveAlertCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	a, err := h.alerts.GetByID(ctx, cmd.AlertID)
	if err != nil {
		if shared.IsNotFound(err) {
			return err
		}
		return shared.WrapStoreError("alert", "Resolve.Get", err)
	}

	if err := a.Resolve(cmd.CounselorID, h.now()); err != nil {
		return err
	}

	if err := h.alerts.MarkResolved(ctx, a); err != nil {
		return shared.WrapStoreError("alert", "Resolve.Save", err)
	}

	if h.bus != nil {
		_ = h.bus.Publish(ctx, shared.AlertResolvedEvent{
			BaseEvent: shared.NewBaseEvent(shared.EventAlertResolved, a.UserID.String()),
			UserID:    a.UserID.String(),
			AlertID:   a.ID,
		})
	}

	return nil
}

// OverrideRiskLevelCommand records a counselor's manual risk level call.
type OverrideRiskLevelCommand struct {
	UserID      string
	NewLevel    string
	CounselorID string
	Reason      string
}

// Validate validates the command.
func (c OverrideRiskLevelCommand) Validate() error {
	if !shared.UserID(c.UserID).IsValid() {
		return shared.WrapError("risk", "Override", shared.ErrInvalidID, "invalid user id", nil)
	}
	if strings.TrimSpace(c.CounselorID) == "" {
		return shared.WrapError("risk", "Override", shared.ErrUnauthenticated, "counselor identity missing", nil)
	}
	if !risk.RiskLevel(c.NewLevel).IsValid() {
		return shared.WrapError("risk", "Override", shared.ErrInvalidInput, "unknown risk level", nil)
	}
	return nil
}

// OverrideRiskLevelHandler handles OverrideRiskLevelCommand.
type OverrideRiskLevelHandler struct {
	overrides risk.OverrideRepository
	newID     func() string
	now       func() time.Time
}

// NewOverrideRiskLevelHandler creates a new OverrideRiskLevelHandler.
func NewOverrideRiskLevelHandler(overrides risk.OverrideRepository) *OverrideRiskLevelHandler {
	return &OverrideRiskLevelHandler{
		overrides: overrides,
		newID:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes the override command.
func (h *OverrideRiskLevelHandler) Handle(ctx context.Context, cmd OverrideRiskLevelCommand) (*risk.Override, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	override, err := risk.NewOverride(
		h.newID(),
		shared.UserID(cmd.UserID),
		risk.RiskLevel(cmd.NewLevel),
		cmd.CounselorID,
		cmd.Reason,
		h.now(),
	)
	if err != nil {
		return nil, err
	}

	if err := h.overrides.Append(ctx, override); err != nil {
		return nil, shared.WrapStoreError("risk", "Override.Append", err)
	}

	return override, nil
}
