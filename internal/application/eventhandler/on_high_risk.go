// Package eventhandler contains subscribers that react to domain events.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON HIGH RISK
// Reacts to risk.high_detected: pushes a notification to the counselor
// channel. The alert row is already durable by the time this runs, so a
// failed notification loses nothing - the unresolved alert list is the
// source of truth and this is purely a nudge.
// ══════════════════════════════════════════════════════════════════════════════

// Notifier delivers counselor-facing notifications. Implementations live in
// internal/infrastructure/service and own their retry policy; the engine
// itself never retries.
type Notifier interface {
	NotifyCounselor(ctx context.Context, userID, alertID, message string) error
}

// OnHighRiskHandler subscribes to shared.EventHighRiskDetected.
type OnHighRiskHandler struct {
	notifier Notifier
	logger   *slog.Logger
}

// NewOnHighRiskHandler creates a new OnHighRiskHandler.
func NewOnHighRiskHandler(notifier Notifier, logger *slog.Logger) *OnHighRiskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnHighRiskHandler{notifier: notifier, logger: logger}
}

// Handle implements shared.EventHandler.
func (h *OnHighRiskHandler) Handle(ctx context.Context, event shared.Event) error {
	e, ok := event.(shared.HighRiskDetectedEvent)
	if !ok {
		return nil
	}

	message := fmt.Sprintf("High burnout risk for student %s (score %.2f, %s). %s",
		e.UserID, e.RiskScore, e.BehavioralState, e.Insight)

	if err := h.notifier.NotifyCounselor(ctx, e.UserID, e.AlertID, message); err != nil {
		h.logger.Error("counselor notification failed",
			"user_id", e.UserID,
			"alert_id", e.AlertID,
			"error", err,
		)
		return err
	}

	h.logger.Info("counselor notified of high risk",
		"user_id", e.UserID,
		"alert_id", e.AlertID,
	)
	return nil
}

// Register subscribes the handler on the bus.
func (h *OnHighRiskHandler) Register(bus shared.EventBus) error {
	return bus.Subscribe(shared.EventHighRiskDetected, h)
}
