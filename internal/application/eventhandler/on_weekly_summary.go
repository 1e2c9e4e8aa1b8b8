package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// OnWeeklySummaryHandler subscribes to shared.EventWeeklySummaryReady and
// sends the student their weekly digest.
type OnWeeklySummaryHandler struct {
	notifier StudentNotifier
	logger   *slog.Logger
}

// NewOnWeeklySummaryHandler creates a new OnWeeklySummaryHandler.
func NewOnWeeklySummaryHandler(notifier StudentNotifier, logger *slog.Logger) *OnWeeklySummaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnWeeklySummaryHandler{notifier: notifier, logger: logger}
}

// Handle implements shared.EventHandler.
func (h *OnWeeklySummaryHandler) Handle(ctx context.Context, event shared.Event) error {
	e, ok := event.(shared.WeeklySummaryReadyEvent)
	if !ok {
		return nil
	}

	message := fmt.Sprintf("Your week: %s (average risk %.2f over %d check-ins).",
		e.Classification, e.AverageScore, e.SampleCount)

	if err := h.notifier.NotifyStudent(ctx, e.UserID, "weekly_digest", message); err != nil {
		h.logger.Error("weekly digest delivery failed", "user_id", e.UserID, "error", err)
		return err
	}

	return nil
}

// Register subscribes the handler on the bus.
func (h *OnWeeklySummaryHandler) Register(bus shared.EventBus) error {
	return bus.Subscribe(shared.EventWeeklySummaryReady, h)
}
