package eventhandler

import (
	"context"
	"log/slog"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// StudentNotifier delivers student-facing nudges. The kind discriminates the
// notification on the receiving side.
type StudentNotifier interface {
	NotifyStudent(ctx context.Context, userID, kind, message string) error
}

// OnCheckinMissedHandler subscribes to shared.EventCheckinMissed and nudges
// the student to log their day.
type OnCheckinMissedHandler struct {
	notifier StudentNotifier
	logger   *slog.Logger
}

// NewOnCheckinMissedHandler creates a new OnCheckinMissedHandler.
func NewOnCheckinMissedHandler(notifier StudentNotifier, logger *slog.Logger) *OnCheckinMissedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnCheckinMissedHandler{notifier: notifier, logger: logger}
}

// Handle implements shared.EventHandler.
func (h *OnCheckinMissedHandler) Handle(ctx context.Context, event shared.Event) error {
	e, ok := event.(shared.CheckinMissedEvent)
	if !ok {
		return nil
	}

	message := "You haven't checked in today. A quick log keeps your trend accurate."
	if err := h.notifier.NotifyStudent(ctx, e.UserID, "checkin_reminder", message); err != nil {
		h.logger.Error("checkin reminder failed", "user_id", e.UserID, "error", err)
		return err
	}

	return nil
}

// Register subscribes the handler on the bus.
func (h *OnCheckinMissedHandler) Register(bus shared.EventBus) error {
	return bus.Subscribe(shared.EventCheckinMissed, h)
}
