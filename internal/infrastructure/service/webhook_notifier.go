// Package service contains outbound adapters: implementations of the
// application layer's notification ports against external systems.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/pkg/circuitbreaker"
	"github.com/oredonut/campuspulse-ai-v2/pkg/retry"
	"github.com/oredonut/campuspulse-ai-v2/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEBHOOK NOTIFIER
// ══════════════════════════════════════════════════════════════════════════════

// WebhookNotifierConfig contains configuration for the webhook notifier.
type WebhookNotifierConfig struct {
	// CounselorURL receives high-risk alert notifications. Empty disables
	// counselor delivery (events are logged and dropped).
	CounselorURL string

	// StudentURL receives student-facing nudges (missed check-ins, weekly
	// digests). Empty disables student delivery.
	StudentURL string

	// AuthToken is sent as a bearer token when non-empty.
	AuthToken string

	// Timeout bounds a single delivery attempt.
	Timeout time.Duration

	// QuietHoursStart/End suppress student notifications overnight, in the
	// campus timezone. Equal values disable the window. Counselor alerts
	// are never suppressed.
	QuietHoursStart int
	QuietHoursEnd   int
	Location        *time.Location
}

// DefaultWebhookNotifierConfig returns sensible defaults.
func DefaultWebhookNotifierConfig() WebhookNotifierConfig {
	return WebhookNotifierConfig{
		Timeout:         10 * time.Second,
		QuietHoursStart: timeutil.DefaultQuietStartHour,
		QuietHoursEnd:   timeutil.DefaultQuietEndHour,
		Location:        time.UTC,
	}
}

// WebhookNotifier delivers notifications by POSTing JSON to configured
// endpoints. Deliveries are retried with backoff; a circuit breaker stops
// hammering an endpoint that is down. Notification loss is acceptable - the
// unresolved alert list in postgres is the durable record.
type WebhookNotifier struct {
	config     WebhookNotifierConfig
	httpClient *http.Client
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
	logger     *slog.Logger

	now func() time.Time
}

// WithClock overrides the notifier's clock. Tests use this.
func (n *WebhookNotifier) WithClock(now func() time.Time) *WebhookNotifier {
	n.now = now
	return n
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(config WebhookNotifierConfig, logger *slog.Logger) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	n := &WebhookNotifier{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		retrier:    retry.WebhookRetrier(),
		logger:     logger,
		now:        time.Now,
	}

	n.breaker = circuitbreaker.NotificationBreaker(func(name string, from, to circuitbreaker.State) {
		logger.Warn("notifier circuit state changed",
			"breaker", name,
			"from", from.String(),
			"to", to.String(),
		)
	})

	return n
}

// webhookPayload is the JSON body POSTed to notification endpoints.
type webhookPayload struct {
	Kind    string    `json:"kind"`
	UserID  string    `json:"user_id"`
	AlertID string    `json:"alert_id,omitempty"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// NotifyCounselor implements eventhandler.Notifier.
func (n *WebhookNotifier) NotifyCounselor(ctx context.Context, userID, alertID, message string) error {
	if n.config.CounselorURL == "" {
		n.logger.Info("counselor webhook not configured, dropping notification",
			"user_id", userID,
			"alert_id", alertID,
		)
		return nil
	}

	return n.deliver(ctx, n.config.CounselorURL, webhookPayload{
		Kind:    "counselor_alert",
		UserID:  userID,
		AlertID: alertID,
		Message: message,
		SentAt:  time.Now().UTC(),
	})
}

// NotifyStudent implements eventhandler.StudentNotifier.
func (n *WebhookNotifier) NotifyStudent(ctx context.Context, userID, kind, message string) error {
	if n.config.StudentURL == "" {
		n.logger.Info("student webhook not configured, dropping notification",
			"user_id", userID,
			"kind", kind,
		)
		return nil
	}

	loc := n.config.Location
	if loc == nil {
		loc = time.UTC
	}
	if timeutil.InQuietHours(n.now(), n.config.QuietHoursStart, n.config.QuietHoursEnd, loc) {
		n.logger.Info("quiet hours, dropping student notification",
			"user_id", userID,
			"kind", kind,
		)
		return nil
	}

	return n.deliver(ctx, n.config.StudentURL, webhookPayload{
		Kind:    kind,
		UserID:  userID,
		Message: message,
		SentAt:  time.Now().UTC(),
	})
}

// deliver POSTs the payload with retry inside the circuit breaker. The
// breaker wraps the whole retried call so its failure count reflects
// deliveries, not individual attempts.
func (n *WebhookNotifier) deliver(ctx context.Context, url string, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("webhook_notifier: marshal payload: %w", err)
	}

	return n.breaker.Execute(ctx, func(ctx context.Context) error {
		return n.retrier.Do(ctx, func(ctx context.Context) error {
			return n.post(ctx, url, body)
		})
	})
}

// post performs a single delivery attempt, classifying the failure for the
// retrier: server-side and transport errors are retryable, client-side
// rejections are permanent.
func (n *WebhookNotifier) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.config.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+n.config.AuthToken)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return retry.Retryable(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return retry.Retryable(fmt.Errorf("webhook returned %d", resp.StatusCode))
	default:
		return retry.Permanent(fmt.Errorf("webhook returned %d", resp.StatusCode))
	}
}
