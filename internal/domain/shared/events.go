// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Behavior events
	EventDailyLogSubmitted EventType = "behavior.log_submitted"
	EventDailyLogReplaced  EventType = "behavior.log_replaced"

	// Risk events
	EventBaselineEstablished EventType = "risk.baseline_established"
	EventAssessmentRecorded  EventType = "risk.assessment_recorded"
	EventHighRiskDetected    EventType = "risk.high_detected"
	EventRiskAccelerating    EventType = "risk.accelerating"

	// Alert events
	EventAlertRaised   EventType = "alert.raised"
	EventAlertResolved EventType = "alert.resolved"

	// Planner events
	EventTaskAdded     EventType = "planner.task_added"
	EventTaskCompleted EventType = "planner.task_completed"

	// System events
	EventWeeklySummaryReady EventType = "system.weekly_summary_ready"
	EventCheckinMissed      EventType = "system.checkin_missed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes a single domain event.
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
}

// EventHandlerFunc adapts a plain function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event Event) error

// Handle implements EventHandler.
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// EventBus publishes domain events to subscribed handlers.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler) error
	SubscribeAll(handler EventHandler) error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// Payload implements Event interface with the base fields only.
// Concrete events override this with their own data.
func (e BaseEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"type":         string(e.Type),
		"timestamp":    e.Timestamp,
		"aggregate_id": e.AggregateId,
	}
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Concrete events
// ─────────────────────────────────────────────────────────────────────────────

// DailyLogSubmittedEvent fires when a user submits (or replaces) a daily log.
type DailyLogSubmittedEvent struct {
	BaseEvent
	UserID   string    `json:"user_id"`
	Day      time.Time `json:"day"`
	Replaced bool      `json:"replaced"`
}

// Payload implements Event.
func (e DailyLogSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":  e.UserID,
		"day":      e.Day,
		"replaced": e.Replaced,
	}
}

// BaselineEstablishedEvent fires exactly once per user, when the 4-log
// baseline is first persisted.
type BaselineEstablishedEvent struct {
	BaseEvent
	UserID string `json:"user_id"`
}

// Payload implements Event.
func (e BaselineEstablishedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"user_id": e.UserID}
}

// AssessmentRecordedEvent fires after every monitoring-phase evaluation.
type AssessmentRecordedEvent struct {
	BaseEvent
	UserID       string  `json:"user_id"`
	AssessmentID string  `json:"assessment_id"`
	RiskScore    float64 `json:"risk_score"`
	RiskLevel    string  `json:"risk_level"`
}

// Payload implements Event.
func (e AssessmentRecordedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":       e.UserID,
		"assessment_id": e.AssessmentID,
		"risk_score":    e.RiskScore,
		"risk_level":    e.RiskLevel,
	}
}

// HighRiskDetectedEvent fires when an evaluation lands in the High band.
// The alert row has already been written when this is published.
type HighRiskDetectedEvent struct {
	BaseEvent
	UserID          string  `json:"user_id"`
	AlertID         string  `json:"alert_id"`
	RiskScore       float64 `json:"risk_score"`
	BehavioralState string  `json:"behavioral_state"`
	Insight         string  `json:"insight"`
}

// Payload implements Event.
func (e HighRiskDetectedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":          e.UserID,
		"alert_id":         e.AlertID,
		"risk_score":       e.RiskScore,
		"behavioral_state": e.BehavioralState,
	}
}

// AlertResolvedEvent fires when a counselor resolves an alert.
type AlertResolvedEvent struct {
	BaseEvent
	UserID  string `json:"user_id"`
	AlertID string `json:"alert_id"`
}

// Payload implements Event.
func (e AlertResolvedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":  e.UserID,
		"alert_id": e.AlertID,
	}
}

// WeeklySummaryReadyEvent fires from the worker when a user's weekly risk
// rollup has been computed.
type WeeklySummaryReadyEvent struct {
	BaseEvent
	UserID         string  `json:"user_id"`
	AverageScore   float64 `json:"average_score"`
	SampleCount    int     `json:"sample_count"`
	Classification string  `json:"classification"`
}

// Payload implements Event.
func (e WeeklySummaryReadyEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":        e.UserID,
		"average_score":  e.AverageScore,
		"sample_count":   e.SampleCount,
		"classification": e.Classification,
	}
}

// CheckinMissedEvent fires from the worker when a user has not logged by the
// configured cutoff hour.
type CheckinMissedEvent struct {
	BaseEvent
	UserID string    `json:"user_id"`
	Day    time.Time `json:"day"`
}

// Payload implements Event.
func (e CheckinMissedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id": e.UserID,
		"day":     e.Day,
	}
}
