// Package alert contains counselor-facing alerts raised by the risk engine.
// An alert is created only when an evaluation lands in the High band and is
// resolved only by an explicit counselor action.
package alert

import (
	"context"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// Type tags the kind of alert. There is a single fixed tag today; the column
// exists so future alert kinds do not need a migration.
type Type string

// TypeMentalHealthRisk is raised on every High evaluation.
const TypeMentalHealthRisk Type = "mental_health_risk"

// Alert is one counselor-facing notification row.
type Alert struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// UserID - the student the alert concerns.
	UserID shared.UserID

	// Type - fixed alert tag.
	Type Type

	// AssessmentID - the assessment whose High level raised this alert.
	AssessmentID string

	// Resolved - flips false→true once, via counselor action only.
	Resolved bool

	// ResolvedBy - counselor identifier, set on resolution.
	ResolvedBy string

	// ResolvedAt - when the alert was resolved.
	ResolvedAt *time.Time

	// Timestamp - when the alert was raised.
	Timestamp time.Time
}

// NewAlert builds an unresolved alert for a High assessment.
func NewAlert(id string, userID shared.UserID, assessmentID string, now time.Time) *Alert {
	return &Alert{
		ID:           id,
		UserID:       userID,
		Type:         TypeMentalHealthRisk,
		AssessmentID: assessmentID,
		Resolved:     false,
		Timestamp:    now,
	}
}

// Resolve marks the alert resolved. Resolving twice is an error - the flag
// only ever flips in one direction.
func (a *Alert) Resolve(counselorID string, now time.Time) error {
	if a.Resolved {
		return shared.ErrAlertAlreadyClosed
	}
	a.Resolved = true
	a.ResolvedBy = counselorID
	a.ResolvedAt = &now
	return nil
}

// Repository is the persistence port for alerts.
type Repository interface {
	// Append stores a new alert.
	Append(ctx context.Context, alert *Alert) error

	// GetByID returns an alert, or shared.ErrAlertNotFound.
	GetByID(ctx context.Context, id string) (*Alert, error)

	// ListUnresolved returns unresolved alerts, newest first.
	ListUnresolved(ctx context.Context, userID shared.UserID, limit int) ([]*Alert, error)

	// CountUnresolved returns the number of open alerts for a user.
	CountUnresolved(ctx context.Context, userID shared.UserID) (int, error)

	// MarkResolved persists a resolution.
	MarkResolved(ctx context.Context, alert *Alert) error
}
