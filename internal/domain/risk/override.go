package risk

import (
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// Override is a counselor's manual correction of a user's risk level.
// Overrides are append-only audit records: the automated assessments stay
// untouched, and presentation layers decide whether to show the override.
type Override struct {
	ID              string
	UserID          shared.UserID
	OverriddenLevel RiskLevel
	CounselorID     string
	Reason          string
	Timestamp       time.Time
}

// NewOverride builds a validated override record.
func NewOverride(id string, userID shared.UserID, level RiskLevel, counselorID, reason string, now time.Time) (*Override, error) {
	if !userID.IsValid() {
		return nil, shared.WrapError("risk", "NewOverride", shared.ErrInvalidID, "invalid user id", nil)
	}
	if !level.IsValid() {
		return nil, shared.WrapError("risk", "NewOverride", shared.ErrInvalidInput, "unknown risk level", nil)
	}
	return &Override{
		ID:              id,
		UserID:          userID,
		OverriddenLevel: level,
		CounselorID:     counselorID,
		Reason:          reason,
		Timestamp:       now,
	}, nil
}
