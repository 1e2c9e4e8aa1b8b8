package risk

import (
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/behavior"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// Assessment is one immutable risk-score record. The pipeline appends a new
// Assessment on every monitoring-phase run; nothing ever mutates a stored one.
// The most recent TrendWindow records are the authoritative trend window.
type Assessment struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// UserID - the student this assessment belongs to.
	UserID shared.UserID

	// RiskScore - the clamped composite score in [0,1].
	RiskScore float64

	// RiskLevel - discrete band for the score.
	RiskLevel RiskLevel

	// RecoveryStatus - direction of the last three scores.
	RecoveryStatus RecoveryStatus

	// AccelerationStatus - second-order escalation signal.
	AccelerationStatus AccelerationStatus

	// StressVelocity - short-horizon stress derivative in [-1,1].
	StressVelocity float64

	// BehavioralState - named pattern from the classifier.
	BehavioralState BehavioralState

	// Flags - fired deviation flags in metric order.
	Flags Flags

	// Insight - rendered summary text.
	Insight string

	// PreventiveMeasures - one recommendation per fired flag.
	PreventiveMeasures []string

	// Timestamp - when the evaluation ran. Trend reads order by this.
	Timestamp time.Time
}

// EvaluateDay runs the full monitoring-phase pipeline for one day:
// deviation, weight boosting, velocity, score, level, flags, state, trend,
// and insight text. It is a pure function of {baseline, ordered recent logs,
// ordered recent prior scores}; the caller persists the result.
//
// logs must be ordered most-recent-first with today's log at index 0.
// previousScores must be the most recent prior risk scores, newest first.
func EvaluateDay(id string, baseline Baseline, logs []*behavior.DailyLog, previousScores []float64, now time.Time) (*Assessment, error) {
	if len(logs) == 0 {
		return nil, ErrAssessmentNoLogs
	}

	today := logs[0].Metrics.Normalized()
	dev := ComputeDeviation(today, baseline)
	weights := Boosted(dev)
	velocity := StressVelocity(logs)

	score := ComputeRiskScore(weights, dev, velocity)
	level := LevelFor(score)

	flags := DetectFlags(dev)
	state := ClassifyState(flags, velocity)
	recovery, acceleration := Trend(previousScores)

	return &Assessment{
		ID:                 id,
		UserID:             baseline.UserID,
		RiskScore:          score,
		RiskLevel:          level,
		RecoveryStatus:     recovery,
		AccelerationStatus: acceleration,
		StressVelocity:     velocity,
		BehavioralState:    state,
		Flags:              flags,
		Insight:            GenerateInsight(level, flags, state),
		PreventiveMeasures: GeneratePrevention(flags),
		Timestamp:          now,
	}, nil
}

// ErrAssessmentNoLogs is returned when EvaluateDay is called without any logs.
var ErrAssessmentNoLogs = shared.NewDomainError("risk", "EvaluateDay", shared.ErrInvalidInput, "no logs to evaluate")

// RequiresAlert reports whether this assessment must raise a counselor alert.
func (a *Assessment) RequiresAlert() bool {
	return a.RiskLevel == LevelHigh
}
