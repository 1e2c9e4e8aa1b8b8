// Package behavior contains the daily self-report domain model: the five
// 1-5 behavioral ratings a student logs each day and their normalized form.
// This is the core of business logic - there are no external dependencies here.
package behavior

import (
	"fmt"
	"strings"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rating is a single self-reported behavioral rating on the 1..5 scale.
type Rating int

// IsValid checks that the rating is within the 1..5 scale.
func (r Rating) IsValid() bool {
	return r >= 1 && r <= 5
}

// Normalized maps the rating onto [0,1]: (v - 1) / 4.
// Normalized(1) = 0, Normalized(5) = 1.
func (r Rating) Normalized() float64 {
	return Normalize(int(r))
}

// Normalize maps a 1..5 rating onto the [0,1] scale.
func Normalize(v int) float64 {
	return float64(v-1) / 4
}

// Clamp bounds x to [0,1].
func Clamp(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Metric names a behavioral dimension. The order of AllMetrics is load-bearing:
// it is the fixed tie-break order for weight boosting and the rendering order
// for flags and preventive measures.
type Metric string

const (
	MetricStress    Metric = "stress"
	MetricSleep     Metric = "sleep"
	MetricWorkload  Metric = "workload"
	MetricMood      Metric = "mood"
	MetricNutrition Metric = "nutrition"
)

// AllMetrics lists every metric in declaration order.
func AllMetrics() []Metric {
	return []Metric{MetricStress, MetricSleep, MetricWorkload, MetricMood, MetricNutrition}
}

// IsValid checks that the metric is a known dimension.
func (m Metric) IsValid() bool {
	switch m {
	case MetricStress, MetricSleep, MetricWorkload, MetricMood, MetricNutrition:
		return true
	default:
		return false
	}
}

// Metrics is the full vector of one day's ratings.
type Metrics struct {
	Stress    Rating
	Sleep     Rating
	Mood      Rating
	Workload  Rating
	Nutrition Rating
}

// Validate checks every rating is on the 1..5 scale.
func (m Metrics) Validate() error {
	for _, pair := range []struct {
		name   Metric
		rating Rating
	}{
		{MetricStress, m.Stress},
		{MetricSleep, m.Sleep},
		{MetricMood, m.Mood},
		{MetricWorkload, m.Workload},
		{MetricNutrition, m.Nutrition},
	} {
		if !pair.rating.IsValid() {
			return shared.WrapError("behavior", "Validate", shared.ErrValueOutOfRange,
				fmt.Sprintf("%s rating %d is outside 1..5", pair.name, pair.rating), nil)
		}
	}
	return nil
}

// Get returns the rating for a named metric.
func (m Metrics) Get(metric Metric) Rating {
	switch metric {
	case MetricStress:
		return m.Stress
	case MetricSleep:
		return m.Sleep
	case MetricMood:
		return m.Mood
	case MetricWorkload:
		return m.Workload
	case MetricNutrition:
		return m.Nutrition
	default:
		return 0
	}
}

// NormalizedVector holds the [0,1] form of a day's metrics.
type NormalizedVector struct {
	Stress    float64
	Sleep     float64
	Mood      float64
	Workload  float64
	Nutrition float64
}

// Normalized maps every rating onto [0,1].
func (m Metrics) Normalized() NormalizedVector {
	return NormalizedVector{
		Stress:    m.Stress.Normalized(),
		Sleep:     m.Sleep.Normalized(),
		Mood:      m.Mood.Normalized(),
		Workload:  m.Workload.Normalized(),
		Nutrition: m.Nutrition.Normalized(),
	}
}

// Get returns the normalized value for a named metric.
func (v NormalizedVector) Get(metric Metric) float64 {
	switch metric {
	case MetricStress:
		return v.Stress
	case MetricSleep:
		return v.Sleep
	case MetricMood:
		return v.Mood
	case MetricWorkload:
		return v.Workload
	case MetricNutrition:
		return v.Nutrition
	default:
		return 0
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: DAILY LOG
// ══════════════════════════════════════════════════════════════════════════════

// DailyLog is one student's self-report for one calendar day.
// At most one log exists per user per day; a same-day resubmission replaces
// the earlier entry. Once the day rolls over the log is immutable.
type DailyLog struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// UserID - the student this log belongs to.
	UserID shared.UserID

	// Day - the calendar day the log covers.
	Day shared.Day

	// Metrics - the five 1..5 ratings.
	Metrics Metrics

	// Note - optional free-text note from the check-in form.
	Note string

	// Timestamp - when the log was (re)submitted. Trend windows order by this.
	Timestamp time.Time

	// CreatedAt - when the row was first written.
	CreatedAt time.Time
}

// NewDailyLog builds a validated daily log for the given day.
func NewDailyLog(id string, userID shared.UserID, day shared.Day, metrics Metrics, note string, now time.Time) (*DailyLog, error) {
	if !userID.IsValid() {
		return nil, shared.WrapError("behavior", "NewDailyLog", shared.ErrInvalidID, "invalid user id", nil)
	}
	if err := metrics.Validate(); err != nil {
		return nil, err
	}
	return &DailyLog{
		ID:        id,
		UserID:    userID,
		Day:       day,
		Metrics:   metrics,
		Note:      strings.TrimSpace(note),
		Timestamp: now,
		CreatedAt: now,
	}, nil
}

// IsFor reports whether the log covers the given day.
func (l *DailyLog) IsFor(day shared.Day) bool {
	return l.Day.Equal(day)
}
