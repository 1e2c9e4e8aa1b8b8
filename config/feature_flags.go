package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and gradual rollouts.
//
// Wellbeing features are rolled out carefully: a reminder or digest that
// lands wrong is worse than no message at all, so new notification surfaces
// start at partial rollout and ramp up.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[string]map[string]bool // userID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Users are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation (e.g. exam-period-only signals)
	EnabledFrom  *time.Time
	EnabledUntil *time.Time

	// A/B test variant (for experiments, e.g. reminder copy)
	Variants []string
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	UserID      string
	IsCounselor bool // counselors see everything
}

// Predefined feature flag names.
const (
	// === Notification Features ===
	FeatureNotifyCheckinReminder = "notify.checkin_reminder" // End-of-day nudge for missed check-ins
	FeatureNotifyWeeklyDigest    = "notify.weekly_digest"    // Sunday evening summary
	FeatureNotifyHighRiskAlert   = "notify.high_risk_alert"  // Counselor escalation

	// === Dashboard Features ===
	FeatureDashboardExamMode = "dashboard.exam_mode" // Exam-period context on the dashboard
	FeatureDashboardStreaks  = "dashboard.streaks"   // Check-in streak display

	// === Schedule Features ===
	FeatureSchedulePredictor = "schedule.predictor" // Pre-semester stress forecast

	// === Experimental Features ===
	FeatureExperimentalTrendChart = "experimental.trend_chart" // Risk trend sparkline data
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[string]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureNotifyCheckinReminder] = &Feature{
		Name:           FeatureNotifyCheckinReminder,
		Description:    "Remind students who have not checked in by the cutoff",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyWeeklyDigest] = &Feature{
		Name:           FeatureNotifyWeeklyDigest,
		Description:    "Weekly wellbeing summary message",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureNotifyHighRiskAlert] = &Feature{
		Name:           FeatureNotifyHighRiskAlert,
		Description:    "Escalate high-risk assessments to counselors",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureDashboardExamMode] = &Feature{
		Name:           FeatureDashboardExamMode,
		Description:    "Show exam-period context on the dashboard",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureDashboardStreaks] = &Feature{
		Name:           FeatureDashboardStreaks,
		Description:    "Show check-in streaks on the dashboard",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureSchedulePredictor] = &Feature{
		Name:           FeatureSchedulePredictor,
		Description:    "Pre-semester schedule stress forecast",
		Enabled:        true,
		RolloutPercent: 50, // Gradual rollout
	}

	ff.features[FeatureExperimentalTrendChart] = &Feature{
		Name:           FeatureExperimentalTrendChart,
		Description:    "Risk trend sparkline in history responses",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_NOTIFY_WEEKLY_DIGEST=true
// Example: FEATURE_SCHEDULE_PREDICTOR=25 (25% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		val := os.Getenv(envKey)
		if val == "" {
			continue
		}

		if b, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = b
			if b {
				feature.RolloutPercent = 100
			} else {
				feature.RolloutPercent = 0
			}
			continue
		}

		if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
			feature.Enabled = p > 0
			feature.RolloutPercent = p
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "notify.weekly_digest" -> "FEATURE_NOTIFY_WEEKLY_DIGEST"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check user overrides first
	if ctx != nil && ctx.UserID != "" {
		if userOverrides, ok := ff.userOverrides[ctx.UserID]; ok {
			if enabled, ok := userOverrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Counselors get all features
	if ctx != nil && ctx.IsCounselor {
		return true
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != "" {
		return isInRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a user is in the rollout percentage.
// Uses consistent hashing so users stay in their bucket.
func isInRollout(userID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(userID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// GetVariant returns the A/B test variant for a user.
// Returns empty string if no variants defined or feature disabled.
func (ff *FeatureFlags) GetVariant(featureName string, ctx *FeatureContext) string {
	ff.mu.RLock()
	feature, ok := ff.features[featureName]
	ff.mu.RUnlock()

	if !ok || ctx == nil || !ff.IsEnabled(featureName, ctx) {
		return ""
	}

	if len(feature.Variants) == 0 {
		return ""
	}

	h := fnv.New32a()
	h.Write([]byte(featureName + "_variant"))
	h.Write([]byte(ctx.UserID))
	hash := h.Sum32()

	variantIndex := int(hash % uint32(len(feature.Variants)))
	return feature.Variants[variantIndex]
}

// SetUserOverride sets a feature override for a specific user.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetUserOverride(userID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.userOverrides[userID]; !ok {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a user.
func (ff *FeatureFlags) ClearUserOverrides(userID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// NotificationsEnabled checks if any student notification surface is on.
func (ff *FeatureFlags) NotificationsEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureNotifyCheckinReminder, ctx) ||
		ff.IsEnabled(FeatureNotifyWeeklyDigest, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
