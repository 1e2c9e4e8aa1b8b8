// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/alert"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/planner"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// The single aggregated read behind the dashboard page: latest assessment,
// open alert count, upcoming planner tasks, and the exam-mode /
// deadline-cluster signals. Served from the redis hot cache when possible.
// ══════════════════════════════════════════════════════════════════════════════

// upcomingTaskLimit caps how many tasks the dashboard shows.
const upcomingTaskLimit = 5

// GetDashboardQuery identifies whose dashboard to build.
type GetDashboardQuery struct {
	UserID string
}

// Validate validates the query.
func (q GetDashboardQuery) Validate() error {
	if !shared.UserID(q.UserID).IsValid() {
		return shared.WrapError("query", "GetDashboard", shared.ErrUnauthenticated, "caller identity missing", nil)
	}
	return nil
}

// AssessmentDTO is the serialized form of one risk assessment.
type AssessmentDTO struct {
	ID                 string   `json:"id"`
	RiskScore          float64  `json:"risk_score"`
	RiskLevel          string   `json:"risk_level"`
	RecoveryStatus     string   `json:"recovery_status"`
	AccelerationStatus string   `json:"acceleration_status"`
	StressVelocity     float64  `json:"stress_velocity"`
	BehavioralState    string   `json:"behavioral_state"`
	Flags              []string `json:"flags"`
	Insight            string   `json:"insight"`
	PreventiveMeasures []string `json:"preventive_measures"`
	StabilityIndex     int      `json:"stability_index"`
	Timestamp          string   `json:"timestamp"`
}

// NewAssessmentDTO maps a domain assessment onto its DTO.
func NewAssessmentDTO(a *risk.Assessment) *AssessmentDTO {
	return &AssessmentDTO{
		ID:                 a.ID,
		RiskScore:          a.RiskScore,
		RiskLevel:          string(a.RiskLevel),
		RecoveryStatus:     string(a.RecoveryStatus),
		AccelerationStatus: string(a.AccelerationStatus),
		StressVelocity:     a.StressVelocity,
		BehavioralState:    string(a.BehavioralState),
		Flags:              a.Flags.Strings(),
		Insight:            a.Insight,
		PreventiveMeasures: a.PreventiveMeasures,
		StabilityIndex:     risk.StabilityIndex(a.RiskScore),
		Timestamp:          a.Timestamp.Format(time.RFC3339),
	}
}

// UpcomingTaskDTO is one planner task on the dashboard.
type UpcomingTaskDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Due          string `json:"due"`
	ReminderTime string `json:"reminder_time,omitempty"`
}

// DashboardDTO is the full dashboard payload.
type DashboardDTO struct {
	LatestRisk      *AssessmentDTO    `json:"latest_risk"`
	ActiveAlerts    int               `json:"active_alerts"`
	UpcomingTasks   []UpcomingTaskDTO `json:"upcoming_tasks"`
	ExamMode        bool              `json:"exam_mode"`
	DeadlineCluster bool              `json:"deadline_cluster"`
	ClusterCount    int               `json:"cluster_count"`
}

// LatestAssessmentReader is the cache-side read port. A cache miss falls
// through to the assessment repository.
type LatestAssessmentReader interface {
	GetLatest(ctx context.Context, userID shared.UserID) (*risk.Assessment, error)
}

// GetDashboardHandler handles GetDashboardQuery.
type GetDashboardHandler struct {
	assessments risk.AssessmentRepository
	alerts      alert.Repository
	tasks       planner.Repository
	cache       LatestAssessmentReader
	now         func() time.Time
}

// NewGetDashboardHandler creates a new GetDashboardHandler. cache may be nil.
func NewGetDashboardHandler(
	assessments risk.AssessmentRepository,
	alerts alert.Repository,
	tasks planner.Repository,
	cache LatestAssessmentReader,
) *GetDashboardHandler {
	return &GetDashboardHandler{
		assessments: assessments,
		alerts:      alerts,
		tasks:       tasks,
		cache:       cache,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Handle executes the dashboard query.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(q.UserID)
	dto := &DashboardDTO{UpcomingTasks: []UpcomingTaskDTO{}}

	latest, err := h.latestAssessment(ctx, userID)
	if err != nil && !shared.IsNotFound(err) {
		return nil, shared.WrapStoreError("query", "GetDashboard.Latest", err)
	}
	if latest != nil {
		dto.LatestRisk = NewAssessmentDTO(latest)
	}

	count, err := h.alerts.CountUnresolved(ctx, userID)
	if err != nil {
		return nil, shared.WrapStoreError("query", "GetDashboard.Alerts", err)
	}
	dto.ActiveAlerts = count

	tasks, err := h.tasks.ListUpcoming(ctx, userID, upcomingTaskLimit)
	if err != nil {
		return nil, shared.WrapStoreError("query", "GetDashboard.Tasks", err)
	}
	for _, t := range tasks {
		dto.UpcomingTasks = append(dto.UpcomingTasks, UpcomingTaskDTO{
			ID:           t.ID,
			Title:        t.Title,
			Due:          t.Due.Format(time.RFC3339),
			ReminderTime: t.ReminderTime,
		})
	}

	deadlines, err := h.tasks.ListDeadlines(ctx, userID)
	if err != nil {
		return nil, shared.WrapStoreError("query", "GetDashboard.Deadlines", err)
	}
	signals := planner.DeriveSignals(deadlines, h.now())
	dto.ExamMode = signals.ExamMode
	dto.DeadlineCluster = signals.DeadlineCluster
	dto.ClusterCount = signals.ClusterCount

	return dto, nil
}

// latestAssessment reads the cache first and falls back to the store.
func (h *GetDashboardHandler) latestAssessment(ctx context.Context, userID shared.UserID) (*risk.Assessment, error) {
	if h.cache != nil {
		if a, err := h.cache.GetLatest(ctx, userID); err == nil && a != nil {
			return a, nil
		}
	}
	return h.assessments.Latest(ctx, userID)
}
