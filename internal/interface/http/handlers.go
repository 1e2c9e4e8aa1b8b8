package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/oredonut/campuspulse-ai-v2/internal/application/command"
	"github.com/oredonut/campuspulse-ai-v2/internal/application/query"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
	"github.com/oredonut/campuspulse-ai-v2/pkg/logger"
)

// maxBodyBytes caps request body size. Check-in and planner payloads are tiny.
const maxBodyBytes = 64 << 10 // 64 KB

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot returns basic service information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "campuspulse",
		"version": "v1",
	})
}

// handleHealth reports overall health including component probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]string, len(s.deps.HealthCheckers))
	healthy := true
	for name, check := range s.deps.HealthCheckers {
		if err := check(ctx); err != nil {
			components[name] = "unhealthy"
			healthy = false
		} else {
			components[name] = "healthy"
		}
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	writeJSON(w, status, map[string]interface{}{
		"status":     state,
		"uptime":     s.Uptime().String(),
		"components": components,
	})
}

// handleReady reports readiness to receive traffic.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	for name, check := range s.deps.HealthCheckers {
		if err := check(ctx); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", name+" is unavailable")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive is the liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// checkinRequest is the POST /api/v1/checkin body.
type checkinRequest struct {
	Stress    int    `json:"stress"`
	Sleep     int    `json:"sleep"`
	Mood      int    `json:"mood"`
	Workload  int    `json:"workload"`
	Nutrition int    `json:"nutrition"`
	Note      string `json:"note"`
}

// handleCheckin accepts the daily self-report and triggers an evaluation.
func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SubmitDailyLogHandler.Handle(r.Context(), command.SubmitDailyLogCommand{
		UserID:        requestUserID(r),
		Stress:        req.Stress,
		Sleep:         req.Sleep,
		Mood:          req.Mood,
		Workload:      req.Workload,
		Nutrition:     req.Nutrition,
		Note:          req.Note,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleEvaluate runs one explicit risk evaluation for the caller.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.EvaluateRiskHandler.Handle(r.Context(), command.EvaluateRiskCommand{
		UserID:        requestUserID(r),
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDashboard returns the aggregated dashboard payload.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetDashboardHandler.Handle(r.Context(), query.GetDashboardQuery{
		UserID: requestUserID(r),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// handleWeeklySummary returns the weekly risk rollup.
func (s *Server) handleWeeklySummary(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetWeeklySummaryHandler.Handle(r.Context(), query.GetWeeklySummaryQuery{
		UserID: requestUserID(r),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// handleRiskHistory returns recent assessments, newest first.
func (s *Server) handleRiskHistory(w http.ResponseWriter, r *http.Request) {
	dto, err := s.deps.GetRiskHistoryHandler.Handle(r.Context(), query.GetRiskHistoryQuery{
		UserID: requestUserID(r),
		Limit:  getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// schedulePredictRequest is the POST /api/v1/schedule/predict body.
type schedulePredictRequest struct {
	Blocks []query.ScheduleBlockInput `json:"blocks"`
}

// handleSchedulePredict forecasts stress for a declared day plan.
func (s *Server) handleSchedulePredict(w http.ResponseWriter, r *http.Request) {
	var req schedulePredictRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	dto, err := s.deps.PredictScheduleStressHandler.Handle(r.Context(), query.PredictScheduleStressQuery{
		Blocks: req.Blocks,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto)
}

// ─────────────────────────────────────────────────────────────────────────────
// Planner
// ─────────────────────────────────────────────────────────────────────────────

// addTaskRequest is the POST /api/v1/planner/tasks body.
type addTaskRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Due          time.Time `json:"due"`
	ReminderTime string    `json:"reminder_time"`
}

// handleAddTask creates a planner task.
func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	task, err := s.deps.PlannerHandler.AddTask(r.Context(), command.AddPlannerTaskCommand{
		UserID:       requestUserID(r),
		Title:        req.Title,
		Description:  req.Description,
		Due:          req.Due,
		ReminderTime: req.ReminderTime,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// handleCompleteTask marks a task done.
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")

	if err := s.deps.PlannerHandler.CompleteTask(r.Context(), requestUserID(r), taskID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"task_id": taskID, "status": "completed"})
}

// addDeadlineRequest is the POST /api/v1/planner/deadlines body.
type addDeadlineRequest struct {
	Title    string    `json:"title"`
	Course   string    `json:"course"`
	Date     time.Time `json:"date"`
	Type     string    `json:"type"`
	Priority string    `json:"priority"`
}

// handleAddDeadline registers a dated academic obligation.
func (s *Server) handleAddDeadline(w http.ResponseWriter, r *http.Request) {
	var req addDeadlineRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	deadline, err := s.deps.PlannerHandler.AddDeadline(r.Context(), command.AddDeadlineCommand{
		UserID:   requestUserID(r),
		Title:    req.Title,
		Course:   req.Course,
		Date:     req.Date,
		Type:     req.Type,
		Priority: req.Priority,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, deadline)
}

// ══════════════════════════════════════════════════════════════════════════════
// COUNSELOR HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// alertDTO is the counselor-facing alert view.
type alertDTO struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Type         string     `json:"type"`
	AssessmentID string     `json:"assessment_id,omitempty"`
	Resolved     bool       `json:"resolved"`
	ResolvedBy   string     `json:"resolved_by,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// handleListAlerts returns a student's unresolved alerts, newest first.
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if !shared.UserID(userID).IsValid() {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "user_id query parameter is required")
		return
	}
	limit := getQueryParamInt(r, "limit", 20)

	alerts, err := s.deps.Alerts.ListUnresolved(r.Context(), shared.UserID(userID), limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	dtos := make([]alertDTO, 0, len(alerts))
	for _, a := range alerts {
		dtos = append(dtos, alertDTO{
			ID:           a.ID,
			UserID:       a.UserID.String(),
			Type:         string(a.Type),
			AssessmentID: a.AssessmentID,
			Resolved:     a.Resolved,
			ResolvedBy:   a.ResolvedBy,
			ResolvedAt:   a.ResolvedAt,
			Timestamp:    a.Timestamp,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": dtos,
		"count":  len(dtos),
	})
}

// handleResolveAlert flips one alert to resolved.
func (s *Server) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	alertID := r.PathValue("id")

	err := s.deps.ResolveAlertHandler.Handle(r.Context(), command.ResolveAlertCommand{
		AlertID:     alertID,
		CounselorID: counselorID(r),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"alert_id": alertID, "status": "resolved"})
}

// overrideRiskRequest is the POST /api/v1/risk/override body.
type overrideRiskRequest struct {
	UserID   string `json:"user_id"`
	NewLevel string `json:"new_level"`
	Reason   string `json:"reason"`
}

// handleOverrideRisk records a counselor's manual risk level call.
func (s *Server) handleOverrideRisk(w http.ResponseWriter, r *http.Request) {
	var req overrideRiskRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	override, err := s.deps.OverrideRiskLevelHandler.Handle(r.Context(), command.OverrideRiskLevelCommand{
		UserID:      req.UserID,
		NewLevel:    req.NewLevel,
		CounselorID: counselorID(r),
		Reason:      req.Reason,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, override)
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST/ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes the JSON request body into dest, writing a 400 on
// failure. Returns false when the handler should stop.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Request body could not be parsed")
		return false
	}
	return true
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		writeJSONError(w, http.StatusUnauthorized, "unauthenticated", "Caller identity is missing or invalid")
	case errors.Is(err, shared.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "forbidden", "Caller may not perform this action")
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", "The requested resource does not exist")
	case errors.Is(err, shared.ErrAlreadyProcessed):
		writeJSONError(w, http.StatusConflict, "already_processed", "The resource was already in its target state")
	case shared.IsValidation(err) || errors.Is(err, shared.ErrInvalidID) || errors.Is(err, shared.ErrInvalidEntity):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case shared.IsStoreUnavailable(err):
		s.logger.Error("store unavailable",
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", "The data store is temporarily unavailable")
	default:
		s.logger.Error("unhandled error",
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}
