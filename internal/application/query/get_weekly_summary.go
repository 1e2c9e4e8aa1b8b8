package query

import (
	"context"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET WEEKLY SUMMARY QUERY
// Rolls the last seven risk scores into a weekly average and classification.
// Also run by the worker's weekly digest job.
// ══════════════════════════════════════════════════════════════════════════════

// GetWeeklySummaryQuery identifies whose week to summarize.
type GetWeeklySummaryQuery struct {
	UserID string
}

// Validate validates the query.
func (q GetWeeklySummaryQuery) Validate() error {
	if !shared.UserID(q.UserID).IsValid() {
		return shared.WrapError("query", "GetWeeklySummary", shared.ErrUnauthenticated, "caller identity missing", nil)
	}
	return nil
}

// WeeklySummaryDTO is the serialized weekly rollup.
type WeeklySummaryDTO struct {
	WeeklyAverage  float64 `json:"weekly_average"`
	SampleCount    int     `json:"sample_count"`
	Classification string  `json:"classification"`
	HasData        bool    `json:"has_data"`
}

// GetWeeklySummaryHandler handles GetWeeklySummaryQuery.
type GetWeeklySummaryHandler struct {
	assessments risk.AssessmentRepository
}

// NewGetWeeklySummaryHandler creates a new GetWeeklySummaryHandler.
func NewGetWeeklySummaryHandler(assessments risk.AssessmentRepository) *GetWeeklySummaryHandler {
	return &GetWeeklySummaryHandler{assessments: assessments}
}

// Handle executes the weekly summary query.
func (h *GetWeeklySummaryHandler) Handle(ctx context.Context, q GetWeeklySummaryQuery) (*WeeklySummaryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	scores, err := h.assessments.RecentScores(ctx, shared.UserID(q.UserID), risk.WeeklySummaryWindow)
	if err != nil {
		return nil, shared.WrapStoreError("query", "GetWeeklySummary.Scores", err)
	}

	summary, ok := risk.SummarizeWeek(scores)
	if !ok {
		return &WeeklySummaryDTO{HasData: false}, nil
	}

	return &WeeklySummaryDTO{
		WeeklyAverage:  summary.Average,
		SampleCount:    summary.SampleCount,
		Classification: string(summary.Classification),
		HasData:        true,
	}, nil
}
