package query

import (
	"context"

	"github.com/oredonut/campuspulse-ai-v2/internal/domain/risk"
	"github.com/oredonut/campuspulse-ai-v2/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RISK HISTORY QUERY
// Recent assessments for trend rendering, newest first.
// ══════════════════════════════════════════════════════════════════════════════

// defaultHistoryLimit is how many assessments come back when unspecified.
const defaultHistoryLimit = 14

// maxHistoryLimit caps a single page of history.
const maxHistoryLimit = 90

// GetRiskHistoryQuery identifies whose history to read.
type GetRiskHistoryQuery struct {
	UserID string
	Limit  int
}

// Validate validates the query and applies limit defaults.
func (q *GetRiskHistoryQuery) Validate() error {
	if !shared.UserID(q.UserID).IsValid() {
		return shared.WrapError("query", "GetRiskHistory", shared.ErrUnauthenticated, "caller identity missing", nil)
	}
	if q.Limit <= 0 {
		q.Limit = defaultHistoryLimit
	}
	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}
	return nil
}

// RiskHistoryDTO is the paged history payload.
type RiskHistoryDTO struct {
	Assessments []*AssessmentDTO `json:"assessments"`
	Count       int              `json:"count"`
}

// GetRiskHistoryHandler handles GetRiskHistoryQuery.
type GetRiskHistoryHandler struct {
	assessments risk.AssessmentRepository
}

// NewGetRiskHistoryHandler creates a new GetRiskHistoryHandler.
func NewGetRiskHistoryHandler(assessments risk.AssessmentRepository) *GetRiskHistoryHandler {
	return &GetRiskHistoryHandler{assessments: assessments}
}

// Handle executes the history query.
func (h *GetRiskHistoryHandler) Handle(ctx context.Context, q GetRiskHistoryQuery) (*RiskHistoryDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	records, err := h.assessments.ListRecent(ctx, shared.UserID(q.UserID), q.Limit)
	if err != nil {
		return nil, shared.WrapStoreError("query", "GetRiskHistory.List", err)
	}

	dto := &RiskHistoryDTO{Assessments: make([]*AssessmentDTO, 0, len(records))}
	for _, a := range records {
		dto.Assessments = append(dto.Assessments, NewAssessmentDTO(a))
	}
	dto.Count = len(dto.Assessments)

	return dto, nil
}
