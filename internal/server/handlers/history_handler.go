package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/pagination"
)

// HistoryService is the approval ledger side of the API.
type HistoryService interface {
	Record(ctx context.Context, event models.ApprovalEvent) (models.ApprovalEvent, error)
	QueryRange(ctx context.Context, startText, endText, role string) ([]models.ApprovalEvent, error)
}

type historyRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Role      string `json:"role"`
	MarketID  string `json:"marketid"`
	Page      *int   `json:"page"`
	PageSize  int    `json:"pageSize"`
}

// MaxPageSize caps the rows one history page may carry.
const MaxPageSize = 1000

// role prefers the explicit role and falls back to the legacy marketid field.
func (r historyRequest) role() string {
	if r.Role != "" {
		return r.Role
	}
	return r.MarketID
}

// HistoryHandler records approvals and answers history queries.
type HistoryHandler struct {
	svc             HistoryService
	defaultPageSize int
	logger          *zap.Logger
}

// NewHistoryHandler constructs the HTTP handler adapter. defaultPageSize applies
// when a request asks for a page without a size.
func NewHistoryHandler(svc HistoryService, defaultPageSize int, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{svc: svc, defaultPageSize: defaultPageSize, logger: logger}
}

// AddHistory appends one approval event.
func (h *HistoryHandler) AddHistory(c *gin.Context) {
	var event models.ApprovalEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		respondInvalidPayload(c, h.logger, err)
		return
	}

	recorded, err := h.svc.Record(c.Request.Context(), event)
	if err != nil {
		respondError(c, h.logger, "failed to save history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": recorded})
}

// GetHistoryForRange returns approvals newest first, optionally one page at a time.
// A requested page outside [1, pageCount] is pinned to the nearest end.
func (h *HistoryHandler) GetHistoryForRange(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, h.logger, err)
		return
	}

	events, err := h.svc.QueryRange(c.Request.Context(), req.StartDate, req.EndDate, req.role())
	if err != nil {
		respondError(c, h.logger, "failed to fetch history", err)
		return
	}

	if req.Page == nil {
		c.JSON(http.StatusOK, gin.H{"data": events})
		return
	}

	size := req.PageSize
	if size < 1 {
		size = h.defaultPageSize
	}
	size = min(size, MaxPageSize)

	pageNumber := pagination.ClampPage(*req.Page, pagination.PageCount(len(events), size))
	page := pagination.Paginate(events, size, pageNumber)
	c.JSON(http.StatusOK, gin.H{
		"data":       page.Rows,
		"page":       page.Page,
		"pageCount":  page.PageCount,
		"totalCount": page.TotalCount,
	})
}
