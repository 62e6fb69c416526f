package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

// SnapshotService is the inventory side of the API.
type SnapshotService interface {
	FetchRange(ctx context.Context, startText, endText string) (models.Snapshot, error)
	Snapshot(ctx context.Context, session models.SessionContext) (models.Snapshot, error)
	ListDistinctMarkets(ctx context.Context) ([]string, error)
	LoadFlatFile(ctx context.Context, role string) (models.Snapshot, error)
}

type rangeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Role      string `json:"role"`
}

// InventoryHandler serves snapshot queries and the market list.
type InventoryHandler struct {
	svc    SnapshotService
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc SnapshotService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// GetDataForRange returns the snapshot for a date range. Without a role every row is returned.
func (h *InventoryHandler) GetDataForRange(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, h.logger, err)
		return
	}

	snap, err := fetchSnapshot(c.Request.Context(), h.svc, req)
	if err != nil {
		respondError(c, h.logger, "snapshot query failed", err)
		return
	}

	c.JSON(http.StatusOK, snap)
}

// GetAllMarkets lists every market id known to the store.
func (h *InventoryHandler) GetAllMarkets(c *gin.Context) {
	markets, err := h.svc.ListDistinctMarkets(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "market list failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": markets})
}

// LegacySnapshot serves the flat file for ?role=.
func (h *InventoryHandler) LegacySnapshot(c *gin.Context) {
	snap, err := h.svc.LoadFlatFile(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, h.logger, "legacy snapshot failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func fetchSnapshot(ctx context.Context, svc SnapshotService, req rangeRequest) (models.Snapshot, error) {
	if req.Role == "" {
		return svc.FetchRange(ctx, req.StartDate, req.EndDate)
	}
	return svc.Snapshot(ctx, models.SessionContext{
		Role:      req.Role,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
}
