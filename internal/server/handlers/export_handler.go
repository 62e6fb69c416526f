package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/service/export"
)

// Exporter renders query results as workbooks.
type Exporter interface {
	Snapshot(snap models.Snapshot) (export.Artifact, error)
	History(events []models.ApprovalEvent) (export.Artifact, error)
}

// ExportHandler turns the same queries the JSON endpoints answer into downloads.
type ExportHandler struct {
	snapshots SnapshotService
	history   HistoryService
	exporter  Exporter
	logger    *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter.
func NewExportHandler(snapshots SnapshotService, history HistoryService, exporter Exporter, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{snapshots: snapshots, history: history, exporter: exporter, logger: logger}
}

// ExportSnapshot accepts a get-data-for-range body and returns an xlsx.
func (h *ExportHandler) ExportSnapshot(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, h.logger, err)
		return
	}

	snap, err := fetchSnapshot(c.Request.Context(), h.snapshots, req)
	if err != nil {
		respondError(c, h.logger, "snapshot export query failed", err)
		return
	}

	artifact, err := h.exporter.Snapshot(snap)
	if err != nil {
		respondError(c, h.logger, "snapshot export failed", err)
		return
	}
	h.sendArtifact(c, artifact)
}

// ExportHistory accepts a get-history-for-range body and returns every matching event as xlsx.
func (h *ExportHandler) ExportHistory(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, h.logger, err)
		return
	}

	events, err := h.history.QueryRange(c.Request.Context(), req.StartDate, req.EndDate, req.role())
	if err != nil {
		respondError(c, h.logger, "history export query failed", err)
		return
	}

	artifact, err := h.exporter.History(events)
	if err != nil {
		respondError(c, h.logger, "history export failed", err)
		return
	}
	h.sendArtifact(c, artifact)
}

func (h *ExportHandler) sendArtifact(c *gin.Context, artifact export.Artifact) {
	h.logger.Info("export served",
		zap.String("filename", artifact.Filename),
		zap.Int("bytes", len(artifact.Content)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, export.ContentType, artifact.Content)
}
