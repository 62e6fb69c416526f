package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DBClock reads the database's current time.
type DBClock interface {
	Now(ctx context.Context) (time.Time, error)
}

// SchemaMigrator adds the comments column to the history table on demand.
type SchemaMigrator interface {
	AddCommentsColumn(ctx context.Context) (bool, error)
}

// HealthHandler answers liveness and readiness probes and the schema setup call.
type HealthHandler struct {
	clock  DBClock
	schema SchemaMigrator
	logger *zap.Logger
}

// NewHealthHandler constructs the HTTP handler adapter.
func NewHealthHandler(clock DBClock, schema SchemaMigrator, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{clock: clock, schema: schema, logger: logger}
}

// Health round-trips to the database.
func (h *HealthHandler) Health(c *gin.Context) {
	now, err := h.clock.Now(c.Request.Context())
	if err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "db_time": now})
}

// Liveness never touches the database.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Root is the plain text banner.
func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, "OK - server up")
}

// SetupCommentsColumn adds history_data.comments if it is missing.
func (h *HealthHandler) SetupCommentsColumn(c *gin.Context) {
	added, err := h.schema.AddCommentsColumn(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "setup failed", err)
		return
	}

	msg := "Column already exists"
	if added {
		msg = "Comments column added"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}
