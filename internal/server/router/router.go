package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/server/handlers"
)

// Handlers groups every HTTP adapter the router mounts.
type Handlers struct {
	Inventory *handlers.InventoryHandler
	History   *handlers.HistoryHandler
	Export    *handlers.ExportHandler
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, frontendURL string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.New(requestid.WithGenerator(uuid.NewString)))
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(corsConfig(frontendURL)))

	api := r.Group("/api")
	api.POST("/get-data-for-range", h.Inventory.GetDataForRange)
	api.GET("/get-all-markets", h.Inventory.GetAllMarkets)
	api.GET("/legacy-snapshot", h.Inventory.LegacySnapshot)
	api.POST("/add-history", h.History.AddHistory)
	api.POST("/get-history-for-range", h.History.GetHistoryForRange)
	api.POST("/export-snapshot", h.Export.ExportSnapshot)
	api.POST("/export-history", h.Export.ExportHistory)
	api.POST("/login", h.Auth.Login)
	api.POST("/setup-comments-column", h.Health.SetupCommentsColumn)

	r.GET("/health", h.Health.Health)
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/", h.Health.Root)

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", requestid.Get(c)))
	}
}

// corsConfig admits the single configured frontend origin. Requests carrying
// any other Origin are refused with 403.
func corsConfig(frontendURL string) cors.Config {
	return cors.Config{
		AllowOrigins:  []string{frontendURL},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
}
