package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/daterange"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

// Authenticator resolves credentials plus the selected role to a session role.
type Authenticator interface {
	Authenticate(username, password, selectedRole string) (string, error)
}

type loginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// AuthHandler issues session contexts.
type AuthHandler struct {
	auth       Authenticator
	normalizer *daterange.Normalizer
	logger     *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(auth Authenticator, normalizer *daterange.Normalizer, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = daterange.NewNormalizer(nil)
	}
	return &AuthHandler{auth: auth, normalizer: normalizer, logger: logger}
}

// Login checks credentials and the requested range, then echoes the session
// with both date renderings.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidPayload(c, h.logger, err)
		return
	}

	role, err := h.auth.Authenticate(req.Username, req.Password, req.Role)
	if err != nil {
		respondError(c, h.logger, "login rejected", err)
		return
	}

	window, err := h.normalizer.ToInclusiveWindow(req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, h.logger, "login rejected", err)
		return
	}

	start, end := window.StartDate(), window.EndDate()
	h.logger.Info("session started", zap.String("role", role))
	c.JSON(http.StatusOK, models.SessionContext{
		Role:         role,
		StartDate:    start.US(),
		EndDate:      end.US(),
		StartDateISO: start.ISO(),
		EndDateISO:   end.ISO(),
	})
}
