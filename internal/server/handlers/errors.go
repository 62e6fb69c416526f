package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

// Kind codes carried in the "error" field of every failure body.
const (
	kindValidation          = "validation"
	kindUnauthorized        = "unauthorized"
	kindWriteFailure        = "write_failure"
	kindUpstreamUnavailable = "upstream_unavailable"
	kindInvalidPayload      = "invalid_payload"
	kindInternal            = "internal"
)

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, kindValidation
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, kindUnauthorized
	case errors.Is(err, models.ErrWriteFailure):
		return http.StatusInternalServerError, kindWriteFailure
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, kindUpstreamUnavailable
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err), zap.String("kind", kind))
	} else {
		logger.Warn(msg, zap.Error(err), zap.String("kind", kind))
	}
	c.JSON(status, gin.H{"message": err.Error(), "error": kind})
}

func respondInvalidPayload(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body", "error": kindInvalidPayload})
}
