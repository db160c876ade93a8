package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/palemoky/songbook-catalog/internal/errors"
	"github.com/palemoky/songbook-catalog/internal/logger"
)

// parseID extracts and validates a positive int64 ID from a URL parameter.
// Returns the ID and true if successful, or sends an error response and returns false.
func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id < 1 {
		respondError(c, apierrors.InvalidID(param))
		return 0, false
	}
	return id, true
}

// respondError sends the structured error with its HTTP status.
// Server-side failures are logged with their cause.
func respondError(c *gin.Context, err *apierrors.APIError) {
	if err.Server() {
		logger.Error(err.Message,
			zap.String("path", c.Request.URL.Path),
			zap.Error(err.Unwrap()))
	}
	c.JSON(err.HTTPStatus, gin.H{"error": err})
}

// respondOK sends a JSON success response with the given data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}
