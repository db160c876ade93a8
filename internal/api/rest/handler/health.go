package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/songbook-catalog/internal/database"
	apierrors "github.com/palemoky/songbook-catalog/internal/errors"
	"github.com/palemoky/songbook-catalog/internal/logger"
)

// HealthHandler handles health check requests
func HealthHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  apierrors.ErrUnavailable,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	}
}

// StatsHandler returns overall statistics
func StatsHandler(repo *database.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := repo.GetStatistics()
		if err != nil {
			respondError(c, apierrors.Internal("failed to get statistics", err))
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}
