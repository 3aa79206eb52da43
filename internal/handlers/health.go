package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health. Redis is reported but never fails the check.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"status": "healthy", "database": "up", "redis": "disabled"}
	code := http.StatusOK

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.logger.Error("Health check: database unreachable", "error", err)
		status["status"] = "unhealthy"
		status["database"] = "down"
		code = http.StatusServiceUnavailable
	}

	if h.rdb != nil {
		status["redis"] = "up"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
		}
	}

	c.JSON(code, status)
}
