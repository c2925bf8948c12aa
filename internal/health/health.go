package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is the database health probe
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthResponse is the health endpoint payload
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthChecker reports service and database health
type HealthChecker struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthChecker creates a health checker probing the database with the
// given timeout
func NewHealthChecker(db Pinger, timeout time.Duration) *HealthChecker {
	return &HealthChecker{db: db, timeout: timeout}
}

// Handler serves GET /health. A failing database probe returns 503.
func (h *HealthChecker) Handler(c *gin.Context) {
	response := HealthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		if err := h.db.HealthCheck(ctx); err != nil {
			response.Status = "degraded"
			response.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, response)
}
