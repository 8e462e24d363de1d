package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/user-admin-console/internal/service"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	backend string
}

// NewMetricsHandler constructs a metrics handler. backend is reported by the readiness probe.
func NewMetricsHandler(metrics *service.MetricsService, backend string) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, backend: backend}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports the configured user store. The store itself is not probed.
func (h *MetricsHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready", "backend": h.backend})
}
