package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderplan/wanderplan-backend/config"
)

// HealthHandler serves liveness probes and basic build info.
type HealthHandler struct {
	cfg *config.Config
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"version":    h.cfg.Server.Version,
		"dataSource": h.cfg.DataSource,
	})
}
