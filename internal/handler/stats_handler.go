package handler

import (
	"github.com/gin-gonic/gin"

	"smartinvoice/internal/service"
)

// StatsHandler handles dashboard aggregation endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard handles GET /api/v1/dashboard.
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}
