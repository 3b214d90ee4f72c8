package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goalstash/internal/services"
)

// StatsHandler handles public aggregate statistics requests
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetAppStats returns the global aggregate statistics
// @Summary     Get aggregate statistics
// @Description Get the all-time totals across all users: registered users, lifetime deposits, and achieved goals
// @Tags        stats
// @Produce     json
// @Success     200 {object} models.AppStats "Aggregate statistics"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats [get]
func (h *StatsHandler) GetAppStats(c *gin.Context) {
	stats, err := h.statsService.GetAppStats()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
