package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
	"github.com/yomu-app/yomu_backend/internal/middleware"
)

// statsHandler handles HTTP requests for dashboard statistics.
type statsHandler struct {
	statsService portssvc.StatsSvcFacade
}

func newStatsHandler(statsService portssvc.StatsSvcFacade) *statsHandler {
	return &statsHandler{statsService: statsService}
}

// registerStatsRoutes registers dashboard statistics routes.
func registerStatsRoutes(rg *gin.RouterGroup, statsService portssvc.StatsSvcFacade) {
	h := newStatsHandler(statsService)

	stats := rg.Group("/stats")
	{
		stats.GET("/siswa", h.siswaStats)
		stats.GET("/admin", middleware.RequireAdmin(), h.adminStats)
	}
}

// siswaStats godoc
// @Summary Student dashboard statistics
// @Description Returns the student's loan counters, favorites and unread messages
// @Tags stats
// @Produce json
// @Success 200 {object} dto.SiswaStatsResponse
// @Security BearerAuth
// @Router /stats/siswa [get]
func (h *statsHandler) siswaStats(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	stats, err := h.statsService.GetSiswaStats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// adminStats godoc
// @Summary Library-wide dashboard statistics
// @Description Returns collection, member and circulation counters with month-over-month trends
// @Tags stats
// @Produce json
// @Success 200 {object} dto.AdminStatsResponse
// @Security BearerAuth
// @Router /stats/admin [get]
func (h *statsHandler) adminStats(c *gin.Context) {
	stats, err := h.statsService.GetAdminStats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
