package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nitesh-dev/gymmora-sub000/internal/analytics"
	"github.com/nitesh-dev/gymmora-sub000/internal/service"
)

// AnalyticsHandler serves progress figures derived from completed sessions.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetDashboard godoc
// @Summary Streaks, volume, muscle groups and personal records
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param metric query string false "count or volume"
// @Param top query int false "Muscle groups to return, -1 for all"
// @Success 200 {object} service.Dashboard
// @Failure 400 {object} gin.H "Unknown metric"
// @Router /analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	metric, err := analytics.ParseMetric(c.Query("metric"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	query := service.DashboardQuery{Metric: metric}
	if top := c.Query("top"); top != "" {
		query.TopN, err = strconv.Atoi(top)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "top must be an integer")
			return
		}
	}

	dashboard, err := h.analyticsService.Dashboard(c.Request.Context(), ownerID, query)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetHistory godoc
// @Summary Completed sessions, oldest first, with their volume
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.SessionSummary
// @Router /analytics/history [get]
func (h *AnalyticsHandler) GetHistory(c *gin.Context) {
	ownerID, ok := mustOwner(c)
	if !ok {
		return
	}
	history, err := h.analyticsService.History(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
