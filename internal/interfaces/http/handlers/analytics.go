// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/bayt-organic/storefront/internal/domain/analytics"
	"github.com/gin-gonic/gin"
)

// AnalyticsHandler handles admin report endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetReconciliation handles GET /admin/analytics/reconciliation
func (h *AnalyticsHandler) GetReconciliation(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	report, err := h.analyticsService.GetReconciliationReport(c.Request.Context(), days)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to build reconciliation report",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reconciliation report generated",
		"data":    report,
	})
}
