package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-backend/services"
)

// AnalyticsController exposes the admin dashboard and the CSV order export.
type AnalyticsController struct {
	analytics *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController.
func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

// Dashboard handles GET /admin/analytics?period=month&top=5.
func (ctrl *AnalyticsController) Dashboard(c *gin.Context) {
	period := c.DefaultQuery("period", "month")
	topN, err := strconv.Atoi(c.DefaultQuery("top", "5"))
	if err != nil || topN < 1 {
		topN = 5
	}

	dash, svcErr := ctrl.analytics.BuildDashboard(c.Request.Context(), period, topN)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, dash)
}

// ExportOrders handles GET /admin/analytics/orders.csv?period=month.
func (ctrl *AnalyticsController) ExportOrders(c *gin.Context) {
	period := c.DefaultQuery("period", "month")

	filename := fmt.Sprintf("orders-%s-%s.csv", period, time.Now().UTC().Format("20060102"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if svcErr := ctrl.analytics.ExportOrdersCSV(c.Request.Context(), period, c.Writer); svcErr != nil {
		// Headers may already be out; at least report the failure status.
		c.Status(svcErr.StatusCode)
	}
}
