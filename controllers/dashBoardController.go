package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-api/middlewares"
	"pos-api/services"
)

type DashboardController struct {
	service services.DashboardService
}

func NewDashboardController(service services.DashboardService) *DashboardController {
	return &DashboardController{service: service}
}

// GET /dashboard/stats?filter
func (dc *DashboardController) GetStats(c *gin.Context) {
	stats, err := dc.service.Stats(c.Request.Context(), c.Query("filter"))
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /dashboard/sales-chart
func (dc *DashboardController) GetSalesChart(c *gin.Context) {
	chart, err := dc.service.SalesChart(c.Request.Context())
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

// GET /dashboard/category-chart?filter&metric
func (dc *DashboardController) GetCategoryChart(c *gin.Context) {
	chart, err := dc.service.CategoryChart(c.Request.Context(), c.Query("filter"), c.Query("metric"))
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, chart)
}

// GET /dashboard/overview?filter
func (dc *DashboardController) GetOverview(c *gin.Context) {
	overview, err := dc.service.Overview(c.Request.Context(), c.Query("filter"))
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
