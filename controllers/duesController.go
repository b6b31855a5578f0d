package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-api/dtos"
	"pos-api/middlewares"
	"pos-api/models"
	"pos-api/services"
	"pos-api/utils"
)

type DuesController struct {
	service services.DuesService
}

func NewDuesController(service services.DuesService) *DuesController {
	return &DuesController{service: service}
}

// GET /dues?searchTerm&page&limit
func (dc *DuesController) GetDues(c *gin.Context) {
	page := utils.ParsePage(c, utils.DefaultLimit)
	dues, total, err := dc.service.List(c.Request.Context(), c.Query("searchTerm"), page)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dues":       dues,
		"pagination": utils.BuildPagination(total, page),
	})
}

// GET /dues/overdue
func (dc *DuesController) GetOverdueDues(c *gin.Context) {
	page := utils.ParsePage(c, utils.DefaultLimit)
	dues, total, err := dc.service.Overdue(c.Request.Context(), page)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"overdueDues": dues,
		"pagination":  utils.BuildPagination(total, page),
	})
}

// GET /dues/statistics?startDate&endDate
func (dc *DuesController) GetDuesStatistics(c *gin.Context) {
	stats, err := dc.service.Statistics(c.Request.Context(), dtos.DuesStatisticsQuery{
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	})
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /dues/:id
func (dc *DuesController) GetDueByID(c *gin.Context) {
	tx, err := dc.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// POST /dues/:id/collect
func (dc *DuesController) CollectDue(c *gin.Context) {
	var input dtos.CollectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.BindError(c, err)
		return
	}
	staff, ok := utils.GetIdentity(c)
	if !ok {
		middlewares.AbortWithError(c, models.ErrUnauthorized)
		return
	}

	tx, err := dc.service.Collect(c.Request.Context(), staff, c.Param("id"), input)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}

	message := "Partial payment collected"
	if tx.PaymentStatus == models.PaymentPaid {
		message = "Dues fully paid"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     message,
		"transaction": tx,
	})
}

// PATCH /dues/:id/customer-details
func (dc *DuesController) UpdateDueCustomer(c *gin.Context) {
	var input dtos.UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.BindError(c, err)
		return
	}

	tx, err := dc.service.UpdateCustomer(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}
