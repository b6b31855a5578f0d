package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-api/dtos"
	"pos-api/middlewares"
	"pos-api/utils"
)

// GET /transactions/history?page&limit&filter&type
func (tc *TransactionController) GetTransactionHistory(c *gin.Context) {
	page := utils.ParsePage(c, utils.DefaultLimit)
	query := dtos.HistoryQuery{
		Filter: c.DefaultQuery("filter", "all"),
		Type:   c.Query("type"),
	}

	transactions, total, err := tc.service.History(c.Request.Context(), query, page)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"pagination":   utils.BuildPagination(total, page),
	})
}
