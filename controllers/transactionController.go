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

type TransactionController struct {
	service services.TransactionService
}

func NewTransactionController(service services.TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

// POST /transactions/sale
// A body with paymentMethods records a split sale, otherwise a single
// payment sale.
func (tc *TransactionController) RecordSale(c *gin.Context) {
	var input dtos.SaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.BindError(c, err)
		return
	}
	staff, ok := utils.GetIdentity(c)
	if !ok {
		middlewares.AbortWithError(c, models.ErrUnauthorized)
		return
	}

	var (
		tx  *models.Transaction
		err error
	)
	if input.IsSplit() {
		tx, err = tc.service.RecordSplitSale(c.Request.Context(), staff, input)
	} else {
		tx, err = tc.service.RecordSale(c.Request.Context(), staff, input)
	}
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Sale recorded successfully",
		"transaction": tx,
	})
}

// POST /transactions/expense
func (tc *TransactionController) RecordExpense(c *gin.Context) {
	var input dtos.ExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.BindError(c, err)
		return
	}
	staff, ok := utils.GetIdentity(c)
	if !ok {
		middlewares.AbortWithError(c, models.ErrUnauthorized)
		return
	}

	tx, err := tc.service.RecordExpense(c.Request.Context(), staff, input)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Expense recorded successfully",
		"transaction": tx,
	})
}

// GET /transactions/:id
func (tc *TransactionController) GetTransactionByID(c *gin.Context) {
	tx, err := tc.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}
