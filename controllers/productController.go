package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pos-api/dtos"
	"pos-api/middlewares"
	"pos-api/services"
	"pos-api/store"
	"pos-api/utils"
)

const productPageSize = 12

type ProductController struct {
	service services.ProductService
}

func NewProductController(service services.ProductService) *ProductController {
	return &ProductController{service: service}
}

func productQuery(c *gin.Context) store.ProductQuery {
	return store.ProductQuery{
		Page:        utils.ParsePage(c, productPageSize),
		Search:      c.Query("search"),
		Category:    c.Query("category"),
		SubCategory: c.Query("subCategory"),
		MinPrice:    utils.QueryFloat(c, "minPrice"),
		MaxPrice:    utils.QueryFloat(c, "maxPrice"),
		Sort:        store.ProductSort(strings.ToLower(c.Query("sort"))),
	}
}

// GET /products
func (pc *ProductController) GetProducts(c *gin.Context) {
	q := productQuery(c)
	products, total, err := pc.service.ListPublic(c.Request.Context(), q)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":   utils.FilterProductsForRole(products, utils.GetUserRole(c)),
		"pagination": utils.BuildPagination(total, q.Page),
	})
}

// GET /products/:id
func (pc *ProductController) GetProductByID(c *gin.Context) {
	product, err := pc.service.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.FilterProductForRole(*product, utils.GetUserRole(c)))
}

// GET /products/manage
func (pc *ProductController) GetManagedProducts(c *gin.Context) {
	q := productQuery(c)
	products, total, err := pc.service.ListAll(c.Request.Context(), q)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"pagination": utils.BuildPagination(total, q.Page),
	})
}

// POST /products
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var input dtos.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middlewares.BindError(c, err)
		return
	}

	product, err := pc.service.Create(c.Request.Context(), input)
	if err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// DELETE /products/:id
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	if err := pc.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middlewares.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
