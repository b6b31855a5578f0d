package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pos-api/config"
	"pos-api/controllers"
	"pos-api/middlewares"
	"pos-api/models"
	"pos-api/services"
	"pos-api/store"
)

type Deps struct {
	Config *config.Config
	Store  store.Store
	// Clock defaults to time.Now.
	Clock services.Clock
}

// CorsConfig allows the configured front-end origins with cookies.
func CorsConfig(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	loc := cfg.Location()
	secret := cfg.Auth.TokenSecret

	transactionController := controllers.NewTransactionController(services.NewTransactionService(d.Store, d.Clock, loc))
	duesController := controllers.NewDuesController(services.NewDuesService(d.Store, d.Clock, loc))
	dashboardController := controllers.NewDashboardController(services.NewDashboardService(d.Store, d.Clock, loc))
	authController := controllers.NewAuthController(
		services.NewAuthService(d.Store, secret, cfg.Auth.TokenTTL, d.Clock),
		cfg.Auth.TokenTTL,
		cfg.IsProduction(),
	)
	imageService := services.NewImageService(services.CloudCredentials{
		CloudName: cfg.Cloud.Name,
		APIKey:    cfg.Cloud.APIKey,
		APISecret: cfg.Cloud.APISecret,
		Folder:    cfg.Cloud.UploadFolder,
	}, d.Clock)
	imageController := controllers.NewImageController(imageService)
	productController := controllers.NewProductController(services.NewProductService(d.Store, imageService, d.Clock))

	staffRoles := middlewares.RoleMiddleware(models.RoleOwner, models.RoleStaff)

	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register-staff", middlewares.AuthMiddleware(secret), middlewares.RoleMiddleware(models.RoleOwner), authController.RegisterStaff)
	}

	// Public catalogue, staff see the full record when logged in
	products := r.Group("/products")
	{
		products.GET("", middlewares.OptionalAuth(secret), productController.GetProducts)
		products.GET("/manage", middlewares.AuthMiddleware(secret), staffRoles, productController.GetManagedProducts)
		products.GET("/:id", middlewares.OptionalAuth(secret), productController.GetProductByID)
		products.POST("", middlewares.AuthMiddleware(secret), staffRoles, productController.CreateProduct)
		products.DELETE("/:id", middlewares.AuthMiddleware(secret), staffRoles, productController.DeleteProduct)
	}

	images := r.Group("/images")
	images.Use(middlewares.AuthMiddleware(secret))
	{
		images.GET("/sign-upload", imageController.GetUploadSignature)
	}

	transactions := r.Group("/transactions")
	transactions.Use(middlewares.AuthMiddleware(secret), staffRoles)
	{
		transactions.POST("/sale", transactionController.RecordSale)
		transactions.POST("/expense", transactionController.RecordExpense)
		transactions.GET("/history", transactionController.GetTransactionHistory)
		transactions.GET("/:id", transactionController.GetTransactionByID)
	}

	dues := r.Group("/dues")
	dues.Use(middlewares.AuthMiddleware(secret), staffRoles)
	{
		dues.GET("", duesController.GetDues)
		dues.GET("/statistics", duesController.GetDuesStatistics)
		dues.GET("/overdue", duesController.GetOverdueDues)
		dues.GET("/:id", duesController.GetDueByID)
		dues.POST("/:id/collect", duesController.CollectDue)
		dues.PATCH("/:id/customer-details", duesController.UpdateDueCustomer)
	}

	// Dashboard (owner only)
	dashboard := r.Group("/dashboard")
	dashboard.Use(middlewares.AuthMiddleware(secret), middlewares.RoleMiddleware(models.RoleOwner))
	{
		dashboard.GET("/stats", dashboardController.GetStats)
		dashboard.GET("/sales-chart", dashboardController.GetSalesChart)
		dashboard.GET("/category-chart", dashboardController.GetCategoryChart)
		dashboard.GET("/overview", dashboardController.GetOverview)
	}
}
