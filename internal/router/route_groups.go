package router

import (
	"github.com/bigsparsh/inventraX/internal/handlers"
	"github.com/bigsparsh/inventraX/internal/middleware"
	"github.com/bigsparsh/inventraX/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes. Register and login are
// public; /auth/me requires a valid token.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}

// SetupStaffRoutes sets up the user administration routes.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	staffRoutes := authenticatedGroup.Group("/staff")
	{
		staffRoutes.GET("", middleware.RequirePermission(models.ActionRead), staffHandler.GetStaff)
		staffRoutes.POST("", middleware.RequirePermission(models.ActionCreate), staffHandler.CreateStaff)
		staffRoutes.PUT("/:id", middleware.RequirePermission(models.ActionUpdate), staffHandler.UpdateStaff)
		staffRoutes.POST("/promote", middleware.RequirePermission(models.ActionUpdate), staffHandler.PromoteStaff)
		staffRoutes.POST("/fire", middleware.RequirePermission(models.ActionDelete), staffHandler.FireStaff)
	}
}

// SetupCategoryRoutes sets up the category routes.
func SetupCategoryRoutes(authenticatedGroup *gin.RouterGroup, categoryHandler *handlers.CategoryHandler) {
	categoryRoutes := authenticatedGroup.Group("/categories")
	{
		categoryRoutes.GET("", middleware.RequirePermission(models.ActionRead), categoryHandler.GetCategories)
		categoryRoutes.GET("/:id", middleware.RequirePermission(models.ActionRead), categoryHandler.GetCategoryByID)
		categoryRoutes.POST("", middleware.RequirePermission(models.ActionCreate), categoryHandler.CreateCategory)
		categoryRoutes.PUT("/:id", middleware.RequirePermission(models.ActionUpdate), categoryHandler.UpdateCategory)
		categoryRoutes.DELETE("/:id", middleware.RequirePermission(models.ActionDelete), categoryHandler.DeleteCategory)
	}
}

// SetupProductRoutes sets up the product routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.GET("", middleware.RequirePermission(models.ActionRead), productHandler.GetProducts)
		productRoutes.GET("/:id", middleware.RequirePermission(models.ActionRead), productHandler.GetProductByID)
		productRoutes.POST("", middleware.RequirePermission(models.ActionCreate), productHandler.CreateProduct)
		productRoutes.PUT("/:id", middleware.RequirePermission(models.ActionUpdate), productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", middleware.RequirePermission(models.ActionDelete), productHandler.DeleteProduct)
	}
}

// SetupInventoryRoutes sets up the check-in/check-out workflow, transaction
// listing and audit log routes. Deleting transactions or audit rows is
// admin-only.
func SetupInventoryRoutes(authenticatedGroup *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	authenticatedGroup.POST("/inventory/check-in", middleware.RequirePermission(models.ActionUpdate), inventoryHandler.CheckIn)
	authenticatedGroup.POST("/inventory/check-out", middleware.RequirePermission(models.ActionUpdate), inventoryHandler.CheckOut)
	authenticatedGroup.GET("/transactions", middleware.RequirePermission(models.ActionRead), inventoryHandler.GetTransactions)
	authenticatedGroup.DELETE("/transactions/:id", middleware.RequireRole(models.RoleAdmin), inventoryHandler.DeleteTransaction)
	authenticatedGroup.DELETE("/logs/:id", middleware.RequireRole(models.RoleAdmin), inventoryHandler.DeleteLog)
}

// SetupDashboardRoutes sets up the dashboard aggregation routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	dashboardRoutes := authenticatedGroup.Group("/dashboard")
	dashboardRoutes.Use(middleware.RequirePermission(models.ActionRead))
	{
		dashboardRoutes.GET("/stats", dashboardHandler.GetStats)
		dashboardRoutes.GET("/categories", dashboardHandler.GetCategoryDistribution)
		dashboardRoutes.GET("/low-stock", dashboardHandler.GetLowStockProducts)
		dashboardRoutes.GET("/transactions", dashboardHandler.GetRecentTransactions)
		dashboardRoutes.GET("/logs", dashboardHandler.GetRecentLogs)
		dashboardRoutes.GET("/trends", dashboardHandler.GetTransactionTrends)
		dashboardRoutes.GET("/inventory-trends", dashboardHandler.GetInventoryTrends)
		dashboardRoutes.GET("/transaction-stats", dashboardHandler.GetTransactionStats)
	}
}

// SetupNaturalRoutes sets up the natural-language query proxy.
func SetupNaturalRoutes(authenticatedGroup *gin.RouterGroup, naturalHandler *handlers.NaturalHandler) {
	authenticatedGroup.POST("/natural", middleware.RequirePermission(models.ActionRead), naturalHandler.Process)
}
