package router

import (
	"database/sql"

	"github.com/bigsparsh/inventraX/internal/config"
	"github.com/bigsparsh/inventraX/internal/database"
	"github.com/bigsparsh/inventraX/internal/handlers"
	"github.com/bigsparsh/inventraX/internal/middleware"
	"github.com/bigsparsh/inventraX/internal/repositories"
	"github.com/bigsparsh/inventraX/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers onto the engine.
func Setup(engine *gin.Engine, db *sql.DB, cfg *config.Config) {
	// Repositories read through a logging executor; services that manage their
	// own transactions receive the raw pool for Begin().
	exec := database.NewLoggingExecutor(db)

	userRepo := repositories.NewUserRepository(exec)
	categoryRepo := repositories.NewCategoryRepository(exec)
	productRepo := repositories.NewProductRepository(exec)
	transactionRepo := repositories.NewTransactionRepository(exec)
	logRepo := repositories.NewInventoryLogRepository(exec)
	dashboardRepo := repositories.NewDashboardRepository(exec)

	authService := services.NewAuthService(userRepo, db)
	staffService := services.NewStaffService(userRepo, db)
	categoryService := services.NewCategoryService(categoryRepo, exec)
	productService := services.NewProductService(productRepo, exec)
	inventoryService := services.NewInventoryService(productRepo, transactionRepo, logRepo, userRepo, db)
	dashboardService := services.NewDashboardService(dashboardRepo, transactionRepo, logRepo)

	authHandler := handlers.NewAuthHandler(authService)
	staffHandler := handlers.NewStaffHandler(staffService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	naturalHandler := handlers.NewNaturalHandler(cfg.Natural.ServiceURL, cfg.Natural.Timeout)

	api := engine.Group("/api")

	SetupAuthRoutes(api, authHandler)

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupStaffRoutes(authenticated, staffHandler)
		SetupCategoryRoutes(authenticated, categoryHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupInventoryRoutes(authenticated, inventoryHandler)
		SetupDashboardRoutes(authenticated, dashboardHandler)
		SetupNaturalRoutes(authenticated, naturalHandler)
	}
}
