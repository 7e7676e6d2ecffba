package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"spendtrack/internal/fx"
	"spendtrack/internal/middleware"
	"spendtrack/internal/services"
)

// NewRouter assembles the full API router over the given database and
// currency converter.
func NewRouter(db *gorm.DB, converter fx.Converter) *gin.Engine {
	planService := services.NewPlanService(db)
	transactionService := services.NewTransactionService(db, planService, converter)
	categoryService := services.NewCategoryService(db)
	reportService := services.NewReportService(transactionService)

	transactionHandler := NewTransactionHandler(transactionService)
	categoryHandler := NewCategoryHandler(categoryService)
	planHandler := NewPlanHandler(planService)
	reportHandler := NewReportHandler(reportService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CSRF())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.CreateTransaction)
			transactions.GET("", transactionHandler.GetTransactions)
			transactions.GET("/:id", transactionHandler.GetTransactionByID)
			transactions.PUT("/:id", transactionHandler.UpdateTransaction)
			transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", categoryHandler.CreateCategory)
			categories.GET("", categoryHandler.GetCategories)
			categories.PUT("/:id", categoryHandler.UpdateCategory)
			categories.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		plans := v1.Group("/plans")
		{
			plans.POST("", planHandler.CreatePlan)
			plans.GET("", planHandler.GetPlans)
			plans.GET("/:id", planHandler.GetPlanByID)
			plans.PUT("/:id", planHandler.UpdatePlan)
			plans.DELETE("/:id", planHandler.DeletePlan)
		}

		v1.POST("/reports", reportHandler.GenerateReport)
	}

	return router
}
