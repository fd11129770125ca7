package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Jkamin0/data5570-mycode/internal/budget/handlers"
	"github.com/Jkamin0/data5570-mycode/internal/budget/middleware"
)

// SetupRoutes инициализирует все маршруты бюджетного API.
func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// --- АУТЕНТИФИКАЦИЯ (публичные маршруты) ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.RegisterHandler)
		auth.POST("/login", handlers.LoginHandler)
		auth.POST("/refresh", handlers.RefreshTokenHandler)
	}

	// --- Защищенная группа маршрутов ---
	authRequired := api.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		authRequired.GET("/auth/user", handlers.CurrentUserHandler)

		// --- СЧЕТА ---
		accounts := authRequired.Group("/accounts")
		{
			accounts.GET("", handlers.ListAccountsHandler)
			accounts.POST("", handlers.CreateAccountHandler)
			accounts.GET("/:id", handlers.GetAccountHandler)
			accounts.PUT("/:id", handlers.UpdateAccountHandler)
			accounts.DELETE("/:id", handlers.DeleteAccountHandler)
		}

		// --- КАТЕГОРИИ ---
		categories := authRequired.Group("/categories")
		{
			categories.GET("", handlers.ListCategoriesHandler)
			categories.POST("", handlers.CreateCategoryHandler)
			categories.GET("/balances", handlers.CategoryBalancesHandler)
			categories.GET("/:id", handlers.GetCategoryHandler)
			categories.PUT("/:id", handlers.UpdateCategoryHandler)
			categories.DELETE("/:id", handlers.DeleteCategoryHandler)
		}

		// --- АЛЛОКАЦИИ ---
		allocations := authRequired.Group("/allocations")
		{
			allocations.GET("", handlers.ListAllocationsHandler)
			allocations.POST("", handlers.CreateAllocationHandler)
			allocations.POST("/move", handlers.MoveMoneyHandler)
			allocations.GET("/available", handlers.AvailableToBudgetHandler)
			allocations.GET("/:id", handlers.GetAllocationHandler)
			allocations.DELETE("/:id", handlers.DeleteAllocationHandler)
		}

		// --- ТРАНЗАКЦИИ ---
		transactions := authRequired.Group("/transactions")
		{
			transactions.GET("", handlers.ListTransactionsHandler)
			transactions.POST("", handlers.CreateTransactionHandler)
			transactions.GET("/export", handlers.ExportTransactionsHandler)
			transactions.GET("/:id", handlers.GetTransactionHandler)
			transactions.DELETE("/:id", handlers.DeleteTransactionHandler)
		}
	}
}
