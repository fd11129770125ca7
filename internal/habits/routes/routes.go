package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Jkamin0/data5570-mycode/internal/habits/handlers"
	"github.com/Jkamin0/data5570-mycode/internal/habits/middleware"
)

// SetupRoutes инициализирует все маршруты трекера привычек.
func SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")

	// --- АУТЕНТИФИКАЦИЯ ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.RegisterHandler)
		auth.POST("/login", handlers.LoginHandler)
	}

	authRequired := api.Group("/")
	authRequired.Use(middleware.TokenAuthMiddleware())
	{
		authRequired.POST("/auth/logout", handlers.LogoutHandler)
		authRequired.GET("/auth/user", handlers.CurrentUserHandler)

		// --- ПРИВЫЧКИ ---
		habits := authRequired.Group("/habits")
		{
			habits.GET("", handlers.ListHabitsHandler)
			habits.POST("", handlers.CreateHabitHandler)
			habits.GET("/:id", handlers.GetHabitHandler)
			habits.PUT("/:id", handlers.UpdateHabitHandler)
			habits.DELETE("/:id", handlers.DeleteHabitHandler)
			habits.POST("/:id/toggle_today", handlers.ToggleTodayHandler)
			habits.GET("/:id/logs", handlers.HabitLogsHandler)
		}

		// --- ОТМЕТКИ ---
		logs := authRequired.Group("/logs")
		{
			logs.GET("", handlers.ListLogsHandler)
			logs.POST("", handlers.CreateLogHandler)
			logs.GET("/:id", handlers.GetLogHandler)
			logs.PUT("/:id", handlers.UpdateLogHandler)
			logs.DELETE("/:id", handlers.DeleteLogHandler)
		}
	}
}
