package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Jkamin0/data5570-mycode/internal/customers/handlers"
)

// SetupRoutes инициализирует маршруты реестра клиентов.
// Аутентификации у этого сервиса нет - как и у оригинального реестра.
func SetupRoutes(r *gin.Engine) {
	customers := r.Group("/api/customers")
	{
		customers.GET("", handlers.ListCustomersHandler)
		customers.POST("", handlers.CreateCustomerHandler)
		customers.GET("/:id", handlers.GetCustomerHandler)
		customers.PUT("/:id", handlers.UpdateCustomerHandler)
		customers.DELETE("/:id", handlers.DeleteCustomerHandler)
	}
}
