package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/customers/models"
	"github.com/Jkamin0/data5570-mycode/internal/customers/routes"
)

func main() {
	config.Load()
	config.ConnectDB()

	if err := config.DB.AutoMigrate(&models.Customer{}); err != nil {
		slog.Error("Ошибка миграции схемы", "error", err)
		os.Exit(1)
	}

	gin.SetMode(viper.GetString("GIN_MODE"))
	r := gin.Default()
	routes.SetupRoutes(r)

	slog.Info("customers-api запущен", "addr", config.Addr())
	if err := r.Run(config.Addr()); err != nil {
		slog.Error("Ошибка запуска сервера", "error", err)
		os.Exit(1)
	}
}
