package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/budget/ledger"
	"github.com/Jkamin0/data5570-mycode/internal/budget/models"
	"github.com/Jkamin0/data5570-mycode/internal/budget/routes"
)

func main() {
	rebuildBalances := flag.Bool("rebuild-balances", false,
		"добавить суммы аллокаций обратно к балансам счетов (миграция со старой модели) и выйти")
	flag.Parse()

	config.Load()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.BudgetAllocation{},
		&models.Transaction{},
	); err != nil {
		slog.Error("Ошибка миграции схемы", "error", err)
		os.Exit(1)
	}

	if *rebuildBalances {
		if err := ledger.RebuildAccountBalances(config.DB); err != nil {
			slog.Error("Ошибка пересчета балансов", "error", err)
			os.Exit(1)
		}
		return
	}

	gin.SetMode(viper.GetString("GIN_MODE"))
	r := gin.Default()
	routes.SetupRoutes(r)

	slog.Info("budget-api запущен", "addr", config.Addr())
	if err := r.Run(config.Addr()); err != nil {
		slog.Error("Ошибка запуска сервера", "error", err)
		os.Exit(1)
	}
}
