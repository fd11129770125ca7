package ledger

import (
	"log/slog"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jkamin0/data5570-mycode/internal/budget/models"
)

// RebuildAccountBalances - одноразовая миграция со старой модели, где
// аллокации списывали деньги со счета. Возвращает каждому счету сумму
// его аллокаций. Запускается флагом -rebuild-balances у budget-api.
func RebuildAccountBalances(db *gorm.DB) error {
	var accounts []models.Account
	if err := db.Find(&accounts).Error; err != nil {
		return err
	}
	if len(accounts) == 0 {
		slog.Warn("No accounts found. Nothing to rebuild.")
		return nil
	}

	for _, account := range accounts {
		var allocationSum decimal.Decimal
		err := db.Model(&models.BudgetAllocation{}).
			Where("account_id = ?", account.ID).
			Select("COALESCE(SUM(amount), 0)").
			Row().Scan(&allocationSum)
		if err != nil {
			return err
		}

		newBalance := account.Balance.Add(allocationSum)
		if err := db.Model(&account).Update("balance", newBalance).Error; err != nil {
			return err
		}
		slog.Info("Баланс пересчитан",
			"account", account.Name,
			"added", allocationSum.StringFixed(2),
			"balance", newBalance.StringFixed(2))
	}

	slog.Info("Account balances rebuilt.")
	return nil
}
