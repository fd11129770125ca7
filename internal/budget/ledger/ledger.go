// Пакет ledger - ядро бюджетного приложения: все операции, которые
// затрагивают баланс счета или распределение средств по категориям.
// Каждая изменяющая операция выполняется в одной транзакции БД:
// либо применяются и строка, и корректировка баланса, либо ничего.
//
// Модель бюджета - "не денежная": баланс счета меняют только
// транзакции (income/expense), а BudgetAllocation - чисто
// информационные строки. Перенос между категориями хранится как пара
// аллокаций (-amount / +amount).
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jkamin0/data5570-mycode/internal/budget/models"
)

// CreateTransactionInput - проверенные поля запроса на создание транзакции.
type CreateTransactionInput struct {
	AccountID   uint
	CategoryID  *uint
	Type        string
	Amount      decimal.Decimal
	Description string
}

// CreateTransaction создает транзакцию и атомарно корректирует баланс
// счета: +amount для дохода, -amount для расхода.
func CreateTransaction(db *gorm.DB, userID uint, in CreateTransactionInput) (*models.Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if in.Type != models.TransactionTypeIncome && in.Type != models.TransactionTypeExpense {
		return nil, ErrInvalidType
	}
	if in.Type == models.TransactionTypeExpense && in.CategoryID == nil {
		return nil, ErrCategoryRequired
	}

	var txn *models.Transaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Where("id = ? AND user_id = ?", in.AccountID, userID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Категория (если указана) должна принадлежать тому же пользователю
		if in.CategoryID != nil {
			var category models.Category
			if err := tx.Where("id = ? AND user_id = ?", *in.CategoryID, userID).First(&category).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
		}

		txn = &models.Transaction{
			UserID:      userID,
			CategoryID:  in.CategoryID,
			AccountID:   in.AccountID,
			Type:        in.Type,
			Amount:      in.Amount,
			Description: in.Description,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		if in.Type == models.TransactionTypeIncome {
			account.Balance = account.Balance.Add(in.Amount)
		} else {
			account.Balance = account.Balance.Sub(in.Amount)
		}
		return tx.Model(&account).Update("balance", account.Balance).Error
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction откатывает влияние транзакции на баланс и удаляет
// строку. Откат и удаление - одна транзакция БД.
func DeleteTransaction(db *gorm.DB, userID, transactionID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", transactionID, userID).First(&txn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var account models.Account
		if err := tx.First(&account, txn.AccountID).Error; err != nil {
			return err
		}

		if txn.Type == models.TransactionTypeIncome {
			account.Balance = account.Balance.Sub(txn.Amount)
		} else {
			account.Balance = account.Balance.Add(txn.Amount)
		}
		if err := tx.Model(&account).Update("balance", account.Balance).Error; err != nil {
			return err
		}
		return tx.Delete(&txn).Error
	})
}

// CreateAllocationInput - поля запроса на выделение средств в категорию.
type CreateAllocationInput struct {
	CategoryID uint
	AccountID  uint
	Amount     decimal.Decimal
}

// CreateAllocation выделяет средства из счета в категорию. Баланс счета
// не меняется; проверяется только лимит "available to budget" по всем
// счетам пользователя.
func CreateAllocation(db *gorm.DB, userID uint, in CreateAllocationInput) (*models.BudgetAllocation, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var alloc *models.BudgetAllocation
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkOwnership(tx, userID, in.AccountID, in.CategoryID); err != nil {
			return err
		}

		available, err := availableToBudget(tx, userID)
		if err != nil {
			return err
		}
		if in.Amount.GreaterThan(available) {
			return &InsufficientFundsError{Scope: "budget", Available: available, Requested: in.Amount}
		}

		alloc = &models.BudgetAllocation{
			CategoryID: in.CategoryID,
			AccountID:  in.AccountID,
			Amount:     in.Amount,
		}
		return tx.Create(alloc).Error
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// DeleteAllocation удаляет аллокацию. Балансового эффекта нет, т.к.
// создание аллокации денег не двигало.
func DeleteAllocation(db *gorm.DB, userID, allocationID uint) error {
	result := db.
		Where("id = ?", allocationID).
		Where("account_id IN (?)", db.Model(&models.Account{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.BudgetAllocation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MoveMoneyInput - поля запроса на перенос средств между категориями.
type MoveMoneyInput struct {
	SourceCategoryID uint
	TargetCategoryID uint
	AccountID        uint
	Amount           decimal.Decimal
}

// MoveMoney атомарно вставляет пару аллокаций: -amount в исходную
// категорию и +amount в целевую. Сумма allocated(source)+allocated(target)
// при этом не меняется. Возвращает целевую аллокацию и готовое
// сообщение для фронтенда.
func MoveMoney(db *gorm.DB, userID uint, in MoveMoneyInput) (*models.BudgetAllocation, string, error) {
	if !in.Amount.IsPositive() {
		return nil, "", ErrInvalidAmount
	}
	if in.SourceCategoryID == in.TargetCategoryID {
		return nil, "", ErrSameCategory
	}

	var target *models.BudgetAllocation
	var message string
	err := db.Transaction(func(tx *gorm.DB) error {
		var source, dest models.Category
		if err := tx.Where("id = ? AND user_id = ?", in.SourceCategoryID, userID).First(&source).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("id = ? AND user_id = ?", in.TargetCategoryID, userID).First(&dest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		var account models.Account
		if err := tx.Where("id = ? AND user_id = ?", in.AccountID, userID).First(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		available, err := categoryAvailable(tx, source.ID)
		if err != nil {
			return err
		}
		if in.Amount.GreaterThan(available) {
			return &InsufficientFundsError{Scope: "category", Available: available, Requested: in.Amount}
		}

		debit := &models.BudgetAllocation{
			CategoryID: source.ID,
			AccountID:  account.ID,
			Amount:     in.Amount.Neg(),
		}
		if err := tx.Create(debit).Error; err != nil {
			return err
		}

		target = &models.BudgetAllocation{
			CategoryID: dest.ID,
			AccountID:  account.ID,
			Amount:     in.Amount,
		}
		if err := tx.Create(target).Error; err != nil {
			return err
		}

		message = fmt.Sprintf("Moved $%s from %s to %s", in.Amount.StringFixed(2), source.Name, dest.Name)
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return target, message, nil
}

// CategoryBalance - строка ответа /api/categories/balances. Суммы
// отдаются строками, чтобы не терять точность в JSON.
type CategoryBalance struct {
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	Allocated    string `json:"allocated"`
	Spent        string `json:"spent"`
	Available    string `json:"available"`
}

// CategoryBalances считает allocated/spent/available для каждой
// категории пользователя.
func CategoryBalances(db *gorm.DB, userID uint) ([]CategoryBalance, error) {
	var categories []models.Category
	if err := db.Where("user_id = ?", userID).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}

	balances := make([]CategoryBalance, 0, len(categories))
	for _, category := range categories {
		allocated, err := sumAllocations(db, category.ID)
		if err != nil {
			return nil, err
		}
		spent, err := sumExpenses(db, category.ID)
		if err != nil {
			return nil, err
		}
		balances = append(balances, CategoryBalance{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Allocated:    allocated.StringFixed(2),
			Spent:        spent.StringFixed(2),
			Available:    allocated.Sub(spent).StringFixed(2),
		})
	}
	return balances, nil
}

// AvailableToBudget - сколько пользователь еще может распределить:
// сумма балансов всех счетов минус все аллокации плюс все расходы.
func AvailableToBudget(db *gorm.DB, userID uint) (decimal.Decimal, error) {
	return availableToBudget(db, userID)
}

func availableToBudget(tx *gorm.DB, userID uint) (decimal.Decimal, error) {
	var totalBalance decimal.Decimal
	err := tx.Model(&models.Account{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(balance), 0)").
		Row().Scan(&totalBalance)
	if err != nil {
		return decimal.Zero, err
	}

	var totalAllocated decimal.Decimal
	err = tx.Model(&models.BudgetAllocation{}).
		Joins("JOIN accounts ON accounts.id = budget_allocations.account_id").
		Where("accounts.user_id = ? AND accounts.deleted_at IS NULL", userID).
		Select("COALESCE(SUM(budget_allocations.amount), 0)").
		Row().Scan(&totalAllocated)
	if err != nil {
		return decimal.Zero, err
	}

	var totalSpent decimal.Decimal
	err = tx.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeExpense).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&totalSpent)
	if err != nil {
		return decimal.Zero, err
	}

	return totalBalance.Sub(totalAllocated).Add(totalSpent), nil
}

// checkOwnership убеждается, что и счет, и категория принадлежат
// пользователю. Чужая сущность выглядит как несуществующая.
func checkOwnership(tx *gorm.DB, userID, accountID, categoryID uint) error {
	var account models.Account
	if err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	var category models.Category
	if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// categoryAvailable - остаток конкретной категории: аллокации минус расходы.
func categoryAvailable(tx *gorm.DB, categoryID uint) (decimal.Decimal, error) {
	allocated, err := sumAllocations(tx, categoryID)
	if err != nil {
		return decimal.Zero, err
	}
	spent, err := sumExpenses(tx, categoryID)
	if err != nil {
		return decimal.Zero, err
	}
	return allocated.Sub(spent), nil
}

func sumAllocations(tx *gorm.DB, categoryID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&models.BudgetAllocation{}).
		Where("category_id = ?", categoryID).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	return total, err
}

func sumExpenses(tx *gorm.DB, categoryID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Model(&models.Transaction{}).
		Where("category_id = ? AND type = ?", categoryID, models.TransactionTypeExpense).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&total)
	return total, err
}
