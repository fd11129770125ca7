package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User - пользователь бюджетного приложения.
type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email    string `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Password string `json:"-" gorm:"not null"`
}

// Account представляет денежный счет пользователя. Balance - кэшируемый
// итог: его меняют только транзакции (см. internal/budget/ledger).
type Account struct {
	gorm.Model
	UserID  uint            `json:"user_id" gorm:"index;not null"`
	User    User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Name    string          `json:"name" gorm:"size:100;not null"`
	Balance decimal.Decimal `json:"balance" gorm:"type:numeric(10,2);not null;default:0"`
}

// Category - конверт бюджета ("Продукты", "Аренда" и т.д.).
type Category struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;not null"`
	User   User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Name   string `json:"name" gorm:"size:100;not null"`
}

// BudgetAllocation - выделение средств со счета в категорию.
// Сумма может быть отрицательной: перенос между категориями хранится
// как пара строк (-amount / +amount).
type BudgetAllocation struct {
	gorm.Model
	CategoryID uint            `json:"category" gorm:"index;not null"`
	Category   Category        `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AccountID  uint            `json:"account" gorm:"index;not null"`
	Account    Account         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
}

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction - фактическое движение денег (доход или расход) по счету.
type Transaction struct {
	gorm.Model
	UserID      uint            `json:"user_id" gorm:"index;not null"`
	User        User            `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CategoryID  *uint           `json:"category" gorm:"index"`
	Category    *Category       `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	AccountID   uint            `json:"account" gorm:"index;not null"`
	Account     Account         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Type        string          `json:"transaction_type" gorm:"size:10;not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	Description string          `json:"description" gorm:"size:255"`
}
