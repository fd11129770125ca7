package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound возвращается, когда сущность не существует или
	// принадлежит другому пользователю. Снаружи эти два случая
	// неразличимы, чтобы не раскрывать чужие id.
	ErrNotFound = errors.New("not found")

	ErrInvalidAmount    = errors.New("Amount must be greater than zero")
	ErrInvalidType      = errors.New("transaction_type must be income or expense")
	ErrCategoryRequired = errors.New("Category is required for expenses")
	ErrSameCategory     = errors.New("Source and target categories must be different")
)

// InsufficientFundsError - попытка выделить или перенести больше, чем доступно.
type InsufficientFundsError struct {
	// Scope: "budget" - общий лимит "available to budget",
	// "category" - остаток исходной категории при переносе.
	Scope     string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	if e.Scope == "category" {
		return fmt.Sprintf("Insufficient funds in source category. Available: $%s, Requested: $%s",
			e.Available.StringFixed(2), e.Requested.StringFixed(2))
	}
	return fmt.Sprintf("Insufficient available budget. Available: $%s, Requested: $%s",
		e.Available.StringFixed(2), e.Requested.StringFixed(2))
}
