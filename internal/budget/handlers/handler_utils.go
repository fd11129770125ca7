package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Jkamin0/data5570-mycode/internal/budget/ledger"
	"github.com/Jkamin0/data5570-mycode/internal/budget/models"
)

// currentUserID достает id пользователя, положенный в контекст
// middleware'ом. До этой точки запрос без валидного токена не доходит.
func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

// parseIDParam разбирает ":id" из URL.
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// respondLedgerError переводит ошибки ядра в HTTP-статусы.
// Нарушение владения отдаем как 404, чтобы не раскрывать чужие id.
func respondLedgerError(c *gin.Context, err error) {
	var insufficient *ledger.InsufficientFundsError
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{"error": insufficient.Error()})
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidType),
		errors.Is(err, ledger.ErrCategoryRequired),
		errors.Is(err, ledger.ErrSameCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// AllocationResponse - аллокация с денормализованными именами для фронтенда.
type AllocationResponse struct {
	ID           uint            `json:"id"`
	CategoryID   uint            `json:"category"`
	CategoryName string          `json:"category_name"`
	AccountID    uint            `json:"account"`
	AccountName  string          `json:"account_name"`
	Amount       decimal.Decimal `json:"amount"`
	AllocatedAt  time.Time       `json:"allocated_at"`
}

func buildAllocationResponse(a models.BudgetAllocation) AllocationResponse {
	return AllocationResponse{
		ID:           a.ID,
		CategoryID:   a.CategoryID,
		CategoryName: a.Category.Name,
		AccountID:    a.AccountID,
		AccountName:  a.Account.Name,
		Amount:       a.Amount,
		AllocatedAt:  a.CreatedAt,
	}
}

// TransactionResponse - транзакция с именами категории и счета.
type TransactionResponse struct {
	ID           uint            `json:"id"`
	CategoryID   *uint           `json:"category"`
	CategoryName string          `json:"category_name"`
	AccountID    uint            `json:"account"`
	AccountName  string          `json:"account_name"`
	Type         string          `json:"transaction_type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
}

func buildTransactionResponse(t models.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID,
		CategoryID:  t.CategoryID,
		AccountID:   t.AccountID,
		AccountName: t.Account.Name,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.CreatedAt,
	}
	if t.Category != nil {
		resp.CategoryName = t.Category.Name
	}
	return resp
}
