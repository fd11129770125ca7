package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/budget/ledger"
	"github.com/Jkamin0/data5570-mycode/internal/budget/models"
)

// ListAllocationsHandler возвращает аллокации пользователя (через
// владение счетом, как в оригинальном queryset).
func ListAllocationsHandler(c *gin.Context) {
	var allocations []models.BudgetAllocation
	err := config.DB.
		Preload("Category").Preload("Account").
		Joins("JOIN accounts ON accounts.id = budget_allocations.account_id").
		Where("accounts.user_id = ? AND accounts.deleted_at IS NULL", currentUserID(c)).
		Order("budget_allocations.created_at desc").
		Find(&allocations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch allocations"})
		return
	}

	response := make([]AllocationResponse, 0, len(allocations))
	for _, a := range allocations {
		response = append(response, buildAllocationResponse(a))
	}
	c.JSON(http.StatusOK, response)
}

// AllocationInput - поля запроса на выделение средств.
type AllocationInput struct {
	CategoryID uint            `json:"category" binding:"required"`
	AccountID  uint            `json:"account" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// CreateAllocationHandler выделяет средства в категорию через ядро.
func CreateAllocationHandler(c *gin.Context) {
	var input AllocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alloc, err := ledger.CreateAllocation(config.DB, currentUserID(c), ledger.CreateAllocationInput{
		CategoryID: input.CategoryID,
		AccountID:  input.AccountID,
		Amount:     input.Amount,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	if err := config.DB.Preload("Category").Preload("Account").First(alloc, alloc.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load allocation"})
		return
	}
	c.JSON(http.StatusCreated, buildAllocationResponse(*alloc))
}

// GetAllocationHandler возвращает одну аллокацию пользователя.
func GetAllocationHandler(c *gin.Context) {
	var alloc models.BudgetAllocation
	err := config.DB.
		Preload("Category").Preload("Account").
		Joins("JOIN accounts ON accounts.id = budget_allocations.account_id").
		Where("budget_allocations.id = ? AND accounts.user_id = ? AND accounts.deleted_at IS NULL",
			c.Param("id"), currentUserID(c)).
		First(&alloc).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Allocation not found"})
		return
	}
	c.JSON(http.StatusOK, buildAllocationResponse(alloc))
}

// DeleteAllocationHandler удаляет аллокацию (без балансового эффекта).
func DeleteAllocationHandler(c *gin.Context) {
	idInt, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	if err := ledger.DeleteAllocation(config.DB, currentUserID(c), idInt); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// MoveMoneyInput - поля запроса POST /api/allocations/move.
type MoveMoneyInput struct {
	SourceCategory uint            `json:"source_category" binding:"required"`
	TargetCategory uint            `json:"target_category" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Account        uint            `json:"account" binding:"required"`
}

// MoveMoneyHandler переносит средства между категориями.
func MoveMoneyHandler(c *gin.Context) {
	var input MoveMoneyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_category, target_category, amount, and account are required"})
		return
	}

	target, message, err := ledger.MoveMoney(config.DB, currentUserID(c), ledger.MoveMoneyInput{
		SourceCategoryID: input.SourceCategory,
		TargetCategoryID: input.TargetCategory,
		AccountID:        input.Account,
		Amount:           input.Amount,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	if err := config.DB.Preload("Category").Preload("Account").First(target, target.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load allocation"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    message,
		"allocation": buildAllocationResponse(*target),
	})
}

// AvailableToBudgetHandler отдает общий нераспределенный остаток.
func AvailableToBudgetHandler(c *gin.Context) {
	available, err := ledger.AvailableToBudget(config.DB, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not calculate available budget"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available_to_budget": available.StringFixed(2)})
}
