package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/budget/ledger"
	"github.com/Jkamin0/data5570-mycode/internal/budget/models"
	"github.com/Jkamin0/data5570-mycode/internal/pagination"
)

// ListTransactionsHandler возвращает транзакции пользователя
// постранично, новые сверху.
func ListTransactionsHandler(c *gin.Context) {
	userID := currentUserID(c)

	var totalRows int64
	if err := config.DB.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
		return
	}

	var transactions []models.Transaction
	err := config.DB.
		Preload("Category").Preload("Account").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Scopes(pagination.Paginate(c)).
		Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
		return
	}

	response := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response = append(response, buildTransactionResponse(t))
	}
	c.JSON(http.StatusOK, pagination.NewResponse(c, response, totalRows))
}

// TransactionInput - поля запроса на создание транзакции.
type TransactionInput struct {
	AccountID   uint            `json:"account" binding:"required"`
	CategoryID  *uint           `json:"category"`
	Type        string          `json:"transaction_type" binding:"required,oneof=income expense"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// CreateTransactionHandler проводит транзакцию через ядро: строка и
// корректировка баланса применяются атомарно.
func CreateTransactionHandler(c *gin.Context) {
	var input TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := ledger.CreateTransaction(config.DB, currentUserID(c), ledger.CreateTransactionInput{
		AccountID:   input.AccountID,
		CategoryID:  input.CategoryID,
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	if err := config.DB.Preload("Category").Preload("Account").First(txn, txn.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transaction"})
		return
	}
	c.JSON(http.StatusCreated, buildTransactionResponse(*txn))
}

// GetTransactionHandler возвращает одну транзакцию пользователя.
func GetTransactionHandler(c *gin.Context) {
	var txn models.Transaction
	err := config.DB.
		Preload("Category").Preload("Account").
		Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		First(&txn).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}
	c.JSON(http.StatusOK, buildTransactionResponse(txn))
}

// DeleteTransactionHandler откатывает баланс и удаляет транзакцию.
func DeleteTransactionHandler(c *gin.Context) {
	idInt, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	if err := ledger.DeleteTransaction(config.DB, currentUserID(c), idInt); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// ExportTransactionsHandler выгружает транзакции пользователя в xlsx.
func ExportTransactionsHandler(c *gin.Context) {
	var transactions []models.Transaction
	err := config.DB.
		Preload("Category").Preload("Account").
		Where("user_id = ?", currentUserID(c)).
		Order("created_at desc").
		Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch transactions"})
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Type", "Amount", "Account", "Category", "Description"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, t := range transactions {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.CreatedAt.Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.Type)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), t.Account.Name)
		if t.Category != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), t.Category.Name)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.Description)
	}

	fileName := fmt.Sprintf("transactions_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write export file"})
	}
}
