package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/budget/models"
)

// ListAccountsHandler возвращает все счета пользователя.
func ListAccountsHandler(c *gin.Context) {
	var accounts []models.Account
	if err := config.DB.Where("user_id = ?", currentUserID(c)).Order("created_at desc").Find(&accounts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch accounts"})
		return
	}
	if accounts == nil {
		accounts = make([]models.Account, 0)
	}
	c.JSON(http.StatusOK, accounts)
}

// AccountInput - поля для создания и обновления счета. Баланс можно
// задать при создании (стартовый остаток), дальше его двигают только
// транзакции.
type AccountInput struct {
	Name    string           `json:"name" binding:"required"`
	Balance *decimal.Decimal `json:"balance"`
}

// CreateAccountHandler создает счет для текущего пользователя.
func CreateAccountHandler(c *gin.Context) {
	var input AccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := models.Account{
		UserID: currentUserID(c),
		Name:   input.Name,
	}
	if input.Balance != nil {
		account.Balance = *input.Balance
	}

	if err := config.DB.Create(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}
	c.JSON(http.StatusCreated, account)
}

// GetAccountHandler возвращает один счет. Чужой счет выглядит как 404.
func GetAccountHandler(c *gin.Context) {
	var account models.Account
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).First(&account).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// UpdateAccountHandler обновляет счет. Баланс тоже можно выставить
// вручную (ручная корректировка остатка, как в исходном API).
func UpdateAccountHandler(c *gin.Context) {
	var account models.Account
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).First(&account).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	var input AccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account.Name = input.Name
	if input.Balance != nil {
		account.Balance = *input.Balance
	}
	if err := config.DB.Save(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update account"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// DeleteAccountHandler удаляет счет вместе с его аллокациями и
// транзакциями (каскад).
func DeleteAccountHandler(c *gin.Context) {
	userID := currentUserID(c)
	var account models.Account
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&account).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.BudgetAllocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&account).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
