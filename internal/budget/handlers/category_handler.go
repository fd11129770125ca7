package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/budget/ledger"
	"github.com/Jkamin0/data5570-mycode/internal/budget/models"
)

// ListCategoriesHandler возвращает все категории пользователя.
func ListCategoriesHandler(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Where("user_id = ?", currentUserID(c)).Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch categories"})
		return
	}
	if categories == nil {
		categories = make([]models.Category, 0)
	}
	c.JSON(http.StatusOK, categories)
}

// CategoryInput - поля для создания и обновления категории.
type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategoryHandler создает категорию для текущего пользователя.
func CreateCategoryHandler(c *gin.Context) {
	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{
		UserID: currentUserID(c),
		Name:   input.Name,
	}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategoryHandler возвращает одну категорию пользователя.
func GetCategoryHandler(c *gin.Context) {
	var category models.Category
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, category)
}

// UpdateCategoryHandler переименовывает категорию.
func UpdateCategoryHandler(c *gin.Context) {
	var category models.Category
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category.Name = input.Name
	if err := config.DB.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategoryHandler удаляет категорию. Аллокации категории уходят
// каскадом, у транзакций категория обнуляется (история трат остается).
func DeleteCategoryHandler(c *gin.Context) {
	var category models.Category
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.BudgetAllocation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// CategoryBalancesHandler отдает allocated/spent/available по каждой
// категории пользователя.
func CategoryBalancesHandler(c *gin.Context) {
	balances, err := ledger.CategoryBalances(config.DB, currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not calculate category balances"})
		return
	}
	c.JSON(http.StatusOK, balances)
}
