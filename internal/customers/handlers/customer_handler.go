package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/customers/models"
	"github.com/Jkamin0/data5570-mycode/internal/pagination"
)

// ListCustomersHandler возвращает клиентов постранично.
func ListCustomersHandler(c *gin.Context) {
	var totalRows int64
	if err := config.DB.Model(&models.Customer{}).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch customers"})
		return
	}

	var customers []models.Customer
	if err := config.DB.Scopes(pagination.Paginate(c)).Order("id asc").Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch customers"})
		return
	}
	if customers == nil {
		customers = make([]models.Customer, 0)
	}

	c.JSON(http.StatusOK, pagination.NewResponse(c, customers, totalRows))
}

// CustomerInput - поля формы клиента.
type CustomerInput struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
}

// CreateCustomerHandler создает клиента.
func CreateCustomerHandler(c *gin.Context) {
	var input CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := models.Customer{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
	}
	if err := config.DB.Create(&customer).Error; err != nil {
		// Email уникален
		c.JSON(http.StatusBadRequest, gin.H{"error": "A customer with that email already exists"})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GetCustomerHandler возвращает одного клиента по id.
func GetCustomerHandler(c *gin.Context) {
	var customer models.Customer
	if err := config.DB.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// UpdateCustomerHandler обновляет данные клиента.
func UpdateCustomerHandler(c *gin.Context) {
	var customer models.Customer
	if err := config.DB.First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var input CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer.FirstName = input.FirstName
	customer.LastName = input.LastName
	customer.Email = input.Email
	customer.Phone = input.Phone
	if err := config.DB.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update customer"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomerHandler удаляет клиента.
func DeleteCustomerHandler(c *gin.Context) {
	if result := config.DB.Delete(&models.Customer{}, c.Param("id")); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete customer"})
		return
	} else if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
