package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/customers/models"
	"github.com/Jkamin0/data5570-mycode/internal/customers/routes"
	"github.com/Jkamin0/data5570-mycode/internal/pagination"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Customer{}))
	config.DB = db

	r := gin.New()
	routes.SetupRoutes(r)
	return r
}

func doRequest(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createCustomer(t *testing.T, r *gin.Engine, firstName, email string) models.Customer {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/customers", gin.H{
		"first_name": firstName,
		"last_name":  "Doe",
		"email":      email,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var customer models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customer))
	return customer
}

func TestCustomerCRUD(t *testing.T) {
	r := setupServer(t)

	customer := createCustomer(t, r, "Jane", "jane@example.com")

	// Email уникален
	w := doRequest(r, http.MethodPost, "/api/customers", gin.H{
		"first_name": "Other", "last_name": "Doe", "email": "jane@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	// Валидация email
	w = doRequest(r, http.MethodPost, "/api/customers", gin.H{
		"first_name": "Bad", "last_name": "Email", "email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, fmt.Sprintf("/api/customers/%d", customer.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPut, fmt.Sprintf("/api/customers/%d", customer.ID), gin.H{
		"first_name": "Janet", "last_name": "Doe", "email": "jane@example.com", "phone": "555-0101",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Customer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "555-0101", updated.Phone)

	w = doRequest(r, http.MethodDelete, fmt.Sprintf("/api/customers/%d", customer.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(r, http.MethodDelete, fmt.Sprintf("/api/customers/%d", customer.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(r, http.MethodGet, fmt.Sprintf("/api/customers/%d", customer.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerListPagination(t *testing.T) {
	r := setupServer(t)

	for i := 0; i < 25; i++ {
		createCustomer(t, r, fmt.Sprintf("Customer%02d", i), fmt.Sprintf("c%02d@example.com", i))
	}

	w := doRequest(r, http.MethodGet, "/api/customers?page=2&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data        []models.Customer `json:"data"`
		TotalRows   int64             `json:"totalRows"`
		TotalPages  int               `json:"totalPages"`
		CurrentPage int               `json:"currentPage"`
		PageSize    int               `json:"pageSize"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 25, resp.TotalRows)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
	assert.Equal(t, 10, resp.PageSize)
	require.Len(t, resp.Data, 10)
	assert.Equal(t, "Customer10", resp.Data[0].FirstName)

	// Дефолтный размер страницы
	w = doRequest(r, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, pagination.DefaultPageSize, resp.PageSize)
	assert.Len(t, resp.Data, pagination.DefaultPageSize)

	// Слишком большой pageSize ограничивается максимумом
	w = doRequest(r, http.MethodGet, "/api/customers?pageSize=1000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, pagination.MaxPageSize, resp.PageSize)
}
