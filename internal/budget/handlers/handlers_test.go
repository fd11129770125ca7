package handlers

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
	"github.com/Jkamin0/data5570-mycode/internal/budget/models"
)

// setupTestDB подменяет config.DB на sqlite в памяти. Каждый тест
// получает чистую базу.
func setupTestDB(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.JwtKey = []byte("test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.BudgetAllocation{},
		&models.Transaction{},
	))
	config.DB = db
}

// authAs - тестовая замена AuthMiddleware: кладет user_id в контекст
// без разбора токена и без Redis.
func authAs(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// newRouter собирает маршруты так же, как routes.SetupRoutes, но с
// подменой аутентификации.
func newRouter(userID uint) *gin.Engine {
	r := gin.New()
	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", RegisterHandler)
	auth.POST("/login", LoginHandler)
	auth.POST("/refresh", RefreshTokenHandler)

	protected := api.Group("/")
	protected.Use(authAs(userID))
	{
		protected.GET("/auth/user", CurrentUserHandler)

		protected.GET("/accounts", ListAccountsHandler)
		protected.POST("/accounts", CreateAccountHandler)
		protected.GET("/accounts/:id", GetAccountHandler)
		protected.PUT("/accounts/:id", UpdateAccountHandler)
		protected.DELETE("/accounts/:id", DeleteAccountHandler)

		protected.GET("/categories", ListCategoriesHandler)
		protected.POST("/categories", CreateCategoryHandler)
		protected.GET("/categories/balances", CategoryBalancesHandler)
		protected.GET("/categories/:id", GetCategoryHandler)
		protected.PUT("/categories/:id", UpdateCategoryHandler)
		protected.DELETE("/categories/:id", DeleteCategoryHandler)

		protected.GET("/allocations", ListAllocationsHandler)
		protected.POST("/allocations", CreateAllocationHandler)
		protected.POST("/allocations/move", MoveMoneyHandler)
		protected.GET("/allocations/available", AvailableToBudgetHandler)
		protected.GET("/allocations/:id", GetAllocationHandler)
		protected.DELETE("/allocations/:id", DeleteAllocationHandler)

		protected.GET("/transactions", ListTransactionsHandler)
		protected.POST("/transactions", CreateTransactionHandler)
		protected.GET("/transactions/export", ExportTransactionsHandler)
		protected.GET("/transactions/:id", GetTransactionHandler)
		protected.DELETE("/transactions/:id", DeleteTransactionHandler)
	}
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

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func seedUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	require.NoError(t, config.DB.Create(&user).Error)
	return user
}

func TestRegisterHandler(t *testing.T) {
	setupTestDB(t)
	r := newRouter(0)

	w := doRequest(r, http.MethodPost, "/api/auth/register", gin.H{
		"username":         "alice",
		"email":            "alice@example.com",
		"password":         "correct horse",
		"password_confirm": "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User   UserResponse `json:"user"`
		Tokens struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
	}
	decodeJSON(t, w, &resp)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.Tokens.Access)
	assert.NotEmpty(t, resp.Tokens.Refresh)

	// Повторная регистрация с тем же username
	w = doRequest(r, http.MethodPost, "/api/auth/register", gin.H{
		"username":         "alice",
		"email":            "other@example.com",
		"password":         "correct horse",
		"password_confirm": "correct horse",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/auth/register", gin.H{
		"username":         "bob",
		"email":            "bob@example.com",
		"password":         "correct horse",
		"password_confirm": "wrong horse",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Passwords do not match")
}

func TestLoginAndRefresh(t *testing.T) {
	setupTestDB(t)
	r := newRouter(0)

	w := doRequest(r, http.MethodPost, "/api/auth/register", gin.H{
		"username":         "alice",
		"email":            "alice@example.com",
		"password":         "correct horse",
		"password_confirm": "correct horse",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodPost, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "correct horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Tokens struct {
			Access  string `json:"access"`
			Refresh string `json:"refresh"`
		} `json:"tokens"`
	}
	decodeJSON(t, w, &login)

	w = doRequest(r, http.MethodPost, "/api/auth/login", gin.H{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// refresh выдает новый access-токен
	w = doRequest(r, http.MethodPost, "/api/auth/refresh", gin.H{"refresh": login.Tokens.Refresh})
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed map[string]string
	decodeJSON(t, w, &refreshed)
	assert.NotEmpty(t, refreshed["access"])

	// access-токен вместо refresh не принимается
	w = doRequest(r, http.MethodPost, "/api/auth/refresh", gin.H{"refresh": login.Tokens.Access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not a refresh token")
}

func TestAccountCRUD(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice")
	bob := seedUser(t, "bob")
	r := newRouter(alice.ID)

	w := doRequest(r, http.MethodPost, "/api/accounts", gin.H{"name": "Checking", "balance": "1000.00"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var account models.Account
	decodeJSON(t, w, &account)
	assert.Equal(t, "1000.00", account.Balance.StringFixed(2))

	w = doRequest(r, http.MethodGet, fmt.Sprintf("/api/accounts/%d", account.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPut, fmt.Sprintf("/api/accounts/%d", account.ID), gin.H{"name": "Main checking"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Account
	decodeJSON(t, w, &updated)
	assert.Equal(t, "Main checking", updated.Name)
	// Без balance в теле остаток не трогаем
	assert.Equal(t, "1000.00", updated.Balance.StringFixed(2))

	// Ручная корректировка остатка через PUT
	w = doRequest(r, http.MethodPut, fmt.Sprintf("/api/accounts/%d", account.ID), gin.H{
		"name": "Main checking", "balance": "1250.00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &updated)
	assert.Equal(t, "1250.00", updated.Balance.StringFixed(2))

	// Чужому пользователю счет не виден
	bobRouter := newRouter(bob.ID)
	w = doRequest(bobRouter, http.MethodGet, fmt.Sprintf("/api/accounts/%d", account.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(bobRouter, http.MethodDelete, fmt.Sprintf("/api/accounts/%d", account.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodDelete, fmt.Sprintf("/api/accounts/%d", account.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(r, http.MethodGet, "/api/accounts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestTransactionEndpointsAdjustBalance(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice")
	r := newRouter(alice.ID)

	var account models.Account
	w := doRequest(r, http.MethodPost, "/api/accounts", gin.H{"name": "Checking", "balance": "1000.00"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &account)

	var category models.Category
	w = doRequest(r, http.MethodPost, "/api/categories", gin.H{"name": "Groceries"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &category)

	w = doRequest(r, http.MethodPost, "/api/transactions", gin.H{
		"account":          account.ID,
		"category":         category.ID,
		"transaction_type": "expense",
		"amount":           "50.00",
		"description":      "Weekly shop",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var txn TransactionResponse
	decodeJSON(t, w, &txn)
	assert.Equal(t, "Groceries", txn.CategoryName)

	w = doRequest(r, http.MethodGet, fmt.Sprintf("/api/accounts/%d", account.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Account
	decodeJSON(t, w, &got)
	assert.Equal(t, "950.00", got.Balance.StringFixed(2))

	// Удаление возвращает баланс
	w = doRequest(r, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", txn.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(r, http.MethodGet, fmt.Sprintf("/api/accounts/%d", account.ID), nil)
	decodeJSON(t, w, &got)
	assert.Equal(t, "1000.00", got.Balance.StringFixed(2))

	// Расход без категории отклоняется
	w = doRequest(r, http.MethodPost, "/api/transactions", gin.H{
		"account":          account.ID,
		"transaction_type": "expense",
		"amount":           "10.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Category is required")
}

func TestAllocationEndpoints(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice")
	r := newRouter(alice.ID)

	var account models.Account
	w := doRequest(r, http.MethodPost, "/api/accounts", gin.H{"name": "Checking", "balance": "1000.00"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &account)

	var groceries, rent models.Category
	w = doRequest(r, http.MethodPost, "/api/categories", gin.H{"name": "Groceries"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &groceries)
	w = doRequest(r, http.MethodPost, "/api/categories", gin.H{"name": "Rent"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &rent)

	w = doRequest(r, http.MethodPost, "/api/allocations", gin.H{
		"category": groceries.ID, "account": account.ID, "amount": "300.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var alloc AllocationResponse
	decodeJSON(t, w, &alloc)
	assert.Equal(t, "Groceries", alloc.CategoryName)
	assert.Equal(t, "Checking", alloc.AccountName)

	// Доступно 700, просим 800
	w = doRequest(r, http.MethodPost, "/api/allocations", gin.H{
		"category": groceries.ID, "account": account.ID, "amount": "800.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient available budget. Available: $700.00, Requested: $800.00")

	w = doRequest(r, http.MethodGet, "/api/allocations/available", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var available map[string]string
	decodeJSON(t, w, &available)
	assert.Equal(t, "700.00", available["available_to_budget"])

	// Перенос между категориями
	w = doRequest(r, http.MethodPost, "/api/allocations/move", gin.H{
		"source_category": groceries.ID,
		"target_category": rent.ID,
		"account":         account.ID,
		"amount":          "100.00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var moved struct {
		Message    string             `json:"message"`
		Allocation AllocationResponse `json:"allocation"`
	}
	decodeJSON(t, w, &moved)
	assert.Equal(t, "Moved $100.00 from Groceries to Rent", moved.Message)
	assert.Equal(t, "Rent", moved.Allocation.CategoryName)

	w = doRequest(r, http.MethodPost, "/api/allocations/move", gin.H{
		"source_category": groceries.ID,
		"target_category": groceries.ID,
		"account":         account.ID,
		"amount":          "10.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodDelete, fmt.Sprintf("/api/allocations/%d", alloc.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTransactionListPagination(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice")
	r := newRouter(alice.ID)

	var account models.Account
	w := doRequest(r, http.MethodPost, "/api/accounts", gin.H{"name": "Checking", "balance": "0.00"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &account)

	for i := 0; i < 25; i++ {
		w = doRequest(r, http.MethodPost, "/api/transactions", gin.H{
			"account":          account.ID,
			"transaction_type": "income",
			"amount":           fmt.Sprintf("%d.00", i+1),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var resp struct {
		Data        []TransactionResponse `json:"data"`
		TotalRows   int64                 `json:"totalRows"`
		TotalPages  int                   `json:"totalPages"`
		CurrentPage int                   `json:"currentPage"`
		PageSize    int                   `json:"pageSize"`
	}

	w = doRequest(r, http.MethodGet, "/api/transactions?page=2&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	assert.EqualValues(t, 25, resp.TotalRows)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 2, resp.CurrentPage)
	assert.Len(t, resp.Data, 10)

	w = doRequest(r, http.MethodGet, "/api/transactions?page=3&pageSize=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	assert.Len(t, resp.Data, 5)

	// totalRows считается только по своим транзакциям
	bob := seedUser(t, "bob")
	bobRouter := newRouter(bob.ID)
	w = doRequest(bobRouter, http.MethodGet, "/api/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &resp)
	assert.EqualValues(t, 0, resp.TotalRows)
	assert.Len(t, resp.Data, 0)
}

func TestCategoryBalancesEndpoint(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice")
	r := newRouter(alice.ID)

	var account models.Account
	w := doRequest(r, http.MethodPost, "/api/accounts", gin.H{"name": "Checking", "balance": "1000.00"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &account)

	var groceries models.Category
	w = doRequest(r, http.MethodPost, "/api/categories", gin.H{"name": "Groceries"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &groceries)

	w = doRequest(r, http.MethodPost, "/api/allocations", gin.H{
		"category": groceries.ID, "account": account.ID, "amount": "300.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doRequest(r, http.MethodPost, "/api/transactions", gin.H{
		"account": account.ID, "category": groceries.ID,
		"transaction_type": "expense", "amount": "50.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodGet, "/api/categories/balances", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var balances []map[string]any
	decodeJSON(t, w, &balances)
	require.Len(t, balances, 1)
	assert.Equal(t, "Groceries", balances[0]["category_name"])
	assert.Equal(t, "300.00", balances[0]["allocated"])
	assert.Equal(t, "50.00", balances[0]["spent"])
	assert.Equal(t, "250.00", balances[0]["available"])
}

func TestExportTransactions(t *testing.T) {
	setupTestDB(t)
	alice := seedUser(t, "alice")
	r := newRouter(alice.ID)

	var account models.Account
	w := doRequest(r, http.MethodPost, "/api/accounts", gin.H{"name": "Checking", "balance": "100.00"})
	require.Equal(t, http.StatusCreated, w.Code)
	decodeJSON(t, w, &account)

	w = doRequest(r, http.MethodPost, "/api/transactions", gin.H{
		"account": account.ID, "transaction_type": "income", "amount": "25.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodGet, "/api/transactions/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotZero(t, w.Body.Len())
}
