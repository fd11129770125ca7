package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/habits/models"
)

// UserResponse - публичные поля пользователя.
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func buildUserResponse(u models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

// newTokenKey генерирует непрозрачный ключ токена.
func newTokenKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// getOrCreateToken возвращает действующий токен пользователя, создавая
// его при первом входе.
func getOrCreateToken(userID uint) (*models.AuthToken, error) {
	var token models.AuthToken
	err := config.DB.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}

	token = models.AuthToken{Key: newTokenKey(), UserID: userID}
	if err := config.DB.Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

// RegisterInput - данные формы регистрации.
type RegisterInput struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// RegisterHandler создает пользователя и возвращает его токен.
func RegisterHandler(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Password != input.PasswordConfirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A user with that username already exists"})
		return
	}

	token, err := getOrCreateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token.Key,
		"user":  buildUserResponse(user),
	})
}

// LoginInput - данные формы входа.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler проверяет учетные данные и возвращает токен.
func LoginHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide both username and password"})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := getOrCreateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token.Key,
		"user":  buildUserResponse(user),
	})
}

// LogoutHandler удаляет токен пользователя: старые клиенты разлогинятся.
func LogoutHandler(c *gin.Context) {
	if err := config.DB.Where("user_id = ?", currentUserID(c)).Delete(&models.AuthToken{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// CurrentUserHandler возвращает профиль по токену.
func CurrentUserHandler(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, buildUserResponse(user))
}
