package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/habits/models"
)

// currentUserID достает id пользователя из контекста запроса.
func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

// HabitResponse - привычка вместе с вычисленными сериями.
type HabitResponse struct {
	ID             uint              `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Color          string            `json:"color"`
	Icon           string            `json:"icon"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	CurrentStreak  int               `json:"current_streak"`
	LongestStreak  int               `json:"longest_streak"`
	TodayCompleted bool              `json:"today_completed"`
	Logs           []models.HabitLog `json:"logs,omitempty"`
}

// buildHabitResponse подгружает отметки привычки и считает серии.
func buildHabitResponse(habit models.Habit, includeLogs bool) (HabitResponse, error) {
	var logs []models.HabitLog
	if err := config.DB.Where("habit_id = ?", habit.ID).Order("date desc").Find(&logs).Error; err != nil {
		return HabitResponse{}, err
	}

	today := time.Now()
	todayStr := today.Format(time.DateOnly)
	todayCompleted := false
	for _, log := range logs {
		if log.Date == todayStr {
			todayCompleted = log.Completed
			break
		}
	}

	resp := HabitResponse{
		ID:             habit.ID,
		Name:           habit.Name,
		Description:    habit.Description,
		Color:          habit.Color,
		Icon:           habit.Icon,
		CreatedAt:      habit.CreatedAt,
		UpdatedAt:      habit.UpdatedAt,
		CurrentStreak:  models.CurrentStreak(logs, today),
		LongestStreak:  models.LongestStreak(logs),
		TodayCompleted: todayCompleted,
	}
	if includeLogs {
		if logs == nil {
			logs = make([]models.HabitLog, 0)
		}
		resp.Logs = logs
	}
	return resp, nil
}

// ListHabitsHandler возвращает привычки пользователя, новые сверху.
func ListHabitsHandler(c *gin.Context) {
	var habits []models.Habit
	if err := config.DB.Where("user_id = ?", currentUserID(c)).Order("created_at desc").Find(&habits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch habits"})
		return
	}

	response := make([]HabitResponse, 0, len(habits))
	for _, habit := range habits {
		resp, err := buildHabitResponse(habit, false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch habit logs"})
			return
		}
		response = append(response, resp)
	}
	c.JSON(http.StatusOK, response)
}

// HabitInput - поля для создания и обновления привычки.
type HabitInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// CreateHabitHandler создает привычку. Имя должно быть уникально в
// пределах пользователя.
func CreateHabitHandler(c *gin.Context) {
	var input HabitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	var count int64
	config.DB.Model(&models.Habit{}).Where("user_id = ? AND name = ?", userID, input.Name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already have a habit with this name."})
		return
	}

	habit := models.Habit{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Icon:        input.Icon,
	}
	if habit.Color == "" {
		habit.Color = "#3B82F6"
	}
	if habit.Icon == "" {
		habit.Icon = "star"
	}

	if err := config.DB.Create(&habit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create habit"})
		return
	}

	resp, err := buildHabitResponse(habit, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load habit"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetHabitHandler возвращает привычку вместе со всеми отметками.
func GetHabitHandler(c *gin.Context) {
	var habit models.Habit
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).First(&habit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		return
	}

	resp, err := buildHabitResponse(habit, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load habit"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateHabitHandler обновляет поля привычки.
func UpdateHabitHandler(c *gin.Context) {
	userID := currentUserID(c)
	var habit models.Habit
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&habit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		return
	}

	var input HabitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Имя должно остаться уникальным среди остальных привычек пользователя
	var count int64
	config.DB.Model(&models.Habit{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, input.Name, habit.ID).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already have a habit with this name."})
		return
	}

	habit.Name = input.Name
	habit.Description = input.Description
	if input.Color != "" {
		habit.Color = input.Color
	}
	if input.Icon != "" {
		habit.Icon = input.Icon
	}

	if err := config.DB.Save(&habit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update habit"})
		return
	}

	resp, err := buildHabitResponse(habit, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load habit"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteHabitHandler удаляет привычку вместе с отметками.
func DeleteHabitHandler(c *gin.Context) {
	var habit models.Habit
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).First(&habit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		return
	}

	if err := config.DB.Where("habit_id = ?", habit.ID).Delete(&models.HabitLog{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete habit logs"})
		return
	}
	if err := config.DB.Delete(&habit).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete habit"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// ToggleTodayHandler отмечает сегодняшний день: если отметки нет -
// создает выполненную, иначе переключает completed.
func ToggleTodayHandler(c *gin.Context) {
	var habit models.Habit
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).First(&habit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		return
	}

	today := time.Now().Format(time.DateOnly)
	var log models.HabitLog
	err := config.DB.Where("habit_id = ? AND date = ?", habit.ID, today).First(&log).Error
	if err != nil {
		log = models.HabitLog{HabitID: habit.ID, Date: today, Completed: true}
		if err := config.DB.Create(&log).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create log"})
			return
		}
	} else {
		log.Completed = !log.Completed
		if err := config.DB.Save(&log).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update log"})
			return
		}
	}

	// Возвращаем привычку с пересчитанными сериями
	resp, err := buildHabitResponse(habit, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load habit"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HabitLogsHandler возвращает отметки привычки с фильтром по диапазону дат.
func HabitLogsHandler(c *gin.Context) {
	var habit models.Habit
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).First(&habit).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Habit not found"})
		return
	}

	query := config.DB.Where("habit_id = ?", habit.ID)
	if start := c.Query("start_date"); start != "" {
		if _, err := time.Parse(time.DateOnly, start); err == nil {
			query = query.Where("date >= ?", start)
		}
	}
	if end := c.Query("end_date"); end != "" {
		if _, err := time.Parse(time.DateOnly, end); err == nil {
			query = query.Where("date <= ?", end)
		}
	}

	var logs []models.HabitLog
	if err := query.Order("date desc").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch logs"})
		return
	}
	if logs == nil {
		logs = make([]models.HabitLog, 0)
	}
	c.JSON(http.StatusOK, logs)
}
