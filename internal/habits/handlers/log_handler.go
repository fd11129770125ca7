package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Jkamin0/data5570-mycode/config"
	"github.com/Jkamin0/data5570-mycode/internal/habits/models"
)

// ListLogsHandler возвращает отметки по всем привычкам пользователя.
// Поддерживает фильтры ?date=YYYY-MM-DD и ?habit=<id>.
func ListLogsHandler(c *gin.Context) {
	query := config.DB.
		Joins("JOIN habits ON habits.id = habit_logs.habit_id").
		Where("habits.user_id = ? AND habits.deleted_at IS NULL", currentUserID(c))

	if date := c.Query("date"); date != "" {
		if _, err := time.Parse(time.DateOnly, date); err == nil {
			query = query.Where("habit_logs.date = ?", date)
		}
	}
	if habitID := c.Query("habit"); habitID != "" {
		query = query.Where("habit_logs.habit_id = ?", habitID)
	}

	var logs []models.HabitLog
	if err := query.Order("habit_logs.date desc").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch logs"})
		return
	}
	if logs == nil {
		logs = make([]models.HabitLog, 0)
	}
	c.JSON(http.StatusOK, logs)
}

// LogInput - поля для создания и обновления отметки.
type LogInput struct {
	HabitID   uint   `json:"habit" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes"`
}

// CreateLogHandler создает отметку. Привычка должна принадлежать
// текущему пользователю.
func CreateLogHandler(c *gin.Context) {
	var input LogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := time.Parse(time.DateOnly, input.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date must be in YYYY-MM-DD format"})
		return
	}

	var habit models.Habit
	if err := config.DB.Where("id = ? AND user_id = ?", input.HabitID, currentUserID(c)).First(&habit).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to log for this habit"})
		return
	}

	log := models.HabitLog{
		HabitID:   habit.ID,
		Date:      input.Date,
		Completed: input.Completed,
		Notes:     input.Notes,
	}
	if err := config.DB.Create(&log).Error; err != nil {
		// Уникальный индекс habit+date: отметка за этот день уже есть
		c.JSON(http.StatusBadRequest, gin.H{"error": "A log for this habit and date already exists"})
		return
	}
	c.JSON(http.StatusCreated, log)
}

// findUserLog ищет отметку, принадлежащую пользователю через привычку.
func findUserLog(c *gin.Context) (*models.HabitLog, bool) {
	var log models.HabitLog
	err := config.DB.
		Joins("JOIN habits ON habits.id = habit_logs.habit_id").
		Where("habit_logs.id = ? AND habits.user_id = ? AND habits.deleted_at IS NULL",
			c.Param("id"), currentUserID(c)).
		First(&log).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
		return nil, false
	}
	return &log, true
}

// GetLogHandler возвращает одну отметку.
func GetLogHandler(c *gin.Context) {
	log, ok := findUserLog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, log)
}

// UpdateLogHandler меняет completed/notes у отметки.
func UpdateLogHandler(c *gin.Context) {
	log, ok := findUserLog(c)
	if !ok {
		return
	}

	var input struct {
		Completed *bool   `json:"completed"`
		Notes     *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Completed != nil {
		log.Completed = *input.Completed
	}
	if input.Notes != nil {
		log.Notes = *input.Notes
	}
	if err := config.DB.Save(log).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update log"})
		return
	}
	c.JSON(http.StatusOK, log)
}

// DeleteLogHandler удаляет отметку.
func DeleteLogHandler(c *gin.Context) {
	log, ok := findUserLog(c)
	if !ok {
		return
	}
	if err := config.DB.Delete(log).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete log"})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
