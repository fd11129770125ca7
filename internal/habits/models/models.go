package models

import (
	"sort"
	"time"

	"gorm.io/gorm"
)

// User - пользователь трекера привычек.
type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email    string `json:"email" gorm:"size:254"`
	Password string `json:"-" gorm:"not null"`
}

// AuthToken - непрозрачный токен доступа (аналог DRF TokenAuth):
// клиент шлет его в заголовке "Authorization: Token <key>".
type AuthToken struct {
	gorm.Model
	Key    string `json:"key" gorm:"uniqueIndex;size:64;not null"`
	UserID uint   `json:"user_id" gorm:"index;not null"`
	User   User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Habit - привычка пользователя. Имя уникально в пределах пользователя.
type Habit struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_habits_user_name"`
	User        User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Name        string `json:"name" gorm:"size:200;not null;uniqueIndex:idx_habits_user_name"`
	Description string `json:"description"`
	Color       string `json:"color" gorm:"size:7;default:#3B82F6"`
	Icon        string `json:"icon" gorm:"size:50;default:star"`
}

// HabitLog - отметка о выполнении привычки за конкретный день.
// Дата хранится строкой YYYY-MM-DD: так же она ходит в JSON и в
// query-параметрах, а ISO-формат корректно сравнивается как строка.
type HabitLog struct {
	gorm.Model
	HabitID   uint   `json:"habit" gorm:"not null;uniqueIndex:idx_logs_habit_date"`
	Habit     Habit  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Date      string `json:"date" gorm:"size:10;not null;uniqueIndex:idx_logs_habit_date"`
	Completed bool   `json:"completed" gorm:"default:false"`
	Notes     string `json:"notes"`
}

// CurrentStreak считает, сколько дней подряд (заканчивая today)
// привычка выполнялась. Если сегодня отметки нет - серия равна нулю.
func CurrentStreak(logs []HabitLog, today time.Time) int {
	completed := make(map[string]bool, len(logs))
	for _, log := range logs {
		if log.Completed {
			completed[log.Date] = true
		}
	}

	streak := 0
	check := today
	for completed[check.Format(time.DateOnly)] {
		streak++
		check = check.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak - самая длинная серия подряд выполненных дней за всю
// историю привычки.
func LongestStreak(logs []HabitLog) int {
	var dates []time.Time
	for _, log := range logs {
		if !log.Completed {
			continue
		}
		d, err := time.Parse(time.DateOnly, log.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return 0
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	maxStreak := 0
	current := 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			current++
		} else {
			if current > maxStreak {
				maxStreak = current
			}
			current = 1
		}
	}
	if current > maxStreak {
		maxStreak = current
	}
	return maxStreak
}
