package config

import (
	"github.com/spf13/viper"
)

// Load читает настройки приложения из переменных окружения.
// Значения по умолчанию подходят для локальной разработки.
func Load() {
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.SetDefault("REDIS_ADDR", "")

	viper.AutomaticEnv()

	JwtKey = []byte(viper.GetString("JWT_SECRET"))
}

// Addr возвращает адрес, на котором слушает HTTP-сервер.
func Addr() string {
	return ":" + viper.GetString("PORT")
}
