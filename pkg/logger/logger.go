package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stdout с уровнем info.
var Log = logrus.New()

// Init настраивает глобальный логгер.
// Вызывается один раз при старте приложения в main.go и в TestMain пакетов.
// Пустые level/format означают "info" и "text".
func Init(level, format string) {
	Log = logrus.New()

	// 1. Уровень. Для отладки выставляется "debug".
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// 2. Форматтер.
	// "json" - для продакшена и сбора логов.
	// "text" - для удобной разработки.
	if strings.ToLower(format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// InitFromEnv читает LOG_LEVEL и LOG_FORMAT напрямую из окружения.
// Удобно для тестов и утилит, у которых нет полного конфига.
func InitFromEnv() {
	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		level = "info"
	}
	Init(level, os.Getenv("LOG_FORMAT"))
}

// Silence глушит вывод (используется в тестах с шумными сценариями).
func Silence() {
	Log.SetOutput(io.Discard)
}
