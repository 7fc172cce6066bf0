package config

import (
	"crawler-server/internal/engine"
	"crawler-server/internal/server"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Драйверы хранилища сохранений
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreFile     = "file"
)

// Config - настройки сервера из окружения.
type Config struct {
	Port      string `env:"PORT"       envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"saves.db"`
	SaveDir     string `env:"SAVE_DIR"    envDefault:"saves"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	EnemyTurnDelay time.Duration `env:"ENEMY_TURN_DELAY" envDefault:"1s"`
	VictoryDelay   time.Duration `env:"VICTORY_DELAY"    envDefault:"2s"`
	StoreTimeout   time.Duration `env:"STORE_TIMEOUT"    envDefault:"5s"`
	Seed           int64         `env:"SEED"             envDefault:"0"`

	// DebugRoutes открывает /debug/* без авторизации, только для локальной отладки.
	DebugRoutes bool `env:"DEBUG_ROUTES" envDefault:"false"`
}

// Load читает конфиг из окружения и проверяет его.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет сочетания, которые env не выражает тегами.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreFile:
		if c.SaveDir == "" {
			return fmt.Errorf("SAVE_DIR is required for the file store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.EnemyTurnDelay < 0 || c.VictoryDelay < 0 || c.StoreTimeout <= 0 {
		return fmt.Errorf("delays must not be negative and STORE_TIMEOUT must be positive")
	}
	return nil
}

// Server - настройки HTTP-слоя.
func (c Config) Server() server.Options {
	return server.Options{
		Port:         c.Port,
		StoreTimeout: c.StoreTimeout,
		Debug:        c.DebugRoutes,
	}
}

// Engine - часть конфига, нужная движку.
func (c Config) Engine() engine.Config {
	return engine.Config{
		Seed:           c.Seed,
		EnemyTurnDelay: c.EnemyTurnDelay,
		VictoryDelay:   c.VictoryDelay,
		StoreTimeout:   c.StoreTimeout,
	}
}
