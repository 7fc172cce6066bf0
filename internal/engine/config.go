package engine

import "time"

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. Сид сессии = Seed + хеш ID пользователя.
	// Ноль - случайный сид для каждой сессии.
	Seed int64

	// EnemyTurnDelay - пауза перед ходом врага, чтобы клиент успел показать ход партии.
	EnemyTurnDelay time.Duration

	// VictoryDelay - пауза между победой и возвратом к исследованию.
	VictoryDelay time.Duration

	// StoreTimeout - ограничение на одну операцию хранилища.
	StoreTimeout time.Duration
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:           0,
		EnemyTurnDelay: time.Second,
		VictoryDelay:   2 * time.Second,
		StoreTimeout:   5 * time.Second,
	}
}
