package domain

import "encoding/json"

// InternalCommand - оптимизированная команда для движка.
// Использует ActionType вместо string.
type InternalCommand struct {
	Action  ActionType      // Число! Быстро и безопасно.
	UserID  string          // Владелец сессии (из токена)
	Payload json.RawMessage // Сырые данные (парсятся хендлером)

	// Seq - номер стычки, для которой запланирован таймер.
	// Для команд клиента не используется.
	Seq uint64
}
