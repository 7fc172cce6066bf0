package network

import (
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"
	"sync"
)

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: UserID -> Личный канал
	subscribers map[string]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.ServerResponse),
	}
}

// Register создает личный канал пользователя.
// Повторное подключение вытесняет старое: его канал закрывается.
func (b *Broadcaster) Register(userID string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[userID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[userID] = ch
	return ch
}

// Unregister удаляет подписку, только если ch все еще текущий канал пользователя.
// Так отключение вытесненного клиента не трогает новое соединение.
func (b *Broadcaster) Unregister(userID string, ch chan api.ServerResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cur, ok := b.subscribers[userID]; ok && cur == ch {
		close(cur)
		delete(b.subscribers, userID)
	}
}

// SendTo отправляет сообщение конкретному пользователю (Unicast)
func (b *Broadcaster) SendTo(userID string, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[userID]; ok {
		select {
		case ch <- msg:
		default:
			logger.Log.WithField("user_id", userID).Warn("Hub: channel full, update dropped")
		}
	}
}

// HasSubscriber проверяет, подключен ли пользователь
func (b *Broadcaster) HasSubscriber(userID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[userID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
