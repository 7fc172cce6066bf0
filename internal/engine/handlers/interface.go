package handlers

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/game"
	"encoding/json"
)

// Context передает хендлеру сессию пользователя.
// Хендлер меняет состояние только через методы Session.
type Context struct {
	UserID  string
	Session *game.Session

	// Seq - номер стычки, с которым был запланирован таймер (ENEMY_TURN, END_COMBAT).
	Seq uint64
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи сессии напрямую, он возвращает данные.
type Result struct {
	Msgs    []string       // Тексты лога
	MsgType string         // Тип лога (INFO, COMBAT, ERROR)
	Events  []domain.Event // Отложенная работа для Runner (таймеры, хранилище)
}

// HandlerFunc - это контракт для любой команды (MOVE, ATTACK, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}

// Info - результат с информационными сообщениями.
func Info(msgs ...string) Result {
	return Result{Msgs: msgs, MsgType: domain.LogInfo}
}

// Combat - результат с сообщениями боя.
func Combat(msgs ...string) Result {
	return Result{Msgs: msgs, MsgType: domain.LogCombat}
}

// WithEvent добавляет событие к результату.
func (r Result) WithEvent(e domain.Event) Result {
	r.Events = append(r.Events, e)
	return r
}
