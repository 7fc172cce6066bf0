package engine

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/internal/infrastructure/storage"
	"crawler-server/pkg/api"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// AddLog добавляет запись в буфер сессии. Буфер уходит клиенту со следующей рассылкой.
func (r *Runner) AddLog(text, logType string) {
	r.logSeq++
	now := time.Now()
	r.Logs = append(r.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", now.UnixNano(), r.logSeq),
		Text:      text,
		Type:      logType,
		Timestamp: now.UnixMilli(),
	})
	r.log.WithFields(logrus.Fields{
		"component": "game_log",
		"log_type":  logType,
	}).Debug(text)
}

// userMessages - тексты ошибок для игрока. Порядок важен: errors.Is проверяет по очереди.
var userMessages = []struct {
	err  error
	text string
}{
	{handlers.ErrBadPayload, "Некорректная команда."},
	{storage.ErrNotFound, "Сохранение не найдено."},
	{domain.ErrEmptyName, "Введите имя персонажа."},
	{domain.ErrUnknownClass, "Неизвестный класс."},
	{domain.ErrPartyFull, "В партии уже четыре героя."},
	{domain.ErrPartyEmpty, "Создайте хотя бы одного героя."},
	{domain.ErrInvalidMove, "Путь прегражден."},
	{domain.ErrNotYourTurn, "Сейчас не ваш ход."},
	{domain.ErrEncounterOver, "Бой уже окончен."},
	{domain.ErrNotEnoughMana, "Недостаточно маны."},
	{domain.ErrActorFallen, "Павший герой не может действовать."},
	{domain.ErrTargetFallen, "Цель пала."},
	{domain.ErrNotEquippable, "Этот предмет нельзя надеть."},
	{domain.ErrNotUsable, "Этот предмет нельзя использовать."},
	{domain.ErrUnknownSpell, "Герой не знает такого заклинания."},
	{domain.ErrInvalidSnapshot, "Сохранение повреждено."},
	{domain.ErrWrongPhase, "Сейчас это действие недоступно."},
	{domain.ErrNotFound, "Не найдено."},
}

// UserMessage переводит ошибку команды в текст для игрового лога.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.text
		}
	}
	return "Команда отклонена."
}
