package engine

import (
	"context"
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/internal/game"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner - игровой цикл одного пользователя.
// Session меняется только в горутине Run: команды клиента, таймеры боя
// и результаты хранилища приходят сюда через каналы.
type Runner struct {
	UserID  string
	Session *game.Session

	// Каналы коммуникации
	CommandChan chan domain.InternalCommand // Команды клиента и таймеров
	results     chan func()                 // Завершение операций хранилища

	// Ссылка на Service для доступа к Hub, хендлерам и хранилищу
	Service *GameService

	Logs   []api.LogEntry // Логи, еще не отправленные клиенту
	logSeq int

	// Таймер боя. Партия и враг ходят по очереди, поэтому таймер всегда один.
	timer    *time.Timer
	timerSeq uint64

	// Ответ на LIST_SAVES, уходит со следующей рассылкой
	saves     []domain.SaveRecord
	sendSaves bool

	summaryMu sync.RWMutex
	summary   SessionSummary

	pending sync.WaitGroup // операции хранилища в полете
	done    chan struct{}
	log     *logrus.Entry
}

func NewRunner(userID string, service *GameService, rng *rand.Rand) *Runner {
	r := &Runner{
		UserID:      userID,
		Session:     game.NewSession(userID, rng),
		CommandChan: make(chan domain.InternalCommand, 100),
		results:     make(chan func(), 10),
		Service:     service,
		Logs:        []api.LogEntry{},
		done:        make(chan struct{}),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "runner",
			"user_id":   userID,
		}),
	}
	r.updateSummary()
	return r
}

// Run запускает цикл сессии и блокируется до отмены ctx.
func (r *Runner) Run(ctx context.Context) {
	r.log.Info("Session loop started")
	defer func() {
		r.stopTimer()
		close(r.done)
		r.log.Info("Session loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case cmd := <-r.CommandChan:
			if r.executeCommand(cmd) {
				r.publish()
			}

		case apply := <-r.results:
			apply()
			r.syncTimer()
			r.publish()
		}
	}
}

// Submit ставит команду в очередь. false - цикл уже остановлен.
func (r *Runner) Submit(cmd domain.InternalCommand) bool {
	select {
	case r.CommandChan <- cmd:
		return true
	case <-r.done:
		return false
	}
}

// Done закрывается, когда цикл остановлен.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// executeCommand выполняет хендлер. Возвращает false, если клиенту нечего отправлять.
func (r *Runner) executeCommand(cmd domain.InternalCommand) bool {
	handler, ok := r.Service.handlers[cmd.Action]
	if !ok {
		r.log.WithField("action", cmd.Action).Warn("No handler for action")
		return false
	}

	ctx := handlers.Context{
		UserID:  r.UserID,
		Session: r.Session,
		Seq:     cmd.Seq,
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		if isTimerAction(cmd.Action) && errors.Is(err, domain.ErrEncounterOver) {
			r.log.WithFields(logrus.Fields{
				"action": cmd.Action,
				"seq":    cmd.Seq,
			}).Debug("Stale timer dropped")
			return false
		}
		r.log.WithError(err).WithField("action", cmd.Action).Info("Command rejected")
		r.AddLog(UserMessage(err), domain.LogError)
		r.syncTimer()
		return true
	}

	msgType := result.MsgType
	if msgType == "" {
		msgType = domain.LogInfo
	}
	for _, msg := range result.Msgs {
		r.AddLog(msg, msgType)
	}
	for _, e := range result.Events {
		r.processEvent(e)
	}
	r.syncTimer()
	return true
}

func isTimerAction(a domain.ActionType) bool {
	return a == domain.ActionEnemyTurn || a == domain.ActionEndCombat
}

// publish отправляет клиенту полный снимок сессии и очищает буфер логов.
func (r *Runner) publish() {
	resp := BuildState(r.Session, r.Logs)
	if r.sendSaves {
		resp.Type = api.TypeSaves
		resp.Saves = saveViews(r.saves)
		r.saves = nil
		r.sendSaves = false
	}
	r.Logs = []api.LogEntry{}
	r.updateSummary()

	r.Service.Hub.SendTo(r.UserID, resp)
}

// SessionSummary - сводка сессии для /debug/sessions.
type SessionSummary struct {
	UserID       string `json:"user_id"`
	Phase        string `json:"phase"`
	PartySize    int    `json:"party_size"`
	DungeonLevel int    `json:"dungeon_level"`
	InCombat     bool   `json:"in_combat"`
	CombatRound  int    `json:"combat_round,omitempty"`
	SaveID       int64  `json:"save_id,omitempty"`
	Connected    bool   `json:"connected"`
}

func (r *Runner) updateSummary() {
	s := r.Session
	sum := SessionSummary{
		UserID:       r.UserID,
		Phase:        string(s.Phase),
		PartySize:    s.Party.Size(),
		DungeonLevel: s.DungeonLevel,
		SaveID:       s.SaveID,
	}
	if s.Encounter != nil {
		sum.InCombat = true
		sum.CombatRound = s.Encounter.Round
	}

	r.summaryMu.Lock()
	r.summary = sum
	r.summaryMu.Unlock()
}

// Summary безопасно читать из любой горутины.
func (r *Runner) Summary() SessionSummary {
	r.summaryMu.RLock()
	defer r.summaryMu.RUnlock()
	return r.summary
}
