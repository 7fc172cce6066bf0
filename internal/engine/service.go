package engine

import (
	"context"
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/internal/engine/handlers/actions"
	"crawler-server/internal/infrastructure/storage"
	"crawler-server/internal/network"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"
	"crawler-server/pkg/utils"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrShuttingDown  = errors.New("service is shutting down")
)

// GameService держит по одному Runner на пользователя и маршрутизирует к ним команды.
type GameService struct {
	Hub   *network.Broadcaster
	Store storage.SaveStore

	cfg      Config
	handlers map[domain.ActionType]handlers.HandlerFunc

	mu      sync.Mutex
	runners map[string]*Runner

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *logrus.Entry
}

func NewService(cfg Config, hub *network.Broadcaster, store storage.SaveStore) *GameService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &GameService{
		Hub:      hub,
		Store:    store,
		cfg:      cfg,
		handlers: make(map[domain.ActionType]handlers.HandlerFunc),
		runners:  make(map[string]*Runner),
		ctx:      ctx,
		cancel:   cancel,
		log:      logger.Log.WithField("component", "game_service"),
	}

	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	// Меню и партия
	s.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.handlers[domain.ActionNewGame] = handlers.WithEmptyPayload(actions.HandleNewGame)
	s.handlers[domain.ActionMainMenu] = handlers.WithEmptyPayload(actions.HandleMainMenu)
	s.handlers[domain.ActionCreateCharacter] = handlers.WithPayload(actions.HandleCreateCharacter)
	s.handlers[domain.ActionRemoveCharacter] = handlers.WithPayload(actions.HandleRemoveCharacter)
	s.handlers[domain.ActionSelectCharacter] = handlers.WithPayload(actions.HandleSelectCharacter)
	s.handlers[domain.ActionStartGame] = handlers.WithEmptyPayload(actions.HandleStartGame)

	// Исследование и инвентарь
	s.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[domain.ActionInteract] = handlers.WithEmptyPayload(actions.HandleInteract)
	s.handlers[domain.ActionOpenInventory] = handlers.WithEmptyPayload(actions.HandleOpenInventory)
	s.handlers[domain.ActionCloseInventory] = handlers.WithEmptyPayload(actions.HandleCloseInventory)
	s.handlers[domain.ActionEquip] = handlers.WithPayload(actions.HandleEquip)
	s.handlers[domain.ActionUseItem] = handlers.WithPayload(actions.HandleUseItem)

	// Бой
	s.handlers[domain.ActionAttack] = handlers.WithPayload(actions.HandleAttack)
	s.handlers[domain.ActionDefend] = handlers.WithPayload(actions.HandleDefend)
	s.handlers[domain.ActionCastSpell] = handlers.WithPayload(actions.HandleCastSpell)
	s.handlers[domain.ActionEnemyTurn] = handlers.WithEmptyPayload(actions.HandleEnemyTurn)
	s.handlers[domain.ActionEndCombat] = handlers.WithEmptyPayload(actions.HandleEndCombat)

	// Сохранения
	s.handlers[domain.ActionSave] = handlers.WithPayload(actions.HandleSave)
	s.handlers[domain.ActionLoad] = handlers.WithPayload(actions.HandleLoad)
	s.handlers[domain.ActionListSaves] = handlers.WithEmptyPayload(actions.HandleListSaves)
	s.handlers[domain.ActionDeleteSave] = handlers.WithPayload(actions.HandleDeleteSave)
}

// sessionSeed - сид сессии. С заданным мастер-сидом игра пользователя воспроизводима.
func (s *GameService) sessionSeed(userID string) int64 {
	if s.cfg.Seed == 0 {
		return 0
	}
	return s.cfg.Seed + utils.StringToSeed(userID)
}

// Runner возвращает цикл пользователя, запуская его при первом обращении.
func (s *GameService) Runner(userID string) (*Runner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return nil, ErrShuttingDown
	}
	if r, ok := s.runners[userID]; ok {
		return r, nil
	}

	r := NewRunner(userID, s, utils.NewRng(s.sessionSeed(userID)))
	s.runners[userID] = r
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		r.Run(s.ctx)
	}()

	s.log.WithField("user_id", userID).Info("Session created")
	return r, nil
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Пользователь уже установлен по токену, внутренние команды таймеров клиенту недоступны.
func (s *GameService) ProcessCommand(userID string, cmd api.ClientCommand) error {
	action := domain.ParseAction(cmd.Action)
	if action == domain.ActionUnknown {
		return fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	r, err := s.Runner(userID)
	if err != nil {
		return err
	}
	if !r.Submit(domain.InternalCommand{Action: action, UserID: userID, Payload: cmd.Payload}) {
		return ErrShuttingDown
	}
	return nil
}

// Sessions возвращает сводку по всем сессиям, отсортированную по пользователю.
func (s *GameService) Sessions() []SessionSummary {
	s.mu.Lock()
	out := make([]SessionSummary, 0, len(s.runners))
	for id, r := range s.runners {
		sum := r.Summary()
		sum.Connected = s.Hub.HasSubscriber(id)
		out = append(out, sum)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Shutdown останавливает все сессии и дожидается операций хранилища в полете.
func (s *GameService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		s.mu.Lock()
		runners := make([]*Runner, 0, len(s.runners))
		for _, r := range s.runners {
			runners = append(runners, r)
		}
		s.mu.Unlock()
		for _, r := range runners {
			r.pending.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("All sessions stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
}
