package agent

import (
	"context"
	"crawler-server/internal/domain"
	"crawler-server/internal/engine"
	"crawler-server/pkg/api"
	"crawler-server/pkg/dungeon"
	"crawler-server/pkg/logger"
	"crawler-server/pkg/utils"
	"encoding/json"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// Bot - игрок-компьютер (Headless Agent). Подписывается на обновления своей
// сессии в хабе, как WebSocket-клиент, и на каждое обновление отвечает
// одной командой. Используется для нагрузочной проверки и смоук-тестов.
//
// Жизненный цикл:
//  1. NewBot -> регистрация в хабе, получение личного канала (Inbox).
//  2. Run -> INIT и цикл: обновление -> Decide -> ProcessCommand.
//  3. Остановка по контексту, по концу игры или по исчерпании лимита действий.
type Bot struct {
	UserID  string
	Service *engine.GameService
	Inbox   chan api.ServerResponse

	// MaxActions - лимит команд, 0 - без лимита.
	MaxActions int
	// Pace - пауза перед каждой командой.
	Pace time.Duration

	rng   *rand.Rand
	walls map[domain.Position]bool // стены, в которые бот уже упирался
	last  lastMove
	// potion - прошлой командой было зелье; отказ значит, что лечиться им нельзя
	potion bool
	log    *logrus.Entry
}

// lastMove - последняя попытка шага вперед, чтобы распознать стену по отказу.
type lastMove struct {
	active bool
	from   domain.Position
	ahead  domain.Position
}

func NewBot(userID string, service *engine.GameService, seed int64) *Bot {
	return &Bot{
		UserID:     userID,
		Service:    service,
		Inbox:      service.Hub.Register(userID),
		MaxActions: 500,
		Pace:       200 * time.Millisecond,
		rng:        utils.NewRng(seed),
		walls:      make(map[domain.Position]bool),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "bot",
			"user_id":   userID,
		}),
	}
}

// Run играет, пока не кончится игра, лимит или контекст.
func (b *Bot) Run(ctx context.Context) error {
	defer b.Service.Hub.Unregister(b.UserID, b.Inbox)

	if err := b.Service.ProcessCommand(b.UserID, api.ClientCommand{Action: "INIT"}); err != nil {
		return err
	}

	actions := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state, ok := <-b.Inbox:
			if !ok {
				b.log.Info("Inbox closed, bot stopped")
				return nil
			}
			if state.Phase == string(domain.PhaseGameOver) {
				b.log.WithField("actions", actions).Info("Party has fallen, bot stopped")
				return nil
			}

			cmd, ok := b.Decide(state)
			if !ok {
				continue
			}
			if b.MaxActions > 0 && actions >= b.MaxActions {
				b.log.WithField("actions", actions).Info("Action budget spent, bot stopped")
				return nil
			}
			if err := b.wait(ctx); err != nil {
				return err
			}
			if err := b.Service.ProcessCommand(b.UserID, cmd); err != nil {
				return err
			}
			actions++
		}
	}
}

func (b *Bot) wait(ctx context.Context) error {
	if b.Pace <= 0 {
		return nil
	}
	t := time.NewTimer(b.Pace)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Decide выбирает ответ на обновление. false - ждать следующего обновления
// (например, пока ходит враг).
func (b *Bot) Decide(state api.ServerResponse) (api.ClientCommand, bool) {
	if state.Type == api.TypeSaves {
		return api.ClientCommand{}, false
	}

	switch domain.GamePhase(state.Phase) {
	case domain.PhaseMenu:
		return command("NEW_GAME", nil), true

	case domain.PhaseCharacterCreation:
		switch len(state.Party) {
		case 0:
			return command("CREATE_CHARACTER", api.CreateCharacterPayload{Name: "Bot Warrior", Class: string(domain.ClassWarrior)}), true
		case 1:
			return command("CREATE_CHARACTER", api.CreateCharacterPayload{Name: "Bot Mage", Class: string(domain.ClassMage)}), true
		}
		return command("START_GAME", nil), true

	case domain.PhaseInventory:
		return command("CLOSE_INVENTORY", nil), true

	case domain.PhaseExploration:
		return b.explore(state), true

	case domain.PhaseCombat:
		return b.fight(state)
	}
	return api.ClientCommand{}, false
}

// explore лечит раненых зельями, иначе бродит по подземелью.
func (b *Bot) explore(state api.ServerResponse) api.ClientCommand {
	potionRejected := b.potion && hasError(state.Logs)
	b.potion = false
	if !potionRejected {
		if cmd, ok := healWithPotion(state); ok {
			b.last = lastMove{}
			b.potion = true
			return cmd
		}
	}
	if state.Player == nil {
		return command("MOVE", api.MovePayload{Direction: "turn_left"})
	}

	pos := domain.Position{X: state.Player.X, Z: state.Player.Z}
	vec, ok := facingVector(state.Player.Facing)
	if !ok {
		return command("MOVE", api.MovePayload{Direction: "turn_right"})
	}
	ahead := pos.Add(vec)

	// Отказ на шаг вперед из той же клетки - впереди стена
	if b.last.active && b.last.from == pos && hasError(state.Logs) {
		b.walls[b.last.ahead] = true
	}
	b.last = lastMove{}

	blocked := b.walls[ahead]
	for _, tile := range state.Map {
		if tile.X == ahead.X && tile.Z == ahead.Z && tile.Type == string(domain.CellWall) {
			blocked = true
		}
	}

	if !blocked && b.rng.Intn(10) < 8 {
		b.last = lastMove{active: true, from: pos, ahead: ahead}
		return command("MOVE", api.MovePayload{Direction: "forward"})
	}
	if b.rng.Intn(2) == 0 {
		return command("MOVE", api.MovePayload{Direction: "turn_left"})
	}
	return command("MOVE", api.MovePayload{Direction: "turn_right"})
}

// fight: маг бьет огненным шаром, пока хватает маны, лечит раненых,
// остальные атакуют.
func (b *Bot) fight(state api.ServerResponse) (api.ClientCommand, bool) {
	if state.Combat == nil || !state.Combat.PlayerTurn {
		return api.ClientCommand{}, false
	}

	var mage, fighter *api.CharacterView
	var wounded *api.CharacterView
	for i := range state.Party {
		c := &state.Party[i]
		if !c.IsAlive {
			continue
		}
		if c.Class == string(domain.ClassMage) && mage == nil {
			mage = c
		} else if fighter == nil {
			fighter = c
		}
		if c.Health*100 < c.MaxHealth*40 && (wounded == nil || c.Health < wounded.Health) {
			wounded = c
		}
	}

	if mage != nil {
		if wounded != nil && mage.Mana >= spellCost(mage.Class, "heal") {
			return command("CAST_SPELL", api.SpellPayload{SpellID: "heal", CharacterID: mage.ID, TargetID: wounded.ID}), true
		}
		if mage.Mana >= spellCost(mage.Class, "fireball") {
			return command("CAST_SPELL", api.SpellPayload{SpellID: "fireball", CharacterID: mage.ID}), true
		}
	}
	if fighter == nil {
		fighter = mage
	}
	if fighter == nil {
		return api.ClientCommand{}, false
	}
	return command("ATTACK", api.ActorPayload{CharacterID: fighter.ID}), true
}

func healWithPotion(state api.ServerResponse) (api.ClientCommand, bool) {
	var potion *api.ItemView
	for i := range state.Inventory {
		if state.Inventory[i].Effect == string(domain.EffectHeal) {
			potion = &state.Inventory[i]
			break
		}
	}
	if potion == nil {
		return api.ClientCommand{}, false
	}
	for _, c := range state.Party {
		if c.IsAlive && c.Health*2 < c.MaxHealth {
			return command("USE_ITEM", api.ItemPayload{ItemID: potion.ID, CharacterID: c.ID}), true
		}
	}
	return api.ClientCommand{}, false
}

// spellCost - стоимость заклинания класса. Неизвестное заклинание недоступно.
func spellCost(class, spellID string) int {
	c, err := domain.ParseClass(class)
	if err != nil {
		return math.MaxInt
	}
	spell, err := dungeon.FindSpell(c, spellID)
	if err != nil {
		return math.MaxInt
	}
	return spell.ManaCost
}

func facingVector(name string) (domain.Direction, bool) {
	for f := domain.North; f <= domain.West; f++ {
		if f.String() == name {
			return f.Vector(), true
		}
	}
	return domain.Direction{}, false
}

func hasError(logs []api.LogEntry) bool {
	for _, l := range logs {
		if l.Type == domain.LogError {
			return true
		}
	}
	return false
}

func command(action string, payload any) api.ClientCommand {
	cmd := api.ClientCommand{Action: action}
	if payload != nil {
		// Payload-структуры из api всегда сериализуются
		raw, _ := json.Marshal(payload)
		cmd.Payload = raw
	}
	return cmd
}
