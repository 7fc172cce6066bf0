package actions

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/internal/game"
	"crawler-server/pkg/api"
)

func HandleAttack(ctx handlers.Context, p api.ActorPayload) (handlers.Result, error) {
	return combatTurn(ctx, game.PlayerAction{Kind: domain.ActionAttack, ActorID: p.CharacterID})
}

func HandleDefend(ctx handlers.Context, p api.ActorPayload) (handlers.Result, error) {
	return combatTurn(ctx, game.PlayerAction{Kind: domain.ActionDefend, ActorID: p.CharacterID})
}

func HandleCastSpell(ctx handlers.Context, p api.SpellPayload) (handlers.Result, error) {
	return combatTurn(ctx, game.PlayerAction{
		Kind:     domain.ActionCastSpell,
		ActorID:  p.CharacterID,
		SpellID:  p.SpellID,
		TargetID: p.TargetID,
	})
}

// combatTurn выполняет ход партии и планирует продолжение:
// ход врага после паузы или возврат к исследованию после победы.
func combatTurn(ctx handlers.Context, act game.PlayerAction) (handlers.Result, error) {
	out, levelUps, err := ctx.Session.CombatAction(act)
	if err != nil {
		return handlers.EmptyResult(), err
	}

	res := handlers.Combat(append(out.Messages, levelUps...)...)
	seq := ctx.Session.Encounter.Seq

	switch out.Phase {
	case domain.CombatVictory:
		return res.WithEvent(domain.Event{Type: domain.EventVictory, Seq: seq}), nil
	case domain.CombatExecuting:
		return res.WithEvent(domain.Event{Type: domain.EventEnemyTurnDue, Seq: seq}), nil
	}
	return res, nil
}

// HandleEnemyTurn - ход врага по таймеру. Устаревший таймер молча отбрасывается.
func HandleEnemyTurn(ctx handlers.Context) (handlers.Result, error) {
	out, err := ctx.Session.EnemyTurn(ctx.Seq)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	res := handlers.Combat(out.Messages...)
	if out.Phase == domain.CombatDefeat {
		res.Msgs = append(res.Msgs, "Игра окончена.")
	}
	return res, nil
}

// HandleEndCombat возвращает партию к исследованию после победы.
func HandleEndCombat(ctx handlers.Context) (handlers.Result, error) {
	if err := ctx.Session.FinishEncounter(ctx.Seq); err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Info("Бой окончен."), nil
}
