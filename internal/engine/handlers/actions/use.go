package actions

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/internal/game"
	"crawler-server/pkg/api"
)

// HandleUseItem применяет зелье. В бою это ход персонажа, вне боя - мгновенное действие.
func HandleUseItem(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	if ctx.Session.Phase == domain.PhaseCombat {
		return combatTurn(ctx, game.PlayerAction{
			Kind:     domain.ActionUseItem,
			ActorID:  p.CharacterID,
			ItemID:   p.ItemID,
			TargetID: p.TargetID,
		})
	}

	msg, err := ctx.Session.UseItem(p.CharacterID, p.ItemID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Info(msg), nil
}
