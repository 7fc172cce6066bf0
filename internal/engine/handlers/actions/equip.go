package actions

import (
	"crawler-server/internal/engine/handlers"
	"crawler-server/pkg/api"
)

func HandleEquip(ctx handlers.Context, p api.ItemPayload) (handlers.Result, error) {
	msg, err := ctx.Session.EquipItem(p.CharacterID, p.ItemID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Info(msg), nil
}
