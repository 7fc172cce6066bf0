package actions

import (
	"crawler-server/internal/engine/handlers"
	"crawler-server/pkg/api"
	"fmt"
)

func HandleCreateCharacter(ctx handlers.Context, p api.CreateCharacterPayload) (handlers.Result, error) {
	c, err := ctx.Session.AddCharacter(p.Name, p.Class)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Info(fmt.Sprintf("%s (%s) присоединяется к партии.", c.Name, c.Class)), nil
}

func HandleRemoveCharacter(ctx handlers.Context, p api.CharacterPayload) (handlers.Result, error) {
	c, ok := ctx.Session.Party.Find(p.CharacterID)
	if err := ctx.Session.RemoveCharacter(p.CharacterID); err != nil {
		return handlers.EmptyResult(), err
	}
	if !ok {
		return handlers.EmptyResult(), nil
	}
	return handlers.Info(fmt.Sprintf("%s покидает партию.", c.Name)), nil
}

func HandleSelectCharacter(ctx handlers.Context, p api.CharacterPayload) (handlers.Result, error) {
	if err := ctx.Session.SelectCharacter(p.CharacterID); err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.EmptyResult(), nil
}

func HandleStartGame(ctx handlers.Context) (handlers.Result, error) {
	if err := ctx.Session.StartGame(); err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Info("Партия спускается в подземелье."), nil
}
