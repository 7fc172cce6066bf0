package actions

import (
	"crawler-server/internal/engine/handlers"
)

func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Info("Добро пожаловать в подземелье."), nil
}

// HandleNewGame открывает экран создания партии.
func HandleNewGame(ctx handlers.Context) (handlers.Result, error) {
	if err := ctx.Session.BeginCharacterCreation(); err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Info("Соберите партию до четырех героев."), nil
}

// HandleMainMenu бросает текущую игру и возвращает в меню.
// Несохраненный прогресс теряется, запланированный ход врага отменяется.
func HandleMainMenu(ctx handlers.Context) (handlers.Result, error) {
	ctx.Session.Reset()
	return handlers.EmptyResult(), nil
}
