package actions

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"errors"
	"fmt"
)

// HandleInteract подбирает предмет под ногами.
func HandleInteract(ctx handlers.Context) (handlers.Result, error) {
	item, err := ctx.Session.Interact()
	if errors.Is(err, domain.ErrNotFound) {
		return handlers.Info("Здесь ничего нет."), nil
	}
	if err != nil {
		return handlers.EmptyResult(), err
	}
	return handlers.Info(fmt.Sprintf("Найден предмет: %s.", item.Name)), nil
}

func HandleOpenInventory(ctx handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Session.OpenInventory()
}

func HandleCloseInventory(ctx handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult(), ctx.Session.CloseInventory()
}
