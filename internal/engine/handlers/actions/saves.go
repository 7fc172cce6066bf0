package actions

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/pkg/api"
	"fmt"
	"strings"
)

// Хендлеры сохранений только проверяют фазу и передают работу Runner:
// вызов хранилища выполняется вне цикла сессии.

func HandleSave(ctx handlers.Context, p api.SavePayload) (handlers.Result, error) {
	if err := ctx.Session.CanSave(); err != nil {
		return handlers.EmptyResult(), err
	}

	// Перезапись слота без имени сохраняет прежнее имя
	name := strings.TrimSpace(p.SaveName)
	if name == "" && p.SaveID == ctx.Session.SaveID {
		name = ctx.Session.SaveName
	}

	return handlers.Info("Сохранение...").WithEvent(domain.Event{
		Type:     domain.EventSaveRequested,
		SaveID:   p.SaveID,
		SaveName: name,
	}), nil
}

func HandleLoad(ctx handlers.Context, p api.SaveIDPayload) (handlers.Result, error) {
	if ctx.Session.Phase == domain.PhaseCombat {
		return handlers.EmptyResult(), fmt.Errorf("load during combat: %w", domain.ErrWrongPhase)
	}
	return handlers.Info("Загрузка...").WithEvent(domain.Event{Type: domain.EventLoadRequested, SaveID: p.SaveID}), nil
}

func HandleListSaves(ctx handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult().WithEvent(domain.Event{Type: domain.EventListSavesRequested}), nil
}

func HandleDeleteSave(ctx handlers.Context, p api.SaveIDPayload) (handlers.Result, error) {
	return handlers.EmptyResult().WithEvent(domain.Event{Type: domain.EventDeleteRequested, SaveID: p.SaveID}), nil
}
