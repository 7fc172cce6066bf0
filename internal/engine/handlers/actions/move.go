package actions

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/engine/handlers"
	"crawler-server/internal/systems"
	"crawler-server/pkg/api"
	"errors"
)

func HandleMove(ctx handlers.Context, p api.MovePayload) (handlers.Result, error) {
	report, err := ctx.Session.Move(systems.ParseMoveIntent(p.Direction))
	if errors.Is(err, domain.ErrInvalidMove) {
		return handlers.Result{Msgs: []string{"Путь прегражден."}, MsgType: domain.LogError}, nil
	}
	if err != nil {
		return handlers.EmptyResult(), err
	}

	if report.Enemy != nil {
		return handlers.Combat(report.Message), nil
	}
	if report.Message != "" {
		return handlers.Info(report.Message), nil
	}
	return handlers.EmptyResult(), nil
}
