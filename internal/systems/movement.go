package systems

import (
	"crawler-server/internal/domain"
	"strings"
)

// MoveIntent - намерение игрока: шаг или поворот.
type MoveIntent uint8

const (
	MoveUnknown MoveIntent = iota
	MoveForward
	MoveBackward
	MoveStrafeLeft
	MoveStrafeRight
	MoveTurnLeft
	MoveTurnRight
)

var intentNames = map[string]MoveIntent{
	"forward":      MoveForward,
	"backward":     MoveBackward,
	"strafe_left":  MoveStrafeLeft,
	"strafe_right": MoveStrafeRight,
	"turn_left":    MoveTurnLeft,
	"turn_right":   MoveTurnRight,
}

// ParseMoveIntent конвертирует строку из JSON в MoveIntent.
func ParseMoveIntent(s string) MoveIntent {
	if v, ok := intentNames[strings.ToLower(s)]; ok {
		return v
	}
	return MoveUnknown
}

// IsTurn - намерение меняет только направление взгляда.
func (i MoveIntent) IsTurn() bool {
	return i == MoveTurnLeft || i == MoveTurnRight
}

// DirectionOf возвращает вектор направления.
func DirectionOf(f domain.Facing) domain.Direction {
	return f.Vector()
}

// TurnLeft - поворот против часовой стрелки.
func TurnLeft(f domain.Facing) domain.Facing {
	return (f + 3) % 4
}

// TurnRight - поворот по часовой стрелке.
func TurnRight(f domain.Facing) domain.Facing {
	return (f + 1) % 4
}

// StepForward - шаг по направлению взгляда.
func StepForward(p domain.Position, f domain.Facing) domain.Position {
	return p.Add(DirectionOf(f))
}

// StepBackward - шаг назад, взгляд не меняется.
func StepBackward(p domain.Position, f domain.Facing) domain.Position {
	return p.Sub(DirectionOf(f))
}

// StrafeLeft - шаг влево, взгляд не меняется.
func StrafeLeft(p domain.Position, f domain.Facing) domain.Position {
	return p.Add(DirectionOf(TurnLeft(f)))
}

// StrafeRight - шаг вправо, взгляд не меняется.
func StrafeRight(p domain.Position, f domain.Facing) domain.Position {
	return p.Add(DirectionOf(TurnRight(f)))
}

// ResolveMove считает кандидата в новое состояние. Сетку не смотрит.
func ResolveMove(s domain.PlayerState, intent MoveIntent) domain.PlayerState {
	switch intent {
	case MoveForward:
		return domain.NewPlayerState(StepForward(s.Position, s.Facing), s.Facing)
	case MoveBackward:
		return domain.NewPlayerState(StepBackward(s.Position, s.Facing), s.Facing)
	case MoveStrafeLeft:
		return domain.NewPlayerState(StrafeLeft(s.Position, s.Facing), s.Facing)
	case MoveStrafeRight:
		return domain.NewPlayerState(StrafeRight(s.Position, s.Facing), s.Facing)
	case MoveTurnLeft:
		return domain.NewPlayerState(s.Position, TurnLeft(s.Facing))
	case MoveTurnRight:
		return domain.NewPlayerState(s.Position, TurnRight(s.Facing))
	}
	return s
}

// MovementResult - результат вычисления движения
type MovementResult struct {
	State    domain.PlayerState
	HasMoved bool // Позиция изменилась
	Turned   bool // Изменилось только направление
	IsWall   bool // Если врезались в стену или край карты
}

// CalculateMove вычисляет новую позицию. Не меняет состояние мира!
func CalculateMove(g *domain.Grid, s domain.PlayerState, intent MoveIntent) MovementResult {
	if intent == MoveUnknown {
		return MovementResult{State: s}
	}

	next := ResolveMove(s, intent)

	// Поворот разрешен всегда
	if intent.IsTurn() {
		return MovementResult{State: next, Turned: true}
	}

	if !g.IsValidPosition(next.Position) {
		return MovementResult{State: s, IsWall: true}
	}

	return MovementResult{State: next, HasMoved: true}
}
