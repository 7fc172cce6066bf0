package domain

// PlayerState - положение партии на карте.
// Direction всегда совпадает с вектором Facing.
type PlayerState struct {
	Position  Position  `json:"position"`
	Direction Direction `json:"direction"`
	Facing    Facing    `json:"facing"`
}

// facingVectors - N, E, S, W.
var facingVectors = [4]Direction{
	{X: 0, Z: -1},
	{X: 1, Z: 0},
	{X: 0, Z: 1},
	{X: -1, Z: 0},
}

// Vector возвращает единичный вектор направления.
func (f Facing) Vector() Direction {
	return facingVectors[f%4]
}

// NewPlayerState собирает состояние с согласованным Direction.
func NewPlayerState(pos Position, f Facing) PlayerState {
	return PlayerState{Position: pos, Direction: f.Vector(), Facing: f}
}

// ManhattanTo - расстояние по сетке.
func (p Position) ManhattanTo(other Position) int {
	dx := p.X - other.X
	dz := p.Z - other.Z
	if dx < 0 {
		dx = -dx
	}
	if dz < 0 {
		dz = -dz
	}
	return dx + dz
}
