package domain

// GridSize - сторона квадратного подземелья в клетках.
const GridSize = 20

// Position - клетка сетки. X растет на восток, Z - на юг.
type Position struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Direction - единичный вектор шага.
type Direction struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Add сдвигает позицию на вектор.
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.X, Z: p.Z + d.Z}
}

// Sub сдвигает позицию против вектора.
func (p Position) Sub(d Direction) Position {
	return Position{X: p.X - d.X, Z: p.Z - d.Z}
}

// Facing - направление взгляда партии.
type Facing uint8

const (
	North Facing = iota
	East
	South
	West
)

var facingNames = map[Facing]string{
	North: "north",
	East:  "east",
	South: "south",
	West:  "west",
}

// Valid проверяет, что значение лежит в 0..3.
func (f Facing) Valid() bool {
	return f <= West
}

func (f Facing) String() string {
	if name, ok := facingNames[f]; ok {
		return name
	}
	return "unknown"
}

// CellType - тип клетки подземелья.
type CellType string

const (
	CellFloor  CellType = "floor"
	CellWall   CellType = "wall"
	CellDoor   CellType = "door"
	CellStairs CellType = "stairs"
)

// GamePhase - фаза игровой сессии.
type GamePhase string

const (
	PhaseMenu              GamePhase = "menu"
	PhaseCharacterCreation GamePhase = "character_creation"
	PhaseExploration       GamePhase = "exploration"
	PhaseCombat            GamePhase = "combat"
	PhaseInventory         GamePhase = "inventory"
	PhaseGameOver          GamePhase = "game_over"
)

// CombatPhase - фаза боя внутри одной стычки.
type CombatPhase string

const (
	CombatSelectAction CombatPhase = "select_action"
	CombatSelectTarget CombatPhase = "select_target"
	CombatExecuting    CombatPhase = "executing"
	CombatVictory      CombatPhase = "victory"
	CombatDefeat       CombatPhase = "defeat"
)

// IsTerminal - бой закончен и больше не принимает действий.
func (p CombatPhase) IsTerminal() bool {
	return p == CombatVictory || p == CombatDefeat
}
