package domain

// DungeonCell - одна клетка подземелья.
// Побежденный враг остается в клетке с IsAlive=false, поднятый предмет убирается.
type DungeonCell struct {
	X        int      `json:"x"`
	Z        int      `json:"z"`
	Type     CellType `json:"type"`
	HasEnemy bool     `json:"hasEnemy,omitempty"`
	Enemy    *Enemy   `json:"enemy,omitempty"`
	HasItem  bool     `json:"hasItem,omitempty"`
	Item     *Item    `json:"item,omitempty"`
}

// Grid - квадратная сетка клеток, индексируется как Cells[x][z].
type Grid struct {
	Size  int              `json:"size"`
	Cells [][]*DungeonCell `json:"cells"`
}

// NewGrid создает сетку, целиком заполненную стенами.
func NewGrid(size int) *Grid {
	cells := make([][]*DungeonCell, size)
	for x := 0; x < size; x++ {
		cells[x] = make([]*DungeonCell, size)
		for z := 0; z < size; z++ {
			cells[x][z] = &DungeonCell{X: x, Z: z, Type: CellWall}
		}
	}
	return &Grid{Size: size, Cells: cells}
}

// InBounds - позиция внутри сетки.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Size && p.Z >= 0 && p.Z < g.Size
}

// IsValidPosition - в партию можно войти: клетка в границах и это пол.
func (g *Grid) IsValidPosition(p Position) bool {
	if !g.InBounds(p) {
		return false
	}
	return g.Cells[p.X][p.Z].Type == CellFloor
}

// Cell возвращает клетку или false, если позиция вне сетки.
func (g *Grid) Cell(p Position) (*DungeonCell, bool) {
	if !g.InBounds(p) {
		return nil, false
	}
	return g.Cells[p.X][p.Z], true
}

// Enemies возвращает всех врагов сетки (живых и павших) в порядке обхода x, z.
func (g *Grid) Enemies() []*Enemy {
	var out []*Enemy
	for x := 0; x < g.Size; x++ {
		for z := 0; z < g.Size; z++ {
			if c := g.Cells[x][z]; c.HasEnemy && c.Enemy != nil {
				out = append(out, c.Enemy)
			}
		}
	}
	return out
}

// FindEnemy ищет врага по ID.
func (g *Grid) FindEnemy(id string) (*Enemy, bool) {
	for _, e := range g.Enemies() {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// CountItems - сколько предметов лежит на полу.
func (g *Grid) CountItems() int {
	n := 0
	for x := 0; x < g.Size; x++ {
		for z := 0; z < g.Size; z++ {
			if g.Cells[x][z].HasItem {
				n++
			}
		}
	}
	return n
}

// Clone - глубокая копия сетки вместе с врагами и предметами.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return nil
	}
	out := &Grid{Size: g.Size, Cells: make([][]*DungeonCell, len(g.Cells))}
	for x, col := range g.Cells {
		out.Cells[x] = make([]*DungeonCell, len(col))
		for z, c := range col {
			cp := *c
			cp.Enemy = c.Enemy.Clone()
			cp.Item = c.Item.Clone()
			out.Cells[x][z] = &cp
		}
	}
	return out
}

// Validate проверяет форму сетки после загрузки из хранилища.
func (g *Grid) Validate() bool {
	if g == nil || g.Size <= 0 || len(g.Cells) != g.Size {
		return false
	}
	for x, col := range g.Cells {
		if len(col) != g.Size {
			return false
		}
		for z, c := range col {
			if c == nil || c.X != x || c.Z != z {
				return false
			}
			if c.HasEnemy && c.Enemy == nil {
				return false
			}
			if c.HasItem && c.Item == nil {
				return false
			}
		}
	}
	return true
}
