package dungeon

import "crawler-server/internal/domain"

// Reachable возвращает множество клеток пола, достижимых из start по четырем направлениям.
func Reachable(g *domain.Grid, start domain.Position) map[domain.Position]bool {
	seen := make(map[domain.Position]bool)
	if !g.IsValidPosition(start) {
		return seen
	}

	steps := [4]domain.Direction{domain.North.Vector(), domain.East.Vector(), domain.South.Vector(), domain.West.Vector()}
	queue := []domain.Position{start}
	seen[start] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range steps {
			next := cur.Add(d)
			if seen[next] || !g.IsValidPosition(next) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}

// UnreachableFloor - сколько клеток пола не достижимо из start.
func UnreachableFloor(g *domain.Grid, start domain.Position) int {
	reach := Reachable(g, start)
	n := 0
	for x := 0; x < g.Size; x++ {
		for z := 0; z < g.Size; z++ {
			if g.Cells[x][z].Type == domain.CellFloor && !reach[domain.Position{X: x, Z: z}] {
				n++
			}
		}
	}
	return n
}
