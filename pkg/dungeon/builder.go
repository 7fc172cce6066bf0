package dungeon

import (
	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Rect - комната: верхний левый угол и размеры. Вырезаются клетки [X, X+W) x [Z, Z+H).
type Rect struct {
	X, Z, W, H int
}

func carveRoom(g *domain.Grid, room Rect) {
	for x := room.X; x < room.X+room.W; x++ {
		for z := room.Z; z < room.Z+room.H; z++ {
			if cell, ok := g.Cell(domain.Position{X: x, Z: z}); ok {
				cell.Type = domain.CellFloor
			}
		}
	}
}

func carveHCorridor(g *domain.Grid, x1, x2, z int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		if cell, ok := g.Cell(domain.Position{X: x, Z: z}); ok {
			cell.Type = domain.CellFloor
		}
	}
}

func carveVCorridor(g *domain.Grid, z1, z2, x int) {
	for z := min(z1, z2); z <= max(z1, z2); z++ {
		if cell, ok := g.Cell(domain.Position{X: x, Z: z}); ok {
			cell.Type = domain.CellFloor
		}
	}
}

// LevelBuilder предоставляет fluent API для создания уровней
type LevelBuilder struct {
	size int
	grid *domain.Grid
	rng  *rand.Rand
	log  *logrus.Entry
}

// NewLevel создает новый builder: сетка size x size, залитая стенами.
func NewLevel(size int, rng *rand.Rand) *LevelBuilder {
	return &LevelBuilder{
		size: size,
		grid: domain.NewGrid(size),
		rng:  rng,
		log:  logger.Log.WithField("component", "level_builder"),
	}
}

// WithRooms вырезает комнаты.
func (b *LevelBuilder) WithRooms(rooms ...Rect) *LevelBuilder {
	for _, r := range rooms {
		carveRoom(b.grid, r)
	}
	return b
}

// WithHCorridors вырезает горизонтальные коридоры на заданных z от x1 до x2 включительно.
func (b *LevelBuilder) WithHCorridors(x1, x2 int, zs ...int) *LevelBuilder {
	for _, z := range zs {
		carveHCorridor(b.grid, x1, x2, z)
	}
	return b
}

// WithVCorridors вырезает вертикальные коридоры на заданных x от z1 до z2 включительно.
func (b *LevelBuilder) WithVCorridors(z1, z2 int, xs ...int) *LevelBuilder {
	for _, x := range xs {
		carveVCorridor(b.grid, z1, z2, x)
	}
	return b
}

// SpawnEnemies ставит врага в каждую позицию, если там пол.
// ID врага - enemy_<индекс позиции в списке>.
func (b *LevelBuilder) SpawnEnemies(positions ...domain.Position) *LevelBuilder {
	for i, pos := range positions {
		cell, ok := b.grid.Cell(pos)
		if !ok || cell.Type != domain.CellFloor {
			b.log.WithField("pos", pos).Debug("Enemy slot is not floor, skipped")
			continue
		}
		cell.HasEnemy = true
		cell.Enemy = RandomEnemy(b.rng, fmt.Sprintf("enemy_%d", i), pos)
	}
	return b
}

// ScatterItems обходит сетку (x снаружи, z внутри) и кладет предмет
// на свободный пол с вероятностью chance, пока не наберется limit.
func (b *LevelBuilder) ScatterItems(chance float64, limit int) *LevelBuilder {
	placed := 0
	for x := 0; x < b.size && placed < limit; x++ {
		for z := 0; z < b.size && placed < limit; z++ {
			cell := b.grid.Cells[x][z]
			if cell.Type != domain.CellFloor || cell.HasEnemy {
				continue
			}
			if b.rng.Float64() < chance {
				item := RandomItem(b.rng)
				item.ID = fmt.Sprintf("%s_%d", item.ID, placed)
				cell.HasItem = true
				cell.Item = item
				placed++
			}
		}
	}
	return b
}

// Build возвращает готовую сетку.
func (b *LevelBuilder) Build() *domain.Grid {
	return b.grid
}
