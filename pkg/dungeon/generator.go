package dungeon

import (
	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// Константы генерации
const (
	ItemChance = 0.1
	MaxItems   = 8
)

// StartPosition - клетка появления партии.
var StartPosition = domain.Position{X: 3, Z: 3}

// Layout - фиксированная планировка уровня.
var Layout = []Rect{
	{X: 2, Z: 2, W: 4, H: 4},
	{X: 8, Z: 2, W: 3, H: 3},
	{X: 14, Z: 3, W: 4, H: 3},
	{X: 2, Z: 8, W: 3, H: 4},
	{X: 7, Z: 9, W: 5, H: 4},
	{X: 14, Z: 8, W: 4, H: 5},
	{X: 2, Z: 15, W: 4, H: 3},
	{X: 10, Z: 15, W: 6, H: 3},
}

// Коридоры: горизонтальные по z, вертикальные по x, обе серии тянутся от 1 до size-2.
var (
	HCorridorRows = []int{4, 10, 16}
	VCorridorCols = []int{6, 12, 18}
)

// EnemySlots - позиции врагов.
var EnemySlots = []domain.Position{
	{X: 10, Z: 3},
	{X: 15, Z: 4},
	{X: 3, Z: 10},
	{X: 9, Z: 11},
	{X: 15, Z: 10},
	{X: 12, Z: 16},
}

// Generate создает новый уровень. Вся случайность берется из rng.
func Generate(rng *rand.Rand) *domain.Grid {
	size := domain.GridSize

	grid := NewLevel(size, rng).
		WithRooms(Layout...).
		WithHCorridors(1, size-2, HCorridorRows...).
		WithVCorridors(1, size-2, VCorridorCols...).
		SpawnEnemies(EnemySlots...).
		ScatterItems(ItemChance, MaxItems).
		Build()

	log := logger.Log.WithField("component", "dungeon_generator")
	if unreachable := UnreachableFloor(grid, StartPosition); unreachable > 0 {
		log.WithField("unreachable", unreachable).Warn("Generated dungeon has isolated floor tiles")
	}
	log.WithFields(logrus.Fields{
		"enemies": len(grid.Enemies()),
		"items":   grid.CountItems(),
	}).Debug("Dungeon generated")

	return grid
}
