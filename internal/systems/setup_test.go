package systems

import (
	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.InitFromEnv()

	// Exit with the result of the tests
	os.Exit(m.Run())
}

// createTestGrid возвращает сетку size x size, где пол везде кроме рамки.
func createTestGrid(size int) *domain.Grid {
	g := domain.NewGrid(size)
	for x := 1; x < size-1; x++ {
		for z := 1; z < size-1; z++ {
			g.Cells[x][z].Type = domain.CellFloor
		}
	}
	return g
}

func newTestWarrior(id string) *domain.Character {
	c, err := CreateCharacter(id, domain.ClassWarrior)
	if err != nil {
		panic(err)
	}
	c.ID = id
	return c
}

func newTestMage(id string) *domain.Character {
	c, err := CreateCharacter(id, domain.ClassMage)
	if err != nil {
		panic(err)
	}
	c.ID = id
	return c
}
