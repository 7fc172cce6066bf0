package dungeon

import (
	"crawler-server/internal/domain"
	"fmt"
	"math/rand"
)

// SpawnEnemy создает врага из шаблона на заданной позиции.
func (t EnemyTemplate) SpawnEnemy(id string, pos domain.Position) *domain.Enemy {
	return &domain.Enemy{
		ID:        id,
		Name:      t.Name,
		Health:    t.Health,
		MaxHealth: t.Health,
		Attack:    t.Attack,
		Defense:   t.Defense,
		Position:  pos,
		IsAlive:   true,
	}
}

// RandomEnemy выбирает шаблон равновероятно.
func RandomEnemy(rng *rand.Rand, id string, pos domain.Position) *domain.Enemy {
	tpl := EnemyTemplates[rng.Intn(len(EnemyTemplates))]
	return tpl.SpawnEnemy(id, pos)
}

// NewItem возвращает независимую копию предмета каталога.
// Неизвестный ID - ошибка программиста.
func NewItem(key string) *domain.Item {
	tpl, ok := ItemTemplates[key]
	if !ok {
		panic(fmt.Sprintf("dungeon: unknown item template %q", key))
	}
	return tpl.Clone()
}

// RandomItem выбирает предмет каталога равновероятно и возвращает копию.
func RandomItem(rng *rand.Rand) *domain.Item {
	return NewItem(itemKeys[rng.Intn(len(itemKeys))])
}
