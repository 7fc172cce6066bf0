package systems

import (
	"crawler-server/internal/domain"
	"fmt"
)

// ResolveAlly находит союзника для лечащего эффекта.
// Пустой targetID означает самого действующего персонажа.
// Павшего союзника выбрать нельзя.
func ResolveAlly(actor *domain.Character, party []*domain.Character, targetID string) (*domain.Character, error) {
	if targetID == "" || targetID == actor.ID {
		if !actor.IsAlive() {
			return nil, domain.ErrActorFallen
		}
		return actor, nil
	}

	for _, c := range party {
		if c.ID != targetID {
			continue
		}
		if !c.IsAlive() {
			return nil, fmt.Errorf("%s: %w", c.Name, domain.ErrTargetFallen)
		}
		return c, nil
	}
	return nil, fmt.Errorf("ally %s: %w", targetID, domain.ErrNotFound)
}

// ValidateEnemyTarget проверяет, что атаковать есть кого.
func ValidateEnemyTarget(enemy *domain.Enemy) error {
	if enemy == nil {
		return fmt.Errorf("enemy: %w", domain.ErrNotFound)
	}
	if !enemy.IsAlive {
		return fmt.Errorf("%s: %w", enemy.Name, domain.ErrTargetFallen)
	}
	return nil
}
