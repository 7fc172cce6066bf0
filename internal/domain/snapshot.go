package domain

import (
	"fmt"
	"time"
)

// SaveRecord - метаданные слота сохранения.
type SaveRecord struct {
	ID           int64       `json:"id"`
	UserID       string      `json:"userId"`
	SaveName     string      `json:"saveName"`
	DungeonLevel int         `json:"dungeonLevel"`
	Player       PlayerState `json:"playerPosition"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// SavedCharacter - персонаж в сохранении с флагом активности.
type SavedCharacter struct {
	Character
	IsActive bool `json:"isActive"`
}

// DungeonState - карта и исследованные клетки.
type DungeonState struct {
	Grid          *Grid      `json:"dungeonData"`
	ExploredRooms []Position `json:"exploredRooms"`
}

// Snapshot - полный снимок сессии для сохранения.
type Snapshot struct {
	Save       SaveRecord       `json:"save"`
	Characters []SavedCharacter `json:"characters"`
	Inventory  []*Item          `json:"inventory"`
	Dungeon    DungeonState     `json:"dungeonState"`
}

// Validate проверяет форму снимка перед восстановлением.
func (s *Snapshot) Validate() error {
	if len(s.Characters) == 0 {
		return fmt.Errorf("%w: no characters", ErrInvalidSnapshot)
	}
	if len(s.Characters) > MaxPartySize {
		return fmt.Errorf("%w: %d characters", ErrInvalidSnapshot, len(s.Characters))
	}
	for _, c := range s.Characters {
		if c.ID == "" {
			return fmt.Errorf("%w: character without id", ErrInvalidSnapshot)
		}
		if c.Health < 0 || c.Health > c.MaxHealth || c.Mana < 0 || c.Mana > c.MaxMana {
			return fmt.Errorf("%w: character %s out of range", ErrInvalidSnapshot, c.ID)
		}
	}
	if !s.Dungeon.Grid.Validate() {
		return fmt.Errorf("%w: malformed grid", ErrInvalidSnapshot)
	}
	if !s.Dungeon.Grid.InBounds(s.Save.Player.Position) || !s.Save.Player.Facing.Valid() {
		return fmt.Errorf("%w: player position", ErrInvalidSnapshot)
	}
	for _, it := range s.Inventory {
		if it == nil {
			return fmt.Errorf("%w: nil item", ErrInvalidSnapshot)
		}
	}
	return nil
}
