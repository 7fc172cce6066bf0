package storage

import (
	"context"
	"crawler-server/internal/domain"
	"errors"
)

// ErrNotFound - слота нет или он принадлежит другому пользователю.
var ErrNotFound = errors.New("save not found")

// SaveStore - шлюз к сохранениям. Все операции ограничены пользователем:
// чужой слот неотличим от несуществующего.
type SaveStore interface {
	CreateSave(ctx context.Context, userID, name string, snap domain.Snapshot) (domain.SaveRecord, error)
	ListSaves(ctx context.Context, userID string) ([]domain.SaveRecord, error)
	LoadSave(ctx context.Context, userID string, saveID int64) (domain.Snapshot, error)
	UpdateSave(ctx context.Context, userID string, saveID int64, upd SaveUpdate) (domain.SaveRecord, error)
	DeleteSave(ctx context.Context, userID string, saveID int64) error
	Close() error
}

// SaveUpdate - частичное обновление слота. nil - поле не меняется,
// пустой (не nil) срез очищает данные.
type SaveUpdate struct {
	SaveName     *string                 `json:"saveName,omitempty"`
	DungeonLevel *int                    `json:"dungeonLevel,omitempty"`
	Player       *domain.PlayerState     `json:"playerPosition,omitempty"`
	Characters   []domain.SavedCharacter `json:"characters,omitempty"`
	Inventory    []*domain.Item          `json:"inventory,omitempty"`
	Dungeon      *domain.DungeonState    `json:"dungeonState,omitempty"`
}

// FullUpdate - перезапись слота целиком из снимка сессии.
func FullUpdate(snap domain.Snapshot) SaveUpdate {
	name := snap.Save.SaveName
	level := snap.Save.DungeonLevel
	player := snap.Save.Player
	dungeon := snap.Dungeon
	inv := snap.Inventory
	if inv == nil {
		inv = []*domain.Item{}
	}
	return SaveUpdate{
		SaveName:     &name,
		DungeonLevel: &level,
		Player:       &player,
		Characters:   snap.Characters,
		Inventory:    inv,
		Dungeon:      &dungeon,
	}
}

// IsEmpty - обновление ничего не меняет.
func (u SaveUpdate) IsEmpty() bool {
	return u.SaveName == nil && u.DungeonLevel == nil && u.Player == nil &&
		u.Characters == nil && u.Inventory == nil && u.Dungeon == nil
}

// Apply переносит заданные поля в снимок.
func (u SaveUpdate) Apply(snap *domain.Snapshot) {
	if u.SaveName != nil {
		snap.Save.SaveName = *u.SaveName
	}
	if u.DungeonLevel != nil {
		snap.Save.DungeonLevel = *u.DungeonLevel
	}
	if u.Player != nil {
		snap.Save.Player = *u.Player
	}
	if u.Characters != nil {
		snap.Characters = u.Characters
	}
	if u.Inventory != nil {
		snap.Inventory = u.Inventory
	}
	if u.Dungeon != nil {
		snap.Dungeon = *u.Dungeon
	}
}
