package systems

import (
	"crawler-server/internal/domain"
	"fmt"
)

// --- EQUIP ---

// EquipItem кладет оружие или броню в слот, заменяя прежний предмет.
// Предмет остается в инвентаре.
func EquipItem(c *domain.Character, item *domain.Item) (string, error) {
	if !item.IsEquippable() {
		return "", fmt.Errorf("%s: %w", item.Name, domain.ErrNotEquippable)
	}
	if item.Type == domain.ItemWeapon {
		c.Equipment.Weapon = item
	} else {
		c.Equipment.Armor = item
	}
	return fmt.Sprintf("%s экипирует %s.", c.Name, item.Name), nil
}

// --- USE ---

// UseItem применяет зелье к живому персонажу. Лечение и мана не превышают максимум.
// Убирать предмет из инвентаря - забота вызывающего.
func UseItem(c *domain.Character, item *domain.Item) (string, error) {
	if !item.IsConsumable() {
		return "", fmt.Errorf("%s: %w", item.Name, domain.ErrNotUsable)
	}
	if !c.IsAlive() {
		return "", fmt.Errorf("%s: %w", c.Name, domain.ErrTargetFallen)
	}

	switch item.Effect.Type {
	case domain.EffectHeal:
		restored := c.Heal(item.Effect.Value)
		return fmt.Sprintf("%s использует %s и восстанавливает %d здоровья.", c.Name, item.Name, restored), nil
	default: // EffectMana
		restored := c.RestoreMana(item.Effect.Value)
		return fmt.Sprintf("%s использует %s и восстанавливает %d маны.", c.Name, item.Name, restored), nil
	}
}

// --- PICKUP ---

// TryPickup переносит предмет из клетки в инвентарь и очищает клетку.
func TryPickup(cell *domain.DungeonCell, inv *domain.Inventory) (*domain.Item, error) {
	if !cell.HasItem || cell.Item == nil {
		return nil, fmt.Errorf("item at (%d,%d): %w", cell.X, cell.Z, domain.ErrNotFound)
	}
	item := cell.Item
	inv.Add(item)
	cell.HasItem = false
	cell.Item = nil
	return item, nil
}
