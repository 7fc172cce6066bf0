package dungeon

import (
	"crawler-server/internal/domain"
	"sort"
)

// EnemyTemplate определяет шаблон противника.
type EnemyTemplate struct {
	Name    string
	Health  int
	Attack  int
	Defense int
}

// --- ВРАГИ ---

// EnemyTemplates - порядок важен: шаблон выбирается по индексу из rng.
var EnemyTemplates = []EnemyTemplate{
	{Name: "Goblin", Health: 40, Attack: 8, Defense: 2},
	{Name: "Orc", Health: 60, Attack: 12, Defense: 4},
	{Name: "Skeleton", Health: 35, Attack: 10, Defense: 3},
	{Name: "Troll", Health: 80, Attack: 15, Defense: 6},
}

// --- ПРЕДМЕТЫ ---

// ItemTemplates - каталог предметов по ID.
var ItemTemplates = map[string]domain.Item{
	// Оружие
	"iron_sword": {
		ID: "iron_sword", Name: "Iron Sword", Type: domain.ItemWeapon, Rarity: domain.RarityCommon,
		Stats: &domain.ItemStats{Attack: 10},
	},
	"steel_sword": {
		ID: "steel_sword", Name: "Steel Sword", Type: domain.ItemWeapon, Rarity: domain.RarityRare,
		Stats: &domain.ItemStats{Attack: 18},
	},
	"magic_staff": {
		ID: "magic_staff", Name: "Magic Staff", Type: domain.ItemWeapon, Rarity: domain.RarityRare,
		Stats: &domain.ItemStats{Attack: 8, ManaBonus: 20},
	},

	// Броня
	"leather_armor": {
		ID: "leather_armor", Name: "Leather Armor", Type: domain.ItemArmor, Rarity: domain.RarityCommon,
		Stats: &domain.ItemStats{Defense: 8},
	},
	"chain_mail": {
		ID: "chain_mail", Name: "Chain Mail", Type: domain.ItemArmor, Rarity: domain.RarityRare,
		Stats: &domain.ItemStats{Defense: 15},
	},
	"mage_robes": {
		ID: "mage_robes", Name: "Mage Robes", Type: domain.ItemArmor, Rarity: domain.RarityRare,
		Stats: &domain.ItemStats{Defense: 5, ManaBonus: 30},
	},

	// Зелья
	"health_potion": {
		ID: "health_potion", Name: "Health Potion", Type: domain.ItemPotion, Rarity: domain.RarityCommon,
		Effect: &domain.ItemEffect{Type: domain.EffectHeal, Value: 50},
	},
	"mana_potion": {
		ID: "mana_potion", Name: "Mana Potion", Type: domain.ItemPotion, Rarity: domain.RarityCommon,
		Effect: &domain.ItemEffect{Type: domain.EffectMana, Value: 30},
	},
}

// itemKeys - стабильный порядок ключей каталога для выбора по rng.
var itemKeys = func() []string {
	keys := make([]string, 0, len(ItemTemplates))
	for k := range ItemTemplates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()
