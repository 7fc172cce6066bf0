package domain

// ItemType - категория предмета.
type ItemType string

const (
	ItemWeapon ItemType = "weapon"
	ItemArmor  ItemType = "armor"
	ItemPotion ItemType = "potion"
	ItemMisc   ItemType = "misc"
)

// Rarity - редкость предмета.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// EffectType - эффект расходника.
type EffectType string

const (
	EffectHeal EffectType = "heal"
	EffectMana EffectType = "mana"
	EffectBuff EffectType = "buff"
)

// ItemStats - бонусы экипировки.
type ItemStats struct {
	Attack      int `json:"attack,omitempty"`
	Defense     int `json:"defense,omitempty"`
	HealthBonus int `json:"healthBonus,omitempty"`
	ManaBonus   int `json:"manaBonus,omitempty"`
}

// ItemEffect - действие при использовании.
type ItemEffect struct {
	Type  EffectType `json:"type"`
	Value int        `json:"value"`
}

// Item - предмет в клетке, в инвентаре или в слоте экипировки.
type Item struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Type   ItemType    `json:"type"`
	Rarity Rarity      `json:"rarity"`
	Stats  *ItemStats  `json:"stats,omitempty"`
	Effect *ItemEffect `json:"effect,omitempty"`
}

// IsEquippable - оружие или броня.
func (i *Item) IsEquippable() bool {
	return i.Type == ItemWeapon || i.Type == ItemArmor
}

// IsConsumable - у предмета есть эффект лечения или маны.
func (i *Item) IsConsumable() bool {
	return i.Effect != nil && (i.Effect.Type == EffectHeal || i.Effect.Type == EffectMana)
}

// Clone - глубокая копия, безопасна для nil.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	cp := *i
	if i.Stats != nil {
		s := *i.Stats
		cp.Stats = &s
	}
	if i.Effect != nil {
		e := *i.Effect
		cp.Effect = &e
	}
	return &cp
}
