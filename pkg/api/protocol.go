package api

import (
	"encoding/json"
	"time"
)

// Типы сообщений сервера
const (
	TypeUpdate = "UPDATE"
	TypeSaves  = "SAVES"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Полный снимок сессии, видимой игроку. Отправляется после каждой команды
// и после каждого отложенного хода врага.
type ServerResponse struct {
	// Type тип сообщения: "UPDATE" или "SAVES" (ответ на LIST_SAVES).
	Type string `json:"type"`

	// Phase текущий экран игры: menu, character_creation, exploration, combat, inventory, game_over.
	Phase string `json:"phase"`

	// Player позиция и направление взгляда партии. Отсутствует, пока игра не начата.
	Player *PlayerView `json:"player,omitempty"`

	// Party члены партии в порядке добавления.
	Party []CharacterView `json:"party,omitempty"`

	// ActiveCharacterID ID персонажа, от имени которого выполняются действия по умолчанию.
	ActiveCharacterID string `json:"activeCharacterId,omitempty"`

	// Inventory общий инвентарь партии.
	Inventory []ItemView `json:"inventory,omitempty"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map исследованные клетки. Неисследованные клиенту не отправляются.
	Map []TileView `json:"map,omitempty"`

	// Combat состояние текущего боя. Есть только в фазе combat.
	Combat *CombatView `json:"combat,omitempty"`

	// Classes доступные классы. Отправляются на экране создания партии.
	Classes []ClassView `json:"classes,omitempty"`

	// Saves слоты сохранений пользователя (только для Type == "SAVES").
	Saves []SaveView `json:"saves,omitempty"`

	// Logs новые сообщения, появившиеся с прошлой рассылки.
	Logs []LogEntry `json:"logs,omitempty"`
}

// PlayerView - положение партии на карте.
type PlayerView struct {
	X            int    `json:"x"`
	Z            int    `json:"z"`
	Facing       string `json:"facing"` // north, east, south, west
	DungeonLevel int    `json:"dungeonLevel"`
}

// GridMeta содержит размер карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Size int `json:"size"`
}

// TileView это DTO для одной исследованной клетки.
type TileView struct {
	X    int    `json:"x"`
	Z    int    `json:"z"`
	Type string `json:"type"` // floor, wall, door, stairs

	// HasEnemy true, если в клетке стоит живой враг.
	HasEnemy bool `json:"hasEnemy,omitempty"`

	// HasItem true, если в клетке лежит предмет.
	HasItem bool `json:"hasItem,omitempty"`
}

// StatsView - базовые характеристики персонажа.
type StatsView struct {
	Strength     int `json:"strength"`
	Intelligence int `json:"intelligence"`
	Defense      int `json:"defense"`
	Speed        int `json:"speed"`
}

// CharacterView это DTO для члена партии.
type CharacterView struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Class            string         `json:"class"`
	Level            int            `json:"level"`
	Health           int            `json:"health"`
	MaxHealth        int            `json:"maxHealth"`
	Mana             int            `json:"mana"`
	MaxMana          int            `json:"maxMana"`
	Experience       int            `json:"experience"`
	ExperienceToNext int            `json:"experienceToNext"`
	Stats            StatsView      `json:"stats"`
	Equipment        *EquipmentView `json:"equipment,omitempty"`
	IsAlive          bool           `json:"isAlive"`
	IsDefending      bool           `json:"isDefending,omitempty"`
}

// ItemView представляет предмет для клиента.
type ItemView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`   // weapon, armor, potion, misc
	Rarity      string `json:"rarity"` // common, rare, epic, legendary
	Attack      int    `json:"attack,omitempty"`
	Defense     int    `json:"defense,omitempty"`
	HealthBonus int    `json:"healthBonus,omitempty"`
	ManaBonus   int    `json:"manaBonus,omitempty"`
	Effect      string `json:"effect,omitempty"` // heal, mana
	EffectValue int    `json:"effectValue,omitempty"`
}

// EquipmentView представляет экипированные предметы.
type EquipmentView struct {
	Weapon *ItemView `json:"weapon,omitempty"`
	Armor  *ItemView `json:"armor,omitempty"`
}

// EnemyView это DTO противника в бою.
type EnemyView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	IsAlive   bool   `json:"isAlive"`
}

// CombatView - состояние боя.
type CombatView struct {
	// Phase фаза боя: select_action, select_target, executing, victory, defeat.
	Phase string `json:"phase"`

	// PlayerTurn true, если партия может отправить боевую команду.
	PlayerTurn bool      `json:"playerTurn"`
	Round      int       `json:"round"`
	Enemy      EnemyView `json:"enemy"`
}

// SpellView - заклинание класса.
type SpellView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ManaCost int    `json:"manaCost"`
	Damage   int    `json:"damage,omitempty"`
	Healing  int    `json:"healing,omitempty"`
	Target   string `json:"target"`
}

// ClassView - описание класса для экрана создания персонажа.
type ClassView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Stats       StatsView   `json:"stats"`
	Spells      []SpellView `json:"spells"`
}

// SaveView - метаданные слота сохранения.
type SaveView struct {
	ID           int64     `json:"id"`
	SaveName     string    `json:"saveName"`
	DungeonLevel int       `json:"dungeonLevel"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// LogEntry представляет одну запись в игровом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
// Пользователь определяется токеном при подключении, поэтому в команде его нет.
type ClientCommand struct {
	// Action название действия, которое нужно выполнить (MOVE, ATTACK, SAVE...).
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// CreateCharacterPayload используется для CREATE_CHARACTER.
type CreateCharacterPayload struct {
	Name  string `json:"name"`
	Class string `json:"class"` // warrior, mage
}

// CharacterPayload используется для REMOVE_CHARACTER и SELECT_CHARACTER.
type CharacterPayload struct {
	CharacterID string `json:"characterId"`
}

// MovePayload используется для MOVE.
type MovePayload struct {
	Direction string `json:"direction"` // forward, backward, strafe_left, strafe_right, turn_left, turn_right
}

// ItemPayload используется для EQUIP и USE_ITEM.
// Пустой CharacterID - активный персонаж, пустой TargetID - сам персонаж.
type ItemPayload struct {
	ItemID      string `json:"itemId"`
	CharacterID string `json:"characterId,omitempty"`
	TargetID    string `json:"targetId,omitempty"`
}

// ActorPayload используется для ATTACK и DEFEND. Все поля необязательны.
type ActorPayload struct {
	CharacterID string `json:"characterId,omitempty"`
}

// SpellPayload используется для CAST_SPELL.
type SpellPayload struct {
	SpellID     string `json:"spellId"`
	CharacterID string `json:"characterId,omitempty"`
	TargetID    string `json:"targetId,omitempty"`
}

// SavePayload используется для SAVE. Нулевой SaveID - новый слот,
// иначе перезапись существующего.
type SavePayload struct {
	SaveName string `json:"saveName"`
	SaveID   int64  `json:"saveId,omitempty"`
}

// SaveIDPayload используется для LOAD и DELETE_SAVE.
type SaveIDPayload struct {
	SaveID int64 `json:"saveId"`
}
