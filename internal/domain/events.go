package domain

// EffectKind - вид изменения состояния, которое бой просит применить.
type EffectKind uint8

const (
	EffectUnknown EffectKind = iota
	EffectDamageEnemy
	EffectDamageCharacter
	EffectHealCharacter
	EffectRestoreMana
	EffectSpendMana
	EffectGrantExperience
	EffectConsumeItem
)

var effectNames = map[EffectKind]string{
	EffectDamageEnemy:     "DAMAGE_ENEMY",
	EffectDamageCharacter: "DAMAGE_CHARACTER",
	EffectHealCharacter:   "HEAL_CHARACTER",
	EffectRestoreMana:     "RESTORE_MANA",
	EffectSpendMana:       "SPEND_MANA",
	EffectGrantExperience: "GRANT_EXPERIENCE",
	EffectConsumeItem:     "CONSUME_ITEM",
}

func (k EffectKind) String() string {
	if s, ok := effectNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Effect - команда на изменение. Бой только описывает изменения,
// применяет их сессия (единственный писатель состояния).
type Effect struct {
	Kind     EffectKind
	TargetID string // ID персонажа или врага
	Amount   int
	ItemID   string // для EffectConsumeItem
}

// EventType - событие, которое хендлер передает циклу сессии.
// Хендлеры не ждут таймеров и хранилища, это делает Runner.
type EventType uint8

const (
	EventNone EventType = iota
	EventEnemyTurnDue
	EventVictory
	EventSaveRequested
	EventLoadRequested
	EventListSavesRequested
	EventDeleteRequested
)

var eventTypeNames = map[EventType]string{
	EventEnemyTurnDue:       "ENEMY_TURN_DUE",
	EventVictory:            "VICTORY",
	EventSaveRequested:      "SAVE_REQUESTED",
	EventLoadRequested:      "LOAD_REQUESTED",
	EventListSavesRequested: "LIST_SAVES_REQUESTED",
	EventDeleteRequested:    "DELETE_REQUESTED",
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return "NONE"
}

// Event - отложенная работа после команды.
type Event struct {
	Type     EventType
	Seq      uint64 // номер стычки для таймеров
	SaveID   int64
	SaveName string
}
