package domain

import "strings"

// ActionType - Внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionNewGame
	ActionCreateCharacter
	ActionRemoveCharacter
	ActionSelectCharacter
	ActionStartGame
	ActionMove
	ActionInteract
	ActionOpenInventory
	ActionCloseInventory
	ActionEquip
	ActionUseItem
	ActionAttack
	ActionDefend
	ActionCastSpell
	ActionSave
	ActionLoad
	ActionListSaves
	ActionDeleteSave
	ActionMainMenu

	// Внутренние команды таймеров, клиент их прислать не может.
	ActionEnemyTurn
	ActionEndCombat
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":             ActionInit,
	"NEW_GAME":         ActionNewGame,
	"CREATE_CHARACTER": ActionCreateCharacter,
	"REMOVE_CHARACTER": ActionRemoveCharacter,
	"SELECT_CHARACTER": ActionSelectCharacter,
	"START_GAME":       ActionStartGame,
	"MOVE":             ActionMove,
	"INTERACT":         ActionInteract,
	"OPEN_INVENTORY":   ActionOpenInventory,
	"CLOSE_INVENTORY":  ActionCloseInventory,
	"EQUIP":            ActionEquip,
	"USE_ITEM":         ActionUseItem,
	"ATTACK":           ActionAttack,
	"DEFEND":           ActionDefend,
	"CAST_SPELL":       ActionCastSpell,
	"SAVE":             ActionSave,
	"LOAD":             ActionLoad,
	"LIST_SAVES":       ActionListSaves,
	"DELETE_SAVE":      ActionDeleteSave,
	"MAIN_MENU":        ActionMainMenu,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionEnemyTurn: "ENEMY_TURN",
	ActionEndCombat: "END_COMBAT",
}

func init() {
	for s, a := range actionStringToCmd {
		actionCmdToString[a] = s
	}
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsCombat - команда относится к бою.
func (a ActionType) IsCombat() bool {
	switch a {
	case ActionAttack, ActionDefend, ActionCastSpell:
		return true
	}
	return false
}
