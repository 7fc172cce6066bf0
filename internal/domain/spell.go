package domain

// SpellTarget - на кого направлено заклинание.
type SpellTarget string

const (
	TargetSelf       SpellTarget = "self"
	TargetAlly       SpellTarget = "ally"
	TargetEnemy      SpellTarget = "enemy"
	TargetAllEnemies SpellTarget = "all_enemies"
)

// Spell - заклинание класса.
type Spell struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	ManaCost   int         `json:"manaCost"`
	Damage     int         `json:"damage,omitempty"`
	Healing    int         `json:"healing,omitempty"`
	TargetType SpellTarget `json:"targetType"`
}

// IsOffensive - бьет по врагам.
func (s Spell) IsOffensive() bool {
	return s.TargetType == TargetEnemy || s.TargetType == TargetAllEnemies
}
