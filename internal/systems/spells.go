package systems

import (
	"crawler-server/internal/domain"
	"crawler-server/pkg/dungeon"
	"fmt"
)

// CanCast проверяет, знает ли персонаж заклинание и хватает ли маны.
// Ничего не списывает.
func CanCast(c *domain.Character, spellID string) (domain.Spell, error) {
	spell, err := dungeon.FindSpell(c.Class, spellID)
	if err != nil {
		return domain.Spell{}, err
	}
	if !c.HasMana(spell.ManaCost) {
		return domain.Spell{}, fmt.Errorf("%s needs %d, has %d: %w", spell.ID, spell.ManaCost, c.Mana, domain.ErrNotEnoughMana)
	}
	return spell, nil
}

// SpellDamage - урон заклинания: max(1, урон + интеллект/2 - защита цели).
func SpellDamage(caster *domain.Character, spell domain.Spell, target domain.Defender) int {
	dmg := spell.Damage + caster.Stats.Intelligence/2 - target.DefenseValue()
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// SpellHealing - сила лечения: лечение + интеллект/2. Ограничение по максимуму здоровья
// применяется при лечении персонажа.
func SpellHealing(caster *domain.Character, spell domain.Spell) int {
	return spell.Healing + caster.Stats.Intelligence/2
}
