package dungeon

import (
	"crawler-server/internal/domain"
	"fmt"
)

// ClassInfo - описание класса персонажа.
type ClassInfo struct {
	DisplayName string
	Description string
	BaseStats   domain.Stats
	Spells      []domain.Spell
}

var classTable = map[domain.CharacterClass]ClassInfo{
	domain.ClassWarrior: {
		DisplayName: "Warrior",
		Description: "Крепкий боец ближнего боя.",
		BaseStats:   domain.Stats{Strength: 15, Intelligence: 8, Defense: 12, Speed: 10},
		Spells: []domain.Spell{
			{ID: "power_attack", Name: "Power Attack", ManaCost: 5, Damage: 20, TargetType: domain.TargetEnemy},
		},
	},
	domain.ClassMage: {
		DisplayName: "Mage",
		Description: "Хрупкий заклинатель с огнем и исцелением.",
		BaseStats:   domain.Stats{Strength: 8, Intelligence: 15, Defense: 8, Speed: 12},
		Spells: []domain.Spell{
			{ID: "fireball", Name: "Fireball", ManaCost: 8, Damage: 25, TargetType: domain.TargetEnemy},
			{ID: "heal", Name: "Heal", ManaCost: 6, Healing: 20, TargetType: domain.TargetAlly},
		},
	},
}

// LookupClass возвращает копию описания класса.
// Неизвестный класс - нарушение предусловия: вызывающий проверяет его через domain.ParseClass.
func LookupClass(class domain.CharacterClass) ClassInfo {
	info, ok := classTable[class]
	if !ok {
		panic(fmt.Sprintf("dungeon: unknown class %q", class))
	}
	spells := make([]domain.Spell, len(info.Spells))
	copy(spells, info.Spells)
	info.Spells = spells
	return info
}

// FindSpell ищет заклинание в списке класса.
func FindSpell(class domain.CharacterClass, spellID string) (domain.Spell, error) {
	info, ok := classTable[class]
	if !ok {
		return domain.Spell{}, fmt.Errorf("%w: %q", domain.ErrUnknownClass, class)
	}
	for _, s := range info.Spells {
		if s.ID == spellID {
			return s, nil
		}
	}
	return domain.Spell{}, fmt.Errorf("%s for %s: %w", spellID, class, domain.ErrUnknownSpell)
}

// Classes - классы в порядке показа на экране создания партии.
func Classes() []domain.CharacterClass {
	return []domain.CharacterClass{domain.ClassWarrior, domain.ClassMage}
}
