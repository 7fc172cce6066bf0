package systems

import (
	"crawler-server/internal/domain"
	"crawler-server/pkg/dungeon"
	"crawler-server/pkg/logger"
	"crawler-server/pkg/utils"
	"strings"

	"github.com/sirupsen/logrus"
)

// CreateCharacter создает персонажа 1 уровня со статами класса.
// Класс должен быть проверен через domain.ParseClass.
func CreateCharacter(name string, class domain.CharacterClass) (*domain.Character, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrEmptyName
	}

	info := dungeon.LookupClass(class)
	return &domain.Character{
		ID:               utils.GenerateID(),
		Name:             name,
		Class:            class,
		Level:            domain.StartLevel,
		Health:           domain.StartHealth,
		MaxHealth:        domain.StartHealth,
		Mana:             domain.StartMana,
		MaxMana:          domain.StartMana,
		Experience:       0,
		ExperienceToNext: domain.StartExperienceToNext,
		Stats:            info.BaseStats,
	}, nil
}

// LevelUp - отчет о повышении уровня.
type LevelUp struct {
	CharacterID string
	NewLevel    int
}

// GainExperience начисляет опыт. За одно начисление - не больше одного уровня,
// излишек опыта сохраняется. Отрицательные значения игнорируются.
func GainExperience(c *domain.Character, amount int) (LevelUp, bool) {
	if amount <= 0 {
		return LevelUp{}, false
	}
	c.Experience += amount
	if c.Experience < c.ExperienceToNext {
		return LevelUp{}, false
	}

	c.Level++
	c.ExperienceToNext = c.Level * domain.ExperiencePerLevel

	c.MaxHealth += domain.LevelUpHealth
	c.Health = c.MaxHealth

	if c.Class == domain.ClassMage {
		c.MaxMana += domain.LevelUpManaMage
	} else {
		c.MaxMana += domain.LevelUpManaDefault
	}
	c.Mana = c.MaxMana

	if c.Class == domain.ClassWarrior {
		c.Stats.Strength += domain.LevelUpPrimaryStat
	} else {
		c.Stats.Strength += domain.LevelUpOtherStat
	}
	if c.Class == domain.ClassMage {
		c.Stats.Intelligence += domain.LevelUpPrimaryStat
	} else {
		c.Stats.Intelligence += domain.LevelUpOtherStat
	}
	c.Stats.Defense += domain.LevelUpDefense
	c.Stats.Speed += domain.LevelUpSpeed

	logger.Log.WithFields(logrus.Fields{
		"component":    "progression",
		"character_id": c.ID,
		"level":        c.Level,
		"experience":   c.Experience,
	}).Info("Character leveled up.")

	return LevelUp{CharacterID: c.ID, NewLevel: c.Level}, true
}
