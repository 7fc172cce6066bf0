package systems

import (
	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// CalculateDamage - урон персонажа по цели:
// floor(max(1, сила + атака оружия - защита цели) + U[0,5)). Всегда не меньше 1.
func CalculateDamage(attacker *domain.Character, target domain.Defender, rng *rand.Rand) int {
	base := attacker.Stats.Strength + attacker.WeaponAttack() - target.DefenseValue()
	if base < 1 {
		base = 1
	}
	damage := int(math.Floor(float64(base) + rng.Float64()*5))

	logger.Log.WithFields(logrus.Fields{
		"component":     "combat_system",
		"attacker_id":   attacker.ID,
		"strength":      attacker.Stats.Strength,
		"weapon_attack": attacker.WeaponAttack(),
		"defense":       target.DefenseValue(),
		"final_damage":  damage,
	}).Debug("Damage calculated.")

	return damage
}

// EnemyDamage - урон врага по персонажу:
// max(1, floor(атака * U[0.8,1.2)) - защита цели). В защитной стойке урон делится пополам (минимум 1).
func EnemyDamage(enemy *domain.Enemy, target domain.Defender, defending bool, rng *rand.Rand) int {
	raw := int(math.Floor(float64(enemy.Attack) * (0.8 + rng.Float64()*0.4)))
	damage := raw - target.DefenseValue()
	if damage < 1 {
		damage = 1
	}
	if defending {
		damage /= 2
		if damage < 1 {
			damage = 1
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component":    "combat_system",
		"enemy_id":     enemy.ID,
		"raw_damage":   raw,
		"defense":      target.DefenseValue(),
		"defending":    defending,
		"final_damage": damage,
	}).Debug("Enemy damage calculated.")

	return damage
}

// ExperienceReward - опыт за победу: floor(maxHealth/4) + attack.
func ExperienceReward(enemy *domain.Enemy) int {
	return enemy.MaxHealth/4 + enemy.Attack
}
