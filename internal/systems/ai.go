package systems

import (
	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// EnemyIntent - что решил сделать враг.
type EnemyIntent uint8

const (
	EnemyDefend EnemyIntent = iota
	EnemyAttack
)

// EnemyDecision - решение ИИ врага на ход.
type EnemyDecision struct {
	Intent EnemyIntent
	Target *domain.Character
}

// ComputeEnemyAction выбирает цель: живой персонаж с наименьшим текущим здоровьем,
// при равенстве - первый по порядку партии. Если живых нет, враг защищается.
func ComputeEnemyAction(enemy *domain.Enemy, party []*domain.Character) EnemyDecision {
	var target *domain.Character
	for _, c := range party {
		if !c.IsAlive() {
			continue
		}
		if target == nil || c.Health < target.Health {
			target = c
		}
	}

	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "enemy_ai",
		"enemy_id":  enemy.ID,
	})

	if target == nil {
		aiLogger.Debug("No living targets, defending.")
		return EnemyDecision{Intent: EnemyDefend}
	}

	aiLogger.WithFields(logrus.Fields{
		"target_id": target.ID,
		"target_hp": target.Health,
	}).Debug("Target selected.")
	return EnemyDecision{Intent: EnemyAttack, Target: target}
}
