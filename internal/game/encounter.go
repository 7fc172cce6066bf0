package game

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/systems"
	"crawler-server/pkg/logger"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// CombatView - копии участников боя. Бой читает только их.
type CombatView struct {
	Party     []*domain.Character
	Enemy     *domain.Enemy
	Inventory []*domain.Item
}

// PlayerAction - ход персонажа.
type PlayerAction struct {
	Kind     domain.ActionType // ActionAttack, ActionDefend, ActionCastSpell, ActionUseItem
	ActorID  string
	SpellID  string
	ItemID   string
	TargetID string // союзник для лечения; пусто - сам персонаж
}

// Outcome - результат одного действия. Изменения описаны в Effects,
// применяет их Session.
type Outcome struct {
	Effects    []domain.Effect
	Messages   []string
	Damage     int
	TargetID   string
	TargetDied bool
	Phase      domain.CombatPhase
}

// Encounter - стычка партии с одним врагом. Ходы строго чередуются:
// партия, затем враг.
type Encounter struct {
	Seq        uint64
	EnemyID    string
	Phase      domain.CombatPhase
	PlayerTurn bool
	Round      int

	defending map[string]bool
	rng       *rand.Rand
	log       *logrus.Entry
}

// NewEncounter начинает бой. Первой ходит партия.
func NewEncounter(seq uint64, enemyID string, rng *rand.Rand) *Encounter {
	return &Encounter{
		Seq:        seq,
		EnemyID:    enemyID,
		Phase:      domain.CombatSelectAction,
		PlayerTurn: true,
		Round:      1,
		defending:  make(map[string]bool),
		rng:        rng,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "encounter",
			"enemy_id":  enemyID,
			"seq":       seq,
		}),
	}
}

// IsDefending - персонаж в защитной стойке до следующего хода врага.
func (e *Encounter) IsDefending(id string) bool {
	return e.defending[id]
}

// PlayerAct выполняет ход персонажа.
// Ошибка означает, что ход не состоялся и очередь не сдвинулась.
func (e *Encounter) PlayerAct(view CombatView, act PlayerAction) (Outcome, error) {
	if e.Phase.IsTerminal() {
		return Outcome{}, domain.ErrEncounterOver
	}
	if !e.PlayerTurn {
		return Outcome{}, domain.ErrNotYourTurn
	}

	actor := findMember(view.Party, act.ActorID)
	if actor == nil {
		return Outcome{}, fmt.Errorf("actor %s: %w", act.ActorID, domain.ErrNotFound)
	}
	if !actor.IsAlive() {
		return Outcome{}, fmt.Errorf("%s: %w", actor.Name, domain.ErrActorFallen)
	}

	var (
		out Outcome
		err error
	)
	switch act.Kind {
	case domain.ActionAttack:
		out, err = e.attack(actor, view.Enemy)
	case domain.ActionDefend:
		e.defending[actor.ID] = true
		out = Outcome{Messages: []string{fmt.Sprintf("%s занимает оборону.", actor.Name)}}
	case domain.ActionCastSpell:
		out, err = e.castSpell(actor, view, act)
	case domain.ActionUseItem:
		out, err = e.useItem(actor, view, act)
	default:
		return Outcome{}, fmt.Errorf("combat action %s: %w", act.Kind, domain.ErrWrongPhase)
	}
	if err != nil {
		return Outcome{}, err
	}

	if out.TargetDied {
		e.Phase = domain.CombatVictory
		reward := systems.ExperienceReward(view.Enemy)
		for _, m := range view.Party {
			if m.IsAlive() {
				out.Effects = append(out.Effects, domain.Effect{Kind: domain.EffectGrantExperience, TargetID: m.ID, Amount: reward})
			}
		}
		out.Messages = append(out.Messages, fmt.Sprintf("Победа! Каждый выживший получает %d опыта.", reward))
		e.log.WithField("reward", reward).Info("Encounter won.")
	} else {
		e.Phase = domain.CombatExecuting
		e.PlayerTurn = false
	}

	out.Phase = e.Phase
	return out, nil
}

func (e *Encounter) attack(actor *domain.Character, enemy *domain.Enemy) (Outcome, error) {
	if err := systems.ValidateEnemyTarget(enemy); err != nil {
		return Outcome{}, err
	}

	dmg := systems.CalculateDamage(actor, enemy, e.rng)
	out := Outcome{
		Effects:    []domain.Effect{{Kind: domain.EffectDamageEnemy, TargetID: enemy.ID, Amount: dmg}},
		Damage:     dmg,
		TargetID:   enemy.ID,
		TargetDied: dmg >= enemy.Health,
		Messages:   []string{fmt.Sprintf("%s наносит %d урона по %s.", actor.Name, dmg, enemy.Name)},
	}
	if out.TargetDied {
		out.Messages = append(out.Messages, fmt.Sprintf("%s погибает.", enemy.Name))
	}
	return out, nil
}

func (e *Encounter) castSpell(actor *domain.Character, view CombatView, act PlayerAction) (Outcome, error) {
	spell, err := systems.CanCast(actor, act.SpellID)
	if err != nil {
		return Outcome{}, err
	}
	spend := domain.Effect{Kind: domain.EffectSpendMana, TargetID: actor.ID, Amount: spell.ManaCost}

	if spell.IsOffensive() {
		if err := systems.ValidateEnemyTarget(view.Enemy); err != nil {
			return Outcome{}, err
		}
		dmg := systems.SpellDamage(actor, spell, view.Enemy)
		out := Outcome{
			Effects:    []domain.Effect{spend, {Kind: domain.EffectDamageEnemy, TargetID: view.Enemy.ID, Amount: dmg}},
			Damage:     dmg,
			TargetID:   view.Enemy.ID,
			TargetDied: dmg >= view.Enemy.Health,
			Messages:   []string{fmt.Sprintf("%s применяет %s: %d урона по %s.", actor.Name, spell.Name, dmg, view.Enemy.Name)},
		}
		if out.TargetDied {
			out.Messages = append(out.Messages, fmt.Sprintf("%s погибает.", view.Enemy.Name))
		}
		return out, nil
	}

	ally, err := systems.ResolveAlly(actor, view.Party, act.TargetID)
	if err != nil {
		return Outcome{}, err
	}
	amount := systems.SpellHealing(actor, spell)
	if missing := ally.MaxHealth - ally.Health; amount > missing {
		amount = missing
	}
	return Outcome{
		Effects:  []domain.Effect{spend, {Kind: domain.EffectHealCharacter, TargetID: ally.ID, Amount: amount}},
		TargetID: ally.ID,
		Messages: []string{fmt.Sprintf("%s применяет %s: %s восстанавливает %d здоровья.", actor.Name, spell.Name, ally.Name, amount)},
	}, nil
}

func (e *Encounter) useItem(actor *domain.Character, view CombatView, act PlayerAction) (Outcome, error) {
	var item *domain.Item
	for _, it := range view.Inventory {
		if it.ID == act.ItemID {
			item = it
			break
		}
	}
	if item == nil {
		return Outcome{}, fmt.Errorf("item %s: %w", act.ItemID, domain.ErrNotFound)
	}
	if !item.IsConsumable() {
		return Outcome{}, fmt.Errorf("%s: %w", item.Name, domain.ErrNotUsable)
	}

	ally, err := systems.ResolveAlly(actor, view.Party, act.TargetID)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{TargetID: ally.ID}
	switch item.Effect.Type {
	case domain.EffectHeal:
		out.Effects = append(out.Effects, domain.Effect{Kind: domain.EffectHealCharacter, TargetID: ally.ID, Amount: item.Effect.Value})
		out.Messages = append(out.Messages, fmt.Sprintf("%s использует %s на %s.", actor.Name, item.Name, ally.Name))
	case domain.EffectMana:
		out.Effects = append(out.Effects, domain.Effect{Kind: domain.EffectRestoreMana, TargetID: ally.ID, Amount: item.Effect.Value})
		out.Messages = append(out.Messages, fmt.Sprintf("%s использует %s на %s.", actor.Name, item.Name, ally.Name))
	}
	out.Effects = append(out.Effects, domain.Effect{Kind: domain.EffectConsumeItem, ItemID: item.ID})
	return out, nil
}

// EnemyAct выполняет ход врага и возвращает очередь партии.
func (e *Encounter) EnemyAct(view CombatView) (Outcome, error) {
	if e.Phase.IsTerminal() {
		return Outcome{}, domain.ErrEncounterOver
	}
	if e.PlayerTurn {
		return Outcome{}, domain.ErrNotYourTurn
	}

	enemy := view.Enemy
	dec := systems.ComputeEnemyAction(enemy, view.Party)

	var out Outcome
	switch dec.Intent {
	case systems.EnemyAttack:
		target := dec.Target
		dmg := systems.EnemyDamage(enemy, target, e.defending[target.ID], e.rng)
		out = Outcome{
			Effects:    []domain.Effect{{Kind: domain.EffectDamageCharacter, TargetID: target.ID, Amount: dmg}},
			Damage:     dmg,
			TargetID:   target.ID,
			TargetDied: dmg >= target.Health,
			Messages:   []string{fmt.Sprintf("%s наносит %d урона по %s.", enemy.Name, dmg, target.Name)},
		}
		if out.TargetDied {
			out.Messages = append(out.Messages, fmt.Sprintf("%s падает без сознания.", target.Name))
		}
	default:
		out = Outcome{Messages: []string{fmt.Sprintf("%s защищается.", enemy.Name)}}
	}

	// Стойка действует только до этого хода
	e.defending = make(map[string]bool)

	if partyFallsAfter(view.Party, out) {
		e.Phase = domain.CombatDefeat
		out.Messages = append(out.Messages, "Партия пала.")
		e.log.Info("Encounter lost.")
	} else {
		e.Phase = domain.CombatSelectAction
		e.PlayerTurn = true
		e.Round++
	}

	out.Phase = e.Phase
	return out, nil
}

// partyFallsAfter - никто не выживет после применения урона из out.
func partyFallsAfter(party []*domain.Character, out Outcome) bool {
	for _, m := range party {
		if !m.IsAlive() {
			continue
		}
		if m.ID == out.TargetID && out.TargetDied {
			continue
		}
		return false
	}
	return true
}

func findMember(party []*domain.Character, id string) *domain.Character {
	for _, m := range party {
		if m.ID == id {
			return m
		}
	}
	return nil
}
