package game

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/systems"
	"crawler-server/pkg/dungeon"
	"crawler-server/pkg/logger"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// Session - состояние одной игры пользователя.
// Единственный писатель партии, инвентаря, сетки и боя: все изменения проходят через его методы.
// Не потокобезопасен, вызывается только из цикла Runner.
type Session struct {
	UserID       string
	Phase        domain.GamePhase
	Party        domain.Party
	Inventory    domain.Inventory
	Grid         *domain.Grid
	Player       domain.PlayerState
	Explored     map[domain.Position]bool
	Encounter    *Encounter
	DungeonLevel int

	// Текущий слот сохранения (0 - игра еще не сохранялась)
	SaveID   int64
	SaveName string

	encounterSeq uint64
	generation   uint64
	rng          *rand.Rand
	log          *logrus.Entry
}

// NewSession создает сессию в главном меню.
func NewSession(userID string, rng *rand.Rand) *Session {
	return &Session{
		UserID:   userID,
		Phase:    domain.PhaseMenu,
		Explored: make(map[domain.Position]bool),
		rng:      rng,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "session",
			"user_id":   userID,
		}),
	}
}

func (s *Session) requirePhase(allowed ...domain.GamePhase) error {
	for _, p := range allowed {
		if s.Phase == p {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", s.Phase, domain.ErrWrongPhase)
}

// bumpSeq делает устаревшими все запланированные таймеры.
func (s *Session) bumpSeq() uint64 {
	s.encounterSeq++
	return s.encounterSeq
}

// EncounterSeq - номер текущей стычки.
func (s *Session) EncounterSeq() uint64 {
	return s.encounterSeq
}

// Generation меняется при каждом сбросе и загрузке игры.
// Результаты асинхронных операций хранилища сверяются с ним.
func (s *Session) Generation() uint64 {
	return s.generation
}

// --- МЕНЮ И ПАРТИЯ ---

// BeginCharacterCreation начинает новую игру с пустой партией.
func (s *Session) BeginCharacterCreation() error {
	if err := s.requirePhase(domain.PhaseMenu, domain.PhaseGameOver); err != nil {
		return err
	}
	s.clearGame()
	s.Phase = domain.PhaseCharacterCreation
	return nil
}

// AddCharacter создает персонажа и добавляет его в партию.
func (s *Session) AddCharacter(name, class string) (*domain.Character, error) {
	if err := s.requirePhase(domain.PhaseCharacterCreation); err != nil {
		return nil, err
	}
	cls, err := domain.ParseClass(class)
	if err != nil {
		return nil, err
	}
	if s.Party.Size() >= domain.MaxPartySize {
		return nil, domain.ErrPartyFull
	}
	c, err := systems.CreateCharacter(name, cls)
	if err != nil {
		return nil, err
	}
	if err := s.Party.Add(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveCharacter убирает персонажа на этапе создания партии.
func (s *Session) RemoveCharacter(id string) error {
	if err := s.requirePhase(domain.PhaseCharacterCreation); err != nil {
		return err
	}
	return s.Party.Remove(id)
}

// SelectCharacter меняет активного персонажа.
func (s *Session) SelectCharacter(id string) error {
	if err := s.requirePhase(domain.PhaseCharacterCreation, domain.PhaseExploration, domain.PhaseInventory, domain.PhaseCombat); err != nil {
		return err
	}
	return s.Party.SetActive(id)
}

// StartGame строит подземелье и ставит партию на старт.
func (s *Session) StartGame() error {
	if err := s.requirePhase(domain.PhaseCharacterCreation); err != nil {
		return err
	}
	if s.Party.Size() == 0 {
		return domain.ErrPartyEmpty
	}

	s.Grid = dungeon.Generate(s.rng)
	s.Player = domain.NewPlayerState(dungeon.StartPosition, domain.North)
	s.Explored = map[domain.Position]bool{dungeon.StartPosition: true}
	s.DungeonLevel = 1
	s.Encounter = nil
	s.Phase = domain.PhaseExploration

	s.log.WithField("party_size", s.Party.Size()).Info("Game started.")
	return nil
}

// Reset возвращает в главное меню и отменяет бой.
func (s *Session) Reset() {
	s.clearGame()
	s.Phase = domain.PhaseMenu
}

func (s *Session) clearGame() {
	s.Party = domain.Party{}
	s.Inventory = domain.Inventory{}
	s.Grid = nil
	s.Player = domain.PlayerState{}
	s.Explored = make(map[domain.Position]bool)
	s.Encounter = nil
	s.DungeonLevel = 0
	s.SaveID = 0
	s.SaveName = ""
	s.generation++
	s.bumpSeq()
}

// --- ИССЛЕДОВАНИЕ ---

// MoveReport - что случилось после шага.
type MoveReport struct {
	Moved   bool
	Turned  bool
	Enemy   *domain.Enemy // начался бой
	Item    *domain.Item  // подобран предмет
	Message string
}

// Move применяет намерение. Недопустимый шаг не меняет состояние.
func (s *Session) Move(intent systems.MoveIntent) (MoveReport, error) {
	if err := s.requirePhase(domain.PhaseExploration); err != nil {
		return MoveReport{}, err
	}
	if intent == systems.MoveUnknown {
		return MoveReport{}, fmt.Errorf("unknown move intent: %w", domain.ErrInvalidMove)
	}

	res := systems.CalculateMove(s.Grid, s.Player, intent)
	if res.IsWall {
		s.log.WithField("pos", res.State.Position).Debug("Move rejected.")
		return MoveReport{}, domain.ErrInvalidMove
	}

	s.Player = res.State
	report := MoveReport{Moved: res.HasMoved, Turned: res.Turned}
	if !res.HasMoved {
		return report, nil
	}

	s.Explored[s.Player.Position] = true
	cell, _ := s.Grid.Cell(s.Player.Position)

	if cell.HasEnemy && cell.Enemy != nil && cell.Enemy.IsAlive {
		s.startEncounter(cell.Enemy)
		report.Enemy = cell.Enemy
		report.Message = fmt.Sprintf("На пути %s! Бой начинается.", cell.Enemy.Name)
		return report, nil
	}

	if cell.HasItem {
		item, err := systems.TryPickup(cell, &s.Inventory)
		if err == nil {
			report.Item = item
			report.Message = fmt.Sprintf("Найден предмет: %s.", item.Name)
		}
	}
	return report, nil
}

// Interact подбирает предмет в текущей клетке.
func (s *Session) Interact() (*domain.Item, error) {
	if err := s.requirePhase(domain.PhaseExploration); err != nil {
		return nil, err
	}
	cell, _ := s.Grid.Cell(s.Player.Position)
	return systems.TryPickup(cell, &s.Inventory)
}

// OpenInventory переключает в экран инвентаря.
func (s *Session) OpenInventory() error {
	if err := s.requirePhase(domain.PhaseExploration); err != nil {
		return err
	}
	s.Phase = domain.PhaseInventory
	return nil
}

// CloseInventory возвращает к исследованию.
func (s *Session) CloseInventory() error {
	if err := s.requirePhase(domain.PhaseInventory); err != nil {
		return err
	}
	s.Phase = domain.PhaseExploration
	return nil
}

func (s *Session) memberOrActive(id string) (*domain.Character, error) {
	if id == "" {
		if c := s.Party.Active(); c != nil {
			return c, nil
		}
		return nil, domain.ErrPartyEmpty
	}
	c, ok := s.Party.Find(id)
	if !ok {
		return nil, fmt.Errorf("character %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

// EquipItem надевает предмет из инвентаря на персонажа (по умолчанию активного).
func (s *Session) EquipItem(characterID, itemID string) (string, error) {
	if err := s.requirePhase(domain.PhaseExploration, domain.PhaseInventory); err != nil {
		return "", err
	}
	c, err := s.memberOrActive(characterID)
	if err != nil {
		return "", err
	}
	item, ok := s.Inventory.Find(itemID)
	if !ok {
		return "", fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	return systems.EquipItem(c, item)
}

// UseItem применяет зелье вне боя. Использованное зелье исчезает.
func (s *Session) UseItem(characterID, itemID string) (string, error) {
	if err := s.requirePhase(domain.PhaseExploration, domain.PhaseInventory); err != nil {
		return "", err
	}
	c, err := s.memberOrActive(characterID)
	if err != nil {
		return "", err
	}
	item, ok := s.Inventory.Find(itemID)
	if !ok {
		return "", fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	msg, err := systems.UseItem(c, item)
	if err != nil {
		return "", err
	}
	s.Inventory.Remove(item.ID)
	return msg, nil
}

// --- БОЙ ---

func (s *Session) startEncounter(enemy *domain.Enemy) {
	seq := s.bumpSeq()
	s.Encounter = NewEncounter(seq, enemy.ID, s.rng)
	s.Phase = domain.PhaseCombat
	s.log.WithFields(logrus.Fields{"enemy_id": enemy.ID, "seq": seq}).Info("Encounter started.")
}

// CurrentEnemy возвращает врага текущего боя.
func (s *Session) CurrentEnemy() *domain.Enemy {
	if s.Encounter == nil || s.Grid == nil {
		return nil
	}
	e, _ := s.Grid.FindEnemy(s.Encounter.EnemyID)
	return e
}

func (s *Session) combatView() CombatView {
	party := make([]*domain.Character, len(s.Party.Members))
	for i, m := range s.Party.Members {
		party[i] = m.Clone()
	}
	return CombatView{
		Party:     party,
		Enemy:     s.CurrentEnemy().Clone(),
		Inventory: s.Inventory.Clone().Items,
	}
}

// CombatAction выполняет ход персонажа. Пустой ActorID - активный персонаж.
func (s *Session) CombatAction(act PlayerAction) (Outcome, []string, error) {
	if err := s.requirePhase(domain.PhaseCombat); err != nil {
		return Outcome{}, nil, err
	}
	if s.Encounter == nil {
		return Outcome{}, nil, domain.ErrEncounterOver
	}
	if act.ActorID == "" {
		if c := s.Party.Active(); c != nil {
			act.ActorID = c.ID
		}
	}

	out, err := s.Encounter.PlayerAct(s.combatView(), act)
	if err != nil {
		return Outcome{}, nil, err
	}
	extra := s.applyEffects(out.Effects)
	return out, extra, nil
}

// EnemyTurn выполняет ход врага, если таймер относится к текущей стычке.
// Устаревший таймер возвращает ErrEncounterOver и ничего не меняет.
func (s *Session) EnemyTurn(seq uint64) (Outcome, error) {
	if s.Phase != domain.PhaseCombat || s.Encounter == nil || s.Encounter.Seq != seq {
		return Outcome{}, domain.ErrEncounterOver
	}

	out, err := s.Encounter.EnemyAct(s.combatView())
	if err != nil {
		return Outcome{}, err
	}
	s.applyEffects(out.Effects)

	if out.Phase == domain.CombatDefeat {
		s.Phase = domain.PhaseGameOver
		s.bumpSeq()
		s.log.Info("Party defeated, game over.")
	}
	return out, nil
}

// FinishEncounter возвращает к исследованию после победы.
func (s *Session) FinishEncounter(seq uint64) error {
	if s.Phase != domain.PhaseCombat || s.Encounter == nil || s.Encounter.Seq != seq {
		return domain.ErrEncounterOver
	}
	if s.Encounter.Phase != domain.CombatVictory {
		return fmt.Errorf("encounter not won: %w", domain.ErrWrongPhase)
	}
	s.Encounter = nil
	s.Phase = domain.PhaseExploration
	s.bumpSeq()
	return nil
}

// applyEffects применяет изменения боя. Возвращает сообщения о повышении уровня.
func (s *Session) applyEffects(effects []domain.Effect) []string {
	var msgs []string
	for _, eff := range effects {
		switch eff.Kind {
		case domain.EffectDamageEnemy:
			if e, ok := s.Grid.FindEnemy(eff.TargetID); ok {
				e.TakeDamage(eff.Amount)
			}
		case domain.EffectDamageCharacter:
			if c, ok := s.Party.Find(eff.TargetID); ok {
				c.TakeDamage(eff.Amount)
			}
		case domain.EffectHealCharacter:
			if c, ok := s.Party.Find(eff.TargetID); ok {
				c.Heal(eff.Amount)
			}
		case domain.EffectRestoreMana:
			if c, ok := s.Party.Find(eff.TargetID); ok {
				c.RestoreMana(eff.Amount)
			}
		case domain.EffectSpendMana:
			if c, ok := s.Party.Find(eff.TargetID); ok {
				c.SpendMana(eff.Amount)
			}
		case domain.EffectGrantExperience:
			if c, ok := s.Party.Find(eff.TargetID); ok {
				if up, leveled := systems.GainExperience(c, eff.Amount); leveled {
					msgs = append(msgs, fmt.Sprintf("%s достигает уровня %d!", c.Name, up.NewLevel))
				}
			}
		case domain.EffectConsumeItem:
			s.Inventory.Remove(eff.ItemID)
		default:
			s.log.WithField("effect", eff.Kind).Warn("Unknown effect skipped.")
		}
	}
	return msgs
}

// --- СОХРАНЕНИЕ ---

// Snapshot возвращает глубокую копию состояния для хранилища.
func (s *Session) Snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Save: domain.SaveRecord{
			ID:           s.SaveID,
			UserID:       s.UserID,
			SaveName:     s.SaveName,
			DungeonLevel: s.DungeonLevel,
			Player:       s.Player,
			UpdatedAt:    time.Now().UTC(),
		},
		Inventory: s.Inventory.Clone().Items,
		Dungeon: domain.DungeonState{
			Grid:          s.Grid.Clone(),
			ExploredRooms: s.exploredList(),
		},
	}
	for i, m := range s.Party.Members {
		snap.Characters = append(snap.Characters, domain.SavedCharacter{
			Character: *m.Clone(),
			IsActive:  i == s.Party.ActiveIndex,
		})
	}
	return snap
}

func (s *Session) exploredList() []domain.Position {
	out := make([]domain.Position, 0, len(s.Explored))
	for p := range s.Explored {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Z < out[j].Z
	})
	return out
}

// CanSave - сохраняться можно только вне боя, когда подземелье построено.
func (s *Session) CanSave() error {
	if s.Grid == nil {
		return fmt.Errorf("no game in progress: %w", domain.ErrWrongPhase)
	}
	return s.requirePhase(domain.PhaseExploration, domain.PhaseInventory)
}

// Restore атомарно заменяет состояние снимком. Невалидный снимок ничего не меняет.
func (s *Session) Restore(snap domain.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	party := domain.Party{}
	for i, sc := range snap.Characters {
		c := sc.Character
		party.Members = append(party.Members, c.Clone())
		if sc.IsActive {
			party.ActiveIndex = i
		}
	}
	inv := domain.Inventory{Items: snap.Inventory}
	explored := make(map[domain.Position]bool, len(snap.Dungeon.ExploredRooms)+1)
	for _, p := range snap.Dungeon.ExploredRooms {
		explored[p] = true
	}

	// Дальше ошибок нет, состояние заменяется целиком
	s.Party = party
	s.Inventory = *inv.Clone()
	s.Grid = snap.Dungeon.Grid.Clone()
	s.Player = domain.NewPlayerState(snap.Save.Player.Position, snap.Save.Player.Facing)
	s.Explored = explored
	s.Explored[s.Player.Position] = true
	s.DungeonLevel = snap.Save.DungeonLevel
	s.SaveID = snap.Save.ID
	s.SaveName = snap.Save.SaveName
	s.Encounter = nil
	s.generation++
	s.bumpSeq()
	s.Phase = domain.PhaseExploration
	if s.Party.AllFallen() {
		s.Phase = domain.PhaseGameOver
	}

	s.log.WithField("save_id", s.SaveID).Info("Session restored.")
	return nil
}
