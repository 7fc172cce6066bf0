package engine

import (
	"crawler-server/internal/domain"
	"crawler-server/internal/game"
	"crawler-server/pkg/api"
	"crawler-server/pkg/dungeon"
	"sort"
)

// BuildState создает снимок сессии для клиента.
// Клетки, которые партия еще не видела, в ответ не попадают.
func BuildState(s *game.Session, logs []api.LogEntry) api.ServerResponse {
	// Копия логов, чтобы буфер Runner можно было сразу переиспользовать
	logsCopy := make([]api.LogEntry, len(logs))
	copy(logsCopy, logs)

	resp := api.ServerResponse{
		Type:  api.TypeUpdate,
		Phase: string(s.Phase),
		Logs:  logsCopy,
	}

	// 1. Партия
	for _, c := range s.Party.Members {
		resp.Party = append(resp.Party, characterView(c, s.Encounter))
	}
	if active := s.Party.Active(); active != nil {
		resp.ActiveCharacterID = active.ID
	}

	// 2. Инвентарь
	for _, it := range s.Inventory.Items {
		resp.Inventory = append(resp.Inventory, *itemView(it))
	}

	// 3. Экран создания: описания классов
	if s.Phase == domain.PhaseCharacterCreation {
		for _, cls := range dungeon.Classes() {
			resp.Classes = append(resp.Classes, classView(cls))
		}
	}

	// 4. Карта (только исследованные клетки)
	if s.Grid != nil {
		resp.Player = &api.PlayerView{
			X:            s.Player.Position.X,
			Z:            s.Player.Position.Z,
			Facing:       s.Player.Facing.String(),
			DungeonLevel: s.DungeonLevel,
		}
		resp.Grid = &api.GridMeta{Size: s.Grid.Size}
		resp.Map = exploredTiles(s)
	}

	// 5. Бой
	if s.Encounter != nil {
		cv := &api.CombatView{
			Phase:      string(s.Encounter.Phase),
			PlayerTurn: s.Encounter.PlayerTurn,
			Round:      s.Encounter.Round,
		}
		if e := s.CurrentEnemy(); e != nil {
			cv.Enemy = api.EnemyView{
				ID:        e.ID,
				Name:      e.Name,
				Health:    e.Health,
				MaxHealth: e.MaxHealth,
				Attack:    e.Attack,
				Defense:   e.Defense,
				IsAlive:   e.IsAlive,
			}
		}
		resp.Combat = cv
	}

	return resp
}

func exploredTiles(s *game.Session) []api.TileView {
	positions := make([]domain.Position, 0, len(s.Explored))
	for p := range s.Explored {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].X != positions[j].X {
			return positions[i].X < positions[j].X
		}
		return positions[i].Z < positions[j].Z
	})

	tiles := make([]api.TileView, 0, len(positions))
	for _, p := range positions {
		cell, ok := s.Grid.Cell(p)
		if !ok {
			continue
		}
		tiles = append(tiles, api.TileView{
			X:        cell.X,
			Z:        cell.Z,
			Type:     string(cell.Type),
			HasEnemy: cell.HasEnemy && cell.Enemy != nil && cell.Enemy.IsAlive,
			HasItem:  cell.HasItem,
		})
	}
	return tiles
}

func statsView(st domain.Stats) api.StatsView {
	return api.StatsView{
		Strength:     st.Strength,
		Intelligence: st.Intelligence,
		Defense:      st.Defense,
		Speed:        st.Speed,
	}
}

func characterView(c *domain.Character, enc *game.Encounter) api.CharacterView {
	view := api.CharacterView{
		ID:               c.ID,
		Name:             c.Name,
		Class:            string(c.Class),
		Level:            c.Level,
		Health:           c.Health,
		MaxHealth:        c.MaxHealth,
		Mana:             c.Mana,
		MaxMana:          c.MaxMana,
		Experience:       c.Experience,
		ExperienceToNext: c.ExperienceToNext,
		Stats:            statsView(c.Stats),
		IsAlive:          c.IsAlive(),
	}
	if c.Equipment.Weapon != nil || c.Equipment.Armor != nil {
		view.Equipment = &api.EquipmentView{
			Weapon: itemView(c.Equipment.Weapon),
			Armor:  itemView(c.Equipment.Armor),
		}
	}
	if enc != nil {
		view.IsDefending = enc.IsDefending(c.ID)
	}
	return view
}

func itemView(it *domain.Item) *api.ItemView {
	if it == nil {
		return nil
	}
	view := &api.ItemView{
		ID:     it.ID,
		Name:   it.Name,
		Type:   string(it.Type),
		Rarity: string(it.Rarity),
	}
	if it.Stats != nil {
		view.Attack = it.Stats.Attack
		view.Defense = it.Stats.Defense
		view.HealthBonus = it.Stats.HealthBonus
		view.ManaBonus = it.Stats.ManaBonus
	}
	if it.Effect != nil {
		view.Effect = string(it.Effect.Type)
		view.EffectValue = it.Effect.Value
	}
	return view
}

func classView(cls domain.CharacterClass) api.ClassView {
	info := dungeon.LookupClass(cls)
	view := api.ClassView{
		ID:          string(cls),
		Name:        info.DisplayName,
		Description: info.Description,
		Stats:       statsView(info.BaseStats),
	}
	for _, sp := range info.Spells {
		view.Spells = append(view.Spells, api.SpellView{
			ID:       sp.ID,
			Name:     sp.Name,
			ManaCost: sp.ManaCost,
			Damage:   sp.Damage,
			Healing:  sp.Healing,
			Target:   string(sp.TargetType),
		})
	}
	return view
}

func saveViews(saves []domain.SaveRecord) []api.SaveView {
	out := make([]api.SaveView, 0, len(saves))
	for _, s := range saves {
		out = append(out, api.SaveView{
			ID:           s.ID,
			SaveName:     s.SaveName,
			DungeonLevel: s.DungeonLevel,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	return out
}
