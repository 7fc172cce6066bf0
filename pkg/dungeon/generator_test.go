package dungeon

import (
	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"
	"math/rand"
	"os"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	logger.InitFromEnv()
	os.Exit(m.Run())
}

func TestGenerate(t *testing.T) {
	grid := Generate(rand.New(rand.NewSource(42)))

	// 1. Размер
	if grid.Size != domain.GridSize || len(grid.Cells) != domain.GridSize {
		t.Fatalf("expected %dx%d grid, got size %d", domain.GridSize, domain.GridSize, grid.Size)
	}

	// 2. Старт на полу
	if !grid.IsValidPosition(StartPosition) {
		t.Errorf("start position %v is not floor", StartPosition)
	}

	// 3. Комнаты и коридоры вырезаны
	for _, room := range Layout {
		for x := room.X; x < room.X+room.W; x++ {
			for z := room.Z; z < room.Z+room.H; z++ {
				if grid.Cells[x][z].Type != domain.CellFloor {
					t.Fatalf("room cell (%d,%d) is %s, want floor", x, z, grid.Cells[x][z].Type)
				}
			}
		}
	}
	for _, z := range HCorridorRows {
		for x := 1; x <= domain.GridSize-2; x++ {
			if grid.Cells[x][z].Type != domain.CellFloor {
				t.Fatalf("corridor cell (%d,%d) is not floor", x, z)
			}
		}
	}
	if grid.Cells[0][0].Type != domain.CellWall || grid.Cells[19][19].Type != domain.CellWall {
		t.Error("corners should stay walls")
	}

	// 4. Все клетки пола связаны
	if n := UnreachableFloor(grid, StartPosition); n != 0 {
		t.Errorf("%d floor tiles are unreachable from start", n)
	}
}

func TestGenerate_Enemies(t *testing.T) {
	grid := Generate(rand.New(rand.NewSource(7)))

	enemies := grid.Enemies()
	if len(enemies) != len(EnemySlots) {
		t.Fatalf("expected %d enemies, got %d", len(EnemySlots), len(enemies))
	}

	known := map[string]EnemyTemplate{}
	for _, tpl := range EnemyTemplates {
		known[tpl.Name] = tpl
	}

	for i, slot := range EnemySlots {
		cell := grid.Cells[slot.X][slot.Z]
		if !cell.HasEnemy || cell.Enemy == nil {
			t.Fatalf("slot %v has no enemy", slot)
		}
		e := cell.Enemy
		if want := "enemy_" + string(rune('0'+i)); e.ID != want {
			t.Errorf("enemy id = %s, want %s", e.ID, want)
		}
		tpl, ok := known[e.Name]
		if !ok {
			t.Fatalf("enemy %s does not come from a template", e.Name)
		}
		if e.Health != tpl.Health || e.MaxHealth != tpl.Health || e.Attack != tpl.Attack || e.Defense != tpl.Defense {
			t.Errorf("enemy %s stats do not match template: %+v", e.Name, e)
		}
		if !e.IsAlive || e.Position != slot {
			t.Errorf("enemy %s should be alive at %v", e.ID, slot)
		}
	}
}

func TestGenerate_Items(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		grid := Generate(rand.New(rand.NewSource(seed)))

		count := 0
		for x := 0; x < grid.Size; x++ {
			for z := 0; z < grid.Size; z++ {
				c := grid.Cells[x][z]
				if !c.HasItem {
					continue
				}
				count++
				if c.Type != domain.CellFloor || c.HasEnemy {
					t.Fatalf("seed %d: item on invalid cell (%d,%d)", seed, x, z)
				}
				key := c.Item.ID[:strings.LastIndex(c.Item.ID, "_")]
				if _, ok := ItemTemplates[key]; !ok {
					t.Fatalf("seed %d: item %s is not from the catalog", seed, c.Item.ID)
				}
			}
		}
		if count > MaxItems {
			t.Errorf("seed %d: %d items placed, max is %d", seed, count, MaxItems)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(rand.New(rand.NewSource(99)))
	b := Generate(rand.New(rand.NewSource(99)))

	for x := 0; x < a.Size; x++ {
		for z := 0; z < a.Size; z++ {
			ca, cb := a.Cells[x][z], b.Cells[x][z]
			if ca.Type != cb.Type || ca.HasItem != cb.HasItem || ca.HasEnemy != cb.HasEnemy {
				t.Fatalf("cell (%d,%d) differs between runs with the same seed", x, z)
			}
			if ca.HasEnemy && ca.Enemy.Name != cb.Enemy.Name {
				t.Fatalf("enemy at (%d,%d) differs between runs", x, z)
			}
		}
	}
}

func TestRandomItemIsDetached(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	item := NewItem("iron_sword")
	item.Stats.Attack = 999

	if ItemTemplates["iron_sword"].Stats.Attack != 10 {
		t.Fatal("mutating a spawned item changed the catalog")
	}
	if RandomItem(rng) == nil {
		t.Fatal("RandomItem returned nil")
	}
}

func TestLookupClass(t *testing.T) {
	w := LookupClass(domain.ClassWarrior)
	if w.BaseStats != (domain.Stats{Strength: 15, Intelligence: 8, Defense: 12, Speed: 10}) {
		t.Errorf("warrior base stats = %+v", w.BaseStats)
	}

	m := LookupClass(domain.ClassMage)
	if len(m.Spells) != 2 || m.Spells[0].ID != "fireball" || m.Spells[1].ID != "heal" {
		t.Errorf("mage spells = %+v", m.Spells)
	}

	m.Spells[0].Damage = 0
	if LookupClass(domain.ClassMage).Spells[0].Damage != 25 {
		t.Error("LookupClass must return a copy")
	}

	if _, err := FindSpell(domain.ClassWarrior, "fireball"); err == nil {
		t.Error("warrior should not know fireball")
	}

	defer func() {
		if recover() == nil {
			t.Error("LookupClass should panic on unknown class")
		}
	}()
	LookupClass("rogue")
}
