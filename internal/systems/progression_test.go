package systems

import (
	"crawler-server/internal/domain"
	"errors"
	"testing"
)

func TestCreateCharacter(t *testing.T) {
	tests := []struct {
		class domain.CharacterClass
		stats domain.Stats
	}{
		{domain.ClassWarrior, domain.Stats{Strength: 15, Intelligence: 8, Defense: 12, Speed: 10}},
		{domain.ClassMage, domain.Stats{Strength: 8, Intelligence: 15, Defense: 8, Speed: 12}},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			c, err := CreateCharacter("  Aria ", tt.class)
			if err != nil {
				t.Fatal(err)
			}
			if c.Name != "Aria" || c.Level != 1 || c.Health != 100 || c.MaxHealth != 100 ||
				c.Mana != 50 || c.MaxMana != 50 || c.Experience != 0 || c.ExperienceToNext != 100 {
				t.Errorf("unexpected starting values: %+v", c)
			}
			if c.Stats != tt.stats {
				t.Errorf("stats = %+v, want %+v", c.Stats, tt.stats)
			}
			if c.ID == "" || c.Equipment.Weapon != nil || c.Equipment.Armor != nil {
				t.Error("expected fresh id and empty equipment")
			}
		})
	}

	if _, err := CreateCharacter("   ", domain.ClassMage); !errors.Is(err, domain.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestGainExperience(t *testing.T) {
	w := newTestWarrior("w")

	if _, up := GainExperience(w, 99); up {
		t.Fatal("99 experience should not level up")
	}

	report, up := GainExperience(w, 1)
	if !up || report.NewLevel != 2 {
		t.Fatalf("expected level-up to 2, got %+v (%v)", report, up)
	}
	if w.ExperienceToNext != 200 || w.MaxHealth != 120 || w.Health != 120 || w.MaxMana != 55 || w.Mana != 55 {
		t.Errorf("unexpected warrior after level-up: %+v", w)
	}
	if w.Stats != (domain.Stats{Strength: 18, Intelligence: 9, Defense: 14, Speed: 11}) {
		t.Errorf("warrior stats = %+v", w.Stats)
	}

	m := newTestMage("m")
	m.Health = 10
	GainExperience(m, 150)
	if m.Level != 2 || m.MaxMana != 65 || m.Health != 120 {
		t.Errorf("unexpected mage after level-up: %+v", m)
	}
	if m.Stats.Intelligence != 18 || m.Stats.Strength != 9 {
		t.Errorf("mage stats = %+v", m.Stats)
	}

	// Одно начисление - максимум один уровень
	big := newTestWarrior("big")
	GainExperience(big, 1000)
	if big.Level != 2 || big.Experience != 1000 {
		t.Errorf("expected single level-up keeping experience, got level %d exp %d", big.Level, big.Experience)
	}

	// Опыт не убывает
	before := big.Experience
	GainExperience(big, -50)
	if big.Experience != before {
		t.Error("negative award must be ignored")
	}
}

func TestEquipAndUseItem(t *testing.T) {
	c := newTestWarrior("w")

	sword := &domain.Item{ID: "s", Name: "Iron Sword", Type: domain.ItemWeapon, Stats: &domain.ItemStats{Attack: 10}}
	if _, err := EquipItem(c, sword); err != nil || c.Equipment.Weapon != sword {
		t.Fatalf("weapon not equipped: %v", err)
	}

	mail := &domain.Item{ID: "a", Name: "Chain Mail", Type: domain.ItemArmor, Stats: &domain.ItemStats{Defense: 5}}
	if _, err := EquipItem(c, mail); err != nil || c.Equipment.Armor != mail || c.Equipment.Weapon != sword {
		t.Fatalf("armor not equipped: %v", err)
	}

	potion := &domain.Item{ID: "p", Name: "Health Potion", Type: domain.ItemPotion, Effect: &domain.ItemEffect{Type: domain.EffectHeal, Value: 50}}
	if _, err := EquipItem(c, potion); !errors.Is(err, domain.ErrNotEquippable) {
		t.Errorf("expected ErrNotEquippable, got %v", err)
	}

	c.Health = 80
	if _, err := UseItem(c, potion); err != nil {
		t.Fatal(err)
	}
	if c.Health != 100 {
		t.Errorf("health = %d, want clamp at 100", c.Health)
	}

	if _, err := UseItem(c, sword); !errors.Is(err, domain.ErrNotUsable) {
		t.Errorf("expected ErrNotUsable, got %v", err)
	}

	c.Health = 0
	if _, err := UseItem(c, potion); err == nil {
		t.Error("fallen character cannot be healed")
	}
}

func TestTryPickup(t *testing.T) {
	cell := &domain.DungeonCell{X: 1, Z: 2, Type: domain.CellFloor, HasItem: true, Item: &domain.Item{ID: "i"}}
	inv := &domain.Inventory{}

	item, err := TryPickup(cell, inv)
	if err != nil || item.ID != "i" {
		t.Fatalf("pickup failed: %v", err)
	}
	if cell.HasItem || cell.Item != nil {
		t.Error("cell should be cleared")
	}
	if len(inv.Items) != 1 {
		t.Error("item should be in inventory")
	}
	if _, err := TryPickup(cell, inv); !errors.Is(err, domain.ErrNotFound) {
		t.Error("second pickup should fail")
	}
}
