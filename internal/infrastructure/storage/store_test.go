package storage

import (
	"bytes"
	"context"
	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"
	"errors"
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	logger.InitFromEnv()
	os.Exit(m.Run())
}

func setupSQLiteStore(t *testing.T) SaveStore {
	t.Helper()
	store, err := NewSQLStore(SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func setupFileStore(t *testing.T) SaveStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("open file store: %v", err)
	}
	return store
}

// testSnapshot - минимальный валидный снимок: сетка 4x4, один воин.
func testSnapshot() domain.Snapshot {
	g := domain.NewGrid(4)
	g.Cells[1][1].Type = domain.CellFloor
	g.Cells[1][2].Type = domain.CellFloor
	g.Cells[1][2].HasItem = true
	g.Cells[1][2].Item = &domain.Item{ID: "health_potion_0", Name: "Health Potion", Type: domain.ItemPotion,
		Effect: &domain.ItemEffect{Type: domain.EffectHeal, Value: 50}}

	sword := &domain.Item{ID: "iron_sword", Name: "Iron Sword", Type: domain.ItemWeapon, Rarity: domain.RarityCommon,
		Stats: &domain.ItemStats{Attack: 10}}

	return domain.Snapshot{
		Save: domain.SaveRecord{
			DungeonLevel: 1,
			Player:       domain.NewPlayerState(domain.Position{X: 1, Z: 1}, domain.South),
		},
		Characters: []domain.SavedCharacter{{
			Character: domain.Character{
				ID: "c1", Name: "Borin", Class: domain.ClassWarrior, Level: 2,
				Health: 80, MaxHealth: 120, Mana: 10, MaxMana: 55,
				Experience: 30, ExperienceToNext: 200,
				Stats:     domain.Stats{Strength: 18, Intelligence: 9, Defense: 14, Speed: 11},
				Equipment: domain.Equipment{Weapon: sword},
			},
			IsActive: true,
		}},
		Inventory: []*domain.Item{sword},
		Dungeon: domain.DungeonState{
			Grid:          g,
			ExploredRooms: []domain.Position{{X: 1, Z: 1}},
		},
	}
}

func TestSaveStores(t *testing.T) {
	backends := []struct {
		name  string
		setup func(t *testing.T) SaveStore
	}{
		{"sqlite", setupSQLiteStore},
		{"file", setupFileStore},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			t.Run("create and load", func(t *testing.T) { testCreateLoad(t, b.setup(t)) })
			t.Run("list order", func(t *testing.T) { testListOrder(t, b.setup(t)) })
			t.Run("partial update", func(t *testing.T) { testPartialUpdate(t, b.setup(t)) })
			t.Run("user isolation", func(t *testing.T) { testUserIsolation(t, b.setup(t)) })
			t.Run("delete", func(t *testing.T) { testDelete(t, b.setup(t)) })
		})
	}
}

func testCreateLoad(t *testing.T, store SaveStore) {
	ctx := context.Background()

	rec, err := store.CreateSave(ctx, "alice", "Before the troll", testSnapshot())
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID <= 0 || rec.SaveName != "Before the troll" || rec.UserID != "alice" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	snap, err := store.LoadSave(ctx, "alice", rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if err := snap.Validate(); err != nil {
		t.Fatalf("loaded snapshot invalid: %v", err)
	}

	c := snap.Characters[0]
	if c.ID != "c1" || c.Level != 2 || c.Health != 80 || c.Stats.Strength != 18 || !c.IsActive {
		t.Errorf("character not round-tripped: %+v", c)
	}
	if c.Equipment.Weapon == nil || c.Equipment.Weapon.Stats.Attack != 10 {
		t.Error("equipment lost")
	}
	if len(snap.Inventory) != 1 || snap.Inventory[0].ID != "iron_sword" {
		t.Errorf("inventory = %+v", snap.Inventory)
	}
	if snap.Save.Player.Position != (domain.Position{X: 1, Z: 1}) || snap.Save.Player.Facing != domain.South {
		t.Errorf("player = %+v", snap.Save.Player)
	}
	if snap.Save.Player.Direction != domain.South.Vector() {
		t.Error("direction should be derived from facing")
	}
	cell := snap.Dungeon.Grid.Cells[1][2]
	if !cell.HasItem || cell.Item.ID != "health_potion_0" || cell.Item.Effect.Value != 50 {
		t.Error("grid items lost")
	}
	if len(snap.Dungeon.ExploredRooms) != 1 {
		t.Error("explored rooms lost")
	}
}

func testListOrder(t *testing.T, store SaveStore) {
	ctx := context.Background()

	first, _ := store.CreateSave(ctx, "alice", "first", testSnapshot())
	time.Sleep(5 * time.Millisecond)
	second, _ := store.CreateSave(ctx, "alice", "second", testSnapshot())
	_, _ = store.CreateSave(ctx, "bob", "other", testSnapshot())

	saves, err := store.ListSaves(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(saves) != 2 || saves[0].ID != second.ID {
		t.Fatalf("expected newest first, got %+v", saves)
	}

	// Обновление поднимает слот наверх
	time.Sleep(5 * time.Millisecond)
	name := "first, renamed"
	if _, err := store.UpdateSave(ctx, "alice", first.ID, SaveUpdate{SaveName: &name}); err != nil {
		t.Fatal(err)
	}
	saves, _ = store.ListSaves(ctx, "alice")
	if saves[0].ID != first.ID || saves[0].SaveName != name {
		t.Errorf("updated save should be first, got %+v", saves[0])
	}

	empty, err := store.ListSaves(ctx, "nobody")
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty list, got %v, %v", empty, err)
	}
}

func testPartialUpdate(t *testing.T, store SaveStore) {
	ctx := context.Background()
	rec, _ := store.CreateSave(ctx, "alice", "slot", testSnapshot())

	level := 3
	player := domain.NewPlayerState(domain.Position{X: 1, Z: 2}, domain.East)
	got, err := store.UpdateSave(ctx, "alice", rec.ID, SaveUpdate{DungeonLevel: &level, Player: &player})
	if err != nil {
		t.Fatal(err)
	}
	if got.DungeonLevel != 3 || got.SaveName != "slot" {
		t.Errorf("record = %+v", got)
	}

	snap, _ := store.LoadSave(ctx, "alice", rec.ID)
	if snap.Save.Player.Position != player.Position || snap.Save.Player.Facing != domain.East {
		t.Errorf("position not updated: %+v", snap.Save.Player)
	}
	// Не заданные поля не меняются
	if len(snap.Characters) != 1 || len(snap.Inventory) != 1 {
		t.Error("omitted fields must be kept")
	}

	// Пустой инвентарь очищает
	if _, err := store.UpdateSave(ctx, "alice", rec.ID, SaveUpdate{Inventory: []*domain.Item{}}); err != nil {
		t.Fatal(err)
	}
	snap, _ = store.LoadSave(ctx, "alice", rec.ID)
	if len(snap.Inventory) != 0 {
		t.Errorf("inventory should be empty, got %d", len(snap.Inventory))
	}

	if _, err := store.UpdateSave(ctx, "alice", 9999, SaveUpdate{DungeonLevel: &level}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func testUserIsolation(t *testing.T, store SaveStore) {
	ctx := context.Background()
	rec, _ := store.CreateSave(ctx, "alice", "mine", testSnapshot())

	if _, err := store.LoadSave(ctx, "mallory", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("load: expected ErrNotFound, got %v", err)
	}
	name := "stolen"
	if _, err := store.UpdateSave(ctx, "mallory", rec.ID, SaveUpdate{SaveName: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteSave(ctx, "mallory", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}

	snap, err := store.LoadSave(ctx, "alice", rec.ID)
	if err != nil || snap.Save.SaveName != "mine" {
		t.Errorf("owner's save changed: %+v, %v", snap.Save, err)
	}
}

func testDelete(t *testing.T, store SaveStore) {
	ctx := context.Background()
	rec, _ := store.CreateSave(ctx, "alice", "doomed", testSnapshot())

	if err := store.DeleteSave(ctx, "alice", rec.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadSave(ctx, "alice", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteSave(ctx, "alice", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}

	// ID не переиспользуются, пока есть более новые слоты
	a, _ := store.CreateSave(ctx, "alice", "a", testSnapshot())
	b, _ := store.CreateSave(ctx, "alice", "b", testSnapshot())
	if b.ID <= a.ID {
		t.Errorf("ids must grow: %d then %d", a.ID, b.ID)
	}
}

func TestBinaryCodec(t *testing.T) {
	snap := testSnapshot()
	snap.Save.ID = 42
	snap.Save.UserID = "alice"
	snap.Save.SaveName = "codec"
	snap.Save.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	snap.Save.UpdatedAt = snap.Save.CreatedAt.Add(time.Hour)

	var buf bytes.Buffer
	if err := writeBinary(&buf, &snap); err != nil {
		t.Fatal(err)
	}
	if got := string(buf.Bytes()[:4]); got != MagicHeader {
		t.Fatalf("magic = %q", got)
	}

	got, err := readBinary(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Save.ID != 42 || !got.Save.UpdatedAt.Equal(snap.Save.UpdatedAt) || got.Save.SaveName != "codec" {
		t.Errorf("header fields lost: %+v", got.Save)
	}

	// Битая сигнатура
	bad := append([]byte("XXXX"), buf.Bytes()[4:]...)
	if _, err := readBinary(bytes.NewReader(bad)); err == nil {
		t.Error("expected error for invalid magic")
	}
	// Обрезанный файл
	if _, err := readBinary(bytes.NewReader(buf.Bytes()[:buf.Len()-10])); err == nil {
		t.Error("expected error for truncated body")
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM t WHERE a = ? AND b = ?`
	if got := Postgres.Rebind(q); got != `SELECT * FROM t WHERE a = $1 AND b = $2` {
		t.Errorf("postgres rebind = %q", got)
	}
	if got := SQLite.Rebind(q); got != q {
		t.Errorf("sqlite rebind changed query: %q", got)
	}
}
