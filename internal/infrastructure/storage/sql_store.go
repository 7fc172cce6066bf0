package storage

import (
	"context"
	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// SQLStore хранит сохранения в четырех таблицах: game_saves и дочерние
// characters, inventory, dungeon_state. Каждая запись - одна транзакция.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	log     *logrus.Entry
}

// NewSQLStore открывает базу, проверяет соединение и создает схему.
func NewSQLStore(d Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if d.Name == SQLite.Name {
		// SQLite не любит параллельных писателей
		db.SetMaxOpenConns(1)
	}

	store := &SQLStore{
		db:      db,
		dialect: d,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "sql_store",
			"dialect":   d.Name,
		}),
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLStore) initSchema() error {
	_, err := s.db.Exec(s.dialect.Schema)
	return err
}

// Close закрывает пул соединений.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) q(query string) string {
	return s.dialect.Rebind(query)
}

// inTx выполняет fn в транзакции. Ошибка fn откатывает все изменения.
func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CreateSave создает слот со всеми дочерними записями.
func (s *SQLStore) CreateSave(ctx context.Context, userID, name string, snap domain.Snapshot) (domain.SaveRecord, error) {
	pos, err := json.Marshal(snap.Save.Player)
	if err != nil {
		return domain.SaveRecord{}, fmt.Errorf("failed to marshal player position: %w", err)
	}
	level := snap.Save.DungeonLevel
	if level <= 0 {
		level = 1
	}

	now := time.Now().UTC()
	rec := domain.SaveRecord{
		UserID:       userID,
		SaveName:     name,
		DungeonLevel: level,
		Player:       snap.Save.Player,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		query := s.q(`
		INSERT INTO game_saves (user_id, save_name, dungeon_level, player_position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)
		if err := tx.QueryRowContext(ctx, query, userID, name, level, string(pos), now, now).Scan(&rec.ID); err != nil {
			return fmt.Errorf("failed to insert save: %w", err)
		}
		if err := s.replaceCharacters(ctx, tx, rec.ID, snap.Characters); err != nil {
			return err
		}
		items := snap.Inventory
		if items == nil {
			items = []*domain.Item{}
		}
		if err := s.replaceInventory(ctx, tx, rec.ID, items); err != nil {
			return err
		}
		if snap.Dungeon.Grid != nil {
			return s.replaceDungeon(ctx, tx, rec.ID, snap.Dungeon)
		}
		return nil
	})
	if err != nil {
		return domain.SaveRecord{}, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "save_id": rec.ID}).Info("Save created.")
	return rec, nil
}

// ListSaves возвращает слоты пользователя, последние измененные - первыми.
func (s *SQLStore) ListSaves(ctx context.Context, userID string) ([]domain.SaveRecord, error) {
	query := s.q(`
	SELECT id, user_id, save_name, dungeon_level, player_position, created_at, updated_at
	FROM game_saves WHERE user_id = ?
	ORDER BY updated_at DESC, id DESC`)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()

	out := make([]domain.SaveRecord, 0)
	for rows.Next() {
		rec, err := scanSave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSave(r rowScanner) (domain.SaveRecord, error) {
	var (
		rec domain.SaveRecord
		pos []byte
	)
	if err := r.Scan(&rec.ID, &rec.UserID, &rec.SaveName, &rec.DungeonLevel, &pos, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SaveRecord{}, ErrNotFound
		}
		return domain.SaveRecord{}, fmt.Errorf("failed to scan save: %w", err)
	}
	if err := json.Unmarshal(pos, &rec.Player); err != nil {
		return domain.SaveRecord{}, fmt.Errorf("failed to unmarshal player position: %w", err)
	}
	rec.Player = domain.NewPlayerState(rec.Player.Position, rec.Player.Facing)
	return rec, nil
}

// queryRower - *sql.DB или *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLStore) getSave(ctx context.Context, q queryRower, userID string, saveID int64) (domain.SaveRecord, error) {
	query := s.q(`
	SELECT id, user_id, save_name, dungeon_level, player_position, created_at, updated_at
	FROM game_saves WHERE id = ? AND user_id = ?`)
	return scanSave(q.QueryRowContext(ctx, query, saveID, userID))
}

// LoadSave собирает полный снимок слота.
func (s *SQLStore) LoadSave(ctx context.Context, userID string, saveID int64) (domain.Snapshot, error) {
	rec, err := s.getSave(ctx, s.db, userID, saveID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap := domain.Snapshot{Save: rec, Inventory: []*domain.Item{}}

	if snap.Characters, err = s.loadCharacters(ctx, saveID); err != nil {
		return domain.Snapshot{}, err
	}

	var items []byte
	err = s.db.QueryRowContext(ctx, s.q(`SELECT items FROM inventory WHERE save_id = ?`), saveID).Scan(&items)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return domain.Snapshot{}, fmt.Errorf("failed to load inventory: %w", err)
	default:
		if err := json.Unmarshal(items, &snap.Inventory); err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to unmarshal inventory: %w", err)
		}
	}

	var grid, explored []byte
	err = s.db.QueryRowContext(ctx, s.q(`SELECT dungeon_data, explored_rooms FROM dungeon_state WHERE save_id = ?`), saveID).Scan(&grid, &explored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return domain.Snapshot{}, fmt.Errorf("failed to load dungeon: %w", err)
	default:
		if err := json.Unmarshal(grid, &snap.Dungeon.Grid); err != nil {
			return domain.Snapshot{}, fmt.Errorf("failed to unmarshal dungeon: %w", err)
		}
		if len(explored) > 0 {
			if err := json.Unmarshal(explored, &snap.Dungeon.ExploredRooms); err != nil {
				return domain.Snapshot{}, fmt.Errorf("failed to unmarshal explored rooms: %w", err)
			}
		}
	}

	return snap, nil
}

func (s *SQLStore) loadCharacters(ctx context.Context, saveID int64) ([]domain.SavedCharacter, error) {
	query := s.q(`
	SELECT character_id, name, class, level, health, max_health, mana, max_mana,
		experience, experience_to_next, stats, equipment, is_active
	FROM characters WHERE save_id = ? ORDER BY slot`)

	rows, err := s.db.QueryContext(ctx, query, saveID)
	if err != nil {
		return nil, fmt.Errorf("failed to load characters: %w", err)
	}
	defer rows.Close()

	var out []domain.SavedCharacter
	for rows.Next() {
		var (
			c         domain.SavedCharacter
			class     string
			stats, eq []byte
		)
		err := rows.Scan(&c.ID, &c.Name, &class, &c.Level, &c.Health, &c.MaxHealth, &c.Mana, &c.MaxMana,
			&c.Experience, &c.ExperienceToNext, &stats, &eq, &c.IsActive)
		if err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		c.Class = domain.CharacterClass(class)
		if err := json.Unmarshal(stats, &c.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
		}
		if len(eq) > 0 {
			if err := json.Unmarshal(eq, &c.Equipment); err != nil {
				return nil, fmt.Errorf("failed to unmarshal equipment: %w", err)
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateSave меняет только заданные поля. Дочерние записи заменяются целиком.
func (s *SQLStore) UpdateSave(ctx context.Context, userID string, saveID int64, upd SaveUpdate) (domain.SaveRecord, error) {
	var rec domain.SaveRecord

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		cur, err := s.getSave(ctx, tx, userID, saveID)
		if err != nil {
			return err
		}

		if upd.SaveName != nil {
			cur.SaveName = *upd.SaveName
		}
		if upd.DungeonLevel != nil {
			cur.DungeonLevel = *upd.DungeonLevel
		}
		if upd.Player != nil {
			cur.Player = *upd.Player
		}
		cur.UpdatedAt = time.Now().UTC()

		pos, err := json.Marshal(cur.Player)
		if err != nil {
			return fmt.Errorf("failed to marshal player position: %w", err)
		}
		query := s.q(`
		UPDATE game_saves SET save_name = ?, dungeon_level = ?, player_position = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`)
		if _, err := tx.ExecContext(ctx, query, cur.SaveName, cur.DungeonLevel, string(pos), cur.UpdatedAt, saveID, userID); err != nil {
			return fmt.Errorf("failed to update save: %w", err)
		}

		if upd.Characters != nil {
			if err := s.replaceCharacters(ctx, tx, saveID, upd.Characters); err != nil {
				return err
			}
		}
		if upd.Inventory != nil {
			if err := s.replaceInventory(ctx, tx, saveID, upd.Inventory); err != nil {
				return err
			}
		}
		if upd.Dungeon != nil {
			if err := s.replaceDungeon(ctx, tx, saveID, *upd.Dungeon); err != nil {
				return err
			}
		}

		rec = cur
		return nil
	})
	if err != nil {
		return domain.SaveRecord{}, err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "save_id": saveID}).Info("Save updated.")
	return rec, nil
}

// DeleteSave удаляет слот вместе с дочерними записями.
func (s *SQLStore) DeleteSave(ctx context.Context, userID string, saveID int64) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.getSave(ctx, tx, userID, saveID); err != nil {
			return err
		}
		for _, table := range []string{"characters", "inventory", "dungeon_state"} {
			if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM `+table+` WHERE save_id = ?`), saveID); err != nil {
				return fmt.Errorf("failed to delete %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM game_saves WHERE id = ? AND user_id = ?`), saveID, userID); err != nil {
			return fmt.Errorf("failed to delete save: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "save_id": saveID}).Info("Save deleted.")
	return nil
}

func (s *SQLStore) replaceCharacters(ctx context.Context, tx *sql.Tx, saveID int64, chars []domain.SavedCharacter) error {
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM characters WHERE save_id = ?`), saveID); err != nil {
		return fmt.Errorf("failed to clear characters: %w", err)
	}

	query := s.q(`
	INSERT INTO characters (save_id, slot, character_id, name, class, level, health, max_health, mana, max_mana,
		experience, experience_to_next, stats, equipment, is_active)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for slot, c := range chars {
		stats, err := json.Marshal(c.Stats)
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		eq, err := json.Marshal(c.Equipment)
		if err != nil {
			return fmt.Errorf("failed to marshal equipment: %w", err)
		}
		_, err = tx.ExecContext(ctx, query, saveID, slot, c.ID, c.Name, string(c.Class), c.Level,
			c.Health, c.MaxHealth, c.Mana, c.MaxMana, c.Experience, c.ExperienceToNext,
			string(stats), string(eq), c.IsActive)
		if err != nil {
			return fmt.Errorf("failed to insert character: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) replaceInventory(ctx context.Context, tx *sql.Tx, saveID int64, items []*domain.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM inventory WHERE save_id = ?`), saveID); err != nil {
		return fmt.Errorf("failed to clear inventory: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO inventory (save_id, items) VALUES (?, ?)`), saveID, string(data)); err != nil {
		return fmt.Errorf("failed to insert inventory: %w", err)
	}
	return nil
}

func (s *SQLStore) replaceDungeon(ctx context.Context, tx *sql.Tx, saveID int64, d domain.DungeonState) error {
	grid, err := json.Marshal(d.Grid)
	if err != nil {
		return fmt.Errorf("failed to marshal dungeon: %w", err)
	}
	explored, err := json.Marshal(d.ExploredRooms)
	if err != nil {
		return fmt.Errorf("failed to marshal explored rooms: %w", err)
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM dungeon_state WHERE save_id = ?`), saveID); err != nil {
		return fmt.Errorf("failed to clear dungeon: %w", err)
	}
	query := s.q(`INSERT INTO dungeon_state (save_id, dungeon_data, explored_rooms) VALUES (?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, query, saveID, string(grid), string(explored)); err != nil {
		return fmt.Errorf("failed to insert dungeon: %w", err)
	}
	return nil
}
