package storage

import (
	"context"
	"crawler-server/internal/domain"
	"crawler-server/pkg/logger"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const saveFileExt = ".cdsv"

// FileStore хранит каждый слот отдельным бинарным файлом save_<user>_<id>.cdsv.
// Подходит для локальной игры без базы данных.
type FileStore struct {
	SaveDir string

	mu  sync.Mutex
	log *logrus.Entry
}

func NewFileStore(dir string) (*FileStore, error) {
	// Создаем папку если нет
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create save dir: %w", err)
	}
	return &FileStore{
		SaveDir: dir,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "file_store",
			"dir":       dir,
		}),
	}, nil
}

// userKey - безопасное для имени файла представление ID пользователя.
func userKey(userID string) string {
	return hex.EncodeToString([]byte(userID))
}

func (s *FileStore) path(userID string, saveID int64) string {
	return filepath.Join(s.SaveDir, fmt.Sprintf("save_%s_%d%s", userKey(userID), saveID, saveFileExt))
}

func (s *FileStore) read(path string) (*domain.Snapshot, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(f)
}

// write пишет во временный файл и переименовывает, чтобы не оставить обрезанный слот.
func (s *FileStore) write(path string, snap *domain.Snapshot) error {
	tmp, err := os.CreateTemp(s.SaveDir, "save-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := writeBinary(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// nextID - максимальный ID среди всех файлов каталога плюс один.
func (s *FileStore) nextID() (int64, error) {
	matches, err := filepath.Glob(filepath.Join(s.SaveDir, "save_*"+saveFileExt))
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, m := range matches {
		name := strings.TrimSuffix(filepath.Base(m), saveFileExt)
		idx := strings.LastIndexByte(name, '_')
		if idx < 0 {
			continue
		}
		id, err := strconv.ParseInt(name[idx+1:], 10, 64)
		if err != nil {
			continue
		}
		maxID = max(maxID, id)
	}
	return maxID + 1, nil
}

func (s *FileStore) CreateSave(_ context.Context, userID, name string, snap domain.Snapshot) (domain.SaveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.nextID()
	if err != nil {
		return domain.SaveRecord{}, fmt.Errorf("failed to allocate save id: %w", err)
	}

	now := time.Now().UTC()
	snap.Save.ID = id
	snap.Save.UserID = userID
	snap.Save.SaveName = name
	snap.Save.CreatedAt = now
	snap.Save.UpdatedAt = now
	if snap.Save.DungeonLevel <= 0 {
		snap.Save.DungeonLevel = 1
	}
	if snap.Inventory == nil {
		snap.Inventory = []*domain.Item{}
	}

	if err := s.write(s.path(userID, id), &snap); err != nil {
		return domain.SaveRecord{}, fmt.Errorf("failed to write save: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "save_id": id}).Info("Save created.")
	return snap.Save, nil
}

func (s *FileStore) ListSaves(_ context.Context, userID string) ([]domain.SaveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.SaveDir, "save_"+userKey(userID)+"_*"+saveFileExt))
	if err != nil {
		return nil, err
	}

	out := make([]domain.SaveRecord, 0, len(matches))
	for _, m := range matches {
		snap, err := s.read(m)
		if err != nil {
			s.log.WithError(err).WithField("file", m).Warn("Skipping unreadable save file.")
			continue
		}
		if snap.Save.UserID != userID {
			continue
		}
		out = append(out, snap.Save)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *FileStore) load(userID string, saveID int64) (*domain.Snapshot, error) {
	snap, err := s.read(s.path(userID, saveID))
	if err != nil {
		return nil, err
	}
	if snap.Save.UserID != userID {
		return nil, ErrNotFound
	}
	return snap, nil
}

func (s *FileStore) LoadSave(_ context.Context, userID string, saveID int64) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(userID, saveID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return *snap, nil
}

func (s *FileStore) UpdateSave(_ context.Context, userID string, saveID int64, upd SaveUpdate) (domain.SaveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(userID, saveID)
	if err != nil {
		return domain.SaveRecord{}, err
	}

	upd.Apply(snap)
	snap.Save.ID = saveID
	snap.Save.UserID = userID
	snap.Save.UpdatedAt = time.Now().UTC()

	if err := s.write(s.path(userID, saveID), snap); err != nil {
		return domain.SaveRecord{}, fmt.Errorf("failed to write save: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "save_id": saveID}).Info("Save updated.")
	return snap.Save, nil
}

func (s *FileStore) DeleteSave(_ context.Context, userID string, saveID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(userID, saveID); err != nil {
		return err
	}
	if err := os.Remove(s.path(userID, saveID)); err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "save_id": saveID}).Info("Save deleted.")
	return nil
}

// Close - файловому хранилищу нечего освобождать.
func (s *FileStore) Close() error {
	return nil
}
