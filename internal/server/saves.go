package server

import (
	"context"
	"crawler-server/internal/auth"
	"crawler-server/internal/domain"
	"crawler-server/internal/infrastructure/storage"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const maxBodySize = 1 << 20

type userHandlerFunc func(w http.ResponseWriter, r *http.Request, userID string)

// requireUser пропускает запрос только с валидным Bearer-токеном.
func (s *Server) requireUser(next userHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.Auth.Verify(auth.BearerToken(r.Header.Get("Authorization")))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, userID)
	}
}

// createSaveRequest - тело POST /api/saves.
type createSaveRequest struct {
	SaveName     string                  `json:"saveName"`
	DungeonLevel int                     `json:"dungeonLevel"`
	Player       domain.PlayerState      `json:"playerPosition"`
	Characters   []domain.SavedCharacter `json:"characters"`
	Inventory    []*domain.Item          `json:"inventory"`
	Dungeon      domain.DungeonState     `json:"dungeonState"`
}

func (req createSaveRequest) snapshot() domain.Snapshot {
	return domain.Snapshot{
		Save: domain.SaveRecord{
			SaveName:     strings.TrimSpace(req.SaveName),
			DungeonLevel: req.DungeonLevel,
			Player:       domain.NewPlayerState(req.Player.Position, req.Player.Facing),
		},
		Characters: req.Characters,
		Inventory:  req.Inventory,
		Dungeon:    req.Dungeon,
	}
}

func validSaveName(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && len(name) <= api.MaxNameLength
}

func parseSaveID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// writeStoreError переводит ошибку хранилища в HTTP-статус.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "save not found")
	case errors.Is(err, domain.ErrInvalidSnapshot):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"component": "saves_api",
			"op":        op,
		}).Error("Store operation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request, userID string) {
	ctx, cancel := context.WithTimeout(r.Context(), s.StoreTimeout)
	defer cancel()

	saves, err := s.Store.ListSaves(ctx, userID)
	if err != nil {
		writeStoreError(w, "list", err)
		return
	}
	out := make([]api.SaveView, 0, len(saves))
	for _, rec := range saves {
		out = append(out, api.SaveView{
			ID:           rec.ID,
			SaveName:     rec.SaveName,
			DungeonLevel: rec.DungeonLevel,
			CreatedAt:    rec.CreatedAt,
			UpdatedAt:    rec.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSave(w http.ResponseWriter, r *http.Request, userID string) {
	var req createSaveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if !validSaveName(req.SaveName) {
		writeError(w, http.StatusBadRequest, "saveName is required")
		return
	}
	snap := req.snapshot()
	if err := snap.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.StoreTimeout)
	defer cancel()

	rec, err := s.Store.CreateSave(ctx, userID, snap.Save.SaveName, snap)
	if err != nil {
		writeStoreError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetSave(w http.ResponseWriter, r *http.Request, userID string) {
	id, ok := parseSaveID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.StoreTimeout)
	defer cancel()

	snap, err := s.Store.LoadSave(ctx, userID, id)
	if err != nil {
		writeStoreError(w, "load", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleUpdateSave применяет частичное обновление. Результат проверяется
// целиком, чтобы слот нельзя было привести в состояние, которое не загрузится.
func (s *Server) handleUpdateSave(w http.ResponseWriter, r *http.Request, userID string) {
	id, ok := parseSaveID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}
	var upd storage.SaveUpdate
	if err := decodeBody(w, r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if upd.IsEmpty() {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if upd.SaveName != nil && !validSaveName(*upd.SaveName) {
		writeError(w, http.StatusBadRequest, "invalid saveName")
		return
	}
	if upd.Player != nil {
		p := domain.NewPlayerState(upd.Player.Position, upd.Player.Facing)
		upd.Player = &p
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.StoreTimeout)
	defer cancel()

	current, err := s.Store.LoadSave(ctx, userID, id)
	if err != nil {
		writeStoreError(w, "update", err)
		return
	}
	upd.Apply(&current)
	if err := current.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := s.Store.UpdateSave(ctx, userID, id, upd)
	if err != nil {
		writeStoreError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request, userID string) {
	id, ok := parseSaveID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid save id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.StoreTimeout)
	defer cancel()

	if err := s.Store.DeleteSave(ctx, userID, id); err != nil {
		writeStoreError(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
