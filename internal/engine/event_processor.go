package engine

import (
	"context"
	"crawler-server/internal/domain"
	"crawler-server/internal/infrastructure/storage"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// processEvent - точка входа для отложенной работы, возвращенной хендлерами.
func (r *Runner) processEvent(e domain.Event) {
	switch e.Type {
	case domain.EventEnemyTurnDue:
		r.schedule(domain.ActionEnemyTurn, e.Seq, r.Service.cfg.EnemyTurnDelay)
	case domain.EventVictory:
		r.schedule(domain.ActionEndCombat, e.Seq, r.Service.cfg.VictoryDelay)
	case domain.EventSaveRequested:
		r.handleSave(e)
	case domain.EventLoadRequested:
		r.handleLoad(e)
	case domain.EventListSavesRequested:
		r.handleListSaves()
	case domain.EventDeleteRequested:
		r.handleDeleteSave(e)
	default:
		r.log.WithField("event", e.Type).Warn("Unknown event type")
	}
}

// --- ТАЙМЕРЫ БОЯ ---

// schedule планирует внутреннюю команду. Команда несет seq стычки,
// поэтому после сброса или загрузки она будет отброшена сессией.
func (r *Runner) schedule(action domain.ActionType, seq uint64, delay time.Duration) {
	r.stopTimer()
	r.timerSeq = seq
	r.timer = time.AfterFunc(delay, func() {
		r.Submit(domain.InternalCommand{
			Action: action,
			UserID: r.UserID,
			Seq:    seq,
		})
	})
}

func (r *Runner) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// syncTimer гасит таймер, если стычка, для которой он заведен, уже неактуальна.
func (r *Runner) syncTimer() {
	if r.timer != nil && r.timerSeq != r.Session.EncounterSeq() {
		r.log.WithField("seq", r.timerSeq).Debug("Timer cancelled")
		r.stopTimer()
	}
}

// --- ХРАНИЛИЩЕ ---

// runStore выполняет вызов хранилища вне цикла сессии.
// call не трогает Session: он возвращает функцию, которую цикл применит сам.
func (r *Runner) runStore(op string, call func(ctx context.Context) func()) {
	store := r.Service.Store
	timeout := r.Service.cfg.StoreTimeout
	if store == nil {
		r.AddLog("Сохранения недоступны.", domain.LogError)
		return
	}

	r.pending.Add(1)
	go func() {
		defer r.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		apply := call(ctx)

		select {
		case r.results <- apply:
		case <-r.done:
			r.log.WithField("op", op).Debug("Session closed before store result arrived")
		}
	}()
}

func (r *Runner) storeFailed(op string, err error) {
	entry := r.log.WithError(err).WithField("op", op)
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, domain.ErrInvalidSnapshot):
		entry.Info("Store operation rejected")
		r.AddLog(UserMessage(err), domain.LogError)
	default:
		entry.Error("Store operation failed")
		r.AddLog("Хранилище недоступно, попробуйте позже.", domain.LogError)
	}
}

func (r *Runner) handleSave(e domain.Event) {
	store := r.Service.Store
	snap := r.Session.Snapshot()
	gen := r.Session.Generation()
	userID := r.UserID

	r.runStore("save", func(ctx context.Context) func() {
		var rec domain.SaveRecord
		var err error
		if e.SaveID == 0 {
			rec, err = store.CreateSave(ctx, userID, e.SaveName, snap)
		} else {
			snap.Save.SaveName = e.SaveName
			upd := storage.FullUpdate(snap)
			if e.SaveName == "" {
				upd.SaveName = nil
			}
			rec, err = store.UpdateSave(ctx, userID, e.SaveID, upd)
		}

		return func() {
			if err != nil {
				r.storeFailed("save", err)
				return
			}
			// Игру успели сбросить или загрузить другую: слот к ней уже не относится
			if r.Session.Generation() == gen {
				r.Session.SaveID = rec.ID
				r.Session.SaveName = rec.SaveName
			}
			r.log.WithFields(logrus.Fields{"save_id": rec.ID, "save_name": rec.SaveName}).Info("Game saved")
			r.AddLog(fmt.Sprintf("Игра сохранена: %s.", rec.SaveName), domain.LogInfo)
		}
	})
}

func (r *Runner) handleLoad(e domain.Event) {
	store := r.Service.Store
	userID := r.UserID

	r.runStore("load", func(ctx context.Context) func() {
		snap, err := store.LoadSave(ctx, userID, e.SaveID)

		return func() {
			if err != nil {
				r.storeFailed("load", err)
				return
			}
			// Пока шла загрузка, партия могла наткнуться на врага
			if r.Session.Phase == domain.PhaseCombat {
				r.AddLog("Нельзя загрузиться во время боя.", domain.LogError)
				return
			}
			if err := r.Session.Restore(snap); err != nil {
				r.storeFailed("load", err)
				return
			}
			r.AddLog(fmt.Sprintf("Загружено: %s.", snap.Save.SaveName), domain.LogInfo)
			if r.Session.Phase == domain.PhaseGameOver {
				r.AddLog("Партия пала. Игра окончена.", domain.LogInfo)
			}
		}
	})
}

func (r *Runner) handleListSaves() {
	store := r.Service.Store
	userID := r.UserID

	r.runStore("list", func(ctx context.Context) func() {
		saves, err := store.ListSaves(ctx, userID)

		return func() {
			if err != nil {
				r.storeFailed("list", err)
				return
			}
			r.saves = saves
			r.sendSaves = true
		}
	})
}

func (r *Runner) handleDeleteSave(e domain.Event) {
	store := r.Service.Store
	userID := r.UserID

	r.runStore("delete", func(ctx context.Context) func() {
		err := store.DeleteSave(ctx, userID, e.SaveID)

		return func() {
			if err != nil {
				r.storeFailed("delete", err)
				return
			}
			if r.Session.SaveID == e.SaveID {
				r.Session.SaveID = 0
				r.Session.SaveName = ""
			}
			r.AddLog("Сохранение удалено.", domain.LogInfo)
		}
	})
}
