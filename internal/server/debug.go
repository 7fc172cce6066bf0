package server

import (
	"crawler-server/internal/engine"
	"net/http"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /debug/sessions", h.handleListSessions)
	mux.HandleFunc("GET /debug/hub", h.handleHubStats)
}

// /debug/sessions - активные сессии: фаза, размер партии, бой.
// Возвращает пустой массив [], а не null, если сессий нет.
func (h *DebugHandler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Sessions())
}

type hubStats struct {
	Subscribers int `json:"subscribers"`
}

// /debug/hub - сколько каналов подписано на рассылку (WebSocket-клиенты и боты).
func (h *DebugHandler) handleHubStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hubStats{Subscribers: h.Service.Hub.SubscriberCount()})
}
