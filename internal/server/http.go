package server

import (
	"context"
	"crawler-server/internal/auth"
	"crawler-server/internal/engine"
	"crawler-server/internal/infrastructure/storage"
	"crawler-server/internal/version"
	"crawler-server/pkg/logger"
	"encoding/json"
	"errors"
	"net/http"
	_ "net/http/pprof" // Profiling
	"time"
)

// defaultStoreTimeout - лимит на вызов хранилища, если Options его не задают.
const defaultStoreTimeout = 5 * time.Second

// Options - настройки HTTP-слоя.
type Options struct {
	Port string
	// StoreTimeout ограничивает каждый вызов хранилища из REST-обработчиков.
	StoreTimeout time.Duration
	// Debug включает /debug/sessions, /debug/hub и pprof.
	Debug bool
}

type Server struct {
	Engine       *engine.GameService
	Store        storage.SaveStore
	Auth         *auth.Authenticator
	Port         string
	StoreTimeout time.Duration
	Debug        bool

	httpServer *http.Server
}

func New(engine *engine.GameService, store storage.SaveStore, authn *auth.Authenticator, opts Options) *Server {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	return &Server{
		Engine:       engine,
		Store:        store,
		Auth:         authn,
		Port:         opts.Port,
		StoreTimeout: opts.StoreTimeout,
		Debug:        opts.Debug,
	}
}

// Handler собирает все роуты сервера.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /version", s.handleVersion)

	// REST сохранений
	mux.HandleFunc("GET /api/saves", s.requireUser(s.handleListSaves))
	mux.HandleFunc("POST /api/saves", s.requireUser(s.handleCreateSave))
	mux.HandleFunc("GET /api/saves/{id}", s.requireUser(s.handleGetSave))
	mux.HandleFunc("PUT /api/saves/{id}", s.requireUser(s.handleUpdateSave))
	mux.HandleFunc("DELETE /api/saves/{id}", s.requireUser(s.handleDeleteSave))

	// Debug Routes: раскрывают ID игроков, поэтому только по флагу
	if s.Debug {
		debugHandler := NewDebugHandler(s.Engine)
		debugHandler.RegisterRoutes(mux)
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
	}

	return enableCORS(mux)
}

// Run запускает HTTP сервер и блокируется до Shutdown.
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Log.Infof("Dungeon crawler server running on :%s", s.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown перестает принимать соединения и ждет активные запросы.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("write json response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
