package server

import (
	"bytes"
	"context"
	"crawler-server/internal/auth"
	"crawler-server/internal/domain"
	"crawler-server/internal/engine"
	"crawler-server/internal/infrastructure/storage"
	"crawler-server/internal/network"
	"crawler-server/pkg/api"
	"crawler-server/pkg/logger"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.InitFromEnv()
	os.Exit(m.Run())
}

type testEnv struct {
	srv     *Server
	handler http.Handler
	authn   *auth.Authenticator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, Options{Port: "0", Debug: true})
}

func newTestEnvWith(t *testing.T, opts Options) *testEnv {
	t.Helper()

	store, err := storage.NewSQLStore(storage.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	cfg := engine.NewConfig()
	cfg.Seed = 11
	svc := engine.NewService(cfg, network.NewBroadcaster(), store)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
		_ = store.Close()
	})

	authn := auth.NewAuthenticator("secret")
	srv := New(svc, store, authn, opts)
	return &testEnv{srv: srv, handler: srv.Handler(), authn: authn}
}

func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.authn.Issue(userID, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

// do выполняет запрос от имени userID. Пустой userID - без токена.
func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(t, userID))
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func validSave(name string) createSaveRequest {
	g := domain.NewGrid(3)
	g.Cells[1][1].Type = domain.CellFloor
	g.Cells[1][2].Type = domain.CellFloor

	return createSaveRequest{
		SaveName:     name,
		DungeonLevel: 1,
		Player:       domain.PlayerState{Position: domain.Position{X: 1, Z: 1}, Facing: domain.South},
		Characters: []domain.SavedCharacter{{
			Character: domain.Character{
				ID: "c1", Name: "Borin", Class: domain.ClassWarrior, Level: 1,
				Health: 100, MaxHealth: 120, Mana: 30, MaxMana: 50,
				ExperienceToNext: 100,
				Stats:            domain.Stats{Strength: 15, Intelligence: 8, Defense: 12, Speed: 10},
			},
			IsActive: true,
		}},
		Inventory: []*domain.Item{},
		Dungeon: domain.DungeonState{
			Grid:          g,
			ExploredRooms: []domain.Position{{X: 1, Z: 1}},
		},
	}
}

func TestServer_HealthAndVersion(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodGet, "/version", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("version = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	rec = e.do(t, http.MethodOptions, "/api/saves", "", nil)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight = %d, headers %v", rec.Code, rec.Header())
	}
}

func TestSavesAPI_RequiresToken(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/saves", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/saves", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d", rec.Code)
	}
}

func TestSavesAPI_CRUD(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/api/saves", "alice", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("empty list = %d %q", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/api/saves", "alice", validSave("  first  "))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	created := decode[domain.SaveRecord](t, rec)
	if created.ID == 0 || created.SaveName != "first" || created.UserID != "alice" {
		t.Fatalf("created = %+v", created)
	}
	path := "/api/saves/" + strconv.FormatInt(created.ID, 10)

	rec = e.do(t, http.MethodGet, path, "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d %s", rec.Code, rec.Body.String())
	}
	snap := decode[domain.Snapshot](t, rec)
	if len(snap.Characters) != 1 || snap.Characters[0].Name != "Borin" {
		t.Errorf("characters = %+v", snap.Characters)
	}
	// Направление восстанавливается из facing
	if snap.Save.Player.Direction != (domain.Direction{X: 0, Z: 1}) {
		t.Errorf("direction = %+v", snap.Save.Player.Direction)
	}

	rec = e.do(t, http.MethodPut, path, "alice", map[string]any{"saveName": "renamed", "dungeonLevel": 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d %s", rec.Code, rec.Body.String())
	}
	if upd := decode[domain.SaveRecord](t, rec); upd.SaveName != "renamed" || upd.DungeonLevel != 2 {
		t.Errorf("updated = %+v", upd)
	}

	rec = e.do(t, http.MethodGet, "/api/saves", "alice", nil)
	list := decode[[]api.SaveView](t, rec)
	if len(list) != 1 || list[0].SaveName != "renamed" {
		t.Errorf("list = %+v", list)
	}

	rec = e.do(t, http.MethodDelete, path, "alice", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = e.do(t, http.MethodGet, path, "alice", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", rec.Code)
	}
}

func TestSavesAPI_OwnerIsolation(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/saves", "alice", validSave("mine"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	path := "/api/saves/" + strconv.FormatInt(decode[domain.SaveRecord](t, rec).ID, 10)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		if rec := e.do(t, method, path, "bob", nil); rec.Code != http.StatusNotFound {
			t.Errorf("%s by other user = %d, want 404", method, rec.Code)
		}
	}
	if rec := e.do(t, http.MethodPut, path, "bob", map[string]any{"saveName": "stolen"}); rec.Code != http.StatusNotFound {
		t.Errorf("PUT by other user = %d, want 404", rec.Code)
	}
	if rec := e.do(t, http.MethodGet, path, "alice", nil); rec.Code != http.StatusOK {
		t.Errorf("owner lost access: %d", rec.Code)
	}
}

func TestSavesAPI_RejectsBadInput(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/saves", "alice", validSave("slot"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	path := "/api/saves/" + strconv.FormatInt(decode[domain.SaveRecord](t, rec).ID, 10)

	noChars := validSave("empty party")
	noChars.Characters = nil

	outside := validSave("outside")
	outside.Player.Position = domain.Position{X: 7, Z: 7}

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"malformed json", http.MethodPost, "/api/saves", "{", http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/saves", `{"saveName":"x","hp":1}`, http.StatusBadRequest},
		{"missing name", http.MethodPost, "/api/saves", validSave("   "), http.StatusBadRequest},
		{"no characters", http.MethodPost, "/api/saves", noChars, http.StatusBadRequest},
		{"player outside grid", http.MethodPost, "/api/saves", outside, http.StatusBadRequest},
		{"non numeric id", http.MethodGet, "/api/saves/abc", nil, http.StatusBadRequest},
		{"zero id", http.MethodDelete, "/api/saves/0", nil, http.StatusBadRequest},
		{"missing save", http.MethodGet, "/api/saves/9999", nil, http.StatusNotFound},
		{"empty update", http.MethodPut, path, map[string]any{}, http.StatusBadRequest},
		{"blank name update", http.MethodPut, path, map[string]any{"saveName": " "}, http.StatusBadRequest},
		{"update breaks snapshot", http.MethodPut, path, map[string]any{"playerPosition": map[string]any{"position": map[string]int{"x": 9, "z": 9}}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, tt.method, tt.path, "alice", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if body := decode[map[string]string](t, rec); body["error"] == "" {
				t.Errorf("error body missing: %s", rec.Body.String())
			}
		})
	}

	// Отклоненное обновление не должно менять слот
	rec = e.do(t, http.MethodGet, path, "alice", nil)
	if snap := decode[domain.Snapshot](t, rec); snap.Save.Player.Position != (domain.Position{X: 1, Z: 1}) {
		t.Errorf("position changed to %+v", snap.Save.Player.Position)
	}
}

func TestDebugSessions(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodGet, "/debug/sessions", "", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("sessions = %d %q", rec.Code, rec.Body.String())
	}

	if err := e.srv.Engine.ProcessCommand("alice", api.ClientCommand{Action: "NEW_GAME"}); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		rec = e.do(t, http.MethodGet, "/debug/sessions", "", nil)
		sessions := decode[[]engine.SessionSummary](t, rec)
		if len(sessions) == 1 && sessions[0].Phase == string(domain.PhaseCharacterCreation) {
			if sessions[0].UserID != "alice" || sessions[0].Connected {
				t.Errorf("session = %+v", sessions[0])
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("sessions = %+v", sessions)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestDebugHub(t *testing.T) {
	e := newTestEnv(t)

	ch := e.srv.Engine.Hub.Register("alice")
	defer e.srv.Engine.Hub.Unregister("alice", ch)

	rec := e.do(t, http.MethodGet, "/debug/hub", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("hub = %d", rec.Code)
	}
	if stats := decode[hubStats](t, rec); stats.Subscribers != 1 {
		t.Errorf("subscribers = %d, want 1", stats.Subscribers)
	}
}

func TestDebugRoutes_DisabledByDefault(t *testing.T) {
	e := newTestEnvWith(t, Options{Port: "0"})

	for _, path := range []string{"/debug/sessions", "/debug/hub", "/debug/pprof/"} {
		if rec := e.do(t, http.MethodGet, path, "alice", nil); rec.Code != http.StatusNotFound {
			t.Errorf("%s = %d, want 404", path, rec.Code)
		}
	}
	if e.srv.StoreTimeout != defaultStoreTimeout {
		t.Errorf("store timeout = %v, want %v", e.srv.StoreTimeout, defaultStoreTimeout)
	}
}

// deadlineStore запоминает дедлайн контекста, с которым пришел ListSaves.
type deadlineStore struct {
	storage.SaveStore
	deadline time.Time
}

func (s *deadlineStore) ListSaves(ctx context.Context, userID string) ([]domain.SaveRecord, error) {
	s.deadline, _ = ctx.Deadline()
	return s.SaveStore.ListSaves(ctx, userID)
}

func TestSavesAPI_UsesStoreTimeout(t *testing.T) {
	e := newTestEnvWith(t, Options{Port: "0", StoreTimeout: 40 * time.Second})
	store := &deadlineStore{SaveStore: e.srv.Store}
	e.srv.Store = store

	start := time.Now()
	if rec := e.do(t, http.MethodGet, "/api/saves", "alice", nil); rec.Code != http.StatusOK {
		t.Fatalf("list = %d %s", rec.Code, rec.Body.String())
	}
	left := store.deadline.Sub(start)
	if left < 39*time.Second || left > 41*time.Second {
		t.Errorf("store call deadline in %v, want about 40s", left)
	}
}

func TestWebSocket_Flow(t *testing.T) {
	e := newTestEnv(t)
	ts := httptest.NewServer(e.handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("dial without token should fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("dial without token: resp = %v", resp)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+e.token(t, "alice"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func(match func(api.ServerResponse) bool) api.ServerResponse {
		t.Helper()
		if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
			t.Fatal(err)
		}
		for {
			var msg api.ServerResponse
			if err := conn.ReadJSON(&msg); err != nil {
				t.Fatalf("read: %v", err)
			}
			if match(msg) {
				return msg
			}
		}
	}

	// Первая отрисовка приходит сразу после подключения
	first := read(func(r api.ServerResponse) bool { return true })
	if first.Type != api.TypeUpdate || first.Phase != string(domain.PhaseMenu) {
		t.Errorf("first message = %+v", first)
	}

	if err := conn.WriteJSON(api.ClientCommand{Action: "NEW_GAME"}); err != nil {
		t.Fatal(err)
	}
	resp2 := read(func(r api.ServerResponse) bool { return r.Phase == string(domain.PhaseCharacterCreation) })
	if len(resp2.Classes) != 2 {
		t.Errorf("classes = %+v", resp2.Classes)
	}

	if err := conn.WriteJSON(api.ClientCommand{Action: "START_GAME"}); err != nil {
		t.Fatal(err)
	}
	rejected := read(func(r api.ServerResponse) bool { return len(r.Logs) > 0 })
	if rejected.Phase != string(domain.PhaseCharacterCreation) || rejected.Logs[0].Type != domain.LogError {
		t.Errorf("start with empty party = %+v", rejected)
	}
}
