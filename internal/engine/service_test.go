package engine

import (
	"context"
	"crawler-server/internal/domain"
	"crawler-server/internal/network"
	"crawler-server/pkg/api"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) *GameService {
	t.Helper()
	svc := NewService(testConfig(), network.NewBroadcaster(), setupStore(t))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	return svc
}

func send(t *testing.T, svc *GameService, userID, action string, payload any) {
	t.Helper()
	cmd := api.ClientCommand{Action: action}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		cmd.Payload = raw
	}
	if err := svc.ProcessCommand(userID, cmd); err != nil {
		t.Fatalf("%s: %v", action, err)
	}
}

// awaitResponse читает рассылки, пока не придет подходящая.
func awaitResponse(t *testing.T, ch chan api.ServerResponse, match func(api.ServerResponse) bool) api.ServerResponse {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case resp := <-ch:
			if match(resp) {
				return resp
			}
		case <-timeout:
			t.Fatal("expected response did not arrive")
			return api.ServerResponse{}
		}
	}
}

func inPhase(p domain.GamePhase) func(api.ServerResponse) bool {
	return func(r api.ServerResponse) bool { return r.Phase == string(p) }
}

func TestService_NewGameFlow(t *testing.T) {
	svc := newTestService(t)
	updates := svc.Hub.Register("alice")

	send(t, svc, "alice", "INIT", nil)
	resp := awaitResponse(t, updates, inPhase(domain.PhaseMenu))
	if len(resp.Logs) == 0 {
		t.Error("INIT should greet the player")
	}

	send(t, svc, "alice", "NEW_GAME", nil)
	resp = awaitResponse(t, updates, inPhase(domain.PhaseCharacterCreation))
	if len(resp.Classes) != 2 || resp.Classes[0].ID != "warrior" || len(resp.Classes[1].Spells) != 2 {
		t.Errorf("classes = %+v", resp.Classes)
	}

	send(t, svc, "alice", "CREATE_CHARACTER", api.CreateCharacterPayload{Name: "Borin", Class: "warrior"})
	send(t, svc, "alice", "START_GAME", nil)
	resp = awaitResponse(t, updates, inPhase(domain.PhaseExploration))

	if resp.Player == nil || resp.Player.X != 3 || resp.Player.Z != 3 || resp.Player.Facing != "north" {
		t.Errorf("player = %+v", resp.Player)
	}
	if resp.Grid == nil || resp.Grid.Size == 0 {
		t.Fatal("grid meta missing")
	}
	if len(resp.Map) == 0 || len(resp.Map) >= resp.Grid.Size*resp.Grid.Size {
		t.Errorf("only explored tiles should be sent, got %d", len(resp.Map))
	}
	if len(resp.Party) != 1 || resp.ActiveCharacterID != resp.Party[0].ID || resp.Classes != nil {
		t.Errorf("party = %+v", resp.Party)
	}

	send(t, svc, "alice", "SAVE", api.SavePayload{SaveName: "start"})
	awaitResponse(t, updates, func(r api.ServerResponse) bool {
		for _, l := range r.Logs {
			if l.Text == "Игра сохранена: start." {
				return true
			}
		}
		return false
	})
	send(t, svc, "alice", "LIST_SAVES", nil)
	resp = awaitResponse(t, updates, func(r api.ServerResponse) bool { return r.Type == api.TypeSaves })
	if len(resp.Saves) != 1 || resp.Saves[0].SaveName != "start" {
		t.Errorf("saves = %+v", resp.Saves)
	}
}

func TestService_SessionsAreIsolated(t *testing.T) {
	svc := newTestService(t)
	alice := svc.Hub.Register("alice")
	bob := svc.Hub.Register("bob")

	send(t, svc, "alice", "NEW_GAME", nil)
	awaitResponse(t, alice, inPhase(domain.PhaseCharacterCreation))

	send(t, svc, "bob", "INIT", nil)
	resp := awaitResponse(t, bob, func(api.ServerResponse) bool { return true })
	if resp.Phase != string(domain.PhaseMenu) {
		t.Errorf("bob sees phase %s", resp.Phase)
	}

	sessions := svc.Sessions()
	if len(sessions) != 2 || sessions[0].UserID != "alice" || sessions[1].UserID != "bob" {
		t.Fatalf("sessions = %+v", sessions)
	}
	if sessions[0].Phase != string(domain.PhaseCharacterCreation) || !sessions[0].Connected {
		t.Errorf("alice summary = %+v", sessions[0])
	}
}

func TestService_RejectsUnknownAndTimerActions(t *testing.T) {
	svc := newTestService(t)

	for _, action := range []string{"DANCE", "ENEMY_TURN", "END_COMBAT", ""} {
		if err := svc.ProcessCommand("alice", api.ClientCommand{Action: action}); !errors.Is(err, ErrUnknownAction) {
			t.Errorf("%q: expected ErrUnknownAction, got %v", action, err)
		}
	}
	if len(svc.Sessions()) != 0 {
		t.Error("rejected commands must not create sessions")
	}
}

func TestService_Shutdown(t *testing.T) {
	svc := newTestService(t)
	send(t, svc, "alice", "INIT", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := svc.Shutdown(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.ProcessCommand("alice", api.ClientCommand{Action: "INIT"}); !errors.Is(err, ErrShuttingDown) {
		t.Errorf("expected ErrShuttingDown, got %v", err)
	}
}
