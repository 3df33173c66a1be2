package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/powerball/game"
	"github.com/wfunc/powerball/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitDevelopment()
	os.Exit(m.Run())
}

func newTestServer() (*GameServer, *game.Session) {
	session := game.NewSession(game.Config{})
	return NewGameServer(":0", "secret", session, nil), session
}

func doJSON(t *testing.T, s *GameServer, method, path string, body interface{}) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("%s %s returned status %d", method, path, w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestJoinAndState(t *testing.T) {
	s, _ := newTestServer()

	resp := doJSON(t, s, http.MethodPost, "/api/join", map[string]interface{}{
		"name":      "alice",
		"numbers":   []int{1, 2, 3, 4, 5},
		"powerball": 6,
	})
	if resp["success"] != true {
		t.Fatalf("Join should succeed, got %v", resp)
	}
	if resp["player_id"] == "" || resp["player_id"] == nil {
		t.Fatal("Join should return a player id")
	}

	state := doJSON(t, s, http.MethodGet, "/api/state", nil)
	if state["player_count"] != float64(1) {
		t.Errorf("Expected player_count 1, got %v", state["player_count"])
	}
	if state["state"] != string(game.StateRunning) {
		t.Errorf("Expected running state, got %v", state["state"])
	}
}

func TestJoin_QuickPick(t *testing.T) {
	s, session := newTestServer()

	resp := doJSON(t, s, http.MethodPost, "/api/join", map[string]interface{}{
		"name":       "bob",
		"quick_pick": true,
	})
	if resp["success"] != true {
		t.Fatalf("Quick-pick join should succeed, got %v", resp)
	}
	if session.Snapshot().PlayerCount != 1 {
		t.Error("Quick-pick join should register the player")
	}
}

func TestJoin_InvalidTicket(t *testing.T) {
	s, session := newTestServer()

	resp := doJSON(t, s, http.MethodPost, "/api/join", map[string]interface{}{
		"name":      "mallory",
		"numbers":   []int{1, 1, 2, 3, 4},
		"powerball": 6,
	})
	if resp["success"] != false {
		t.Fatalf("Join with duplicate whites should fail, got %v", resp)
	}
	if resp["error"] == "" || resp["error"] == nil {
		t.Error("Failed join should carry an error message")
	}
	if session.Snapshot().PlayerCount != 0 {
		t.Error("Failed join must not register a player")
	}
}

func TestQuickPickEndpoint(t *testing.T) {
	s, _ := newTestServer()

	resp := doJSON(t, s, http.MethodGet, "/api/quickpick", nil)
	numbers, ok := resp["numbers"].([]interface{})
	if !ok || len(numbers) != game.WhiteBallCount {
		t.Fatalf("Expected %d quick-pick numbers, got %v", game.WhiteBallCount, resp["numbers"])
	}
	pb, ok := resp["powerball"].(float64)
	if !ok || pb < 1 || pb > game.PowerballMax {
		t.Errorf("Quick-pick powerball out of range: %v", resp["powerball"])
	}
}

func TestAdmin_WrongPassword(t *testing.T) {
	s, session := newTestServer()
	session.JoinQuickPick("alice")

	resp := doJSON(t, s, http.MethodPost, "/api/admin/reset", map[string]interface{}{
		"password": "wrong",
	})
	if resp["success"] != false {
		t.Fatalf("Reset with a wrong password must fail, got %v", resp)
	}
	if session.Snapshot().PlayerCount != 1 {
		t.Error("Failed admin call must not change game state")
	}
}

func TestAdmin_SpeedResetRemove(t *testing.T) {
	s, session := newTestServer()
	playerID, _ := session.JoinQuickPick("alice")
	session.JoinQuickPick("bob")

	resp := doJSON(t, s, http.MethodPost, "/api/admin/speed", map[string]interface{}{
		"password": "secret",
		"speed":    50_000,
	})
	if resp["success"] != true {
		t.Fatalf("Speed change should succeed, got %v", resp)
	}
	if resp["speed"] != float64(game.MaxSpeed) {
		t.Errorf("Expected speed clamped to %d, got %v", game.MaxSpeed, resp["speed"])
	}

	resp = doJSON(t, s, http.MethodPost, "/api/admin/remove", map[string]interface{}{
		"password":  "secret",
		"player_id": playerID,
	})
	if resp["success"] != true {
		t.Fatalf("Remove should succeed, got %v", resp)
	}
	if session.Snapshot().PlayerCount != 1 {
		t.Errorf("Expected 1 player after removal, got %d", session.Snapshot().PlayerCount)
	}

	resp = doJSON(t, s, http.MethodPost, "/api/admin/reset", map[string]interface{}{
		"password": "secret",
	})
	if resp["success"] != true {
		t.Fatalf("Reset should succeed, got %v", resp)
	}
	snap := session.Snapshot()
	if snap.PlayerCount != 0 || snap.DrawCount != 0 || snap.State != game.StateIdle {
		t.Errorf("Reset should empty the game, got %+v", snap)
	}
}
