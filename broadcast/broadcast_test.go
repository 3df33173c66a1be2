package broadcast

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/powerball/network"
	"github.com/wfunc/powerball/session"
)

// MockConnection records sends and can be told to fail.
type MockConnection struct {
	mu       sync.Mutex
	events   []string
	failSend bool
	closed   bool
}

func (m *MockConnection) Send(event string, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return errors.New("connection gone")
	}
	m.events = append(m.events, event)
	return nil
}

func (m *MockConnection) ReadEnvelope() (*network.Envelope, error) { return nil, nil }

func (m *MockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockConnection) RemoteAddr() net.Addr                { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration) {}

func (m *MockConnection) sentEvents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

func TestBroadcastAll(t *testing.T) {
	manager := session.NewManager()
	conn1 := &MockConnection{}
	conn2 := &MockConnection{}
	manager.Add(session.NewSession("w1", conn1))
	manager.Add(session.NewSession("w2", conn2))

	b := NewWatcherBroadcaster(manager)
	b.BroadcastAll(network.EventStateUpdate, map[string]int{"draw_count": 3})

	for i, conn := range []*MockConnection{conn1, conn2} {
		events := conn.sentEvents()
		if len(events) != 1 || events[0] != network.EventStateUpdate {
			t.Errorf("Watcher %d expected one state_update, got %v", i+1, events)
		}
	}
}

func TestBroadcastAll_DropsDeadConnections(t *testing.T) {
	manager := session.NewManager()
	alive := &MockConnection{}
	dead := &MockConnection{failSend: true}
	manager.Add(session.NewSession("alive", alive))
	manager.Add(session.NewSession("dead", dead))

	b := NewWatcherBroadcaster(manager)
	b.BroadcastAll(network.EventStateUpdate, nil)

	if manager.Count() != 1 {
		t.Fatalf("Expected the dead session to be removed, count=%d", manager.Count())
	}
	if _, exists := manager.Get("dead"); exists {
		t.Error("Dead session should not remain in the manager")
	}
	if !dead.closed {
		t.Error("Dead session's connection should be closed")
	}
	if len(alive.sentEvents()) != 1 {
		t.Error("Healthy session should still receive the broadcast")
	}
}

func TestBroadcastToPlayer(t *testing.T) {
	manager := session.NewManager()

	follower := &MockConnection{}
	other := &MockConnection{}
	s1 := session.NewSession("w1", follower)
	s1.PlayerID = "player_a"
	s2 := session.NewSession("w2", other)
	s2.PlayerID = "player_b"
	manager.Add(s1)
	manager.Add(s2)

	b := NewWatcherBroadcaster(manager)
	b.BroadcastToPlayer("player_a", network.EventJackpot, map[string]string{"winner": "alice"})

	if len(follower.sentEvents()) != 1 {
		t.Error("Follower of player_a should receive the event")
	}
	if len(other.sentEvents()) != 0 {
		t.Error("Follower of player_b should not receive the event")
	}
}
