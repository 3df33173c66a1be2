// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/powerball/session"
)

// Broadcaster pushes game events to connected watchers.
type Broadcaster interface {
	BroadcastAll(event string, payload interface{})
	BroadcastToPlayer(playerID string, event string, payload interface{})
}

// WatcherBroadcaster fans events out over the watcher session manager.
// Sessions whose send fails are dropped; the read loop on the server side
// notices the closed socket and finishes its own cleanup.
type WatcherBroadcaster struct {
	sessionManager *session.Manager
}

func NewWatcherBroadcaster(sessionManager *session.Manager) *WatcherBroadcaster {
	return &WatcherBroadcaster{sessionManager: sessionManager}
}

func (b *WatcherBroadcaster) BroadcastAll(event string, payload interface{}) {
	for _, s := range b.sessionManager.All() {
		if err := s.Send(event, payload); err != nil {
			b.sessionManager.Remove(s.GetID())
			s.Close()
		}
	}
}

func (b *WatcherBroadcaster) BroadcastToPlayer(playerID string, event string, payload interface{}) {
	for _, s := range b.sessionManager.GetByPlayerID(playerID) {
		if err := s.Send(event, payload); err != nil {
			b.sessionManager.Remove(s.GetID())
			s.Close()
		}
	}
}
