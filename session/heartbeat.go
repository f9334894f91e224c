package session

import (
	"sync"
	"time"

	"github.com/pokerledger/server/actor"
)

// Watcher periodically checks every registered Session's last-seen time
// and flips is_connected false once it exceeds livenessTimeout, without
// forfeiting the player's turn (per spec's liveness model: a timed-out
// player's action still blocks the hand). Grounded on the reference
// server's timer.Controller sweep loop, simplified to a flat map since a
// process holds far fewer live sessions than the reference holds timers.
type Watcher struct {
	mu       sync.Mutex
	sessions map[string]*Session // playerID -> session
	tick     time.Duration
	done     chan struct{}
	once     sync.Once
}

func NewWatcher(tick time.Duration) *Watcher {
	if tick <= 0 {
		tick = heartbeatInterval
	}
	return &Watcher{sessions: make(map[string]*Session), tick: tick, done: make(chan struct{})}
}

func (w *Watcher) Register(s *Session) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sessions[s.playerID] = s
}

func (w *Watcher) Unregister(playerID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.sessions, playerID)
}

func (w *Watcher) Start() {
	go w.run()
}

func (w *Watcher) Stop() {
	w.once.Do(func() { close(w.done) })
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *Watcher) sweep() {
	now := time.Now()
	w.mu.Lock()
	stale := make([]*Session, 0)
	for _, s := range w.sessions {
		if now.Sub(s.LastSeen()) > livenessTimeout {
			stale = append(stale, s)
		}
	}
	w.mu.Unlock()

	for _, s := range stale {
		s.actor.Send(actor.Command{
			Kind:      actor.KindSetConnected,
			PlayerID:  s.playerID,
			Connected: actor.ConnectedPayload{Connected: false},
		})
	}
}
