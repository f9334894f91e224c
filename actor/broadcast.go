package actor

import (
	"sync"

	"github.com/pokerledger/server/engine"
)

// ChannelSubscriber adapts a single client connection to the Subscriber
// interface. Snapshots coalesce — a slow reader only ever sees the latest
// room state, never a backlog of stale ones — but events queue up to
// bufferedEvents deep so a client never silently misses one, matching the
// reference server's per-connection channel-with-drop-oldest-snapshot
// behavior without ever dropping discrete events.
type ChannelSubscriber struct {
	id     string
	mu     sync.Mutex
	latest *engine.Room
	wake   chan struct{}
	events chan engine.Event
	closed chan struct{}
	once   sync.Once
}

const bufferedEvents = 256

func NewChannelSubscriber(id string) *ChannelSubscriber {
	return &ChannelSubscriber{
		id:     id,
		wake:   make(chan struct{}, 1),
		events: make(chan engine.Event, bufferedEvents),
		closed: make(chan struct{}),
	}
}

func (s *ChannelSubscriber) ID() string { return s.id }

func (s *ChannelSubscriber) Snapshot(room *engine.Room) {
	s.mu.Lock()
	s.latest = room
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Event enqueues a discrete event. If the subscriber's buffer is full the
// connection is considered unrecoverably behind and is closed — coalescing
// applies to snapshots only, never to events, so dropping one here would
// silently corrupt the client's view of what happened.
func (s *ChannelSubscriber) Event(event engine.Event) {
	select {
	case s.events <- event:
	default:
		s.Close()
	}
}

func (s *ChannelSubscriber) Closed() <-chan struct{} { return s.closed }

func (s *ChannelSubscriber) Close() {
	s.once.Do(func() { close(s.closed) })
}

// Next blocks until either a fresher snapshot is available or the
// subscriber closes. It returns the most recent snapshot known at the time
// of the call — callers should drain Events separately.
func (s *ChannelSubscriber) Next() (*engine.Room, bool) {
	select {
	case <-s.wake:
	case <-s.closed:
		s.mu.Lock()
		room := s.latest
		s.mu.Unlock()
		return room, room != nil
	}
	s.mu.Lock()
	room := s.latest
	s.mu.Unlock()
	return room, true
}

// Events exposes the event channel for the session layer to drain.
func (s *ChannelSubscriber) Events() <-chan engine.Event {
	return s.events
}
