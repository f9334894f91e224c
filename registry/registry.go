// Package registry is the Room Registry: the process-wide map from room id
// to its live Actor, grounded on the reference server's game.Manager.
package registry

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/pokerledger/server/actor"
	"github.com/pokerledger/server/engine"
	"github.com/pokerledger/server/logging"
	"github.com/pokerledger/server/store"
)

var registryLogger = logging.GetZeroLogger("registry::registry", io.Discard)

// Registry owns every open room's Actor for the life of the process. A room
// is "open" from the moment admission creates or reattaches to it until
// Close is called; the reaper calls it for idle rooms. Ending the game
// (EndGame) does not close the room.
type Registry struct {
	mu     sync.RWMutex
	actors map[string]*actor.Actor
	cancel map[string]context.CancelFunc

	store   store.Store
	bus     actor.Bus
	marshal func(*engine.Room) ([]byte, error)
}

func New(st store.Store, bus actor.Bus) *Registry {
	if bus == nil {
		bus = actor.NoopBus{}
	}
	return &Registry{
		actors:  make(map[string]*actor.Actor),
		cancel:  make(map[string]context.CancelFunc),
		store:   st,
		bus:     bus,
		marshal: engine.MarshalRoom,
	}
}

// Open registers room as live and starts its actor loop. It is an error to
// Open a room id that is already open — callers must Lookup first.
func (r *Registry) Open(room *engine.Room) (*actor.Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.actors[room.ID]; exists {
		return nil, errors.Errorf("room %s is already open", room.ID)
	}

	a := actor.New(room, r.store, r.bus, r.marshal)
	ctx, cancel := context.WithCancel(context.Background())
	r.actors[room.ID] = a
	r.cancel[room.ID] = cancel
	go a.Run(ctx)

	registryLogger.Info().Str(logging.RoomIDKey, room.ID).Msg("room opened")
	return a, nil
}

// Lookup returns the live actor for roomID, if any.
func (r *Registry) Lookup(roomID string) (*actor.Actor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.actors[roomID]
	return a, ok
}

// Close stops a room's actor loop and removes it from the registry. The
// room's last snapshot remains in the store; callers that want it gone
// entirely must also call store.Delete.
func (r *Registry) Close(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.actors[roomID]
	if !ok {
		return
	}
	a.Stop()
	if cancel, ok := r.cancel[roomID]; ok {
		cancel()
	}
	delete(r.actors, roomID)
	delete(r.cancel, roomID)
	registryLogger.Info().Str(logging.RoomIDKey, roomID).Msg("room closed")
}

// OpenRoomIDs lists every currently open room, for the reaper's sweep.
func (r *Registry) OpenRoomIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.actors))
	for id := range r.actors {
		ids = append(ids, id)
	}
	return ids
}

// Restore reopens a room from its last saved snapshot, used on process
// startup to rehydrate every room the store reports as active.
func (r *Registry) Restore(ctx context.Context, roomID string) (*actor.Actor, error) {
	blob, err := r.store.Load(ctx, roomID)
	if err != nil {
		return nil, errors.Wrapf(err, "restore room %s", roomID)
	}
	var room engine.Room
	if err := engine.UnmarshalRoom(blob, &room); err != nil {
		return nil, errors.Wrapf(err, "unmarshal room %s snapshot", roomID)
	}
	return r.Open(&room)
}
