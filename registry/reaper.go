package registry

import (
	"io"
	"sync"
	"time"

	"github.com/pokerledger/server/actor"
	"github.com/pokerledger/server/logging"
)

var reaperLogger = logging.GetZeroLogger("registry::reaper", io.Discard)

var reaperOnce sync.Once
var reaperInstance *Reaper

// Reaper periodically sweeps the Room Registry for rooms that have sat
// `idle_since` past ttl, and closes them. Grounded on the reference
// server's timer.Controller singleton, but simplified to a single fixed-tick
// sweep rather than a per-expiration bucket map: the registry's room count
// is small enough that scanning every room each tick is cheap, and a room's
// idle deadline only ever needs checking, never early notification.
type Reaper struct {
	reg      *Registry
	ttl      time.Duration
	tick     time.Duration
	stopOnce sync.Once
	done     chan struct{}
}

func NewReaper(reg *Registry, ttl, tick time.Duration) *Reaper {
	return &Reaper{reg: reg, ttl: ttl, tick: tick, done: make(chan struct{})}
}

// GetReaper returns the process-wide singleton, starting it against reg on
// first call. Subsequent calls ignore reg and return the already-running
// instance, mirroring timer.GetController's one-controller-per-process
// contract.
func GetReaper(reg *Registry, ttl, tick time.Duration) *Reaper {
	reaperOnce.Do(func() {
		reaperInstance = NewReaper(reg, ttl, tick)
		reaperInstance.Start()
	})
	return reaperInstance
}

func (r *Reaper) Start() {
	go r.runMainLoop()
}

func (r *Reaper) Stop() {
	r.stopOnce.Do(func() { close(r.done) })
}

func (r *Reaper) runMainLoop() {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Reaper) sweep() {
	now := time.Now().Unix()
	for _, roomID := range r.reg.OpenRoomIDs() {
		a, ok := r.reg.Lookup(roomID)
		if !ok {
			continue
		}
		res := a.Send(actor.Command{Kind: actor.KindHeartbeat})
		if res.Err != nil || res.Room == nil {
			continue
		}
		if res.Room.IdleSince == 0 {
			continue
		}
		if now-res.Room.IdleSince < int64(r.ttl/time.Second) {
			continue
		}
		reaperLogger.Info().Str(logging.RoomIDKey, roomID).Msg("closing idle room")
		r.reg.Close(roomID)
	}
}
