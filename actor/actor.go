// Package actor implements the Room Actor: a single-threaded command loop
// that owns one room's authoritative snapshot, grounded on the reference
// server's ChannelGame — an inbox channel drained by exactly one goroutine,
// with every other component (session, admission, timers) talking to it
// only through that channel.
package actor

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/pokerledger/server/engine"
	"github.com/pokerledger/server/logging"
	"github.com/pokerledger/server/store"
)

var actorLogger = logging.GetZeroLogger("actor::actor", io.Discard)

// Kind tags the command variant carried in a Command, mirroring spec
// §4.2's typed-command inbox (Sit, Stand, Ready, Action, Propose, Confirm,
// Reject, Rebuy, Cashout, EndGame, Subscribe, Unsubscribe, Heartbeat).
type Kind int

const (
	KindJoin Kind = iota
	KindLeave
	KindSit
	KindStand
	KindReady
	KindAction
	KindPropose
	KindConfirm
	KindReject
	KindRebuy
	KindCashout
	KindEndGame
	KindSetConnected
	KindSubscribe
	KindUnsubscribe
	KindHeartbeat
)

// ActionPayload carries a betting action's arguments.
type ActionPayload struct {
	Kind   engine.ActionKind
	Amount int64
}

// SitPayload carries the seat argument of a Sit command.
type SitPayload struct {
	Seat int
}

// ProposePayload carries a settlement proposal's winner mapping.
type ProposePayload struct {
	PotWinners map[string][]string
}

// ReadyPayload carries the readiness flag.
type ReadyPayload struct {
	Ready bool
}

// ConnectedPayload carries a liveness transition for KindSetConnected.
type ConnectedPayload struct {
	Connected bool
}

// JoinPayload carries a new, unseated player's identity for admission's
// join_room.
type JoinPayload struct {
	DeviceID string
	Name     string
	Emoji    string
	Chips    int64
}

// Command is one inbox entry. Exactly one of PlayerID-scoped payload
// fields is populated, matching Kind. Reply receives the resulting
// snapshot and events, or a typed engine error — never both.
type Command struct {
	Kind     Kind
	PlayerID string
	Sit      SitPayload
	Ready    ReadyPayload
	Action   ActionPayload
	Propose   ProposePayload
	Join      JoinPayload
	Connected ConnectedPayload
	Sub       Subscriber
	Reply     chan Result
}

// Result is what the actor sends back on Command.Reply.
type Result struct {
	Room   *engine.Room
	Events []engine.Event
	Err    error
}

// Subscriber receives broadcasts: the full snapshot on every successful
// transition (last-write-wins, coalesced if the subscriber is slow), and
// every discrete event (never coalesced, never dropped).
type Subscriber interface {
	ID() string
	Snapshot(room *engine.Room)
	Event(event engine.Event)
	Closed() <-chan struct{}
}

// Bus is the advisory event fanout — NATS in production, nil in tests.
type Bus interface {
	PublishEvents(roomID string, events []engine.Event)
}

// Actor owns one room's authoritative snapshot. Processing a command is
// strictly single-consumer: one command runs to completion before the next
// is read off the inbox, per spec §4.2/§5.
type Actor struct {
	room    *engine.Room
	store   store.Store
	bus     Bus
	inbox   chan Command
	done    chan struct{}
	subs    map[string]Subscriber
	marshal func(*engine.Room) ([]byte, error)
}

// New constructs an Actor over an already-loaded room snapshot. The caller
// is responsible for reconstituting `room` from the store (or creating it
// fresh via admission) before handing it here.
func New(room *engine.Room, st store.Store, bus Bus, marshal func(*engine.Room) ([]byte, error)) *Actor {
	return &Actor{
		room:    room,
		store:   st,
		bus:     bus,
		inbox:   make(chan Command, 64),
		done:    make(chan struct{}),
		subs:    make(map[string]Subscriber),
		marshal: marshal,
	}
}

// Send enqueues a command and blocks until the actor has processed it,
// mirroring request/response over what is internally an async channel.
func (a *Actor) Send(cmd Command) Result {
	reply := make(chan Result, 1)
	cmd.Reply = reply
	select {
	case a.inbox <- cmd:
	case <-a.done:
		return Result{Err: errors.New("room actor has shut down")}
	}
	return <-reply
}

// Run drains the inbox until Stop is called. It must run in its own
// goroutine; it is the only goroutine permitted to touch a.room.
func (a *Actor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(a.done)
			return
		case cmd, ok := <-a.inbox:
			if !ok {
				close(a.done)
				return
			}
			a.process(ctx, cmd)
		}
	}
}

func (a *Actor) Stop() {
	close(a.inbox)
}

func (a *Actor) process(ctx context.Context, cmd Command) {
	switch cmd.Kind {
	case KindSubscribe:
		a.subs[cmd.Sub.ID()] = cmd.Sub
		cmd.Reply <- Result{Room: a.room}
		return
	case KindUnsubscribe:
		delete(a.subs, cmd.PlayerID)
		cmd.Reply <- Result{}
		return
	case KindHeartbeat:
		cmd.Reply <- Result{Room: a.room}
		return
	}

	newRoom, events, err := a.applyEngine(cmd)
	if err != nil {
		cmd.Reply <- Result{Err: err}
		return
	}
	stampRoom(newRoom)

	if a.marshal != nil && a.store != nil {
		blob, merr := a.marshal(newRoom)
		if merr != nil {
			cmd.Reply <- Result{Err: errors.Wrap(merr, "marshal room snapshot")}
			return
		}
		if serr := a.store.Save(ctx, newRoom.ID, blob); serr != nil {
			actorLogger.Error().Err(serr).Str(logging.RoomIDKey, newRoom.ID).Msg("snapshot save failed, rolling back")
			cmd.Reply <- Result{Err: engineInternal(serr)}
			return
		}
	}

	a.room = newRoom
	a.broadcast(events)
	if a.bus != nil {
		a.bus.PublishEvents(a.room.ID, events)
	}
	cmd.Reply <- Result{Room: a.room, Events: events}
}

func (a *Actor) applyEngine(cmd Command) (*engine.Room, []engine.Event, error) {
	switch cmd.Kind {
	case KindJoin:
		return engine.AddPlayer(a.room, cmd.PlayerID, cmd.Join.DeviceID, cmd.Join.Name, cmd.Join.Emoji, cmd.Join.Chips)
	case KindLeave:
		return engine.RemovePlayer(a.room, cmd.PlayerID)
	case KindSetConnected:
		return engine.SetConnected(a.room, cmd.PlayerID, cmd.Connected.Connected)
	case KindSit:
		return engine.Sit(a.room, cmd.PlayerID, cmd.Sit.Seat)
	case KindStand:
		return engine.Stand(a.room, cmd.PlayerID)
	case KindReady:
		return engine.SetReady(a.room, cmd.PlayerID, cmd.Ready.Ready)
	case KindAction:
		return engine.Action(a.room, cmd.PlayerID, cmd.Action.Kind, cmd.Action.Amount)
	case KindPropose:
		return engine.ProposeSettlement(a.room, cmd.PlayerID, cmd.Propose.PotWinners)
	case KindConfirm:
		return engine.ConfirmSettlement(a.room, cmd.PlayerID)
	case KindReject:
		return engine.RejectSettlement(a.room, cmd.PlayerID)
	case KindRebuy:
		return engine.Rebuy(a.room, cmd.PlayerID)
	case KindCashout:
		return engine.Cashout(a.room, cmd.PlayerID)
	case KindEndGame:
		return engine.EndGame(a.room, cmd.PlayerID)
	default:
		return nil, nil, errors.Errorf("unknown command kind %v", cmd.Kind)
	}
}

func (a *Actor) broadcast(events []engine.Event) {
	for _, sub := range a.subs {
		select {
		case <-sub.Closed():
			delete(a.subs, sub.ID())
			continue
		default:
		}
		sub.Snapshot(a.room)
		for _, ev := range events {
			sub.Event(ev)
		}
	}
}

func engineInternal(cause error) *engine.Error {
	return &engine.Error{Kind: engine.KindInternal, Message: cause.Error()}
}

// stampRoom sets the wall-clock bookkeeping the engine itself never
// touches (it has no clock): created_at on first stamp, updated_at on
// every mutating command, hand_started_at on the first stamp of a new
// hand, and idle_since once a waiting room has no connected player left.
func stampRoom(room *engine.Room) {
	now := time.Now().Unix()
	if room.CreatedAt == 0 {
		room.CreatedAt = now
	}
	room.UpdatedAt = now
	if room.Hand != nil && room.Hand.HandStartedAt == 0 {
		room.Hand.HandStartedAt = now
	}

	anyConnected := false
	for _, p := range room.Players {
		if p.IsConnected {
			anyConnected = true
			break
		}
	}
	if room.Status == engine.RoomWaiting && !anyConnected {
		if room.IdleSince == 0 {
			room.IdleSince = now
		}
	} else {
		room.IdleSince = 0
	}
}
