// Package session implements the per-connection WebSocket layer: one
// Session binds exactly one client socket to (room_id, player_id), forwards
// validated inbound frames to that room's Actor, and relays snapshots/events
// back out. Grounded on the reference server's player.go socket adapter,
// transported over nhooyr.io/websocket with json-iterator framing to match
// the wire contract.
package session

import "github.com/pokerledger/server/engine"

// Inbound frame kinds, client→server.
const (
	FramePing           = "ping"
	FrameSit            = "sit"
	FrameStand          = "stand"
	FrameReady          = "ready"
	FrameAction         = "action"
	FrameProposeSettle  = "propose_settle"
	FrameConfirmSettle  = "confirm_settle"
	FrameRejectSettle   = "reject_settle"
	FrameRebuy          = "rebuy"
	FrameCashout        = "cashout"
	FrameEndGame        = "end_game"
)

// Outbound frame kinds, server→client.
const (
	FramePong      = "pong"
	FrameRoomState = "room_state"
	FrameEvent     = "event"
	FrameError     = "error"
)

// InboundFrame is the envelope every client→server message is decoded
// into. Kind-specific fields are left at their zero value when unused.
type InboundFrame struct {
	Kind         string              `json:"kind"`
	Timestamp    int64               `json:"timestamp,omitempty"`
	Seat         int                 `json:"seat,omitempty"`
	Action       engine.ActionKind   `json:"action,omitempty"`
	Amount       int64               `json:"amount,omitempty"`
	PotWinners   map[string][]string `json:"pot_winners,omitempty"`
}

// OutboundFrame is the envelope every server→client message is encoded
// from.
type OutboundFrame struct {
	Kind      string       `json:"kind"`
	Timestamp int64        `json:"timestamp,omitempty"`
	Room      *engine.Room `json:"room,omitempty"`
	Event     string       `json:"event,omitempty"`
	Detail    interface{}  `json:"detail,omitempty"`
	Message   string       `json:"message,omitempty"`
}

func pongFrame(timestamp int64) OutboundFrame {
	return OutboundFrame{Kind: FramePong, Timestamp: timestamp}
}

func roomStateFrame(room *engine.Room) OutboundFrame {
	return OutboundFrame{Kind: FrameRoomState, Room: room}
}

func eventFrame(ev engine.Event) OutboundFrame {
	return OutboundFrame{Kind: FrameEvent, Event: ev.Kind, Detail: ev.Detail}
}

func errorFrame(message string) OutboundFrame {
	return OutboundFrame{Kind: FrameError, Message: message}
}
