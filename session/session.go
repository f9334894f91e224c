package session

import (
	"context"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"nhooyr.io/websocket"

	"github.com/pokerledger/server/actor"
	"github.com/pokerledger/server/engine"
	"github.com/pokerledger/server/logging"
	"github.com/pokerledger/server/registry"
)

var sessionLogger = logging.GetZeroLogger("session::session", io.Discard)

var wireJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusInvalidRoomOrPlayer is the distinguished close code telling the
// client not to reconnect: the room is gone, or the player id doesn't
// belong to it.
const StatusInvalidRoomOrPlayer websocket.StatusCode = 4001

const (
	heartbeatInterval = 3 * time.Second
	livenessTimeout   = 12 * time.Second
)

// Session binds one client socket to (room_id, player_id). On open it
// subscribes to the room's Actor; every inbound frame becomes an actor
// Command addressed to that player id, so the session itself never touches
// room state directly.
type Session struct {
	conn     *websocket.Conn
	roomID   string
	playerID string
	actor    *actor.Actor
	sub      *actor.ChannelSubscriber
	lastSeen time.Time
}

// New validates that room/player exist and opens a Session, marking the
// player connected. The caller owns accepting the HTTP upgrade; New takes
// the already-accepted *websocket.Conn.
func New(ctx context.Context, conn *websocket.Conn, reg *registry.Registry, roomID, playerID string) (*Session, error) {
	a, ok := reg.Lookup(roomID)
	if !ok {
		return nil, &engine.Error{Kind: engine.KindNotFound, Message: "room not found"}
	}

	res := a.Send(actor.Command{Kind: actor.KindHeartbeat})
	if res.Err != nil {
		return nil, res.Err
	}
	if _, ok := res.Room.Players[playerID]; !ok {
		return nil, &engine.Error{Kind: engine.KindNotFound, Message: "player not found in room"}
	}

	sub := actor.NewChannelSubscriber(playerID)
	if subRes := a.Send(actor.Command{Kind: actor.KindSubscribe, Sub: sub}); subRes.Err != nil {
		return nil, subRes.Err
	}
	if connRes := a.Send(actor.Command{Kind: actor.KindSetConnected, PlayerID: playerID, Connected: actor.ConnectedPayload{Connected: true}}); connRes.Err != nil {
		return nil, connRes.Err
	}

	s := &Session{conn: conn, roomID: roomID, playerID: playerID, actor: a, sub: sub, lastSeen: time.Now()}
	return s, nil
}

// Run pumps the connection until it closes or ctx is cancelled: reading
// inbound frames and forwarding them as actor commands, while a second
// goroutine drains broadcasts from the subscriber out to the socket.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.unsubscribe()

	go s.pumpOutbound(ctx)
	s.pumpInbound(ctx, cancel)
}

func (s *Session) unsubscribe() {
	s.actor.Send(actor.Command{Kind: actor.KindUnsubscribe, PlayerID: s.playerID})
	s.actor.Send(actor.Command{Kind: actor.KindSetConnected, PlayerID: s.playerID, Connected: actor.ConnectedPayload{Connected: false}})
	s.sub.Close()
}

func (s *Session) pumpInbound(ctx context.Context, cancel context.CancelFunc) {
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			sessionLogger.Debug().Err(err).Str(logging.PlayerIDKey, s.playerID).Msg("read failed, closing session")
			cancel()
			s.closeConn(websocket.StatusNormalClosure, "read failed")
			return
		}
		s.lastSeen = time.Now()

		var frame InboundFrame
		if err := wireJSON.Unmarshal(data, &frame); err != nil {
			s.send(ctx, errorFrame("malformed frame"))
			continue
		}
		if err := s.handle(ctx, frame); err != nil {
			s.send(ctx, errorFrame(err.Error()))
		}
	}
}

func (s *Session) pumpOutbound(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-s.sub.Events():
				if !ok {
					return
				}
				s.send(ctx, eventFrame(ev))
			}
		}
	}()

	for {
		room, ok := s.sub.Next()
		if room != nil {
			s.send(ctx, roomStateFrame(room))
		}
		if !ok {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-s.sub.Closed():
			// The subscriber was closed (e.g. it fell behind on events):
			// the last snapshot has been sent, so close the socket.
			s.closeConn(websocket.StatusGoingAway, "subscriber closed")
			return
		default:
		}
	}
}

func (s *Session) handle(ctx context.Context, frame InboundFrame) error {
	switch frame.Kind {
	case FramePing:
		s.send(ctx, pongFrame(frame.Timestamp))
		return nil
	case FrameSit:
		return s.dispatch(actor.Command{Kind: actor.KindSit, PlayerID: s.playerID, Sit: actor.SitPayload{Seat: frame.Seat}})
	case FrameStand:
		return s.dispatch(actor.Command{Kind: actor.KindStand, PlayerID: s.playerID})
	case FrameReady:
		return s.dispatch(actor.Command{Kind: actor.KindReady, PlayerID: s.playerID, Ready: actor.ReadyPayload{Ready: !s.currentlyReady()}})
	case FrameAction:
		return s.dispatch(actor.Command{Kind: actor.KindAction, PlayerID: s.playerID, Action: actor.ActionPayload{Kind: frame.Action, Amount: frame.Amount}})
	case FrameProposeSettle:
		return s.dispatch(actor.Command{Kind: actor.KindPropose, PlayerID: s.playerID, Propose: actor.ProposePayload{PotWinners: frame.PotWinners}})
	case FrameConfirmSettle:
		return s.dispatch(actor.Command{Kind: actor.KindConfirm, PlayerID: s.playerID})
	case FrameRejectSettle:
		return s.dispatch(actor.Command{Kind: actor.KindReject, PlayerID: s.playerID})
	case FrameRebuy:
		return s.dispatch(actor.Command{Kind: actor.KindRebuy, PlayerID: s.playerID})
	case FrameCashout:
		return s.dispatch(actor.Command{Kind: actor.KindCashout, PlayerID: s.playerID})
	case FrameEndGame:
		return s.dispatch(actor.Command{Kind: actor.KindEndGame, PlayerID: s.playerID})
	default:
		return errors.Errorf("unknown frame kind %q", frame.Kind)
	}
}

func (s *Session) dispatch(cmd actor.Command) error {
	res := s.actor.Send(cmd)
	return res.Err
}

// currentlyReady reads the player's present ready state off the room so the
// `ready` frame can toggle it, the same way the reference's handle_ready
// does (`player.ready = not player.ready`): the wire contract carries no
// payload for this frame, so there's nothing else to toggle off of.
func (s *Session) currentlyReady() bool {
	res := s.actor.Send(actor.Command{Kind: actor.KindHeartbeat})
	if res.Err != nil || res.Room == nil {
		return false
	}
	if p, ok := res.Room.Players[s.playerID]; ok {
		return p.Ready
	}
	return false
}

func (s *Session) send(ctx context.Context, frame OutboundFrame) {
	data, err := wireJSON.Marshal(frame)
	if err != nil {
		sessionLogger.Error().Err(err).Msg("failed to marshal outbound frame")
		return
	}
	if err := s.conn.Write(ctx, websocket.MessageText, data); err != nil {
		sessionLogger.Debug().Err(err).Str(logging.PlayerIDKey, s.playerID).Msg("write failed")
	}
}

func (s *Session) closeConn(code websocket.StatusCode, reason string) {
	_ = s.conn.Close(code, reason)
}

// LastSeen reports when the session last received any client frame, used
// by the heartbeat watcher to flip is_connected on timeout.
func (s *Session) LastSeen() time.Time { return s.lastSeen }

// CloseInvalid closes the connection with the distinguished
// do-not-reconnect code.
func (s *Session) CloseInvalid(reason string) {
	s.closeConn(StatusInvalidRoomOrPlayer, reason)
}
