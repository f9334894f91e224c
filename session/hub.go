package session

import (
	"net/http"

	"nhooyr.io/websocket"

	"github.com/pokerledger/server/logging"
	"github.com/pokerledger/server/registry"
)

// Hub is the HTTP entry point for `/ws/{room_id}/{player_id}`: it accepts
// the WebSocket upgrade, constructs a Session bound to the room's Actor,
// and runs it to completion on the accepting goroutine.
type Hub struct {
	reg     *registry.Registry
	watcher *Watcher
}

func NewHub(reg *registry.Registry, watcher *Watcher) *Hub {
	return &Hub{reg: reg, watcher: watcher}
}

// ServeWS handles one upgrade request. roomID/playerID are expected to
// already be extracted from the route by the caller (gin or net/http
// mux — this package stays router-agnostic).
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomID, playerID string) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		sessionLogger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	s, err := New(r.Context(), conn, h.reg, roomID, playerID)
	if err != nil {
		sessionLogger.Info().Err(err).Str(logging.RoomIDKey, roomID).Str(logging.PlayerIDKey, playerID).Msg("session rejected")
		_ = conn.Close(StatusInvalidRoomOrPlayer, err.Error())
		return
	}

	if h.watcher != nil {
		h.watcher.Register(s)
		defer h.watcher.Unregister(playerID)
	}

	s.Run(r.Context())
}
