// Package admission implements the REST-facing half of room lifecycle:
// create_room, join_room, lookup_active_room, leave_room, grounded on the
// reference server's rest/rest.go delegating into nats.GameManager. Unlike
// the reference, this Service is pure (no gin, no NATS) so it can be unit
// tested directly; admission/rest.go is the thin HTTP adapter over it.
package admission

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/pokerledger/server/actor"
	"github.com/pokerledger/server/cache"
	"github.com/pokerledger/server/engine"
	"github.com/pokerledger/server/logging"
	"github.com/pokerledger/server/registry"
)

var admissionLogger = logging.GetZeroLogger("admission::admission", io.Discard)

// CreateRoomRequest is the validated input to CreateRoom.
type CreateRoomRequest struct {
	PlayerName   string
	PlayerEmoji  string
	DeviceID     string
	SBAmount     int64
	InitialChips int64
	RebuyMinimum int64
	HandInterval int
	MaxChips     int64
}

// JoinRoomRequest is the validated input to JoinRoom.
type JoinRoomRequest struct {
	RoomID      string
	PlayerName  string
	PlayerEmoji string
	DeviceID    string
}

// RoomSummary is one row of GET /rooms.
type RoomSummary struct {
	ID           string `json:"id"`
	OwnerName    string `json:"owner_name"`
	OwnerEmoji   string `json:"owner_emoji"`
	SBAmount     int64  `json:"sb_amount"`
	BBAmount     int64  `json:"bb_amount"`
	InitialChips int64  `json:"initial_chips"`
	PlayerCount  int    `json:"player_count"`
	Status       string `json:"status"`
}

// Service is the pure admission surface: everything it touches is the Room
// Registry, the Snapshot Store (indirectly, through the registry), and the
// device→room LRU cache. It never holds a room lock itself — every mutation
// is routed through the target room's Actor so admission never races the
// room's own command loop.
type Service struct {
	mu        sync.Mutex
	reg       *registry.Registry
	devices   *cache.DeviceRoomCache
	roomIDGen func() string
	roomIDs   sync.Map // deviceID -> roomID, backstop for devices cache eviction
}

func NewService(reg *registry.Registry, devices *cache.DeviceRoomCache, roomIDGen func() string) *Service {
	return &Service{reg: reg, devices: devices, roomIDGen: roomIDGen}
}

func validateConfig(req CreateRoomRequest) error {
	if req.SBAmount <= 0 {
		return errors.New("sb_amount must be positive")
	}
	bb := req.SBAmount * 2
	if req.InitialChips < 2*bb {
		return errors.New("initial_chips must be at least 2x the big blind")
	}
	if req.RebuyMinimum < 0 {
		return errors.New("rebuy_minimum must not be negative")
	}
	if req.MaxChips != 0 && req.MaxChips <= req.InitialChips {
		return errors.New("max_chips must be zero (unlimited) or greater than initial_chips")
	}
	return nil
}

// CreateRoom validates cfg, allocates a room id, creates the owner as the
// first player seated at seat 0, and opens the room's Actor.
func (s *Service) CreateRoom(ctx context.Context, req CreateRoomRequest) (roomID, playerID string, err error) {
	if err := validateConfig(req); err != nil {
		return "", "", &engine.Error{Kind: engine.KindValidation, Message: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roomID = s.roomIDGen()
	playerID = newPlayerID()

	room := engine.NewRoom(roomID, playerID, engine.RoomConfig{
		SBAmount:     req.SBAmount,
		InitialChips: req.InitialChips,
		RebuyMinimum: req.RebuyMinimum,
		MaxChips:     req.MaxChips,
		HandInterval: req.HandInterval,
	})
	room, _, aerr := engine.AddPlayer(room, playerID, req.DeviceID, req.PlayerName, req.PlayerEmoji, req.InitialChips)
	if aerr != nil {
		return "", "", aerr
	}
	room = engine.SeatOwner(room, playerID)

	if _, err := s.reg.Open(room); err != nil {
		return "", "", errors.Wrap(err, "open new room")
	}

	if err := s.devices.Put(req.DeviceID, roomID); err != nil {
		admissionLogger.Error().Err(err).Msg("failed to index device in room cache")
	}
	s.roomIDs.Store(req.DeviceID, roomID)

	admissionLogger.Info().Str(logging.RoomIDKey, roomID).Str(logging.PlayerIDKey, playerID).Msg("room created")
	return roomID, playerID, nil
}

// JoinRoom returns the existing player (matched by device id) if the
// device has already joined this room, otherwise creates a new, unseated
// player via the room's Actor.
func (s *Service) JoinRoom(ctx context.Context, req JoinRoomRequest) (playerID string, err error) {
	a, ok := s.reg.Lookup(req.RoomID)
	if !ok {
		return "", &engine.Error{Kind: engine.KindNotFound, Message: "room not found"}
	}

	res := a.Send(actor.Command{Kind: actor.KindHeartbeat})
	if res.Err != nil {
		return "", res.Err
	}
	for _, p := range res.Room.Players {
		if p.DeviceID == req.DeviceID {
			return p.PlayerID, nil
		}
	}

	playerID = newPlayerID()
	joinRes := a.Send(actor.Command{
		Kind:     actor.KindJoin,
		PlayerID: playerID,
		Join: actor.JoinPayload{
			DeviceID: req.DeviceID,
			Name:     req.PlayerName,
			Emoji:    req.PlayerEmoji,
			Chips:    res.Room.InitialChips,
		},
	})
	if joinRes.Err != nil {
		return "", joinRes.Err
	}

	if err := s.devices.Put(req.DeviceID, req.RoomID); err != nil {
		admissionLogger.Error().Err(err).Msg("failed to index device in room cache")
	}
	s.roomIDs.Store(req.DeviceID, req.RoomID)
	return playerID, nil
}

// LookupActiveRoom returns the room id deviceID is currently associated
// with, checking the LRU first and falling back to the backstop map (the
// LRU can evict an entry that is still authoritative in the room itself).
func (s *Service) LookupActiveRoom(deviceID string) (roomID string, ok bool) {
	if id, found := s.devices.Lookup(deviceID); found {
		return id, true
	}
	if v, found := s.roomIDs.Load(deviceID); found {
		return v.(string), true
	}
	return "", false
}

// LeaveRoom removes playerID's record from room, provided the room isn't
// mid-hand. The REST route identifies the player directly
// (`/rooms/{id}/leave/{player_id}`); the device cache entry, if any, is
// cleaned up as a side effect so a stale entry doesn't outlive the player.
func (s *Service) LeaveRoom(ctx context.Context, roomID, playerID string) error {
	a, ok := s.reg.Lookup(roomID)
	if !ok {
		return &engine.Error{Kind: engine.KindNotFound, Message: "room not found"}
	}
	res := a.Send(actor.Command{Kind: actor.KindHeartbeat})
	if res.Err != nil {
		return res.Err
	}
	player, ok := res.Room.Players[playerID]
	if !ok {
		return &engine.Error{Kind: engine.KindNotFound, Message: "player not found in room"}
	}
	deviceID := player.DeviceID

	leaveRes := a.Send(actor.Command{Kind: actor.KindLeave, PlayerID: playerID})
	if leaveRes.Err != nil {
		return leaveRes.Err
	}
	s.devices.Remove(deviceID)
	s.roomIDs.Delete(deviceID)
	return nil
}

// ListRooms summarizes every open room still accepting players for GET
// /rooms. Matches the original's get_rooms: rooms past the waiting lobby are
// omitted (a table that's already playing isn't something a new player can
// join into), and player_count reports players currently online rather than
// every seat the room has ever assigned, since a disconnected player isn't
// someone a prospective joiner should be counted against.
func (s *Service) ListRooms() []RoomSummary {
	var out []RoomSummary
	for _, roomID := range s.reg.OpenRoomIDs() {
		a, ok := s.reg.Lookup(roomID)
		if !ok {
			continue
		}
		res := a.Send(actor.Command{Kind: actor.KindHeartbeat})
		if res.Err != nil || res.Room == nil {
			continue
		}
		room := res.Room
		if room.Status != engine.RoomWaiting {
			continue
		}

		onlineCount := 0
		for _, p := range room.Players {
			if p.IsConnected {
				onlineCount++
			}
		}

		owner := room.Players[room.OwnerID]
		summary := RoomSummary{
			ID:           room.ID,
			SBAmount:     room.SBAmount,
			BBAmount:     room.BBAmount,
			InitialChips: room.InitialChips,
			PlayerCount:  onlineCount,
			Status:       string(room.Status),
		}
		if owner != nil {
			summary.OwnerName = owner.Name
			summary.OwnerEmoji = owner.Emoji
		}
		out = append(out, summary)
	}
	return out
}
