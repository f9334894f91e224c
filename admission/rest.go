package admission

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pokerledger/server/engine"
	"github.com/pokerledger/server/logging"
)

var restLogger = logging.GetZeroLogger("admission::rest", io.Discard)

type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func statusFor(err error) int {
	if ee, ok := err.(*engine.Error); ok {
		switch ee.Kind {
		case engine.KindNotFound:
			return http.StatusNotFound
		case engine.KindValidation:
			return http.StatusBadRequest
		case engine.KindConflict:
			return http.StatusConflict
		default:
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), appError{Code: statusFor(err), Message: err.Error()})
	c.Error(err)
}

// createRoomBody is the validated POST /rooms body.
type createRoomBody struct {
	PlayerName   string `json:"player_name" binding:"required"`
	PlayerEmoji  string `json:"player_emoji"`
	DeviceID     string `json:"device_id" binding:"required"`
	SBAmount     int64  `json:"sb_amount" binding:"required,gt=0"`
	InitialChips int64  `json:"initial_chips" binding:"required,gt=0"`
	RebuyMinimum int64  `json:"rebuy_minimum" binding:"gte=0"`
	HandInterval int    `json:"hand_interval"`
	MaxChips     int64  `json:"max_chips" binding:"gte=0"`
}

type joinRoomBody struct {
	RoomID      string `json:"room_id" binding:"required"`
	PlayerName  string `json:"player_name" binding:"required"`
	PlayerEmoji string `json:"player_emoji"`
	DeviceID    string `json:"device_id" binding:"required"`
}

// RegisterRoutes wires the admission surface onto r, grounded on the
// reference server's RunRestServer route table.
func RegisterRoutes(r *gin.Engine, svc *Service) {
	r.POST("/rooms", createRoom(svc))
	r.POST("/rooms/join", joinRoom(svc))
	r.GET("/rooms", listRooms(svc))
	r.GET("/player-room/:player_id", lookupActiveRoom(svc))
	r.POST("/rooms/:id/leave/:player_id", leaveRoom(svc))
	r.GET("/random-profile", randomProfile)
}

func createRoom(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body createRoomBody
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, &engine.Error{Kind: engine.KindValidation, Message: err.Error()})
			return
		}
		roomID, playerID, err := svc.CreateRoom(c.Request.Context(), CreateRoomRequest{
			PlayerName:   body.PlayerName,
			PlayerEmoji:  body.PlayerEmoji,
			DeviceID:     body.DeviceID,
			SBAmount:     body.SBAmount,
			InitialChips: body.InitialChips,
			RebuyMinimum: body.RebuyMinimum,
			HandInterval: body.HandInterval,
			MaxChips:     body.MaxChips,
		})
		if err != nil {
			restLogger.Error().Err(err).Msg("create_room failed")
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room_id": roomID, "player_id": playerID})
	}
}

func joinRoom(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body joinRoomBody
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, &engine.Error{Kind: engine.KindValidation, Message: err.Error()})
			return
		}
		playerID, err := svc.JoinRoom(c.Request.Context(), JoinRoomRequest{
			RoomID:      body.RoomID,
			PlayerName:  body.PlayerName,
			PlayerEmoji: body.PlayerEmoji,
			DeviceID:    body.DeviceID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"room_id": body.RoomID, "player_id": playerID})
	}
}

func listRooms(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.ListRooms())
	}
}

func lookupActiveRoom(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := c.Param("player_id")
		roomID, ok := svc.LookupActiveRoom(deviceID)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"room_id": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"room_id": roomID})
	}
}

func leaveRoom(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("id")
		deviceID := c.Param("player_id")
		if err := svc.LeaveRoom(c.Request.Context(), roomID, deviceID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func randomProfile(c *gin.Context) {
	c.JSON(http.StatusOK, RandomProfile())
}
