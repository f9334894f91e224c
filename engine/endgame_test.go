package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEndGameStandingsSumToZero(t *testing.T) {
	room := NewRoom("room-1", "A", RoomConfig{SBAmount: 10, InitialChips: 500})
	var err error
	room, _, err = AddPlayer(room, "A", "dev-A", "A", "🦊", 500)
	require.NoError(t, err)
	room = SeatOwner(room, "A")
	room, _, err = AddPlayer(room, "B", "dev-B", "B", "🐸", 500)
	require.NoError(t, err)
	room, _, err = Sit(room, "B", 1)
	require.NoError(t, err)

	// A won a pot off B: A now has 700, B has 300.
	room.Players["A"].Chips = 700
	room.Players["B"].Chips = 300

	room, events, err := EndGame(room, "A")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, RoomFinished, room.Status)

	detail := events[0].Detail.(GameEndedDetail)
	var sum int64
	for _, s := range detail.Standings {
		sum += s.Net
	}
	require.Equal(t, int64(0), sum)
}

func TestEndGameStandingsAccountForRebuysAndCashouts(t *testing.T) {
	room := NewRoom("room-1", "A", RoomConfig{SBAmount: 10, InitialChips: 500, RebuyMinimum: 100, MaxChips: 2000})
	var err error
	room, _, err = AddPlayer(room, "A", "dev-A", "A", "🦊", 50)
	require.NoError(t, err)
	room = SeatOwner(room, "A")

	room, _, err = Rebuy(room, "A")
	require.NoError(t, err)
	require.Equal(t, int64(550), room.Players["A"].Chips)

	room.Players["A"].Chips = 2500
	room, _, err = Cashout(room, "A")
	require.NoError(t, err)
	require.Equal(t, int64(2000), room.Players["A"].Chips)

	room, events, err := EndGame(room, "A")
	require.NoError(t, err)
	standing := events[0].Detail.(GameEndedDetail).Standings[0]
	// net = chips + cashouts*initial - rebuys*initial - initial
	//     = 2000 + 1*500 - 1*500 - 500 = 1500
	require.Equal(t, int64(1500), standing.Net)
}

func TestEndGameRejectsNonOwner(t *testing.T) {
	room := newTestRoom()
	_, _, err := EndGame(room, "not-the-owner")
	require.Error(t, err)
}

func TestEndGameRejectsWhileHandInProgress(t *testing.T) {
	room := seatPlayers(t, 10, 1000, 1000)
	room, _, err := HandStart(room)
	require.NoError(t, err)
	_, _, err = EndGame(room, "A")
	require.Error(t, err)
}
