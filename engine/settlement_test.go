package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Seed scenario 2, continued: proposer picks P3 for both pots; after full
// confirmation P3 receives 500, P1/P2 receive 0.
func TestSettlementRatificationDistributesPots(t *testing.T) {
	room := threeWayAllInRoom()
	room.Hand.Pots = buildPots(room)

	room, events, err := ProposeSettlement(room, "P3", map[string][]string{
		"pot-0": {"P3"},
		"pot-1": {"P3"},
	})
	require.NoError(t, err)
	require.Empty(t, events)
	require.NotNil(t, room.Hand.SettlementProposal)
	require.True(t, room.Hand.SettlementProposal.ConfirmedBy.Has("P3"))

	room, events, err = ConfirmSettlement(room, "P1")
	require.NoError(t, err)
	require.Empty(t, events)

	room, events, err = ConfirmSettlement(room, "P2")
	require.NoError(t, err)
	require.NotEmpty(t, events)

	require.Equal(t, RoomWaiting, room.Status)
	require.Nil(t, room.Hand)
	require.Equal(t, int64(500), room.Players["P3"].Chips)
	require.Equal(t, int64(0), room.Players["P1"].Chips)
	require.Equal(t, int64(0), room.Players["P2"].Chips)
}

func TestProposeSettlementRejectsWinnerNotEligibleForPot(t *testing.T) {
	room := threeWayAllInRoom()
	room.Hand.Pots = buildPots(room)

	_, _, err := ProposeSettlement(room, "P3", map[string][]string{
		"pot-0": {"P3"},
		"pot-1": {"P1"},
	})
	require.Error(t, err)
	require.Equal(t, KindValidation, err.(*Error).Kind)
}

func TestProposeSettlementRequiresEveryPotCovered(t *testing.T) {
	room := threeWayAllInRoom()
	room.Hand.Pots = buildPots(room)

	_, _, err := ProposeSettlement(room, "P3", map[string][]string{
		"pot-0": {"P3"},
	})
	require.Error(t, err)
}

// Seed scenario 4: reject discards the proposal; re-propose and confirm
// splits the pot with the remainder going to the player closer to the
// dealer's left.
func TestRejectDiscardsProposalThenRepropose(t *testing.T) {
	room := &Room{
		Status:  RoomPlaying,
		Players: map[string]*Player{},
		Seats:   [SEATS]string{"A", "B"},
	}
	room.Players["A"] = &Player{PlayerID: "A", Seat: 0, Status: StatusActive}
	room.Players["B"] = &Player{PlayerID: "B", Seat: 1, Status: StatusActive}
	room.Hand = &HandState{
		Phase:       PhaseShowdown,
		DealerSeat:  0,
		Pot:         101,
		ActionOrder: []string{"B", "A"},
		Pots:        []*Pot{{ID: "pot-0", Amount: 101, EligiblePlayers: NewStringSet("A", "B")}},
	}

	room, _, err := ProposeSettlement(room, "A", map[string][]string{"pot-0": {"A"}})
	require.NoError(t, err)

	room, _, err = RejectSettlement(room, "B")
	require.NoError(t, err)
	require.Nil(t, room.Hand.SettlementProposal)

	room, _, err = ProposeSettlement(room, "A", map[string][]string{"pot-0": {"A", "B"}})
	require.NoError(t, err)

	room, events, err := ConfirmSettlement(room, "B")
	require.NoError(t, err)
	require.NotEmpty(t, events)

	require.Equal(t, int64(51), room.Players["B"].Chips)
	require.Equal(t, int64(50), room.Players["A"].Chips)
}

func TestConfirmRejectedWithoutOpenProposal(t *testing.T) {
	room := threeWayAllInRoom()
	room.Hand.Pots = buildPots(room)
	_, _, err := ConfirmSettlement(room, "P1")
	require.Error(t, err)
}

func TestProposeRejectedOutsideShowdown(t *testing.T) {
	room := threeWayAllInRoom()
	room.Hand.Phase = PhaseRiver
	room.Hand.Pots = buildPots(room)
	_, _, err := ProposeSettlement(room, "P3", map[string][]string{"pot-0": {"P3"}, "pot-1": {"P3"}})
	require.Error(t, err)
}

func TestProposeRejectedForFoldedPlayer(t *testing.T) {
	room := threeWayAllInRoom()
	room.Hand.Pots = buildPots(room)
	room.Players["P1"].Status = StatusFolded
	_, _, err := ProposeSettlement(room, "P1", map[string][]string{"pot-0": {"P3"}, "pot-1": {"P3"}})
	require.Error(t, err)
}
