package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Seed scenario 2: three players, stacks 100/200/1000, blinds 10/20,
// all-in cascade P1 100 / P2 200 / P3 calls 200.
func threeWayAllInRoom() *Room {
	room := &Room{
		ID:      "room-1",
		Status:  RoomPlaying,
		Players: map[string]*Player{},
		Seats:   [SEATS]string{"P1", "P2", "P3"},
	}
	room.Players["P1"] = &Player{PlayerID: "P1", Seat: 0, Status: StatusAllIn, TotalBetThisHand: 100}
	room.Players["P2"] = &Player{PlayerID: "P2", Seat: 1, Status: StatusAllIn, TotalBetThisHand: 200}
	room.Players["P3"] = &Player{PlayerID: "P3", Seat: 2, Status: StatusActive, TotalBetThisHand: 200}
	room.Hand = &HandState{
		Phase:       PhaseShowdown,
		DealerSeat:  0,
		Pot:         500,
		ActionOrder: []string{"P1", "P2", "P3"},
	}
	return room
}

func TestBuildPotsThreeWayAllIn(t *testing.T) {
	room := threeWayAllInRoom()
	pots := buildPots(room)

	require.Len(t, pots, 2)
	require.Equal(t, int64(300), pots[0].Amount)
	require.True(t, pots[0].EligiblePlayers.Equal(NewStringSet("P1", "P2", "P3")))
	require.Equal(t, int64(200), pots[1].Amount)
	require.True(t, pots[1].EligiblePlayers.Equal(NewStringSet("P2", "P3")))

	// Higher strata have a subset of the eligibles of lower ones.
	for k := 1; k < len(pots); k++ {
		for id := range pots[k].EligiblePlayers {
			require.True(t, pots[k-1].EligiblePlayers.Has(id))
		}
	}

	var sum int64
	for _, p := range pots {
		sum += p.Amount
	}
	require.Equal(t, room.Hand.Pot, sum)
}

func TestBuildPotsExcludesFoldedContributionsFromEligibility(t *testing.T) {
	room := &Room{
		Players: map[string]*Player{
			"A": {PlayerID: "A", Status: StatusFolded, TotalBetThisHand: 60},
			"B": {PlayerID: "B", Status: StatusActive, TotalBetThisHand: 60},
		},
		Hand: &HandState{ActionOrder: []string{"A", "B"}},
	}
	pots := buildPots(room)
	require.Len(t, pots, 1)
	require.Equal(t, int64(120), pots[0].Amount)
	require.True(t, pots[0].EligiblePlayers.Equal(NewStringSet("B")))
}

func TestSplitPotEvenDivision(t *testing.T) {
	hand := &HandState{ActionOrder: []string{"A", "B"}}
	pot := &Pot{ID: "pot-0", Amount: 100}
	shares := splitPot(hand, pot, []string{"A", "B"})
	require.Equal(t, int64(50), shares["A"])
	require.Equal(t, int64(50), shares["B"])
}

// Split pot with odd remainder: the extra chip goes to the first winner in
// action_order (which is kept rotated to start left of the dealer).
func TestSplitPotOddRemainderGoesToFirstInActionOrder(t *testing.T) {
	hand := &HandState{ActionOrder: []string{"B", "A"}}
	pot := &Pot{ID: "pot-0", Amount: 101}
	shares := splitPot(hand, pot, []string{"A", "B"})
	require.Equal(t, int64(51), shares["B"])
	require.Equal(t, int64(50), shares["A"])
}
