package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Seed scenario 1, continued: SB calls, BB checks, street rolls to flop
// with pot=40.
func TestBettingHeadsUpCallCheckRollsToFlop(t *testing.T) {
	room := seatPlayers(t, 10, 1000, 1000)
	room, _, err := HandStart(room)
	require.NoError(t, err)
	require.Equal(t, "A", room.Hand.CurrentPlayerID)

	room, events, err := Action(room, "A", ActionCall, 0)
	require.NoError(t, err)
	require.Empty(t, events)
	require.Equal(t, "B", room.Hand.CurrentPlayerID)
	require.Equal(t, int64(20), room.Players["A"].CurrentBet)

	room, events, err = Action(room, "B", ActionCheck, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, PhaseFlop, room.Hand.Phase)
	require.Equal(t, int64(40), room.Hand.Pot)
	require.Equal(t, int64(0), room.Players["A"].CurrentBet)
	require.Equal(t, int64(0), room.Players["B"].CurrentBet)
}

func TestActionRejectsWrongTurn(t *testing.T) {
	room := seatPlayers(t, 10, 1000, 1000)
	room, _, err := HandStart(room)
	require.NoError(t, err)

	_, _, err = Action(room, "B", ActionCheck, 0)
	require.Error(t, err)
	require.Equal(t, KindNotYourTurn, err.(*Error).Kind)
}

func TestCheckRejectedWhenFacingABet(t *testing.T) {
	room := seatPlayers(t, 10, 1000, 1000)
	room, _, err := HandStart(room)
	require.NoError(t, err)

	_, _, err = Action(room, "A", ActionCheck, 0)
	require.Error(t, err)
}

// Seed scenario 3: four players preflop, three fold to the BB.
func TestFoldVictoryAwardsUncalledPotImmediately(t *testing.T) {
	room := seatPlayers(t, 10, 1000, 1000, 1000, 1000)
	room, _, err := HandStart(room)
	require.NoError(t, err)
	// dealer=A(0), sb=B(1), bb=C(2); action_order = [D, A, B, C].
	require.Equal(t, []string{"D", "A", "B", "C"}, room.Hand.ActionOrder)

	for room.Hand != nil {
		cur := room.Hand.CurrentPlayerID
		room, _, err = Action(room, cur, ActionFold, 0)
		require.NoError(t, err)
	}

	require.Equal(t, RoomWaiting, room.Status)
	require.Nil(t, room.Hand)
	// BB (C) wins the uncalled pot of sb(10)+bb(20)=30 without acting.
	require.Equal(t, int64(1010), room.Players["C"].Chips)
}

func TestMinRaiseEnforced(t *testing.T) {
	room := seatPlayers(t, 10, 1000, 1000, 1000)
	room, _, err := HandStart(room)
	require.NoError(t, err)

	cur := room.Hand.CurrentPlayerID
	_, _, err = Action(room, cur, ActionRaise, 25)
	require.Error(t, err)

	room, _, err = Action(room, cur, ActionRaise, 40)
	require.NoError(t, err)
	require.Equal(t, int64(40), room.Hand.CurrentBet)
}

// A short (under-min-raise) all-in raises current_bet to match but does not
// reopen action for a player who already acted and matched the previous
// current_bet this street.
func TestShortAllInDoesNotReopenAction(t *testing.T) {
	room := seatPlayers(t, 10, 1000, 1000, int64(35))
	room, _, err := HandStart(room)
	require.NoError(t, err)
	// dealer=0(A) sb=1(B) bb=2(C); C posts bb=20, leaving 15 chips.
	require.Equal(t, []string{"A", "B", "C"}, room.Hand.ActionOrder)
	require.Equal(t, int64(15), room.Players["C"].Chips)

	room, _, err = Action(room, "A", ActionCall, 0)
	require.NoError(t, err)
	room, _, err = Action(room, "B", ActionCall, 0)
	require.NoError(t, err)
	require.Equal(t, "C", room.Hand.CurrentPlayerID)

	room, _, err = Action(room, "C", ActionAllIn, 0)
	require.NoError(t, err)
	require.Equal(t, int64(35), room.Hand.CurrentBet)
	require.False(t, room.Hand.ActionReopened)
	require.Equal(t, "A", room.Hand.CurrentPlayerID)

	_, _, err = Action(room, "A", ActionRaise, 55)
	require.Error(t, err)
	require.Equal(t, KindIllegal, err.(*Error).Kind)

	room, _, err = Action(room, "A", ActionCall, 0)
	require.NoError(t, err)
	require.Equal(t, int64(35), room.Players["A"].CurrentBet)
}

func TestFullRaiseAllInReopensAction(t *testing.T) {
	room := seatPlayers(t, 10, 1000, 1000, 1000)
	room, _, err := HandStart(room)
	require.NoError(t, err)

	first := room.Hand.CurrentPlayerID
	room, _, err = Action(room, first, ActionRaise, 60)
	require.NoError(t, err)

	second := room.Hand.CurrentPlayerID
	room.Players[second].Chips = 90
	room, _, err = Action(room, second, ActionAllIn, 0)
	require.NoError(t, err)
	// second's resulting contribution (10 already in + 90) is 100, at least
	// the 60 current_bet plus the 20 big blind: a full raise, so current_bet
	// moves to 100 and the earlier raiser must act again.
	require.Equal(t, int64(100), room.Hand.CurrentBet)
	require.True(t, room.Hand.ActionReopened)
	require.False(t, room.Players[first].HasActedThisStreet)
}
