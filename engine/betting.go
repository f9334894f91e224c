package engine

// isBettingPhase reports whether p is a phase in which Action is legal.
func isBettingPhase(p Phase) bool {
	switch p {
	case PhasePreflop, PhaseFlop, PhaseTurn, PhaseRiver:
		return true
	}
	return false
}

// Action applies one betting-turn command. amount is only consulted for
// ActionRaise, and is the total ("raise to T"), not an increment.
func Action(room *Room, playerID string, kind ActionKind, amount int64) (*Room, []Event, error) {
	if room.Status != RoomPlaying || room.Hand == nil || !isBettingPhase(room.Hand.Phase) {
		return nil, nil, errIllegal("no betting is open right now")
	}
	hand := room.Hand
	if hand.CurrentPlayerID == "" || playerID != hand.CurrentPlayerID {
		return nil, nil, errNotYourTurn("it is not player %s's turn", playerID)
	}
	_, ok := room.Players[playerID]
	if !ok {
		return nil, nil, errNotFound("player %s not found", playerID)
	}

	out := room.Clone()
	h := out.Hand
	p := out.Players[playerID]

	switch kind {
	case ActionFold:
		applyFold(p)
	case ActionCheck:
		if p.CurrentBet != h.CurrentBet {
			return nil, nil, errIllegal("cannot check, facing a bet of %d", h.CurrentBet)
		}
		p.HasActedThisStreet = true
		p.LastAction = "check"
	case ActionCall:
		if h.CurrentBet <= p.CurrentBet {
			return nil, nil, errIllegal("nothing to call")
		}
		applyCall(out, h, p)
	case ActionRaise:
		if err := applyRaise(out, h, p, amount); err != nil {
			return nil, nil, err
		}
	case ActionAllIn:
		if p.Chips <= 0 {
			return nil, nil, errIllegal("player %s has no chips to go all in with", playerID)
		}
		applyAllIn(out, h, p)
	default:
		return nil, nil, errValidation("unknown action %q", kind)
	}

	events := advance(out)
	return out, events, nil
}

func applyFold(p *Player) {
	p.Status = StatusFolded
	p.HasActedThisStreet = true
	p.LastAction = "fold"
}

func applyCall(room *Room, h *HandState, p *Player) {
	diff := h.CurrentBet - p.CurrentBet
	if diff > p.Chips {
		diff = p.Chips
	}
	p.Chips -= diff
	p.CurrentBet += diff
	p.TotalBetThisHand += diff
	h.Pot += diff
	p.HasActedThisStreet = true
	if p.Chips == 0 {
		p.Status = StatusAllIn
		p.LastAction = "all_in"
	} else {
		p.LastAction = "call"
	}
}

func applyRaise(room *Room, h *HandState, p *Player, amount int64) error {
	minTo := h.CurrentBet + room.BBAmount
	maxTo := p.Chips + p.CurrentBet
	if amount < minTo {
		return errIllegal("raise to %d is below the minimum of %d", amount, minTo)
	}
	if amount > maxTo {
		return errIllegal("raise to %d exceeds player's covered amount of %d", amount, maxTo)
	}
	if !h.ActionReopened && p.HasActedThisStreet {
		return errIllegal("action is not reopened, player %s may only call or fold", p.PlayerID)
	}

	diff := amount - p.CurrentBet
	p.Chips -= diff
	p.CurrentBet = amount
	p.TotalBetThisHand += diff
	h.Pot += diff
	h.CurrentBet = amount
	h.LastRaiserID = p.PlayerID
	h.ActionReopened = true
	reopenOthers(room, h, p.PlayerID)

	if p.Chips == 0 {
		p.Status = StatusAllIn
		p.LastAction = "all_in"
	} else {
		p.LastAction = "raise"
	}
	p.HasActedThisStreet = true
	return nil
}

func applyAllIn(room *Room, h *HandState, p *Player) {
	contribution := p.Chips
	resulting := p.CurrentBet + contribution

	p.Chips = 0
	p.CurrentBet = resulting
	p.TotalBetThisHand += contribution
	h.Pot += contribution
	p.Status = StatusAllIn
	p.LastAction = "all_in"
	p.HasActedThisStreet = true

	if resulting >= h.CurrentBet+room.BBAmount {
		// Full raise: reopens action for everyone else still live.
		h.CurrentBet = resulting
		h.LastRaiserID = p.PlayerID
		h.ActionReopened = true
		reopenOthers(room, h, p.PlayerID)
	} else if resulting > h.CurrentBet {
		// Short all-in: raises the bar to match, but does not reopen
		// raising for players who already acted at the old bet level.
		h.CurrentBet = resulting
		h.ActionReopened = false
	}
	// resulting <= h.CurrentBet: a short all-in call, no change to current_bet.
}

// reopenOthers marks every not-folded, not-all-in player other than
// `except` as needing to act again this street.
func reopenOthers(room *Room, h *HandState, except string) {
	for _, id := range h.ActionOrder {
		if id == except {
			continue
		}
		p := room.Players[id]
		if p.Status == StatusFolded || p.Status == StatusAllIn {
			continue
		}
		p.HasActedThisStreet = false
	}
}

func nonFoldedPlayers(room *Room) []*Player {
	out := make([]*Player, 0, len(room.Hand.ActionOrder))
	for _, id := range room.Hand.ActionOrder {
		p := room.Players[id]
		if p.Status != StatusFolded {
			out = append(out, p)
		}
	}
	return out
}

// needsToAct is a non-folded, non-all-in player still in the hand.
func needsToAct(p *Player) bool {
	return p.Status != StatusFolded && p.Status != StatusAllIn
}

// streetComplete reports whether every player who still needs to act has
// acted and matched the current bet.
func streetComplete(room *Room) bool {
	h := room.Hand
	for _, id := range h.ActionOrder {
		p := room.Players[id]
		if !needsToAct(p) {
			continue
		}
		if !p.HasActedThisStreet || p.CurrentBet != h.CurrentBet {
			return false
		}
	}
	return true
}

// advance is called after every betting action to decide whether the turn
// passes to the next player, the street rolls over, or the hand ends.
// HandStart does not call it; it sets the first preflop actor directly.
func advance(room *Room) []Event {
	h := room.Hand
	live := nonFoldedPlayers(room)

	if len(live) == 1 {
		return awardUncalledPot(room, live[0])
	}

	if streetComplete(room) {
		return rollStreet(room)
	}

	// Find the next player (cyclically) who still needs to act.
	n := len(h.ActionOrder)
	for i := 1; i <= n; i++ {
		idx := (h.ActionIndex + i) % n
		id := h.ActionOrder[idx]
		p := room.Players[id]
		if needsToAct(p) && (!p.HasActedThisStreet || p.CurrentBet != h.CurrentBet) {
			h.ActionIndex = idx
			h.CurrentPlayerID = id
			return nil
		}
	}
	// No one left who can act (everyone remaining is all-in): run the board
	// out without further betting.
	return rollStreet(room)
}

func awardUncalledPot(room *Room, winner *Player) []Event {
	h := room.Hand
	pot := h.Pot
	winner.Chips += pot
	h.Phase = PhaseHandEnd
	h.CurrentPlayerID = ""
	h.Pots = buildPots(room)
	events := []Event{
		{Kind: EventPhaseChange, Detail: PhaseChangeDetail{Phase: PhaseHandEnd}},
		{Kind: EventSingleWinner, Detail: SingleWinnerDetail{
			Winner:     winner.PlayerID,
			WinnerName: winner.Name,
			Pot:        pot,
		}},
	}
	events = append(events, finishHand(room)...)
	return events
}

// rollStreet moves the hand to the next phase: preflop->flop->turn->river->
// showdown. It rebuilds pots from total_bet_this_hand (never incrementally
// mutated mid-street, per spec §9) and sets the next actor, if any.
func rollStreet(room *Room) []Event {
	h := room.Hand

	for _, id := range h.ActionOrder {
		p := room.Players[id]
		p.CurrentBet = 0
		p.HasActedThisStreet = false
	}
	h.Pots = buildPots(room)
	h.ActionReopened = true
	h.LastRaiserID = ""

	switch h.Phase {
	case PhasePreflop:
		h.Phase = PhaseFlop
	case PhaseFlop:
		h.Phase = PhaseTurn
	case PhaseTurn:
		h.Phase = PhaseRiver
	case PhaseRiver:
		h.Phase = PhaseShowdown
	}

	events := []Event{{Kind: EventPhaseChange, Detail: PhaseChangeDetail{Phase: h.Phase}}}

	// action_order is rotated so index 0 is the first player to act this
	// street (or, at showdown, the first live player left of the dealer —
	// used as the anchor for odd-chip remainder distribution).
	anchor := firstLiveFromDealer(room)
	if anchor != "" {
		h.ActionOrder = rotateToStart(h.ActionOrder, anchor)
	}
	h.ActionIndex = 0

	if h.Phase == PhaseShowdown {
		h.CurrentPlayerID = ""
		return events
	}

	actor := firstActiveFromDealer(room)
	if actor == "" {
		// Everyone remaining is all-in: keep rolling streets to showdown
		// with no further betting, per §4.1.4.
		events = append(events, rollStreet(room)...)
		return events
	}

	h.CurrentPlayerID = actor
	h.ActionIndex = indexOf(h.ActionOrder, actor)
	return events
}

// firstActiveFromDealer returns the first non-folded, non-all-in player
// clockwise from the dealer, per spec §4.1.4's post-flop action order. It
// returns "" if no one remaining can act (everyone live is all-in).
func firstActiveFromDealer(room *Room) string {
	h := room.Hand
	seat := h.DealerSeat
	for i := 1; i <= SEATS; i++ {
		seat = (seat + 1) % SEATS
		id := room.Seats[seat]
		if id == "" {
			continue
		}
		if p, ok := room.Players[id]; ok && needsToAct(p) {
			return id
		}
	}
	return ""
}

// firstLiveFromDealer returns the first non-folded player (active or
// all-in) clockwise from the dealer, used as the rotation anchor even when
// nobody can actually act anymore.
func firstLiveFromDealer(room *Room) string {
	h := room.Hand
	seat := h.DealerSeat
	for i := 1; i <= SEATS; i++ {
		seat = (seat + 1) % SEATS
		id := room.Seats[seat]
		if id == "" {
			continue
		}
		if p, ok := room.Players[id]; ok && p.Status != StatusFolded {
			return id
		}
	}
	return ""
}

// rotateToStart returns order rotated so that startID is at index 0,
// keeping everyone's relative order. If startID is absent, order is
// returned unchanged.
func rotateToStart(order []string, startID string) []string {
	idx := indexOf(order, startID)
	if idx <= 0 {
		return order
	}
	out := make([]string, len(order))
	copy(out, order[idx:])
	copy(out[len(order)-idx:], order[:idx])
	return out
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return 0
}
