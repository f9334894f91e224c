package engine

// nonFoldedSeated returns the ids of every currently seated player who has
// not folded this hand — the universe settlement consensus is measured
// against.
func nonFoldedSeated(room *Room) StringSet {
	out := NewStringSet()
	for _, id := range room.Seats {
		if id == "" {
			continue
		}
		if p := room.Players[id]; p.Status != StatusFolded {
			out.Add(id)
		}
	}
	return out
}

func isNonFoldedSeated(room *Room, playerID string) bool {
	if playerID == "" {
		return false
	}
	p, ok := room.Players[playerID]
	if !ok || p.Seat == -1 {
		return false
	}
	return p.Status != StatusFolded
}

// ProposeSettlement opens (or replaces) a settlement proposal at showdown.
// Every pot in hand.pots must have a non-empty winner subset drawn from
// that pot's own eligible_players.
func ProposeSettlement(room *Room, playerID string, potWinners map[string][]string) (*Room, []Event, error) {
	if room.Status != RoomPlaying || room.Hand == nil || room.Hand.Phase != PhaseShowdown {
		return nil, nil, errIllegal("settlement can only be proposed at showdown")
	}
	if !isNonFoldedSeated(room, playerID) {
		return nil, nil, errIllegal("player %s cannot propose a settlement", playerID)
	}

	pots := make(map[string]*Pot, len(room.Hand.Pots))
	for _, p := range room.Hand.Pots {
		pots[p.ID] = p
	}
	for _, pot := range room.Hand.Pots {
		winners, ok := potWinners[pot.ID]
		if !ok || len(winners) == 0 {
			return nil, nil, errValidation("pot %s needs at least one winner", pot.ID)
		}
		for _, w := range winners {
			if !pot.EligiblePlayers.Has(w) {
				return nil, nil, errValidation("player %s is not eligible for pot %s", w, pot.ID)
			}
		}
	}
	for potID := range potWinners {
		if _, ok := pots[potID]; !ok {
			return nil, nil, errValidation("unknown pot %s", potID)
		}
	}

	out := room.Clone()
	copied := make(map[string][]string, len(potWinners))
	for k, v := range potWinners {
		copied[k] = append([]string(nil), v...)
	}
	out.Hand.SettlementProposal = &SettlementProposal{
		ProposerID:  playerID,
		PotWinners:  copied,
		ConfirmedBy: NewStringSet(playerID),
	}
	return out, nil, nil
}

// ConfirmSettlement adds playerID's confirmation to the open proposal, and
// ratifies (distributes pots, ends the hand) once every non-folded seated
// player has confirmed.
func ConfirmSettlement(room *Room, playerID string) (*Room, []Event, error) {
	if room.Status != RoomPlaying || room.Hand == nil || room.Hand.SettlementProposal == nil {
		return nil, nil, errIllegal("no settlement proposal is open")
	}
	if !isNonFoldedSeated(room, playerID) {
		return nil, nil, errIllegal("player %s cannot confirm a settlement", playerID)
	}

	out := room.Clone()
	out.Hand.SettlementProposal.ConfirmedBy.Add(playerID)

	required := nonFoldedSeated(out)
	if !out.Hand.SettlementProposal.ConfirmedBy.Equal(required) {
		return out, nil, nil
	}

	events := ratify(out)
	return out, events, nil
}

// RejectSettlement discards the open proposal, returning to pre-proposal
// showdown.
func RejectSettlement(room *Room, playerID string) (*Room, []Event, error) {
	if room.Status != RoomPlaying || room.Hand == nil || room.Hand.SettlementProposal == nil {
		return nil, nil, errIllegal("no settlement proposal is open")
	}
	if !isNonFoldedSeated(room, playerID) {
		return nil, nil, errIllegal("player %s cannot reject a settlement", playerID)
	}

	out := room.Clone()
	out.Hand.SettlementProposal = nil
	return out, nil, nil
}

// ratify distributes every pot to its proposed winners, then collapses the
// hand back to waiting. room is mutated in place (the caller already
// cloned it).
func ratify(room *Room) []Event {
	h := room.Hand
	proposal := h.SettlementProposal
	for _, pot := range h.Pots {
		winners := proposal.PotWinners[pot.ID]
		shares := splitPot(h, pot, winners)
		for id, amount := range shares {
			room.Players[id].Chips += amount
		}
	}
	h.SettlementProposal = nil
	h.Phase = PhaseHandEnd
	events := []Event{{Kind: EventPhaseChange, Detail: PhaseChangeDetail{Phase: PhaseHandEnd}}}
	events = append(events, finishHand(room)...)
	return events
}
