package engine

// finishHand collapses hand_end back into waiting: increments hand_number,
// clears the hand, and resets readiness for the next hand, per spec
// §4.1.7. It mutates room in place and returns the advisory events to
// append after whatever triggered the collapse (uncalled-pot award or a
// ratified settlement).
func finishHand(room *Room) []Event {
	room.Status = RoomWaiting
	room.HandNumber++
	room.Hand = nil
	for _, id := range room.Seats {
		if id == "" {
			continue
		}
		room.Players[id].Ready = false
	}
	return []Event{{Kind: EventHandCompleted}}
}

// EndGame ends the game. Only the owner may call it; emits game_ended with
// a standings table whose net values must sum to zero across all seated
// players (spec §4.1.7's hard invariant).
func EndGame(room *Room, playerID string) (*Room, []Event, error) {
	if playerID != room.OwnerID {
		return nil, nil, errIllegal("only the room owner may end the game")
	}
	if room.Status == RoomPlaying {
		return nil, nil, errIllegal("cannot end the game while a hand is in progress")
	}

	out := room.Clone()
	out.Status = RoomFinished

	standings := make([]Standing, 0, len(out.Players))
	for _, id := range out.Seats {
		if id == "" {
			continue
		}
		p := out.Players[id]
		net := p.Chips + int64(p.TotalCashouts)*out.InitialChips - int64(p.TotalRebuys)*out.InitialChips - out.InitialChips
		standings = append(standings, Standing{
			PlayerID:      p.PlayerID,
			Chips:         p.Chips,
			TotalRebuys:   p.TotalRebuys,
			TotalCashouts: p.TotalCashouts,
			Net:           net,
		})
	}

	events := []Event{{Kind: EventGameEnded, Detail: GameEndedDetail{Standings: standings}}}
	return out, events, nil
}
