package engine

import (
	"fmt"
	"sort"
)

// buildPots recomputes the hand's pots from scratch from every player's
// total_bet_this_hand, per spec §4.1.5. It is always a full rebuild, never
// an incremental mutation, eliminating a class of undo/reorder bugs.
func buildPots(room *Room) []*Pot {
	h := room.Hand
	type contribution struct {
		id     string
		amount int64
		folded bool
	}

	var contribs []contribution
	levelSet := make(map[int64]struct{})
	for _, id := range h.ActionOrder {
		p, ok := room.Players[id]
		if !ok || p.TotalBetThisHand <= 0 {
			continue
		}
		contribs = append(contribs, contribution{id: id, amount: p.TotalBetThisHand, folded: p.Status == StatusFolded})
		levelSet[p.TotalBetThisHand] = struct{}{}
	}
	if len(contribs) == 0 {
		return nil
	}

	levels := make([]int64, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	type stratum struct {
		amount   int64
		eligible StringSet
	}
	strata := make([]stratum, 0, len(levels))
	var prev int64
	for _, level := range levels {
		contributors := 0
		eligible := NewStringSet()
		for _, c := range contribs {
			if c.amount >= level {
				contributors++
				if !c.folded {
					eligible.Add(c.id)
				}
			}
		}
		strata = append(strata, stratum{amount: (level - prev) * int64(contributors), eligible: eligible})
		prev = level
	}

	// Merge adjacent strata with identical eligible sets for display
	// compactness, per §4.1.5 rule 4.
	merged := make([]stratum, 0, len(strata))
	for _, s := range strata {
		if n := len(merged); n > 0 && merged[n-1].eligible.Equal(s.eligible) {
			merged[n-1].amount += s.amount
			continue
		}
		merged = append(merged, s)
	}

	pots := make([]*Pot, 0, len(merged))
	for i, s := range merged {
		pots = append(pots, &Pot{ID: fmt.Sprintf("pot-%d", i), Amount: s.amount, EligiblePlayers: s.eligible})
	}
	return pots
}

// splitPot divides a pot's amount evenly among winners, with the remainder
// (at most len(winners)-1 chips) going to the first winner encountered in
// action_order starting left of the dealer — action_order is kept rotated
// to that anchor by rollStreet, so a plain scan in order is sufficient.
func splitPot(hand *HandState, pot *Pot, winners []string) map[string]int64 {
	shares := make(map[string]int64, len(winners))
	if len(winners) == 0 {
		return shares
	}
	share := pot.Amount / int64(len(winners))
	remainder := pot.Amount % int64(len(winners))
	for _, w := range winners {
		shares[w] = share
	}

	winnerSet := NewStringSet(winners...)
	for _, id := range hand.ActionOrder {
		if remainder == 0 {
			break
		}
		if winnerSet.Has(id) {
			shares[id] += remainder
			remainder = 0
		}
	}
	// Defensive: if action_order omitted a winner (shouldn't happen), hand
	// out any still-unassigned remainder to the first listed winner.
	for remainder > 0 {
		shares[winners[0]]++
		remainder--
	}
	return shares
}
