package admission

import (
	"strings"

	"github.com/google/uuid"
)

// newPlayerID mints a fresh player id. Rooms use a separately generated
// short human-readable code (see NewRoomID); players don't
// need to be memorable, only unique.
func newPlayerID() string {
	return uuid.NewString()
}

const roomIDAlphabet = "abcdefghjkmnpqrstuvwxyz23456789"

// NewRoomID returns a short, human-readable room code (6 chars, vowel-light
// alphabet to avoid accidental words), the way a player would read it aloud
// over voice chat to a friend joining the table.
func NewRoomID() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = roomIDAlphabet[randIndex(len(roomIDAlphabet))]
	}
	return strings.ToUpper(string(b))
}
