// Package token generates the public identifiers used by the purchase and
// check-in flows: the shareable event link slug and the short code a
// participant types or shows at the door.
package token

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/DIPRO2000/TicketFlow/internal/domain"
)

const (
	eventLinkLength        = 10
	participantTokenLength = 6
)

var (
	eventLinkAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")
	// Participant tokens are uppercased so they are easy to read out and type
	// at the door.
	participantTokenAlphabet = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
)

type generator struct{}

// NewGenerator returns the default TokenGenerator. The generator itself does
// not guarantee uniqueness; the database's unique indexes do, and callers
// retry with a fresh value on a collision.
func NewGenerator() domain.TokenGenerator {
	return &generator{}
}

func (g *generator) NewEventLink() (string, error) {
	return randomString(eventLinkAlphabet, eventLinkLength)
}

func (g *generator) NewParticipantToken() (string, error) {
	return randomString(participantTokenAlphabet, participantTokenLength)
}

func randomString(alphabet []rune, length int) (string, error) {
	b := make([]rune, length)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}
