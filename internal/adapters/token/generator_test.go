package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEventLink(t *testing.T) {
	g := NewGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		link, err := g.NewEventLink()
		require.NoError(t, err)
		require.Len(t, link, 10)
		for _, c := range link {
			require.True(t, (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'), "unexpected char %q in %q", c, link)
		}
		seen[link] = struct{}{}
	}
	// 100 draws from a 36^10 space colliding would point at a broken generator.
	require.Len(t, seen, 100)
}

func TestNewParticipantToken(t *testing.T) {
	g := NewGenerator()
	tok, err := g.NewParticipantToken()
	require.NoError(t, err)
	require.Len(t, tok, 6)
	for _, c := range tok {
		require.True(t, (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'), "unexpected char %q in %q", c, tok)
	}
}
