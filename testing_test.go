package coopdeck

import (
	"fmt"
	"testing"

	"github.com/minaorangina/coopdeck/deck"
	"github.com/minaorangina/coopdeck/game"
	"github.com/stretchr/testify/require"
)

func someCards(n int, effects ...string) []deck.Definition {
	defs := []deck.Definition{}
	for i := 0; i < n; i++ {
		defs = append(defs, deck.Definition{
			Name:     fmt.Sprintf("card-%d", i),
			Type:     deck.Utility,
			Utility:  1,
			Playable: true,
			Effects:  effects,
		})
	}
	return defs
}

func someOptions(players int, defs []deck.Definition) game.Options {
	return game.Options{
		PlayerCount:           players,
		VictoryPointsRequired: 100,
		Seed:                  3,
		Deck:                  deck.Config{StartingHandSize: 2, AutoShuffleWhenEmpty: true},
		StartingDeck:          defs,
	}
}

// startedHost opens a session and starts a game in it
func startedHost(t *testing.T, opts game.Options) *Host {
	t.Helper()

	h := NewHost(nil, nil)
	_, err := h.Open(opts)
	require.NoError(t, err)
	require.NoError(t, h.Do(func(s *game.Session) error { return s.StartNewGame() }))
	return h
}

// playFirst plays the first card in the active player's hand
func playFirst(h *Host) error {
	return h.Do(func(s *game.Session) error {
		p, ok := s.CurrentPlayer()
		if !ok {
			return game.ErrWrongState
		}
		return s.PlayCard(p.Hand()[0].ID(), nil)
	})
}
