package game

import (
	"fmt"
	"testing"

	"github.com/minaorangina/coopdeck/deck"
	"github.com/minaorangina/coopdeck/protocol"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	events []protocol.Event
}

func (r *recorder) listen(e protocol.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) count(k protocol.Kind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func (r *recorder) of(k protocol.Kind) []protocol.Event {
	es := []protocol.Event{}
	for _, e := range r.events {
		if e.Kind == k {
			es = append(es, e)
		}
	}
	return es
}

func (r *recorder) states() []string {
	ss := []string{}
	for _, e := range r.of(protocol.StateChanged) {
		ss = append(ss, e.State)
	}
	return ss
}

func (r *recorder) phases() []string {
	ps := []string{}
	for _, e := range r.of(protocol.PhaseChanged) {
		ps = append(ps, e.Phase)
	}
	return ps
}

func (r *recorder) reset() {
	r.events = nil
}

func someDefinitions(n int) []deck.Definition {
	defs := []deck.Definition{}
	for i := 0; i < n; i++ {
		defs = append(defs, deck.Definition{
			Name:     fmt.Sprintf("card-%d", i),
			Type:     deck.Attack,
			Rarity:   deck.Common,
			Cost:     1,
			Attack:   2,
			Playable: true,
		})
	}
	return defs
}

func someOptions() Options {
	return Options{
		PlayerCount:           3,
		VictoryPointsRequired: 100,
		Seed:                  1,
		Deck: deck.Config{
			Name:                 "Starter",
			StartingHandSize:     2,
			AutoShuffleWhenEmpty: true,
		},
		StartingDeck: someDefinitions(10),
	}
}

// newTestSession builds a three player session with no setup delay and
// records everything published on its bus
func newTestSession(t *testing.T, edit func(*Options)) (*Session, *recorder, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	opts := someOptions()
	opts.Logger = zap.New(core)
	if edit != nil {
		edit(&opts)
	}

	s, err := NewSession(opts)
	require.NoError(t, err)

	rec := &recorder{}
	s.Bus().Subscribe(rec.listen)
	return s, rec, logs
}

func currentPlayer(t *testing.T, s *Session) *Player {
	t.Helper()
	p, ok := s.CurrentPlayer()
	require.True(t, ok, "expected an active player")
	return p
}

// pointsEffect adds victory points whenever a card resolves an effect
type pointsEffect struct {
	session *Session
	points  int
	seen    []string
}

func (e *pointsEffect) Resolve(effect string, card *deck.Card, target *deck.Target) error {
	e.seen = append(e.seen, effect)
	return e.session.AddVictoryPoints(e.points)
}
