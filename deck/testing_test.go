package deck

import (
	"fmt"
	"math/rand"

	"github.com/minaorangina/coopdeck/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	events []protocol.Event
}

func (r *recorder) Publish(e protocol.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []protocol.Kind {
	ks := []protocol.Kind{}
	for _, e := range r.events {
		ks = append(ks, e.Kind)
	}
	return ks
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

func (r *recorder) reset() {
	r.events = nil
}

type resolverSpy struct {
	resolved []string
	targets  []*Target
	err      error
}

func (s *resolverSpy) Resolve(effect string, card *Card, target *Target) error {
	s.resolved = append(s.resolved, effect)
	s.targets = append(s.targets, target)
	return s.err
}

func observedHooks() (Hooks, *recorder, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	rec := &recorder{}
	return Hooks{Owner: "p1", Events: rec, Logger: zap.New(core)}, rec, logs
}

func someDefinition(name string) Definition {
	return Definition{
		Name:     name,
		Type:     Attack,
		Rarity:   Common,
		Cost:     1,
		Attack:   2,
		Playable: true,
	}
}

func someDefinitions(n int) []Definition {
	defs := []Definition{}
	for i := 0; i < n; i++ {
		defs = append(defs, someDefinition(fmt.Sprintf("card-%d", i)))
	}
	return defs
}

func someDeck(n int, config Config, hooks Hooks) *Deck {
	d := New(config, hooks, WithRand(rand.New(rand.NewSource(42))))
	d.Fill(someDefinitions(n))
	return d
}

func names(cards []*Card) []string {
	ns := []string{}
	for _, c := range cards {
		ns = append(ns, c.Name())
	}
	return ns
}

func exactlyOneLocation(c *Card) bool {
	n := 0
	for _, in := range []bool{c.IsInDeck(), c.IsInHand(), c.IsInPlay(), c.IsInDiscard()} {
		if in {
			n++
		}
	}
	return n == 1
}
