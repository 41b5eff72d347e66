package coopdeck

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/minaorangina/coopdeck/deck"
	"github.com/minaorangina/coopdeck/game"
)

var (
	ErrUnknownEffect  = errors.New("unknown effect")
	ErrInvalidAmount  = errors.New("effect amount must be a non-negative integer")
	ErrNoTargetPlayer = errors.New("effect has no player to act on")
)

// EffectFunc applies one effect to a session. arg is the text after the
// colon of an effect id such as "victory:5", or empty.
type EffectFunc func(s *game.Session, card *deck.Card, target *deck.Target, arg string) error

// Effects maps effect names to the code that applies them
type Effects struct {
	mu    sync.RWMutex
	funcs map[string]EffectFunc
}

// NewEffects returns a registry holding the built-in effects
func NewEffects() *Effects {
	e := &Effects{funcs: map[string]EffectFunc{}}
	e.Register("victory", victoryEffect)
	e.Register("draw", drawEffect)
	return e
}

// Register adds an effect. Panics on duplicate names.
func (e *Effects) Register(name string, fn EffectFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.funcs[name]; exists {
		panic(fmt.Sprintf("effect %q already registered", name))
	}
	e.funcs[name] = fn
}

func (e *Effects) Get(name string) (EffectFunc, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn, ok := e.funcs[name]
	return fn, ok
}

// Names lists the registered effects in alphabetical order
func (e *Effects) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.funcs))
	for name := range e.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolver applies effects to the session it is bound to once that session
// exists
type resolver struct {
	effects *Effects
	session *game.Session
}

func (r *resolver) Resolve(effect string, card *deck.Card, target *deck.Target) error {
	name, arg := effect, ""
	if i := strings.Index(effect, ":"); i >= 0 {
		name, arg = effect[:i], effect[i+1:]
	}

	fn, ok := r.effects.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEffect, name)
	}
	if r.session == nil {
		return game.ErrWrongState
	}
	return fn(r.session, card, target, arg)
}

func amount(arg string, fallback int) (int, error) {
	if arg == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, arg)
	}
	return n, nil
}

func victoryEffect(s *game.Session, card *deck.Card, target *deck.Target, arg string) error {
	n, err := amount(arg, 1)
	if err != nil {
		return err
	}
	return s.AddVictoryPoints(n)
}

// drawEffect draws for the targeted player when there is one, else for the
// card's owner
func drawEffect(s *game.Session, card *deck.Card, target *deck.Target, arg string) error {
	n, err := amount(arg, 1)
	if err != nil {
		return err
	}

	playerID := card.Owner()
	if target != nil && target.Kind != deck.TargetEnemy {
		playerID = target.ID
	}
	if playerID == "" {
		return ErrNoTargetPlayer
	}

	_, err = s.DrawFor(playerID, n)
	return err
}
