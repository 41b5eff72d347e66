package coopdeck

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/minaorangina/coopdeck/game"
	"github.com/minaorangina/coopdeck/protocol"
	"go.uber.org/zap"
)

var (
	ErrSessionActive = errors.New("a session is already active")
	ErrNoSession     = errors.New("no active session")
)

// Host owns the one active game session and serialises access to it.
// Everything that touches the session goes through the host, including the
// tick loop.
type Host struct {
	mu      sync.Mutex
	log     *zap.Logger
	effects *Effects
	session *game.Session
	now     func() time.Time
}

// NewHost constructs a host with no session. A nil effects registry
// selects the built-in effects.
func NewHost(effects *Effects, log *zap.Logger) *Host {
	if effects == nil {
		effects = NewEffects()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Host{
		log:     log,
		effects: effects,
		now:     time.Now,
	}
}

// Open creates the active session. The first session wins: opening another
// before closing it fails with ErrSessionActive.
func (h *Host) Open(opts game.Options) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session != nil {
		h.log.Warn("refusing a second session", zap.String("active", h.session.ID()))
		return "", ErrSessionActive
	}

	r := &resolver{effects: h.effects}
	if opts.Effects == nil {
		opts.Effects = r
	}
	if opts.Logger == nil {
		opts.Logger = h.log
	}

	s, err := game.NewSession(opts)
	if err != nil {
		return "", err
	}
	r.session = s
	h.session = s

	h.log.Info("session opened", zap.String("session", s.ID()), zap.Int("players", opts.PlayerCount))
	return s.ID(), nil
}

// Do runs fn with exclusive access to the active session
func (h *Host) Do(fn func(s *game.Session) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		return ErrNoSession
	}
	return fn(h.session)
}

// Snapshot describes the active session
func (h *Host) Snapshot() (game.Snapshot, error) {
	var snap game.Snapshot
	err := h.Do(func(s *game.Session) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}

// Bus returns the notification bus of the active session. Listeners run
// while the host is locked and must not call back into it.
func (h *Host) Bus() (*protocol.Bus, error) {
	var bus *protocol.Bus
	err := h.Do(func(s *game.Session) error {
		bus = s.Bus()
		return nil
	})
	return bus, err
}

// Watch calls first with a snapshot of the active session and subscribes l
// to its bus under the same lock, so l receives every event published after
// that snapshot. stop unsubscribes l.
func (h *Host) Watch(first func(game.Snapshot), l protocol.Listener) (func(), error) {
	var stop func()
	err := h.Do(func(s *game.Session) error {
		first(s.Snapshot())
		bus := s.Bus()
		handle := bus.Subscribe(l)
		stop = func() { bus.Unsubscribe(handle) }
		return nil
	})
	return stop, err
}

// Tick advances the active session's timers. It does nothing without a
// session.
func (h *Host) Tick(dt time.Duration) {
	h.Do(func(s *game.Session) error {
		s.Tick(dt)
		return nil
	})
}

// Run ticks the active session every interval with the real elapsed time,
// calling each step function after every tick, until ctx is cancelled.
func (h *Host) Run(ctx context.Context, interval time.Duration, steps ...func(s *game.Session) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := h.now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := h.now()
			dt := now.Sub(last)
			last = now

			h.Do(func(s *game.Session) error {
				s.Tick(dt)
				for _, step := range steps {
					if err := step(s); err != nil {
						h.log.Warn("step failed", zap.Error(err))
					}
				}
				return nil
			})
		}
	}
}

// Close closes the active session so another can be opened
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.session == nil {
		return
	}
	h.session.Close()
	h.log.Info("session closed", zap.String("session", h.session.ID()))
	h.session = nil
}
