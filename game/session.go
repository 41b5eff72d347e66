package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/minaorangina/coopdeck/deck"
	"github.com/minaorangina/coopdeck/protocol"
	"go.uber.org/zap"
)

var (
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrInvalidVictory     = errors.New("victory points required must be positive")
	ErrWrongState         = errors.New("operation not allowed in the current game state")
	ErrWrongPhase         = errors.New("operation not allowed in the current turn phase")
	ErrUnknownCard        = errors.New("card is not in the active player's hand")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrCardNotPlayed      = errors.New("card could not be played")
	ErrNegativePoints     = errors.New("victory points must not be negative")
	ErrInvalidTiming      = errors.New("delays must not be negative")
	ErrSessionClosed      = errors.New("session is closed")
)

const defaultMaxPlayers = 4

// Options configures a Session
type Options struct {
	PlayerCount           int
	MaxPlayers            int
	PlayerNames           []string
	VictoryPointsRequired int
	TurnTimerEnabled      bool
	TurnTimeLimit         time.Duration
	SetupDelay            time.Duration
	Deck                  deck.Config
	StartingDeck          []deck.Definition
	Seed                  int64
	Effects               deck.EffectResolver
	Logger                *zap.Logger
}

func (o Options) validate() error {
	if o.PlayerCount < 1 || o.PlayerCount > o.MaxPlayers {
		return fmt.Errorf("%w: %d (allowed 1 to %d)", ErrInvalidPlayerCount, o.PlayerCount, o.MaxPlayers)
	}
	if o.VictoryPointsRequired <= 0 {
		return ErrInvalidVictory
	}
	if o.SetupDelay < 0 || o.TurnTimeLimit < 0 {
		return ErrInvalidTiming
	}
	for _, def := range o.StartingDeck {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("starting deck: %w", err)
		}
	}
	return nil
}

// Session coordinates one game: the game state, the phases of each turn,
// the players and their decks, and the shared victory points.
//
// A Session is driven from a single goroutine. Transitions requested while
// another transition is being handled are queued and run in order once it
// finishes.
type Session struct {
	id   string
	opts Options
	log  *zap.Logger
	bus  *protocol.Bus
	rand *rand.Rand

	state       GameState
	phase       TurnPhase
	players     []*Player
	current     int
	turn        int
	points      int
	turnStarted bool
	deferred    *TurnPhase
	closed      bool

	setupDelay Countdown
	turnTimer  Countdown

	transitioning bool
	pending       []func()
}

// NewSession constructs a session sitting in the main menu
func NewSession(opts Options) (*Session, error) {
	if opts.MaxPlayers == 0 {
		opts.MaxPlayers = defaultMaxPlayers
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{
		id:      deck.NewID(),
		opts:    opts,
		bus:     protocol.NewBus(),
		rand:    rand.New(rand.NewSource(seed)),
		state:   MainMenu,
		players: []*Player{},
		turn:    1,
	}
	s.log = log.With(zap.String("session", s.id))

	s.bus.SubscribeKinds(s.observe,
		protocol.CardPlayed,
		protocol.CardDrawn,
		protocol.DeckEmpty,
		protocol.DeckShuffled,
	)

	return s, nil
}

func (s *Session) ID() string                 { return s.id }
func (s *Session) Bus() *protocol.Bus         { return s.bus }
func (s *Session) State() GameState           { return s.state }
func (s *Session) Phase() TurnPhase           { return s.phase }
func (s *Session) Turn() int                  { return s.turn }
func (s *Session) CurrentPlayerIndex() int    { return s.current }
func (s *Session) VictoryPoints() int         { return s.points }
func (s *Session) VictoryPointsRequired() int { return s.opts.VictoryPointsRequired }
func (s *Session) PlayerCount() int           { return s.opts.PlayerCount }
func (s *Session) Closed() bool               { return s.closed }

// TurnTimeRemaining is zero when no turn timer is running
func (s *Session) TurnTimeRemaining() time.Duration {
	return s.turnTimer.Remaining()
}

// Players returns the enabled players in turn order
func (s *Session) Players() []*Player {
	ps := []*Player{}
	for _, p := range s.players {
		if p.Enabled {
			ps = append(ps, p)
		}
	}
	return ps
}

// Seats returns every player entity, including disabled ones
func (s *Session) Seats() []*Player {
	return append([]*Player{}, s.players...)
}

// CurrentPlayer returns the active player, if a game has been set up
func (s *Session) CurrentPlayer() (*Player, bool) {
	if s.current >= len(s.players) || !s.players[s.current].Enabled {
		return nil, false
	}
	return s.players[s.current], true
}

// StartNewGame resets the session and enters GameSetup. The first turn
// begins once the setup delay has elapsed. Starting again during setup deals
// a fresh game and restarts the delay.
func (s *Session) StartNewGame() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.state == GameSetup {
		s.log.Info("restarting game setup")
		s.run(s.setup)
		return nil
	}
	s.ChangeState(GameSetup)
	return nil
}

// SetPlayerCount changes the number of players for the next game
func (s *Session) SetPlayerCount(n int) error {
	if n < 1 || n > s.opts.MaxPlayers {
		return fmt.Errorf("%w: %d (allowed 1 to %d)", ErrInvalidPlayerCount, n, s.opts.MaxPlayers)
	}
	if s.state != MainMenu && s.state != GameOver {
		return ErrWrongState
	}
	s.opts.PlayerCount = n
	return nil
}

// ReturnToMenu abandons the current game
func (s *Session) ReturnToMenu() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.state == MainMenu {
		return ErrWrongState
	}
	s.ChangeState(MainMenu)
	return nil
}

// Pause suspends time. Only Resume leaves the paused state.
func (s *Session) Pause() error {
	if !canTransition(s.state, Paused) {
		return ErrWrongState
	}
	s.ChangeState(Paused)
	return nil
}

// Resume returns a paused session to the player's turn
func (s *Session) Resume() error {
	if s.state != Paused {
		return ErrWrongState
	}
	s.ChangeState(PlayerTurn)
	return nil
}

// EndTurn finishes the active player's action phase
func (s *Session) EndTurn() error {
	if s.state != PlayerTurn {
		return ErrWrongState
	}
	if s.phase != ActionPhase {
		return ErrWrongPhase
	}
	s.SetPhase(EndTurn)
	return nil
}

// PlayCard plays a card from the active player's hand. The session is in
// Processing while the card's effects resolve.
func (s *Session) PlayCard(cardID string, target *deck.Target) error {
	if s.transitioning || s.state != PlayerTurn {
		return ErrWrongState
	}
	if s.phase != ActionPhase {
		return ErrWrongPhase
	}

	p, ok := s.CurrentPlayer()
	if !ok {
		return ErrWrongState
	}
	card, ok := p.findInHand(cardID)
	if !ok {
		return ErrUnknownCard
	}
	if !card.Playable() || (card.RequiresTarget() && target == nil) {
		s.log.Debug("refusing card play", zap.String("card", card.Name()), zap.Bool("target", target != nil))
		return ErrCardNotPlayed
	}

	played := false
	s.run(func() {
		s.enterState(Processing)
		played = card.Play(target)
		if played {
			p.takeFromHand(card)
			p.inPlay = append(p.inPlay, card)
		}
		s.ChangeState(PlayerTurn)
	})

	if !played {
		return ErrCardNotPlayed
	}
	return nil
}

// DiscardCard moves a card from the active player's hand to their discard pile
func (s *Session) DiscardCard(cardID string) error {
	if s.state != PlayerTurn {
		return ErrWrongState
	}
	if s.phase != ActionPhase {
		return ErrWrongPhase
	}

	p, ok := s.CurrentPlayer()
	if !ok {
		return ErrWrongState
	}
	card, ok := p.findInHand(cardID)
	if !ok {
		return ErrUnknownCard
	}

	p.takeFromHand(card)
	p.Deck.DiscardCard(card)
	return nil
}

// DrawFor draws up to n cards from a player's deck into their hand and
// returns how many were drawn. Card effects use it while a turn is running.
func (s *Session) DrawFor(playerID string, n int) (int, error) {
	if !s.state.active() {
		return 0, ErrWrongState
	}

	for _, p := range s.Players() {
		if p.ID == playerID {
			cards := p.Deck.DrawCards(n)
			p.receive(cards...)
			return len(cards), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
}

// AddVictoryPoints adds to the shared score. Reaching the threshold ends the
// game at once, whatever the turn phase.
func (s *Session) AddVictoryPoints(n int) error {
	if n < 0 {
		return ErrNegativePoints
	}
	if s.state == MainMenu || s.state == GameOver {
		return ErrWrongState
	}

	s.points += n
	s.log.Info("victory points added", zap.Int("added", n), zap.Int("total", s.points))
	s.publish(protocol.Event{
		Kind:   protocol.VictoryPointsChanged,
		Amount: s.points,
	})

	if s.victoryReached() {
		s.ChangeState(GameOver)
	}
	return nil
}

// Tick advances the session's timers by dt. Nothing moves while paused.
func (s *Session) Tick(dt time.Duration) {
	if s.closed {
		return
	}

	switch {
	case s.state == GameSetup:
		if s.setupDelay.Advance(dt) {
			s.ChangeState(PlayerTurn)
		}
	case s.state.active():
		if s.turnTimer.Advance(dt) {
			s.log.Info("turn timer expired", zap.Int("player", s.current))
			s.forceEndTurn()
		}
	}
}

// ChangeState requests a game state transition. Illegal transitions are
// logged and ignored.
func (s *Session) ChangeState(next GameState) {
	s.run(func() { s.enterState(next) })
}

// SetPhase requests a turn phase transition. Phases only change in
// PlayerTurn; a request made while paused or processing is applied on the
// way back to PlayerTurn.
func (s *Session) SetPhase(next TurnPhase) {
	s.run(func() { s.enterPhase(next) })
}

// Close stops the timers and drops every subscriber
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.stopTimers()
	s.bus.Close()
	s.closed = true
}

func (s *Session) run(step func()) {
	s.pending = append(s.pending, step)
	if s.transitioning {
		return
	}

	s.transitioning = true
	defer func() { s.transitioning = false }()

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		next()
	}
}

func (s *Session) enterState(next GameState) {
	prev := s.state
	if !canTransition(prev, next) {
		s.log.Debug("ignoring game state change", zap.Stringer("from", prev), zap.Stringer("to", next))
		return
	}

	s.state = next
	s.log.Info("game state changed", zap.Stringer("from", prev), zap.Stringer("to", next))
	s.publish(protocol.Event{
		Kind:    protocol.StateChanged,
		State:   next.String(),
		Message: prev.String(),
	})

	switch next {
	case MainMenu:
		s.stopTimers()
		s.deferred = nil
	case GameSetup:
		s.setup()
	case PlayerTurn:
		s.setupDelay.Stop()
		if !s.turnStarted {
			s.SetPhase(StartTurn)
		} else if s.deferred != nil {
			phase := *s.deferred
			s.deferred = nil
			s.SetPhase(phase)
		}
	case GameOver:
		s.stopTimers()
		s.deferred = nil
		victory := s.victoryReached()
		s.log.Info("game ended", zap.Bool("victory", victory), zap.Int("turn", s.turn), zap.Int("points", s.points))
		s.publish(protocol.Event{
			Kind:    protocol.GameEnded,
			Victory: victory,
			Amount:  s.points,
		})
	}
}

func (s *Session) enterPhase(next TurnPhase) {
	if s.state == Paused || s.state == Processing {
		// picked up again when the session returns to PlayerTurn
		s.deferred = &next
		return
	}
	if s.state != PlayerTurn {
		s.log.Debug("ignoring turn phase change", zap.Stringer("state", s.state), zap.Stringer("phase", next))
		return
	}

	s.phase = next
	s.log.Debug("turn phase changed", zap.Stringer("phase", next), zap.Int("player", s.current))
	s.publish(protocol.Event{
		Kind:  protocol.PhaseChanged,
		Phase: next.String(),
	})

	switch next {
	case StartTurn:
		s.startTurn()
	case DrawPhase:
		s.drawPhase()
	case ActionPhase:
		// waits for the player to play cards or end the turn
	case EndTurn:
		s.endTurn()
	}
}

func (s *Session) setup() {
	s.stopTimers()
	s.turn = 1
	s.current = 0
	s.points = 0
	s.phase = StartTurn
	s.turnStarted = false
	s.deferred = nil

	s.buildPlayers()

	s.log.Info("game set up", zap.Int("players", s.opts.PlayerCount), zap.Duration("delay", s.opts.SetupDelay))
	if s.opts.SetupDelay == 0 {
		s.ChangeState(PlayerTurn)
		return
	}
	s.setupDelay.Start(s.opts.SetupDelay)
}

func (s *Session) buildPlayers() {
	for i := len(s.players); i < s.opts.PlayerCount; i++ {
		s.players = append(s.players, newPlayer(s.playerName(i)))
	}

	for i, p := range s.players {
		if i >= s.opts.PlayerCount {
			p.disable()
			continue
		}

		p.Enabled = true
		p.Name = s.playerName(i)
		p.reset(s.buildDeck(p))

		hand := p.Deck.DrawCards(p.Deck.StartingHandSize())
		p.receive(hand...)
	}
}

func (s *Session) buildDeck(p *Player) *deck.Deck {
	config := s.opts.Deck
	if config.Name == "" {
		config.Name = p.Name
	} else {
		config.Name = fmt.Sprintf("%s (%s)", config.Name, p.Name)
	}

	hooks := deck.Hooks{
		Owner:   p.ID,
		Events:  s.bus,
		Effects: s.opts.Effects,
		Logger:  s.log.With(zap.String("player", p.Name)),
	}

	d := deck.New(config, hooks, deck.WithRand(rand.New(rand.NewSource(s.rand.Int63()))))
	if added := d.Fill(s.opts.StartingDeck); added < len(s.opts.StartingDeck) {
		s.log.Warn("starting deck truncated", zap.Int("added", added), zap.Int("authored", len(s.opts.StartingDeck)))
	}
	d.Prepare()
	return d
}

func (s *Session) playerName(i int) string {
	if i < len(s.opts.PlayerNames) && s.opts.PlayerNames[i] != "" {
		return s.opts.PlayerNames[i]
	}
	return fmt.Sprintf("Player %d", i+1)
}

func (s *Session) startTurn() {
	s.turnStarted = true
	if s.opts.TurnTimerEnabled && s.opts.TurnTimeLimit > 0 {
		s.turnTimer.Start(s.opts.TurnTimeLimit)
	}

	e := protocol.Event{Kind: protocol.TurnChanged}
	if p, ok := s.CurrentPlayer(); ok {
		e.PlayerID = p.ID
	}
	s.publish(e)

	s.SetPhase(DrawPhase)
}

func (s *Session) drawPhase() {
	if p, ok := s.CurrentPlayer(); ok {
		if card, drawn := p.Deck.DrawCard(); drawn {
			p.receive(card)
		}
	}
	s.SetPhase(ActionPhase)
}

func (s *Session) endTurn() {
	s.turnTimer.Stop()

	if p, ok := s.CurrentPlayer(); ok {
		p.clearPlayed()
	}

	s.current = (s.current + 1) % s.opts.PlayerCount
	if s.current == 0 {
		s.turn++
	}

	if s.victoryReached() {
		s.ChangeState(GameOver)
		return
	}
	s.SetPhase(StartTurn)
}

// forceEndTurn ends the turn whatever phase it is in
func (s *Session) forceEndTurn() {
	if s.state == Processing {
		s.ChangeState(PlayerTurn)
	}
	s.SetPhase(EndTurn)
}

func (s *Session) victoryReached() bool {
	return s.points >= s.opts.VictoryPointsRequired
}

func (s *Session) stopTimers() {
	s.setupDelay.Stop()
	s.turnTimer.Stop()
}

func (s *Session) publish(e protocol.Event) {
	e.Player = s.current
	e.Turn = s.turn
	s.bus.Publish(e)
}

// observe logs the card and deck notifications the session coordinates on
func (s *Session) observe(e protocol.Event) {
	s.log.Debug("notification",
		zap.Stringer("kind", e.Kind),
		zap.String("deck", e.DeckName),
		zap.String("card", e.CardName),
		zap.String("owner", e.PlayerID),
	)
}
