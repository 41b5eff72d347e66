package deck

import (
	"math/rand"
	"strings"
	"time"

	"github.com/minaorangina/coopdeck/protocol"
	"go.uber.org/zap"
)

// Config is the authored configuration of a deck.
// A MaxSize of zero or less leaves the deck unbounded.
type Config struct {
	Name                 string
	MaxSize              int
	StartingHandSize     int
	AutoShuffleWhenEmpty bool
	ShuffleOnStart       bool
}

// Deck represents a draw pile and its discard pile.
// The head of the draw pile is the next card drawn.
type Deck struct {
	id      string
	config  Config
	cards   []*Card
	discard []*Card
	hooks   Hooks
	rand    *rand.Rand
}

// Option configures a Deck
type Option func(*Deck)

// WithRand sets the random source used by Shuffle and Random insertion
func WithRand(r *rand.Rand) Option {
	return func(d *Deck) {
		if r != nil {
			d.rand = r
		}
	}
}

// New constructs an empty deck
func New(config Config, hooks Hooks, opts ...Option) *Deck {
	d := &Deck{
		id:      NewID(),
		config:  config,
		cards:   []*Card{},
		discard: []*Card{},
		hooks:   hooks,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rand == nil {
		d.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return d
}

func (d *Deck) ID() string            { return d.id }
func (d *Deck) Name() string          { return d.config.Name }
func (d *Deck) Config() Config        { return d.config }
func (d *Deck) MaxSize() int          { return d.config.MaxSize }
func (d *Deck) StartingHandSize() int { return d.config.StartingHandSize }
func (d *Deck) CardCount() int        { return len(d.cards) }
func (d *Deck) DiscardCount() int     { return len(d.discard) }
func (d *Deck) TotalCards() int       { return len(d.cards) + len(d.discard) }
func (d *Deck) IsEmpty() bool         { return len(d.cards) == 0 }
func (d *Deck) Hooks() Hooks          { return d.hooks }

// IsFull reports whether the draw pile has reached MaxSize
func (d *Deck) IsFull() bool {
	return d.config.MaxSize > 0 && len(d.cards) >= d.config.MaxSize
}

// Cards returns the draw pile, head first
func (d *Deck) Cards() []*Card {
	return append([]*Card{}, d.cards...)
}

// Discards returns the discard pile, oldest first
func (d *Deck) Discards() []*Card {
	return append([]*Card{}, d.discard...)
}

// Fill adds a card for each definition to the bottom of the deck and returns
// how many were added. It stops once the deck is full.
func (d *Deck) Fill(defs []Definition) int {
	added := 0
	for _, def := range defs {
		if !d.AddCard(NewCard(def, d.hooks), Bottom) {
			break
		}
		added++
	}
	return added
}

// Prepare shuffles the deck if it is configured to shuffle on start
func (d *Deck) Prepare() {
	if d.config.ShuffleOnStart {
		d.Shuffle()
	}
}

// DrawCard removes the head of the draw pile and moves it into a hand.
// An empty draw pile is refilled from the discard pile when the deck
// auto-shuffles; otherwise DeckEmpty is published and no card is returned.
func (d *Deck) DrawCard() (*Card, bool) {
	if len(d.cards) == 0 {
		if d.config.AutoShuffleWhenEmpty && len(d.discard) > 0 {
			d.ShuffleDiscardIntoDeck()
		} else {
			d.logger().Info("deck is empty")
			d.hooks.publish(d.event(protocol.DeckEmpty))
			return nil, false
		}
	}

	card := d.cards[0]
	d.cards[0] = nil
	d.cards = d.cards[1:]

	card.OnDrawn()

	e := d.event(protocol.DrawnFromDeck)
	e.CardID, e.CardName = card.ID(), card.Name()
	d.hooks.publish(e)

	return card, true
}

// DrawCards draws up to n cards, stopping at the first failed draw
func (d *Deck) DrawCards(n int) []*Card {
	drawn := []*Card{}
	for i := 0; i < n; i++ {
		card, ok := d.DrawCard()
		if !ok {
			break
		}
		drawn = append(drawn, card)
	}
	return drawn
}

// Shuffle permutes the draw pile in place (Fisher-Yates).
// DeckShuffled is published even when there is nothing to permute.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rand.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}

	d.logger().Debug("deck shuffled", zap.Int("count", len(d.cards)))
	e := d.event(protocol.DeckShuffled)
	e.Amount = len(d.cards)
	d.hooks.publish(e)
}

// AddCard inserts card into the draw pile at position. It reports false if
// card is nil or the deck is full.
func (d *Deck) AddCard(card *Card, position Position) bool {
	if card == nil {
		d.logger().Warn("cannot add a nil card")
		return false
	}
	if d.IsFull() {
		d.logger().Warn("deck is full", zap.String("card", card.Name()), zap.Int("maxSize", d.config.MaxSize))
		return false
	}

	switch position {
	case Top:
		d.cards = append([]*Card{card}, d.cards...)
	case Random:
		idx := d.rand.Intn(len(d.cards) + 1)
		d.cards = append(d.cards, nil)
		copy(d.cards[idx+1:], d.cards[idx:])
		d.cards[idx] = card
	default:
		d.cards = append(d.cards, card)
	}

	card.returnToDeck()

	e := d.event(protocol.CardAdded)
	e.CardID, e.CardName, e.Message = card.ID(), card.Name(), position.String()
	d.hooks.publish(e)
	return true
}

// RemoveCard removes the first occurrence of card from the draw pile
func (d *Deck) RemoveCard(card *Card) bool {
	if card == nil {
		return false
	}

	idx := indexOf(d.cards, card)
	if idx < 0 {
		return false
	}
	d.cards = append(d.cards[:idx], d.cards[idx+1:]...)

	e := d.event(protocol.CardRemoved)
	e.CardID, e.CardName = card.ID(), card.Name()
	d.hooks.publish(e)
	return true
}

// DiscardCard puts card on the discard pile, taking it out of the draw pile
// first if it is there. Cards held elsewhere are accepted as they are.
func (d *Deck) DiscardCard(card *Card) {
	if card == nil {
		d.logger().Warn("cannot discard a nil card")
		return
	}

	d.RemoveCard(card)
	d.discard = append(d.discard, card)
	card.OnDiscarded()
}

// ShuffleDiscardIntoDeck moves the discard pile into the draw pile and shuffles
func (d *Deck) ShuffleDiscardIntoDeck() {
	if len(d.discard) == 0 {
		d.logger().Warn("no cards in discard pile to shuffle")
		return
	}

	for _, card := range d.discard {
		card.returnToDeck()
		d.cards = append(d.cards, card)
	}
	d.logger().Debug("discard pile returned to deck", zap.Int("count", len(d.discard)))
	d.discard = []*Card{}

	d.Shuffle()
}

// PeekTop returns the next card to be drawn without drawing it
func (d *Deck) PeekTop() (*Card, bool) {
	if len(d.cards) == 0 {
		return nil, false
	}
	return d.cards[0], true
}

// PeekBottom returns the last card of the draw pile
func (d *Deck) PeekBottom() (*Card, bool) {
	if len(d.cards) == 0 {
		return nil, false
	}
	return d.cards[len(d.cards)-1], true
}

// FindByName returns the cards in the draw pile named name, ignoring case
func (d *Deck) FindByName(name string) []*Card {
	found := []*Card{}
	for _, c := range d.cards {
		if strings.EqualFold(c.Name(), name) {
			found = append(found, c)
		}
	}
	return found
}

// FindByType returns the cards in the draw pile of type t
func (d *Deck) FindByType(t CardType) []*Card {
	found := []*Card{}
	for _, c := range d.cards {
		if c.Type() == t {
			found = append(found, c)
		}
	}
	return found
}

// Clear empties both piles. Cards held in hands are untouched.
func (d *Deck) Clear() {
	d.cards = []*Card{}
	d.discard = []*Card{}
}

// Copy constructs a deck with the same configuration and a copy of every card
// in the draw pile. The discard pile is not copied.
func (d *Deck) Copy() *Deck {
	cp := New(d.config, d.hooks, WithRand(rand.New(rand.NewSource(d.rand.Int63()))))
	for _, c := range d.cards {
		cp.cards = append(cp.cards, c.Copy())
	}
	return cp
}

func (d *Deck) logger() *zap.Logger {
	return d.hooks.logger().With(zap.String("deck", d.config.Name), zap.String("deckID", d.id))
}

func (d *Deck) event(k protocol.Kind) protocol.Event {
	return protocol.Event{Kind: k, DeckID: d.id, DeckName: d.config.Name}
}

func indexOf(cards []*Card, card *Card) int {
	for i, c := range cards {
		if c == card {
			return i
		}
	}
	return -1
}
