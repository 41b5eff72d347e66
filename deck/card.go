package deck

import (
	"errors"
	"fmt"

	"github.com/minaorangina/coopdeck/protocol"
	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingName   = errors.New("card has no name")
	ErrNegativeStat  = errors.New("card stats must not be negative")
	ErrInvalidType   = errors.New("unknown card type")
	ErrInvalidRarity = errors.New("unknown card rarity")
)

// NewID constructs a card or deck ID
func NewID() string {
	return uuid.NewV4().String()
}

// Definition is the authored, read-only data of a card
type Definition struct {
	Name             string
	Description      string
	Type             CardType
	Rarity           Rarity
	Cost             int
	Attack           int
	Defense          int
	Utility          int
	Playable         bool
	RequiresTarget   bool
	CanTargetSelf    bool
	CanTargetAllies  bool
	CanTargetEnemies bool
	Effects          []string
}

// Validate checks the authored data
func (d Definition) Validate() error {
	if d.Name == "" {
		return ErrMissingName
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%s: %w", d.Name, ErrInvalidType)
	}
	if !d.Rarity.Valid() {
		return fmt.Errorf("%s: %w", d.Name, ErrInvalidRarity)
	}
	if d.Cost < 0 || d.Attack < 0 || d.Defense < 0 || d.Utility < 0 {
		return fmt.Errorf("%s: %w", d.Name, ErrNegativeStat)
	}
	return nil
}

func (d Definition) clone() Definition {
	if d.Effects != nil {
		effects := make([]string, len(d.Effects))
		copy(effects, d.Effects)
		d.Effects = effects
	}
	return d
}

// EffectResolver applies a card's effect ids. Effects are opaque to cards.
type EffectResolver interface {
	Resolve(effect string, card *Card, target *Target) error
}

// Hooks connects cards and decks to the session that owns them.
// Zero values are safe: nothing is published, resolved or logged.
type Hooks struct {
	Owner   string
	Events  protocol.Publisher
	Effects EffectResolver
	Logger  *zap.Logger
}

func (h Hooks) publish(e protocol.Event) {
	if h.Events == nil {
		return
	}
	if e.PlayerID == "" {
		e.PlayerID = h.Owner
	}
	h.Events.Publish(e)
}

func (h Hooks) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// Card is a single card instance. It is never destroyed during a session,
// only moved between piles.
type Card struct {
	id       string
	def      Definition
	location Location
	hooks    Hooks
}

// NewCard constructs a card in the deck
func NewCard(def Definition, hooks Hooks) *Card {
	return &Card{
		id:       NewID(),
		def:      def.clone(),
		location: InDeck,
		hooks:    hooks,
	}
}

func (c *Card) ID() string           { return c.id }
func (c *Card) Name() string         { return c.def.Name }
func (c *Card) Type() CardType       { return c.def.Type }
func (c *Card) Rarity() Rarity       { return c.def.Rarity }
func (c *Card) Cost() int            { return c.def.Cost }
func (c *Card) Attack() int          { return c.def.Attack }
func (c *Card) Defense() int         { return c.def.Defense }
func (c *Card) Utility() int         { return c.def.Utility }
func (c *Card) Playable() bool       { return c.def.Playable }
func (c *Card) RequiresTarget() bool { return c.def.RequiresTarget }
func (c *Card) Location() Location   { return c.location }
func (c *Card) Owner() string        { return c.hooks.Owner }
func (c *Card) IsInDeck() bool       { return c.location == InDeck }
func (c *Card) IsInHand() bool       { return c.location == InHand }
func (c *Card) IsInPlay() bool       { return c.location == InPlay }
func (c *Card) IsInDiscard() bool    { return c.location == InDiscard }

// Definition returns a copy of the authored data
func (c *Card) Definition() Definition {
	return c.def.clone()
}

// Effects returns the card's effect ids in resolution order
func (c *Card) Effects() []string {
	return c.def.clone().Effects
}

// Variant returns the type-specific payload of the card
func (c *Card) Variant() Variant {
	return VariantOf(c.def)
}

// CanTarget reports whether the card may be aimed at a target of kind k
func (c *Card) CanTarget(k TargetKind) bool {
	switch k {
	case TargetSelf:
		return c.def.CanTargetSelf
	case TargetAlly:
		return c.def.CanTargetAllies
	case TargetEnemy:
		return c.def.CanTargetEnemies
	}
	return false
}

func (c *Card) String() string {
	return fmt.Sprintf("%s (%s, %s)", c.def.Name, c.def.Type, c.def.Rarity)
}

// Play resolves the card's effects against target and puts it in play.
// It reports false, changing nothing, if the card is not playable, is not in
// hand, or needs a target and none was given.
func (c *Card) Play(target *Target) bool {
	log := c.hooks.logger().With(zap.String("card", c.def.Name), zap.String("cardID", c.id))

	if !c.def.Playable {
		log.Warn("card is not playable")
		return false
	}
	if c.location != InHand {
		log.Warn("card must be in hand to play", zap.Stringer("location", c.location))
		return false
	}
	if c.def.RequiresTarget && target == nil {
		log.Warn("card requires a target")
		return false
	}

	if c.hooks.Effects != nil {
		for _, effect := range c.def.Effects {
			if err := c.hooks.Effects.Resolve(effect, c, target); err != nil {
				log.Warn("effect failed", zap.String("effect", effect), zap.Error(err))
			}
		}
	}

	c.location = InPlay

	e := c.event(protocol.CardPlayed)
	if target != nil {
		e.TargetID = target.ID
	}
	c.hooks.publish(e)
	return true
}

// OnDrawn moves the card into a hand
func (c *Card) OnDrawn() {
	c.location = InHand
	c.hooks.publish(c.event(protocol.CardDrawn))
}

// OnDiscarded moves the card onto a discard pile
func (c *Card) OnDiscarded() {
	c.location = InDiscard
	c.hooks.publish(c.event(protocol.CardDiscarded))
}

// Copy constructs a card with the same authored data and a new ID
func (c *Card) Copy() *Card {
	return NewCard(c.def, c.hooks)
}

func (c *Card) returnToDeck() {
	c.location = InDeck
}

func (c *Card) event(k protocol.Kind) protocol.Event {
	return protocol.Event{Kind: k, CardID: c.id, CardName: c.def.Name}
}
