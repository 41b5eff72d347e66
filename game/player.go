package game

import (
	"github.com/minaorangina/coopdeck/deck"
)

// Player is a seat at the table. Seats beyond the configured player count
// are kept but disabled, so a later game with more players reuses them.
type Player struct {
	ID      string
	Name    string
	Enabled bool
	Deck    *deck.Deck
	hand    []*deck.Card
	inPlay  []*deck.Card
}

func newPlayer(name string) *Player {
	return &Player{
		ID:     deck.NewID(),
		Name:   name,
		hand:   []*deck.Card{},
		inPlay: []*deck.Card{},
	}
}

// Hand returns the cards the player holds
func (p *Player) Hand() []*deck.Card {
	return append([]*deck.Card{}, p.hand...)
}

// InPlay returns the cards the player has played this turn
func (p *Player) InPlay() []*deck.Card {
	return append([]*deck.Card{}, p.inPlay...)
}

func (p *Player) HandSize() int {
	return len(p.hand)
}

func (p *Player) findInHand(cardID string) (*deck.Card, bool) {
	for _, c := range p.hand {
		if c.ID() == cardID {
			return c, true
		}
	}
	return nil, false
}

func (p *Player) takeFromHand(card *deck.Card) {
	for i, c := range p.hand {
		if c == card {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			return
		}
	}
}

func (p *Player) receive(cards ...*deck.Card) {
	p.hand = append(p.hand, cards...)
}

// clearPlayed puts every played card on the player's discard pile
func (p *Player) clearPlayed() {
	for _, c := range p.inPlay {
		p.Deck.DiscardCard(c)
	}
	p.inPlay = []*deck.Card{}
}

func (p *Player) reset(d *deck.Deck) {
	p.Deck = d
	p.hand = []*deck.Card{}
	p.inPlay = []*deck.Card{}
}

func (p *Player) disable() {
	p.Enabled = false
	if p.Deck != nil {
		p.Deck.Clear()
	}
	p.Deck = nil
	p.hand = []*deck.Card{}
	p.inPlay = []*deck.Card{}
}
