package game

import (
	"github.com/minaorangina/coopdeck/deck"
)

// CardView describes a card for observers
type CardView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Rarity   string `json:"rarity"`
	Cost     int    `json:"cost"`
	Strength int    `json:"strength"`
	Location string `json:"location"`
}

// PlayerSnapshot describes one enabled player
type PlayerSnapshot struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Hand      []CardView `json:"hand"`
	InPlay    []CardView `json:"inPlay"`
	DeckCount int        `json:"deckCount"`
	Discards  int        `json:"discards"`
}

// Snapshot is a read-only view of a session at one moment
type Snapshot struct {
	SessionID             string           `json:"sessionId"`
	State                 GameState        `json:"state"`
	Phase                 TurnPhase        `json:"phase"`
	Turn                  int              `json:"turn"`
	CurrentPlayer         int              `json:"currentPlayer"`
	VictoryPoints         int              `json:"victoryPoints"`
	VictoryPointsRequired int              `json:"victoryPointsRequired"`
	TurnTimeRemainingMS   int64            `json:"turnTimeRemainingMs"`
	Players               []PlayerSnapshot `json:"players"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:             s.id,
		State:                 s.state,
		Phase:                 s.phase,
		Turn:                  s.turn,
		CurrentPlayer:         s.current,
		VictoryPoints:         s.points,
		VictoryPointsRequired: s.opts.VictoryPointsRequired,
		TurnTimeRemainingMS:   s.turnTimer.Remaining().Milliseconds(),
		Players:               []PlayerSnapshot{},
	}

	for _, p := range s.Players() {
		ps := PlayerSnapshot{
			ID:     p.ID,
			Name:   p.Name,
			Hand:   viewCards(p.hand),
			InPlay: viewCards(p.inPlay),
		}
		if p.Deck != nil {
			ps.DeckCount = p.Deck.CardCount()
			ps.Discards = p.Deck.DiscardCount()
		}
		snap.Players = append(snap.Players, ps)
	}

	return snap
}

func viewCards(cards []*deck.Card) []CardView {
	views := []CardView{}
	for _, c := range cards {
		views = append(views, CardView{
			ID:       c.ID(),
			Name:     c.Name(),
			Type:     c.Type().String(),
			Rarity:   c.Rarity().String(),
			Cost:     c.Cost(),
			Strength: deck.Strength(c.Variant()),
			Location: c.Location().String(),
		})
	}
	return views
}
