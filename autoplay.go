package coopdeck

import (
	"github.com/minaorangina/coopdeck/deck"
	"github.com/minaorangina/coopdeck/game"
	"go.uber.org/zap"
)

// Autoplayer takes the active player's actions for headless runs. Each step
// plays the first playable card in hand, up to a number of plays per turn,
// then discards one unplayable card or ends the turn.
type Autoplayer struct {
	log      *zap.Logger
	maxPlays int
	plays    int
	turn     int
	seat     int
}

func NewAutoplayer(maxPlays int, log *zap.Logger) *Autoplayer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Autoplayer{log: log, maxPlays: maxPlays, seat: -1}
}

// Step takes one action. It does nothing outside the action phase.
func (a *Autoplayer) Step(s *game.Session) error {
	if s.State() != game.PlayerTurn || s.Phase() != game.ActionPhase {
		return nil
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return nil
	}

	if s.Turn() != a.turn || s.CurrentPlayerIndex() != a.seat {
		a.turn, a.seat, a.plays = s.Turn(), s.CurrentPlayerIndex(), 0
	}

	if a.plays < a.maxPlays {
		for _, card := range p.Hand() {
			if !card.Playable() {
				continue
			}
			err := s.PlayCard(card.ID(), targetFor(s, p, card))
			if err != nil {
				a.log.Debug("could not play card", zap.String("card", card.Name()), zap.Error(err))
				continue
			}
			a.plays++
			return nil
		}
	}

	for _, card := range p.Hand() {
		if !card.Playable() {
			return s.DiscardCard(card.ID())
		}
	}
	return s.EndTurn()
}

func targetFor(s *game.Session, p *game.Player, card *deck.Card) *deck.Target {
	if !card.RequiresTarget() {
		return nil
	}

	switch {
	case card.CanTarget(deck.TargetSelf):
		return &deck.Target{ID: p.ID, Kind: deck.TargetSelf}
	case card.CanTarget(deck.TargetAlly):
		for _, other := range s.Players() {
			if other.ID != p.ID {
				return &deck.Target{ID: other.ID, Kind: deck.TargetAlly}
			}
		}
		return &deck.Target{ID: p.ID, Kind: deck.TargetSelf}
	default:
		return &deck.Target{ID: "enemy", Kind: deck.TargetEnemy}
	}
}
