package protocol

import "time"

// Event is a single notification published on a Bus.
// Fields that do not apply to the Kind are left empty.
type Event struct {
	Kind     Kind      `json:"kind"`
	Time     time.Time `json:"time"`
	DeckID   string    `json:"deckID,omitempty"`
	DeckName string    `json:"deckName,omitempty"`
	CardID   string    `json:"cardID,omitempty"`
	CardName string    `json:"cardName,omitempty"`
	PlayerID string    `json:"playerID,omitempty"`
	Player   int       `json:"player"`
	Turn     int       `json:"turn,omitempty"`
	State    string    `json:"state,omitempty"`
	Phase    string    `json:"phase,omitempty"`
	Amount   int       `json:"amount,omitempty"`
	Victory  bool      `json:"victory,omitempty"`
	TargetID string    `json:"targetID,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// Publisher accepts notifications
type Publisher interface {
	Publish(Event)
}

// Discard is a Publisher that drops every notification
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
