package protocol

import (
	"encoding/json"
	"fmt"
)

// Kind represents the kind of a notification
type Kind int

const (
	Null Kind = iota
	// card notifications
	CardPlayed
	CardDrawn
	CardDiscarded
	// deck notifications
	DrawnFromDeck
	DeckEmpty
	DeckShuffled
	CardAdded
	CardRemoved
	// session notifications
	StateChanged
	PhaseChanged
	TurnChanged
	VictoryPointsChanged
	GameEnded
)

var kindNames = []string{
	"Null",
	"CardPlayed",
	"CardDrawn",
	"CardDiscarded",
	"DrawnFromDeck",
	"DeckEmpty",
	"DeckShuffled",
	"CardAdded",
	"CardRemoved",
	"StateChanged",
	"PhaseChanged",
	"TurnChanged",
	"VictoryPointsChanged",
	"GameEnded",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalJSON writes the kind by name so the feed is readable by UI clients
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON reads a kind written by MarshalJSON
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range kindNames {
		if n == name {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown notification kind %q", name)
}

// IsCardKind reports whether the notification originates from a card
func (k Kind) IsCardKind() bool {
	return k >= CardPlayed && k <= CardDiscarded
}

// IsDeckKind reports whether the notification originates from a deck
func (k Kind) IsDeckKind() bool {
	return k >= DrawnFromDeck && k <= CardRemoved
}
