package deck

import (
	"fmt"
	"strings"
)

// CardType is the closed set of card families
type CardType int

var cardTypeNames = []string{"Attack", "Defense", "Utility", "Resource", "Event"}

const (
	Attack CardType = iota
	Defense
	Utility
	Resource
	Event
)

func (t CardType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("CardType(%d)", int(t))
	}
	return cardTypeNames[t]
}

// Valid reports whether t is one of the known card types
func (t CardType) Valid() bool {
	return t >= Attack && int(t) < len(cardTypeNames)
}

// MarshalText implements encoding.TextMarshaler
func (t CardType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid card type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts a card type name in any case
func (t *CardType) UnmarshalText(text []byte) error {
	i, ok := lookupName(cardTypeNames, string(text))
	if !ok {
		return fmt.Errorf("unknown card type %q", string(text))
	}
	*t = CardType(i)
	return nil
}

// Rarity is the closed set of card rarities
type Rarity int

var rarityNames = []string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}

const (
	Common Rarity = iota
	Uncommon
	Rare
	Epic
	Legendary
)

func (r Rarity) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// Valid reports whether r is one of the known rarities
func (r Rarity) Valid() bool {
	return r >= Common && int(r) < len(rarityNames)
}

// MarshalText implements encoding.TextMarshaler
func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rarity %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText accepts a rarity name in any case
func (r *Rarity) UnmarshalText(text []byte) error {
	i, ok := lookupName(rarityNames, string(text))
	if !ok {
		return fmt.Errorf("unknown rarity %q", string(text))
	}
	*r = Rarity(i)
	return nil
}

// Location is the pile a card currently occupies
type Location int

var locationNames = []string{"InDeck", "InHand", "InPlay", "InDiscard"}

const (
	InDeck Location = iota
	InHand
	InPlay
	InDiscard
)

func (l Location) String() string {
	if l < InDeck || int(l) >= len(locationNames) {
		return fmt.Sprintf("Location(%d)", int(l))
	}
	return locationNames[l]
}

// MarshalText implements encoding.TextMarshaler
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// TargetKind describes who a card is aimed at
type TargetKind int

var targetKindNames = []string{"Self", "Ally", "Enemy"}

const (
	TargetSelf TargetKind = iota
	TargetAlly
	TargetEnemy
)

func (k TargetKind) String() string {
	if k < TargetSelf || int(k) >= len(targetKindNames) {
		return fmt.Sprintf("TargetKind(%d)", int(k))
	}
	return targetKindNames[k]
}

// Target is the recipient of a played card
type Target struct {
	ID   string
	Kind TargetKind
}

// Position selects where AddCard inserts a card
type Position int

const (
	Top Position = iota
	Bottom
	Random
)

func (p Position) String() string {
	switch p {
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	case Random:
		return "Random"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

func lookupName(names []string, s string) (int, bool) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, true
		}
	}
	return 0, false
}
