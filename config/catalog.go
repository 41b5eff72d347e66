package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/minaorangina/coopdeck/deck"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownDeck      = errors.New("unknown deck")
	ErrUnknownCard      = errors.New("unknown card")
	ErrDuplicateCard    = errors.New("duplicate card name")
	ErrInvalidCardCount = errors.New("card count must be positive")
	ErrMissingField     = errors.New("missing field")
)

//go:embed catalog.yaml
var defaultCatalog []byte

// CardEntry is a card as authored in a catalog file. Type and rarity are
// required. Cards are playable unless marked otherwise.
type CardEntry struct {
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description"`
	Type             *deck.CardType `yaml:"type"`
	Rarity           *deck.Rarity   `yaml:"rarity"`
	Cost             int            `yaml:"cost"`
	Attack           int            `yaml:"attack"`
	Defense          int            `yaml:"defense"`
	Utility          int            `yaml:"utility"`
	Playable         *bool          `yaml:"playable"`
	RequiresTarget   bool           `yaml:"requiresTarget"`
	CanTargetSelf    bool           `yaml:"canTargetSelf"`
	CanTargetAllies  bool           `yaml:"canTargetAllies"`
	CanTargetEnemies bool           `yaml:"canTargetEnemies"`
	Effects          []string       `yaml:"effects"`
}

func (e CardEntry) definition() deck.Definition {
	playable := true
	if e.Playable != nil {
		playable = *e.Playable
	}

	def := deck.Definition{
		Name:             e.Name,
		Description:      e.Description,
		Cost:             e.Cost,
		Attack:           e.Attack,
		Defense:          e.Defense,
		Utility:          e.Utility,
		Playable:         playable,
		RequiresTarget:   e.RequiresTarget,
		CanTargetSelf:    e.CanTargetSelf,
		CanTargetAllies:  e.CanTargetAllies,
		CanTargetEnemies: e.CanTargetEnemies,
		Effects:          e.Effects,
	}
	if e.Type != nil {
		def.Type = *e.Type
	}
	if e.Rarity != nil {
		def.Rarity = *e.Rarity
	}
	return def
}

func (e CardEntry) validate() error {
	def := e.definition()
	if err := def.Validate(); err != nil {
		return err
	}
	if e.Type == nil {
		return fmt.Errorf("%w: type", ErrMissingField)
	}
	if e.Rarity == nil {
		return fmt.Errorf("%w: rarity", ErrMissingField)
	}
	return nil
}

// Slot is a number of copies of one card in a deck composition
type Slot struct {
	Card  string `yaml:"card"`
	Count int    `yaml:"count"`
}

// DeckEntry is a deck composition
type DeckEntry struct {
	Name                 string `yaml:"name"`
	MaxSize              int    `yaml:"maxSize"`
	StartingHandSize     int    `yaml:"startingHandSize"`
	AutoShuffleWhenEmpty bool   `yaml:"autoShuffleWhenEmpty"`
	ShuffleOnStart       bool   `yaml:"shuffleOnStart"`
	Cards                []Slot `yaml:"cards"`
}

// Catalog holds the authored cards and the decks built from them
type Catalog struct {
	Cards []CardEntry          `yaml:"cards"`
	Decks map[string]DeckEntry `yaml:"decks"`

	byName map[string]deck.Definition
}

// DefaultCatalog returns the catalog shipped with the binary
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog file. An empty path selects the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	c.byName = map[string]deck.Definition{}
	for _, entry := range c.Cards {
		if err := entry.validate(); err != nil {
			return nil, fmt.Errorf("card %q: %w", entry.Name, err)
		}
		def := entry.definition()
		if _, exists := c.byName[def.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCard, def.Name)
		}
		c.byName[def.Name] = def
	}

	for name, d := range c.Decks {
		for _, slot := range d.Cards {
			if _, ok := c.byName[slot.Card]; !ok {
				return nil, fmt.Errorf("deck %q: %w: %s", name, ErrUnknownCard, slot.Card)
			}
			if slot.Count <= 0 {
				return nil, fmt.Errorf("deck %q: %w: %s", name, ErrInvalidCardCount, slot.Card)
			}
		}
	}

	return &c, nil
}

// Definition looks a card up by name
func (c *Catalog) Definition(name string) (deck.Definition, bool) {
	def, ok := c.byName[name]
	return def, ok
}

// Deck expands a deck composition into its configuration and card list
func (c *Catalog) Deck(name string) (deck.Config, []deck.Definition, error) {
	d, ok := c.Decks[name]
	if !ok {
		return deck.Config{}, nil, fmt.Errorf("%w: %s", ErrUnknownDeck, name)
	}

	defs := []deck.Definition{}
	for _, slot := range d.Cards {
		def := c.byName[slot.Card]
		for i := 0; i < slot.Count; i++ {
			defs = append(defs, def)
		}
	}

	config := deck.Config{
		Name:                 d.Name,
		MaxSize:              d.MaxSize,
		StartingHandSize:     d.StartingHandSize,
		AutoShuffleWhenEmpty: d.AutoShuffleWhenEmpty,
		ShuffleOnStart:       d.ShuffleOnStart,
	}
	return config, defs, nil
}
