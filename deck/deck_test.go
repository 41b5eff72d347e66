package deck

import (
	"math/rand"
	"sort"
	"testing"

	utils "github.com/minaorangina/coopdeck/internal"
	"github.com/minaorangina/coopdeck/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckDraw(t *testing.T) {
	t.Run("draws every card in order then reports empty", func(t *testing.T) {
		t.Log("Given a deck of five named cards that does not shuffle on start")
		hooks, rec, _ := observedHooks()
		d := New(Config{Name: "starter", MaxSize: 10}, hooks)
		d.Fill([]Definition{
			someDefinition("Strike"),
			someDefinition("Guard"),
			someDefinition("Scout"),
			someDefinition("Harvest"),
			someDefinition("Rally"),
		})
		d.Prepare()

		t.Log("When all five are drawn")
		drawn := d.DrawCards(5)

		t.Log("Then they come out top to bottom")
		assert.Equal(t, []string{"Strike", "Guard", "Scout", "Harvest", "Rally"}, names(drawn))
		for _, c := range drawn {
			utils.AssertTrue(t, c.IsInHand())
		}

		t.Log("and a sixth draw returns no card and announces the empty deck")
		rec.reset()
		card, ok := d.DrawCard()
		utils.AssertFalse(t, ok)
		assert.Nil(t, card)
		assert.Equal(t, []protocol.Kind{protocol.DeckEmpty}, rec.kinds())
	})

	t.Run("publishes card and deck notifications on draw", func(t *testing.T) {
		hooks, rec, _ := observedHooks()
		d := someDeck(2, Config{Name: "d"}, hooks)
		rec.reset()

		card, ok := d.DrawCard()
		require.True(t, ok)

		assert.Equal(t, []protocol.Kind{protocol.CardDrawn, protocol.DrawnFromDeck}, rec.kinds())
		utils.AssertEqual(t, rec.events[1].CardID, card.ID())
		utils.AssertEqual(t, rec.events[1].DeckID, d.ID())
		utils.AssertEqual(t, rec.events[0].PlayerID, "p1")
	})

	t.Run("draw then discard keeps the draw pile and grows the discard pile", func(t *testing.T) {
		d := someDeck(4, Config{}, Hooks{})

		card, ok := d.DrawCard()
		require.True(t, ok)
		cardCount, discardCount := d.CardCount(), d.DiscardCount()

		d.DiscardCard(card)

		utils.AssertEqual(t, d.CardCount(), cardCount)
		utils.AssertEqual(t, d.DiscardCount(), discardCount+1)
		utils.AssertTrue(t, card.IsInDiscard())
	})

	t.Run("draws fewer than asked when deck and discard run out", func(t *testing.T) {
		t.Log("Given a deck with two cards in the draw pile and one discarded")
		d := someDeck(3, Config{AutoShuffleWhenEmpty: true}, Hooks{})
		card, _ := d.DrawCard()
		d.DiscardCard(card)
		require.Equal(t, 3, d.TotalCards())

		t.Log("When five cards are requested")
		drawn := d.DrawCards(5)

		t.Log("Then only the three available are returned and both piles are empty")
		utils.AssertEqual(t, len(drawn), 3)
		utils.AssertEqual(t, d.CardCount(), 0)
		utils.AssertEqual(t, d.DiscardCount(), 0)
	})

	t.Run("does not reshuffle when auto shuffle is off", func(t *testing.T) {
		d := someDeck(1, Config{}, Hooks{})
		card, _ := d.DrawCard()
		d.DiscardCard(card)

		_, ok := d.DrawCard()

		utils.AssertFalse(t, ok)
		utils.AssertEqual(t, d.DiscardCount(), 1)
	})

	t.Run("draw of zero or fewer cards returns nothing", func(t *testing.T) {
		d := someDeck(3, Config{}, Hooks{})
		assert.Empty(t, d.DrawCards(0))
		assert.Empty(t, d.DrawCards(-2))
		utils.AssertEqual(t, d.CardCount(), 3)
	})
}

func TestDeckShuffle(t *testing.T) {
	t.Run("is a permutation of the draw pile", func(t *testing.T) {
		d := someDeck(20, Config{}, Hooks{})
		before := names(d.Cards())

		d.Shuffle()
		after := names(d.Cards())

		sort.Strings(before)
		sort.Strings(after)
		assert.Equal(t, before, after)
	})

	t.Run("reorders a large deck", func(t *testing.T) {
		d := someDeck(52, Config{}, Hooks{})
		before := names(d.Cards())

		d.Shuffle()

		assert.NotEqual(t, before, names(d.Cards()))
	})

	t.Run("leaves tiny decks alone but still announces the shuffle", func(t *testing.T) {
		for _, n := range []int{0, 1} {
			hooks, rec, _ := observedHooks()
			d := someDeck(n, Config{}, hooks)
			before := d.Cards()
			rec.reset()

			d.Shuffle()

			assert.Equal(t, before, d.Cards())
			utils.AssertEqual(t, rec.count(protocol.DeckShuffled), 1)
		}
	})

	t.Run("shuffles on start when configured", func(t *testing.T) {
		hooks, rec, _ := observedHooks()
		d := someDeck(5, Config{ShuffleOnStart: true}, hooks)
		rec.reset()

		d.Prepare()

		utils.AssertEqual(t, rec.count(protocol.DeckShuffled), 1)
	})
}

func TestDeckAddCard(t *testing.T) {
	t.Run("respects the maximum deck size", func(t *testing.T) {
		t.Log("Given a deck at capacity")
		d := someDeck(3, Config{MaxSize: 3}, Hooks{})
		before := d.Cards()

		t.Log("When another card is added")
		ok := d.AddCard(NewCard(someDefinition("extra"), Hooks{}), Bottom)

		t.Log("Then it is rejected and the deck is unchanged")
		utils.AssertFalse(t, ok)
		assert.Equal(t, before, d.Cards())
	})

	t.Run("rejects a nil card", func(t *testing.T) {
		hooks, rec, logs := observedHooks()
		d := New(Config{}, hooks)

		utils.AssertFalse(t, d.AddCard(nil, Top))
		utils.AssertEqual(t, d.CardCount(), 0)
		utils.AssertEqual(t, rec.count(protocol.CardAdded), 0)
		utils.AssertEqual(t, logs.FilterMessage("cannot add a nil card").Len(), 1)
	})

	t.Run("inserts at the requested position", func(t *testing.T) {
		d := someDeck(3, Config{}, Hooks{})

		top := NewCard(someDefinition("top"), Hooks{})
		bottom := NewCard(someDefinition("bottom"), Hooks{})
		require.True(t, d.AddCard(top, Top))
		require.True(t, d.AddCard(bottom, Bottom))

		first, _ := d.PeekTop()
		last, _ := d.PeekBottom()
		assert.Same(t, top, first)
		assert.Same(t, bottom, last)
	})

	t.Run("random insertion lands anywhere in the pile", func(t *testing.T) {
		seen := map[int]bool{}
		for seed := int64(0); seed < 200; seed++ {
			d := New(Config{}, Hooks{}, WithRand(rand.New(rand.NewSource(seed))))
			d.Fill(someDefinitions(2))
			card := NewCard(someDefinition("random"), Hooks{})

			require.True(t, d.AddCard(card, Random))
			seen[indexOf(d.Cards(), card)] = true
		}
		assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, seen)
	})

	t.Run("returns the card to the deck", func(t *testing.T) {
		hooks, rec, _ := observedHooks()
		d := someDeck(1, Config{}, hooks)
		card, _ := d.DrawCard()
		rec.reset()

		require.True(t, d.AddCard(card, Top))

		utils.AssertTrue(t, card.IsInDeck())
		assert.Equal(t, []protocol.Kind{protocol.CardAdded}, rec.kinds())
		utils.AssertEqual(t, rec.events[0].Message, "Top")
	})
}

func TestDeckRemoveAndDiscard(t *testing.T) {
	t.Run("removes a card in the draw pile", func(t *testing.T) {
		hooks, rec, _ := observedHooks()
		d := someDeck(3, Config{}, hooks)
		card := d.Cards()[1]
		rec.reset()

		utils.AssertTrue(t, d.RemoveCard(card))
		utils.AssertEqual(t, d.CardCount(), 2)
		assert.NotContains(t, d.Cards(), card)
		assert.Equal(t, []protocol.Kind{protocol.CardRemoved}, rec.kinds())
	})

	t.Run("reports a card that is not there", func(t *testing.T) {
		hooks, rec, _ := observedHooks()
		d := someDeck(3, Config{}, hooks)
		rec.reset()

		utils.AssertFalse(t, d.RemoveCard(NewCard(someDefinition("stranger"), Hooks{})))
		utils.AssertFalse(t, d.RemoveCard(nil))
		assert.Empty(t, rec.events)
	})

	t.Run("discarding a card from the draw pile moves it", func(t *testing.T) {
		d := someDeck(3, Config{}, Hooks{})
		card := d.Cards()[0]

		d.DiscardCard(card)

		utils.AssertEqual(t, d.CardCount(), 2)
		assert.Equal(t, []*Card{card}, d.Discards())
	})

	t.Run("a card from outside any pile can still be discarded", func(t *testing.T) {
		d := someDeck(2, Config{}, Hooks{})
		stranger := NewCard(someDefinition("stranger"), Hooks{})

		d.DiscardCard(stranger)

		utils.AssertEqual(t, d.CardCount(), 2)
		utils.AssertEqual(t, d.DiscardCount(), 1)
		utils.AssertTrue(t, stranger.IsInDiscard())
	})

	t.Run("ignores a nil discard", func(t *testing.T) {
		hooks, _, logs := observedHooks()
		d := someDeck(2, Config{}, hooks)

		d.DiscardCard(nil)

		utils.AssertEqual(t, d.DiscardCount(), 0)
		utils.AssertEqual(t, logs.FilterMessage("cannot discard a nil card").Len(), 1)
	})
}

func TestShuffleDiscardIntoDeck(t *testing.T) {
	t.Run("warns and does nothing with an empty discard pile", func(t *testing.T) {
		hooks, rec, logs := observedHooks()
		d := someDeck(2, Config{}, hooks)
		before := d.Cards()
		rec.reset()

		d.ShuffleDiscardIntoDeck()

		assert.Equal(t, before, d.Cards())
		assert.Empty(t, rec.events)
		utils.AssertEqual(t, logs.FilterMessage("no cards in discard pile to shuffle").Len(), 1)
	})

	t.Run("moves every discard into the draw pile", func(t *testing.T) {
		hooks, rec, _ := observedHooks()
		d := someDeck(4, Config{}, hooks)
		drawn := d.DrawCards(3)
		for _, c := range drawn {
			d.DiscardCard(c)
		}
		rec.reset()

		d.ShuffleDiscardIntoDeck()

		utils.AssertEqual(t, d.CardCount(), 4)
		utils.AssertEqual(t, d.DiscardCount(), 0)
		for _, c := range d.Cards() {
			utils.AssertTrue(t, c.IsInDeck())
		}
		assert.Equal(t, []protocol.Kind{protocol.DeckShuffled}, rec.kinds())
	})
}

func TestDeckQueries(t *testing.T) {
	t.Run("peeking an empty deck finds nothing", func(t *testing.T) {
		d := New(Config{}, Hooks{})

		_, ok := d.PeekTop()
		utils.AssertFalse(t, ok)
		_, ok = d.PeekBottom()
		utils.AssertFalse(t, ok)
	})

	t.Run("peeking does not draw", func(t *testing.T) {
		d := someDeck(3, Config{}, Hooks{})

		top, ok := d.PeekTop()
		require.True(t, ok)
		utils.AssertEqual(t, top.Name(), "card-0")
		utils.AssertTrue(t, top.IsInDeck())
		utils.AssertEqual(t, d.CardCount(), 3)
	})

	t.Run("finds cards by name ignoring case", func(t *testing.T) {
		d := New(Config{}, Hooks{})
		d.Fill([]Definition{someDefinition("Strike"), someDefinition("guard"), someDefinition("STRIKE")})

		utils.AssertEqual(t, len(d.FindByName("strike")), 2)
		utils.AssertEqual(t, len(d.FindByName("Guard")), 1)
		assert.Empty(t, d.FindByName("missing"))
	})

	t.Run("finds cards by type", func(t *testing.T) {
		shield := someDefinition("shield")
		shield.Type = Defense
		d := New(Config{}, Hooks{})
		d.Fill([]Definition{someDefinition("a"), shield, someDefinition("b")})

		utils.AssertEqual(t, len(d.FindByType(Attack)), 2)
		assert.Equal(t, []string{"shield"}, names(d.FindByType(Defense)))
		assert.Empty(t, d.FindByType(Event))
	})
}

func TestDeckClearAndCopy(t *testing.T) {
	t.Run("clear empties both piles but not hands", func(t *testing.T) {
		d := someDeck(4, Config{}, Hooks{})
		inHand, _ := d.DrawCard()
		discarded, _ := d.DrawCard()
		d.DiscardCard(discarded)

		d.Clear()

		utils.AssertEqual(t, d.TotalCards(), 0)
		utils.AssertTrue(t, inHand.IsInHand())
	})

	t.Run("copy duplicates the draw pile only", func(t *testing.T) {
		config := Config{Name: "original", MaxSize: 8, StartingHandSize: 2, AutoShuffleWhenEmpty: true}
		d := someDeck(4, config, Hooks{})
		discarded, _ := d.DrawCard()
		d.DiscardCard(discarded)

		cp := d.Copy()

		assert.Equal(t, config, cp.Config())
		assert.NotEqual(t, d.ID(), cp.ID())
		assert.Equal(t, names(d.Cards()), names(cp.Cards()))
		utils.AssertEqual(t, cp.DiscardCount(), 0)
		for i, c := range cp.Cards() {
			assert.NotEqual(t, d.Cards()[i].ID(), c.ID())
		}

		t.Log("and the copies are independent of the originals")
		drawn, _ := cp.DrawCard()
		utils.AssertTrue(t, drawn.IsInHand())
		utils.AssertTrue(t, d.Cards()[0].IsInDeck())
	})
}

func TestFill(t *testing.T) {
	d := New(Config{MaxSize: 3}, Hooks{})

	added := d.Fill(someDefinitions(5))

	utils.AssertEqual(t, added, 3)
	utils.AssertEqual(t, d.CardCount(), 3)
}

func TestCardLocationStaysExclusive(t *testing.T) {
	d := New(Config{AutoShuffleWhenEmpty: true}, Hooks{}, WithRand(rand.New(rand.NewSource(7))))
	d.Fill(someDefinitions(6))
	all := d.Cards()
	hand := []*Card{}
	r := rand.New(rand.NewSource(99))

	for i := 0; i < 200; i++ {
		switch r.Intn(5) {
		case 0:
			if c, ok := d.DrawCard(); ok {
				hand = append(hand, c)
			}
		case 1:
			if len(hand) > 0 {
				d.DiscardCard(hand[0])
				hand = hand[1:]
			}
		case 2:
			if len(hand) > 0 && hand[0].Play(nil) {
				d.DiscardCard(hand[0])
				hand = hand[1:]
			}
		case 3:
			d.ShuffleDiscardIntoDeck()
		case 4:
			if len(hand) > 0 {
				d.AddCard(hand[0], Random)
				hand = hand[1:]
			}
		}

		for _, c := range all {
			require.True(t, exactlyOneLocation(c), "card %s in more than one place", c.Name())
		}
		require.Equal(t, len(all), d.TotalCards()+len(hand))
	}
}
