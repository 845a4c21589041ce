package engine

import (
	"math/rand"

	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/internal/utils"
	"github.com/sirupsen/logrus"
)

// DeckManager owns the draw pile and the discard pile of a round. Cards leave the draw
// pile from the front and are appended to the discard pile.
type DeckManager struct {
	drawPile    unosim.Deck
	discardPile unosim.Deck
	rng         *rand.Rand
	reshuffles  int

	logger logrus.FieldLogger
	sink   unosim.EventSink
}

func NewDeckManager(cards unosim.Deck, rng *rand.Rand, logger logrus.FieldLogger, sink unosim.EventSink) *DeckManager {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	if sink == nil {
		sink = unosim.NopSink
	}
	return &DeckManager{
		drawPile:    cards.Clone(),
		discardPile: unosim.NewEmptyDeck(),
		rng:         rng,
		logger:      logger,
		sink:        sink,
	}
}

func (m *DeckManager) DrawPileLen() int { return len(m.drawPile) }
func (m *DeckManager) DiscardPileLen() int { return len(m.discardPile) }
func (m *DeckManager) Reshuffles() int { return m.reshuffles }

// DrawPile returns a copy of the draw pile, front first.
func (m *DeckManager) DrawPile() unosim.Deck { return m.drawPile.Clone() }

// Shuffle permutes the draw pile with the round's source.
func (m *DeckManager) Shuffle() {
	m.drawPile.Shuffle(m.rng)
}

// DrawOne pops the front of the draw pile. An empty draw pile is refilled from the
// discards before the pop, and again right after a pop that empties it. Drawing with
// both piles empty is fatal.
func (m *DeckManager) DrawOne() unosim.Card {
	if m.drawPile.IsEmpty() {
		if m.discardPile.IsEmpty() {
			unosim.Invariantf("DeckManager.DrawOne", "draw and discard piles are both empty")
		}
		m.reshuffle()
	}

	card, rest, err := m.drawPile.PopFront()
	if err != nil {
		unosim.Invariantf("DeckManager.DrawOne", "%s", err)
	}
	m.drawPile = rest

	if m.drawPile.IsEmpty() && !m.discardPile.IsEmpty() {
		m.reshuffle()
	}
	return card
}

func (m *DeckManager) DrawN(n int) unosim.Deck {
	if n < 0 {
		unosim.Invariantf("DeckManager.DrawN", "negative count %d", n)
	}
	cards := make(unosim.Deck, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, m.DrawOne())
	}
	return cards
}

func (m *DeckManager) Discard(card unosim.Card) {
	m.discardPile = m.discardPile.Push(card)
}

func (m *DeckManager) DiscardMany(cards unosim.Deck) {
	m.discardPile = m.discardPile.Push(cards...)
}

// TopDiscard returns the last discarded card.
func (m *DeckManager) TopDiscard() (unosim.Card, error) {
	return m.discardPile.Top()
}

func (m *DeckManager) reshuffle() {
	count := len(m.discardPile)

	newPile := m.discardPile.Clone()
	newPile.Shuffle(m.rng)
	m.drawPile = newPile
	m.discardPile = unosim.NewEmptyDeck()
	m.reshuffles++

	m.logger.WithField("cards", count).Debug("reshuffled discard pile into draw pile")
	m.sink.OnGameEvent(unosim.ReshuffleEvent{CardCount: count})
}

// install replaces both piles, used when a round starts from a preset.
func (m *DeckManager) install(drawPile, discardPile unosim.Deck) {
	m.drawPile = drawPile.Clone()
	m.discardPile = discardPile.Clone()
}
