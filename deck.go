package unosim

import (
	"math/rand"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

var ErrEmptyDeck = errors.New("empty deck")

// Deck is an ordered sequence of cards. It is used for the draw pile (front is the next
// card to draw), the discard pile (last element is the top card) and player hands.
type Deck []Card

func (d Deck) String() string {
	if len(d) == 0 {
		return "[]"
	}

	var sb strings.Builder

	sb.WriteString("[")

	for _, card := range d[0 : len(d)-1] {
		sb.WriteString(card.SymbolString())
		sb.WriteString("|")
	}

	sb.WriteString(d[len(d)-1].SymbolString())
	sb.WriteString("]")

	return sb.String()
}

func (d Deck) Len() int {
	return len(d)
}

func (d Deck) IsEmpty() bool {
	return len(d) == 0
}

func NewEmptyDeck() Deck {
	return make([]Card, 0, 128)
}

// NewStandardDeck builds the 108 card deck: for each color one 0, two of each 1-9, two
// Reverse, two Skip and two DrawTwo; then four Wild and four DrawFour.
func NewStandardDeck() Deck {
	cards := make([]Card, 0, 108)
	for _, color := range PlayableColors {
		cards = append(cards, NumberCard(color, 0))
		for digit := 1; digit <= 9; digit++ {
			cards = append(cards, NumberCard(color, digit), NumberCard(color, digit))
		}
		for i := 0; i < 2; i++ {
			cards = append(cards, ReverseCard(color))
		}
		for i := 0; i < 2; i++ {
			cards = append(cards, SkipCard(color))
		}
		for i := 0; i < 2; i++ {
			cards = append(cards, DrawTwoCard(color))
		}
	}

	for i := 0; i < 4; i++ {
		cards = append(cards, WildCard())
	}
	for i := 0; i < 4; i++ {
		cards = append(cards, DrawFourCard())
	}

	return Deck(cards)
}

func (d Deck) Clone() Deck {
	return slices.Clone(d)
}

func (d Deck) Push(cards ...Card) Deck {
	return append(d, cards...)
}

func (d Deck) Top() (Card, error) {
	if d.IsEmpty() {
		return Card{}, ErrEmptyDeck
	}
	return d[len(d)-1], nil
}

// PopFront removes the first card, the next one to be drawn.
func (d Deck) PopFront() (Card, Deck, error) {
	if d.IsEmpty() {
		return Card{}, d, ErrEmptyDeck
	}
	return d[0], d[1:], nil
}

func (d Deck) RemoveCard(index int) Deck {
	return slices.Delete(d, index, index+1)
}

// Score is the sum of the card scores, the loss of a hand at round end.
func (d Deck) Score() int {
	total := 0
	for _, card := range d {
		total += card.Score()
	}
	return total
}

func (d Deck) CountOf(kind Kind) int {
	count := 0
	for _, card := range d {
		if card.Kind == kind {
			count++
		}
	}
	return count
}

// Shuffle permutes the deck in place using the given source.
func (d Deck) Shuffle(rng *rand.Rand) {
	shuffledIndices := ShuffleIntRange(rng, 0, len(d))
	permuted := make(Deck, len(d))
	for i, j := range shuffledIndices {
		permuted[i] = d[j]
	}
	copy(d, permuted)
}
