package unosim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckShuffleIsAPermutation(t *testing.T) {
	deck := NewStandardDeck()
	before := make(map[uint32]int)
	for _, card := range deck {
		before[card.Hash()]++
	}

	deck.Shuffle(NewRand(1))

	after := make(map[uint32]int)
	for _, card := range deck {
		after[card.Hash()]++
	}
	assert.Equal(t, before, after)
	assert.NotEqual(t, NewStandardDeck(), deck)
}

func TestDeckShuffleIsDeterministicForASeed(t *testing.T) {
	a := NewStandardDeck()
	b := NewStandardDeck()
	a.Shuffle(NewRand(99))
	b.Shuffle(NewRand(99))
	assert.Equal(t, a, b)
}

func TestDeckStackOperations(t *testing.T) {
	deck := NewEmptyDeck()
	_, err := deck.Top()
	assert.ErrorIs(t, err, ErrEmptyDeck)

	deck = deck.Push(NumberCard(Red, 1), NumberCard(Red, 2))
	top, err := deck.Top()
	require.NoError(t, err)
	assert.Equal(t, NumberCard(Red, 2), top)

	front, rest, err := deck.PopFront()
	require.NoError(t, err)
	assert.Equal(t, NumberCard(Red, 1), front)
	assert.Equal(t, Deck{NumberCard(Red, 2)}, rest)

	deck = Deck{NumberCard(Red, 1), SkipCard(Blue), WildCard()}
	assert.Equal(t, Deck{NumberCard(Red, 1), WildCard()}, deck.RemoveCard(1))
}
