package unosim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playableCards(set []Playable) Deck {
	cards := make(Deck, 0, len(set))
	for _, p := range set {
		cards = append(cards, p.Card)
	}
	return cards
}

func TestPlayableSetFiltersDrawFourWhenHonestAlternativeExists(t *testing.T) {
	state := TableState{Color: Red, Value: 5, Kind: KindNumber}
	hand := Deck{DrawFourCard(), NumberCard(Blue, 2), NumberCard(Red, 8), WildCard(), DrawFourCard()}

	set := PlayableSet(hand, state)
	assert.Equal(t, Deck{NumberCard(Red, 8), WildCard()}, playableCards(set))
	assert.Equal(t, 2, set[0].Index)
	assert.Equal(t, 3, set[1].Index)
}

func TestPlayableSetKeepsDrawFourWithoutAlternative(t *testing.T) {
	state := TableState{Color: Red, Value: 5, Kind: KindNumber}
	hand := Deck{NumberCard(Blue, 2), WildCard(), DrawFourCard()}

	set := PlayableSet(hand, state)
	assert.Equal(t, Deck{WildCard(), DrawFourCard()}, playableCards(set))
}

func TestPlayableSetNeverMixesDrawFourWithNumberOrWeakAction(t *testing.T) {
	deck := NewStandardDeck()
	rng := NewRand(7)

	states := []TableState{
		{Color: Red, Value: 5, Kind: KindNumber},
		{Color: Blue, Value: -1, Kind: KindSkip},
		{Color: Green, Value: -1, Kind: KindDrawTwo},
		{Color: Green, Value: -1, Kind: KindDrawTwo, PendingDraw: 2},
		{Color: Yellow, Value: -1, Kind: KindDrawFour, PendingDraw: 4},
		{Color: Yellow, Value: -1, Kind: KindWild},
	}

	for i := 0; i < 200; i++ {
		deck.Shuffle(rng)
		hand := deck[:9]
		for _, state := range states {
			set := PlayableSet(hand, state)
			honest, drawFour := false, false
			for _, p := range set {
				require.Equal(t, hand[p.Index], p.Card)
				if p.Card.Kind == KindNumber || p.Card.Kind.IsWeakAction() {
					honest = true
				}
				if p.Card.Kind == KindDrawFour {
					drawFour = true
				}
				if state.PendingDraw > 0 {
					require.True(t, p.Card.Kind.IsDrawAction(), "non-draw card %s offered during chain", p.Card)
				}
			}
			require.False(t, honest && drawFour, "hand %s state %s", hand, state)
		}
	}
}

func TestIsNewCardPlayable(t *testing.T) {
	state := TableState{Color: Red, Value: 5, Kind: KindNumber}

	assert.True(t, IsNewCardPlayable(NumberCard(Red, 1), Deck{NumberCard(Blue, 9)}, state))
	assert.False(t, IsNewCardPlayable(NumberCard(Green, 1), Deck{}, state))
	assert.True(t, IsNewCardPlayable(WildCard(), Deck{NumberCard(Red, 9)}, state))

	// A drawn DrawFour is only offered when nothing honest in hand could be played.
	assert.False(t, IsNewCardPlayable(DrawFourCard(), Deck{NumberCard(Red, 9), DrawFourCard()}, state))
	assert.True(t, IsNewCardPlayable(DrawFourCard(), Deck{NumberCard(Blue, 9), WildCard(), DrawFourCard()}, state))
}

func TestTableStateValidate(t *testing.T) {
	assert.NoError(t, TableState{Color: Red, Value: 5, Kind: KindNumber}.Validate())
	assert.NoError(t, TableState{Color: Red, Value: -1, Kind: KindDrawTwo, PendingDraw: 2}.Validate())
	assert.Error(t, TableState{}.Validate())
	assert.Error(t, TableState{Color: Wild, Value: -1, Kind: KindWild}.Validate())
	assert.Error(t, TableState{Color: Red, Value: 10, Kind: KindNumber}.Validate())
	assert.Error(t, TableState{Color: Red, Value: 3, Kind: KindNumber, PendingDraw: 2}.Validate())
}
