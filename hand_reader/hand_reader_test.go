package hand_reader

import (
	"testing"

	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
	"github.com/nrawrx3/unosim/players"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPlayerScenario = `
players:
  - name: alice
    hand: ["red 5"]
  - name: bob
    hand: ["red 5", "blue 3"]
table: {color: red, value: 5, kind: number, pending: 0}
discarded_pile_size: 1
player_of_next_turn: alice
`

func TestLoadConfigAccountsForEveryCard(t *testing.T) {
	loaded, err := LoadConfig([]byte(twoPlayerScenario), nil, nil)
	require.NoError(t, err)

	preset := loaded.Preset
	assert.Equal(t, []string{"alice", "bob"}, loaded.PlayerNames)
	assert.Equal(t, unosim.Deck{unosim.NumberCard(unosim.Red, 5)}, preset.Hands[0])
	assert.Equal(t, unosim.Deck{unosim.NumberCard(unosim.Red, 5), unosim.NumberCard(unosim.Blue, 3)}, preset.Hands[1])
	assert.Equal(t, unosim.TableState{Color: unosim.Red, Value: 5, Kind: unosim.KindNumber}, preset.State)
	assert.Equal(t, 0, preset.FirstSeat)
	assert.Equal(t, 1, preset.DiscardPile.Len())
	assert.Equal(t, 104, preset.DrawPile.Len())

	// Both red fives are in hands, so none may be left in the piles.
	for _, card := range append(preset.DrawPile.Clone(), preset.DiscardPile...) {
		assert.NotEqual(t, unosim.NumberCard(unosim.Red, 5), card)
	}
}

func TestLoadedPresetPlaysTheScenario(t *testing.T) {
	loaded, err := LoadConfig([]byte(twoPlayerScenario), nil, nil)
	require.NoError(t, err)

	seats := []engine.Player{players.NewFirstCard("alice"), players.NewFirstCard("bob")}
	round, err := engine.NewRound(engine.DefaultRoundConfig(2, 0), seats, engine.WithPreset(loaded.Preset))
	require.NoError(t, err)

	result := round.Run()
	assert.Equal(t, 0, result.Winner)
	assert.Equal(t, []int{0, 8}, result.Losses)
}

func TestLoadConfigColorListsKeepDocumentOrder(t *testing.T) {
	config := `
players:
  - name: alice
    red: [1, 2, skip]
    wilds: [wild, wild_draw_4]
    draw_upto:
      total: 7
  - name: john
    blue: [7, reverse]
    green: [draw_2]
discarded_pile_size: 1
shuffle_seed: 11
player_of_next_turn: john
`
	loaded, err := LoadConfig([]byte(config), nil, nil)
	require.NoError(t, err)

	alice := loaded.Preset.Hands[0]
	require.Equal(t, 7, alice.Len())
	assert.Equal(t, unosim.Deck{
		unosim.NumberCard(unosim.Red, 1),
		unosim.NumberCard(unosim.Red, 2),
		unosim.SkipCard(unosim.Red),
		unosim.WildCard(),
		unosim.DrawFourCard(),
	}, alice[:5])

	assert.Equal(t, unosim.Deck{
		unosim.NumberCard(unosim.Blue, 7),
		unosim.ReverseCard(unosim.Blue),
		unosim.DrawTwoCard(unosim.Green),
	}, loaded.Preset.Hands[1])
	assert.Equal(t, 1, loaded.Preset.FirstSeat)
	assert.Equal(t, int64(11), loaded.ShuffleSeed)

	total := loaded.Preset.DrawPile.Len() + loaded.Preset.DiscardPile.Len()
	for _, hand := range loaded.Preset.Hands {
		total += hand.Len()
	}
	assert.Equal(t, 108, total)
}

func TestLoadConfigAcceptsJSON(t *testing.T) {
	config := `{
		"players": [
			{"name": "alice", "hand": ["green 4"]},
			{"name": "bob", "hand": ["wild"]}
		],
		"discarded_pile_size": 2
	}`
	loaded, err := LoadConfig([]byte(config), nil, nil)
	require.NoError(t, err)

	// The standard deck starts with red 0 and red 1.
	assert.Equal(t, unosim.Deck{unosim.NumberCard(unosim.Red, 0), unosim.NumberCard(unosim.Red, 1)}, loaded.Preset.DiscardPile)
	assert.Equal(t, unosim.TableState{Color: unosim.Red, Value: 1, Kind: unosim.KindNumber}, loaded.Preset.State)
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]struct {
		config string
		target error
	}{
		"unknown top-level key": {
			config: "players: []\nfoo: 1\n",
			target: ErrUnknownKey,
		},
		"unknown player key": {
			config: "players:\n  - name: a\n    purple: [1]\n  - name: b\n",
			target: ErrUnknownKey,
		},
		"more copies than the deck has": {
			config: "players:\n  - name: a\n    red: [0, 0]\n  - name: b\ntable: {color: red, value: 3}\n",
			target: ErrCouldNotRemoveCard,
		},
		"digit out of range": {
			config: "players:\n  - name: a\n    red: [265]\n  - name: b\n    hand: [\"red 3\"]\ntable: {color: red, value: 3}\n",
			target: unosim.ErrInvalidCardNumber,
		},
		"negative digit": {
			config: "players:\n  - name: a\n    blue: [-1]\n  - name: b\ntable: {color: red, value: 3}\n",
			target: unosim.ErrInvalidCardNumber,
		},
		"unknown first player": {
			config: "players:\n  - name: a\n  - name: b\ntable: {color: red, value: 3}\nplayer_of_next_turn: c\n",
			target: ErrUnknownPlayer,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tc.config), nil, nil)
			assert.ErrorIs(t, err, tc.target)
		})
	}

	_, err := LoadConfig([]byte("players:\n  - name: a\n  - name: b\n"), nil, nil)
	assert.Error(t, err, "no table and no discard pile")

	_, err = LoadConfig([]byte("players:\n  - name: a\n    hand: [\"wild 3\"]\n  - name: b\n"), nil, nil)
	assert.ErrorIs(t, err, unosim.ErrInvalidCardColor)
}
