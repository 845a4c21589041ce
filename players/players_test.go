package players

import (
	"testing"

	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playablesOf(cards ...unosim.Card) []unosim.Playable {
	set := make([]unosim.Playable, len(cards))
	for i, card := range cards {
		set[i] = unosim.Playable{Index: i, Card: card}
	}
	return set
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds {
		parsed, err := ParseKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
	_, err := ParseKind("dqn")
	assert.ErrorIs(t, err, ErrUnknownPlayerKind)

	_, err = New(Kind("dqn"), "x", nil)
	assert.ErrorIs(t, err, ErrUnknownPlayerKind)
}

func TestFirstCardPlaysFirstAndPicksFirstColor(t *testing.T) {
	p := NewFirstCard("fc")
	set := playablesOf(unosim.NumberCard(unosim.Red, 1), unosim.WildCard())

	choice, ok := p.ChoosePlay(set, engine.TurnView{})
	require.True(t, ok)
	assert.Equal(t, set[0], choice)

	view := engine.TurnView{Hand: unosim.Deck{unosim.WildCard(), unosim.SkipCard(unosim.Green), unosim.NumberCard(unosim.Blue, 9)}}
	assert.Equal(t, unosim.Green, p.ChooseColor(view))
	assert.Equal(t, unosim.Red, p.ChooseColor(engine.TurnView{Hand: unosim.Deck{unosim.WildCard()}}))
	assert.True(t, p.ChooseToPlayDrawnCard(unosim.WildCard(), view))
}

func TestGreedyShedsHighestScore(t *testing.T) {
	p := NewGreedy("g")
	set := playablesOf(unosim.NumberCard(unosim.Red, 9), unosim.SkipCard(unosim.Red), unosim.WildCard(), unosim.NumberCard(unosim.Blue, 5))

	choice, ok := p.ChoosePlay(set, engine.TurnView{})
	require.True(t, ok)
	assert.Equal(t, unosim.WildCard(), choice.Card)

	hand := unosim.Deck{
		unosim.NumberCard(unosim.Red, 9),
		unosim.NumberCard(unosim.Blue, 5),
		unosim.SkipCard(unosim.Blue),
		unosim.DrawFourCard(),
	}
	assert.Equal(t, unosim.Blue, p.ChooseColor(engine.TurnView{Hand: hand}))
}

func TestWeightedInterpolatesBetweenFirstCardAndGreedy(t *testing.T) {
	set := playablesOf(unosim.NumberCard(unosim.Red, 1), unosim.NumberCard(unosim.Red, 2), unosim.SkipCard(unosim.Red))

	fc, _ := NewWeighted("w0", 1).ChoosePlay(set, engine.TurnView{})
	assert.Equal(t, set[0], fc)

	greedy, _ := NewWeighted("w1", 0).ChoosePlay(set, engine.TurnView{})
	assert.Equal(t, set[2], greedy)

	assert.Panics(t, func() { NewWeighted("bad", 1.5) })
}

func TestRandomOnlyChoosesFromSet(t *testing.T) {
	p := NewRandom("r", unosim.NewRand(4))
	set := playablesOf(unosim.NumberCard(unosim.Red, 1), unosim.NumberCard(unosim.Red, 2))
	for i := 0; i < 50; i++ {
		choice, ok := p.ChoosePlay(set, engine.TurnView{})
		require.True(t, ok)
		assert.True(t, unosim.ContainsPlayable(set, choice))
		assert.True(t, p.ChooseColor(engine.TurnView{}).IsPlayable())
	}
}

func TestStatsFollowRoundResults(t *testing.T) {
	p := NewGreedy("g")
	p.TrackSeat(1)

	p.OnRoundEnd(engine.RoundResult{Winner: 1, Losses: []int{8, 0}, Rewards: []int{-8, 8}})
	p.OnRoundEnd(engine.RoundResult{Winner: 0, Losses: []int{0, 20}, Rewards: []int{20, -20}})
	p.OnRoundEnd(engine.RoundResult{Winner: -1, Losses: []int{3, 4}, Rewards: []int{0, 0}})

	assert.Equal(t, StatsSnapshot{Rounds: 3, Wins: 1, Loss: 24, Reward: -12}, p.Snapshot())
}

func TestBaselinePlayersFinishRounds(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		rng := unosim.NewRand(seed)
		seats := make([]engine.Player, 0, len(Kinds))
		for _, kind := range Kinds {
			p, err := New(kind, string(kind), rng)
			require.NoError(t, err)
			seats = append(seats, p)
		}

		round, err := engine.NewRound(engine.DefaultRoundConfig(len(seats), seed), seats)
		require.NoError(t, err)
		result := round.Run()
		require.False(t, result.Truncated())
		require.Equal(t, 0, result.Losses[result.Winner])
	}
}
