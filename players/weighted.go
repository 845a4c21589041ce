package players

import (
	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
)

// Weighted blends FirstCard and Greedy. Each candidate gets
// (1-FirstCardWeight)*score plus FirstCardWeight times a rank bonus that decreases
// linearly with its position, where the bonuses sum to the total score of the
// candidates.
type Weighted struct {
	named
	Stats
	FirstCardWeight float64
}

func NewWeighted(name string, firstCardWeight float64) *Weighted {
	if firstCardWeight < 0 || firstCardWeight > 1 {
		unosim.Invariantf("NewWeighted", "weight %f outside [0, 1]", firstCardWeight)
	}
	return &Weighted{named: named{name: name}, FirstCardWeight: firstCardWeight}
}

func (p *Weighted) weightedScores(scores []int) []float64 {
	n := len(scores)
	sum := 0
	for _, s := range scores {
		sum += s
	}

	step := 0.0
	if n > 1 {
		step = 2 * float64(sum) / float64(n*(n-1))
	}

	weighted := make([]float64, n)
	for i, s := range scores {
		weighted[i] = (1-p.FirstCardWeight)*float64(s) + p.FirstCardWeight*float64(n-1-i)*step
	}
	return weighted
}

func (p *Weighted) ChoosePlay(playable []unosim.Playable, view engine.TurnView) (unosim.Playable, bool) {
	scores := make([]int, len(playable))
	for i, candidate := range playable {
		scores[i] = candidate.Card.Score()
	}

	weighted := p.weightedScores(scores)
	best := 0
	for i := range weighted {
		if weighted[i] > weighted[best] {
			best = i
		}
	}
	return playable[best], true
}

func (p *Weighted) ChooseColor(view engine.TurnView) unosim.Color {
	colored := make(unosim.Deck, 0, len(view.Hand))
	scores := make([]int, 0, len(view.Hand))
	for _, card := range view.Hand {
		if !card.Kind.IsStrongAction() {
			colored = append(colored, card)
			scores = append(scores, card.Score())
		}
	}
	if len(colored) == 0 {
		return unosim.Red
	}

	weighted := p.weightedScores(scores)
	totals := make(map[unosim.Color]float64)
	order := make([]unosim.Color, 0, 4)
	for i, card := range colored {
		if _, ok := totals[card.Color]; !ok {
			order = append(order, card.Color)
		}
		totals[card.Color] += weighted[i]
	}

	best := order[0]
	for _, color := range order[1:] {
		if totals[color] > totals[best] {
			best = color
		}
	}
	return best
}

func (p *Weighted) ChooseToPlayDrawnCard(drawn unosim.Card, view engine.TurnView) bool {
	return true
}
