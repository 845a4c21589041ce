package players

import (
	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
)

// Greedy sheds the highest scoring playable card first and declares the color it holds
// the most points in.
type Greedy struct {
	named
	Stats
}

func NewGreedy(name string) *Greedy {
	return &Greedy{named: named{name: name}}
}

func (p *Greedy) ChoosePlay(playable []unosim.Playable, view engine.TurnView) (unosim.Playable, bool) {
	best := playable[0]
	for _, candidate := range playable[1:] {
		if candidate.Card.Score() > best.Card.Score() {
			best = candidate
		}
	}
	return best, true
}

func (p *Greedy) ChooseColor(view engine.TurnView) unosim.Color {
	return richestColor(view.Hand)
}

func (p *Greedy) ChooseToPlayDrawnCard(drawn unosim.Card, view engine.TurnView) bool {
	return true
}
