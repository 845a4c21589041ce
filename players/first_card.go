package players

import (
	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
)

// FirstCard always plays the first playable card and always plays a drawn card.
type FirstCard struct {
	named
	Stats
}

func NewFirstCard(name string) *FirstCard {
	return &FirstCard{named: named{name: name}}
}

func (p *FirstCard) ChoosePlay(playable []unosim.Playable, view engine.TurnView) (unosim.Playable, bool) {
	return playable[0], true
}

func (p *FirstCard) ChooseColor(view engine.TurnView) unosim.Color {
	return firstColor(view.Hand)
}

func (p *FirstCard) ChooseToPlayDrawnCard(drawn unosim.Card, view engine.TurnView) bool {
	return true
}
