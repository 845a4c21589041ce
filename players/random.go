package players

import (
	"math/rand"

	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
)

// Random picks uniformly among the playable cards and colors. It never passes when it
// can play, but flips a coin on drawn cards.
type Random struct {
	named
	Stats
	rng *rand.Rand
}

func NewRandom(name string, rng *rand.Rand) *Random {
	if rng == nil {
		rng = unosim.NewRand(0)
	}
	return &Random{named: named{name: name}, rng: rng}
}

func (p *Random) ChoosePlay(playable []unosim.Playable, view engine.TurnView) (unosim.Playable, bool) {
	return playable[p.rng.Intn(len(playable))], true
}

func (p *Random) ChooseColor(view engine.TurnView) unosim.Color {
	return unosim.PlayableColors[p.rng.Intn(len(unosim.PlayableColors))]
}

func (p *Random) ChooseToPlayDrawnCard(drawn unosim.Card, view engine.TurnView) bool {
	return p.rng.Intn(2) == 0
}
