package engine

import (
	"github.com/nrawrx3/unosim"
)

// scriptedPlayer plays the first playable card unless pick says otherwise.
type scriptedPlayer struct {
	name      string
	color     unosim.Color
	passDrawn bool
	pick      func(playable []unosim.Playable, view TurnView) (unosim.Playable, bool)

	colorAsks  int
	colorViews []TurnView
	results    []RoundResult
}

func newScripted(name string) *scriptedPlayer {
	return &scriptedPlayer{name: name, color: unosim.Red}
}

func (p *scriptedPlayer) Name() string { return p.name }

func (p *scriptedPlayer) ChoosePlay(playable []unosim.Playable, view TurnView) (unosim.Playable, bool) {
	if p.pick != nil {
		return p.pick(playable, view)
	}
	return playable[0], true
}

func (p *scriptedPlayer) ChooseColor(view TurnView) unosim.Color {
	p.colorAsks++
	p.colorViews = append(p.colorViews, view)
	return p.color
}

func (p *scriptedPlayer) ChooseToPlayDrawnCard(drawn unosim.Card, view TurnView) bool {
	return !p.passDrawn
}

func (p *scriptedPlayer) OnRoundEnd(result RoundResult) {
	p.results = append(p.results, result)
}

func scriptedPlayers(names ...string) ([]Player, []*scriptedPlayer) {
	players := make([]Player, len(names))
	scripted := make([]*scriptedPlayer, len(names))
	for i, name := range names {
		scripted[i] = newScripted(name)
		players[i] = scripted[i]
	}
	return players, scripted
}

func numbers(color unosim.Color, digits ...int) unosim.Deck {
	deck := make(unosim.Deck, 0, len(digits))
	for _, d := range digits {
		deck = append(deck, unosim.NumberCard(color, d))
	}
	return deck
}

func requireInvariantPanic(t interface {
	Helper()
	Fatalf(format string, args ...interface{})
}, op string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic from %s", op)
		}
		invErr, ok := unosim.AsInvariantError(r)
		if !ok {
			t.Fatalf("expected *InvariantError, got %T: %v", r, r)
		}
		if invErr.Op != op {
			t.Fatalf("expected invariant of %s, got %s", op, invErr.Op)
		}
	}()
	f()
}
