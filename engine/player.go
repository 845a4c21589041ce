package engine

import "github.com/nrawrx3/unosim"

// TurnView is what a player sees when asked for a decision. Hand is a copy; mutating it
// has no effect on the round.
type TurnView struct {
	Seat      int
	NextSeat  int
	Hand      unosim.Deck
	State     unosim.TableState
	HandSizes []int
	Turn      int
}

// ColorChooser is asked for a color whenever a Wild or DrawFour resolves.
type ColorChooser interface {
	ChooseColor(view TurnView) unosim.Color
}

// Player makes the decisions of one seat. Every method is called synchronously from the
// round's goroutine.
type Player interface {
	ColorChooser

	Name() string

	// ChoosePlay picks one entry of playable, or returns false to take the penalty. It is
	// never called with an empty playable set.
	ChoosePlay(playable []unosim.Playable, view TurnView) (unosim.Playable, bool)

	// ChooseToPlayDrawnCard is asked after a penalty draw of a single playable card.
	ChooseToPlayDrawnCard(drawn unosim.Card, view TurnView) bool
}

// RoundObserver is implemented by players that want the result of each round.
type RoundObserver interface {
	OnRoundEnd(result RoundResult)
}

// ColorChooserFunc adapts a function to ColorChooser.
type ColorChooserFunc func(view TurnView) unosim.Color

func (f ColorChooserFunc) ChooseColor(view TurnView) unosim.Color { return f(view) }
