package engine

import (
	"testing"

	"github.com/nrawrx3/unosim"
	"github.com/stretchr/testify/assert"
)

func newTestState(state unosim.TableState) *StateController {
	c := NewStateController(nil)
	c.SetState(state)
	return c
}

func TestApplyNumber(t *testing.T) {
	c := newTestState(unosim.TableState{Color: unosim.Red, Value: 5, Kind: unosim.KindNumber})
	flow := NewFlowController(3, true)

	c.Apply(unosim.NumberCard(unosim.Blue, 5), newScripted("a"), TurnView{}, flow)
	assert.Equal(t, unosim.TableState{Color: unosim.Blue, Value: 5, Kind: unosim.KindNumber}, c.State())
}

func TestApplyWeakActions(t *testing.T) {
	c := newTestState(unosim.TableState{Color: unosim.Red, Value: 5, Kind: unosim.KindNumber})
	flow := NewFlowController(3, true)

	c.Apply(unosim.SkipCard(unosim.Red), newScripted("a"), TurnView{}, flow)
	assert.Equal(t, unosim.TableState{Color: unosim.Red, Value: -1, Kind: unosim.KindSkip}, c.State())
	assert.Equal(t, 1, flow.PendingSkips())

	c.Apply(unosim.ReverseCard(unosim.Red), newScripted("a"), TurnView{}, flow)
	assert.Equal(t, unosim.TableState{Color: unosim.Red, Value: -1, Kind: unosim.KindReverse}, c.State())
	assert.False(t, flow.Clockwise())
}

func TestApplyWildAsksForColor(t *testing.T) {
	c := newTestState(unosim.TableState{Color: unosim.Red, Value: 5, Kind: unosim.KindNumber})
	chooser := newScripted("a")
	chooser.color = unosim.Yellow

	c.Apply(unosim.WildCard(), chooser, TurnView{}, NewFlowController(2, true))
	assert.Equal(t, unosim.TableState{Color: unosim.Yellow, Value: -1, Kind: unosim.KindWild}, c.State())
	assert.Equal(t, 1, chooser.colorAsks)
}

func TestChainResolution(t *testing.T) {
	c := newTestState(unosim.TableState{Color: unosim.Green, Value: 4, Kind: unosim.KindNumber})
	flow := NewFlowController(4, true)
	chooser := newScripted("a")
	chooser.color = unosim.Blue

	c.Apply(unosim.DrawTwoCard(unosim.Green), chooser, TurnView{}, flow)
	assert.Equal(t, 2, c.State().PendingDraw)

	assert.True(t, c.CheckPlayable(unosim.DrawTwoCard(unosim.Yellow)))
	assert.False(t, c.CheckPlayable(unosim.NumberCard(unosim.Green, 4)))

	c.Apply(unosim.DrawTwoCard(unosim.Yellow), chooser, TurnView{}, flow)
	assert.Equal(t, 4, c.State().PendingDraw)

	c.Apply(unosim.DrawFourCard(), chooser, TurnView{}, flow)
	assert.Equal(t, unosim.TableState{Color: unosim.Blue, Value: -1, Kind: unosim.KindDrawFour, PendingDraw: 8}, c.State())

	// Only another DrawFour continues a DrawFour chain.
	assert.False(t, c.CheckPlayable(unosim.DrawTwoCard(unosim.Blue)))
	assert.True(t, c.CheckPlayable(unosim.DrawFourCard()))

	assert.Equal(t, 8, c.ClearPending())
	assert.Equal(t, 0, c.State().PendingDraw)
	assert.True(t, c.CheckPlayable(unosim.NumberCard(unosim.Blue, 1)))
}

func TestApplyInvariants(t *testing.T) {
	c := newTestState(unosim.TableState{Color: unosim.Green, Value: -1, Kind: unosim.KindDrawFour, PendingDraw: 4})
	requireInvariantPanic(t, "StateController.Apply", func() {
		c.Apply(unosim.DrawTwoCard(unosim.Green), newScripted("a"), TurnView{}, NewFlowController(2, true))
	})

	wildChooser := ColorChooserFunc(func(TurnView) unosim.Color { return unosim.Wild })
	c = newTestState(unosim.TableState{Color: unosim.Green, Value: 3, Kind: unosim.KindNumber})
	requireInvariantPanic(t, "ColorChooser.ChooseColor", func() {
		c.Apply(unosim.WildCard(), wildChooser, TurnView{}, NewFlowController(2, true))
	})

	requireInvariantPanic(t, "StateController.SetState", func() { c.SetState(unosim.TableState{}) })
}

func TestStateControllerPlayableSet(t *testing.T) {
	c := newTestState(unosim.TableState{Color: unosim.Red, Value: 5, Kind: unosim.KindNumber})
	hand := unosim.Deck{unosim.DrawFourCard(), unosim.NumberCard(unosim.Red, 2)}

	set := c.PlayableSet(hand)
	assert.Equal(t, []unosim.Playable{{Index: 1, Card: unosim.NumberCard(unosim.Red, 2)}}, set)
	assert.False(t, c.CheckNewCardPlayable(unosim.DrawFourCard(), hand))
}
