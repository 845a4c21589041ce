package engine

import (
	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/internal/utils"
	"github.com/sirupsen/logrus"
)

// StateController holds the table state and applies plays to it.
type StateController struct {
	state  unosim.TableState
	logger logrus.FieldLogger
}

func NewStateController(logger logrus.FieldLogger) *StateController {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &StateController{logger: logger}
}

func (c *StateController) State() unosim.TableState { return c.state }

// SetState installs a state, used by the initial card and by presets.
func (c *StateController) SetState(state unosim.TableState) {
	if err := state.Validate(); err != nil {
		unosim.Invariantf("StateController.SetState", "%s", err)
	}
	c.state = state
}

func (c *StateController) CheckPlayable(card unosim.Card) bool {
	return card.IsPlayable(c.state)
}

func (c *StateController) PlayableSet(hand unosim.Deck) []unosim.Playable {
	return unosim.PlayableSet(hand, c.state)
}

func (c *StateController) CheckNewCardPlayable(card unosim.Card, hand unosim.Deck) bool {
	return unosim.IsNewCardPlayable(card, hand, c.state)
}

// Apply updates the table for a card that has already been validated, removed from the
// hand and discarded. Reverse and Skip act on flow, wildcards ask chooser for a color.
func (c *StateController) Apply(card unosim.Card, chooser ColorChooser, view TurnView, flow *FlowController) {
	switch card.Kind {
	case unosim.KindNumber:
		c.state = unosim.TableState{Color: card.Color, Value: int(card.Digit), Kind: card.Kind}

	case unosim.KindReverse:
		flow.Reverse()
		c.state = unosim.TableState{Color: card.Color, Value: -1, Kind: card.Kind}

	case unosim.KindSkip:
		flow.AddSkip(1)
		c.state = unosim.TableState{Color: card.Color, Value: -1, Kind: card.Kind}

	case unosim.KindWild:
		color := chooseColor(chooser, view)
		c.state = unosim.TableState{Color: color, Value: -1, Kind: card.Kind}

	case unosim.KindDrawTwo:
		if c.state.HasPendingChain() && c.state.Kind != unosim.KindDrawTwo {
			unosim.Invariantf("StateController.Apply", "%s on an open %s chain", card, c.state.Kind)
		}
		c.state = unosim.TableState{Color: card.Color, Value: -1, Kind: card.Kind, PendingDraw: c.state.PendingDraw + 2}

	case unosim.KindDrawFour:
		color := chooseColor(chooser, view)
		c.state = unosim.TableState{Color: color, Value: -1, Kind: card.Kind, PendingDraw: c.state.PendingDraw + 4}

	default:
		unosim.Invariantf("StateController.Apply", "unknown card kind %d", uint8(card.Kind))
	}

	c.logger.WithFields(logrus.Fields{"card": card.SymbolString(), "state": c.state.String()}).Debug("applied card")
}

// ClearPending resolves an open chain and returns the number of cards to draw.
func (c *StateController) ClearPending() int {
	pending := c.state.PendingDraw
	c.state.PendingDraw = 0
	return pending
}

func chooseColor(chooser ColorChooser, view TurnView) unosim.Color {
	color := chooser.ChooseColor(view)
	if !color.IsPlayable() {
		unosim.Invariantf("ColorChooser.ChooseColor", "chose %s, need one of red/green/blue/yellow", color)
	}
	return color
}
