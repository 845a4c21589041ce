// Read a YAML (or JSON) description of a table and turn it into a round preset. This is
// only for testing/debugging purpose.
package hand_reader

import (
	"strconv"
	"strings"

	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

/*
	players:
	  - name: alice
	    red: [1, 2, skip]
	    green: [9, draw_2]
	    wilds: [wild, wild_draw_4]
	    draw_upto:
	      total: 12
	  - name: john
	    hand: ["red 5", "blue reverse", "wild"]
	  - name: jane
	    draw_upto:
	      total: 8

	table: {color: red, value: 5, kind: number, pending: 0} # optional, else taken from the discard pile
	discarded_pile_size: 16
	shuffle_seed: 0          # 0 says don't shuffle the remaining cards
	player_of_next_turn: alice
*/

var ErrUnknownKey = errors.New("unknown key")
var ErrCouldNotRemoveCard = errors.New("could not remove card")
var ErrUnknownPlayer = errors.New("unknown player")

// Loaded is a parsed table description.
type Loaded struct {
	PlayerNames []string
	Preset      engine.Preset
	ShuffleSeed int64
}

type drawUpto struct {
	total int
}

type handDesc struct {
	name     string
	cards    unosim.Deck
	drawUpto drawUpto
}

type tableDesc struct {
	Color   unosim.Color `yaml:"color"`
	Value   *int         `yaml:"value"`
	Kind    unosim.Kind  `yaml:"kind"`
	Pending int          `yaml:"pending"`
}

type serializedTable struct {
	hands             []*handDesc
	table             *tableDesc
	discardedPileSize int
	shuffleSeed       int64
	playerOfNextTurn  string
}

// LoadConfig reads a table description. The cards of the hands and the discard pile are
// taken out of deck (the standard deck if nil) and the rest becomes the draw pile.
func LoadConfig(bytes []byte, deck unosim.Deck, logger logrus.FieldLogger) (*Loaded, error) {
	var j map[string]yaml.Node
	if err := yaml.Unmarshal(bytes, &j); err != nil {
		return nil, errors.Wrap(err, "hand_reader: could not parse")
	}

	var serialized serializedTable

	for key, value := range j {
		value := value
		switch key {
		case "players":
			hands, err := castPlayers(&value)
			if err != nil {
				return nil, err
			}
			serialized.hands = hands
		case "table":
			var table tableDesc
			if err := value.Decode(&table); err != nil {
				return nil, errors.Wrap(err, "hand_reader: table")
			}
			serialized.table = &table
		case "discarded_pile_size":
			if err := value.Decode(&serialized.discardedPileSize); err != nil {
				return nil, errors.Wrap(err, "expected an integer value for discarded_pile_size")
			}
		case "shuffle_seed":
			if err := value.Decode(&serialized.shuffleSeed); err != nil {
				return nil, errors.Wrap(err, "expected an integer value for shuffle_seed")
			}
		case "player_of_next_turn":
			if err := value.Decode(&serialized.playerOfNextTurn); err != nil {
				return nil, errors.Wrap(err, "expected a player name for player_of_next_turn")
			}
			serialized.playerOfNextTurn = strings.TrimSpace(serialized.playerOfNextTurn)
		default:
			return nil, errors.Wrapf(ErrUnknownKey, "%s", key)
		}
	}

	if deck == nil {
		deck = unosim.NewStandardDeck()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return makePreset(serialized, deck, logger)
}

// updates countOfCard by removing each given card in cards slice
func removeCardsFromDeck(cards unosim.Deck, countOfCard map[uint32]int) error {
	for _, card := range cards {
		enc := card.EncodeUint32()
		count := countOfCard[enc]
		if count == 0 {
			return errors.Wrapf(ErrCouldNotRemoveCard, "%s", card.String())
		}
		countOfCard[enc] = count - 1
	}
	return nil
}

func makePreset(serialized serializedTable, deck unosim.Deck, logger logrus.FieldLogger) (*Loaded, error) {
	if len(serialized.hands) < 2 {
		return nil, errors.Errorf("hand_reader: need at least 2 players, got %d", len(serialized.hands))
	}

	countOfCard := make(map[uint32]int)
	for _, card := range deck {
		countOfCard[card.EncodeUint32()] += 1
	}

	loaded := &Loaded{ShuffleSeed: serialized.shuffleSeed}
	hands := make([]unosim.Deck, len(serialized.hands))
	seatOf := make(map[string]int)

	for seat, desc := range serialized.hands {
		if _, ok := seatOf[desc.name]; ok {
			return nil, errors.Errorf("hand_reader: player %q described twice", desc.name)
		}
		seatOf[desc.name] = seat
		loaded.PlayerNames = append(loaded.PlayerNames, desc.name)

		if err := removeCardsFromDeck(desc.cards, countOfCard); err != nil {
			return nil, errors.Wrapf(err, "player '%s'", desc.name)
		}
		hands[seat] = desc.cards.Clone()
	}

	// create new draw pile from what is left, in deck order
	drawPile := unosim.NewEmptyDeck()
	for _, card := range deck {
		enc := card.EncodeUint32()
		if countOfCard[enc] > 0 {
			countOfCard[enc]--
			drawPile = drawPile.Push(card)
		}
	}

	if serialized.shuffleSeed != 0 {
		drawPile.Shuffle(unosim.NewRand(serialized.shuffleSeed))
	}

	for seat, desc := range serialized.hands {
		for len(hands[seat]) < desc.drawUpto.total {
			card, rest, err := drawPile.PopFront()
			if err != nil {
				return nil, errors.Wrapf(err, "player '%s': draw_upto %d", desc.name, desc.drawUpto.total)
			}
			drawPile = rest
			hands[seat] = hands[seat].Push(card)
		}
	}

	discardPile := unosim.NewEmptyDeck()
	for i := 0; i < serialized.discardedPileSize; i++ {
		card, rest, err := drawPile.PopFront()
		if err != nil {
			return nil, errors.Wrapf(err, "discarded_pile_size %d", serialized.discardedPileSize)
		}
		drawPile = rest
		discardPile = discardPile.Push(card)
	}

	state, err := tableState(serialized.table, discardPile)
	if err != nil {
		return nil, err
	}
	logger.WithField("state", state.String()).Debug("hand-reader: table state")

	firstSeat := 0
	if serialized.playerOfNextTurn != "" {
		seat, ok := seatOf[serialized.playerOfNextTurn]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownPlayer, "player_of_next_turn: %s", serialized.playerOfNextTurn)
		}
		firstSeat = seat
	}

	loaded.Preset = engine.Preset{
		Hands:       hands,
		DrawPile:    drawPile,
		DiscardPile: discardPile,
		State:       state,
		FirstSeat:   firstSeat,
	}
	if err := loaded.Preset.Validate(len(hands)); err != nil {
		return nil, err
	}
	return loaded, nil
}

func tableState(desc *tableDesc, discardPile unosim.Deck) (unosim.TableState, error) {
	if desc != nil {
		state := unosim.TableState{Color: desc.Color, Value: -1, Kind: desc.Kind, PendingDraw: desc.Pending}
		if desc.Value != nil {
			state.Value = *desc.Value
		}
		if state.Kind == 0 {
			state.Kind = unosim.KindNumber
		}
		if err := state.Validate(); err != nil {
			return state, errors.Wrap(err, "hand_reader: table")
		}
		return state, nil
	}

	top, err := discardPile.Top()
	if err != nil {
		return unosim.TableState{}, errors.New("hand_reader: need either 'table' or a non-empty discard pile")
	}
	switch top.Kind {
	case unosim.KindNumber:
		return unosim.TableState{Color: top.Color, Value: int(top.Digit), Kind: top.Kind}, nil
	case unosim.KindReverse, unosim.KindSkip, unosim.KindDrawTwo:
		return unosim.TableState{Color: top.Color, Value: -1, Kind: top.Kind}, nil
	default:
		return unosim.TableState{}, errors.Errorf("hand_reader: top discard %s has no color, give 'table'", top)
	}
}

func castPlayers(node *yaml.Node) ([]*handDesc, error) {
	var players []yaml.Node
	if err := node.Decode(&players); err != nil {
		return nil, errors.Wrap(err, "hand_reader: 'players' must be a list")
	}

	hands := make([]*handDesc, 0, len(players))
	for i := range players {
		desc, err := castHandDesc(&players[i])
		if err != nil {
			return nil, errors.Wrapf(err, "player %d", i)
		}
		hands = append(hands, desc)
	}
	return hands, nil
}

// castHandDesc walks the mapping in document order so that the hand keeps the order the
// cards were written in.
func castHandDesc(node *yaml.Node) (*handDesc, error) {
	if node.Kind != yaml.MappingNode {
		return nil, errors.New("could not cast hand description to a mapping")
	}

	desc := &handDesc{cards: unosim.NewEmptyDeck()}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		switch key {
		case "name":
			if err := value.Decode(&desc.name); err != nil {
				return nil, err
			}
			desc.name = strings.TrimSpace(desc.name)

		case "hand":
			var texts []string
			if err := value.Decode(&texts); err != nil {
				return nil, errors.Wrap(err, "'hand' must be a list of cards")
			}
			for _, text := range texts {
				card, err := unosim.ParseCard(text)
				if err != nil {
					return nil, err
				}
				desc.cards = desc.cards.Push(card)
			}

		case "draw_upto":
			var object map[string]int
			if err := value.Decode(&object); err != nil {
				return nil, errors.Wrap(err, "failed to cast draw_upto object")
			}
			for k, v := range object {
				if k != "total" {
					return nil, errors.Wrapf(ErrUnknownKey, "draw_upto.%s", k)
				}
				desc.drawUpto.total = v
			}

		case "wild", "wilds":
			var items []string
			if err := value.Decode(&items); err != nil {
				return nil, errors.Wrapf(err, "failed to cast %s list", key)
			}
			for _, item := range items {
				kind, err := unosim.ParseKind(item)
				if err != nil {
					return nil, err
				}
				if !kind.IsStrongAction() {
					return nil, errors.Errorf("%s is not a wild card", item)
				}
				desc.cards = desc.cards.Push(unosim.Card{Kind: kind, Color: unosim.Wild})
			}

		default:
			color, err := unosim.ParseColor(key)
			if err != nil || !color.IsPlayable() {
				return nil, errors.Wrapf(ErrUnknownKey, "%s", key)
			}
			cards, err := castColorList(color, value)
			if err != nil {
				return nil, errors.Wrapf(err, "color %s", key)
			}
			desc.cards = desc.cards.Push(cards...)
		}
	}

	if desc.name == "" {
		return nil, errors.New("player without a name")
	}
	return desc, nil
}

// castColorList reads a list like [1, 2, skip, draw_2] of cards of one color.
func castColorList(color unosim.Color, node *yaml.Node) (unosim.Deck, error) {
	var items []string
	if err := node.Decode(&items); err != nil {
		return nil, errors.Wrap(err, "failed to cast number-list value to array")
	}

	cards := make(unosim.Deck, 0, len(items))
	for i, item := range items {
		var card unosim.Card
		if digit, err := strconv.Atoi(item); err == nil {
			if digit < 0 || digit > 9 {
				return nil, errors.Wrapf(unosim.ErrInvalidCardNumber, "card index %d: %d", i, digit)
			}
			card = unosim.Card{Kind: unosim.KindNumber, Color: color, Digit: int8(digit)}
		} else {
			kind, err := unosim.ParseKind(item)
			if err != nil {
				return nil, errors.Wrapf(err, "card index %d", i)
			}
			card = unosim.Card{Kind: kind, Color: color}
		}
		if err := card.Validate(); err != nil {
			return nil, errors.Wrapf(err, "card index %d", i)
		}
		cards = append(cards, card)
	}
	return cards, nil
}
