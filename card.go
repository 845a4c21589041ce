package unosim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Color uint8

const (
	Wild Color = iota
	Red
	Green
	Blue
	Yellow
)

// Colors a wild card can be declared as.
var PlayableColors = [...]Color{Red, Green, Blue, Yellow}

func (c Color) String() string {
	switch c {
	case Wild:
		return "wild"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	default:
		return fmt.Sprintf("invalid_color(= %d)", uint8(c))
	}
}

func (c Color) IsValid() bool {
	return c <= Yellow
}

// IsPlayable reports whether c may be the table color, i.e. it is one of the four
// real colors.
func (c Color) IsPlayable() bool {
	return Red <= c && c <= Yellow
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red", "r":
		return Red, nil
	case "green", "g":
		return Green, nil
	case "blue", "b":
		return Blue, nil
	case "yellow", "y":
		return Yellow, nil
	case "wild", "w":
		return Wild, nil
	default:
		return Wild, errors.Wrapf(ErrInvalidCardColor, "%q", s)
	}
}

type Kind uint8

const (
	KindNumber Kind = iota + 1
	KindReverse
	KindSkip
	KindDrawTwo
	KindWild
	KindDrawFour
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindReverse:
		return "Reverse"
	case KindSkip:
		return "Skip"
	case KindDrawTwo:
		return "DrawTwo"
	case KindWild:
		return "Wild"
	case KindDrawFour:
		return "DrawFour"
	default:
		return fmt.Sprintf("invalid_kind(= %d)", uint8(k))
	}
}

func (k Kind) IsValid() bool {
	return KindNumber <= k && k <= KindDrawFour
}

// Reverse, Skip and DrawTwo carry a color and match by color or by kind.
func (k Kind) IsWeakAction() bool {
	return k == KindReverse || k == KindSkip || k == KindDrawTwo
}

// Wild and DrawFour are colorless until played.
func (k Kind) IsStrongAction() bool {
	return k == KindWild || k == KindDrawFour
}

func (k Kind) IsDrawAction() bool {
	return k == KindDrawTwo || k == KindDrawFour
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "number":
		return KindNumber, nil
	case "reverse", "rev":
		return KindReverse, nil
	case "skip":
		return KindSkip, nil
	case "draw_two", "draw_2", "draw2", "drawtwo":
		return KindDrawTwo, nil
	case "wild", "wildcard":
		return KindWild, nil
	case "draw_four", "wild_draw_4", "wild4", "drawfour":
		return KindDrawFour, nil
	default:
		return 0, errors.Wrapf(ErrInvalidCardKind, "%q", s)
	}
}

// Card is an immutable value. Digit is only meaningful for KindNumber and Color is
// Wild exactly for the strong-action kinds.
type Card struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
	Digit int8  `json:"digit"`
}

func NumberCard(color Color, digit int) Card {
	if !color.IsPlayable() || digit < 0 || digit > 9 {
		Invariantf("NumberCard", "bad number card (color=%s, digit=%d)", color, digit)
	}
	return Card{Kind: KindNumber, Color: color, Digit: int8(digit)}
}

func ReverseCard(color Color) Card { return weakActionCard(KindReverse, color) }
func SkipCard(color Color) Card    { return weakActionCard(KindSkip, color) }
func DrawTwoCard(color Color) Card { return weakActionCard(KindDrawTwo, color) }
func WildCard() Card               { return Card{Kind: KindWild, Color: Wild} }
func DrawFourCard() Card           { return Card{Kind: KindDrawFour, Color: Wild} }

func weakActionCard(kind Kind, color Color) Card {
	if !color.IsPlayable() {
		Invariantf("weakActionCard", "%s needs a real color, got %s", kind, color)
	}
	return Card{Kind: kind, Color: color}
}

// Validate checks the kind/color/digit combination.
func (c Card) Validate() error {
	switch c.Kind {
	case KindNumber:
		if !c.Color.IsPlayable() {
			return errors.Wrapf(ErrInvalidCardColor, "number card with color %s", c.Color)
		}
		if c.Digit < 0 || c.Digit > 9 {
			return errors.Wrapf(ErrInvalidCardNumber, "digit %d", c.Digit)
		}
	case KindReverse, KindSkip, KindDrawTwo:
		if !c.Color.IsPlayable() {
			return errors.Wrapf(ErrInvalidCardColor, "%s with color %s", c.Kind, c.Color)
		}
	case KindWild, KindDrawFour:
		if c.Color != Wild {
			return errors.Wrapf(ErrInvalidCardColor, "%s with color %s", c.Kind, c.Color)
		}
	default:
		return errors.Wrapf(ErrInvalidCardKind, "kind %d", uint8(c.Kind))
	}
	if c.Kind != KindNumber && c.Digit != 0 {
		return errors.Wrapf(ErrInvalidCardNumber, "%s carries digit %d", c.Kind, c.Digit)
	}
	return nil
}

func (c Card) Score() int {
	switch c.Kind {
	case KindNumber:
		return int(c.Digit)
	case KindReverse, KindSkip, KindDrawTwo:
		return 20
	case KindWild, KindDrawFour:
		return 50
	default:
		Invariantf("Card.Score", "unknown card kind %d", uint8(c.Kind))
		return 0
	}
}

func (c Card) String() string {
	switch c.Kind {
	case KindNumber:
		return fmt.Sprintf("Number(%s, %d)", c.Color, c.Digit)
	case KindReverse, KindSkip, KindDrawTwo:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Color)
	case KindWild, KindDrawFour:
		return fmt.Sprintf("%s()", c.Kind)
	default:
		return fmt.Sprintf("invalid_card(kind=%d)", uint8(c.Kind))
	}
}

// SymbolString is the short form used in logs, e.g. R5, GS, BR, YD2, W, W4.
func (c Card) SymbolString() string {
	colorLetter := ""
	if c.Color.IsPlayable() {
		colorLetter = strings.ToUpper(c.Color.String()[0:1])
	}

	switch c.Kind {
	case KindNumber:
		return colorLetter + strconv.Itoa(int(c.Digit))
	case KindReverse:
		return colorLetter + "R"
	case KindSkip:
		return colorLetter + "S"
	case KindDrawTwo:
		return colorLetter + "D2"
	case KindWild:
		return "W"
	case KindDrawFour:
		return "W4"
	default:
		return "?"
	}
}

// ParseCard reads the textual card forms accepted in presets and REPL commands:
//
//	red 5 | blue skip | green rev | yellow draw2 | wild | wild4
func ParseCard(text string) (Card, error) {
	fields := strings.Fields(strings.ToLower(text))
	if len(fields) == 0 {
		return Card{}, errors.New("empty card text")
	}

	if len(fields) == 1 {
		kind, err := ParseKind(fields[0])
		if err != nil {
			return Card{}, err
		}
		if !kind.IsStrongAction() {
			return Card{}, errors.Errorf("card %q needs a color", text)
		}
		return Card{Kind: kind, Color: Wild}, nil
	}

	if len(fields) != 2 {
		return Card{}, errors.Errorf("expected '<color> <number|action>', got %q", text)
	}

	color, err := ParseColor(fields[0])
	if err != nil {
		return Card{}, err
	}

	var card Card
	if digit, convErr := strconv.Atoi(fields[1]); convErr == nil {
		card = Card{Kind: KindNumber, Color: color, Digit: int8(digit)}
		if digit < 0 || digit > 9 {
			return Card{}, errors.Wrapf(ErrInvalidCardNumber, "%q", text)
		}
	} else {
		kind, err := ParseKind(fields[1])
		if err != nil {
			return Card{}, err
		}
		card = Card{Kind: kind, Color: color}
	}

	if err := card.Validate(); err != nil {
		return Card{}, errors.Wrapf(err, "card %q", text)
	}
	return card, nil
}

// IsPlayable is the per-kind legality predicate against the table state. It does not
// apply the draw-four filtering, see PlayableSet.
func (c Card) IsPlayable(state TableState) bool {
	if state.HasPendingChain() {
		switch c.Kind {
		case KindDrawTwo:
			return state.Kind == KindDrawTwo
		case KindDrawFour:
			return true
		case KindNumber, KindReverse, KindSkip, KindWild:
			return false
		default:
			Invariantf("Card.IsPlayable", "unknown card kind %d", uint8(c.Kind))
		}
	}

	switch c.Kind {
	case KindNumber:
		return c.Color == state.Color || int(c.Digit) == state.Value
	case KindReverse, KindSkip, KindDrawTwo:
		return state.Kind == c.Kind || c.Color == state.Color
	case KindWild, KindDrawFour:
		return true
	default:
		Invariantf("Card.IsPlayable", "unknown card kind %d", uint8(c.Kind))
		return false
	}
}

func (c Color) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, errors.Wrapf(ErrInvalidCardColor, "%d", uint8(c))
	}
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	color, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = color
	return nil
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, errors.Wrapf(ErrInvalidCardKind, "%d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}
