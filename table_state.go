package unosim

import "fmt"

// TableState is what a card is played against. Value is -1 when the active card is not
// a number card. PendingDraw is non-zero only while a DrawTwo/DrawFour chain is open.
type TableState struct {
	Color       Color `json:"color"`
	Value       int   `json:"value"`
	Kind        Kind  `json:"kind"`
	PendingDraw int   `json:"pending_draw"`
}

func (s TableState) String() string {
	return fmt.Sprintf("color=%s, value=%d, type=%s, to_draw=%d", s.Color, s.Value, s.Kind, s.PendingDraw)
}

func (s TableState) HasPendingChain() bool {
	return s.PendingDraw > 0
}

// Validate checks the ranges of the state fields. A zero TableState is not valid.
func (s TableState) Validate() error {
	if !s.Color.IsPlayable() {
		return fmt.Errorf("%w: table color %s", ErrInvalidCardColor, s.Color)
	}
	if s.Value < -1 || s.Value > 9 {
		return fmt.Errorf("%w: table value %d", ErrInvalidCardNumber, s.Value)
	}
	if !s.Kind.IsValid() {
		return fmt.Errorf("%w: table kind %d", ErrInvalidCardKind, uint8(s.Kind))
	}
	if s.PendingDraw < 0 {
		return fmt.Errorf("negative pending draw count %d", s.PendingDraw)
	}
	if s.HasPendingChain() && !s.Kind.IsDrawAction() {
		return fmt.Errorf("pending draw count %d on a %s", s.PendingDraw, s.Kind)
	}
	return nil
}

// Playable is a card of a hand together with its index in that hand.
type Playable struct {
	Index int  `json:"index"`
	Card  Card `json:"card"`
}

// PlayableSet returns the cards of hand that are legal against state. If any number or
// weak-action card is playable, DrawFour cards are removed from the set since a
// DrawFour may only be offered when no such alternative exists. Wild cards are never
// filtered.
func PlayableSet(hand Deck, state TableState) []Playable {
	playable := make([]Playable, 0, len(hand))
	hasHonestAlternative := false

	for i, card := range hand {
		if !card.IsPlayable(state) {
			continue
		}
		playable = append(playable, Playable{Index: i, Card: card})
		if card.Kind == KindNumber || card.Kind.IsWeakAction() {
			hasHonestAlternative = true
		}
	}

	if !hasHonestAlternative {
		return playable
	}

	filtered := playable[:0]
	for _, p := range playable {
		if p.Card.Kind != KindDrawFour {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// IsNewCardPlayable applies the filtering rule of PlayableSet to a single freshly drawn
// card: a drawn DrawFour is playable only if no number or weak-action card in hand is
// playable. The hand may or may not already contain the new card.
func IsNewCardPlayable(newCard Card, hand Deck, state TableState) bool {
	if newCard.Kind != KindDrawFour {
		return newCard.IsPlayable(state)
	}

	for _, card := range hand {
		if (card.Kind == KindNumber || card.Kind.IsWeakAction()) && card.IsPlayable(state) {
			return false
		}
	}
	return newCard.IsPlayable(state)
}

// ContainsPlayable reports whether p is exactly one of the entries of set.
func ContainsPlayable(set []Playable, p Playable) bool {
	for _, candidate := range set {
		if candidate == p {
			return true
		}
	}
	return false
}
