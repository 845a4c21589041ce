package engine

import (
	"github.com/nrawrx3/unosim"
	"github.com/pkg/errors"
)

var ErrInvalidRoundConfig = errors.New("invalid round config")

const (
	DefaultInitialHandSize = 7
	DefaultShuffleCount    = 3
)

type RoundConfig struct {
	NumPlayers      int
	InitialHandSize int
	Clockwise       bool

	// Deck is the full card set of the round. Nil means the standard 108 card deck.
	Deck unosim.Deck

	// ShuffleCount is how many times the draw pile is shuffled before dealing. Zero
	// means DefaultShuffleCount and a negative count deals Deck in its given order.
	ShuffleCount int

	// MaxTurns stops a round without a winner. Zero means unlimited.
	MaxTurns int

	Seed int64
}

func DefaultRoundConfig(numPlayers int, seed int64) RoundConfig {
	return RoundConfig{
		NumPlayers:      numPlayers,
		InitialHandSize: DefaultInitialHandSize,
		Clockwise:       true,
		ShuffleCount:    DefaultShuffleCount,
		Seed:            seed,
	}
}

func (cfg RoundConfig) deck() unosim.Deck {
	if cfg.Deck == nil {
		return unosim.NewStandardDeck()
	}
	return cfg.Deck.Clone()
}

func (cfg RoundConfig) shuffleCount() int {
	switch {
	case cfg.ShuffleCount == 0:
		return DefaultShuffleCount
	case cfg.ShuffleCount < 0:
		return 0
	default:
		return cfg.ShuffleCount
	}
}

func (cfg RoundConfig) Validate() error {
	if cfg.NumPlayers < 2 {
		return errors.Wrapf(ErrInvalidRoundConfig, "need at least 2 players, got %d", cfg.NumPlayers)
	}
	if cfg.InitialHandSize < 1 {
		return errors.Wrapf(ErrInvalidRoundConfig, "initial hand size must be positive, got %d", cfg.InitialHandSize)
	}
	if cfg.MaxTurns < 0 {
		return errors.Wrapf(ErrInvalidRoundConfig, "negative max turns %d", cfg.MaxTurns)
	}

	deck := cfg.deck()
	for i, card := range deck {
		if err := card.Validate(); err != nil {
			return errors.Wrapf(err, "deck card %d", i)
		}
	}

	needed := cfg.NumPlayers*cfg.InitialHandSize + 1
	if len(deck) < needed {
		return errors.Wrapf(ErrInvalidRoundConfig, "deck of %d cards cannot deal %d hands of %d", len(deck), cfg.NumPlayers, cfg.InitialHandSize)
	}
	if deck.CountOf(unosim.KindDrawFour) == len(deck) {
		return errors.Wrap(ErrInvalidRoundConfig, "deck has no possible initial card")
	}
	return nil
}

// Preset starts a round from a fixed table instead of dealing.
type Preset struct {
	Hands       []unosim.Deck
	DrawPile    unosim.Deck
	DiscardPile unosim.Deck
	State       unosim.TableState
	FirstSeat   int
}

func (p *Preset) Validate(numPlayers int) error {
	if len(p.Hands) != numPlayers {
		return errors.Wrapf(ErrInvalidRoundConfig, "preset has %d hands for %d players", len(p.Hands), numPlayers)
	}
	if p.FirstSeat < 0 || p.FirstSeat >= numPlayers {
		return errors.Wrapf(ErrInvalidRoundConfig, "preset first seat %d out of range", p.FirstSeat)
	}
	if err := p.State.Validate(); err != nil {
		return errors.Wrap(err, "preset table state")
	}
	for seat, hand := range p.Hands {
		for _, card := range hand {
			if err := card.Validate(); err != nil {
				return errors.Wrapf(err, "preset hand of seat %d", seat)
			}
		}
	}
	return nil
}
