// Package players has the baseline decision makers used to drive rounds in batches and
// tests. They pick plays with fixed rules and keep per-player round statistics.
package players

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
	"github.com/pkg/errors"
)

var ErrUnknownPlayerKind = errors.New("unknown player kind")

type Kind string

const (
	KindFirstCard Kind = "first_card"
	KindGreedy    Kind = "greedy"
	KindRandom    Kind = "random"
	KindWeighted  Kind = "weighted"
)

var Kinds = []Kind{KindFirstCard, KindGreedy, KindRandom, KindWeighted}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first_card", "firstcard", "fc", "first":
		return KindFirstCard, nil
	case "greedy", "g":
		return KindGreedy, nil
	case "random", "rand", "r":
		return KindRandom, nil
	case "weighted", "w":
		return KindWeighted, nil
	default:
		return "", errors.Wrapf(ErrUnknownPlayerKind, "%q", s)
	}
}

// New builds a player of the given kind. rng is only used by the random player.
func New(kind Kind, name string, rng *rand.Rand) (engine.Player, error) {
	switch kind {
	case KindFirstCard:
		return NewFirstCard(name), nil
	case KindGreedy:
		return NewGreedy(name), nil
	case KindRandom:
		return NewRandom(name, rng), nil
	case KindWeighted:
		return NewWeighted(name, 0.5), nil
	default:
		return nil, errors.Wrapf(ErrUnknownPlayerKind, "%q", kind)
	}
}

// Stats accumulates round results for one seat. It is embedded by the baseline players
// and is safe to read while rounds are running.
type Stats struct {
	mu      sync.Mutex
	seat    int
	rounds  int
	wins    int
	loss    int
	reward  int
	tracked bool
}

type StatsSnapshot struct {
	Rounds int `json:"rounds"`
	Wins   int `json:"wins"`
	Loss   int `json:"cumulative_loss"`
	Reward int `json:"cumulative_reward"`
}

// TrackSeat tells Stats which seat of the round results belongs to this player.
func (s *Stats) TrackSeat(seat int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seat = seat
	s.tracked = true
}

func (s *Stats) OnRoundEnd(result engine.RoundResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tracked || s.seat >= len(result.Losses) {
		return
	}
	s.rounds++
	if result.Winner == s.seat {
		s.wins++
	}
	s.loss += result.Losses[s.seat]
	s.reward += result.Rewards[s.seat]
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{Rounds: s.rounds, Wins: s.wins, Loss: s.loss, Reward: s.reward}
}

type named struct {
	name string
}

func (n named) Name() string { return n.name }

// firstColor is the color of the first colored card in hand, or red.
func firstColor(hand unosim.Deck) unosim.Color {
	for _, card := range hand {
		if card.Color.IsPlayable() {
			return card.Color
		}
	}
	return unosim.Red
}

// richestColor is the color whose cards in hand have the largest total score, or red.
// Ties go to the color seen first.
func richestColor(hand unosim.Deck) unosim.Color {
	scores := make(map[unosim.Color]int)
	order := make([]unosim.Color, 0, 4)
	for _, card := range hand {
		if card.Kind.IsStrongAction() {
			continue
		}
		if _, ok := scores[card.Color]; !ok {
			order = append(order, card.Color)
		}
		scores[card.Color] += card.Score()
	}

	best := unosim.Red
	bestScore := -1
	for _, color := range order {
		if scores[color] > bestScore {
			best, bestScore = color, scores[color]
		}
	}
	return best
}
