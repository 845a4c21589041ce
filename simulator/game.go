package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
	"github.com/nrawrx3/unosim/players"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrInvalidEndCondition = errors.New("invalid end condition")

type EndKind string

const (
	EndByRounds EndKind = "rounds"
	EndByScore  EndKind = "score"
)

// EndCondition stops a game after N rounds, or once some player's cumulative reward
// reaches N.
type EndCondition struct {
	Kind EndKind `json:"kind"`
	N    int     `json:"n"`
}

func (e EndCondition) String() string {
	return fmt.Sprintf("%s %d", e.Kind, e.N)
}

func ParseEndCondition(s string) (EndCondition, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) != 2 {
		return EndCondition{}, errors.Wrapf(ErrInvalidEndCondition, "expected 'rounds N' or 'score N', got %q", s)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return EndCondition{}, errors.Wrapf(ErrInvalidEndCondition, "%q is not a number", fields[1])
	}
	end := EndCondition{Kind: EndKind(fields[0]), N: n}
	return end, end.Validate()
}

func (e EndCondition) Validate() error {
	if e.Kind != EndByRounds && e.Kind != EndByScore {
		return errors.Wrapf(ErrInvalidEndCondition, "unknown kind %q", e.Kind)
	}
	if e.N < 1 {
		return errors.Wrapf(ErrInvalidEndCondition, "N must be positive, got %d", e.N)
	}
	return nil
}

func (e EndCondition) reached(rounds int, stats []PlayerStats) bool {
	switch e.Kind {
	case EndByRounds:
		return rounds >= e.N
	case EndByScore:
		for _, s := range stats {
			if s.CumulativeReward >= e.N {
				return true
			}
		}
		return false
	default:
		unosim.Invariantf("EndCondition.reached", "unknown kind %q", e.Kind)
		return true
	}
}

// MaxRoundsPerGame bounds score-limited games whose players never reach the score.
const MaxRoundsPerGame = 100000

type GameConfig struct {
	PlayerKinds     []players.Kind `json:"players"`
	InitialHandSize int            `json:"initial_hand_size"`
	MaxTurns        int            `json:"max_turns"`
	End             EndCondition   `json:"end_condition"`
	Seed            int64          `json:"seed"`
}

func (cfg *GameConfig) Validate() error {
	if len(cfg.PlayerKinds) < 2 {
		return errors.Wrapf(engine.ErrInvalidRoundConfig, "need at least 2 players, got %d", len(cfg.PlayerKinds))
	}
	for _, kind := range cfg.PlayerKinds {
		if _, err := players.ParseKind(string(kind)); err != nil {
			return err
		}
	}
	if cfg.InitialHandSize < 0 {
		return errors.Wrapf(engine.ErrInvalidRoundConfig, "initial hand size must not be negative, got %d", cfg.InitialHandSize)
	}
	if err := cfg.End.Validate(); err != nil {
		return err
	}
	roundCfg := cfg.roundConfig(cfg.Seed)
	return roundCfg.Validate()
}

func (cfg *GameConfig) roundConfig(seed int64) engine.RoundConfig {
	roundCfg := engine.DefaultRoundConfig(len(cfg.PlayerKinds), seed)
	if cfg.InitialHandSize > 0 {
		roundCfg.InitialHandSize = cfg.InitialHandSize
	}
	roundCfg.MaxTurns = cfg.MaxTurns
	return roundCfg
}

type PlayerStats struct {
	Seat             int          `json:"seat"`
	Name             string       `json:"name"`
	Kind             players.Kind `json:"kind"`
	Rounds           int          `json:"rounds"`
	Wins             int          `json:"wins"`
	CumulativeLoss   int          `json:"cumulative_loss"`
	CumulativeReward int          `json:"cumulative_reward"`
}

func (s *PlayerStats) add(result engine.RoundResult) {
	s.Rounds++
	if result.Winner == s.Seat {
		s.Wins++
	}
	s.CumulativeLoss += result.Losses[s.Seat]
	s.CumulativeReward += result.Rewards[s.Seat]
}

type GameResult struct {
	Index           int           `json:"index"`
	Seed            int64         `json:"seed"`
	Rounds          int           `json:"rounds"`
	TruncatedRounds int           `json:"truncated_rounds"`
	Turns           int           `json:"turns"`
	Reshuffles      int           `json:"reshuffles"`
	Players         []PlayerStats `json:"players"`
}

// GameError carries the index of the game that failed inside a batch.
type GameError struct {
	Index int
	Err   error
}

func (e *GameError) Error() string {
	return fmt.Sprintf("game %d: %s", e.Index, e.Err)
}

func (e *GameError) Unwrap() error {
	return e.Err
}

type seatTracker interface {
	TrackSeat(seat int)
}

type GameOption func(*Game)

func WithGameLogger(logger logrus.FieldLogger) GameOption {
	return func(g *Game) { g.logger = logger }
}

// WithGameEventSink forwards the events of every round of the game.
func WithGameEventSink(sink unosim.EventSink) GameOption {
	return func(g *Game) { g.sink = sink }
}

// Game plays rounds with the same seats until its end condition holds.
type Game struct {
	index   int
	cfg     GameConfig
	players []engine.Player
	rng     *rand.Rand
	logger  logrus.FieldLogger
	sink    unosim.EventSink
}

func NewGame(index int, cfg GameConfig, opts ...GameOption) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		index: index,
		cfg:   cfg,
		rng:   unosim.NewRand(cfg.Seed),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logrus.StandardLogger()
	}
	g.logger = g.logger.WithField("game", index)

	for seat, kind := range cfg.PlayerKinds {
		name := fmt.Sprintf("%s_%d", kind, seat)
		p, err := players.New(kind, name, unosim.NewRand(g.rng.Int63()))
		if err != nil {
			return nil, err
		}
		if tracker, ok := p.(seatTracker); ok {
			tracker.TrackSeat(seat)
		}
		g.players = append(g.players, p)
	}
	return g, nil
}

func (g *Game) Players() []engine.Player {
	return g.players
}

// Run plays rounds until the end condition holds or ctx is done. An engine invariant
// violation is returned as a *GameError.
func (g *Game) Run(ctx context.Context) (result GameResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			invErr, ok := unosim.AsInvariantError(r)
			if !ok {
				panic(r)
			}
			err = &GameError{Index: g.index, Err: invErr}
		}
	}()

	result = GameResult{Index: g.index, Seed: g.cfg.Seed, Players: make([]PlayerStats, len(g.players))}
	for seat, p := range g.players {
		result.Players[seat] = PlayerStats{Seat: seat, Name: p.Name(), Kind: g.cfg.PlayerKinds[seat]}
	}

	for !g.cfg.End.reached(result.Rounds, result.Players) {
		if err := ctx.Err(); err != nil {
			return result, &GameError{Index: g.index, Err: err}
		}
		if result.Rounds >= MaxRoundsPerGame {
			g.logger.WithField("rounds", result.Rounds).Warn("game stopped before reaching its end condition")
			break
		}

		opts := []engine.RoundOption{engine.WithLogger(g.logger)}
		if g.sink != nil {
			opts = append(opts, engine.WithEventSink(g.sink))
		}
		round, err := engine.NewRound(g.cfg.roundConfig(g.rng.Int63()), g.players, opts...)
		if err != nil {
			return result, &GameError{Index: g.index, Err: err}
		}

		roundResult := round.Run()
		result.Rounds++
		result.Turns += roundResult.Turns
		result.Reshuffles += roundResult.Reshuffles
		if roundResult.Truncated() {
			result.TruncatedRounds++
		}
		for seat := range result.Players {
			result.Players[seat].add(roundResult)
		}
	}

	g.logger.WithFields(logrus.Fields{"rounds": result.Rounds, "turns": result.Turns}).Debug("game finished")
	return result, nil
}
