package simulator

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/nrawrx3/unosim"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type BatchConfig struct {
	Game    GameConfig `json:"game"`
	Games   int        `json:"games"`
	Workers int        `json:"workers"`
}

func (cfg *BatchConfig) Validate() error {
	if cfg.Games < 1 {
		return errors.Errorf("games must be positive, got %d", cfg.Games)
	}
	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	return cfg.Game.Validate()
}

func (cfg *BatchConfig) workers() int {
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// BatchResult holds every game of a batch in game order plus per-seat totals.
type BatchResult struct {
	ID         uuid.UUID     `json:"id"`
	Config     BatchConfig   `json:"config"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Games      []GameResult  `json:"games"`
	Totals     []PlayerStats `json:"totals"`
	Rounds     int           `json:"rounds"`
	Truncated  int           `json:"truncated_rounds"`
	Reshuffles int           `json:"reshuffles"`
}

// Summary drops the per-game results.
func (b *BatchResult) Summary() BatchResult {
	summary := *b
	summary.Games = nil
	return summary
}

// RunBatch plays cfg.Games independent games on at most cfg.Workers goroutines. Game i
// is seeded with cfg.Game.Seed + i, so a batch is reproducible regardless of the number
// of workers. The first failing game cancels the others.
func RunBatch(ctx context.Context, cfg BatchConfig, logger logrus.FieldLogger) (*BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	batch := &BatchResult{
		ID:        uuid.New(),
		Config:    cfg,
		StartedAt: time.Now(),
		Games:     make([]GameResult, cfg.Games),
	}
	logger = logger.WithField("batch", batch.ID.String())
	logger.WithFields(logrus.Fields{"games": cfg.Games, "workers": cfg.workers()}).Info("starting batch")

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())

	for i := 0; i < cfg.Games; i++ {
		i := i
		gameCfg := cfg.Game
		gameCfg.Seed = cfg.Game.Seed + int64(i)

		g.Go(func() error {
			game, err := NewGame(i, gameCfg, WithGameLogger(logger))
			if err != nil {
				return &GameError{Index: i, Err: err}
			}
			result, err := game.Run(ctx)
			if err != nil {
				return err
			}
			batch.Games[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("batch failed")
		return nil, err
	}

	batch.Duration = time.Since(batch.StartedAt)
	batch.Totals = MergeStats(batch.Games)
	for _, game := range batch.Games {
		batch.Rounds += game.Rounds
		batch.Truncated += game.TruncatedRounds
		batch.Reshuffles += game.Reshuffles
	}

	logger.WithFields(logrus.Fields{"rounds": batch.Rounds, "duration": batch.Duration}).Info("batch finished")
	return batch, nil
}

// StreamRound plays a single round with fresh players of the given kinds and sends its
// events to sink.
func StreamRound(ctx context.Context, cfg GameConfig, sink unosim.EventSink, logger logrus.FieldLogger) (GameResult, error) {
	cfg.End = EndCondition{Kind: EndByRounds, N: 1}
	game, err := NewGame(0, cfg, WithGameLogger(logger), WithGameEventSink(sink))
	if err != nil {
		return GameResult{}, err
	}
	return game.Run(ctx)
}
