// Package console is the interactive front end: it keeps simulation settings, runs
// batches locally or on a simulation server, and replays single rounds from table
// descriptions.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/engine"
	"github.com/nrawrx3/unosim/hand_reader"
	"github.com/nrawrx3/unosim/internal/messages"
	"github.com/nrawrx3/unosim/internal/utils"
	"github.com/nrawrx3/unosim/players"
	"github.com/nrawrx3/unosim/server"
	"github.com/nrawrx3/unosim/simulator"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const remoteTimeout = 10 * time.Minute

type Settings struct {
	Players  []players.Kind
	Games    int
	End      simulator.EndCondition
	Seed     int64
	Workers  int
	HandSize int
	MaxTurns int
}

func DefaultSettings() Settings {
	return Settings{
		Players: []players.Kind{players.KindGreedy, players.KindRandom},
		Games:   100,
		End:     simulator.EndCondition{Kind: simulator.EndByRounds, N: 1},
		Seed:    1,
	}
}

func (s Settings) request() messages.SimulationRequest {
	req := messages.SimulationRequest{
		Games:        s.Games,
		EndCondition: s.End.String(),
		Seed:         s.Seed,
		Workers:      s.Workers,
		HandSize:     s.HandSize,
		MaxTurns:     s.MaxTurns,
	}
	for _, kind := range s.Players {
		req.Players = append(req.Players, string(kind))
	}
	return req
}

type ConfigNewConsole struct {
	Out       io.Writer
	Logger    logrus.FieldLogger
	ServerURL string
}

// Console executes parsed commands. It is driven by a single goroutine.
type Console struct {
	settings  Settings
	serverURL string
	client    *http.Client
	out       io.Writer
	logger    logrus.FieldLogger
	last      *simulator.BatchResult
}

func NewConsole(config *ConfigNewConsole) *Console {
	c := &Console{
		settings:  DefaultSettings(),
		serverURL: strings.TrimSuffix(config.ServerURL, "/"),
		client:    utils.CreateHTTPClient(remoteTimeout),
		out:       config.Out,
		logger:    config.Logger,
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.logger == nil {
		c.logger = logrus.StandardLogger()
	}
	return c
}

func (c *Console) Settings() Settings { return c.settings }

func (c *Console) LastBatch() *simulator.BatchResult { return c.last }

// RunREPL reads commands until quit, EOF or interrupt.
func (c *Console) RunREPL(ctx context.Context) error {
	rl, err := readline.New("> ")
	if err != nil {
		return errors.Wrap(err, "readline")
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			// io.EOF or readline.ErrInterrupt
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		command, err := ParseCommandFromInput(line)
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}

		quit, err := c.Execute(ctx, command)
		if err != nil {
			fmt.Fprintln(c.out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs one command. quit is true for CmdQuit.
func (c *Console) Execute(ctx context.Context, command InputCommand) (quit bool, err error) {
	c.logger.WithField("command", command.Kind.String()).Debug("executing command")

	switch command.Kind {
	case CmdPlayers:
		c.settings.Players = command.Players
	case CmdSeed:
		c.settings.Seed = command.Seed
	case CmdGames:
		c.settings.Games = command.Count
	case CmdEnd:
		c.settings.End = command.End
	case CmdWorkers:
		c.settings.Workers = command.Count
	case CmdHandSize:
		c.settings.HandSize = command.Count
	case CmdMaxTurns:
		c.settings.MaxTurns = command.Count
	case CmdReset:
		c.settings = DefaultSettings()
		c.last = nil
	case CmdShow:
		c.show()
	case CmdHelp:
		fmt.Fprint(c.out, usage)
	case CmdConnect:
		c.serverURL = strings.TrimSuffix(command.Address, "/")
		fmt.Fprintf(c.out, "batches will run on %s\n", c.serverURL)
	case CmdDisconnect:
		c.serverURL = ""
		fmt.Fprintln(c.out, "batches will run locally")
	case CmdRun:
		return false, c.run(ctx)
	case CmdStats:
		if c.last == nil {
			return false, errors.New("nothing has been run yet")
		}
		return false, simulator.WriteTable(c.out, c.last.Totals)
	case CmdLoad:
		return false, c.replay(command.Path)
	case CmdQuit:
		return true, nil
	default:
		return false, errors.Errorf("unhandled command %s", command.Kind)
	}
	return false, nil
}

func (c *Console) show() {
	where := "local"
	if c.serverURL != "" {
		where = c.serverURL
	}
	fmt.Fprintf(c.out, "players:   %v\n", c.settings.Players)
	fmt.Fprintf(c.out, "games:     %d\n", c.settings.Games)
	fmt.Fprintf(c.out, "end:       %s\n", c.settings.End)
	fmt.Fprintf(c.out, "seed:      %d\n", c.settings.Seed)
	fmt.Fprintf(c.out, "workers:   %d\n", c.settings.Workers)
	fmt.Fprintf(c.out, "hand_size: %d\n", c.settings.HandSize)
	fmt.Fprintf(c.out, "max_turns: %d\n", c.settings.MaxTurns)
	fmt.Fprintf(c.out, "runs on:   %s\n", where)
}

func (c *Console) run(ctx context.Context) error {
	var batch *simulator.BatchResult
	var err error

	if c.serverURL == "" {
		batch, err = c.runLocal(ctx)
	} else {
		batch, err = c.runRemote(ctx)
	}
	if err != nil {
		return err
	}

	c.last = batch
	fmt.Fprintf(c.out, "batch %s: %d games, %d rounds (%d truncated), %d reshuffles in %s\n",
		batch.ID, batch.Config.Games, batch.Rounds, batch.Truncated, batch.Reshuffles, batch.Duration.Round(time.Millisecond))
	return simulator.WriteTable(c.out, batch.Totals)
}

func (c *Console) runLocal(ctx context.Context) (*simulator.BatchResult, error) {
	cfg, err := server.BatchConfigFromRequest(c.settings.request())
	if err != nil {
		return nil, err
	}
	return simulator.RunBatch(ctx, cfg, c.logger)
}

func (c *Console) runRemote(ctx context.Context) (*simulator.BatchResult, error) {
	sender := utils.RequestSender{
		Client:     c.client,
		Method:     "POST",
		URL:        c.serverURL + "/simulations",
		BodyReader: messages.MustJSONReader(c.settings.request()),
	}

	resp, err := sender.Send(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s", sender.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var payload messages.UnwrappedErrorPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || len(payload.Errors) == 0 {
			return nil, errors.Errorf("server responded %s", resp.Status)
		}
		return nil, errors.Errorf("server responded %s: %s", resp.Status, payload.Errors[0])
	}

	var batch simulator.BatchResult
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, errors.Wrap(err, "bad batch result")
	}
	return &batch, nil
}

// replay plays one round from a table description, printing every event. Seats take the
// configured player kinds in order, cycling if the table has more players.
func (c *Console) replay(path string) (err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "load %s", path)
	}

	loaded, err := hand_reader.LoadConfig(data, nil, c.logger)
	if err != nil {
		return errors.Wrapf(err, "load %s", path)
	}

	seats := make([]engine.Player, len(loaded.PlayerNames))
	for i, name := range loaded.PlayerNames {
		kind := c.settings.Players[i%len(c.settings.Players)]
		seats[i], err = players.New(kind, name, unosim.NewRand(c.settings.Seed+int64(i)))
		if err != nil {
			return err
		}
	}

	cfg := engine.DefaultRoundConfig(len(seats), c.settings.Seed)
	cfg.MaxTurns = c.settings.MaxTurns
	printer := unosim.EventSinkFunc(func(event unosim.GameEvent) {
		fmt.Fprintln(c.out, event.StringMessage())
	})

	round, err := engine.NewRound(cfg, seats,
		engine.WithPreset(loaded.Preset),
		engine.WithLogger(c.logger),
		engine.WithEventSink(printer))
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			invErr, ok := unosim.AsInvariantError(r)
			if !ok {
				panic(r)
			}
			err = errors.Wrap(invErr, "round aborted")
		}
	}()

	result := round.Run()
	fmt.Fprintf(c.out, "losses %v, rewards %v\n", result.Losses, result.Rewards)
	return nil
}
