package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/internal/messages"
	"github.com/nrawrx3/unosim/internal/utils"
	"github.com/nrawrx3/unosim/players"
	"github.com/nrawrx3/unosim/simulator"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
)

var ErrSimulationNotFound = errors.New("simulation not found")

const (
	defaultGames        = 100
	defaultEndCondition = "rounds 1"
	maxGamesPerRequest  = 100000
	streamWriteTimeout  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type ConfigNewServer struct {
	ListenAddr utils.HostPortProtocol
	MaxConns   int
	Logger     logrus.FieldLogger
}

// Server runs simulation batches on request and keeps their summaries in memory.
type Server struct {
	stateMutex  sync.RWMutex
	simulations map[uuid.UUID]*simulator.BatchResult

	router     *mux.Router
	httpServer *http.Server
	maxConns   int
	logger     logrus.FieldLogger
}

func NewServer(config *ConfigNewServer) *Server {
	s := &Server{
		simulations: make(map[uuid.UUID]*simulator.BatchResult),
		maxConns:    config.MaxConns,
		logger:      config.Logger,
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}

	r := mux.NewRouter()
	r.Path("/healthz").Methods("GET").HandlerFunc(s.handleHealth)
	r.Path("/simulations").Methods("POST").HandlerFunc(s.handleRunSimulation)
	r.Path("/simulations").Methods("GET").HandlerFunc(s.handleListSimulations)
	r.Path("/simulations/{id}").Methods("GET").HandlerFunc(s.handleGetSimulation)
	r.Path("/rounds/stream").Methods("GET").HandlerFunc(s.handleStreamRound)
	utils.RoutesSummary(r, s.logger)
	s.router = r

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		Addr:              config.ListenAddr.BindString(),
		ReadTimeout:       5 * time.Second,
		IdleTimeout:       1 * time.Minute,
		ReadHeaderTimeout: 2 * time.Second,
	}

	return s
}

// Handler is the router wrapped with panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(s.logger), handlers.PrintRecoveryStack(true))(h)
	h = handlers.CustomLoggingHandler(s.logger.WithField("component", "http").WriterLevel(logrus.DebugLevel), h, logAccess)
	return h
}

func logAccess(w io.Writer, params handlers.LogFormatterParams) {
	fmt.Fprintf(w, "%s %s %d %dB\n", params.Request.Method, params.URL.Path, params.StatusCode, params.Size)
}

// RunServer listens until ctx is done, then shuts down gracefully.
func (s *Server) RunServer(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.httpServer.Addr)
	}
	if s.maxConns > 0 {
		listener = netutil.LimitListener(listener, s.maxConns)
	}

	s.logger.WithField("addr", listener.Addr().String()).Info("running simulation server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	messages.EncodeJSON(map[string]string{"status": "ok"}, w)
}

// BatchConfigFromRequest turns a request into a validated batch config, filling
// defaults.
func BatchConfigFromRequest(req messages.SimulationRequest) (simulator.BatchConfig, error) {
	var cfg simulator.BatchConfig

	if len(req.Players) < 2 {
		return cfg, errors.Errorf("need at least 2 players, got %d", len(req.Players))
	}
	for _, name := range req.Players {
		kind, err := players.ParseKind(name)
		if err != nil {
			return cfg, err
		}
		cfg.Game.PlayerKinds = append(cfg.Game.PlayerKinds, kind)
	}

	if req.EndCondition == "" {
		req.EndCondition = defaultEndCondition
	}
	end, err := simulator.ParseEndCondition(req.EndCondition)
	if err != nil {
		return cfg, err
	}

	cfg.Game.End = end
	cfg.Game.Seed = req.Seed
	cfg.Game.InitialHandSize = req.HandSize
	cfg.Game.MaxTurns = req.MaxTurns
	cfg.Games = req.Games
	if cfg.Games == 0 {
		cfg.Games = defaultGames
	}
	if cfg.Games > maxGamesPerRequest {
		return cfg, errors.Errorf("at most %d games per request, got %d", maxGamesPerRequest, cfg.Games)
	}
	cfg.Workers = req.Workers

	return cfg, cfg.Validate()
}

// Req:		POST /simulations SimulationRequest
// Resp:	BatchResult without the per-game results
func (s *Server) handleRunSimulation(w http.ResponseWriter, r *http.Request) {
	var req messages.SimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messages.WriteErrorPayload(w, http.StatusBadRequest, err)
		return
	}

	cfg, err := BatchConfigFromRequest(req)
	if err != nil {
		messages.WriteErrorPayload(w, http.StatusBadRequest, err)
		return
	}

	batch, err := simulator.RunBatch(r.Context(), cfg, s.logger)
	if err != nil {
		s.logger.WithError(err).Error("simulation failed")
		messages.WriteErrorPayload(w, http.StatusInternalServerError, err)
		return
	}

	s.stateMutex.Lock()
	s.simulations[batch.ID] = batch
	s.stateMutex.Unlock()

	messages.WriteJSON(w, http.StatusCreated, batch.Summary())
}

func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	s.stateMutex.RLock()
	list := messages.SimulationListMessage{Simulations: make([]simulator.BatchResult, 0, len(s.simulations))}
	for _, batch := range s.simulations {
		list.Simulations = append(list.Simulations, batch.Summary())
	}
	s.stateMutex.RUnlock()

	sort.Slice(list.Simulations, func(i, j int) bool {
		return list.Simulations[i].StartedAt.Before(list.Simulations[j].StartedAt)
	})
	messages.EncodeJSON(&list, w)
}

// Req:		GET /simulations/{id}?games=true
func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		messages.WriteErrorPayload(w, http.StatusBadRequest, errors.Wrap(err, "bad simulation id"))
		return
	}

	s.stateMutex.RLock()
	batch, ok := s.simulations[id]
	s.stateMutex.RUnlock()

	if !ok {
		messages.WriteErrorPayload(w, http.StatusNotFound, errors.Wrapf(ErrSimulationNotFound, "%s", id))
		return
	}

	if withGames, _ := strconv.ParseBool(r.URL.Query().Get("games")); withGames {
		messages.EncodeJSON(batch, w)
		return
	}
	messages.EncodeJSON(batch.Summary(), w)
}

// Req:		GET /rounds/stream?players=greedy,random&seed=3
// Upgrades to a websocket and sends one RoundEventMessage per event of a single round.
func (s *Server) handleStreamRound(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := messages.SimulationRequest{
		Players:      strings.Split(query.Get("players"), ","),
		Games:        1,
		EndCondition: defaultEndCondition,
	}
	if seed := query.Get("seed"); seed != "" {
		parsed, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			messages.WriteErrorPayload(w, http.StatusBadRequest, errors.Wrap(err, "bad seed"))
			return
		}
		req.Seed = parsed
	}

	cfg, err := BatchConfigFromRequest(req)
	if err != nil {
		messages.WriteErrorPayload(w, http.StatusBadRequest, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Events are produced synchronously on this goroutine, so writes are never
	// concurrent.
	var writeErr error
	seq := 0
	sink := unosim.EventSinkFunc(func(event unosim.GameEvent) {
		if writeErr != nil {
			return
		}
		seq++
		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		writeErr = conn.WriteJSON(messages.RoundEventMessage{Seq: seq, EventEnvelope: unosim.Envelope(event)})
	})

	if _, err := simulator.StreamRound(r.Context(), cfg.Game, sink, s.logger); err != nil {
		s.logger.WithError(err).Error("streamed round failed")
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()))
		return
	}
	if writeErr != nil {
		s.logger.WithError(writeErr).Warn("client went away during round stream")
		return
	}

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "round ended"))
}
