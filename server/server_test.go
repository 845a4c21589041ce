package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/nrawrx3/unosim/internal/messages"
	"github.com/nrawrx3/unosim/players"
	"github.com/nrawrx3/unosim/simulator"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := NewServer(&ConfigNewServer{Logger: logger})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postSimulation(t *testing.T, ts *httptest.Server, req messages.SimulationRequest) *http.Response {
	resp, err := http.Post(ts.URL+"/simulations", "application/json", messages.MustJSONReader(req))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRunAndFetchSimulation(t *testing.T) {
	_, ts := newTestServer(t)

	resp := postSimulation(t, ts, messages.SimulationRequest{
		Players:      []string{"greedy", "random"},
		Games:        4,
		EndCondition: "rounds 3",
		Seed:         11,
		Workers:      2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var created simulator.BatchResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, 12, created.Rounds)
	assert.Empty(t, created.Games)
	require.Len(t, created.Totals, 2)

	getResp, err := http.Get(ts.URL + "/simulations/" + created.ID.String() + "?games=true")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var full simulator.BatchResult
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&full))
	assert.Equal(t, created.ID, full.ID)
	assert.Len(t, full.Games, 4)

	listResp, err := http.Get(ts.URL + "/simulations")
	require.NoError(t, err)
	defer listResp.Body.Close()

	var list messages.SimulationListMessage
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Len(t, list.Simulations, 1)
	assert.Equal(t, created.ID, list.Simulations[0].ID)
}

func TestRunSimulationRejectsBadRequests(t *testing.T) {
	_, ts := newTestServer(t)

	bad := []messages.SimulationRequest{
		{Players: []string{"greedy"}},
		{Players: []string{"greedy", "dqn"}},
		{Players: []string{"greedy", "random"}, EndCondition: "turns 4"},
		{Players: []string{"greedy", "random"}, Games: maxGamesPerRequest + 1},
		{Players: []string{"greedy", "random"}, Games: 2, MaxTurns: -1},
		{Players: []string{"greedy", "random"}, Games: 2, HandSize: 60},
		{Players: []string{"greedy", "random"}, Games: 2, HandSize: -3},
	}
	for _, req := range bad {
		resp := postSimulation(t, ts, req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%+v", req)

		var payload messages.UnwrappedErrorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.NotEmpty(t, payload.Errors)
	}

	resp, err := http.Post(ts.URL+"/simulations", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUnknownSimulation(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/simulations/6f1c1a52-8f0e-4d5e-9a4e-0c3f0e7b2d11")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2, err := http.Get(ts.URL + "/simulations/not-a-uuid")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestStreamRound(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/rounds/stream?players=greedy,first_card,random&seed=5"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	type streamed struct {
		Seq  int    `json:"seq"`
		Name string `json:"name"`
	}

	var received []streamed
	for {
		var msg streamed
		err := conn.ReadJSON(&msg)
		if err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error %v", err)
			break
		}
		received = append(received, msg)
	}

	require.NotEmpty(t, received)
	assert.Equal(t, "RoundStartedEvent", received[0].Name)
	assert.Equal(t, "RoundEndedEvent", received[len(received)-1].Name)
	for i, msg := range received {
		assert.Equal(t, i+1, msg.Seq)
	}
}

func TestStreamRoundRejectsBadPlayers(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/rounds/stream?players=greedy")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchConfigFromRequestDefaults(t *testing.T) {
	cfg, err := BatchConfigFromRequest(messages.SimulationRequest{Players: []string{"g", "fc"}, Seed: 9})
	require.NoError(t, err)

	assert.Equal(t, defaultGames, cfg.Games)
	assert.Equal(t, []players.Kind{players.KindGreedy, players.KindFirstCard}, cfg.Game.PlayerKinds)
	assert.Equal(t, simulator.EndCondition{Kind: simulator.EndByRounds, N: 1}, cfg.Game.End)
	assert.Equal(t, int64(9), cfg.Game.Seed)
	assert.Equal(t, 0, cfg.Workers)
}
