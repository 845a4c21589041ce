package messages

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/simulator"
	"github.com/sirupsen/logrus"
)

// Sent by clients to start a batch. Workers 0 means one per CPU.
type SimulationRequest struct {
	Players      []string `json:"players"`
	Games        int      `json:"games"`
	EndCondition string   `json:"end_condition"`
	Seed         int64    `json:"seed"`
	Workers      int      `json:"workers"`
	HandSize     int      `json:"initial_hand_size,omitempty"`
	MaxTurns     int      `json:"max_turns,omitempty"`
}

type SimulationListMessage struct {
	Simulations []simulator.BatchResult `json:"simulations"`
}

// Sent over the round stream, one per game event.
type RoundEventMessage struct {
	Seq int `json:"seq"`
	unosim.EventEnvelope
}

type UnwrappedErrorPayload struct {
	Errors []string `json:"errors"`
}

func (payload *UnwrappedErrorPayload) Add(err error) {
	if payload.Errors == nil {
		payload.Errors = make([]string, 0, 4)
	}
	payload.Errors = append(payload.Errors, err.Error())
	for {
		err = errors.Unwrap(err)
		if err == nil {
			break
		}
		payload.Errors = append(payload.Errors, err.Error())
	}
}

func WriteErrorPayload(w http.ResponseWriter, statusCode int, err error) {
	payload := UnwrappedErrorPayload{}
	payload.Add(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(&payload)
}

func MustJSONReader(v interface{}) io.Reader {
	var b bytes.Buffer
	err := json.NewEncoder(&b).Encode(v)

	if err != nil {
		logrus.Fatal(err)
	}
	return &b
}

// EncodeJSON sets the content type if output is a response writer.
func EncodeJSON(inputStructPointer interface{}, output io.Writer) error {
	if respWriter, ok := output.(http.ResponseWriter); ok {
		respWriter.Header().Set("Content-Type", "application/json")
	}
	return json.NewEncoder(output).Encode(inputStructPointer)
}

func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}
