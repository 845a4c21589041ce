package unosim

import (
	"fmt"
	"strings"
	"sync"
)

type CardTransferNode string

const (
	CardTransferNodeDeck       CardTransferNode = "deck"
	CardTransferNodePile       CardTransferNode = "pile"
	CardTransferNodePlayerHand CardTransferNode = "player_hand"
)

// GameEvent is a notification emitted by a round. Consumers are the simulator (stats),
// the server (event streaming) and tests.
type GameEvent interface {
	GameEventName() string
	StringMessage() string
}

// EventSink receives the events of a round synchronously, on the round's goroutine.
type EventSink interface {
	OnGameEvent(event GameEvent)
}

type EventSinkFunc func(event GameEvent)

func (f EventSinkFunc) OnGameEvent(event GameEvent) {
	f(event)
}

type nopSink struct{}

func (nopSink) OnGameEvent(GameEvent) {}

// NopSink drops every event.
var NopSink EventSink = nopSink{}

// EventRecorder keeps every event it receives. Safe for use from multiple rounds.
type EventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *EventRecorder) OnGameEvent(event GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *EventRecorder) Events() []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]GameEvent, len(r.events))
	copy(events, r.events)
	return events
}

func (r *EventRecorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.events))
	for _, e := range r.events {
		names = append(names, e.GameEventName())
	}
	return names
}

// EventEnvelope is the wire form of an event.
type EventEnvelope struct {
	Name    string    `json:"name"`
	Message string    `json:"message"`
	Event   GameEvent `json:"event"`
}

func Envelope(event GameEvent) EventEnvelope {
	return EventEnvelope{
		Name:    event.GameEventName(),
		Message: event.StringMessage(),
		Event:   event,
	}
}

type RoundStartedEvent struct {
	RoundID         string   `json:"round_id"`
	Players         []string `json:"players"`
	InitialHandSize int      `json:"initial_hand_size"`
	Clockwise       bool     `json:"clockwise"`
}

func (e RoundStartedEvent) StringMessage() string {
	return fmt.Sprintf("round %s started with players %s", e.RoundID, strings.Join(e.Players, ", "))
}

func (e RoundStartedEvent) GameEventName() string {
	return "RoundStartedEvent"
}

type InitialCardEvent struct {
	Card    Card `json:"card"`
	Redraws int  `json:"redraws"`
}

func (e InitialCardEvent) StringMessage() string {
	return fmt.Sprintf("%s is the initial card (after %d redraws)", e.Card, e.Redraws)
}

func (e InitialCardEvent) GameEventName() string {
	return "InitialCardEvent"
}

type TurnStartedEvent struct {
	Turn     int        `json:"turn"`
	Player   string     `json:"player"`
	Seat     int        `json:"seat"`
	HandSize int        `json:"hand_size"`
	State    TableState `json:"state"`
}

func (e TurnStartedEvent) StringMessage() string {
	return fmt.Sprintf("turn %d: %s (%d cards) to play on %s", e.Turn, e.Player, e.HandSize, e.State)
}

func (e TurnStartedEvent) GameEventName() string {
	return "TurnStartedEvent"
}

type CardTransferEvent struct {
	Source       CardTransferNode `json:"source"`
	Sink         CardTransferNode `json:"sink"`
	SourcePlayer string           `json:"source_player,omitempty"` // If applicable
	SinkPlayer   string           `json:"sink_player,omitempty"`   // If applicable
	Cards        Deck             `json:"cards"`
}

func (c CardTransferEvent) StringMessage() string {
	sourceName := string(c.Source)
	if c.Source == CardTransferNodePlayerHand {
		sourceName = "player " + c.SourcePlayer
	}

	sinkName := string(c.Sink)
	if c.Sink == CardTransferNodePlayerHand {
		sinkName = "player " + c.SinkPlayer
	}

	return fmt.Sprintf("Card transfer of %d card(s) from %s to %s", len(c.Cards), sourceName, sinkName)
}

func (c CardTransferEvent) GameEventName() string {
	return "CardTransferEvent"
}

type CardPlayedEvent struct {
	Player    string     `json:"player"`
	Seat      int        `json:"seat"`
	Card      Card       `json:"card"`
	FromDraw  bool       `json:"from_draw"`
	CardsLeft int        `json:"cards_left"`
	State     TableState `json:"state"`
}

func (e CardPlayedEvent) StringMessage() string {
	from := ""
	if e.FromDraw {
		from = " right after drawing it"
	}
	return fmt.Sprintf("%s played %s%s (%d cards left)", e.Player, e.Card, from, e.CardsLeft)
}

func (e CardPlayedEvent) GameEventName() string {
	return "CardPlayedEvent"
}

type SkipCardActionEvent struct {
	Player        string `json:"player"`
	SkippedPlayer string `json:"skipped_player"`
}

func (e SkipCardActionEvent) StringMessage() string {
	return fmt.Sprintf("%s played a skip-card, skipping %s", e.Player, e.SkippedPlayer)
}

func (e SkipCardActionEvent) GameEventName() string {
	return "SkipActionEvent"
}

type ReverseCardActionEvent struct {
	Player     string `json:"player"`
	Clockwise  bool   `json:"clockwise"`
	ActsAsSkip bool   `json:"acts_as_skip"`
}

func (e ReverseCardActionEvent) StringMessage() string {
	if e.ActsAsSkip {
		return fmt.Sprintf("%s played a reverse-card, which skips the only other player", e.Player)
	}
	return fmt.Sprintf("%s played a reverse-card, direction is now clockwise=%v", e.Player, e.Clockwise)
}

func (e ReverseCardActionEvent) GameEventName() string {
	return "ReverseActionEvent"
}

type DrawCardActionEvent struct {
	Player      string `json:"player"`
	Card        Card   `json:"card"`
	PendingDraw int    `json:"pending_draw"`
}

func (e DrawCardActionEvent) StringMessage() string {
	return fmt.Sprintf("%s played %s, %d cards are now pending", e.Player, e.Card, e.PendingDraw)
}

func (e DrawCardActionEvent) GameEventName() string {
	if e.Card.Kind == KindDrawFour {
		return "Draw4ActionEvent"
	}
	return "Draw2ActionEvent"
}

type WildCardColorChosenEvent struct {
	Player      string `json:"player"`
	ChosenColor Color  `json:"chosen_color"`
	IsDraw4     bool   `json:"is_draw4"`
}

func (e WildCardColorChosenEvent) StringMessage() string {
	return fmt.Sprintf("%s chose wild card (draw4=%v) color to be %s", e.Player, e.IsDraw4, e.ChosenColor)
}

func (e WildCardColorChosenEvent) GameEventName() string {
	return "WildCardColorChosenEvent"
}

type PenaltyAppliedEvent struct {
	Player string `json:"player"`
	Count  int    `json:"count"`
}

func (e PenaltyAppliedEvent) StringMessage() string {
	return fmt.Sprintf("%s draws %d penalty card(s)", e.Player, e.Count)
}

func (e PenaltyAppliedEvent) GameEventName() string {
	return "PenaltyAppliedEvent"
}

type PlayerPassedTurnEvent struct {
	Player string `json:"player"`
}

func (e PlayerPassedTurnEvent) StringMessage() string {
	return fmt.Sprintf("%s passed turn", e.Player)
}

func (e PlayerPassedTurnEvent) GameEventName() string {
	return "PlayerPassedTurnEvent"
}

type ReshuffleEvent struct {
	CardCount int `json:"card_count"`
}

func (e ReshuffleEvent) StringMessage() string {
	return fmt.Sprintf("draw pile ran out, %d discarded cards reshuffled into it", e.CardCount)
}

func (e ReshuffleEvent) GameEventName() string {
	return "ReshuffleEvent"
}

type PlayerHasWonEvent struct {
	Player string `json:"player"`
	Seat   int    `json:"seat"`
}

func (e PlayerHasWonEvent) StringMessage() string {
	return fmt.Sprintf("%s is the winner", e.Player)
}

func (e PlayerHasWonEvent) GameEventName() string {
	return "PlayerHasWonEvent"
}

type RoundEndedEvent struct {
	RoundID    string `json:"round_id"`
	WinnerSeat int    `json:"winner_seat"`
	Losses     []int  `json:"losses"`
	Turns      int    `json:"turns"`
	Truncated  bool   `json:"truncated"`
}

func (e RoundEndedEvent) StringMessage() string {
	if e.Truncated {
		return fmt.Sprintf("round %s stopped after %d turns without a winner", e.RoundID, e.Turns)
	}
	return fmt.Sprintf("round %s ended after %d turns, losses: %v", e.RoundID, e.Turns, e.Losses)
}

func (e RoundEndedEvent) GameEventName() string {
	return "RoundEndedEvent"
}
