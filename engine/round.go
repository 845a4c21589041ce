package engine

import (
	"github.com/google/uuid"
	"github.com/nrawrx3/unosim"
	"github.com/nrawrx3/unosim/internal/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// RoundResult is the outcome of one round. Winner is -1 when the round was stopped by
// MaxTurns.
type RoundResult struct {
	RoundID     uuid.UUID   `json:"round_id"`
	Players     []string    `json:"players"`
	Winner      int         `json:"winner"`
	Losses      []int       `json:"losses"`
	Rewards     []int       `json:"rewards"`
	Turns       int         `json:"turns"`
	Reshuffles  int         `json:"reshuffles"`
	InitialCard unosim.Card `json:"initial_card"`
}

func (r RoundResult) Truncated() bool {
	return r.Winner < 0
}

type RoundOption func(*Round)

func WithLogger(logger logrus.FieldLogger) RoundOption {
	return func(r *Round) { r.logger = logger }
}

func WithEventSink(sink unosim.EventSink) RoundOption {
	return func(r *Round) { r.sink = sink }
}

func WithPreset(preset Preset) RoundOption {
	return func(r *Round) { r.preset = &preset }
}

func WithRoundID(id uuid.UUID) RoundOption {
	return func(r *Round) { r.id = id }
}

// Round runs a single round. It is not safe for concurrent use; player callbacks are
// made from the goroutine calling Run or PlayTurn.
type Round struct {
	id      uuid.UUID
	cfg     RoundConfig
	players []Player
	hands   []unosim.Deck
	preset  *Preset

	deck  *DeckManager
	flow  *FlowController
	state *StateController

	logger logrus.FieldLogger
	sink   unosim.EventSink

	started     bool
	finished    bool
	turns       int
	winner      int
	initialCard unosim.Card
	totalCards  int
}

func NewRound(cfg RoundConfig, players []Player, opts ...RoundOption) (*Round, error) {
	if cfg.NumPlayers == 0 {
		cfg.NumPlayers = len(players)
	}
	if cfg.NumPlayers != len(players) {
		return nil, errors.Wrapf(ErrInvalidRoundConfig, "config is for %d players, got %d", cfg.NumPlayers, len(players))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Round{
		id:      uuid.New(),
		cfg:     cfg,
		players: players,
		hands:   make([]unosim.Deck, len(players)),
		winner:  -1,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.preset != nil {
		if err := r.preset.Validate(cfg.NumPlayers); err != nil {
			return nil, err
		}
	}

	if r.logger == nil {
		r.logger = utils.DiscardLogger()
	}
	r.logger = r.logger.WithField("round", r.id.String())
	if r.sink == nil {
		r.sink = unosim.NopSink
	}

	rng := unosim.NewRand(cfg.Seed)
	r.deck = NewDeckManager(cfg.deck(), rng, r.logger, r.sink)
	r.flow = NewFlowController(cfg.NumPlayers, cfg.Clockwise)
	r.state = NewStateController(r.logger)

	return r, nil
}

func (r *Round) ID() uuid.UUID { return r.id }
func (r *Round) State() unosim.TableState { return r.state.State() }
func (r *Round) Flow() *FlowController { return r.flow }
func (r *Round) Deck() *DeckManager { return r.deck }
func (r *Round) Turns() int { return r.turns }
func (r *Round) InitialCard() unosim.Card { return r.initialCard }
func (r *Round) Hand(seat int) unosim.Deck { return r.hands[seat].Clone() }
func (r *Round) HandSize(seat int) int { return len(r.hands[seat]) }
func (r *Round) PlayerName(seat int) string { return r.players[seat].Name() }
func (r *Round) Finished() bool { return r.finished }

// TotalCards counts every card of the round wherever it is. It stays constant between
// Setup and the end of the round.
func (r *Round) TotalCards() int {
	total := r.deck.DrawPileLen() + r.deck.DiscardPileLen()
	for _, hand := range r.hands {
		total += len(hand)
	}
	return total
}

func (r *Round) playerNames() []string {
	names := make([]string, len(r.players))
	for i, p := range r.players {
		names[i] = p.Name()
	}
	return names
}

// Setup shuffles, deals and resolves the initial card, or installs the preset.
func (r *Round) Setup() {
	if r.started {
		unosim.Invariantf("Round.Setup", "round %s already set up", r.id)
	}
	r.started = true

	r.sink.OnGameEvent(unosim.RoundStartedEvent{
		RoundID:         r.id.String(),
		Players:         r.playerNames(),
		InitialHandSize: r.cfg.InitialHandSize,
		Clockwise:       r.cfg.Clockwise,
	})

	if r.preset != nil {
		r.installPreset()
		r.totalCards = r.TotalCards()
		return
	}

	for i := 0; i < r.cfg.shuffleCount(); i++ {
		r.deck.Shuffle()
	}

	for seat := range r.players {
		r.hands[seat] = unosim.NewEmptyDeck()
		r.giveCards(seat, r.deck.DrawN(r.cfg.InitialHandSize), unosim.CardTransferNodeDeck)
	}

	r.resolveInitialCard()
	r.totalCards = r.TotalCards()
}

func (r *Round) installPreset() {
	for seat, hand := range r.preset.Hands {
		r.hands[seat] = hand.Clone()
	}
	r.deck.install(r.preset.DrawPile, r.preset.DiscardPile)
	r.state.SetState(r.preset.State)
	r.flow.StartAt(r.preset.FirstSeat)

	if top, err := r.deck.TopDiscard(); err == nil {
		r.initialCard = top
	}
	r.logger.WithField("state", r.preset.State.String()).Info("round set up from preset")
}

func (r *Round) resolveInitialCard() {
	card := r.deck.DrawOne()
	redraws := 0
	for card.Kind == unosim.KindDrawFour {
		r.deck.Discard(card)
		card = r.deck.DrawOne()
		redraws++
	}
	r.deck.Discard(card)
	r.initialCard = card

	r.sink.OnGameEvent(unosim.InitialCardEvent{Card: card, Redraws: redraws})
	r.logger.WithFields(logrus.Fields{"card": card.SymbolString(), "redraws": redraws}).Info("initial card")

	switch card.Kind {
	case unosim.KindNumber:
		r.state.SetState(unosim.TableState{Color: card.Color, Value: int(card.Digit), Kind: card.Kind})

	case unosim.KindReverse:
		r.flow.Reverse()
		r.state.SetState(unosim.TableState{Color: card.Color, Value: -1, Kind: card.Kind})

	case unosim.KindSkip:
		r.flow.AddSkip(1)
		r.state.SetState(unosim.TableState{Color: card.Color, Value: -1, Kind: card.Kind})

	case unosim.KindDrawTwo:
		r.state.SetState(unosim.TableState{Color: card.Color, Value: -1, Kind: card.Kind})
		r.applyPenalty(0, 2)
		r.flow.AddSkip(1)

	case unosim.KindWild:
		color := chooseColor(r.players[0], r.view(0))
		r.state.SetState(unosim.TableState{Color: color, Value: -1, Kind: card.Kind})
		r.sink.OnGameEvent(unosim.WildCardColorChosenEvent{Player: r.players[0].Name(), ChosenColor: color})

	default:
		unosim.Invariantf("Round.resolveInitialCard", "unexpected initial card %s", card)
	}
}

func (r *Round) view(seat int) TurnView {
	sizes := make([]int, len(r.hands))
	for i, hand := range r.hands {
		sizes[i] = len(hand)
	}
	return TurnView{
		Seat:      seat,
		NextSeat:  r.flow.Next(),
		Hand:      r.hands[seat].Clone(),
		State:     r.state.State(),
		HandSizes: sizes,
		Turn:      r.turns,
	}
}

func (r *Round) giveCards(seat int, cards unosim.Deck, source unosim.CardTransferNode) {
	r.hands[seat] = r.hands[seat].Push(cards...)
	r.sink.OnGameEvent(unosim.CardTransferEvent{
		Source:     source,
		Sink:       unosim.CardTransferNodePlayerHand,
		SinkPlayer: r.players[seat].Name(),
		Cards:      cards.Clone(),
	})
}

func (r *Round) applyPenalty(seat int, count int) {
	r.sink.OnGameEvent(unosim.PenaltyAppliedEvent{Player: r.players[seat].Name(), Count: count})
	r.giveCards(seat, r.deck.DrawN(count), unosim.CardTransferNodeDeck)
}

// PlayTurn advances to the next player and plays their turn. It returns true when that
// player emptied their hand.
func (r *Round) PlayTurn() bool {
	if !r.started {
		r.Setup()
	}
	if r.finished {
		unosim.Invariantf("Round.PlayTurn", "round %s already finished", r.id)
	}

	seat := r.flow.Advance()
	r.turns++
	player := r.players[seat]
	logger := r.logger.WithFields(logrus.Fields{"seat": seat, "turn": r.turns})

	r.sink.OnGameEvent(unosim.TurnStartedEvent{
		Turn:     r.turns,
		Player:   player.Name(),
		Seat:     seat,
		HandSize: len(r.hands[seat]),
		State:    r.state.State(),
	})

	playable := r.state.PlayableSet(r.hands[seat])
	if len(playable) > 0 {
		if choice, ok := player.ChoosePlay(playable, r.view(seat)); ok {
			if !unosim.ContainsPlayable(playable, choice) {
				unosim.Invariantf("Round.PlayTurn", "%s chose %s at %d, not in the playable set", player.Name(), choice.Card, choice.Index)
			}
			r.play(seat, choice.Index, false)
			return r.checkDone(seat)
		}
	}

	if pending := r.state.ClearPending(); pending > 0 {
		logger.WithField("count", pending).Debug("resolving draw chain")
		r.applyPenalty(seat, pending)
		r.sink.OnGameEvent(unosim.PlayerPassedTurnEvent{Player: player.Name()})
		return false
	}

	drawn := r.deck.DrawOne()
	r.giveCards(seat, unosim.Deck{drawn}, unosim.CardTransferNodeDeck)

	if r.state.CheckNewCardPlayable(drawn, r.hands[seat]) && player.ChooseToPlayDrawnCard(drawn, r.view(seat)) {
		r.play(seat, len(r.hands[seat])-1, true)
		return r.checkDone(seat)
	}

	logger.Debug("passed")
	r.sink.OnGameEvent(unosim.PlayerPassedTurnEvent{Player: player.Name()})
	return false
}

func (r *Round) play(seat int, index int, fromDraw bool) {
	hand := r.hands[seat]
	if index < 0 || index >= len(hand) {
		unosim.Invariantf("Round.play", "hand index %d out of range [0, %d)", index, len(hand))
	}

	player := r.players[seat]
	card := hand[index]
	next := r.flow.Next()

	r.hands[seat] = hand.RemoveCard(index)
	r.deck.Discard(card)
	// The color chooser sees the hand without the card being played.
	view := r.view(seat)
	r.state.Apply(card, player, view, r.flow)
	state := r.state.State()

	r.sink.OnGameEvent(unosim.CardTransferEvent{
		Source:       unosim.CardTransferNodePlayerHand,
		Sink:         unosim.CardTransferNodePile,
		SourcePlayer: player.Name(),
		Cards:        unosim.Deck{card},
	})
	r.sink.OnGameEvent(unosim.CardPlayedEvent{
		Player:    player.Name(),
		Seat:      seat,
		Card:      card,
		FromDraw:  fromDraw,
		CardsLeft: len(r.hands[seat]),
		State:     state,
	})

	switch card.Kind {
	case unosim.KindSkip:
		r.sink.OnGameEvent(unosim.SkipCardActionEvent{Player: player.Name(), SkippedPlayer: r.players[next].Name()})
	case unosim.KindReverse:
		r.sink.OnGameEvent(unosim.ReverseCardActionEvent{
			Player:     player.Name(),
			Clockwise:  r.flow.Clockwise(),
			ActsAsSkip: r.flow.NumPlayers() == 2,
		})
	case unosim.KindDrawTwo:
		r.sink.OnGameEvent(unosim.DrawCardActionEvent{Player: player.Name(), Card: card, PendingDraw: state.PendingDraw})
	case unosim.KindWild:
		r.sink.OnGameEvent(unosim.WildCardColorChosenEvent{Player: player.Name(), ChosenColor: state.Color})
	case unosim.KindDrawFour:
		r.sink.OnGameEvent(unosim.WildCardColorChosenEvent{Player: player.Name(), ChosenColor: state.Color, IsDraw4: true})
		r.sink.OnGameEvent(unosim.DrawCardActionEvent{Player: player.Name(), Card: card, PendingDraw: state.PendingDraw})
	}
}

func (r *Round) checkDone(seat int) bool {
	if !r.flow.IsCurrentPlayerDone(r) {
		return false
	}
	r.finished = true
	r.winner = seat
	r.sink.OnGameEvent(unosim.PlayerHasWonEvent{Player: r.players[seat].Name(), Seat: seat})
	return true
}

// Run plays turns until a player empties their hand or MaxTurns is reached, then
// reports the result to every RoundObserver.
func (r *Round) Run() RoundResult {
	if !r.started {
		r.Setup()
	}

	for !r.finished {
		if r.cfg.MaxTurns > 0 && r.turns >= r.cfg.MaxTurns {
			r.finished = true
			r.logger.WithField("turns", r.turns).Warn("round stopped without a winner")
			break
		}
		r.PlayTurn()
	}

	if total := r.TotalCards(); total != r.totalCards {
		unosim.Invariantf("Round.Run", "card count changed from %d to %d", r.totalCards, total)
	}

	result := r.Result()
	r.sink.OnGameEvent(unosim.RoundEndedEvent{
		RoundID:    r.id.String(),
		WinnerSeat: result.Winner,
		Losses:     result.Losses,
		Turns:      result.Turns,
		Truncated:  result.Truncated(),
	})
	r.logger.WithFields(logrus.Fields{"winner": result.Winner, "turns": result.Turns}).Info("round ended")

	for _, p := range r.players {
		if observer, ok := p.(RoundObserver); ok {
			observer.OnRoundEnd(result)
		}
	}
	return result
}

// Result computes losses and rewards from the current hands. The winner gains the sum of
// the other players' losses and every loser gets minus its own loss. A round without a
// winner has zero rewards.
func (r *Round) Result() RoundResult {
	losses := make([]int, len(r.hands))
	rewards := make([]int, len(r.hands))
	total := 0
	for seat, hand := range r.hands {
		losses[seat] = hand.Score()
		total += losses[seat]
	}

	if r.winner >= 0 {
		for seat := range r.hands {
			if seat == r.winner {
				rewards[seat] = total - losses[seat]
			} else {
				rewards[seat] = -losses[seat]
			}
		}
	}

	return RoundResult{
		RoundID:     r.id,
		Players:     r.playerNames(),
		Winner:      r.winner,
		Losses:      losses,
		Rewards:     rewards,
		Turns:       r.turns,
		Reshuffles:  r.deck.Reshuffles(),
		InitialCard: r.initialCard,
	}
}
