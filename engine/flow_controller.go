package engine

import "github.com/nrawrx3/unosim"

// FlowController tracks whose turn it is. Seats are fixed for the whole round and the
// cycle never shrinks.
type FlowController struct {
	numPlayers   int
	current      int
	clockwise    bool
	pendingSkips int
	firstSeat    int
	seated       bool
}

func NewFlowController(numPlayers int, clockwise bool) *FlowController {
	if numPlayers < 2 {
		unosim.Invariantf("NewFlowController", "need at least 2 players, got %d", numPlayers)
	}
	return &FlowController{
		numPlayers: numPlayers,
		clockwise:  clockwise,
	}
}

func (f *FlowController) NumPlayers() int { return f.numPlayers }
func (f *FlowController) Clockwise() bool { return f.clockwise }
func (f *FlowController) PendingSkips() int { return f.pendingSkips }

// Current is the seat of the active player. It is only meaningful after the first Advance.
func (f *FlowController) Current() int { return f.current }

// Reverse flips the direction. With two players the direction is meaningless, so the
// other player is skipped instead.
func (f *FlowController) Reverse() {
	if f.numPlayers == 2 {
		f.AddSkip(1)
		return
	}
	f.clockwise = !f.clockwise
}

func (f *FlowController) AddSkip(n int) {
	if n < 1 {
		unosim.Invariantf("FlowController.AddSkip", "skip count must be positive, got %d", n)
	}
	f.pendingSkips += n
}

// Advance moves to the next player, consuming all pending skips. The first call of a
// round seats the first player (seat 0 unless StartAt was used) and then only consumes
// the pending skips queued by the initial card.
func (f *FlowController) Advance() int {
	steps := f.pendingSkips + 1
	if !f.seated {
		f.seated = true
		f.current = f.firstSeat
		steps = f.pendingSkips
	}
	f.current = f.step(f.current, steps)
	f.pendingSkips = 0
	return f.current
}

// Next peeks at the seat one step ahead of the current one, ignoring pending skips.
func (f *FlowController) Next() int {
	if !f.seated {
		return f.firstSeat
	}
	return f.step(f.current, 1)
}

// StartAt makes the first Advance seat the given player instead of seat 0. It must be
// called before the first Advance.
func (f *FlowController) StartAt(seat int) {
	if f.seated {
		unosim.Invariantf("FlowController.StartAt", "round already started")
	}
	if seat < 0 || seat >= f.numPlayers {
		unosim.Invariantf("FlowController.StartAt", "seat %d out of range [0, %d)", seat, f.numPlayers)
	}
	f.firstSeat = seat
}

// HandSizer reports the hand size of a seat.
type HandSizer interface {
	HandSize(seat int) int
}

func (f *FlowController) IsCurrentPlayerDone(hands HandSizer) bool {
	return f.seated && hands.HandSize(f.current) == 0
}

func (f *FlowController) step(from, steps int) int {
	delta := 1
	if !f.clockwise {
		delta = -1
	}
	seat := from
	for i := 0; i < steps; i++ {
		seat = ((seat+delta)%f.numPlayers + f.numPlayers) % f.numPlayers
	}
	return seat
}
