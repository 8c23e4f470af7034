package minesweeper

import (
	"math/rand"
	"time"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

// Session - one client's unit of truth: the board plus the
// idle -> playing -> {won,lost} status machine and both counters.
type Session struct {
	state *entity.SessionState
	rng   *rand.Rand
}

// NewSession - an idle session with a blank board. A nil rng falls back to a
// time-seeded source; tests pass a fixed seed for reproducible boards.
func NewSession(difficulty entity.Difficulty, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // board layout is not a secret
	}

	return &Session{
		state: entity.NewSessionState(difficulty),
		rng:   rng,
	}
}

// State - the live session state. Callers must not retain it across
// operations; use Snapshot for anything that leaves the session.
func (that *Session) State() *entity.SessionState {
	return that.state
}

// Snapshot - deep copy safe to hand to the transport.
func (that *Session) Snapshot() *entity.SessionState {
	return that.state.Clone()
}

// Reveal - discloses a cell. The first reveal of an idle session places the
// mines, never on the clicked cell, and starts play. Requests against a won
// or lost session are ignored. Reports whether anything changed.
func (that *Session) Reveal(row, col int) bool {
	if that.state.IsFinished() {
		return false
	}

	if that.state.IsIdle() {
		if !that.state.Board.InBounds(row, col) {
			return false
		}

		that.state.Board = Generate(that.state.Difficulty, row, col, that.rng)
		that.state.Status = entity.StatusPlaying
	}

	outcome := Reveal(that.state.Board, row, col)

	switch outcome {
	case RevealNoChange:
		return false
	case RevealMine:
		that.state.Status = entity.StatusLost
	case RevealSafe:
		if CheckWin(that.state.Board, that.state.Difficulty) {
			that.state.Status = entity.StatusWon
		}
	}

	return true
}

// ToggleFlag - flips a flag while playing and moves the mine-remaining
// counter by one. The counter is deliberately unclamped: flagging more cells
// than there are mines drives it negative.
func (that *Session) ToggleFlag(row, col int) bool {
	if !that.state.IsPlaying() {
		return false
	}

	flagged, changed := ToggleFlag(that.state.Board, row, col)
	if !changed {
		return false
	}

	if flagged {
		that.state.MinesLeft--
	} else {
		that.state.MinesLeft++
	}

	return true
}

// Tick - advances the elapsed-seconds counter; frozen outside playing.
func (that *Session) Tick() {
	if that.state.IsPlaying() {
		that.state.ElapsedSeconds++
	}
}

// Reset - back to idle with a fresh blank board sized per the (possibly new)
// difficulty. Both counters reset.
func (that *Session) Reset(difficulty entity.Difficulty) {
	that.state = entity.NewSessionState(difficulty)
}

// Apply - authoritative overwrite from a peer snapshot. The caller validates
// shape first; the session takes its own deep copy.
func (that *Session) Apply(state *entity.SessionState) {
	that.state = state.Clone()
}
