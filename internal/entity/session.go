package entity

import (
	"errors"
	"fmt"
)

const (
	StatusIdle    = "idle"
	StatusPlaying = "playing"
	StatusWon     = "won"
	StatusLost    = "lost"
)

// SessionStateVersion - bumped whenever the wire shape of SessionState changes.
const SessionStateVersion = 1

var (
	ErrVersionMismatch   = errors.New("session state version mismatch")
	ErrUnknownGameStatus = errors.New("unknown game status")
	ErrBoardShape        = errors.New("board does not match difficulty")
)

// SessionState - the full replicated unit exchanged over the wire. Peers
// overwrite their copy wholesale; there are no merge semantics.
type SessionState struct {
	Version        int        `json:"version"`
	Board          *Board     `json:"board"`
	Status         string     `json:"status"`
	MinesLeft      int        `json:"mines_left"`
	ElapsedSeconds int        `json:"elapsed_seconds"`
	Difficulty     Difficulty `json:"difficulty"`
}

// NewSessionState - an idle state with a blank board sized per difficulty.
func NewSessionState(difficulty Difficulty) *SessionState {
	return &SessionState{
		Version:    SessionStateVersion,
		Board:      NewBoard(difficulty.Rows, difficulty.Cols),
		Status:     StatusIdle,
		MinesLeft:  difficulty.Mines,
		Difficulty: difficulty,
	}
}

func (that *SessionState) IsIdle() bool {
	return that.Status == StatusIdle
}

func (that *SessionState) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *SessionState) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusLost
}

// Validate - shape validation for states received off the wire. A state that
// fails here is dropped as a protocol error, never applied.
func (that *SessionState) Validate() error {
	if that.Version != SessionStateVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, that.Version, SessionStateVersion)
	}

	switch that.Status {
	case StatusIdle, StatusPlaying, StatusWon, StatusLost:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownGameStatus, that.Status)
	}

	if _, err := DifficultyByName(that.Difficulty.Name); err != nil {
		return err
	}

	if that.Board == nil {
		return fmt.Errorf("%w: missing board", ErrBoardShape)
	}

	if that.Board.Rows != that.Difficulty.Rows || that.Board.Cols != that.Difficulty.Cols {
		return fmt.Errorf("%w: %dx%d board for %s", ErrBoardShape, that.Board.Rows, that.Board.Cols, that.Difficulty.Name)
	}

	if len(that.Board.Cells) != that.Board.Rows {
		return fmt.Errorf("%w: %d cell rows", ErrBoardShape, len(that.Board.Cells))
	}

	for row := range that.Board.Cells {
		if len(that.Board.Cells[row]) != that.Board.Cols {
			return fmt.Errorf("%w: row %d has %d cells", ErrBoardShape, row, len(that.Board.Cells[row]))
		}
	}

	return nil
}

// Clone - deep copy including the board.
func (that *SessionState) Clone() *SessionState {
	clone := *that
	if that.Board != nil {
		clone.Board = that.Board.Clone()
	}

	return &clone
}
