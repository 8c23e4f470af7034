package minesweeper

import (
	"math/rand"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

// RevealOutcome - result of a single reveal request.
type RevealOutcome int

const (
	RevealNoChange RevealOutcome = iota
	RevealSafe
	RevealMine
)

type position struct {
	row, col int
}

// Generate - places exactly difficulty.Mines mines by rejection sampling,
// never on the excluded cell, then computes neighbor counts. Deterministic
// for a fixed rng.
func Generate(difficulty entity.Difficulty, excludedRow, excludedCol int, rng *rand.Rand) *entity.Board {
	board := entity.NewBoard(difficulty.Rows, difficulty.Cols)

	placed := 0
	for placed < difficulty.Mines {
		row := rng.Intn(difficulty.Rows)
		col := rng.Intn(difficulty.Cols)

		if row == excludedRow && col == excludedCol {
			continue
		}

		if board.Cells[row][col].IsMine {
			continue
		}

		board.Cells[row][col].IsMine = true
		placed++
	}

	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Cols; col++ {
			if board.Cells[row][col].IsMine {
				continue
			}
			board.Cells[row][col].NeighborMines = countNeighborMines(board, row, col)
		}
	}

	return board
}

func countNeighborMines(board *entity.Board, row, col int) int {
	mines := 0
	for _, neighbor := range neighbors(board, row, col) {
		if board.Cells[neighbor.row][neighbor.col].IsMine {
			mines++
		}
	}

	return mines
}

func neighbors(board *entity.Board, row, col int) []position {
	positions := make([]position, 0, 8)
	for dRow := -1; dRow <= 1; dRow++ {
		for dCol := -1; dCol <= 1; dCol++ {
			if dRow == 0 && dCol == 0 {
				continue
			}
			if board.InBounds(row+dRow, col+dCol) {
				positions = append(positions, position{row + dRow, col + dCol})
			}
		}
	}

	return positions
}

// Reveal - discloses a cell. Out-of-bounds, already revealed and flagged
// cells are silent no-ops. Hitting a mine discloses every mine on the board.
// A zero-neighbor cell flood-fills through its whole zero region; the fill
// runs on an explicit work list so large boards never grow the call stack.
func Reveal(board *entity.Board, row, col int) RevealOutcome {
	cell := board.At(row, col)
	if cell == nil || cell.IsRevealed || cell.IsFlagged {
		return RevealNoChange
	}

	if cell.IsMine {
		cell.IsRevealed = true
		board.Revealed++
		discloseMines(board)

		return RevealMine
	}

	pending := []position{{row, col}}
	for len(pending) > 0 {
		next := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		current := &board.Cells[next.row][next.col]
		if current.IsRevealed || current.IsFlagged {
			continue
		}

		current.IsRevealed = true
		board.Revealed++

		if current.NeighborMines != 0 {
			continue
		}

		for _, neighbor := range neighbors(board, next.row, next.col) {
			candidate := &board.Cells[neighbor.row][neighbor.col]
			if !candidate.IsRevealed && !candidate.IsFlagged {
				pending = append(pending, neighbor)
			}
		}
	}

	return RevealSafe
}

// discloseMines - marks every mine revealed for display after a loss.
func discloseMines(board *entity.Board) {
	for row := range board.Cells {
		for col := range board.Cells[row] {
			cell := &board.Cells[row][col]
			if cell.IsMine && !cell.IsRevealed {
				cell.IsRevealed = true
				board.Revealed++
			}
		}
	}
}

// ToggleFlag - flips the flag on an unrevealed cell and reports the new flag
// state. The mine-remaining counter is the caller's concern; the engine does
// not clamp or validate it.
func ToggleFlag(board *entity.Board, row, col int) (flagged, changed bool) {
	cell := board.At(row, col)
	if cell == nil || cell.IsRevealed {
		return false, false
	}

	cell.IsFlagged = !cell.IsFlagged

	return cell.IsFlagged, true
}

// CheckWin - true once every non-mine cell is revealed. Flags are irrelevant.
func CheckWin(board *entity.Board, difficulty entity.Difficulty) bool {
	return board.Revealed == difficulty.Rows*difficulty.Cols-difficulty.Mines
}
