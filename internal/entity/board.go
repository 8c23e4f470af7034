package entity

import (
	"fmt"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
)

const (
	BeginnerDifficulty     = "beginner"
	IntermediateDifficulty = "intermediate"
	ExpertDifficulty       = "expert"
)

// Difficulty - fixed board dimensions and mine quota for one preset.
type Difficulty struct {
	Name  string `json:"name"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Mines int    `json:"mines"`
}

var difficulties = map[string]Difficulty{
	BeginnerDifficulty:     {Name: BeginnerDifficulty, Rows: 9, Cols: 9, Mines: 10},
	IntermediateDifficulty: {Name: IntermediateDifficulty, Rows: 16, Cols: 16, Mines: 40},
	ExpertDifficulty:       {Name: ExpertDifficulty, Rows: 16, Cols: 30, Mines: 99},
}

// DifficultyByName - resolves one of the three fixed presets.
func DifficultyByName(name string) (Difficulty, error) {
	difficulty, ok := difficulties[name]
	if !ok {
		return Difficulty{}, fmt.Errorf("%w: %s", apperror.ErrUnknownDifficulty, name)
	}

	return difficulty, nil
}

// Cell - state of a single board position. NeighborMines is only meaningful
// once mine placement has completed.
type Cell struct {
	IsMine        bool `json:"mine"`
	IsRevealed    bool `json:"revealed"`
	IsFlagged     bool `json:"flagged"`
	NeighborMines int  `json:"neighbor_mines"`
}

// Board - a rows x cols grid of cells plus a running revealed counter.
type Board struct {
	Rows     int      `json:"rows"`
	Cols     int      `json:"cols"`
	Cells    [][]Cell `json:"cells"`
	Revealed int      `json:"revealed"`
}

// NewBoard - allocates a blank board with no mines placed.
func NewBoard(rows, cols int) *Board {
	cells := make([][]Cell, rows)
	for row := range cells {
		cells[row] = make([]Cell, cols)
	}

	return &Board{
		Rows:  rows,
		Cols:  cols,
		Cells: cells,
	}
}

func (that *Board) InBounds(row, col int) bool {
	return row >= 0 && row < that.Rows && col >= 0 && col < that.Cols
}

// At - returns the cell at the given position; nil when out of bounds.
func (that *Board) At(row, col int) *Cell {
	if !that.InBounds(row, col) {
		return nil
	}

	return &that.Cells[row][col]
}

// MineCount - counts cells carrying a mine.
func (that *Board) MineCount() int {
	count := 0
	for row := range that.Cells {
		for col := range that.Cells[row] {
			if that.Cells[row][col].IsMine {
				count++
			}
		}
	}

	return count
}

// Clone - deep copy, so a snapshot put on the wire never aliases live cells.
func (that *Board) Clone() *Board {
	clone := NewBoard(that.Rows, that.Cols)
	clone.Revealed = that.Revealed
	for row := range that.Cells {
		copy(clone.Cells[row], that.Cells[row])
	}

	return clone
}
