package minesweeper

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
)

// buildBoard - a handcrafted board with mines at the given positions and
// brute-force neighbor counts, so engine tests do not depend on Generate.
func buildBoard(t *testing.T, rows, cols int, mines [][2]int) *entity.Board {
	t.Helper()

	board := entity.NewBoard(rows, cols)
	for _, mine := range mines {
		board.Cells[mine[0]][mine[1]].IsMine = true
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if board.Cells[row][col].IsMine {
				continue
			}
			count := 0
			for dRow := -1; dRow <= 1; dRow++ {
				for dCol := -1; dCol <= 1; dCol++ {
					if dRow == 0 && dCol == 0 {
						continue
					}
					if board.InBounds(row+dRow, col+dCol) && board.Cells[row+dRow][col+dCol].IsMine {
						count++
					}
				}
			}
			board.Cells[row][col].NeighborMines = count
		}
	}

	return board
}

func TestGenerate(t *testing.T) {
	presets := []string{entity.BeginnerDifficulty, entity.IntermediateDifficulty, entity.ExpertDifficulty}

	for _, name := range presets {
		t.Run("Places exactly the preset mine quota for "+name, func(t *testing.T) {
			// Given: a preset and a fixed random source
			difficulty, err := entity.DifficultyByName(name)
			require.NoError(t, err)
			rng := rand.New(rand.NewSource(42)) //nolint: gosec // deterministic test layout

			// When: generating a board excluding (0, 0)
			board := Generate(difficulty, 0, 0, rng)

			// Then: exactly Mines mines exist and the excluded cell is clear
			assert.Equal(t, difficulty.Mines, board.MineCount())
			assert.False(t, board.Cells[0][0].IsMine)
		})
	}

	t.Run("Never places a mine on the excluded cell", func(t *testing.T) {
		// Given: the beginner preset
		difficulty, err := entity.DifficultyByName(entity.BeginnerDifficulty)
		require.NoError(t, err)

		// When: generating many boards excluding (4, 4)
		for seed := int64(0); seed < 50; seed++ {
			rng := rand.New(rand.NewSource(seed)) //nolint: gosec // deterministic test layout
			board := Generate(difficulty, 4, 4, rng)

			// Then: the excluded cell is never mined
			assert.False(t, board.Cells[4][4].IsMine, "seed %d mined the excluded cell", seed)
		}
	})

	t.Run("Neighbor counts match a brute-force recount", func(t *testing.T) {
		// Given: a generated expert board
		difficulty, err := entity.DifficultyByName(entity.ExpertDifficulty)
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(7)) //nolint: gosec // deterministic test layout
		board := Generate(difficulty, 8, 15, rng)

		// When/Then: every non-mine cell agrees with an independent 8-neighbor count
		for row := 0; row < board.Rows; row++ {
			for col := 0; col < board.Cols; col++ {
				if board.Cells[row][col].IsMine {
					continue
				}
				expected := 0
				for dRow := -1; dRow <= 1; dRow++ {
					for dCol := -1; dCol <= 1; dCol++ {
						if dRow == 0 && dCol == 0 {
							continue
						}
						if board.InBounds(row+dRow, col+dCol) && board.Cells[row+dRow][col+dCol].IsMine {
							expected++
						}
					}
				}
				require.Equal(t, expected, board.Cells[row][col].NeighborMines, "cell (%d, %d)", row, col)
			}
		}
	})

	t.Run("Same seed yields the same board", func(t *testing.T) {
		// Given: two generators with the same seed
		difficulty, err := entity.DifficultyByName(entity.IntermediateDifficulty)
		require.NoError(t, err)
		first := Generate(difficulty, 3, 3, rand.New(rand.NewSource(99)))  //nolint: gosec // deterministic test layout
		second := Generate(difficulty, 3, 3, rand.New(rand.NewSource(99))) //nolint: gosec // deterministic test layout

		// Then: the layouts are identical
		assert.Equal(t, first, second)
	})
}

func TestReveal(t *testing.T) {
	t.Run("Out of bounds reveal changes nothing", func(t *testing.T) {
		// Given: a small board with one mine
		board := buildBoard(t, 3, 3, [][2]int{{2, 2}})

		// When: revealing outside the grid
		outcome := Reveal(board, -1, 5)

		// Then: it is a silent no-op
		assert.Equal(t, RevealNoChange, outcome)
		assert.Equal(t, 0, board.Revealed)
	})

	t.Run("Revealing a revealed cell is idempotent", func(t *testing.T) {
		// Given: a board with a revealed cell
		board := buildBoard(t, 3, 3, [][2]int{{2, 2}})
		require.Equal(t, RevealSafe, Reveal(board, 2, 0))
		revealedBefore := board.Revealed

		// When: revealing the same cell again
		outcome := Reveal(board, 2, 0)

		// Then: nothing changes
		assert.Equal(t, RevealNoChange, outcome)
		assert.Equal(t, revealedBefore, board.Revealed)
	})

	t.Run("Revealing a flagged cell changes nothing", func(t *testing.T) {
		// Given: a flagged cell
		board := buildBoard(t, 3, 3, [][2]int{{2, 2}})
		_, changed := ToggleFlag(board, 1, 1)
		require.True(t, changed)

		// When: revealing it
		outcome := Reveal(board, 1, 1)

		// Then: it stays hidden
		assert.Equal(t, RevealNoChange, outcome)
		assert.False(t, board.Cells[1][1].IsRevealed)
	})

	t.Run("Revealing a mine discloses every mine", func(t *testing.T) {
		// Given: a board with mines in two corners
		board := buildBoard(t, 4, 4, [][2]int{{0, 0}, {3, 3}})

		// When: revealing one of them
		outcome := Reveal(board, 0, 0)

		// Then: the outcome is a loss and all mines are shown
		assert.Equal(t, RevealMine, outcome)
		assert.True(t, board.Cells[0][0].IsRevealed)
		assert.True(t, board.Cells[3][3].IsRevealed)
	})

	t.Run("Flood fill reveals the zero region and its border ring exactly once", func(t *testing.T) {
		// Given: a 4x4 board whose only mine sits in the corner; every cell
		// outside the mine's neighborhood has a zero count
		board := buildBoard(t, 4, 4, [][2]int{{3, 3}})

		// When: revealing a zero cell far from the mine
		outcome := Reveal(board, 0, 0)

		// Then: every non-mine cell is revealed, the mine is not, and the
		// revealed counter saw each cell exactly once
		assert.Equal(t, RevealSafe, outcome)
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				if row == 3 && col == 3 {
					assert.False(t, board.Cells[row][col].IsRevealed, "mine must stay hidden")
					continue
				}
				assert.True(t, board.Cells[row][col].IsRevealed, "cell (%d, %d)", row, col)
			}
		}
		assert.Equal(t, 15, board.Revealed)
	})

	t.Run("Flood fill does not spill past a non-zero border", func(t *testing.T) {
		// Given: a 5x5 board with a mine wall splitting the grid
		board := buildBoard(t, 5, 5, [][2]int{{0, 2}, {1, 2}, {2, 2}, {3, 2}, {4, 2}})

		// When: revealing a zero cell on the left side
		require.Equal(t, RevealSafe, Reveal(board, 0, 0))

		// Then: the right side stays hidden
		for row := 0; row < 5; row++ {
			assert.False(t, board.Cells[row][4].IsRevealed, "row %d leaked past the wall", row)
		}
	})
}

func TestToggleFlag(t *testing.T) {
	t.Run("Toggles a hidden cell back and forth", func(t *testing.T) {
		// Given: a blank board
		board := buildBoard(t, 3, 3, [][2]int{{0, 0}})

		// When: flagging and unflagging the same cell
		flagged, changed := ToggleFlag(board, 1, 1)
		require.True(t, changed)
		require.True(t, flagged)

		flagged, changed = ToggleFlag(board, 1, 1)

		// Then: the flag is gone
		assert.True(t, changed)
		assert.False(t, flagged)
	})

	t.Run("Refuses revealed and out-of-bounds cells", func(t *testing.T) {
		// Given: a board with a revealed cell
		board := buildBoard(t, 3, 3, [][2]int{{0, 0}})
		require.Equal(t, RevealSafe, Reveal(board, 2, 2))

		// When/Then: neither the revealed cell nor an outside cell toggles
		_, changed := ToggleFlag(board, 2, 2)
		assert.False(t, changed)

		_, changed = ToggleFlag(board, 9, 9)
		assert.False(t, changed)
	})
}

func TestCheckWin(t *testing.T) {
	t.Run("Win requires every non-mine cell revealed, flags are irrelevant", func(t *testing.T) {
		// Given: a 3x3 board with one flagged mine
		difficulty := entity.Difficulty{Name: "test", Rows: 3, Cols: 3, Mines: 1}
		board := buildBoard(t, 3, 3, [][2]int{{1, 1}})
		_, changed := ToggleFlag(board, 1, 1)
		require.True(t, changed)

		// When: revealing all remaining cells one by one
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				if row == 1 && col == 1 {
					continue
				}
				Reveal(board, row, col)
			}
		}

		// Then: the win condition holds
		assert.True(t, CheckWin(board, difficulty))
	})

	t.Run("No win while a safe cell stays hidden", func(t *testing.T) {
		// Given: a fresh board
		difficulty := entity.Difficulty{Name: "test", Rows: 3, Cols: 3, Mines: 1}
		board := buildBoard(t, 3, 3, [][2]int{{1, 1}})

		// Then: nothing revealed means no win
		assert.False(t, CheckWin(board, difficulty))
	})
}
