// Package gogame implements 19x19 Go: liberties, captures, suicide
// prevention, single-step Ko and the double-pass end condition.
//
// Territory is not scored; a double pass always ends the game as a draw.
package gogame

import (
	"fmt"
	"time"

	"github.com/gravityplay/gravity-backend/internal/apperror"
	"github.com/gravityplay/gravity-backend/internal/entity"
)

const BoardSize = 19

// PassCoord in both x and y marks a pass move.
const PassCoord = -1

type point struct {
	x, y int
}

var neighborOffsets = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// NewState returns the initial Go state. Black always moves first.
func NewState() *entity.GameState {
	return &entity.GameState{
		Type:         entity.GameTypeGo,
		LastMoveTime: time.Now().UnixMilli(),
		Go: &entity.GoState{
			Board:         entity.NewBoard(BoardSize),
			CurrentPlayer: entity.ColorBlack,
			History:       []entity.StoneMove{},
		},
	}
}

// hasLiberties walks the connected same-color group containing (x, y) and
// reports whether any member touches an empty point.
func hasLiberties(board entity.Board, x, y int, color entity.Color, visited map[point]bool) bool {
	p := point{x, y}
	if visited[p] {
		return false
	}
	visited[p] = true

	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if !board.InBounds(nx, ny) {
			continue
		}
		switch board[ny][nx] {
		case entity.EmptyCell:
			return true
		case color:
			if hasLiberties(board, nx, ny, color, visited) {
				return true
			}
		}
	}

	return false
}

// group collects the coordinates of the connected same-color component
// containing (x, y), using the same four-neighbor adjacency as liberties.
func group(board entity.Board, x, y int, color entity.Color, visited map[point]bool) []point {
	p := point{x, y}
	if visited[p] {
		return nil
	}
	visited[p] = true

	stones := []point{p}
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if board.InBounds(nx, ny) && board[ny][nx] == color {
			stones = append(stones, group(board, nx, ny, color, visited)...)
		}
	}
	return stones
}

// removeCapturedNeighbors deletes every opponent group adjacent to (x, y)
// that has no liberties left and returns the number of stones removed.
func removeCapturedNeighbors(board entity.Board, x, y int, opponent entity.Color) int {
	captured := 0
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if !board.InBounds(nx, ny) || board[ny][nx] != opponent {
			continue
		}
		if hasLiberties(board, nx, ny, opponent, map[point]bool{}) {
			continue
		}
		for _, stone := range group(board, nx, ny, opponent, map[point]bool{}) {
			if board[stone.y][stone.x] != entity.EmptyCell {
				board[stone.y][stone.x] = entity.EmptyCell
				captured++
			}
		}
	}
	return captured
}

// IsValidMove reports whether color may play at (x, y). A pass is always
// valid. A placement must be in bounds on an empty point, must not be
// suicide, and a capturing move must not recreate the board exactly as it
// stood before the previous move (single-step Ko).
func IsValidMove(state *entity.GameState, x, y int, color entity.Color) bool {
	if state.Type != entity.GameTypeGo || state.Go == nil {
		return false
	}

	if x == PassCoord && y == PassCoord {
		return true
	}

	if !state.Go.Board.InBounds(x, y) {
		return false
	}
	if state.Go.Board[y][x] != entity.EmptyCell {
		return false
	}

	board := state.Go.Board.Clone()
	board[y][x] = color
	opponent := color.Opposite()

	capturesAny := false
	for _, off := range neighborOffsets {
		nx, ny := x+off[0], y+off[1]
		if board.InBounds(nx, ny) && board[ny][nx] == opponent &&
			!hasLiberties(board, nx, ny, opponent, map[point]bool{}) {
			capturesAny = true
			break
		}
	}

	if !capturesAny {
		// No capture: the mover's own group must keep a liberty.
		return hasLiberties(board, x, y, color, map[point]bool{})
	}

	if state.Go.PreviousBoard != nil {
		removeCapturedNeighbors(board, x, y, opponent)
		if board.Equal(state.Go.PreviousBoard) {
			return false // Ko
		}
	}

	return true
}

// ApplyMove returns a new state with the move applied. Callers must check
// IsValidMove first; ApplyMove resolves captures but does not re-validate
// suicide or Ko. A pass switches the side to move and two consecutive
// passes end the game as a draw.
func ApplyMove(state *entity.GameState, x, y int, color entity.Color, duration int64) (*entity.GameState, error) {
	if state.Type != entity.GameTypeGo || state.Go == nil {
		return nil, fmt.Errorf("%w: expected %s state", apperror.ErrUnknownGameType, entity.GameTypeGo)
	}

	history := make([]entity.StoneMove, 0, len(state.Go.History)+1)
	history = append(history, state.Go.History...)
	history = append(history, entity.StoneMove{X: x, Y: y, Color: color, Duration: duration})

	if x == PassCoord && y == PassCoord {
		passes := state.Go.Passes + 1

		var winner entity.Winner
		if passes >= 2 {
			winner = entity.WinnerDraw
		}

		return &entity.GameState{
			Type:         entity.GameTypeGo,
			Winner:       winner,
			LastMoveTime: time.Now().UnixMilli(),
			Go: &entity.GoState{
				Board:         state.Go.Board.Clone(),
				CurrentPlayer: color.Opposite(),
				History:       history,
				Captured:      state.Go.Captured,
				PreviousBoard: state.Go.Board.Clone(),
				Passes:        passes,
			},
		}, nil
	}

	board := state.Go.Board.Clone()
	board[y][x] = color
	capturedCount := removeCapturedNeighbors(board, x, y, color.Opposite())

	captured := state.Go.Captured
	if color == entity.ColorBlack {
		captured.Black += capturedCount
	} else {
		captured.White += capturedCount
	}

	return &entity.GameState{
		Type:         entity.GameTypeGo,
		LastMoveTime: time.Now().UnixMilli(),
		Go: &entity.GoState{
			Board:         board,
			CurrentPlayer: color.Opposite(),
			History:       history,
			Captured:      captured,
			PreviousBoard: state.Go.Board.Clone(),
			Passes:        0,
		},
	}, nil
}
