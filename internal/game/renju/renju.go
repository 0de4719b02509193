// Package renju implements the 15x15 five-in-a-row rules.
//
// Forbidden-move rules for black (double-open-three, double-four) are not
// implemented; an overline counts as a non-win for black rather than a loss.
package renju

import (
	"fmt"
	"time"

	"github.com/gravityplay/gravity-backend/internal/apperror"
	"github.com/gravityplay/gravity-backend/internal/entity"
)

const BoardSize = 15

var directions = [4][2]int{
	{1, 0},  // horizontal
	{0, 1},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// NewState returns the initial Renju state. Black always moves first.
func NewState() *entity.GameState {
	return &entity.GameState{
		Type:         entity.GameTypeRenju,
		LastMoveTime: time.Now().UnixMilli(),
		Renju: &entity.RenjuState{
			Board:         entity.NewBoard(BoardSize),
			CurrentPlayer: entity.ColorBlack,
			History:       []entity.StoneMove{},
		},
	}
}

// IsValidMove reports whether placing at (x, y) is legal in the given state.
func IsValidMove(state *entity.GameState, x, y int) bool {
	if state.Type != entity.GameTypeRenju || state.Renju == nil {
		return false
	}
	if state.Finished() {
		return false
	}
	if !state.Renju.Board.InBounds(x, y) {
		return false
	}
	return state.Renju.Board[y][x] == entity.EmptyCell
}

// ApplyMove returns a new state with the stone placed, the move appended to
// history and the side to move switched. Win detection is a separate step:
// the orchestrator calls CheckWin on the returned board.
func ApplyMove(state *entity.GameState, x, y int, color entity.Color, duration int64) (*entity.GameState, error) {
	if state.Type != entity.GameTypeRenju || state.Renju == nil {
		return nil, fmt.Errorf("%w: expected %s state", apperror.ErrUnknownGameType, entity.GameTypeRenju)
	}
	if !IsValidMove(state, x, y) {
		return nil, apperror.ErrInvalidMove
	}

	board := state.Renju.Board.Clone()
	board[y][x] = color

	history := make([]entity.StoneMove, 0, len(state.Renju.History)+1)
	history = append(history, state.Renju.History...)
	history = append(history, entity.StoneMove{X: x, Y: y, Color: color, Duration: duration})

	return &entity.GameState{
		Type:         entity.GameTypeRenju,
		Winner:       state.Winner,
		LastMoveTime: time.Now().UnixMilli(),
		Renju: &entity.RenjuState{
			Board:         board,
			CurrentPlayer: color.Opposite(),
			History:       history,
		},
	}, nil
}

// CheckWin inspects the four lines through the last move at (x, y). White
// wins on a run of five or more; black only on a run of exactly five, so a
// black overline is reported as no win. A full board with no winning line
// is a draw.
func CheckWin(board entity.Board, x, y int, color entity.Color) entity.Winner {
	for _, dir := range directions {
		count := 1
		count += countDirection(board, x, y, dir[0], dir[1], color)
		count += countDirection(board, x, y, -dir[0], -dir[1], color)

		if color == entity.ColorWhite {
			if count >= 5 {
				return entity.Winner(entity.ColorWhite)
			}
		} else if count == 5 {
			return entity.Winner(entity.ColorBlack)
		}
	}

	if board.Full() {
		return entity.WinnerDraw
	}

	return ""
}

func countDirection(board entity.Board, x, y, dx, dy int, color entity.Color) int {
	count := 0
	for i := 1; ; i++ {
		nx, ny := x+dx*i, y+dy*i
		if !board.InBounds(nx, ny) || board[ny][nx] != color {
			break
		}
		count++
	}
	return count
}
