package ai

import (
	"math/rand"

	"github.com/gravityplay/gravity-backend/internal/entity"
	"github.com/gravityplay/gravity-backend/internal/game/chessadapter"
	"github.com/gravityplay/gravity-backend/internal/game/gogame"
	"github.com/gravityplay/gravity-backend/internal/game/renju"
)

const (
	renjuRandomProbes = 100
	goRandomProbes    = 50
	neighborhood      = 2
)

// HeuristicMove picks a legal move without any oracle: the local fallback
// used whenever the oracle is absent or its suggestion does not validate.
func HeuristicMove(state *entity.GameState) (entity.Move, bool) {
	switch state.Type {
	case entity.GameTypeRenju:
		return renjuHeuristic(state)
	case entity.GameTypeGo:
		return goHeuristic(state)
	case entity.GameTypeChess:
		return chessHeuristic(state)
	}
	return entity.Move{}, false
}

// renjuHeuristic plays center on an empty board, otherwise a random empty
// cell within two points of an existing stone, then random probes, then a
// full scan.
func renjuHeuristic(state *entity.GameState) (entity.Move, bool) {
	board := state.Renju.Board
	size := board.Size()

	hasStones := false
	for y := 0; y < size && !hasStones; y++ {
		for x := 0; x < size; x++ {
			if board[y][x] != entity.EmptyCell {
				hasStones = true
				break
			}
		}
	}
	if !hasStones {
		return entity.Move{X: size / 2, Y: size / 2}, true
	}

	candidates := make(map[[2]int]bool)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if board[y][x] == entity.EmptyCell {
				continue
			}
			for dy := -neighborhood; dy <= neighborhood; dy++ {
				for dx := -neighborhood; dx <= neighborhood; dx++ {
					nx, ny := x+dx, y+dy
					if board.InBounds(nx, ny) && board[ny][nx] == entity.EmptyCell {
						candidates[[2]int{nx, ny}] = true
					}
				}
			}
		}
	}

	legal := make([]entity.Move, 0, len(candidates))
	for c := range candidates {
		if renju.IsValidMove(state, c[0], c[1]) {
			legal = append(legal, entity.Move{X: c[0], Y: c[1]})
		}
	}
	if len(legal) > 0 {
		return legal[rand.Intn(len(legal))], true //nolint: gosec // it's ok
	}

	for i := 0; i < renjuRandomProbes; i++ {
		x, y := rand.Intn(size), rand.Intn(size) //nolint: gosec // it's ok
		if renju.IsValidMove(state, x, y) {
			return entity.Move{X: x, Y: y}, true
		}
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if renju.IsValidMove(state, x, y) {
				return entity.Move{X: x, Y: y}, true
			}
		}
	}

	return entity.Move{}, false
}

// goHeuristic probes random points, then scans each row from a random
// starting column, and passes when nothing is playable.
func goHeuristic(state *entity.GameState) (entity.Move, bool) {
	color := state.Go.CurrentPlayer
	size := state.Go.Board.Size()

	for i := 0; i < goRandomProbes; i++ {
		x, y := rand.Intn(size), rand.Intn(size) //nolint: gosec // it's ok
		if gogame.IsValidMove(state, x, y, color) {
			return entity.Move{X: x, Y: y}, true
		}
	}

	for y := 0; y < size; y++ {
		startX := rand.Intn(size) //nolint: gosec // it's ok
		for i := 0; i < size; i++ {
			x := (startX + i) % size
			if gogame.IsValidMove(state, x, y, color) {
				return entity.Move{X: x, Y: y}, true
			}
		}
	}

	return entity.Move{X: gogame.PassCoord, Y: gogame.PassCoord}, true
}

// chessHeuristic picks uniformly among the engine's legal moves.
func chessHeuristic(state *entity.GameState) (entity.Move, bool) {
	moves, err := chessadapter.LegalMoves(state.Chess.FEN)
	if err != nil || len(moves) == 0 {
		return entity.Move{}, false
	}

	move := moves[rand.Intn(len(moves))] //nolint: gosec // it's ok
	return entity.Move{From: move.From, To: move.To, Promotion: move.Promotion}, true
}
