package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gravityplay/gravity-backend/internal/entity"
	"github.com/gravityplay/gravity-backend/internal/game/chessadapter"
	"github.com/gravityplay/gravity-backend/internal/game/gogame"
	"github.com/gravityplay/gravity-backend/internal/game/renju"
)

// Advisor produces moves for automated players: oracle first when one is
// configured, local heuristic otherwise. Oracle failures are logged and
// swallowed; the advisor never surfaces them to a room.
type Advisor struct {
	logger *slog.Logger
	oracle Oracle
}

// NewAdvisor builds an advisor. A nil oracle means heuristic-only play.
func NewAdvisor(logger *slog.Logger, oracle Oracle) *Advisor {
	return &Advisor{
		logger: logger.With("component", "advisor"),
		oracle: oracle,
	}
}

// SuggestMove returns a validated move for the side to play, or ok=false
// when no move exists at all.
func (that *Advisor) SuggestMove(ctx context.Context, state *entity.GameState) (entity.Move, bool) {
	if that.oracle != nil {
		if move, ok := that.oracleMove(ctx, state); ok {
			return move, true
		}
	}
	return HeuristicMove(state)
}

func (that *Advisor) oracleMove(ctx context.Context, state *entity.GameState) (entity.Move, bool) {
	log := that.logger.With("method", "oracleMove", "gameType", state.Type)

	prompt, err := buildPrompt(state)
	if err != nil {
		log.Error("failed to build prompt", "error", err)
		return entity.Move{}, false
	}

	raw, err := that.oracle.GenerateMove(ctx, prompt)
	if err != nil {
		log.Warn("oracle call failed, falling back to heuristic", "error", err)
		return entity.Move{}, false
	}

	move, ok := that.parseSuggestion(state, raw)
	if !ok {
		log.Warn("oracle suggestion rejected, falling back to heuristic", "suggestion", raw)
	}
	return move, ok
}

func buildPrompt(state *entity.GameState) (string, error) {
	switch state.Type {
	case entity.GameTypeRenju:
		return renjuInstruction +
			"\nCurrent Board:\n" + boardToASCII(state.Renju.Board, renjuColumns) +
			"\nYou are playing: " + colorLabel(state.Renju.CurrentPlayer), nil
	case entity.GameTypeGo:
		return goInstruction +
			"\nCurrent Board:\n" + boardToASCII(state.Go.Board, goColumns) +
			"\nYou are playing: " + colorLabel(state.Go.CurrentPlayer), nil
	case entity.GameTypeChess:
		sans, err := chessadapter.SANMoves(state.Chess.FEN)
		if err != nil {
			return "", err
		}
		return chessInstruction +
			"\nCurrent State:\nFEN: " + state.Chess.FEN +
			"\nValid Moves: " + strings.Join(sans, ", "), nil
	}
	return "", fmt.Errorf("unknown game type %q", state.Type)
}

// parseSuggestion decodes the oracle's reply and revalidates it against
// the engine. Anything malformed or illegal is discarded.
func (that *Advisor) parseSuggestion(state *entity.GameState, raw string) (entity.Move, bool) {
	switch state.Type {
	case entity.GameTypeRenju:
		move, ok := parseCoordJSON(raw)
		if !ok || !renju.IsValidMove(state, move.X, move.Y) {
			return entity.Move{}, false
		}
		return move, true
	case entity.GameTypeGo:
		move, ok := parseCoordJSON(raw)
		if !ok || !gogame.IsValidMove(state, move.X, move.Y, state.Go.CurrentPlayer) {
			return entity.Move{}, false
		}
		return move, true
	case entity.GameTypeChess:
		san := strings.Trim(strings.TrimSpace(raw), `"'`)
		resolved, err := chessadapter.MoveFromSAN(state.Chess.FEN, san)
		if err != nil {
			return entity.Move{}, false
		}
		return entity.Move{From: resolved.From, To: resolved.To, Promotion: resolved.Promotion}, true
	}
	return entity.Move{}, false
}

// parseCoordJSON extracts the first {...} object from the reply; oracles
// occasionally wrap the JSON in prose or markdown fences.
func parseCoordJSON(raw string) (entity.Move, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return entity.Move{}, false
	}

	var move struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &move); err != nil {
		return entity.Move{}, false
	}
	return entity.Move{X: move.X, Y: move.Y}, true
}
