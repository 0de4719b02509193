// Package chessadapter is a thin wrapper over the notnil/chess engine. All
// chess legality, terminal detection and position serialization is
// delegated to the engine; this package only maps its API onto the shared
// GameState model.
package chessadapter

import (
	"fmt"
	"time"

	"github.com/notnil/chess"

	"github.com/gravityplay/gravity-backend/internal/apperror"
	"github.com/gravityplay/gravity-backend/internal/entity"
)

// Move is the wire shape of a chess move: coordinate squares plus an
// optional promotion piece letter ("q", "r", "b", "n").
type Move struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

func (that Move) uci() string {
	return that.From + that.To + that.Promotion
}

// NewState returns the starting chess position.
func NewState() *entity.GameState {
	game := chess.NewGame()
	return &entity.GameState{
		Type:         entity.GameTypeChess,
		LastMoveTime: time.Now().UnixMilli(),
		Chess: &entity.ChessState{
			FEN:     game.Position().String(),
			Turn:    entity.ColorWhite,
			History: []entity.ChessMove{},
		},
	}
}

func gameFromFEN(fen string) (*chess.Game, error) {
	option, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("failed to parse position: %w", err)
	}
	return chess.NewGame(option), nil
}

// IsValidMove reports whether the move is legal in the given position.
func IsValidMove(fen string, move Move) bool {
	game, err := gameFromFEN(fen)
	if err != nil {
		return false
	}
	decoded, err := chess.UCINotation{}.Decode(game.Position(), move.uci())
	if err != nil {
		return false
	}
	return game.Move(decoded) == nil
}

// ApplyMove delegates the move to the engine and returns a new state with
// SAN history, side to move, check flag and winner refreshed. An illegal
// move returns ErrInvalidMove and leaves the input state untouched.
func ApplyMove(state *entity.GameState, move Move, duration int64) (*entity.GameState, error) {
	if state.Type != entity.GameTypeChess || state.Chess == nil {
		return nil, fmt.Errorf("%w: expected %s state", apperror.ErrUnknownGameType, entity.GameTypeChess)
	}

	game, err := gameFromFEN(state.Chess.FEN)
	if err != nil {
		return nil, err
	}

	position := game.Position()
	decoded, err := chess.UCINotation{}.Decode(position, Move{From: move.From, To: move.To, Promotion: move.Promotion}.uci())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidMove, err)
	}

	// The raw UCI decode carries no check or mate tags. Resolve the move
	// against the engine's legal-move list, whose copies do, so the SAN
	// keeps its "+"/"#" suffix and the check flag is trustworthy.
	tagged := matchValidMove(game, decoded)
	if tagged == nil {
		return nil, fmt.Errorf("%w: %s is not legal here", apperror.ErrInvalidMove, move.uci())
	}

	san := chess.AlgebraicNotation{}.Encode(position, tagged)

	moverColor := colorOf(position.Turn())
	if err = game.Move(tagged); err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrInvalidMove, err)
	}

	var winner entity.Winner
	if game.Outcome() != chess.NoOutcome {
		if game.Method() == chess.Checkmate {
			winner = entity.Winner(moverColor)
		} else {
			// Stalemate, insufficient material, repetition, move-count:
			// the engine reports game over, we report a draw.
			winner = entity.WinnerDraw
		}
	}

	history := make([]entity.ChessMove, 0, len(state.Chess.History)+1)
	history = append(history, state.Chess.History...)
	history = append(history, entity.ChessMove{SAN: san, Duration: duration})

	return &entity.GameState{
		Type:         entity.GameTypeChess,
		Winner:       winner,
		LastMoveTime: time.Now().UnixMilli(),
		Chess: &entity.ChessState{
			FEN:     game.Position().String(),
			Turn:    colorOf(game.Position().Turn()),
			InCheck: tagged.HasTag(chess.Check),
			History: history,
		},
	}, nil
}

// LegalMoves lists every legal move in the position, for the heuristic
// fallback.
func LegalMoves(fen string) ([]Move, error) {
	game, err := gameFromFEN(fen)
	if err != nil {
		return nil, err
	}

	valid := game.ValidMoves()
	moves := make([]Move, 0, len(valid))
	for _, mv := range valid {
		move := Move{From: mv.S1().String(), To: mv.S2().String()}
		if mv.Promo() != chess.NoPieceType {
			move.Promotion = mv.Promo().String()
		}
		moves = append(moves, move)
	}
	return moves, nil
}

// SANMoves lists every legal move in algebraic notation, for the oracle
// prompt.
func SANMoves(fen string) ([]string, error) {
	game, err := gameFromFEN(fen)
	if err != nil {
		return nil, err
	}

	position := game.Position()
	notation := chess.AlgebraicNotation{}
	moves := make([]string, 0, len(game.ValidMoves()))
	for _, mv := range game.ValidMoves() {
		moves = append(moves, notation.Encode(position, mv))
	}
	return moves, nil
}

// MoveFromSAN resolves an algebraic-notation suggestion against the
// position. Malformed or illegal notation returns an error.
func MoveFromSAN(fen, san string) (Move, error) {
	game, err := gameFromFEN(fen)
	if err != nil {
		return Move{}, err
	}

	decoded, err := chess.AlgebraicNotation{}.Decode(game.Position(), san)
	if err != nil {
		return Move{}, fmt.Errorf("%w: %s", apperror.ErrInvalidMove, err)
	}

	move := Move{From: decoded.S1().String(), To: decoded.S2().String()}
	if decoded.Promo() != chess.NoPieceType {
		move.Promotion = decoded.Promo().String()
	}
	return move, nil
}

// matchValidMove finds the engine's own copy of the move, which carries
// the check, mate and capture tags a plain notation decode lacks.
func matchValidMove(game *chess.Game, decoded *chess.Move) *chess.Move {
	for _, mv := range game.ValidMoves() {
		if mv.S1() == decoded.S1() && mv.S2() == decoded.S2() && mv.Promo() == decoded.Promo() {
			return mv
		}
	}
	return nil
}

func colorOf(turn chess.Color) entity.Color {
	if turn == chess.White {
		return entity.ColorWhite
	}
	return entity.ColorBlack
}
