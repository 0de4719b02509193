package entity

const (
	GameTypeRenju GameType = "renju"
	GameTypeChess GameType = "chess"
	GameTypeGo    GameType = "go"
)

type GameType string

func (that GameType) Valid() bool {
	switch that {
	case GameTypeRenju, GameTypeChess, GameTypeGo:
		return true
	}
	return false
}

// Winner of a finished game: a color, WinnerDraw, or empty while the game
// is still running.
type Winner string

const WinnerDraw Winner = "draw"

// StoneMove is one Renju or Go move. A Go pass is recorded as x=-1, y=-1.
// Duration is the mover's thinking time in milliseconds.
type StoneMove struct {
	X        int   `json:"x"`
	Y        int   `json:"y"`
	Color    Color `json:"color"`
	Duration int64 `json:"duration"`
}

// ChessMove is one chess move in algebraic notation.
type ChessMove struct {
	SAN      string `json:"san"`
	Duration int64  `json:"duration"`
}

type RenjuState struct {
	Board         Board       `json:"board"`
	CurrentPlayer Color       `json:"currentPlayer"`
	History       []StoneMove `json:"history"`
}

type GoState struct {
	Board         Board       `json:"board"`
	CurrentPlayer Color       `json:"currentPlayer"`
	History       []StoneMove `json:"history"`
	Captured      Captures    `json:"captured"`
	// PreviousBoard is the snapshot taken before the last stone was placed,
	// compared against for the single-step Ko rule.
	PreviousBoard Board `json:"previousBoard,omitempty"`
	Passes        int   `json:"passes"`
}

// Captures counts stones captured BY each color.
type Captures struct {
	Black int `json:"black"`
	White int `json:"white"`
}

type ChessState struct {
	FEN     string      `json:"fen"`
	Turn    Color       `json:"turn"`
	InCheck bool        `json:"inCheck"`
	History []ChessMove `json:"history"`
}

// GameState is a tagged union: exactly one variant pointer matching Type is
// non-nil. Engines validate the tag before touching a variant. Accepted
// moves always produce a fresh GameState value; committed states are never
// mutated.
type GameState struct {
	Type         GameType    `json:"type"`
	Winner       Winner      `json:"winner,omitempty"`
	LastMoveTime int64       `json:"lastMoveTime"`
	Renju        *RenjuState `json:"renju,omitempty"`
	Go           *GoState    `json:"go,omitempty"`
	Chess        *ChessState `json:"chess,omitempty"`
}

func (that *GameState) Finished() bool {
	return that.Winner != ""
}

// CurrentColor reports the side to move regardless of variant.
func (that *GameState) CurrentColor() Color {
	switch that.Type {
	case GameTypeRenju:
		if that.Renju != nil {
			return that.Renju.CurrentPlayer
		}
	case GameTypeGo:
		if that.Go != nil {
			return that.Go.CurrentPlayer
		}
	case GameTypeChess:
		if that.Chess != nil {
			return that.Chess.Turn
		}
	}
	return ""
}
