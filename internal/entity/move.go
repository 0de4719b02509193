package entity

// Move is a game-type-specific move payload. Renju and Go use X/Y (Go
// accepts -1/-1 as a pass); chess uses From/To plus an optional promotion
// piece. The room's game type decides which fields are read.
type Move struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
}
