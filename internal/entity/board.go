package entity

// Color of a side. Renju and Go use black/white directly; the chess adapter
// maps the engine's side-to-move onto the same two values.
type Color string

const (
	ColorBlack Color = "black"
	ColorWhite Color = "white"
)

func (that Color) Opposite() Color {
	if that == ColorBlack {
		return ColorWhite
	}
	return ColorBlack
}

// EmptyCell marks an unoccupied intersection.
const EmptyCell Color = ""

// Board is a square grid of stones indexed [y][x].
type Board [][]Color

func NewBoard(size int) Board {
	board := make(Board, size)
	for y := range board {
		board[y] = make([]Color, size)
	}
	return board
}

func (that Board) Size() int {
	return len(that)
}

func (that Board) InBounds(x, y int) bool {
	return x >= 0 && x < len(that) && y >= 0 && y < len(that)
}

// Clone returns a deep copy. Engines rely on this to keep historical
// snapshots independent from the live board.
func (that Board) Clone() Board {
	clone := make(Board, len(that))
	for y, row := range that {
		clone[y] = make([]Color, len(row))
		copy(clone[y], row)
	}
	return clone
}

func (that Board) Equal(other Board) bool {
	if len(that) != len(other) {
		return false
	}
	for y := range that {
		if len(that[y]) != len(other[y]) {
			return false
		}
		for x := range that[y] {
			if that[y][x] != other[y][x] {
				return false
			}
		}
	}
	return true
}

func (that Board) Full() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == EmptyCell {
				return false
			}
		}
	}
	return true
}
