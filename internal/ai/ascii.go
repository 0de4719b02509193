package ai

import (
	"fmt"
	"strings"

	"github.com/gravityplay/gravity-backend/internal/entity"
)

const (
	renjuColumns = "A B C D E F G H I J K L M N O"
	goColumns    = "A B C D E F G H J K L M N O P Q R S T" // Go skips the I column
)

// boardToASCII renders a stone board for the oracle prompt. Rows are
// labeled top-down, so row 0 carries the highest number.
func boardToASCII(board entity.Board, columns string) string {
	var sb strings.Builder
	sb.WriteString("   " + columns + "\n")
	size := board.Size()
	for y := 0; y < size; y++ {
		fmt.Fprintf(&sb, "%2d ", size-y)
		for x := 0; x < size; x++ {
			switch board[y][x] {
			case entity.ColorBlack:
				sb.WriteString("X ")
			case entity.ColorWhite:
				sb.WriteString("O ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func colorLabel(color entity.Color) string {
	if color == entity.ColorBlack {
		return "Black (X)"
	}
	return "White (O)"
}
