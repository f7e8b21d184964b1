// Package engine implements the fixed-depth minimax search.
package engine

import (
	"github.com/neptune-chess/neptune/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
)

// Piece values array for quick lookup. The king has no material value.
var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, 0}

// Evaluate returns the material balance of pos in centipawns. Positive
// favors White regardless of who is to move.
func Evaluate(pos *board.Position) int {
	score := 0
	for pt := board.Pawn; pt <= board.Queen; pt++ {
		score += pieceValues[pt] * (pos.Pieces[board.White][pt].PopCount() - pos.Pieces[board.Black][pt].PopCount())
	}
	return score
}
