package engine

import (
	"sync/atomic"

	"github.com/neptune-chess/neptune/internal/board"
)

// Search constants
const (
	// MateScore is the magnitude of a checkmate found with no depth left.
	// Mates found with depth remaining score MateScore+depth, so nearer
	// mates are preferred.
	MateScore = 100000

	// MaxDepth bounds the configured search depth.
	MaxDepth = 8
)

// Minimax searches pos to a fixed depth with c to move and returns the
// White-positive score. The maximizing side prefers higher scores; callers
// pick it at the root and it alternates every ply.
//
// Depth 0 (or less) is exactly Evaluate. A side with no legal moves at depth > 0 is
// either checkmated, scored MateScore+depth in favor of its opponent, or
// stalemated, scored 0.
func Minimax(pos *board.Position, c board.Color, depth int, maximizing bool) int {
	return minimax(pos, c, depth, maximizing, nil)
}

// minimax is Minimax with an optional node counter shared by concurrent
// root branches.
func minimax(pos *board.Position, c board.Color, depth int, maximizing bool, nodes *atomic.Uint64) int {
	if nodes != nil {
		nodes.Add(1)
	}
	if depth <= 0 {
		return Evaluate(pos)
	}

	moves := pos.GenerateLegalMoves(c)
	if len(moves) == 0 {
		return terminalScore(pos, c, depth, maximizing)
	}

	best := -MateScore * 2
	if !maximizing {
		best = MateScore * 2
	}
	for _, m := range moves {
		child := pos.Clone()
		child.MakeMove(m, c)
		score := minimax(&child, c.Other(), depth-1, !maximizing, nodes)
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}

// terminalScore scores a node where c has no legal move.
func terminalScore(pos *board.Position, c board.Color, depth int, maximizing bool) int {
	if !pos.InCheck(c) {
		return 0
	}
	if maximizing {
		return -(MateScore + depth)
	}
	return MateScore + depth
}

// IsMateScore reports whether score comes from a forced checkmate.
func IsMateScore(score int) bool {
	return abs(score) >= MateScore
}

// MatePlies returns the number of plies from the root to the mate behind
// score, for a search started at rootDepth.
func MatePlies(score, rootDepth int) (int, bool) {
	if !IsMateScore(score) {
		return 0, false
	}
	return rootDepth - (abs(score) - MateScore), true
}

// abs returns the absolute value of an integer.
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
