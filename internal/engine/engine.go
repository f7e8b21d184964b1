package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neptune-chess/neptune/internal/board"
)

// ErrNoLegalMoves is returned by BestMove when the side to move is
// checkmated or stalemated.
var ErrNoLegalMoves = errors.New("no legal moves")

// DefaultDepth is the search depth used when none is configured.
const DefaultDepth = 3

// SearchInfo contains information about the finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Engine is the chess AI engine.
type Engine struct {
	// Depth is the fixed search depth in plies, clamped to 1..MaxDepth.
	Depth int

	// Parallel searches root moves concurrently, one goroutine per move up
	// to GOMAXPROCS. Results are identical to the sequential search.
	Parallel bool

	// Callbacks
	OnInfo func(SearchInfo)

	nodes atomic.Uint64
}

// NewEngine creates a new chess engine searching to depth plies.
func NewEngine(depth int) *Engine {
	return &Engine{Depth: depth}
}

// EffectiveDepth is the depth BestMove searches: Depth clamped to
// 1..MaxDepth, with DefaultDepth for unset values.
func (e *Engine) EffectiveDepth() int {
	switch {
	case e.Depth < 1:
		return DefaultDepth
	case e.Depth > MaxDepth:
		return MaxDepth
	}
	return e.Depth
}

// Nodes returns the number of nodes visited by the last search.
func (e *Engine) Nodes() uint64 {
	return e.nodes.Load()
}

// BestMove searches pos with c to move and returns the best move with its
// White-positive score. White maximizes, Black minimizes. Among equal
// scores the move generated first wins.
//
// The context is checked before each root move; a cancelled search returns
// the context's error.
func (e *Engine) BestMove(ctx context.Context, pos *board.Position, c board.Color) (board.Move, int, error) {
	moves := pos.GenerateLegalMoves(c)
	if len(moves) == 0 {
		if pos.InCheck(c) {
			return board.NoMove, 0, fmt.Errorf("%w: %v is checkmated", ErrNoLegalMoves, c)
		}
		return board.NoMove, 0, fmt.Errorf("%w: %v is stalemated", ErrNoLegalMoves, c)
	}

	e.nodes.Store(0)
	startTime := time.Now()
	depth := e.EffectiveDepth()
	maximizing := c == board.White

	scores, err := e.scoreRootMoves(ctx, pos, c, moves, depth, maximizing)
	if err != nil {
		return board.NoMove, 0, err
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if (maximizing && scores[i] > scores[best]) || (!maximizing && scores[i] < scores[best]) {
			best = i
		}
	}

	if e.OnInfo != nil {
		e.OnInfo(SearchInfo{
			Depth: depth,
			Score: scores[best],
			Nodes: e.nodes.Load(),
			Time:  time.Since(startTime),
			Move:  moves[best],
		})
	}
	return moves[best], scores[best], nil
}

// scoreRootMoves returns the minimax score below each root move, in the
// order of moves.
func (e *Engine) scoreRootMoves(ctx context.Context, pos *board.Position, c board.Color, moves board.MoveList, depth int, maximizing bool) ([]int, error) {
	scores := make([]int, len(moves))
	e.nodes.Add(1)

	if !e.Parallel {
		for i, m := range moves {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			child := pos.Clone()
			child.MakeMove(m, c)
			scores[i] = minimax(&child, c.Other(), depth-1, !maximizing, &e.nodes)
		}
		return scores, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range moves {
		child := pos.Clone()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			child.MakeMove(m, c)
			scores[i] = minimax(&child, c.Other(), depth-1, !maximizing, &e.nodes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return Evaluate(pos)
}

// Perft performs a perft test (for debugging move generation). With
// Parallel set the root moves are counted concurrently.
func (e *Engine) Perft(pos *board.Position, c board.Color, depth int) uint64 {
	if !e.Parallel || depth < 2 {
		return board.Perft(pos, c, depth)
	}
	var nodes uint64
	for _, entry := range e.Divide(pos, c, depth) {
		nodes += entry.Nodes
	}
	return nodes
}

// Divide returns the perft count below each root move in generation order.
func (e *Engine) Divide(pos *board.Position, c board.Color, depth int) []board.DivideEntry {
	if !e.Parallel || depth < 2 {
		return board.Divide(pos, c, depth)
	}

	moves := pos.GenerateLegalMoves(c)
	entries := make([]board.DivideEntry, len(moves))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, m := range moves {
		child := pos.Clone()
		g.Go(func() error {
			child.MakeMove(m, c)
			entries[i] = board.DivideEntry{Move: m, Nodes: board.Perft(&child, c.Other(), depth-1)}
			return nil
		})
	}
	g.Wait() // branches never return an error
	return entries
}

// ScoreString converts a score from a search of the given depth to a
// human-readable string from White's point of view.
func ScoreString(score, depth int) string {
	if plies, ok := MatePlies(score, depth); ok {
		mateIn := strconv.Itoa((plies + 1) / 2)
		if score > 0 {
			return "White mates in " + mateIn
		}
		return "Black mates in " + mateIn
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
