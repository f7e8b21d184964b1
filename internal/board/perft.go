package board

// Perft counts the leaf nodes of the legal move tree of the given depth with
// c to move. Every branch runs on its own copy of pos.
func Perft(pos *Position, c Color, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := pos.GenerateLegalMoves(c)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		child := pos.Clone()
		child.apply(m, c)
		nodes += Perft(&child, c.Other(), depth-1)
	}
	return nodes
}

// DivideEntry is the node count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs Perft below each root move, in generation order.
func Divide(pos *Position, c Color, depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}
	moves := pos.GenerateLegalMoves(c)
	out := make([]DivideEntry, 0, len(moves))
	for _, m := range moves {
		child := pos.Clone()
		child.apply(m, c)
		out = append(out, DivideEntry{Move: m, Nodes: Perft(&child, c.Other(), depth-1)})
	}
	return out
}
