package board

// GenerateLegalMoves returns every legal move for c.
//
// Order: piece type (Pawn, Knight, Bishop, Rook, Queen, King), then source
// square ascending, then destination ascending. A pawn's forward moves come
// before its captures, and promotions are emitted Knight, Bishop, Rook, Queen.
func (p *Position) GenerateLegalMoves(c Color) MoveList {
	moves := make(MoveList, 0, 48)
	p.generateMoves(c, func(m Move) {
		if p.leavesKingSafe(m, c) {
			moves = append(moves, m)
		}
	})
	return moves
}

// GeneratePseudoLegalMoves returns the candidates GenerateLegalMoves filters,
// in the same order. Some of them may leave c's king attacked.
func (p *Position) GeneratePseudoLegalMoves(c Color) MoveList {
	moves := make(MoveList, 0, 48)
	p.generateMoves(c, func(m Move) {
		moves = append(moves, m)
	})
	return moves
}

// HasLegalMoves reports whether c has at least one legal move.
func (p *Position) HasLegalMoves(c Color) bool {
	return len(p.GenerateLegalMoves(c)) > 0
}

// IsCheckmate reports whether c is in check with no legal move.
func (p *Position) IsCheckmate(c Color) bool {
	return p.InCheck(c) && !p.HasLegalMoves(c)
}

// IsStalemate reports whether c is not in check but has no legal move.
func (p *Position) IsStalemate(c Color) bool {
	return !p.InCheck(c) && !p.HasLegalMoves(c)
}

// generateMoves emits pseudo-legal moves for c in generation order.
func (p *Position) generateMoves(c Color, emit func(Move)) {
	own := p.Occupied[c]

	for pt := Pawn; pt <= King; pt++ {
		pieces := p.Pieces[c][pt]
		for pieces.More() {
			from := pieces.PopLSB()

			switch pt {
			case Pawn:
				p.generatePawnMoves(c, from, emit)
			case Knight:
				emitTargets(from, knightAttacks[from]&^own, emit)
			case Bishop, Rook, Queen:
				emitTargets(from, pieceAttacks(pt, c, from, p.AllOccupied)&^own, emit)
			case King:
				emitTargets(from, (kingAttacks[from]&^own)|p.castleTargets(c, from), emit)
			}
		}
	}
}

func emitTargets(from Square, targets Bitboard, emit func(Move)) {
	for targets.More() {
		emit(NewMove(from, targets.PopLSB()))
	}
}

// generatePawnMoves emits forward moves, then captures, for the pawn on from.
func (p *Position) generatePawnMoves(c Color, from Square, emit func(Move)) {
	forward := pawnPushes[c][from] &^ p.AllOccupied
	if forward.More() {
		forward |= pawnDoublePushes[c][from] &^ p.AllOccupied
	}
	emitPawnTargets(c, from, forward, emit)

	capturable := p.Occupied[c.Other()]
	if ep := p.enPassantTargetFor(c); ep != NoSquare {
		capturable = capturable.Set(ep)
	}
	emitPawnTargets(c, from, pawnAttacks[c][from]&capturable, emit)
}

// emitPawnTargets expands arrivals on the far rank into the four promotions.
func emitPawnTargets(c Color, from Square, targets Bitboard, emit func(Move)) {
	lastRank := Rank8
	if c == Black {
		lastRank = Rank1
	}
	for targets.More() {
		to := targets.PopLSB()
		if !lastRank.IsSet(to) {
			emit(NewMove(from, to))
			continue
		}
		for _, promo := range PromotionPieces {
			emit(NewPromotion(from, to, promo))
		}
	}
}

// enPassantTargetFor returns the en passant square c may capture onto. The
// double advance must have been made by c's opponent.
func (p *Position) enPassantTargetFor(c Color) Square {
	ep := p.EnPassantTarget()
	if ep == NoSquare || !p.Pieces[c.Other()][Pawn].IsSet(p.LastMove.To) {
		return NoSquare
	}
	return ep
}

// castleTargets returns the king destinations of the castling moves c may
// make from from. The king and the rook must never have moved, the rook must
// still be home, the squares between them must be empty, and no square the
// king stands on or crosses may be attacked.
func (p *Position) castleTargets(c Color, from Square) Bitboard {
	if p.KingMoved[c] {
		return Empty
	}
	var targets Bitboard
	for _, side := range [2]CastleSide{QueenSide, KingSide} {
		rule := &castleRules[c][side]
		if from != rule.kingFrom || p.RookMoved[c][side] || !p.Pieces[c][Rook].IsSet(rule.rookFrom) {
			continue
		}
		if p.AllOccupied&rule.between != 0 {
			continue
		}
		if p.IsAnySquareAttacked(rule.path, c.Other()) {
			continue
		}
		targets = targets.Set(rule.kingTo)
	}
	return targets
}

// leavesKingSafe applies m to a scratch copy and reports whether c's king is
// outside the opponent's attacked squares afterwards. This is the only
// legality test; pins and discovered checks are not detected separately.
func (p *Position) leavesKingSafe(m Move, c Color) bool {
	trial := p.Clone()
	trial.apply(m, c)
	ksq := trial.KingSquare(c)
	if ksq == NoSquare {
		return true
	}
	return !trial.AttackedSquares(c.Other()).IsSet(ksq)
}
