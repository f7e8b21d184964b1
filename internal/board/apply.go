package board

import (
	"fmt"
	"log"
)

// DebugMoveValidation makes MakeMove check its precondition and log moves
// that are not in the legal list. It is expensive; leave it off in search.
var DebugMoveValidation = false

// MakeMove applies m for color c in place. m must come from
// GenerateLegalMoves(c); nothing is validated unless DebugMoveValidation is
// set, and applying anything else leaves the position unspecified.
func (p *Position) MakeMove(m Move, c Color) {
	if DebugMoveValidation && !p.GenerateLegalMoves(c).Contains(m) {
		log.Printf("MAKEMOVE ILLEGAL: %s is not a legal %v move\n%s", m.UCI(), c, p)
	}
	p.apply(m, c)
}

// MakeMoveChecked applies m only if it is legal for c, and otherwise returns
// an error wrapping ErrIllegalMoveApplied and leaves p untouched.
func (p *Position) MakeMoveChecked(m Move, c Color) error {
	if !p.GenerateLegalMoves(c).Contains(m) {
		return fmt.Errorf("%w: %s for %v", ErrIllegalMoveApplied, m.UCI(), c)
	}
	p.apply(m, c)
	return nil
}

// apply performs the move: capture, en passant, promotion, castling rook
// relocation and rights bookkeeping, then rebuilds occupancy from scratch.
func (p *Position) apply(m Move, c Color) {
	them := c.Other()
	p.EnPassantAvailable = false

	pt := p.pieceTypeAt(m.From, c)
	if pt == NoPieceType {
		p.LastMove = m
		return
	}
	p.Pieces[c][pt] = p.Pieces[c][pt].Clear(m.From)

	// A pawn moving diagonally onto an empty square captures en passant.
	if pt == Pawn && m.From.File() != m.To.File() && !p.AllOccupied.IsSet(m.To) {
		passed := NewSquare(m.To.File(), m.From.Rank())
		p.Pieces[them][Pawn] = p.Pieces[them][Pawn].Clear(passed)
	}

	for opt := Pawn; opt <= King; opt++ {
		if !p.Pieces[them][opt].IsSet(m.To) {
			continue
		}
		p.Pieces[them][opt] = p.Pieces[them][opt].Clear(m.To)
		if opt == Rook {
			// A rook taken at home can never castle again.
			for side, rule := range castleRules[them] {
				if m.To == rule.rookFrom {
					p.RookMoved[them][side] = true
				}
			}
		}
	}

	placed := pt
	if pt == Pawn && m.IsPromotion() {
		placed = m.Promotion
	}
	p.Pieces[c][placed] = p.Pieces[c][placed].Set(m.To)

	switch pt {
	case Pawn:
		if m.To == m.From+16 || m.From == m.To+16 {
			p.EnPassantAvailable = true
		}
	case King:
		p.KingMoved[c] = true
		for _, rule := range castleRules[c] {
			if m.From == rule.kingFrom && m.To == rule.kingTo && p.Pieces[c][Rook].IsSet(rule.rookFrom) {
				p.Pieces[c][Rook] = p.Pieces[c][Rook].Clear(rule.rookFrom).Set(rule.rookTo)
			}
		}
	case Rook:
		for side, rule := range castleRules[c] {
			if m.From == rule.rookFrom {
				p.RookMoved[c][side] = true
			}
		}
	}

	p.updateOccupied()
	p.LastMove = m
}
