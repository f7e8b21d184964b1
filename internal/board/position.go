package board

import (
	"fmt"
	"strings"
)

// Starting masks per (color, piece type).
var startPieces = [2][6]Bitboard{
	White: {
		Pawn:   0x000000000000FF00,
		Knight: 0x0000000000000042,
		Bishop: 0x0000000000000024,
		Rook:   0x0000000000000081,
		Queen:  0x0000000000000008,
		King:   0x0000000000000010,
	},
	Black: {
		Pawn:   0x00FF000000000000,
		Knight: 0x4200000000000000,
		Bishop: 0x2400000000000000,
		Rook:   0x8100000000000000,
		Queen:  0x0800000000000000,
		King:   0x1000000000000000,
	},
}

// castleRule holds the fixed squares of one castling move.
type castleRule struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	between          Bitboard // must be empty
	path             Bitboard // must not be attacked, king square included
}

var castleRules = [2][2]castleRule{
	White: {
		QueenSide: {E1, C1, A1, D1, squaresBB(B1, C1, D1), squaresBB(E1, D1, C1)},
		KingSide:  {E1, G1, H1, F1, squaresBB(F1, G1), squaresBB(E1, F1, G1)},
	},
	Black: {
		QueenSide: {E8, C8, A8, D8, squaresBB(B8, C8, D8), squaresBB(E8, D8, C8)},
		KingSide:  {E8, G8, H8, F8, squaresBB(F8, G8), squaresBB(E8, F8, G8)},
	},
}

func squaresBB(squares ...Square) Bitboard {
	var b Bitboard
	for _, sq := range squares {
		b = b.Set(sq)
	}
	return b
}

// Position is the full board state. It is a plain value: copying it (Clone)
// is the only way to explore a line, there is no undo.
type Position struct {
	// Piece masks: [Color][PieceType]. No square is set in two masks.
	Pieces [2][6]Bitboard

	// Derived occupancy, rebuilt from Pieces after every change.
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	// EnPassantAvailable is set right after a pawn double advance; the
	// target is the square LastMove passed over.
	EnPassantAvailable bool
	LastMove           Move

	// Castling bookkeeping, indexed [Color] and [Color][CastleSide].
	KingMoved [2]bool
	RookMoved [2][2]bool
}

// NewPosition returns the standard starting position.
func NewPosition() Position {
	var p Position
	p.Reset()
	return p
}

// Reset installs the starting layout and clears all rights and flags.
func (p *Position) Reset() {
	*p = Position{
		Pieces:   startPieces,
		LastMove: NoMove,
	}
	p.updateOccupied()
}

// Clear empties the board. Castling is recorded as unavailable.
func (p *Position) Clear() {
	*p = Position{
		LastMove:  NoMove,
		KingMoved: [2]bool{true, true},
		RookMoved: [2][2]bool{{true, true}, {true, true}},
	}
}

// Clone returns an independent copy of p.
func (p *Position) Clone() Position {
	return *p
}

// PieceAt scans the twelve masks for sq and returns NoPiece when none hold it.
func (p *Position) PieceAt(sq Square) Piece {
	for c := White; c <= Black; c++ {
		if pt := p.pieceTypeAt(sq, c); pt != NoPieceType {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// pieceTypeAt scans c's six masks. O(6) per call.
func (p *Position) pieceTypeAt(sq Square, c Color) PieceType {
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt].IsSet(sq) {
			return pt
		}
	}
	return NoPieceType
}

// IsEmpty reports whether no piece stands on sq.
func (p *Position) IsEmpty(sq Square) bool {
	return !p.AllOccupied.IsSet(sq)
}

// KingSquare returns the square of c's king, or NoSquare.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// EnPassantTarget returns the square a pawn may capture onto en passant, or
// NoSquare when the last move was not a double advance.
func (p *Position) EnPassantTarget() Square {
	if !p.EnPassantAvailable || !p.LastMove.From.IsValid() {
		return NoSquare
	}
	return (p.LastMove.From + p.LastMove.To) / 2
}

// CanCastle reports whether c still holds the right to castle on side. It
// says nothing about blockers or attacks.
func (p *Position) CanCastle(c Color, side CastleSide) bool {
	return !p.KingMoved[c] && !p.RookMoved[c][side]
}

// SetPiece puts piece on sq, replacing whatever stood there.
func (p *Position) SetPiece(piece Piece, sq Square) {
	p.RemovePiece(sq)
	if piece == NoPiece {
		return
	}
	p.Pieces[piece.Color()][piece.Type()] = p.Pieces[piece.Color()][piece.Type()].Set(sq)
	p.updateOccupied()
}

// RemovePiece clears sq in all twelve masks.
func (p *Position) RemovePiece(sq Square) {
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			p.Pieces[c][pt] = p.Pieces[c][pt].Clear(sq)
		}
	}
	p.updateOccupied()
}

// updateOccupied rebuilds the occupancy masks from the twelve piece masks.
func (p *Position) updateOccupied() {
	p.Occupied[White] = Empty
	p.Occupied[Black] = Empty
	for pt := Pawn; pt <= King; pt++ {
		p.Occupied[White] |= p.Pieces[White][pt]
		p.Occupied[Black] |= p.Pieces[Black][pt]
	}
	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
}

// Validate checks the structural invariants of the position.
func (p *Position) Validate() error {
	var seen Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if seen&p.Pieces[c][pt] != 0 {
				return fmt.Errorf("square shared by two piece masks: %v", (seen & p.Pieces[c][pt]).Squares())
			}
			seen |= p.Pieces[c][pt]
		}
	}
	if seen != p.AllOccupied {
		return fmt.Errorf("occupancy out of date")
	}
	if p.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if p.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}
	return nil
}

// String draws the board with rank 8 on top followed by the castling and en
// passant state.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Castling: %s\n", p.castlingString())
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassantTarget())
	return sb.String()
}

// castlingString renders the rights in FEN form.
func (p *Position) castlingString() string {
	s := ""
	if p.CanCastle(White, KingSide) {
		s += "K"
	}
	if p.CanCastle(White, QueenSide) {
		s += "Q"
	}
	if p.CanCastle(Black, KingSide) {
		s += "k"
	}
	if p.CanCastle(Black, QueenSide) {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}
