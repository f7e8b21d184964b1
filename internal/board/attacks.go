package board

// direction is one of the eight compass directions a slider can travel.
type direction uint8

const (
	north direction = iota
	northEast
	east
	southEast
	south
	southWest
	west
	northWest
)

// File and rank steps for each direction.
var directionSteps = [8][2]int{
	north:     {0, 1},
	northEast: {1, 1},
	east:      {1, 0},
	southEast: {1, -1},
	south:     {0, -1},
	southWest: {-1, -1},
	west:      {-1, 0},
	northWest: {-1, 1},
}

// Squares increase along these directions, so the nearest blocker is the LSB.
func (d direction) ascending() bool {
	return d == north || d == northEast || d == east || d == northWest
}

var (
	bishopDirections = [4]direction{northEast, southEast, southWest, northWest}
	rookDirections   = [4]direction{north, east, south, west}
)

// Leaper tables and empty-board slider tables, computed once.
var (
	knightAttacks    [64]Bitboard
	kingAttacks      [64]Bitboard
	pawnAttacks      [2][64]Bitboard // diagonal captures
	pawnPushes       [2][64]Bitboard // single advance
	pawnDoublePushes [2][64]Bitboard // double advance, home rank only
	rays             [8][64]Bitboard // squares along a direction, edge inclusive
	bishopUnblocked  [64]Bitboard
	rookUnblocked    [64]Bitboard
	queenUnblocked   [64]Bitboard
)

func init() {
	initLeaperAttacks()
	initPawnTables()
	initRays()
}

func initLeaperAttacks() {
	knightSteps := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	for sq := A1; sq <= H8; sq++ {
		for _, s := range knightSteps {
			if to, ok := sq.offset(s[0], s[1]); ok {
				knightAttacks[sq] = knightAttacks[sq].Set(to)
			}
		}
		for _, s := range directionSteps {
			if to, ok := sq.offset(s[0], s[1]); ok {
				kingAttacks[sq] = kingAttacks[sq].Set(to)
			}
		}
	}
}

func initPawnTables() {
	for sq := A1; sq <= H8; sq++ {
		for _, df := range [2]int{-1, 1} {
			if to, ok := sq.offset(df, 1); ok {
				pawnAttacks[White][sq] = pawnAttacks[White][sq].Set(to)
			}
			if to, ok := sq.offset(df, -1); ok {
				pawnAttacks[Black][sq] = pawnAttacks[Black][sq].Set(to)
			}
		}
		if to, ok := sq.offset(0, 1); ok {
			pawnPushes[White][sq] = SquareBB(to)
		}
		if to, ok := sq.offset(0, -1); ok {
			pawnPushes[Black][sq] = SquareBB(to)
		}
		if sq.Rank() == 1 {
			pawnDoublePushes[White][sq] = SquareBB(sq + 16)
		}
		if sq.Rank() == 6 {
			pawnDoublePushes[Black][sq] = SquareBB(sq - 16)
		}
	}
}

func initRays() {
	for sq := A1; sq <= H8; sq++ {
		for d, s := range directionSteps {
			to, ok := sq.offset(s[0], s[1])
			for ok {
				rays[d][sq] = rays[d][sq].Set(to)
				to, ok = to.offset(s[0], s[1])
			}
		}
		for _, d := range bishopDirections {
			bishopUnblocked[sq] |= rays[d][sq]
		}
		for _, d := range rookDirections {
			rookUnblocked[sq] |= rays[d][sq]
		}
		queenUnblocked[sq] = bishopUnblocked[sq] | rookUnblocked[sq]
	}
}

// rayAttacks casts a ray from sq along d, keeping the first occupied square
// and dropping everything behind it.
func rayAttacks(d direction, sq Square, occupied Bitboard) Bitboard {
	ray := rays[d][sq]
	blockers := ray & occupied
	if blockers.Empty() {
		return ray
	}
	var first Square
	if d.ascending() {
		first = blockers.LSB()
	} else {
		first = blockers.MSB()
	}
	return ray &^ rays[d][first]
}

// KnightAttacks returns the knight leaper mask for sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king leaper mask for sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the diagonal capture mask of a c pawn on sq.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// PawnPushes returns the single-advance mask of a c pawn on sq.
func PawnPushes(sq Square, c Color) Bitboard {
	return pawnPushes[c][sq]
}

// BishopAttacks ray-casts the four diagonals from sq against occupied.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range bishopDirections {
		attacks |= rayAttacks(d, sq, occupied)
	}
	return attacks
}

// RookAttacks ray-casts the four orthogonals from sq against occupied.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range rookDirections {
		attacks |= rayAttacks(d, sq, occupied)
	}
	return attacks
}

// QueenAttacks is the union of bishop and rook attacks.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// UnblockedAttacks returns the empty-board reach of a slider. It is only a
// superset of the real reach once pieces are on the board.
func UnblockedAttacks(pt PieceType, sq Square) Bitboard {
	switch pt {
	case Bishop:
		return bishopUnblocked[sq]
	case Rook:
		return rookUnblocked[sq]
	case Queen:
		return queenUnblocked[sq]
	}
	return Empty
}

// pieceAttacks returns the squares a c piece of type pt on sq attacks.
func pieceAttacks(pt PieceType, c Color, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	case King:
		return kingAttacks[sq]
	}
	return Empty
}

// AttackedSquares returns every square attacked by a piece of color c.
func (p *Position) AttackedSquares(c Color) Bitboard {
	var attacked Bitboard
	for pt := Pawn; pt <= King; pt++ {
		pieces := p.Pieces[c][pt]
		for pieces.More() {
			sq := pieces.PopLSB()
			attacked |= pieceAttacks(pt, c, sq, p.AllOccupied)
		}
	}
	return attacked
}

// IsSquareAttacked reports whether any piece of color by attacks sq. Piece
// types are tried pawn first, king last, stopping at the first hit.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	theirs := &p.Pieces[by]
	if pawnAttacks[by.Other()][sq]&theirs[Pawn] != 0 {
		return true
	}
	if knightAttacks[sq]&theirs[Knight] != 0 {
		return true
	}
	if BishopAttacks(sq, p.AllOccupied)&theirs[Bishop] != 0 {
		return true
	}
	if RookAttacks(sq, p.AllOccupied)&theirs[Rook] != 0 {
		return true
	}
	if QueenAttacks(sq, p.AllOccupied)&theirs[Queen] != 0 {
		return true
	}
	return kingAttacks[sq]&theirs[King] != 0
}

// IsAnySquareAttacked reports whether by attacks at least one square of mask.
func (p *Position) IsAnySquareAttacked(mask Bitboard, by Color) bool {
	for mask.More() {
		if p.IsSquareAttacked(mask.PopLSB(), by) {
			return true
		}
	}
	return false
}

// InCheck reports whether c's king is attacked. A side without a king is
// never in check.
func (p *Position) InCheck(c Color) bool {
	ksq := p.Pieces[c][King].LSB()
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, c.Other())
}
