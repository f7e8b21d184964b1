package board

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidMoveText is returned when move text is not a square pair.
	ErrInvalidMoveText = errors.New("invalid move text")

	// ErrIllegalMoveApplied is returned when a move outside the legal list
	// is applied through MakeMoveChecked.
	ErrIllegalMoveApplied = errors.New("illegal move applied")
)

// Move is a from/to square pair plus an optional promotion piece. Castling
// and en passant are not flagged; MakeMove infers them from the board.
//
// Move is comparable and == includes the promotion piece, so the four
// promotion variants of one pawn move are distinct. Use SameSquares to
// compare squares only.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType // NoPieceType unless Knight..Queen
}

// NoMove is the null move.
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType}
}

// NewPromotion creates a pawn move that promotes to promo.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// IsPromotion reports whether the move carries a promotion piece.
func (m Move) IsPromotion() bool {
	return m.Promotion >= Knight && m.Promotion <= Queen
}

// SameSquares compares moves by from and to only.
func (m Move) SameSquares(o Move) bool {
	return m.From == o.From && m.To == o.To
}

// String returns the four-character square-pair text, e.g. "e2e4". The
// promotion piece is not part of it.
func (m Move) String() string {
	if m == NoMove || !m.From.IsValid() || !m.To.IsValid() {
		return "0000"
	}
	return m.From.String() + m.To.String()
}

// UCI returns the square pair with a lowercase promotion suffix, e.g. "e7e8q".
func (m Move) UCI() string {
	s := m.String()
	if m.IsPromotion() && s != "0000" {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove decodes the first four characters of s as <file><rank><file><rank>.
// Anything after them is ignored. The result is not checked for legality.
func ParseMove(s string) (Move, error) {
	if len(s) < 4 {
		return NoMove, fmt.Errorf("%w: %q is shorter than four characters", ErrInvalidMoveText, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrInvalidMoveText, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrInvalidMoveText, err)
	}
	return NewMove(from, to), nil
}

// ParseUCIMove decodes a square pair with an optional promotion letter.
func ParseUCIMove(s string) (Move, error) {
	m, err := ParseMove(s)
	if err != nil {
		return NoMove, err
	}
	if len(s) == 4 {
		return m, nil
	}
	if len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMoveText, s)
	}
	for _, pt := range PromotionPieces {
		if s[4] == pt.Char() {
			m.Promotion = pt
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: invalid promotion piece %q", ErrInvalidMoveText, s[4])
}

// MoveList is an ordered list of moves.
type MoveList []Move

// Contains reports whether m, promotion included, is in the list.
func (ml MoveList) Contains(m Move) bool {
	for _, x := range ml {
		if x == m {
			return true
		}
	}
	return false
}

// Resolve maps m onto a list member. An exact match wins; a move without a
// promotion piece that names a promoting square pair resolves to the queen
// promotion.
func (ml MoveList) Resolve(m Move) (Move, bool) {
	if ml.Contains(m) {
		return m, true
	}
	if m.IsPromotion() {
		return NoMove, false
	}
	queen := NewPromotion(m.From, m.To, Queen)
	if ml.Contains(queen) {
		return queen, true
	}
	return NoMove, false
}

// Strings returns the UCI text of every move.
func (ml MoveList) Strings() []string {
	out := make([]string, len(ml))
	for i, m := range ml {
		out[i] = m.UCI()
	}
	return out
}

func (ml MoveList) String() string {
	return strings.Join(ml.Strings(), " ")
}
