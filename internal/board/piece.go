package board

// Color is the side owning a piece.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opponent of c. NoColor has no opponent.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// ParseColor accepts "white"/"w" and "black"/"b".
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w", "White":
		return White, true
	case "black", "b", "Black":
		return Black, true
	}
	return NoColor, false
}

// PieceType is one of the six chess piece kinds.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase letter used by FEN and UCI for pt.
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "pnbrqk"[pt]
}

// PromotionPieces lists promotion targets in generation order.
var PromotionPieces = [4]PieceType{Knight, Bishop, Rook, Queen}

// Piece is a (color, type) pair packed as type + 6*color.
type Piece uint8

// NoPiece is returned by lookups on empty squares.
const NoPiece Piece = 12

// NewPiece packs pt and c into a Piece.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the piece type, or NoPieceType for NoPiece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the owner, or NoColor for NoPiece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String returns the FEN letter: uppercase for White, lowercase for Black.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return string("PNBRQKpnbrqk"[p])
}

// PieceFromChar converts a FEN letter to a Piece.
func PieceFromChar(c byte) Piece {
	for i := 0; i < 12; i++ {
		if "PNBRQKpnbrqk"[i] == c {
			return Piece(i)
		}
	}
	return NoPiece
}

// CastleSide selects the rook a castling move uses.
type CastleSide uint8

const (
	QueenSide CastleSide = iota
	KingSide
)

func (s CastleSide) String() string {
	if s == KingSide {
		return "O-O"
	}
	return "O-O-O"
}
