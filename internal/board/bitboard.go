package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares: bit i is set when square i belongs to the set.
type Bitboard uint64

// File masks
const (
	FileA Bitboard = 0x0101010101010101
	FileH Bitboard = 0x8080808080808080
)

// Rank masks
const (
	Rank1 Bitboard = 0x00000000000000FF
	Rank2 Bitboard = 0x000000000000FF00
	Rank7 Bitboard = 0x00FF000000000000
	Rank8 Bitboard = 0xFF00000000000000
)

const (
	Empty    Bitboard = 0
	Universe Bitboard = ^Empty
)

// SquareBB returns the mask holding only sq.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// Set returns b with sq added.
func (b Bitboard) Set(sq Square) Bitboard {
	return b | SquareBB(sq)
}

// Clear returns b with sq removed.
func (b Bitboard) Clear(sq Square) Bitboard {
	return b &^ SquareBB(sq)
}

// IsSet reports whether sq is in b.
func (b Bitboard) IsSet(sq Square) bool {
	return b&SquareBB(sq) != 0
}

// Empty reports whether no square is set.
func (b Bitboard) Empty() bool {
	return b == 0
}

// More reports whether at least one square is set.
func (b Bitboard) More() bool {
	return b != 0
}

// PopCount returns the number of set squares.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the lowest set square, or NoSquare for an empty mask.
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// MSB returns the highest set square, or NoSquare for an empty mask.
func (b Bitboard) MSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(63 - bits.LeadingZeros64(uint64(b)))
}

// PopLSB removes and returns the lowest set square. This is the enumeration
// order used everywhere. Callers must check Empty first; on an empty mask it
// returns NoSquare.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// ForEach calls f for every set square in ascending order.
func (b Bitboard) ForEach(f func(Square)) {
	for b.More() {
		f(b.PopLSB())
	}
}

// Squares returns the set squares in ascending order.
func (b Bitboard) Squares() []Square {
	squares := make([]Square, 0, b.PopCount())
	for b.More() {
		squares = append(squares, b.PopLSB())
	}
	return squares
}

// String draws the mask rank 8 first, one row per rank.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if b.IsSet(NewSquare(file, rank)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
