package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every ParseFEN error.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN parses a FEN string into a position and the side to move. Move
// counters are accepted and ignored. Castling letters become KingMoved and
// RookMoved flags; an en passant square becomes the double advance in
// LastMove.
func ParseFEN(fen string) (Position, Color, error) {
	var pos Position
	pos.Clear()

	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return pos, NoColor, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	if err := parsePiecePlacement(&pos, parts[0]); err != nil {
		return pos, NoColor, err
	}

	side, ok := ParseColor(parts[1])
	if !ok || len(parts[1]) != 1 {
		return pos, NoColor, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, parts[1])
	}

	if err := parseCastlingRights(&pos, parts[2]); err != nil {
		return pos, NoColor, err
	}

	if parts[3] != "-" {
		if err := parseEnPassant(&pos, parts[3], side); err != nil {
			return pos, NoColor, err
		}
	}

	for _, field := range parts[4:] {
		if _, err := strconv.Atoi(field); err != nil {
			return pos, NoColor, fmt.Errorf("%w: move counter %q", ErrInvalidFEN, field)
		}
	}

	return pos, side, nil
}

// MustParseFEN is ParseFEN for known-good literals. It panics on error.
func MustParseFEN(fen string) (Position, Color) {
	pos, side, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos, side
}

func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			piece := PieceFromChar(byte(ch))
			if piece == NoPiece {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, ch)
			}
			sq := NewSquare(file, rank)
			pos.Pieces[piece.Color()][piece.Type()] = pos.Pieces[piece.Color()][piece.Type()].Set(sq)
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}
	pos.updateOccupied()
	return nil
}

func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		return nil
	}
	for _, ch := range castling {
		var c Color
		var side CastleSide
		switch ch {
		case 'K':
			c, side = White, KingSide
		case 'Q':
			c, side = White, QueenSide
		case 'k':
			c, side = Black, KingSide
		case 'q':
			c, side = Black, QueenSide
		default:
			return fmt.Errorf("%w: castling character %q", ErrInvalidFEN, ch)
		}
		rule := castleRules[c][side]
		if !pos.Pieces[c][King].IsSet(rule.kingFrom) || !pos.Pieces[c][Rook].IsSet(rule.rookFrom) {
			return fmt.Errorf("%w: %v %v castling without king and rook at home", ErrInvalidFEN, c, side)
		}
		pos.KingMoved[c] = false
		pos.RookMoved[c][side] = false
	}
	return nil
}

func parseEnPassant(pos *Position, field string, side Color) error {
	target, err := ParseSquare(field)
	if err != nil {
		return fmt.Errorf("%w: en passant square: %v", ErrInvalidFEN, err)
	}
	// The side not to move made the double advance across target.
	var from, to Square
	switch {
	case side == White && target.Rank() == 5:
		from, to = target+8, target-8
	case side == Black && target.Rank() == 2:
		from, to = target-8, target+8
	default:
		return fmt.Errorf("%w: en passant square %s on wrong rank", ErrInvalidFEN, target)
	}
	if !pos.Pieces[side.Other()][Pawn].IsSet(to) {
		return fmt.Errorf("%w: no pawn passed over %s", ErrInvalidFEN, target)
	}
	pos.EnPassantAvailable = true
	pos.LastMove = NewMove(from, to)
	return nil
}

// FEN renders the position with side to move. Move counters are written as
// "0 1" because the position does not track them.
func (p *Position) FEN(side Color) string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if side == Black {
		sb.WriteByte('b')
	} else {
		sb.WriteByte('w')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castlingString())

	sb.WriteByte(' ')
	sb.WriteString(p.enPassantTargetFor(side).String())

	sb.WriteString(" 0 1")
	return sb.String()
}
