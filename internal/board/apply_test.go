package board

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
)

func TestCastlingMovesTheRook(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		move     Move
		king     Square
		rookFrom Square
		rookTo   Square
	}{
		{"white kingside", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", NewMove(E1, G1), G1, H1, F1},
		{"white queenside", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", NewMove(E1, C1), C1, A1, D1},
		{"black kingside", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", NewMove(E8, G8), G8, H8, F8},
		{"black queenside", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", NewMove(E8, C8), C8, A8, D8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, side := MustParseFEN(tc.fen)
			if err := pos.MakeMoveChecked(tc.move, side); err != nil {
				t.Fatal(err)
			}
			if pos.KingSquare(side) != tc.king {
				t.Errorf("king on %v, want %v", pos.KingSquare(side), tc.king)
			}
			if !pos.IsEmpty(tc.rookFrom) {
				t.Errorf("%v should be empty", tc.rookFrom)
			}
			if pos.PieceAt(tc.rookTo) != NewPiece(Rook, side) {
				t.Errorf("rook missing from %v", tc.rookTo)
			}
			if !pos.KingMoved[side] || pos.CanCastle(side, KingSide) || pos.CanCastle(side, QueenSide) {
				t.Errorf("castling rights survive the castle")
			}
			if err := pos.Validate(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestKingStepToCastleSquareKeepsRook(t *testing.T) {
	// f1g1 lands on the castling square without castling.
	pos, side := MustParseFEN("4k3/8/8/8/8/8/8/5K1R w - - 0 1")
	if err := pos.MakeMoveChecked(NewMove(F1, G1), side); err != nil {
		t.Fatal(err)
	}
	if pos.PieceAt(H1) != NewPiece(Rook, White) || !pos.IsEmpty(F1) {
		t.Errorf("rook moved on a plain king step:\n%v", pos.String())
	}
}

func TestRightsBookkeeping(t *testing.T) {
	pos, side := MustParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	// Ra1xa8 spends White's queenside right and removes Black's.
	if err := pos.MakeMoveChecked(NewMove(A1, A8), side); err != nil {
		t.Fatal(err)
	}
	if pos.CanCastle(White, QueenSide) {
		t.Error("white queenside right kept after the a1 rook left")
	}
	if !pos.CanCastle(White, KingSide) {
		t.Error("white kingside right lost")
	}
	if pos.CanCastle(Black, QueenSide) {
		t.Error("black queenside right kept after the a8 rook was captured")
	}
	if !pos.CanCastle(Black, KingSide) {
		t.Error("black kingside right lost")
	}
	if got := pos.castlingString(); got != "Kk" {
		t.Errorf("castling = %q, want Kk", got)
	}

	// A rook returning home does not restore the right.
	pos.SetPiece(NewPiece(Rook, White), A1)
	if pos.GenerateLegalMoves(White).Contains(NewMove(E1, C1)) {
		t.Error("queenside castle offered after the rook had moved")
	}
}

func TestPromotionReplacesPawn(t *testing.T) {
	for _, promo := range PromotionPieces {
		t.Run(promo.String(), func(t *testing.T) {
			pos, side := MustParseFEN("1r6/P7/8/8/8/8/8/k6K w - - 0 1")
			if err := pos.MakeMoveChecked(NewPromotion(A7, B8, promo), side); err != nil {
				t.Fatal(err)
			}
			if pos.PieceAt(B8) != NewPiece(promo, White) {
				t.Errorf("b8 holds %v, want %v", pos.PieceAt(B8), NewPiece(promo, White))
			}
			if !pos.Pieces[White][Pawn].Empty() || !pos.Pieces[Black][Rook].Empty() {
				t.Errorf("pawn or captured rook left behind:\n%v", pos.String())
			}
		})
	}
}

func TestPromotionNeedsAPiece(t *testing.T) {
	pos, side := MustParseFEN("8/P7/8/8/8/8/8/k6K w - - 0 1")
	err := pos.MakeMoveChecked(NewMove(A7, A8), side)
	if !errors.Is(err, ErrIllegalMoveApplied) {
		t.Fatalf("plain a7a8 error = %v, want ErrIllegalMoveApplied", err)
	}
	resolved, ok := pos.GenerateLegalMoves(side).Resolve(NewMove(A7, A8))
	if !ok || resolved != NewPromotion(A7, A8, Queen) {
		t.Errorf("Resolve(a7a8) = %v %v, want a7a8q", resolved.UCI(), ok)
	}
}

func TestDoubleAdvanceSetsEnPassant(t *testing.T) {
	pos := NewPosition()
	pos.MakeMove(NewMove(E2, E4), White)
	if !pos.EnPassantAvailable || pos.EnPassantTarget() != E3 {
		t.Errorf("en passant target = %v, want e3", pos.EnPassantTarget())
	}
	pos.MakeMove(NewMove(G8, F6), Black)
	if pos.EnPassantAvailable {
		t.Error("en passant flag survived a knight move")
	}
	if pos.LastMove != NewMove(G8, F6) {
		t.Errorf("LastMove = %v", pos.LastMove)
	}
}

func TestMakeMoveCheckedLeavesPositionOnError(t *testing.T) {
	pos := NewPosition()
	before := pos.Clone()
	err := pos.MakeMoveChecked(NewMove(E2, E5), White)
	if !errors.Is(err, ErrIllegalMoveApplied) {
		t.Fatalf("error = %v, want ErrIllegalMoveApplied", err)
	}
	if pos != before {
		t.Error("position changed by a rejected move")
	}
}

func TestDebugMoveValidationLogs(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	DebugMoveValidation = true
	defer func() {
		DebugMoveValidation = false
		log.SetOutput(os.Stderr)
	}()

	pos := NewPosition()
	pos.MakeMove(NewMove(E2, E5), White)
	if !strings.Contains(buf.String(), "MAKEMOVE ILLEGAL") {
		t.Errorf("no log line for an illegal move, got %q", buf.String())
	}

	buf.Reset()
	pos = NewPosition()
	pos.MakeMove(NewMove(E2, E4), White)
	if buf.Len() != 0 {
		t.Errorf("legal move logged: %q", buf.String())
	}
}
