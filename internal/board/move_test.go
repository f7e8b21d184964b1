package board

import (
	"errors"
	"testing"
)

func TestSquareNames(t *testing.T) {
	for sq := A1; sq <= H8; sq++ {
		got, err := ParseSquare(sq.String())
		if err != nil || got != sq {
			t.Fatalf("ParseSquare(%q) = %v, %v", sq.String(), got, err)
		}
	}
	if NoSquare.String() != "-" {
		t.Errorf("NoSquare.String() = %q", NoSquare.String())
	}
	if E4.File() != 4 || E4.Rank() != 3 {
		t.Errorf("e4 file/rank = %d/%d", E4.File(), E4.Rank())
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in      string
		want    Move
		wantErr bool
	}{
		{"e2e4", NewMove(E2, E4), false},
		{"a1h8", NewMove(A1, H8), false},
		{"e7e8q", NewMove(E7, E8), false}, // trailing text is ignored
		{"", NoMove, true},
		{"e2", NoMove, true},
		{"e2e", NoMove, true},
		{"i2e4", NoMove, true},
		{"e9e4", NoMove, true},
		{"e2E4", NoMove, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMove(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidMoveText) {
					t.Errorf("error = %v, want ErrInvalidMoveText", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Errorf("ParseMove(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
			}
		})
	}
}

func TestParseUCIMove(t *testing.T) {
	m, err := ParseUCIMove("e7e8q")
	if err != nil || m != NewPromotion(E7, E8, Queen) {
		t.Errorf("ParseUCIMove(e7e8q) = %v, %v", m, err)
	}
	m, err = ParseUCIMove("b2a1n")
	if err != nil || m != NewPromotion(B2, A1, Knight) {
		t.Errorf("ParseUCIMove(b2a1n) = %v, %v", m, err)
	}
	for _, bad := range []string{"e7e8k", "e7e8p", "e7e8qq", "e7"} {
		if _, err := ParseUCIMove(bad); !errors.Is(err, ErrInvalidMoveText) {
			t.Errorf("ParseUCIMove(%q) error = %v", bad, err)
		}
	}
}

func TestMoveText(t *testing.T) {
	promo := NewPromotion(E7, E8, Queen)
	if promo.String() != "e7e8" || promo.UCI() != "e7e8q" {
		t.Errorf("promotion text = %q / %q", promo.String(), promo.UCI())
	}
	if NoMove.String() != "0000" || NoMove.UCI() != "0000" {
		t.Errorf("NoMove text = %q / %q", NoMove.String(), NoMove.UCI())
	}
	if NewMove(G1, F3).UCI() != "g1f3" {
		t.Errorf("g1f3 UCI = %q", NewMove(G1, F3).UCI())
	}
}

func TestMoveEquality(t *testing.T) {
	knight := NewPromotion(A7, A8, Knight)
	queen := NewPromotion(A7, A8, Queen)
	if knight == queen {
		t.Error("promotion variants compare equal")
	}
	if !knight.SameSquares(queen) || !knight.SameSquares(NewMove(A7, A8)) {
		t.Error("SameSquares should ignore the promotion piece")
	}
	if NewMove(A7, A8).IsPromotion() || !queen.IsPromotion() {
		t.Error("IsPromotion wrong")
	}
}

func TestMoveListResolve(t *testing.T) {
	list := MoveList{
		NewMove(A2, A3),
		NewPromotion(B7, B8, Knight),
		NewPromotion(B7, B8, Bishop),
		NewPromotion(B7, B8, Rook),
		NewPromotion(B7, B8, Queen),
	}
	tests := []struct {
		name   string
		in     Move
		want   Move
		wantOK bool
	}{
		{"exact", NewMove(A2, A3), NewMove(A2, A3), true},
		{"explicit underpromotion", NewPromotion(B7, B8, Rook), NewPromotion(B7, B8, Rook), true},
		{"bare promotion square pair", NewMove(B7, B8), NewPromotion(B7, B8, Queen), true},
		{"not in list", NewMove(A2, A4), NoMove, false},
		{"promotion on plain move", NewPromotion(A2, A3, Queen), NoMove, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := list.Resolve(tc.in)
			if got != tc.want || ok != tc.wantOK {
				t.Errorf("Resolve(%v) = %v, %v; want %v, %v", tc.in.UCI(), got.UCI(), ok, tc.want.UCI(), tc.wantOK)
			}
		})
	}
	if got := list.String(); got != "a2a3 b7b8n b7b8b b7b8r b7b8q" {
		t.Errorf("String() = %q", got)
	}
}
