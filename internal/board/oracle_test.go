package board

import (
	"math/rand"
	"sort"
	"strings"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

// The tests in this file compare move lists against two independent
// generators, as sets of UCI strings.

func sortedUCI(ml MoveList) []string {
	out := ml.Strings()
	sort.Strings(out)
	return out
}

func dragontoothUCI(b *dragontoothmg.Board) []string {
	moves := b.GenerateLegalMoves()
	out := make([]string, 0, len(moves))
	for i := range moves {
		out = append(out, moves[i].String())
	}
	sort.Strings(out)
	return out
}

func notnilUCI(moves []*chess.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		s := m.S1().String() + m.S2().String()
		switch m.Promo() {
		case chess.Knight:
			s += "n"
		case chess.Bishop:
			s += "b"
		case chess.Rook:
			s += "r"
		case chess.Queen:
			s += "q"
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func TestMoveSetsMatchDragontooth(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}

	var walk func(t *testing.T, pos *Position, c Color, dt *dragontoothmg.Board, depth int)
	walk = func(t *testing.T, pos *Position, c Color, dt *dragontoothmg.Board, depth int) {
		t.Helper()
		ours := pos.GenerateLegalMoves(c)
		got, want := strings.Join(sortedUCI(ours), " "), strings.Join(dragontoothUCI(dt), " ")
		if got != want {
			t.Fatalf("move sets differ in %s\n got %s\nwant %s", pos.FEN(c), got, want)
		}
		if depth == 0 {
			return
		}
		dtMoves := dt.GenerateLegalMoves()
		for _, m := range ours {
			child := pos.Clone()
			child.MakeMove(m, c)
			for i := range dtMoves {
				if dtMoves[i].String() != m.UCI() {
					continue
				}
				unapply := dt.Apply(dtMoves[i])
				walk(t, &child, c.Other(), dt, depth-1)
				unapply()
				break
			}
		}
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos, side := MustParseFEN(fen)
			dt := dragontoothmg.ParseFen(fen)
			walk(t, &pos, side, &dt, 2)
		})
	}
}

func TestRandomPlayoutsMatchNotnil(t *testing.T) {
	const (
		games    = 20
		maxPlies = 200
	)
	rng := rand.New(rand.NewSource(42))

	for g := 0; g < games; g++ {
		game := chess.NewGame()
		pos := NewPosition()
		side := White

		for ply := 0; ply < maxPlies && game.Outcome() == chess.NoOutcome; ply++ {
			ours := pos.GenerateLegalMoves(side)
			valid := game.ValidMoves()

			got, want := strings.Join(sortedUCI(ours), " "), strings.Join(notnilUCI(valid), " ")
			if got != want {
				t.Fatalf("game %d ply %d: move sets differ in %s\n got %s\nwant %s",
					g, ply, pos.FEN(side), got, want)
			}
			if len(valid) == 0 {
				break
			}

			pick := valid[rng.Intn(len(valid))]
			if err := game.Move(pick); err != nil {
				t.Fatalf("game %d ply %d: oracle rejected its own move: %v", g, ply, err)
			}
			m, err := ParseUCIMove(notnilUCI([]*chess.Move{pick})[0])
			if err != nil {
				t.Fatal(err)
			}
			if err := pos.MakeMoveChecked(m, side); err != nil {
				t.Fatalf("game %d ply %d: %v", g, ply, err)
			}
			side = side.Other()
		}
	}
}
