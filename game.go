package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/neptune-chess/neptune/internal/board"
	"github.com/neptune-chess/neptune/internal/diagram"
	"github.com/neptune-chess/neptune/internal/engine"
	"github.com/neptune-chess/neptune/internal/storage"
)

// game is one console game between a human and the engine.
type game struct {
	pos   board.Position
	side  board.Color
	human board.Color
	eng   *engine.Engine
	prefs *storage.UserPreferences

	in  *bufio.Scanner
	out io.Writer
}

func newGame(startFEN string, prefs *storage.UserPreferences, in io.Reader, out io.Writer) (*game, error) {
	pos, side, err := board.ParseFEN(startFEN)
	if err != nil {
		return nil, err
	}
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("starting position: %w", err)
	}

	eng := engine.NewEngine(prefs.Depth)
	eng.Parallel = prefs.Parallel

	return &game{
		pos:   pos,
		side:  side,
		human: prefs.PlayerColor.Board(),
		eng:   eng,
		prefs: prefs,
		in:    bufio.NewScanner(in),
		out:   out,
	}, nil
}

// play runs the game until it ends, the human quits, input runs out or ctx
// is cancelled.
func (g *game) play(ctx context.Context) (*storage.GameRecord, storage.GameResult) {
	started := time.Now()
	record := &storage.GameRecord{
		StartFEN:   g.pos.FEN(g.side),
		Result:     storage.ResultOngoing,
		HumanColor: g.prefs.PlayerColor,
		Depth:      g.eng.EffectiveDepth(),
		Started:    started,
	}
	g.eng.OnInfo = func(info engine.SearchInfo) {
		fmt.Fprintf(g.out, "Engine plays %s (%s, %d nodes, %v)\n",
			info.Move.UCI(), engine.ScoreString(info.Score, info.Depth), info.Nodes, info.Time.Round(time.Millisecond))
	}

	for {
		fmt.Fprint(g.out, g.pos.String())

		if !g.pos.HasLegalMoves(g.side) {
			record.Result = g.finalResult()
			break
		}

		var m board.Move
		var err error
		if g.side == g.human {
			m, err = g.readMove()
		} else {
			m, _, err = g.eng.BestMove(ctx, &g.pos, g.side)
		}
		if err != nil {
			fmt.Fprintf(g.out, "Game stopped: %v\n", err)
			break
		}

		g.pos.MakeMove(m, g.side)
		record.Moves = append(record.Moves, m.UCI())
		g.side = g.side.Other()
	}

	record.Duration = time.Since(started)
	won := (record.Result == storage.ResultWhiteWins && g.human == board.White) ||
		(record.Result == storage.ResultBlackWins && g.human == board.Black)
	result := storage.GameResult{
		Draw:       record.Result == storage.ResultDraw,
		Won:        won,
		HumanColor: g.prefs.PlayerColor,
		Depth:      g.eng.EffectiveDepth(),
		Duration:   record.Duration,
	}
	return record, result
}

// finalResult announces and returns the result when the side to move has
// no legal moves.
func (g *game) finalResult() string {
	if !g.pos.InCheck(g.side) {
		fmt.Fprintln(g.out, "Stalemate. The game is drawn.")
		return storage.ResultDraw
	}
	fmt.Fprintf(g.out, "Checkmate. %v wins.\n", g.side.Other())
	if g.side == board.White {
		return storage.ResultBlackWins
	}
	return storage.ResultWhiteWins
}

var errQuit = errors.New("quit")

// readMove prompts until the human enters a legal move. A promotion
// without a piece letter promotes to a queen.
func (g *game) readMove() (board.Move, error) {
	legal := g.pos.GenerateLegalMoves(g.side)
	for {
		fmt.Fprintf(g.out, "%v to move: ", g.side)
		if !g.in.Scan() {
			if err := g.in.Err(); err != nil {
				return board.NoMove, err
			}
			return board.NoMove, io.EOF
		}
		text := strings.TrimSpace(g.in.Text())

		switch text {
		case "quit", "exit":
			return board.NoMove, errQuit
		case "moves":
			fmt.Fprintln(g.out, legal.String())
			continue
		}

		parse := board.ParseMove
		if len(text) == 5 {
			parse = board.ParseUCIMove
		}
		m, err := parse(text)
		if errors.Is(err, board.ErrInvalidMoveText) {
			fmt.Fprintf(g.out, "Cannot read %q; enter a move like e2e4.\n", text)
			continue
		}
		if move, ok := legal.Resolve(m); ok {
			return move, nil
		}
		fmt.Fprintf(g.out, "%s is not legal here. Type \"moves\" to list legal moves.\n", text)
	}
}

func writeDiagrams(pos *board.Position, svgPath, pngPath string) error {
	opts := diagram.Options{LastMove: true, Coordinates: true}
	if svgPath != "" {
		if err := writeFile(svgPath, func(w io.Writer) error { return diagram.WriteSVG(w, pos, opts) }); err != nil {
			return fmt.Errorf("write %s: %w", svgPath, err)
		}
	}
	if pngPath != "" {
		if err := writeFile(pngPath, func(w io.Writer) error { return diagram.WritePNG(w, pos, opts) }); err != nil {
			return fmt.Errorf("write %s: %w", pngPath, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
