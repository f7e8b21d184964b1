// Package uci speaks the Universal Chess Interface over a line-oriented
// reader and writer.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/neptune-chess/neptune/internal/board"
	"github.com/neptune-chess/neptune/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position board.Position
	side     board.Color

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes writes to out

	// Search state
	searching  bool
	searchDone chan struct{}
	cancel     context.CancelFunc
}

// New creates a new UCI protocol handler reading commands from in and
// writing responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		side:     board.White,
		in:       in,
		out:      out,
	}
}

// Run reads commands until "quit" or the end of input. A search still
// running when input ends is allowed to finish.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			if board.DebugMoveValidation {
				u.printf("info string DEBUG: position %s\n", strings.Join(args, " "))
			}
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleStop()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.printf("%s\nFen: %s\n", u.position.String(), u.position.FEN(u.side))
		case "perft":
			u.handlePerft(args)
		default:
			u.printf("info string Unknown command: %s\n", cmd)
		}
	}

	u.waitSearch()
	return scanner.Err()
}

func (u *UCI) printf(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) println(s string) {
	u.printf("%s\n", s)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name Neptune")
	u.println("id author Neptune Team")
	u.println("")
	u.printf("option name Depth type spin default %d min 1 max %d\n", engine.DefaultDepth, engine.MaxDepth)
	u.println("option name Parallel type check default false")
	u.println("option name Debug type check default false")
	u.println("uciok")
}

// handleNewGame resets the position for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.position = board.NewPosition()
	u.side = board.White
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}
	u.handleStop()

	// Find "moves" keyword
	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	switch args[0] {
	case "startpos":
		u.position = board.NewPosition()
		u.side = board.White
	case "fen":
		pos, side, err := board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.printf("info string Invalid FEN: %v\n", err)
			return
		}
		u.position, u.side = pos, side
	default:
		return
	}

	// Apply moves
	var moves []string
	if movesAt < len(args) {
		moves = args[movesAt+1:]
	}
	for _, moveStr := range moves {
		move, err := u.parseMove(moveStr)
		if err != nil {
			u.printf("info string Invalid move: %v\n", err)
			return
		}
		u.position.MakeMove(move, u.side)
		u.side = u.side.Other()
	}

	if board.DebugMoveValidation {
		legal := u.position.GenerateLegalMoves(u.side)
		u.printf("info string DEBUG: After position setup - side=%v inCheck=%v legal=%d\n",
			u.side, u.position.InCheck(u.side), len(legal))
	}
}

// parseMove converts a UCI move string to a legal move for the side to
// move. A promoting square pair without a piece letter promotes to a queen.
func (u *UCI) parseMove(moveStr string) (board.Move, error) {
	m, err := board.ParseUCIMove(moveStr)
	if err != nil {
		return board.NoMove, err
	}
	legal, ok := u.position.GenerateLegalMoves(u.side).Resolve(m)
	if !ok {
		return board.NoMove, fmt.Errorf("%w: %s for %v", board.ErrIllegalMoveApplied, moveStr, u.side)
	}
	return legal, nil
}

// GoOptions holds parsed "go" command options.
type GoOptions struct {
	Depth int
}

// parseGoOptions parses "go" command arguments. Time controls are
// accepted and ignored; the search always runs to a fixed depth.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes":
			i++
		}
	}

	return opts
}

// handleGo starts a search in the background. It ends with a "bestmove"
// line once the search finishes or is stopped.
func (u *UCI) handleGo(args []string) {
	u.handleStop()
	opts := parseGoOptions(args)

	eng := &engine.Engine{Depth: u.engine.Depth, Parallel: u.engine.Parallel}
	if opts.Depth > 0 {
		eng.Depth = opts.Depth
	}
	side := u.side
	eng.OnInfo = func(info engine.SearchInfo) {
		u.sendInfo(info, side)
	}

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.searching = true
	u.searchDone = make(chan struct{})

	pos := u.position.Clone()

	go func() {
		defer close(u.searchDone)

		bestMove, _, err := eng.BestMove(ctx, &pos, side)
		if err == nil {
			u.printf("bestmove %s\n", bestMove.UCI())
			return
		}

		// Fallback: return first legal move if available
		legal := pos.GenerateLegalMoves(side)
		if len(legal) > 0 {
			u.printf("info string Search interrupted: %v\n", err)
			u.printf("bestmove %s\n", legal[0].UCI())
			return
		}
		// Only send 0000 for checkmate/stalemate (no legal moves)
		u.println("bestmove 0000")
	}()
}

// sendInfo outputs search info in UCI format. Scores are reported from the
// point of view of the side that searched.
func (u *UCI) sendInfo(info engine.SearchInfo, side board.Color) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	score := info.Score
	if side == board.Black {
		score = -score
	}
	if plies, ok := engine.MatePlies(info.Score, info.Depth); ok {
		mateIn := (plies + 1) / 2
		if score < 0 {
			mateIn = -mateIn
		}
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if info.Move != board.NoMove {
		parts = append(parts, "pv "+info.Move.UCI())
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleStop cancels the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.searching {
		u.cancel()
		u.waitSearch()
	}
}

func (u *UCI) waitSearch() {
	if u.searching {
		<-u.searchDone
		u.cancel()
		u.searching = false
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	u.handleStop()
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	// Handle options
	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 || depth > engine.MaxDepth {
			u.printf("info string Invalid depth: %s\n", value)
			return
		}
		u.engine.Depth = depth
	case "parallel":
		u.engine.Parallel = strings.ToLower(value) == "true"
	case "debug":
		enabled := strings.ToLower(value) == "true"
		board.DebugMoveValidation = enabled
		if enabled {
			u.println("info string Debug mode enabled")
		}
	default:
		u.printf("info string Unknown option: %s\n", name)
	}
}

// handlePerft runs a perft test, printing the count below each root move.
func (u *UCI) handlePerft(args []string) {
	u.handleStop()
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.printf("info string Invalid perft depth: %s\n", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	var nodes uint64
	for _, entry := range u.engine.Divide(&u.position, u.side, depth) {
		u.printf("%s: %d\n", entry.Move.UCI(), entry.Nodes)
		nodes += entry.Nodes
	}
	elapsed := time.Since(start)

	u.printf("\nNodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}
