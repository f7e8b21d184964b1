// Neptune - a console chess game against a fixed-depth minimax engine
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/neptune-chess/neptune/internal/board"
	"github.com/neptune-chess/neptune/internal/engine"
	"github.com/neptune-chess/neptune/internal/storage"
)

var (
	depth     = flag.Int("depth", 0, "search depth in plies (default: stored preference)")
	colorFlag = flag.String("color", "", "color you play, white or black (default: stored preference)")
	parallel  = flag.Bool("parallel", false, "search root moves concurrently")
	fen       = flag.String("fen", board.StartFEN, "starting position")
	dbDir     = flag.String("db", "", "database directory (default: platform data directory)")
	svgPath   = flag.String("svg", "", "write an SVG diagram of the final position to this file")
	pngPath   = flag.String("png", "", "write a PNG diagram of the final position to this file")
	listGames = flag.Bool("games", false, "list stored games and statistics, then exit")
)

func main() {
	flag.Parse()

	store, err := openStorage(*dbDir)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if *listGames {
		if err := printGames(os.Stdout, store); err != nil {
			log.Fatal(err)
		}
		return
	}

	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Fatal(err)
	}
	if err := applyFlags(prefs); err != nil {
		log.Fatal(err)
	}
	if err := store.SavePreferences(prefs); err != nil {
		log.Printf("Warning: preferences not saved: %v", err)
	}

	if first, err := store.IsFirstLaunch(); err == nil && first {
		fmt.Println("Welcome to Neptune. Enter moves as four characters, e.g. e2e4; \"quit\" ends the game.")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, err := newGame(*fen, prefs, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	record, result := g.play(ctx)

	if err := store.SaveGame(record); err != nil {
		log.Printf("Warning: game not saved: %v", err)
	}
	if record.Result != storage.ResultOngoing {
		if err := store.RecordGame(result); err != nil {
			log.Printf("Warning: statistics not updated: %v", err)
		}
	}

	if err := writeDiagrams(&g.pos, *svgPath, *pngPath); err != nil {
		log.Fatal(err)
	}
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.NewStorageAt(dir)
}

// applyFlags overrides stored preferences with the flags given on the
// command line.
func applyFlags(prefs *storage.UserPreferences) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "depth":
			if *depth < 1 || *depth > engine.MaxDepth {
				err = fmt.Errorf("depth must be between 1 and %d, got %d", engine.MaxDepth, *depth)
				return
			}
			prefs.Depth = *depth
		case "color":
			c, ok := board.ParseColor(strings.ToLower(*colorFlag))
			if !ok {
				err = fmt.Errorf("unknown color %q", *colorFlag)
				return
			}
			prefs.PlayerColor = storage.ColorWhite
			if c == board.Black {
				prefs.PlayerColor = storage.ColorBlack
			}
		case "parallel":
			prefs.Parallel = *parallel
		}
	})
	return err
}

func printGames(w io.Writer, store *storage.Storage) error {
	games, err := store.ListGames()
	if err != nil {
		return err
	}
	for _, g := range games {
		fmt.Fprintf(w, "#%d %s  %s as %s, depth %d, %d moves\n",
			g.ID, g.Started.Format("2006-01-02 15:04"), g.Result, g.HumanColor, g.Depth, len(g.Moves))
	}

	stats, err := store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Played %d: %d won, %d lost, %d drawn (%.0f%%), best streak %d\n",
		stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.GetWinRate(), stats.LongestWinStrk)
	return nil
}
