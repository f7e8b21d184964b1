package storage

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/neptune-chess/neptune/internal/board"
)

func openTestStorage(t *testing.T, dir string) *Storage {
	t.Helper()
	s, err := NewStorageAt(dir)
	if err != nil {
		t.Fatalf("NewStorageAt: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStorage(t *testing.T) {
	t.Run("DefaultPreferences", func(t *testing.T) {
		prefs := DefaultPreferences()
		if prefs.Username != "Player" {
			t.Errorf("Expected username 'Player', got '%s'", prefs.Username)
		}
		if prefs.Depth != 3 {
			t.Errorf("Expected depth 3, got %d", prefs.Depth)
		}
		if prefs.PlayerColor != ColorWhite || prefs.PlayerColor.Board() != board.White {
			t.Errorf("Expected to play white by default")
		}
		if prefs.Parallel {
			t.Errorf("Expected sequential search by default")
		}
	})

	t.Run("NewGameStats", func(t *testing.T) {
		stats := NewGameStats()
		if stats.GamesPlayed != 0 {
			t.Errorf("Expected 0 games played")
		}
		if stats.GetWinRate() != 0 {
			t.Errorf("Expected 0 win rate")
		}
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := &GameStats{
			GamesPlayed: 10,
			Wins:        5,
			Losses:      3,
			Draws:       2,
		}
		rate := stats.GetWinRate()
		if rate != 50 {
			t.Errorf("Expected 50%% win rate, got %.2f%%", rate)
		}
	})
}

func TestPreferencesPersist(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStorageAt(dir)
	if err != nil {
		t.Fatal(err)
	}
	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v", first, err)
	}
	prefs, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Depth != DefaultPreferences().Depth {
		t.Errorf("empty database should give defaults, got %+v", prefs)
	}

	prefs.Depth = 5
	prefs.PlayerColor = ColorBlack
	prefs.Parallel = true
	if err := s.SavePreferences(prefs); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s = openTestStorage(t, dir)
	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if got.Depth != 5 || got.PlayerColor != ColorBlack || !got.Parallel {
		t.Errorf("reloaded preferences = %+v", got)
	}
	if first, _ := s.IsFirstLaunch(); first {
		t.Error("first launch flag not persisted")
	}
}

func TestRecordGameStats(t *testing.T) {
	s := openTestStorage(t, t.TempDir())

	results := []GameResult{
		{Won: true, HumanColor: ColorWhite, Depth: 2, Duration: time.Minute},
		{Won: true, HumanColor: ColorBlack, Depth: 2, Duration: time.Minute},
		{Draw: true, HumanColor: ColorWhite, Depth: 3, Duration: time.Minute},
		{HumanColor: ColorWhite, Depth: 3, Duration: time.Minute},
		{Won: true, HumanColor: ColorWhite, Depth: 3, Duration: time.Minute},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 5 || stats.Wins != 3 || stats.Draws != 1 || stats.Losses != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.LongestWinStrk != 2 || stats.CurrentStreak != 1 {
		t.Errorf("streaks = %d longest, %d current", stats.LongestWinStrk, stats.CurrentStreak)
	}
	if stats.WinsByColor["white"] != 2 || stats.WinsByColor["black"] != 1 {
		t.Errorf("wins by color = %v", stats.WinsByColor)
	}
	if stats.WinsByDepth["depth2"] != 2 || stats.WinsByDepth["depth3"] != 1 {
		t.Errorf("wins by depth = %v", stats.WinsByDepth)
	}
	if stats.TotalPlayTime != 5*time.Minute {
		t.Errorf("play time = %v", stats.TotalPlayTime)
	}
}

func TestGameRecords(t *testing.T) {
	s := openTestStorage(t, t.TempDir())

	first := &GameRecord{
		Moves:      []string{"f2f3", "e7e5", "g2g4", "d8h4"},
		Result:     ResultBlackWins,
		HumanColor: ColorWhite,
		Depth:      2,
		Started:    time.Now(),
	}
	second := &GameRecord{
		StartFEN: "8/P7/8/8/8/8/8/k6K w - - 0 1",
		Moves:    []string{"a7a8q"},
		Result:   ResultOngoing,
	}
	for _, rec := range []*GameRecord{first, second} {
		if err := s.SaveGame(rec); err != nil {
			t.Fatal(err)
		}
	}
	if first.ID == 0 || second.ID <= first.ID {
		t.Fatalf("IDs not assigned in order: %d, %d", first.ID, second.ID)
	}

	loaded, err := s.LoadGame(first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Result != ResultBlackWins || len(loaded.Moves) != 4 {
		t.Errorf("loaded = %+v", loaded)
	}

	pos, side, err := loaded.Replay()
	if err != nil {
		t.Fatal(err)
	}
	if !pos.IsCheckmate(side) || side != board.White {
		t.Errorf("fool's mate replay should end with white mated:\n%v", pos.String())
	}

	games, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 || games[0].ID != first.ID || games[1].ID != second.ID {
		t.Errorf("ListGames = %+v", games)
	}

	if err := s.DeleteGame(first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadGame(first.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("LoadGame after delete: %v", err)
	}
	if err := s.DeleteGame(first.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second DeleteGame: %v", err)
	}
}

func TestReplayRejectsIllegalMoves(t *testing.T) {
	tests := []struct {
		name string
		rec  GameRecord
		want error
	}{
		{"illegal move", GameRecord{Moves: []string{"e2e5"}}, board.ErrIllegalMoveApplied},
		{"bad text", GameRecord{Moves: []string{"e2"}}, board.ErrInvalidMoveText},
		{"bad fen", GameRecord{StartFEN: "garbage"}, board.ErrInvalidFEN},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := tc.rec.Replay(); !errors.Is(err, tc.want) {
				t.Errorf("Replay error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv(DataDirEnv, "")
	if runtime.GOOS != "darwin" && runtime.GOOS != "windows" {
		t.Setenv("XDG_DATA_HOME", t.TempDir())
	}

	// Test that GetDataDir returns a valid path
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if filepath.Base(dataDir) != appName {
		t.Errorf("GetDataDir = %s, want a %s directory", dataDir, appName)
	}

	// Verify directory exists
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if filepath.Dir(dbDir) != dataDir {
		t.Errorf("database dir %s is not inside %s", dbDir, dataDir)
	}

	t.Logf("Data directory: %s", dataDir)
}

func TestDataDirOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom")
	t.Setenv(DataDirEnv, dir)

	got, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if got != dir {
		t.Errorf("GetDataDir = %s, want %s", got, dir)
	}
	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if dbDir != filepath.Join(dir, "db") {
		t.Errorf("GetDatabaseDir = %s", dbDir)
	}
	if info, err := os.Stat(dbDir); err != nil || !info.IsDir() {
		t.Errorf("database directory not created: %v", err)
	}
}
