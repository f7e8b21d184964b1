package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/neptune-chess/neptune/internal/board"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	keyGameSeq     = "game_seq"
	prefixGame     = "game/"
)

// ErrGameNotFound is returned when no game record has the requested ID.
var ErrGameNotFound = errors.New("game not found")

// PlayerColor represents which color the human plays
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
)

// Board returns the board color for c.
func (c PlayerColor) Board() board.Color {
	if c == ColorBlack {
		return board.Black
	}
	return board.White
}

func (c PlayerColor) String() string {
	if c == ColorBlack {
		return "black"
	}
	return "white"
}

// UserPreferences stores user settings
type UserPreferences struct {
	Username    string      `json:"username"`
	Depth       int         `json:"depth"`
	PlayerColor PlayerColor `json:"player_color"`
	Parallel    bool        `json:"parallel"`
	LastPlayed  time.Time   `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		Depth:       3,
		PlayerColor: ColorWhite,
		Parallel:    false,
		LastPlayed:  time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByColor    map[string]int `json:"wins_by_color"`
	WinsByDepth    map[string]int `json:"wins_by_depth"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByColor: make(map[string]int),
		WinsByDepth: make(map[string]int),
	}
}

// GameResult represents the result of a completed game
type GameResult struct {
	Won        bool
	Draw       bool
	HumanColor PlayerColor
	Depth      int
	Duration   time.Duration
}

// Game results in PGN form.
const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
	ResultOngoing   = "*"
)

// GameRecord is a stored game: the starting position and the moves played
// from it in UCI text.
type GameRecord struct {
	ID         uint64        `json:"id"`
	StartFEN   string        `json:"start_fen"`
	Moves      []string      `json:"moves"`
	Result     string        `json:"result"`
	HumanColor PlayerColor   `json:"human_color"`
	Depth      int           `json:"depth"`
	Started    time.Time     `json:"started"`
	Duration   time.Duration `json:"duration"`
}

// Replay rebuilds the final position of the record and the side to move
// in it. Every move is checked for legality.
func (r *GameRecord) Replay() (board.Position, board.Color, error) {
	startFEN := r.StartFEN
	if startFEN == "" {
		startFEN = board.StartFEN
	}
	pos, side, err := board.ParseFEN(startFEN)
	if err != nil {
		return pos, side, fmt.Errorf("game %d: %w", r.ID, err)
	}
	for i, text := range r.Moves {
		m, err := board.ParseUCIMove(text)
		if err != nil {
			return pos, side, fmt.Errorf("game %d move %d: %w", r.ID, i+1, err)
		}
		if err := pos.MakeMoveChecked(m, side); err != nil {
			return pos, side, fmt.Errorf("game %d move %d: %w", r.ID, i+1, err)
		}
		side = side.Other()
	}
	return pos, side, nil
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return NewStorageAt(dbDir)
}

// NewStorageAt opens the database in dir.
func NewStorageAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	var firstLaunch bool = true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			firstLaunch = true
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// putJSON stores v under key.
func (s *Storage) putJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// getJSON decodes the value under key into v and reports whether it was
// present.
func (s *Storage) getJSON(key []byte, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON([]byte(keyPreferences), prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON([]byte(keyPreferences), prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON([]byte(keyStats), stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.getJSON([]byte(keyStats), stats)
	return stats, err
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	colorKey := result.HumanColor.String()
	depthKey := fmt.Sprintf("depth%d", result.Depth)

	if result.Draw {
		stats.Draws++
		stats.CurrentStreak = 0
	} else if result.Won {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsByColor[colorKey]++
		stats.WinsByDepth[depthKey]++
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// gameKey orders records by ID under the game prefix.
func gameKey(id uint64) []byte {
	key := make([]byte, len(prefixGame)+8)
	copy(key, prefixGame)
	binary.BigEndian.PutUint64(key[len(prefixGame):], id)
	return key
}

// SaveGame stores rec. A record without an ID is assigned the next one.
func (s *Storage) SaveGame(rec *GameRecord) error {
	if rec.ID == 0 {
		seq, err := s.db.GetSequence([]byte(keyGameSeq), 1)
		if err != nil {
			return err
		}
		defer seq.Release()

		id, err := seq.Next()
		if err != nil {
			return err
		}
		// Sequences start at 0; 0 means unassigned.
		if id == 0 {
			if id, err = seq.Next(); err != nil {
				return err
			}
		}
		rec.ID = id
	}
	return s.putJSON(gameKey(rec.ID), rec)
}

// LoadGame returns the record with the given ID.
func (s *Storage) LoadGame(id uint64) (*GameRecord, error) {
	rec := &GameRecord{}
	found, err := s.getJSON(gameKey(id), rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrGameNotFound, id)
	}
	return rec, nil
}

// ListGames returns every stored record in ID order.
func (s *Storage) ListGames() ([]GameRecord, error) {
	var games []GameRecord
	prefix := []byte(prefixGame)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			games = append(games, rec)
		}
		return nil
	})

	return games, err
}

// DeleteGame removes the record with the given ID.
func (s *Storage) DeleteGame(id uint64) error {
	if _, err := s.LoadGame(id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}
