// Package storage provides SQLite-based persistence for runs and the
// named-player leaderboard.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// GameID is the game identifier runs are recorded under.
const GameID = "runner"

// Username limits.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 24
)

var (
	// ErrUsernameTaken is returned when registering a name that already exists.
	ErrUsernameTaken = errors.New("storage: username taken")
	// ErrInvalidUsername is returned for names that are too short or too long.
	ErrInvalidUsername = errors.New("storage: invalid username")
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// Player is a registered leaderboard entry.
type Player struct {
	Username  string
	BestScore int
	Runs      int
	CreatedAt time.Time
}

// ScoreEntry represents a single recorded run.
type ScoreEntry struct {
	ID        int64
	RunID     string
	GameID    string
	Player    string
	Score     int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Reports arrive from many sessions; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS players (
			username TEXT PRIMARY KEY,
			best_score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_players_best ON players(best_score DESC);

		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_game_id ON scores(game_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);
		CREATE INDEX IF NOT EXISTS idx_scores_player ON scores(player);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ValidateUsername trims a name and checks its length.
func ValidateUsername(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinUsernameLen {
		return "", fmt.Errorf("%w: %q is shorter than %d characters", ErrInvalidUsername, name, MinUsernameLen)
	}
	if n > MaxUsernameLen {
		return "", fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidUsername, name, MaxUsernameLen)
	}
	return name, nil
}

// RegisterPlayer claims a username. Names are unique.
func (s *Store) RegisterPlayer(ctx context.Context, username string) (*Player, error) {
	name, err := ValidateUsername(username)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM players WHERE username = ?", name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot check username: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%w: %q", ErrUsernameTaken, name)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO players (username) VALUES (?)", name); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", ErrUsernameTaken, name)
		}
		return nil, fmt.Errorf("storage: cannot register player: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: cannot commit player: %w", err)
	}

	return s.Player(ctx, name)
}

// Player returns a registered player, or nil if the name is unknown.
func (s *Store) Player(ctx context.Context, username string) (*Player, error) {
	var p Player
	var createdAt any
	err := s.db.QueryRowContext(ctx,
		`SELECT p.username, p.best_score, p.created_at,
		        (SELECT COUNT(*) FROM scores WHERE player = p.username)
		 FROM players p
		 WHERE p.username = ?`,
		username,
	).Scan(&p.Username, &p.BestScore, &createdAt, &p.Runs)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player: %w", err)
	}

	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// ReportScore records a finished run for a player. The player is registered
// on first report, and their best score only ever goes up.
func (s *Store) ReportScore(ctx context.Context, player string, score int) error {
	name, err := ValidateUsername(player)
	if err != nil {
		return err
	}
	if score < 0 {
		return fmt.Errorf("storage: negative score %d", score)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO players (username) VALUES (?)", name,
	); err != nil {
		return fmt.Errorf("storage: cannot register player: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO scores (run_id, game_id, player, score) VALUES (?, ?, ?, ?)",
		uuid.NewString(), GameID, name, score,
	); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE players SET best_score = ? WHERE username = ? AND best_score < ?",
		score, name, score,
	); err != nil {
		return fmt.Errorf("storage: cannot update best score: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return nil
}

// TopPlayers returns the leaderboard: players ordered by best score.
func (s *Store) TopPlayers(ctx context.Context, limit int) ([]Player, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.username, p.best_score, p.created_at,
		        (SELECT COUNT(*) FROM scores WHERE player = p.username)
		 FROM players p
		 ORDER BY p.best_score DESC, p.created_at ASC, p.username ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		var createdAt any
		if err := rows.Scan(&p.Username, &p.BestScore, &createdAt, &p.Runs); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		players = append(players, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return players, nil
}

// TopScores retrieves the top N runs for the given game.
// Results are ordered by score descending.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, game_id, player, score, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.RunID, &e.GameID, &e.Player, &e.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// ClearScores deletes all runs for the given game and resets best scores.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	if _, err := s.db.Exec("UPDATE players SET best_score = 0"); err != nil {
		return fmt.Errorf("storage: cannot reset best scores: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	Players    int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	// Get count, players, high, avg, total
	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT player), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.Players, &stats.HighScore, &stats.AvgScore, &stats.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	// Get last played
	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY id DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
