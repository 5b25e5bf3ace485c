// Package storage provides SQLite-based persistence for manual-play scores
// and evaluation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single manual-play score record.
type ScoreEntry struct {
	ID        int64
	EnvID     string
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

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			env_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_env_id ON scores(env_id);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(env_id, score DESC);

		CREATE TABLE IF NOT EXISTS eval_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			env_id TEXT NOT NULL,
			policy TEXT NOT NULL,
			reward_mode TEXT NOT NULL,
			episodes INTEGER NOT NULL,
			base_seed INTEGER NOT NULL,
			mean_reward REAL NOT NULL,
			std_reward REAL NOT NULL,
			mean_score REAL NOT NULL,
			max_score INTEGER NOT NULL,
			mean_steps REAL NOT NULL,
			crash_rate REAL NOT NULL,
			timeout_rate REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_eval_runs_env_id ON eval_runs(env_id);

		CREATE TABLE IF NOT EXISTS eval_episodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES eval_runs(run_id),
			episode_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			total_reward REAL NOT NULL,
			score INTEGER NOT NULL,
			length INTEGER NOT NULL DEFAULT 0,
			terminated INTEGER NOT NULL,
			truncated INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_eval_episodes_run ON eval_episodes(run_id);
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

// SaveScore records a new score for the given environment.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(envID string, score int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (env_id, score) VALUES (?, ?)",
		envID, score,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given environment.
// Results are ordered by score descending.
func (s *Store) TopScores(envID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, env_id, score, created_at
		 FROM scores
		 WHERE env_id = ?
		 ORDER BY score DESC
		 LIMIT ?`,
		envID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.EnvID, &e.Score, &createdAt); err != nil {
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

// HighScore returns the highest score for the given environment.
// Returns 0 if no scores exist.
func (s *Store) HighScore(envID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE env_id = ?",
		envID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given environment.
func (s *Store) ClearScores(envID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE env_id = ?", envID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// EnvStats contains aggregated manual-play statistics for an environment.
type EnvStats struct {
	EnvID      string
	GamesCount int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// AllEnvStats retrieves statistics for every environment that has scores.
func (s *Store) AllEnvStats() (map[string]*EnvStats, error) {
	rows, err := s.db.Query(
		`SELECT env_id, COUNT(*), MAX(score), AVG(score), MAX(created_at)
		 FROM scores
		 GROUP BY env_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get env stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*EnvStats)
	for rows.Next() {
		var st EnvStats
		var lastPlayed any
		if err := rows.Scan(&st.EnvID, &st.GamesCount, &st.HighScore, &st.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.EnvID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and the SQLite text form of a DATETIME.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: not found")
