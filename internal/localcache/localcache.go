// Package localcache caches solve attempts in a local SQLite file when no
// Postgres connection is available, the same scratch-cache role the
// teacher's pkg/clues gave clue_cache.db for LLM-generated clues.
package localcache

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Schema defines the SQL schema for the local solve cache database.
const Schema = `
CREATE TABLE IF NOT EXISTS solve_cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	grid_hash TEXT NOT NULL,
	dict_hash TEXT NOT NULL,
	outcome TEXT NOT NULL,
	board TEXT,
	attempts INTEGER DEFAULT 0,
	backtracks INTEGER DEFAULT 0,
	elapsed_ms INTEGER DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_solve_cache_instance
ON solve_cache(grid_hash, dict_hash);
`

// InitDB initializes the database schema.
func InitDB(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to initialize local cache schema: %w", err)
	}
	return nil
}

// Entry is one recorded solve attempt.
type Entry struct {
	GridHash   string
	DictHash   string
	Outcome    string
	Board      string
	Attempts   int
	Backtracks int
	ElapsedMs  int64
	CreatedAt  time.Time
}

// Cache provides methods for saving and retrieving cached solve attempts.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at path and
// initializes its schema. Pass ":memory:" for an ephemeral cache.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local cache at %s: %w", path, err)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// New wraps an already-open database connection.
func New(db *sql.DB) (*Cache, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get retrieves the most recent cached attempt for an instance.
// Returns (entry, true) if found, (nil, false) if not found or on error.
func (c *Cache) Get(gridHash, dictHash string) (*Entry, bool) {
	if c.db == nil {
		return nil, false
	}

	var e Entry
	var board sql.NullString
	err := c.db.QueryRow(`
		SELECT grid_hash, dict_hash, outcome, board, attempts, backtracks, elapsed_ms, created_at
		FROM solve_cache
		WHERE grid_hash = ? AND dict_hash = ?
		ORDER BY id DESC
		LIMIT 1
	`, gridHash, dictHash).Scan(&e.GridHash, &e.DictHash, &e.Outcome, &board,
		&e.Attempts, &e.Backtracks, &e.ElapsedMs, &e.CreatedAt)

	if err != nil {
		return nil, false
	}
	e.Board = board.String
	return &e, true
}

// Save records a solve attempt.
func (c *Cache) Save(e Entry) error {
	if c.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	if e.GridHash == "" || e.DictHash == "" {
		return fmt.Errorf("grid hash and dict hash are required")
	}

	_, err := c.db.Exec(`
		INSERT INTO solve_cache (grid_hash, dict_hash, outcome, board, attempts, backtracks, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.GridHash, e.DictHash, e.Outcome, e.Board, e.Attempts, e.Backtracks, e.ElapsedMs)
	if err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

// Count returns the number of recorded attempts, for CLI summaries.
func (c *Cache) Count() (int, error) {
	if c.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM solve_cache`).Scan(&n)
	return n, err
}
