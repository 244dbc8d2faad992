// Package db persists solve history to Postgres and caches solved boards in
// Redis, the same two-store split the teacher uses for puzzles/rooms.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crossplay/crossgen/internal/models"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

type Database struct {
	DB    *sql.DB
	Redis *redis.Client
}

func New(postgresURL, redisURL string) (*Database, error) {
	sqlDB, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Database{DB: sqlDB, Redis: rdb}, nil
}

func (d *Database) Close() error {
	if err := d.DB.Close(); err != nil {
		return err
	}
	return d.Redis.Close()
}

// InitSchema creates the tables the solve service needs.
func (d *Database) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS admin_users (
		id VARCHAR(36) PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS solve_runs (
		id VARCHAR(36) PRIMARY KEY,
		grid_hash VARCHAR(64) NOT NULL,
		dict_hash VARCHAR(64) NOT NULL,
		rows INTEGER NOT NULL,
		cols INTEGER NOT NULL,
		variables INTEGER NOT NULL,
		collisions INTEGER NOT NULL,
		outcome VARCHAR(20) NOT NULL,
		board TEXT,
		attempts INTEGER DEFAULT 0,
		backtracks INTEGER DEFAULT 0,
		elapsed_ms BIGINT DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_solve_runs_instance ON solve_runs(grid_hash, dict_hash);
	CREATE INDEX IF NOT EXISTS idx_solve_runs_outcome ON solve_runs(outcome);
	CREATE INDEX IF NOT EXISTS idx_solve_runs_created_at ON solve_runs(created_at);
	`

	_, err := d.DB.Exec(schema)
	return err
}

// Admin user operations

func (d *Database) CreateAdminUser(user *models.AdminUser) error {
	_, err := d.DB.Exec(`
		INSERT INTO admin_users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	return err
}

func (d *Database) GetAdminUserByEmail(email string) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	err := d.DB.QueryRow(`
		SELECT id, email, password_hash, created_at
		FROM admin_users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// Solve run operations

func (d *Database) CreateSolveRun(run *models.SolveRun) error {
	_, err := d.DB.Exec(`
		INSERT INTO solve_runs (id, grid_hash, dict_hash, rows, cols, variables, collisions,
			outcome, board, attempts, backtracks, elapsed_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, run.ID, run.GridHash, run.DictHash, run.Rows, run.Cols, run.Variables, run.Collisions,
		run.Outcome, run.Board, run.Attempts, run.Backtracks, run.ElapsedMs, run.CreatedAt)
	return err
}

func (d *Database) GetSolveRun(id string) (*models.SolveRun, error) {
	run := &models.SolveRun{}
	var board sql.NullString
	err := d.DB.QueryRow(`
		SELECT id, grid_hash, dict_hash, rows, cols, variables, collisions,
			outcome, board, attempts, backtracks, elapsed_ms, created_at
		FROM solve_runs WHERE id = $1
	`, id).Scan(&run.ID, &run.GridHash, &run.DictHash, &run.Rows, &run.Cols, &run.Variables,
		&run.Collisions, &run.Outcome, &board, &run.Attempts, &run.Backtracks, &run.ElapsedMs, &run.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.Board = board.String
	return run, nil
}

// GetSolveRunByInstance finds the most recent run for an identical
// (grid, dictionary) pair, so a repeat request can skip the search entirely.
func (d *Database) GetSolveRunByInstance(gridHash, dictHash string) (*models.SolveRun, error) {
	run := &models.SolveRun{}
	var board sql.NullString
	err := d.DB.QueryRow(`
		SELECT id, grid_hash, dict_hash, rows, cols, variables, collisions,
			outcome, board, attempts, backtracks, elapsed_ms, created_at
		FROM solve_runs WHERE grid_hash = $1 AND dict_hash = $2
		ORDER BY created_at DESC LIMIT 1
	`, gridHash, dictHash).Scan(&run.ID, &run.GridHash, &run.DictHash, &run.Rows, &run.Cols,
		&run.Variables, &run.Collisions, &run.Outcome, &board, &run.Attempts, &run.Backtracks,
		&run.ElapsedMs, &run.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.Board = board.String
	return run, nil
}

func (d *Database) ListSolveRuns(limit, offset int) ([]models.SolveRun, error) {
	rows, err := d.DB.Query(`
		SELECT id, grid_hash, dict_hash, rows, cols, variables, collisions,
			outcome, board, attempts, backtracks, elapsed_ms, created_at
		FROM solve_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.SolveRun
	for rows.Next() {
		var run models.SolveRun
		var board sql.NullString
		if err := rows.Scan(&run.ID, &run.GridHash, &run.DictHash, &run.Rows, &run.Cols,
			&run.Variables, &run.Collisions, &run.Outcome, &board, &run.Attempts, &run.Backtracks,
			&run.ElapsedMs, &run.CreatedAt); err != nil {
			return nil, err
		}
		run.Board = board.String
		runs = append(runs, run)
	}
	return runs, nil
}

// GetRunStats aggregates outcome counts and averages across all recorded runs.
func (d *Database) GetRunStats() (*models.RunStats, error) {
	stats := &models.RunStats{}
	err := d.DB.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE outcome = 'solved'),
			COUNT(*) FILTER (WHERE outcome = 'unsolvable'),
			COUNT(*) FILTER (WHERE outcome = 'malformed'),
			COALESCE(AVG(elapsed_ms), 0),
			COALESCE(AVG(backtracks), 0)
		FROM solve_runs
	`).Scan(&stats.TotalRuns, &stats.Solved, &stats.Unsolvable, &stats.Malformed,
		&stats.AvgElapsedMs, &stats.AvgBacktracks)
	return stats, err
}

// Redis cache operations — solved boards are cached by instance hash so a
// repeat request for the same grid+dictionary pair is O(1).

func cacheKey(gridHash, dictHash string) string {
	return "solved:" + gridHash + ":" + dictHash
}

func (d *Database) GetCachedBoard(ctx context.Context, gridHash, dictHash string) (string, error) {
	return d.Redis.Get(ctx, cacheKey(gridHash, dictHash)).Result()
}

func (d *Database) SetCachedBoard(ctx context.Context, gridHash, dictHash, board string, ttl time.Duration) error {
	return d.Redis.Set(ctx, cacheKey(gridHash, dictHash), board, ttl).Err()
}

// in-flight registry: concurrent requests for the same instance await one
// solve instead of racing the search, mirroring the teacher's session cache.

func inFlightKey(gridHash, dictHash string) string {
	return "solving:" + gridHash + ":" + dictHash
}

// ClaimInFlight atomically marks an instance as being solved, returning true
// if this caller won the claim.
func (d *Database) ClaimInFlight(ctx context.Context, gridHash, dictHash, runID string) (bool, error) {
	return d.Redis.SetNX(ctx, inFlightKey(gridHash, dictHash), runID, 2*time.Minute).Result()
}

func (d *Database) ReleaseInFlight(ctx context.Context, gridHash, dictHash string) error {
	return d.Redis.Del(ctx, inFlightKey(gridHash, dictHash)).Err()
}
