package models

import "time"

// Outcome is the terminal result of a solve run.
type Outcome string

const (
	OutcomeSolved      Outcome = "solved"
	OutcomeUnsolvable  Outcome = "unsolvable"
	OutcomeMalformed   Outcome = "malformed"
)

// SolveRun records one invocation of the CSP engine against a
// (grid, dictionary) instance: its inputs' identity, the outcome, the board
// on success, and the search diagnostics the solver exposes as an
// out-parameter (pkg/solve.Stats) without owning a clock itself.
type SolveRun struct {
	ID         string    `json:"id"`
	GridHash   string    `json:"gridHash"`
	DictHash   string    `json:"dictHash"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	Variables  int       `json:"variables"`
	Collisions int       `json:"collisions"`
	Outcome    Outcome   `json:"outcome"`
	Board      string    `json:"board,omitempty"`
	Attempts   int       `json:"attempts"`
	Backtracks int       `json:"backtracks"`
	ElapsedMs  int64     `json:"elapsedMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AdminUser is the single-role account that can reach the stats endpoints.
// There is no public registration: accounts are seeded by cmd/admin.
type AdminUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RunStats summarizes solve_runs for the stats command/endpoint.
type RunStats struct {
	TotalRuns       int     `json:"totalRuns"`
	Solved          int     `json:"solved"`
	Unsolvable      int     `json:"unsolvable"`
	Malformed       int     `json:"malformed"`
	AvgElapsedMs    float64 `json:"avgElapsedMs"`
	AvgBacktracks   float64 `json:"avgBacktracks"`
}
