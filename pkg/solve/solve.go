package solve

import (
	"errors"
	"time"

	"github.com/crossplay/crossgen/pkg/collision"
	"github.com/crossplay/crossgen/pkg/dictionary"
	"github.com/crossplay/crossgen/pkg/grid"
)

// ErrUnsolvable is returned when the search exhausts every branch without
// finding a total collision-consistent assignment.
var ErrUnsolvable = errors.New("no solution satisfies the collision constraints")

// Stats carries search diagnostics for the CLI and stats commands. It has no
// bearing on solver correctness.
type Stats struct {
	Variables  int
	Collisions int
	Attempts   int
	Backtracks int
	Elapsed    time.Duration
}

// ProgressFunc receives a periodic snapshot of search progress: the current
// recursion depth (variables assigned so far) and the stats accumulated up
// to that point. It runs synchronously on the search goroutine, so callers
// that forward it over a websocket must not block on a slow consumer.
type ProgressFunc func(depth int, stats Stats)

// Solve runs the backtracking search of spec §4.6 and returns the assignment
// as one word per variable, indexed by variable id. domains is consumed
// read-only: the caller's slice and its sub-slices are never mutated,
// matching the frame-local, copy-on-write domain snapshots the algorithm
// requires.
func Solve(vars []grid.Variable, m *collision.Matrix, domains [][]dictionary.Word) ([]string, Stats, error) {
	return SolveWithProgress(vars, m, domains, nil)
}

// SolveWithProgress is Solve with an optional progress callback, invoked
// every time the search backtracks and whenever it descends to a new depth.
// Pass nil for progress to skip instrumentation entirely.
func SolveWithProgress(vars []grid.Variable, m *collision.Matrix, domains [][]dictionary.Word, progress ProgressFunc) ([]string, Stats, error) {
	start := time.Now()
	n := len(vars)
	order := OrderByDegree(vars, m)

	stats := Stats{Variables: n}
	for _, links := range m.Neighbors {
		stats.Collisions += len(links)
	}
	stats.Collisions /= 2

	assignment := make([]dictionary.Word, n)
	assigned := make([]bool, n)

	ok := backtrack(order, 0, m, domains, assignment, assigned, &stats, progress)
	stats.Elapsed = time.Since(start)
	if !ok {
		return nil, stats, ErrUnsolvable
	}

	words := make([]string, n)
	for i, w := range assignment {
		words[i] = w.Text
	}
	return words, stats, nil
}

// backtrack implements one recursion frame. assignment and assigned are
// shared and mutated in place; every assignment this frame makes is undone
// before it returns, so the caller observes no net change on failure.
func backtrack(order []int, pos int, m *collision.Matrix, domains [][]dictionary.Word, assignment []dictionary.Word, assigned []bool, stats *Stats, progress ProgressFunc) bool {
	if pos == len(order) {
		return true
	}
	x := order[pos]

	if progress != nil {
		progress(pos, *stats)
	}

	for _, w := range domains[x] {
		stats.Attempts++
		if !consistent(x, w, m, assignment, assigned) {
			continue
		}

		assignment[x] = w
		assigned[x] = true

		if nextDomains, ok := forwardCheck(x, w, m, domains, assigned); ok {
			if backtrack(order, pos+1, m, nextDomains, assignment, assigned, stats, progress) {
				return true
			}
		}

		assigned[x] = false
		assignment[x] = dictionary.Word{}
		stats.Backtracks++
		if progress != nil {
			progress(pos, *stats)
		}
	}

	return false
}

// consistent checks candidate word w for variable x against every already
// assigned neighbor, per spec §4.6 step 3a.
func consistent(x int, w dictionary.Word, m *collision.Matrix, assignment []dictionary.Word, assigned []bool) bool {
	for _, link := range m.Neighbors[x] {
		if !assigned[link.Other] {
			continue
		}
		if w.Text[link.SelfIndex] != assignment[link.Other].Text[link.OtherIndex] {
			return false
		}
	}
	return true
}

// forwardCheck produces the pruned domain snapshot D' for the frame that
// tentatively assigns w to x: every unassigned neighbor's domain is filtered
// to the candidates that still agree with w at the shared cell. Returns
// ok=false the instant any neighbor's pruned domain goes empty, signalling
// the caller to undo the assignment and try the next candidate.
//
// The returned slice is domains with only the touched neighbor slots
// replaced — untouched entries keep their original backing array, so no
// frame pays for a full deep copy.
func forwardCheck(x int, w dictionary.Word, m *collision.Matrix, domains [][]dictionary.Word, assigned []bool) ([][]dictionary.Word, bool) {
	next := make([][]dictionary.Word, len(domains))
	copy(next, domains)

	for _, link := range m.Neighbors[x] {
		y := link.Other
		if assigned[y] {
			continue
		}
		filtered := make([]dictionary.Word, 0, len(domains[y]))
		for _, candidate := range domains[y] {
			if candidate.Text[link.OtherIndex] == w.Text[link.SelfIndex] {
				filtered = append(filtered, candidate)
			}
		}
		if len(filtered) == 0 {
			return nil, false
		}
		next[y] = filtered
	}

	return next, true
}
