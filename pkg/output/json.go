// Package output formats a solved instance for external consumption, the
// same JSON export shape the teacher's pkg/output used for puzzles.
package output

import (
	"encoding/json"

	"github.com/crossplay/crossgen/pkg/grid"
	"github.com/crossplay/crossgen/pkg/solve"
)

// VariableJSON describes one solved variable's placement and assigned word.
type VariableJSON struct {
	ID        int    `json:"id"`
	Word      string `json:"word"`
	Direction string `json:"direction"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Length    int    `json:"length"`
}

// StatsJSON mirrors solve.Stats for export.
type StatsJSON struct {
	Variables  int   `json:"variables"`
	Collisions int   `json:"collisions"`
	Attempts   int   `json:"attempts"`
	Backtracks int   `json:"backtracks"`
	ElapsedMs  int64 `json:"elapsedMs"`
}

// SolveResultJSON represents a completed solve for export via the CLI or API.
type SolveResultJSON struct {
	Rows      int            `json:"rows"`
	Cols      int            `json:"cols"`
	Board     string         `json:"board"`
	Variables []VariableJSON `json:"variables"`
	Stats     StatsJSON      `json:"stats"`
}

// FormatJSON builds the export struct from a solved grid and assignment.
// assignment is indexed by variable id, as returned by solve.Solve.
func FormatJSON(g *grid.Grid, assignment []string, stats solve.Stats) *SolveResultJSON {
	board := solve.Format(g.Rows, g.Cols, g.Variables, assignment)

	vars := make([]VariableJSON, len(g.Variables))
	for i, v := range g.Variables {
		vars[i] = VariableJSON{
			ID:        v.ID,
			Word:      assignment[v.ID],
			Direction: v.Direction.String(),
			Row:       v.AnchorRow,
			Col:       v.AnchorCol,
			Length:    v.Length,
		}
	}

	return &SolveResultJSON{
		Rows:      g.Rows,
		Cols:      g.Cols,
		Board:     board,
		Variables: vars,
		Stats: StatsJSON{
			Variables:  stats.Variables,
			Collisions: stats.Collisions,
			Attempts:   stats.Attempts,
			Backtracks: stats.Backtracks,
			ElapsedMs:  stats.Elapsed.Milliseconds(),
		},
	}
}

// ToJSON serializes a solve result to indented JSON bytes.
func ToJSON(g *grid.Grid, assignment []string, stats solve.Stats) ([]byte, error) {
	result := FormatJSON(g, assignment, stats)
	return json.MarshalIndent(result, "", "  ")
}
