package solve

import "strings"

import "github.com/crossplay/crossgen/pkg/grid"

// Format fills a rows x cols board initialized to '#' and writes each
// variable's assigned word into its cells, per spec §4.7. assignment is
// indexed by variable id, as returned by Solve.
func Format(rows, cols int, vars []grid.Variable, assignment []string) string {
	board := make([][]byte, rows)
	for r := range board {
		board[r] = make([]byte, cols)
		for c := range board[r] {
			board[r][c] = '#'
		}
	}

	for _, v := range vars {
		word := assignment[v.ID]
		for k := 0; k < v.Length; k++ {
			r, c := v.CellAt(k)
			board[r][c] = word[k]
		}
	}

	lines := make([]string, rows)
	for r, row := range board {
		lines[r] = string(row)
	}
	return strings.Join(lines, "\n")
}
