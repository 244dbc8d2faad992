package grid

import (
	"errors"
	"strings"
)

// ErrMalformedGrid is returned when a grid's rows are empty, ragged, or
// contain characters outside the open/blocked alphabet.
var ErrMalformedGrid = errors.New("malformed grid")

// Parse normalizes raw grid text into a Grid and extracts its variables.
//
// Each input line is a row; tabs and spaces are stripped as separators
// before the row is measured. The remaining characters must be either '#'
// (blocked) or any other non-whitespace rune (open — the character itself,
// usually a placeholder letter, is discarded once classified). The grid's
// own trailing newline is ignored. Every normalized row must share the
// width of the first row, or parsing fails with ErrMalformedGrid.
func Parse(text string) (*Grid, error) {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil, ErrMalformedGrid
	}

	rawLines := strings.Split(text, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		line = strings.TrimRight(line, "\r")
		lines = append(lines, normalizeRow(line))
	}

	if len(lines) == 0 || lines[0] == "" {
		return nil, ErrMalformedGrid
	}

	cols := len(lines[0])
	for _, line := range lines {
		if len(line) != cols {
			return nil, ErrMalformedGrid
		}
	}

	g := &Grid{
		Rows: len(lines),
		Cols: cols,
	}
	g.Cells = make([][]Cell, g.Rows)
	for r, line := range lines {
		g.Cells[r] = make([]Cell, cols)
		for c, ch := range line {
			kind := Open
			if ch == '#' {
				kind = Blocked
			}
			g.Cells[r][c] = Cell{Row: r, Col: c, Kind: kind}
		}
	}

	g.Variables = Extract(g)
	return g, nil
}

// normalizeRow strips tab and space separators from a raw grid line.
func normalizeRow(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if r == '\t' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
