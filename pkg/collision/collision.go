// Package collision builds the N×N sparse collision matrix that the solver
// consults to check cross-variable consistency, per spec §4.4.
package collision

import "github.com/crossplay/crossgen/pkg/grid"

// Link records that the owning variable collides with Other at a single
// shared cell: SelfIndex is the letter position in the owning variable's
// word, OtherIndex the letter position in Other's word. Both must hold the
// same letter in any consistent assignment.
type Link struct {
	Other      int
	SelfIndex  int
	OtherIndex int
}

// Matrix is the collision matrix C, stored as an adjacency list: Neighbors[v]
// holds every variable v collides with, plus the intersecting index pair.
// Only horizontal/vertical pairs can collide — two variables running the
// same direction never share a cell by construction (§4.2), so same-axis
// entries are never produced.
type Matrix struct {
	Neighbors [][]Link
}

// Build constructs C for the given variable list. Variables must carry dense
// IDs in [0, N) as produced by grid.Extract.
func Build(vars []grid.Variable) *Matrix {
	m := &Matrix{Neighbors: make([][]Link, len(vars))}

	for _, h := range vars {
		if h.Direction != grid.Horizontal {
			continue
		}
		for _, v := range vars {
			if v.Direction != grid.Vertical {
				continue
			}
			if v.AnchorCol < h.AnchorCol || v.AnchorCol > h.AnchorCol+h.Length-1 {
				continue
			}
			if h.AnchorRow < v.AnchorRow || h.AnchorRow > v.AnchorRow+v.Length-1 {
				continue
			}
			kx := v.AnchorCol - h.AnchorCol
			ky := h.AnchorRow - v.AnchorRow
			m.Neighbors[h.ID] = append(m.Neighbors[h.ID], Link{Other: v.ID, SelfIndex: kx, OtherIndex: ky})
			m.Neighbors[v.ID] = append(m.Neighbors[v.ID], Link{Other: h.ID, SelfIndex: ky, OtherIndex: kx})
		}
	}

	return m
}

// Degree returns the number of variables id collides with.
func (m *Matrix) Degree(id int) int {
	return len(m.Neighbors[id])
}
