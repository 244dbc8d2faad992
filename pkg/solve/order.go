// Package solve implements the degree-ordered backtracking search and result
// formatting described in spec §§4.5-4.7.
package solve

import (
	"sort"

	"github.com/crossplay/crossgen/pkg/collision"
	"github.com/crossplay/crossgen/pkg/grid"
)

// OrderByDegree returns a permutation of variable ids sorted by descending
// collision degree, ties broken by ascending id. The order is computed once
// and held fixed for the whole search — no per-node reordering.
func OrderByDegree(vars []grid.Variable, m *collision.Matrix) []int {
	order := make([]int, len(vars))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return m.Degree(order[i]) > m.Degree(order[j])
	})
	return order
}
