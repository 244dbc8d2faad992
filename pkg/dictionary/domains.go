package dictionary

import (
	"errors"
	"fmt"

	"github.com/crossplay/crossgen/pkg/grid"
)

// ErrMalformedDictionary is returned when the word list file is missing,
// empty, or fails format-specific validation (LoadBroda only).
var ErrMalformedDictionary = errors.New("malformed dictionary")

// UnsolvableNoCandidatesError reports that a variable has no dictionary
// word of its length — detected before search begins, per spec §4.3.
type UnsolvableNoCandidatesError struct {
	Variable grid.Variable
}

func (e *UnsolvableNoCandidatesError) Error() string {
	return fmt.Sprintf("no candidates of length %d for variable %d (%s at %d,%d)",
		e.Variable.Length, e.Variable.ID, e.Variable.Direction, e.Variable.AnchorRow, e.Variable.AnchorCol)
}

// Domains builds the initial per-variable word domain, D0[v] =
// words_of_length[v.Length], for every variable in vars. The returned slice
// is indexed by variable ID. Fails immediately with
// UnsolvableNoCandidatesError if any variable's domain is empty.
func Domains(d *Dictionary, vars []grid.Variable) ([][]Word, error) {
	domains := make([][]Word, len(vars))
	for _, v := range vars {
		words := d.OfLength(v.Length)
		if len(words) == 0 {
			return nil, &UnsolvableNoCandidatesError{Variable: v}
		}
		domains[v.ID] = words
	}
	return domains, nil
}
