package grid

// MinWordLength is the shortest variable length the validate CLI command
// warns about by default. The solver itself has no opinion on this — any
// variable of length >= 2 is valid per spec.
const MinWordLength = 3

// HasShortVariables reports whether any extracted variable is shorter than
// min. Used by the validate CLI command as a quality lint on a template,
// not by the solver (which accepts any variable of length >= 2).
func HasShortVariables(g *Grid, min int) bool {
	if g == nil {
		return false
	}
	for _, v := range g.Variables {
		if v.Length < min {
			return true
		}
	}
	return false
}
