// Package indeterminacy computes and classifies the degree of static
// indeterminacy GH = r + 3*b - 3*n - h (spec §4.C).
package indeterminacy

import "github.com/alexiusacademia/goframe/internal/model"

// Class is the three-way classification of a structure by its degree
// of static indeterminacy.
type Class int

const (
	Unstable      Class = iota // GH < 0: fatal
	Isostatic                  // GH == 0: direct equilibrium, no force method needed
	Indeterminate              // GH > 0: force method required
)

func (c Class) String() string {
	switch c {
	case Unstable:
		return "unstable"
	case Isostatic:
		return "isostatic"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Compute returns GH and its classification for the given model.
func Compute(m *model.Model) (gh int, class Class) {
	gh = m.Indeterminacy()
	switch {
	case gh < 0:
		class = Unstable
	case gh == 0:
		class = Isostatic
	default:
		class = Indeterminate
	}
	return gh, class
}
