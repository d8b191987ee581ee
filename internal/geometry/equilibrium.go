package geometry

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrUnstable is returned by SolveIsostatic when the 3x3 equilibrium
// system is singular — the released structure cannot carry the load
// with the given reaction pattern (spec §4.B / §7 Unstable).
var ErrUnstable = errors.New("geometry: unstable equilibrium system")

// DOF names a restrained direction at a node.
type DOF int

const (
	DofRx DOF = iota
	DofRy
	DofMz
)

// UnknownReaction is one of the (exactly three) reaction components an
// isostatic solve determines. For a DofRx/DofRy unknown, Normal
// overrides the named axis with an arbitrary unit direction — the
// inclined-normal roller variant of spec §3.1 — leaving the solved
// value as the reaction's magnitude along that direction rather than
// a global Rx/Ry component.
type UnknownReaction struct {
	At     Point
	DOF    DOF
	Normal *[2]float64
}

// LoadResultant is an external action reduced to its resultant force
// and moment about its own point of application.
type LoadResultant struct {
	At         Point
	Fx, Fy, Mz float64
}

// SolveIsostatic assembles and solves ΣFx=0, ΣFy=0, ΣM=0 (moments
// taken about ref using MomentOfForce) for exactly three unknown
// reaction components, given the resultants of every applied load.
//
// Returns the three unknown values in the order of unknowns.
func SolveIsostatic(unknowns [3]UnknownReaction, loads []LoadResultant, ref Point) ([3]float64, error) {
	a := mat.NewDense(3, 3, nil)

	for col, u := range unknowns {
		switch u.DOF {
		case DofRx:
			nx, ny := 1.0, 0.0
			if u.Normal != nil {
				nx, ny = u.Normal[0], u.Normal[1]
			}
			a.Set(0, col, nx)
			a.Set(1, col, ny)
			a.Set(2, col, MomentOfForce(ref, u.At, nx, ny))
		case DofRy:
			nx, ny := 0.0, 1.0
			if u.Normal != nil {
				nx, ny = u.Normal[0], u.Normal[1]
			}
			a.Set(0, col, nx)
			a.Set(1, col, ny)
			a.Set(2, col, MomentOfForce(ref, u.At, nx, ny))
		case DofMz:
			a.Set(0, col, 0)
			a.Set(1, col, 0)
			a.Set(2, col, 1)
		}
	}

	var fx, fy, mz float64
	for _, l := range loads {
		fx += l.Fx
		fy += l.Fy
		mz += l.Mz + MomentOfForce(ref, l.At, l.Fx, l.Fy)
	}
	b := mat.NewVecDense(3, []float64{-fx, -fy, -mz})

	var lu mat.LU
	lu.Factorize(a)
	if cond := lu.Cond(); cond > 1e14 {
		return [3]float64{}, ErrUnstable
	}

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, b); err != nil {
		return [3]float64{}, ErrUnstable
	}

	return [3]float64{x.AtVec(0), x.AtVec(1), x.AtVec(2)}, nil
}
