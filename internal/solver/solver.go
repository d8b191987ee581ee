// Package solver solves the compatibility system F·X = b for the
// redundant values, per spec §4.G, grounded on the original's
// SolverSECE/SolucionSECE (sece_solver.py). gonum supplies LU and
// Cholesky; the conjugate-gradient strategy is hand-written since the
// example pack carries no CG routine (see DESIGN.md).
package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/goframe/internal/policy"
)

// Strategy selects how F·X = b is solved.
type Strategy int

const (
	Direct Strategy = iota
	CholeskyStrategy
	Iterative
)

// Solution is the outcome of one compatibility solve.
type Solution struct {
	X              []float64
	Converged      bool
	Residual       float64
	ConditionNumber float64
	UsedFallback   bool
	Warnings       []string
}

// ErrNonFinite is returned when the candidate solution contains NaN/Inf.
var ErrNonFinite = errors.New("solver: non-finite values in solution")

// Solve dispatches to the requested strategy, falling back as spec
// §4.G describes, and reports the residual ‖F·X - b‖.
func Solve(F *mat.SymDense, b []float64, strategy Strategy, maxIter int, tol float64) (*Solution, error) {
	n, _ := F.Dims()
	if n == 0 {
		return &Solution{Converged: true}, nil
	}

	cond := conditionNumber(F)
	var warnings []string
	if cond > policy.ConditionNumberWarning {
		warnings = append(warnings, "ill-conditioned flexibility matrix; solution may be unreliable")
	}

	var x []float64
	var usedFallback bool
	var err error

	var directFallback bool

	switch strategy {
	case CholeskyStrategy:
		x, err = solveCholesky(F, b)
		if err != nil {
			x, directFallback, err = solveDirect(F, b)
			usedFallback = true
			if err == nil {
				warnings = append(warnings, "Cholesky factorization failed; fell back to direct solve")
			}
		}
	case Iterative:
		if maxIter <= 0 {
			maxIter = 10 * n
		}
		if tol <= 0 {
			tol = policy.CompatibilityTolerance
		}
		x, err = solveCG(F, b, maxIter, tol)
		if err != nil {
			x, directFallback, err = solveDirect(F, b)
			usedFallback = true
			if err == nil {
				warnings = append(warnings, "conjugate gradient failed to converge; fell back to direct solve")
			}
		}
	default:
		x, directFallback, err = solveDirect(F, b)
	}

	if directFallback && err == nil {
		warnings = append(warnings, "direct solve was singular; fell back to least-squares")
	}

	if err != nil {
		return nil, err
	}

	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrNonFinite
		}
	}

	residual := residualNorm(F, b, x)

	return &Solution{
		X:               x,
		Converged:       true,
		Residual:        residual,
		ConditionNumber: cond,
		UsedFallback:    usedFallback,
		Warnings:        warnings,
	}, nil
}

// solveDirect tries LU/partial-pivot first; on singularity it falls
// back to a least-squares (QR) solve, reporting the fallback so the
// caller can warn (spec §4.G).
func solveDirect(F *mat.SymDense, b []float64) (x []float64, usedFallback bool, err error) {
	n, _ := F.Dims()
	a := mat.NewDense(n, n, nil)
	a.Copy(F)
	bv := mat.NewVecDense(n, b)

	var lu mat.LU
	lu.Factorize(a)
	if lu.Cond() > 1e14 {
		x, err = leastSquares(a, bv, n)
		return x, true, err
	}
	var xv mat.VecDense
	if err := lu.SolveVecTo(&xv, false, bv); err != nil {
		x, lsErr := leastSquares(a, bv, n)
		return x, true, lsErr
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = xv.AtVec(i)
	}
	return out, false, nil
}

func leastSquares(a *mat.Dense, bv *mat.VecDense, n int) ([]float64, error) {
	var qr mat.QR
	qr.Factorize(a)
	var xv mat.VecDense
	if err := qr.SolveVecTo(&xv, false, bv); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = xv.AtVec(i)
	}
	return out, nil
}

func solveCholesky(F *mat.SymDense, b []float64) ([]float64, error) {
	n, _ := F.Dims()
	var chol mat.Cholesky
	if ok := chol.Factorize(F); !ok {
		return nil, errors.New("solver: matrix is not positive-definite")
	}
	bv := mat.NewVecDense(n, b)
	var xv mat.VecDense
	if err := chol.SolveVecTo(&xv, bv); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = xv.AtVec(i)
	}
	return out, nil
}

// solveCG runs plain conjugate gradient, valid because F is SPD by
// construction (spec §4.F) whenever the redundant choice is sound.
func solveCG(F *mat.SymDense, b []float64, maxIter int, tol float64) ([]float64, error) {
	n, _ := F.Dims()
	x := make([]float64, n)
	r := append([]float64{}, b...)
	p := append([]float64{}, r...)
	rsOld := dot(r, r)

	if math.Sqrt(rsOld) < tol {
		return x, nil
	}

	for iter := 0; iter < maxIter; iter++ {
		ap := mulSym(F, p)
		alpha := rsOld / dot(p, ap)
		for i := range x {
			x[i] += alpha * p[i]
			r[i] -= alpha * ap[i]
		}
		rsNew := dot(r, r)
		if math.Sqrt(rsNew) < tol {
			return x, nil
		}
		beta := rsNew / rsOld
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsOld = rsNew
	}
	return nil, errors.New("solver: conjugate gradient did not converge within the iteration cap")
}

func mulSym(F *mat.SymDense, v []float64) []float64 {
	n, _ := F.Dims()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var s float64
		for j := 0; j < n; j++ {
			s += F.At(i, j) * v[j]
		}
		out[i] = s
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func residualNorm(F *mat.SymDense, b, x []float64) float64 {
	ax := mulSym(F, x)
	var s float64
	for i := range b {
		d := ax[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

func conditionNumber(F *mat.SymDense) float64 {
	var eig mat.EigenSym
	if !eig.Factorize(F, false) {
		return math.Inf(1)
	}
	values := eig.Values(nil)
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo <= 0 {
		return math.Inf(1)
	}
	return hi / lo
}
