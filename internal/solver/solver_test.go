package solver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/goframe/internal/solver"
)

func spd2x2() *mat.SymDense {
	f := mat.NewSymDense(2, nil)
	f.SetSym(0, 0, 4)
	f.SetSym(0, 1, 1)
	f.SetSym(1, 1, 3)
	return f
}

func TestSolve_DirectMatchesKnownSolution(t *testing.T) {
	f := spd2x2()
	b := []float64{1, 2}
	sol, err := solver.Solve(f, b, solver.Direct, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/11, sol.X[0], 1e-9)
	assert.InDelta(t, 7.0/11, sol.X[1], 1e-9)
	assert.Less(t, sol.Residual, 1e-6)
}

func TestSolve_CholeskyAgreesWithDirect(t *testing.T) {
	f := spd2x2()
	b := []float64{1, 2}
	direct, err := solver.Solve(f, b, solver.Direct, 0, 0)
	require.NoError(t, err)
	chol, err := solver.Solve(f, b, solver.CholeskyStrategy, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, direct.X[0], chol.X[0], 1e-9)
	assert.InDelta(t, direct.X[1], chol.X[1], 1e-9)
}

func TestSolve_IterativeConvergesForSPD(t *testing.T) {
	f := spd2x2()
	b := []float64{1, 2}
	sol, err := solver.Solve(f, b, solver.Iterative, 100, 1e-10)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/11, sol.X[0], 1e-6)
	assert.InDelta(t, 7.0/11, sol.X[1], 1e-6)
	assert.True(t, sol.Converged)
}

func TestSolve_ZeroSizeSystemReturnsEmptySolution(t *testing.T) {
	f := &mat.SymDense{}
	sol, err := solver.Solve(f, nil, solver.Direct, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, sol.X)
	assert.True(t, sol.Converged)
}
