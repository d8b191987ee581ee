package flexibility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goframe/internal/flexibility"
	"github.com/alexiusacademia/goframe/internal/model"
	"github.com/alexiusacademia/goframe/internal/redundant"
	"github.com/alexiusacademia/goframe/internal/substructure"
)

func proppedCantilever(t *testing.T) (*model.Model, []redundant.Redundant) {
	t.Helper()
	m := model.NewModel("propped cantilever")
	mat := &model.Material{Name: "steel", E: 200e6}
	sec := model.Rectangular{Width: 0.3, Height: 0.5}
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0, Support: &model.Fixed{}}))
	require.NoError(t, m.AddNode(&model.Node{ID: 2, X: 6, Y: 0, Support: &model.Roller{Direction: model.RollerUy}}))
	n1, n2 := m.Nodes[0], m.Nodes[1]
	bar := &model.Bar{ID: 1, NodeI: n1, NodeJ: n2, Material: mat, Section: sec}
	require.NoError(t, m.AddBar(bar))
	m.AddLoad(&model.BarPoint{Bar: bar, P: 10, A: 3, PhiDeg: 90})
	return m, []redundant.Redundant{{Kind: redundant.ReactionMz, NodeID: 1, Index: 1}}
}

func TestAssemble_DiagonalMatchesClosedFormCantileverFlexibility(t *testing.T) {
	m, reds := proppedCantilever(t)
	gen := substructure.NewGenerator(m, reds)
	primary, units, err := gen.GenerateAll()
	require.NoError(t, err)

	F, e0, warnings := flexibility.Assemble(m, reds, primary, units, flexibility.Options{})
	assert.Empty(t, warnings)
	require.Len(t, e0, 1)

	bar := m.Bars[0]
	L := bar.Length()
	EI := bar.EI()
	// Mohr's integral of a 1->0 triangular diagram against itself over
	// a prismatic bar is L/(3*EI).
	assert.InDelta(t, L/(3*EI), F.At(0, 0), 1e-9)
}

func TestAssemble_IsSymmetric(t *testing.T) {
	m := model.NewModel("frame")
	mat := &model.Material{Name: "steel", E: 200e6}
	sec := model.Rectangular{Width: 0.3, Height: 0.5}
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0, Support: &model.Fixed{}}))
	require.NoError(t, m.AddNode(&model.Node{ID: 2, X: 6, Y: 0, Support: &model.Fixed{}}))
	n1, n2 := m.Nodes[0], m.Nodes[1]
	bar := &model.Bar{ID: 1, NodeI: n1, NodeJ: n2, Material: mat, Section: sec}
	require.NoError(t, m.AddBar(bar))
	m.AddLoad(&model.BarPoint{Bar: bar, P: 10, A: 3, PhiDeg: 90})

	reds := []redundant.Redundant{
		{Kind: redundant.ReactionMz, NodeID: 1, Index: 1},
		{Kind: redundant.ReactionRx, NodeID: 2, Index: 2},
		{Kind: redundant.ReactionMz, NodeID: 2, Index: 3},
	}
	gen := substructure.NewGenerator(m, reds)
	primary, units, err := gen.GenerateAll()
	require.NoError(t, err)

	F, _, _ := flexibility.Assemble(m, reds, primary, units, flexibility.Options{})
	n, _ := F.Dims()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, F.At(i, j), F.At(j, i), 1e-9)
		}
	}
}

func TestAssemble_AxialFlexibilityLeavesMzDiagonalUnchanged(t *testing.T) {
	m, reds := proppedCantilever(t)
	gen := substructure.NewGenerator(m, reds)
	primary, units, err := gen.GenerateAll()
	require.NoError(t, err)

	withoutAxial, _, _ := flexibility.Assemble(m, reds, primary, units, flexibility.Options{})
	withAxial, _, _ := flexibility.Assemble(m, reds, primary, units, flexibility.Options{IncludeAxial: true})

	// A released Mz redundant carries no unit axial force, so adding
	// axial flexibility must leave this particular diagonal unchanged.
	assert.InDelta(t, withoutAxial.At(0, 0), withAxial.At(0, 0), 1e-9)
}
