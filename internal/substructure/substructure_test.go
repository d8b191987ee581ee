package substructure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goframe/internal/model"
	"github.com/alexiusacademia/goframe/internal/redundant"
	"github.com/alexiusacademia/goframe/internal/substructure"
)

func proppedCantilever(t *testing.T) (*model.Model, *model.Bar) {
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
	return m, bar
}

func TestGenerateAll_PrimaryMatchesIsostaticReleaseAtNode1(t *testing.T) {
	m, bar := proppedCantilever(t)
	reds := []redundant.Redundant{{Kind: redundant.ReactionMz, NodeID: 1, Index: 1}}

	gen := substructure.NewGenerator(m, reds)
	primary, units, err := gen.GenerateAll()
	require.NoError(t, err)
	require.Len(t, units, 1)

	// With Mz released at the fixed end, node 1 keeps Rx, Ry but no
	// moment reaction in the primary (now simply-supported) structure.
	rA := primary.Reaction(1)
	assert.InDelta(t, 0, rA[2], 1e-9)
	assert.InDelta(t, -5, rA[1], 1e-9)

	// The primary structure's moment diagram at mid-span must match
	// the simply-supported-beam value for a central point load.
	d := primary.Diagrams[bar.ID]
	assert.InDelta(t, 15, d.M.Eval(3), 1e-6)
}

func TestGenerateAll_UnitMzSubstructureIsTriangular(t *testing.T) {
	m, bar := proppedCantilever(t)
	reds := []redundant.Redundant{{Kind: redundant.ReactionMz, NodeID: 1, Index: 1}}

	gen := substructure.NewGenerator(m, reds)
	_, units, err := gen.GenerateAll()
	require.NoError(t, err)

	d := units[0].Diagrams[bar.ID]
	// A unit moment at the fixed end produces a linear diagram from
	// 1 at A to 0 at B in the simply-supported released structure.
	assert.InDelta(t, 1, d.M.Eval(0), 1e-6)
	assert.InDelta(t, 0, d.M.Eval(6), 1e-6)
	assert.InDelta(t, 0.5, d.M.Eval(3), 1e-6)
}

func TestGenerateAll_ErrorsWhenReleasedStructureUnstable(t *testing.T) {
	m := model.NewModel("unstable after release")
	mat := &model.Material{Name: "steel", E: 200e6}
	sec := model.Rectangular{Width: 0.3, Height: 0.5}
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0, Support: &model.Pinned{}}))
	require.NoError(t, m.AddNode(&model.Node{ID: 2, X: 6, Y: 0, Support: &model.Roller{Direction: model.RollerUy}}))
	n1, n2 := m.Nodes[0], m.Nodes[1]
	bar := &model.Bar{ID: 1, NodeI: n1, NodeJ: n2, Material: mat, Section: sec}
	require.NoError(t, m.AddBar(bar))

	// Releasing the pinned support's Ry leaves only Rx at node 1 and the
	// vertical roller at node 2 restraining the whole structure: unstable.
	reds := []redundant.Redundant{{Kind: redundant.ReactionRy, NodeID: 1, Index: 1}}
	gen := substructure.NewGenerator(m, reds)
	_, _, err := gen.GenerateAll()
	assert.Error(t, err)
}
