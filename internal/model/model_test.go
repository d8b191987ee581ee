package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goframe/internal/model"
)

func TestModel_AddNodeRejectsDuplicateID(t *testing.T) {
	m := model.NewModel("m")
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0}))
	err := m.AddNode(&model.Node{ID: 1, X: 1, Y: 1})
	assert.Error(t, err)
}

func TestModel_AddBarRejectsDuplicatePair(t *testing.T) {
	m := model.NewModel("m")
	mat := &model.Material{Name: "steel", E: 200e6}
	sec := model.Rectangular{Width: 0.3, Height: 0.5}
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0}))
	require.NoError(t, m.AddNode(&model.Node{ID: 2, X: 6, Y: 0}))
	n1 := m.Nodes[0]
	n2 := m.Nodes[1]
	require.NoError(t, m.AddBar(&model.Bar{ID: 1, NodeI: n1, NodeJ: n2, Material: mat, Section: sec}))
	err := m.AddBar(&model.Bar{ID: 2, NodeI: n2, NodeJ: n1, Material: mat, Section: sec})
	assert.Error(t, err)
}

func TestModel_ValidateRejectsNoSupports(t *testing.T) {
	m := model.NewModel("m")
	mat := &model.Material{Name: "steel", E: 200e6}
	sec := model.Rectangular{Width: 0.3, Height: 0.5}
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0}))
	require.NoError(t, m.AddNode(&model.Node{ID: 2, X: 6, Y: 0}))
	n1, n2 := m.Nodes[0], m.Nodes[1]
	require.NoError(t, m.AddBar(&model.Bar{ID: 1, NodeI: n1, NodeJ: n2, Material: mat, Section: sec}))
	assert.Error(t, m.Validate())
}

func TestModel_ValidateRejectsCoincidentNodes(t *testing.T) {
	m := model.NewModel("m")
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0, Support: &model.Fixed{}}))
	require.NoError(t, m.AddNode(&model.Node{ID: 2, X: 1e-12, Y: 0, Support: &model.Fixed{}}))
	require.NoError(t, m.AddNode(&model.Node{ID: 3, X: 6, Y: 0}))
	mat := &model.Material{Name: "steel", E: 200e6}
	sec := model.Rectangular{Width: 0.3, Height: 0.5}
	require.NoError(t, m.AddBar(&model.Bar{ID: 1, NodeI: m.Nodes[0], NodeJ: m.Nodes[2], Material: mat, Section: sec}))
	assert.Error(t, m.Validate())
}

func TestModel_IndeterminacyFixedPinnedBeam(t *testing.T) {
	m := model.NewModel("beam")
	mat := &model.Material{Name: "steel", E: 200e6}
	sec := model.Rectangular{Width: 0.3, Height: 0.5}
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0, Support: &model.Fixed{}}))
	require.NoError(t, m.AddNode(&model.Node{ID: 2, X: 6, Y: 0, Support: &model.Roller{Direction: model.RollerUy}}))
	n1, n2 := m.Nodes[0], m.Nodes[1]
	require.NoError(t, m.AddBar(&model.Bar{ID: 1, NodeI: n1, NodeJ: n2, Material: mat, Section: sec}))
	// r=3+1=4, b=1, n=2, h=0 -> GH = 4 + 3 - 6 - 0 = 1
	assert.Equal(t, 1, m.Indeterminacy())
}

func TestModel_HingeReducesIndeterminacyByOne(t *testing.T) {
	m := model.NewModel("beam")
	mat := &model.Material{Name: "steel", E: 200e6}
	sec := model.Rectangular{Width: 0.3, Height: 0.5}
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0, Support: &model.Fixed{}}))
	require.NoError(t, m.AddNode(&model.Node{ID: 2, X: 6, Y: 0, Support: &model.Fixed{}}))
	n1, n2 := m.Nodes[0], m.Nodes[1]
	require.NoError(t, m.AddBar(&model.Bar{ID: 1, NodeI: n1, NodeJ: n2, Material: mat, Section: sec}))
	before := m.Indeterminacy()
	require.NoError(t, m.SetHinge(1, false, true))
	assert.Equal(t, before-1, m.Indeterminacy())
}

func TestSection_RectangularProperties(t *testing.T) {
	r := model.Rectangular{Width: 0.3, Height: 0.5}
	assert.InDelta(t, 0.15, r.Area(), 1e-9)
	assert.InDelta(t, 0.003125, r.Iz(), 1e-9)
	assert.Equal(t, 0.5, r.Depth())
}

func TestElasticSpring_ValidateRequiresPositiveRigidity(t *testing.T) {
	err := model.ValidateSupport(&model.ElasticSpring{})
	assert.Error(t, err)
	err = model.ValidateSupport(&model.ElasticSpring{Ky: 1000})
	assert.NoError(t, err)
}
