package persist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goframe/internal/model"
	"github.com/alexiusacademia/goframe/internal/persist"
)

func buildSampleModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.NewModel("sample frame")
	mat := &model.Material{Name: "steel", E: 200e6, Alpha: 1.2e-5}
	m.Materials = append(m.Materials, mat)
	sec := model.Rectangular{Width: 0.3, Height: 0.5}
	m.Sections = append(m.Sections, sec)

	angle := 15.0
	require.NoError(t, m.AddNode(&model.Node{ID: 1, X: 0, Y: 0, Support: &model.Fixed{}}))
	require.NoError(t, m.AddNode(&model.Node{ID: 2, X: 6, Y: 0, Support: &model.Roller{Direction: model.RollerUy, InclinedAngleDeg: &angle}}))
	require.NoError(t, m.AddNode(&model.Node{ID: 3, X: 6, Y: -3, Support: &model.ElasticSpring{Ky: 1000}}))
	n1, n2, n3 := m.Nodes[0], m.Nodes[1], m.Nodes[2]

	bar1 := &model.Bar{ID: 1, NodeI: n1, NodeJ: n2, Material: mat, Section: sec, HingeJ: true}
	bar2 := &model.Bar{ID: 2, NodeI: n2, NodeJ: n3, Material: mat, Section: sec}
	require.NoError(t, m.AddBar(bar1))
	require.NoError(t, m.AddBar(bar2))

	m.AddLoad(&model.BarPoint{Bar: bar1, P: 10, A: 3, PhiDeg: 90})
	m.AddLoad(&model.BarDistributed{Bar: bar2, X1: 0, X2: 3, Q1: 2, Q2: 5, PhiDeg: 90})
	m.AddLoad(&model.Thermal{Bar: bar1, DeltaTu: 20})
	m.AddLoad(&model.PrescribedMovement{Node: n2, Dy: -0.005})
	m.AddLoad(&model.NodalPoint{Node: n3, Fx: 3, Fy: -2, Mz: 1})

	return m
}

func TestMarshalUnmarshal_RoundTripsNodesBarsLoads(t *testing.T) {
	m := buildSampleModel(t)

	data, err := persist.Marshal(m)
	require.NoError(t, err)

	got, err := persist.Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, m.Name, got.Name)
	require.Len(t, got.Nodes, 3)
	require.Len(t, got.Bars, 2)
	require.Len(t, got.Loads, 5)

	assert.Equal(t, "fixed", got.Nodes[0].Support.Kind())
	assert.Equal(t, "roller", got.Nodes[1].Support.Kind())
	assert.Equal(t, "elastic_spring", got.Nodes[2].Support.Kind())

	roller := got.Nodes[1].Support.(*model.Roller)
	require.NotNil(t, roller.InclinedAngleDeg)
	assert.InDelta(t, 15.0, *roller.InclinedAngleDeg, 1e-9)

	bar1 := got.Bars[0]
	assert.True(t, bar1.HingeJ)
	assert.False(t, bar1.HingeI)
	assert.InDelta(t, 200e6, bar1.Material.E, 1e-9)
	assert.InDelta(t, 0.15, bar1.Section.Area(), 1e-9)
}

func TestMarshalUnmarshal_PreservesLoadParameters(t *testing.T) {
	m := buildSampleModel(t)
	data, err := persist.Marshal(m)
	require.NoError(t, err)
	got, err := persist.Unmarshal(data)
	require.NoError(t, err)

	var foundThermal, foundSettlement bool
	for _, l := range got.Loads {
		switch load := l.(type) {
		case *model.Thermal:
			foundThermal = true
			assert.InDelta(t, 20, load.DeltaTu, 1e-9)
		case *model.PrescribedMovement:
			foundSettlement = true
			assert.InDelta(t, -0.005, load.Dy, 1e-9)
		}
	}
	assert.True(t, foundThermal)
	assert.True(t, foundSettlement)
}

func TestUnmarshal_RejectsUnknownSectionKind(t *testing.T) {
	_, err := persist.Unmarshal([]byte(`{"version":1,"sections":[{"kind":"nonsense"}]}`))
	assert.Error(t, err)
}

func TestUnmarshal_RejectsBarWithOutOfRangeSectionRef(t *testing.T) {
	doc := `{
		"version": 1,
		"nodes": [{"id": 1, "x": 0, "y": 0}, {"id": 2, "x": 1, "y": 0}],
		"bars": [{"id": 1, "node_i": 1, "node_j": 2, "section_ref": 7}]
	}`
	_, err := persist.Unmarshal([]byte(doc))
	assert.Error(t, err)
}
