// Package substructure builds the primary (released) structure under
// the real loading and one unit substructure per redundant, per spec
// §4.E, grounded on the original's GeneradorSubestructuras
// (subestructuras.py).
package substructure

import (
	"fmt"

	"github.com/alexiusacademia/goframe/internal/geometry"
	"github.com/alexiusacademia/goframe/internal/model"
	"github.com/alexiusacademia/goframe/internal/redundant"
)

// BarDiagrams holds one substructure's N/V/M diagrams for a single bar.
type BarDiagrams struct {
	N, V, M geometry.Diagram
}

// Substructure is either the primary (real-load) structure or one
// unit substructure, carrying per-bar diagrams and per-node reactions.
type Substructure struct {
	Name      string
	Diagrams  map[int]BarDiagrams       // barID -> diagrams
	Reactions map[int][3]float64        // nodeID -> (Rx, Ry, Mz)
}

func (s *Substructure) N(barID int, x float64) float64 { return s.diagram(barID).N.Eval(x) }
func (s *Substructure) V(barID int, x float64) float64 { return s.diagram(barID).V.Eval(x) }
func (s *Substructure) M(barID int, x float64) float64 { return s.diagram(barID).M.Eval(x) }

func (s *Substructure) diagram(barID int) BarDiagrams {
	if d, ok := s.Diagrams[barID]; ok {
		return d
	}
	return BarDiagrams{}
}

// Reaction returns (Rx, Ry, Mz) at a node, zero if not supported.
func (s *Substructure) Reaction(nodeID int) [3]float64 {
	return s.Reactions[nodeID]
}

// Generator builds the primary and unit substructures for a model and
// its chosen redundants.
type Generator struct {
	Model      *model.Model
	Redundants []redundant.Redundant

	remaining map[int][3]bool // nodeID -> restrained DOF pattern after release
	warnings  []string

	nodeByID map[int]*model.Node
	barByID  map[int]*model.Bar
}

// NewGenerator prepares a Generator, computing the released structure's
// remaining restraint pattern.
func NewGenerator(m *model.Model, reds []redundant.Redundant) *Generator {
	g := &Generator{Model: m, Redundants: reds, remaining: map[int][3]bool{},
		nodeByID: map[int]*model.Node{}, barByID: map[int]*model.Bar{}}
	for _, n := range m.Nodes {
		g.nodeByID[n.ID] = n
	}
	for _, b := range m.Bars {
		g.barByID[b.ID] = b
	}
	for _, n := range m.Nodes {
		if n.Support != nil {
			g.remaining[n.ID] = n.Support.Restrained()
		}
	}
	for _, r := range reds {
		if r.Kind == redundant.InternalM {
			continue
		}
		pattern := g.remaining[r.NodeID]
		idx := map[redundant.Kind]int{redundant.ReactionRx: 0, redundant.ReactionRy: 1, redundant.ReactionMz: 2}[r.Kind]
		pattern[idx] = false
		g.remaining[r.NodeID] = pattern
	}
	return g
}

// Warnings returns any diagnostic messages accumulated while generating
// (e.g. a degraded support pattern — spec §9 Open Question).
func (g *Generator) Warnings() []string { return g.warnings }

// ExternalLoadResultants reduces every mechanical load in m (everything
// but Thermal and PrescribedMovement, which carry no force resultant)
// to a flat list of geometry.LoadResultant, independent of any
// particular redundant choice. Used by the global-equilibrium check
// (spec §4.H) to balance final reactions against the true applied
// loads, bar loads included.
func ExternalLoadResultants(m *model.Model) []geometry.LoadResultant {
	g := &Generator{Model: m, nodeByID: map[int]*model.Node{}, barByID: map[int]*model.Bar{}}
	for _, n := range m.Nodes {
		g.nodeByID[n.ID] = n
	}
	for _, b := range m.Bars {
		g.barByID[b.ID] = b
	}
	nodeLoads, barPoints, barDists := g.realLoadActions()
	return g.resultants(nodeLoads, barPoints, barDists)
}

// GenerateAll builds the primary substructure and one unit substructure
// per redundant, in order.
func (g *Generator) GenerateAll() (primary *Substructure, units []*Substructure, err error) {
	nodeLoads, barPoints, barDists := g.realLoadActions()
	primary, err = g.solveGeneral("primary", nodeLoads, barPoints, barDists)
	if err != nil {
		return nil, nil, fmt.Errorf("primary substructure: %w", err)
	}

	for _, r := range g.Redundants {
		var sub *Substructure
		switch r.Kind {
		case redundant.ReactionMz:
			sub = g.unitMzSubstructure(r)
		case redundant.InternalM:
			sub = g.unitInternalMSubstructure(r)
		case redundant.ReactionRx:
			nx, ny := reactionNormal(g.nodeByID[r.NodeID], 0)
			nl := map[int][3]float64{r.NodeID: {nx, ny, 0}}
			sub, err = g.solveGeneral(fmt.Sprintf("X%d", r.Index), nl, nil, nil)
			addUnitAction(sub, r.NodeID, nx, ny)
		case redundant.ReactionRy:
			nx, ny := reactionNormal(g.nodeByID[r.NodeID], 1)
			nl := map[int][3]float64{r.NodeID: {nx, ny, 0}}
			sub, err = g.solveGeneral(fmt.Sprintf("X%d", r.Index), nl, nil, nil)
			addUnitAction(sub, r.NodeID, nx, ny)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("unit substructure X%d: %w", r.Index, err)
		}
		units = append(units, sub)
	}

	return primary, units, nil
}

// addUnitAction records the released reaction itself (the unit force
// along (nx, ny)) in a unit substructure's reactions, so superposed
// reactions include Xi at the redundant's own DOF.
func addUnitAction(sub *Substructure, nodeID int, nx, ny float64) {
	if sub == nil {
		return
	}
	r := sub.Reactions[nodeID]
	r[0] += nx
	r[1] += ny
	sub.Reactions[nodeID] = r
}

// realLoadActions converts the model's mechanical loads (everything
// but Thermal and PrescribedMovement, which carry no force resultant)
// into the node/bar action maps the general solver consumes.
func (g *Generator) realLoadActions() (map[int][3]float64, map[int][]geometry.PointAction, map[int][]geometry.DistributedAction) {
	nodeLoads := map[int][3]float64{}
	barPoints := map[int][]geometry.PointAction{}
	barDists := map[int][]geometry.DistributedAction{}

	for _, l := range g.Model.Loads {
		switch load := l.(type) {
		case *model.NodalPoint:
			v := nodeLoads[load.Node.ID]
			v[0] += load.Fx
			v[1] += load.Fy
			v[2] += load.Mz
			nodeLoads[load.Node.ID] = v
		case *model.BarPoint:
			fx, fy := load.LocalComponents()
			barPoints[load.Bar.ID] = append(barPoints[load.Bar.ID], geometry.PointAction{X: load.A, Fx: fx, Fy: fy})
		case *model.BarDistributed:
			qx1, qy1, qx2, qy2 := load.LocalComponents()
			barDists[load.Bar.ID] = append(barDists[load.Bar.ID], geometry.DistributedAction{
				X1: load.X1, X2: load.X2, Qx1: qx1, Qx2: qx2, Qy1: qy1, Qy2: qy2,
			})
		}
	}
	return nodeLoads, barPoints, barDists
}
