package substructure

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goframe/internal/geometry"
	"github.com/alexiusacademia/goframe/internal/model"
	"github.com/alexiusacademia/goframe/internal/redundant"
)

// reactionNormal returns the unit direction a translational restrained
// DOF (0=X, 1=Y) acts along: the named global axis, rotated by a
// Roller's InclinedAngleDeg when present (spec §3.1's optional
// inclined-normal variant; clockwise-positive, consistent with every
// other angle in this package).
func reactionNormal(n *model.Node, axis int) (nx, ny float64) {
	nx, ny = 1, 0
	if axis == 1 {
		nx, ny = 0, 1
	}
	if n == nil {
		return nx, ny
	}
	roller, ok := n.Support.(*model.Roller)
	if !ok || roller.InclinedAngleDeg == nil {
		return nx, ny
	}
	rad := (*roller.InclinedAngleDeg) * math.Pi / 180
	r := geometry.RotationMatrix2(rad)
	return r[0][0]*nx + r[0][1]*ny, r[1][0]*nx + r[1][1]*ny
}

// unitMzSubstructure builds the closed-form unit substructure for a
// released support moment (spec §4.E): the bar(s) incident to the
// released node carry a linear moment diagram from 1 at that node to 0
// at the far end, axial and shear zero; every other bar is zero.
// Reactions are zero — a released Mz is a self-equilibrated couple
// applied and resisted entirely within the incident bar's own moment
// diagram, not by the remaining restraints.
func (g *Generator) unitMzSubstructure(r redundant.Redundant) *Substructure {
	diagrams := map[int]BarDiagrams{}
	for _, b := range g.Model.Bars {
		L := b.Length()
		switch r.NodeID {
		case b.NodeI.ID:
			diagrams[b.ID] = BarDiagrams{N: geometry.ConstantDiagram(L, 0), V: geometry.ConstantDiagram(L, 0), M: geometry.LinearDiagram(L, 1, 0)}
		case b.NodeJ.ID:
			diagrams[b.ID] = BarDiagrams{N: geometry.ConstantDiagram(L, 0), V: geometry.ConstantDiagram(L, 0), M: geometry.LinearDiagram(L, 0, 1)}
		default:
			diagrams[b.ID] = BarDiagrams{N: geometry.ConstantDiagram(L, 0), V: geometry.ConstantDiagram(L, 0), M: geometry.ConstantDiagram(L, 0)}
		}
	}
	return &Substructure{Name: fmt.Sprintf("X%d", r.Index), Diagrams: diagrams, Reactions: map[int][3]float64{}}
}

// unitInternalMSubstructure builds the closed-form unit substructure for
// a released internal moment (spec §4.E): the host bar carries a linear
// moment diagram from 1 at the hinge location to 0 at the opposite end;
// every other bar is zero, reactions are zero.
func (g *Generator) unitInternalMSubstructure(r redundant.Redundant) *Substructure {
	diagrams := map[int]BarDiagrams{}
	for _, b := range g.Model.Bars {
		L := b.Length()
		if b.ID != r.BarID {
			diagrams[b.ID] = BarDiagrams{N: geometry.ConstantDiagram(L, 0), V: geometry.ConstantDiagram(L, 0), M: geometry.ConstantDiagram(L, 0)}
			continue
		}
		var m geometry.Diagram
		if r.Position <= 1e-9 {
			m = geometry.LinearDiagram(L, 1, 0)
		} else {
			m = geometry.LinearDiagram(L, 0, 1)
		}
		diagrams[b.ID] = BarDiagrams{N: geometry.ConstantDiagram(L, 0), V: geometry.ConstantDiagram(L, 0), M: m}
	}
	return &Substructure{Name: fmt.Sprintf("X%d", r.Index), Diagrams: diagrams, Reactions: map[int][3]float64{}}
}

// solveGeneral solves the released structure under an arbitrary action
// (the real loads for the primary substructure, or a single unit nodal
// action for an Rx/Ry unit substructure): first the three remaining
// unknown reactions via whole-structure equilibrium (spec §4.B), then
// every bar's internal-force diagram by propagating end forces across
// the bar graph from its supported leaves inward (spec §4.E's
// generalization of the per-bar shortcut — see the Open Question
// resolution in SPEC_FULL.md §9).
//
// Assumes the bar graph (after release) is a tree, true of every
// topology spec's scenarios exercise; a structure whose released graph
// retains a closed loop is out of scope for this solver.
func (g *Generator) solveGeneral(name string, nodeLoads map[int][3]float64, barPoints map[int][]geometry.PointAction, barDists map[int][]geometry.DistributedAction) (*Substructure, error) {
	var unknowns []geometry.UnknownReaction
	var unknownNode []int
	var unknownDOF []int
	for _, n := range g.Model.Nodes {
		pattern, ok := g.remaining[n.ID]
		if !ok {
			continue
		}
		for i, restrained := range pattern {
			if !restrained {
				continue
			}
			u := geometry.UnknownReaction{At: n.Point(), DOF: geometry.DOF(i)}
			if i == 0 || i == 1 {
				nx, ny := reactionNormal(n, i)
				u.Normal = &[2]float64{nx, ny}
			}
			unknowns = append(unknowns, u)
			unknownNode = append(unknownNode, n.ID)
			unknownDOF = append(unknownDOF, i)
		}
	}
	if len(unknowns) != 3 {
		return nil, fmt.Errorf("released structure has %d unknown reactions, expected 3", len(unknowns))
	}
	var arr [3]geometry.UnknownReaction
	copy(arr[:], unknowns)

	resultants := g.resultants(nodeLoads, barPoints, barDists)
	ref := unknowns[0].At
	vals, err := geometry.SolveIsostatic(arr, resultants, ref)
	if err != nil {
		return nil, err
	}

	reactions := map[int][3]float64{}
	for i, v := range vals {
		r := reactions[unknownNode[i]]
		if n := unknowns[i].Normal; n != nil {
			r[0] += n[0] * v
			r[1] += n[1] * v
		} else {
			r[unknownDOF[i]] = v
		}
		reactions[unknownNode[i]] = r
	}

	diagrams, err := g.propagate(reactions, nodeLoads, barPoints, barDists)
	if err != nil {
		return nil, err
	}

	return &Substructure{Name: name, Diagrams: diagrams, Reactions: reactions}, nil
}

// resultants reduces every applied action to a geometry.LoadResultant
// for the global 3x3 equilibrium solve.
func (g *Generator) resultants(nodeLoads map[int][3]float64, barPoints map[int][]geometry.PointAction, barDists map[int][]geometry.DistributedAction) []geometry.LoadResultant {
	var out []geometry.LoadResultant

	for nodeID, v := range nodeLoads {
		n := g.nodeByID[nodeID]
		out = append(out, geometry.LoadResultant{At: n.Point(), Fx: v[0], Fy: v[1], Mz: v[2]})
	}

	for barID, pts := range barPoints {
		b := g.barByID[barID]
		theta := b.Angle()
		for _, p := range pts {
			at := geometry.PointAlong(b.NodeI.Point(), b.NodeJ.Point(), p.X)
			gx, gy := toGlobal(theta, p.Fx, p.Fy)
			out = append(out, geometry.LoadResultant{At: at, Fx: gx, Fy: gy, Mz: p.Mz})
		}
	}

	for barID, ds := range barDists {
		b := g.barByID[barID]
		theta := b.Angle()
		for _, d := range ds {
			magX, xcX := resultantOf(d.X1, d.X2, d.Qx1, d.Qx2)
			magY, xcY := resultantOf(d.X1, d.X2, d.Qy1, d.Qy2)
			if magX != 0 {
				at := geometry.PointAlong(b.NodeI.Point(), b.NodeJ.Point(), xcX)
				gx, gy := toGlobal(theta, magX, 0)
				out = append(out, geometry.LoadResultant{At: at, Fx: gx, Fy: gy})
			}
			if magY != 0 {
				at := geometry.PointAlong(b.NodeI.Point(), b.NodeJ.Point(), xcY)
				gx, gy := toGlobal(theta, 0, magY)
				out = append(out, geometry.LoadResultant{At: at, Fx: gx, Fy: gy})
			}
		}
	}

	return out
}

// resultantOf returns the magnitude and centroid position of a linearly
// varying intensity from q1 at x1 to q2 at x2.
func resultantOf(x1, x2, q1, q2 float64) (mag, xc float64) {
	mag = (q1 + q2) / 2 * (x2 - x1)
	if q1+q2 == 0 {
		return mag, (x1 + x2) / 2
	}
	xc = x1 + (x2-x1)*(q1+2*q2)/(3*(q1+q2))
	return mag, xc
}

func toGlobal(theta, fx, fy float64) (gx, gy float64) {
	r := geometry.RotationMatrix2(theta)
	return r[0][0]*fx + r[0][1]*fy, r[1][0]*fx + r[1][1]*fy
}

func toLocal(theta, gx, gy float64) (fx, fy float64) {
	r := geometry.RotationMatrix2(theta)
	return r[0][0]*gx + r[1][0]*gy, r[0][1]*gx + r[1][1]*gy
}

// propagate walks the bar graph from its leaves inward, deriving each
// bar's local end-i (N, V, M) from joint equilibrium at whichever end
// is resolved first, then builds its section diagrams.
func (g *Generator) propagate(reactions map[int][3]float64, nodeLoads map[int][3]float64, barPoints map[int][]geometry.PointAction, barDists map[int][]geometry.DistributedAction) (map[int]BarDiagrams, error) {
	adjacency := map[int][]int{} // nodeID -> bar IDs
	degree := map[int]int{}
	for _, b := range g.Model.Bars {
		adjacency[b.NodeI.ID] = append(adjacency[b.NodeI.ID], b.ID)
		adjacency[b.NodeJ.ID] = append(adjacency[b.NodeJ.ID], b.ID)
		degree[b.NodeI.ID]++
		degree[b.NodeJ.ID]++
	}

	resolved := map[int]bool{}
	diagrams := map[int]BarDiagrams{}

	var queue []int
	for nodeID, d := range degree {
		if d <= 1 {
			queue = append(queue, nodeID)
		}
	}

	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]

		var barID int
		found := false
		for _, id := range adjacency[nodeID] {
			if !resolved[id] {
				barID = id
				found = true
				break
			}
		}
		if !found {
			continue
		}

		b := g.barByID[barID]
		L := b.Length()
		theta := b.Angle()
		pts := barPoints[barID]
		dists := barDists[barID]

		sum := reactions[nodeID]
		nl := nodeLoads[nodeID]
		sum[0] += nl[0]
		sum[1] += nl[1]
		sum[2] += nl[2]

		var ni, vi, mi float64
		if b.NodeI.ID == nodeID {
			ni, vi = toLocal(theta, sum[0], sum[1])
			mi = sum[2]
		} else {
			nj, vj := toLocal(theta, -sum[0], -sum[1])
			mj := -sum[2]
			nb, vb, mb := geometry.BuildSectionDiagrams(L, 0, 0, 0, pts, dists)
			ni = nj - nb.Eval(L)
			vi = vj - vb.Eval(L)
			mi = mj + vi*L - mb.Eval(L)
		}

		n, v, m := geometry.BuildSectionDiagrams(L, ni, vi, mi, pts, dists)
		diagrams[barID] = BarDiagrams{N: n, V: v, M: m}
		resolved[barID] = true

		for _, endID := range []int{b.NodeI.ID, b.NodeJ.ID} {
			degree[endID]--
			if degree[endID] == 1 {
				queue = append(queue, endID)
			}
		}
	}

	if len(resolved) != len(g.Model.Bars) {
		return nil, fmt.Errorf("substructure: bar graph is not a tree (resolved %d of %d bars)", len(resolved), len(g.Model.Bars))
	}
	return diagrams, nil
}
