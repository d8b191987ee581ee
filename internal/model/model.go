package model

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goframe/internal/policy"
)

// Model is the immutable-once-sealed snapshot the whole pipeline
// operates on: nodes, bars, and loads, built incrementally by an
// external editor (out of core scope — spec §1/§3.3) and never
// mutated by the analysis itself.
type Model struct {
	Name      string
	Materials []*Material
	Sections  []Section
	Nodes     []*Node
	Bars      []*Bar
	Loads     []Load
}

// NewModel returns an empty, named Model.
func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddNode appends a node after checking its own invariants. Geometric
// coincidence with existing nodes is checked at Validate() time, since
// it is a whole-model invariant, not a per-node one.
func (m *Model) AddNode(n *Node) error {
	if err := n.Validate(); err != nil {
		return err
	}
	for _, existing := range m.Nodes {
		if existing.ID == n.ID {
			return fmt.Errorf("duplicate node id %d", n.ID)
		}
	}
	m.Nodes = append(m.Nodes, n)
	return nil
}

// RemoveNode drops the node with the given id, if present.
func (m *Model) RemoveNode(id int) {
	for i, n := range m.Nodes {
		if n.ID == id {
			m.Nodes = append(m.Nodes[:i], m.Nodes[i+1:]...)
			return
		}
	}
}

// AddBar appends a bar after checking it references two distinct,
// already-added nodes and no duplicate bar exists between the same pair.
func (m *Model) AddBar(b *Bar) error {
	if err := b.Validate(policy.LengthTolerance); err != nil {
		return err
	}
	if m.findNode(b.NodeI.ID) == nil || m.findNode(b.NodeJ.ID) == nil {
		return fmt.Errorf("bar %d: end nodes must already belong to the model", b.ID)
	}
	for _, existing := range m.Bars {
		if existing.ID == b.ID {
			return fmt.Errorf("duplicate bar id %d", b.ID)
		}
		if samePair(existing, b) {
			return fmt.Errorf("bar %d duplicates the node pair already used by bar %d", b.ID, existing.ID)
		}
	}
	m.Bars = append(m.Bars, b)
	return nil
}

func samePair(a, b *Bar) bool {
	return (a.NodeI.ID == b.NodeI.ID && a.NodeJ.ID == b.NodeJ.ID) ||
		(a.NodeI.ID == b.NodeJ.ID && a.NodeJ.ID == b.NodeI.ID)
}

// RemoveBar drops the bar with the given id, if present.
func (m *Model) RemoveBar(id int) {
	for i, b := range m.Bars {
		if b.ID == id {
			m.Bars = append(m.Bars[:i], m.Bars[i+1:]...)
			return
		}
	}
}

// SetSupport assigns a support to a node, validating the support's own
// invariants (e.g. an elastic spring needs a positive rigidity).
func (m *Model) SetSupport(nodeID int, s Support) error {
	if err := ValidateSupport(s); err != nil {
		return err
	}
	n := m.findNode(nodeID)
	if n == nil {
		return fmt.Errorf("set support: no such node %d", nodeID)
	}
	n.Support = s
	return nil
}

// ClearSupport removes any support from the given node.
func (m *Model) ClearSupport(nodeID int) {
	if n := m.findNode(nodeID); n != nil {
		n.Support = nil
	}
}

// AddLoad appends a load.
func (m *Model) AddLoad(l Load) {
	m.Loads = append(m.Loads, l)
}

// SetHinge toggles the internal hinge flag at one end of a bar.
func (m *Model) SetHinge(barID int, atJ bool, value bool) error {
	for _, b := range m.Bars {
		if b.ID == barID {
			if atJ {
				b.HingeJ = value
			} else {
				b.HingeI = value
			}
			return nil
		}
	}
	return fmt.Errorf("set hinge: no such bar %d", barID)
}

func (m *Model) findNode(id int) *Node {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// HingeCount returns the total number of internal hinges h across all bars.
func (m *Model) HingeCount() int {
	h := 0
	for _, b := range m.Bars {
		h += b.HingeCount()
	}
	return h
}

// ReactionCount returns r, the total restrained DOFs across every
// supported node (elastic springs with positive rigidity count their
// restrained directions, per spec §4.C).
func (m *Model) ReactionCount() int {
	r := 0
	for _, n := range m.Nodes {
		if n.Support != nil {
			r += RestrainedDOFCount(n.Support)
		}
	}
	return r
}

// Indeterminacy returns GH = r + 3*b - 3*n - h (spec §4.C).
func (m *Model) Indeterminacy() int {
	r := m.ReactionCount()
	b := len(m.Bars)
	n := len(m.Nodes)
	h := m.HingeCount()
	return r + 3*b - 3*n - h
}

// BoundingBox returns (minX, minY, maxX, maxY) over every node.
func (m *Model) BoundingBox() (minX, minY, maxX, maxY float64) {
	if len(m.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range m.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}
	return
}

// Validate runs the validation gates of spec §4.A. All must pass
// before analysis starts.
func (m *Model) Validate() error {
	if len(m.Nodes) < 2 {
		return fmt.Errorf("model must have at least 2 nodes")
	}
	if len(m.Bars) < 1 {
		return fmt.Errorf("model must have at least 1 bar")
	}
	for _, b := range m.Bars {
		if err := b.Validate(policy.LengthTolerance); err != nil {
			return err
		}
	}
	if m.ReactionCount() == 0 {
		return fmt.Errorf("model has no external supports")
	}
	for i, a := range m.Nodes {
		for _, c := range m.Nodes[i+1:] {
			if geometryDistance(a, c) < policy.LengthTolerance {
				return fmt.Errorf("nodes %d and %d coincide geometrically", a.ID, c.ID)
			}
		}
	}
	return nil
}

func geometryDistance(a, b *Node) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Hypot(dx, dy)
}
