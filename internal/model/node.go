package model

import (
	"fmt"

	"github.com/alexiusacademia/goframe/internal/geometry"
)

// Node is a point in the frame: a unique positive id, a position, an
// optional name, and an optional Support. Post-analysis displacements
// are filled in by the superposer (stage H).
type Node struct {
	ID      int
	X, Y    float64
	Name    string
	Support Support

	Ux, Uy, ThetaZ float64
}

// Point returns the node's position as a geometry.Point.
func (n *Node) Point() geometry.Point { return geometry.Point{X: n.X, Y: n.Y} }

// HasSupport reports whether the node carries an external support.
func (n *Node) HasSupport() bool { return n.Support != nil }

// Validate checks the one invariant owned by Node itself: a positive id.
// Geometric-coincidence checks are a Model-level invariant (they need
// every other node to compare against).
func (n *Node) Validate() error {
	if n.ID <= 0 {
		return fmt.Errorf("node id must be positive, got %d", n.ID)
	}
	return nil
}

func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("Node %d %q (%.3f, %.3f)", n.ID, n.Name, n.X, n.Y)
	}
	return fmt.Sprintf("Node %d (%.3f, %.3f)", n.ID, n.X, n.Y)
}
