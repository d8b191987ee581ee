package model

import (
	"fmt"

	"github.com/alexiusacademia/goframe/internal/geometry"
)

// Bar is a straight prismatic element joining two distinct nodes,
// with a material, a section, and optional internal hinges at either
// end (spec §3.1).
type Bar struct {
	ID       int
	NodeI    *Node
	NodeJ    *Node
	Material *Material
	Section  Section

	HingeI bool
	HingeJ bool

	// Post-analysis final diagrams, filled in by the superposer.
	N, V, M geometry.Diagram
}

// Length returns the bar's length L = ‖j - i‖ (m).
func (b *Bar) Length() float64 {
	return geometry.Distance(b.NodeI.Point(), b.NodeJ.Point())
}

// Angle returns theta = atan2(dy, dx), the bar's orientation.
func (b *Bar) Angle() float64 {
	return geometry.Angle(b.NodeI.Point(), b.NodeJ.Point())
}

// EA returns the axial stiffness E*A.
func (b *Bar) EA() float64 { return b.Material.E * b.Section.Area() }

// EI returns the bending stiffness E*I_z.
func (b *Bar) EI() float64 { return b.Material.E * b.Section.Iz() }

// HingeCount returns how many of the bar's two ends carry an internal
// hinge (0, 1 or 2).
func (b *Bar) HingeCount() int {
	n := 0
	if b.HingeI {
		n++
	}
	if b.HingeJ {
		n++
	}
	return n
}

// Validate checks L>epsilon and i != j, per spec §3.1.
func (b *Bar) Validate(lengthTolerance float64) error {
	if b.NodeI == nil || b.NodeJ == nil {
		return fmt.Errorf("bar %d: missing end node", b.ID)
	}
	if b.NodeI.ID == b.NodeJ.ID {
		return fmt.Errorf("bar %d: both ends reference node %d", b.ID, b.NodeI.ID)
	}
	if b.Length() <= lengthTolerance {
		return fmt.Errorf("bar %d: zero or negative length (%.6g m)", b.ID, b.Length())
	}
	if b.Material == nil {
		return fmt.Errorf("bar %d: missing material", b.ID)
	}
	if b.Section == nil {
		return fmt.Errorf("bar %d: missing section", b.ID)
	}
	if err := b.Material.Validate(); err != nil {
		return fmt.Errorf("bar %d: %w", b.ID, err)
	}
	if err := b.Section.Validate(); err != nil {
		return fmt.Errorf("bar %d: %w", b.ID, err)
	}
	return nil
}
