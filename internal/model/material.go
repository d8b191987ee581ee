// Package model holds the immutable data structures analyzed by the
// force method: materials, sections, nodes, supports, bars, loads, and
// the Model container itself.
//
// Sign convention (honoured by every package downstream): global X is
// positive to the right, global Y is positive downward, and rotation
// or moment is positive clockwise. A bar's local x' runs from node i
// to node j; local y' is x' rotated clockwise 90°. Axial force N is
// positive in tension.
package model

import "fmt"

// Material is a linear-elastic material: Young's modulus E (kN/m²)
// and coefficient of thermal expansion Alpha (1/°C), plus optional
// density, Poisson ratio and yield stress carried for completeness
// but unused by the core pipeline.
type Material struct {
	Name  string
	E     float64
	Alpha float64

	Rho *float64
	Nu  *float64
	Fy  *float64
}

// Validate checks the invariants spec §3.1 assigns to Material: E>0,
// Alpha>=0, and -1<ν<0.5 when Poisson's ratio is given.
func (m Material) Validate() error {
	if m.E <= 0 {
		return fmt.Errorf("material %q: E must be positive, got %g", m.Name, m.E)
	}
	if m.Alpha < 0 {
		return fmt.Errorf("material %q: alpha must be non-negative, got %g", m.Name, m.Alpha)
	}
	if m.Nu != nil && (*m.Nu <= -1 || *m.Nu >= 0.5) {
		return fmt.Errorf("material %q: nu must be in (-1, 0.5), got %g", m.Name, *m.Nu)
	}
	return nil
}
