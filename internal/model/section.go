package model

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goframe/internal/geometry"
)

// Section is the capability set spec §3.1 requires of every section
// variant: gross area, strong-axis inertia, and overall depth. It is
// a small interface rather than an inheritance tree, per spec §9's
// design note, mirrored on how the teacher repo treats Seccion-like
// capability sets as plain Go types with accessor methods.
type Section interface {
	Kind() string
	Area() float64
	Iz() float64
	Depth() float64
	Validate() error
}

// SectionModulus returns W_z = I_z / (h/2), the elastic section
// modulus about the strong axis.
func SectionModulus(s Section) float64 {
	h := s.Depth()
	if h <= 0 {
		return 0
	}
	return s.Iz() / (h / 2)
}

// RadiusOfGyration returns r_z = sqrt(I_z / A).
func RadiusOfGyration(s Section) float64 {
	a := s.Area()
	if a <= 0 {
		return 0
	}
	return math.Sqrt(s.Iz() / a)
}

// Rectangular is a solid rectangular section of given width (m, along
// the weak axis) and height (m, along the strong/bending axis).
type Rectangular struct {
	Width  float64
	Height float64
}

func (r Rectangular) Kind() string   { return "rectangular" }
func (r Rectangular) Area() float64  { return r.Width * r.Height }
func (r Rectangular) Iz() float64    { return r.Width * r.Height * r.Height * r.Height / 12 }
func (r Rectangular) Depth() float64 { return r.Height }
func (r Rectangular) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("rectangular section: width and height must be positive")
	}
	return nil
}

// CircularSolid is a solid circular section of given diameter (m).
type CircularSolid struct {
	Diameter float64
}

func (c CircularSolid) Kind() string   { return "circular_solid" }
func (c CircularSolid) Area() float64  { return math.Pi * c.Diameter * c.Diameter / 4 }
func (c CircularSolid) Iz() float64    { return math.Pi * math.Pow(c.Diameter, 4) / 64 }
func (c CircularSolid) Depth() float64 { return c.Diameter }
func (c CircularSolid) Validate() error {
	if c.Diameter <= 0 {
		return fmt.Errorf("circular section: diameter must be positive")
	}
	return nil
}

// CircularHollow is an annular section with given outer and inner
// diameters (m).
type CircularHollow struct {
	OuterDiameter float64
	InnerDiameter float64
}

func (c CircularHollow) Kind() string { return "circular_hollow" }
func (c CircularHollow) Area() float64 {
	return math.Pi * (c.OuterDiameter*c.OuterDiameter - c.InnerDiameter*c.InnerDiameter) / 4
}
func (c CircularHollow) Iz() float64 {
	return math.Pi * (math.Pow(c.OuterDiameter, 4) - math.Pow(c.InnerDiameter, 4)) / 64
}
func (c CircularHollow) Depth() float64 { return c.OuterDiameter }
func (c CircularHollow) Validate() error {
	if c.OuterDiameter <= 0 || c.InnerDiameter < 0 || c.InnerDiameter >= c.OuterDiameter {
		return fmt.Errorf("hollow circular section: invalid diameters (outer=%g, inner=%g)", c.OuterDiameter, c.InnerDiameter)
	}
	return nil
}

// CatalogProfile is an arbitrary polygon cross section (e.g. a rolled
// steel shape) defined by its outline vertices (m), counter-clockwise.
// Area, I_z and depth are derived once via the shoelace formula,
// adapted from the teacher's polygon-property calculator.
type CatalogProfile struct {
	Name     string
	Vertices []geometry.Point

	area, iz, depth float64
	computed        bool
}

// Compute derives Area/Iz/Depth from Vertices. AddBar does not call it;
// the accessors below call it on first use when it has not been run.
func (c *CatalogProfile) Compute() {
	c.area, c.iz, c.depth = geometry.PolygonProperties(c.Vertices)
	c.computed = true
}

func (c *CatalogProfile) Kind() string { return "catalog_profile" }
func (c *CatalogProfile) Area() float64 {
	if !c.computed {
		c.Compute()
	}
	return c.area
}
func (c *CatalogProfile) Iz() float64 {
	if !c.computed {
		c.Compute()
	}
	return c.iz
}
func (c *CatalogProfile) Depth() float64 {
	if !c.computed {
		c.Compute()
	}
	return c.depth
}
func (c *CatalogProfile) Validate() error {
	if len(c.Vertices) < 3 {
		return fmt.Errorf("catalog profile %q: needs at least 3 vertices", c.Name)
	}
	if c.Area() <= 0 || c.Iz() <= 0 || c.Depth() <= 0 {
		return fmt.Errorf("catalog profile %q: degenerate geometry (A=%g, Iz=%g, h=%g)", c.Name, c.Area(), c.Iz(), c.Depth())
	}
	return nil
}
