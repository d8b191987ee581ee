package geometry

import "math"

// PolygonProperties computes the area, strong-axis moment of inertia
// about the polygon's own centroid, and overall depth (max Y - min Y)
// of a simple polygon given counter-clockwise vertices.
//
// Adapted from the shoelace-formula centroid/area calculation the
// teacher repo uses for reinforced-concrete cross sections
// (internal/section.CalculateProperties); generalized here to any
// catalog-profile bar section, where only area, I_z and depth are
// needed (no strain-compatibility analysis).
func PolygonProperties(vertices []Point) (area, iz, depth float64) {
	n := len(vertices)
	if n < 3 {
		return 0, 0, 0
	}

	var signedArea, cx, cy float64
	minY, maxY := vertices[0].Y, vertices[0].Y

	for i := 0; i < n; i++ {
		p0 := vertices[i]
		p1 := vertices[(i+1)%n]
		cross := p0.X*p1.Y - p1.X*p0.Y
		signedArea += cross
		cx += (p0.X + p1.X) * cross
		cy += (p0.Y + p1.Y) * cross

		if p0.Y < minY {
			minY = p0.Y
		}
		if p0.Y > maxY {
			maxY = p0.Y
		}
	}

	signedArea *= 0.5
	area = math.Abs(signedArea)
	depth = maxY - minY

	if math.Abs(signedArea) < 1e-15 {
		return area, 0, depth
	}

	cx /= 6 * signedArea
	cy /= 6 * signedArea

	// Second moment of area about the global X axis via the shoelace
	// sum, then shifted to the centroid with the parallel-axis theorem.
	var ixGlobal float64
	for i := 0; i < n; i++ {
		p0 := vertices[i]
		p1 := vertices[(i+1)%n]
		cross := p0.X*p1.Y - p1.X*p0.Y
		ixGlobal += (p0.Y*p0.Y + p0.Y*p1.Y + p1.Y*p1.Y) * cross
	}
	ixGlobal /= 12

	iz = math.Abs(ixGlobal) - area*cy*cy
	if iz < 0 {
		iz = 0
	}

	return area, iz, depth
}
