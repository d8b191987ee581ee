package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/alexiusacademia/goframe/internal/geometry"
)

// curvePoints samples d into enough plotter.XYs to render a smooth
// line, honouring any curvature (uniform-load parabolas) the segment
// coefficients carry.
func curvePoints(d geometry.Diagram) plotter.XYs {
	const perSegment = 24
	var pts plotter.XYs
	for _, seg := range d.Segments {
		n := perSegment
		for i := 0; i <= n; i++ {
			x := seg.X0 + (seg.X1-seg.X0)*float64(i)/float64(n)
			pts = append(pts, plotter.XY{X: x, Y: d.Eval(x)})
		}
	}
	if len(pts) == 0 {
		pts = plotter.XYs{{X: 0, Y: 0}, {X: d.L, Y: 0}}
	}
	return pts
}

// ExportDiagram plots one N/V/M diagram of a bar to filename (png,
// svg or pdf inferred from extension), adapted from the teacher's
// gonum/plot section-diagram export.
func ExportDiagram(barID int, label, unit string, d geometry.Diagram, filename string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Bar %d — %s", barID, label)
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = fmt.Sprintf("%s (%s)", label, unit)

	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: d.L, Y: 0}})
	if err != nil {
		return err
	}
	zero.LineStyle.Width = vg.Points(1)
	zero.LineStyle.Color = color.Gray{Y: 160}
	p.Add(zero)

	curve, err := plotter.NewLine(curvePoints(d))
	if err != nil {
		return err
	}
	curve.LineStyle.Width = vg.Points(2)
	curve.LineStyle.Color = color.RGBA{R: 0, G: 100, B: 200, A: 255}
	p.Add(curve)

	fill, err := plotter.NewPolygon(fillPoints(d))
	if err == nil {
		fill.Color = color.RGBA{R: 0, G: 100, B: 200, A: 60}
		fill.LineStyle.Width = 0
		p.Add(fill)
	}

	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		os.MkdirAll(dir, 0755)
	}

	width := 8 * vg.Inch
	height := 4 * vg.Inch

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

// fillPoints closes the curve against the x-axis so the diagram's
// magnitude reads as a shaded region, the way a structural drawing
// conventionally shows N/V/M diagrams.
func fillPoints(d geometry.Diagram) plotter.XYs {
	curve := curvePoints(d)
	pts := make(plotter.XYs, 0, len(curve)+2)
	pts = append(pts, plotter.XY{X: 0, Y: 0})
	pts = append(pts, curve...)
	pts = append(pts, plotter.XY{X: d.L, Y: 0})
	return pts
}

// ExportBarDiagrams writes N, V and M each to their own file, deriving
// sibling filenames from base (e.g. "bar3.png" -> "bar3_N.png").
func ExportBarDiagrams(barID int, n, v, m geometry.Diagram, base string) error {
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]
	if ext == "" {
		ext = ".png"
	}
	if err := ExportDiagram(barID, "Axial Force N", "kN", n, stem+"_N"+ext); err != nil {
		return err
	}
	if err := ExportDiagram(barID, "Shear Force V", "kN", v, stem+"_V"+ext); err != nil {
		return err
	}
	return ExportDiagram(barID, "Bending Moment M", "kN·m", m, stem+"_M"+ext)
}
