// Package diagram renders a bar's final N/V/M diagrams to the
// terminal and to image files, adapted from the teacher's
// section/strain ASCII and gonum/plot rendering (spec §6.6).
package diagram

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/goframe/internal/geometry"
)

// samples evaluates d at n evenly spaced points over [0, d.L].
func samples(d geometry.Diagram, n int) []float64 {
	if n < 2 {
		n = 2
	}
	out := make([]float64, n)
	dx := d.L / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = d.Eval(float64(i) * dx)
	}
	return out
}

// DrawASCIIDiagram renders one diagram (N, V or M) of a bar as a
// terminal line plot via asciigraph, labeled with the given caption
// and unit.
func DrawASCIIDiagram(barID int, label, unit string, d geometry.Diagram, width, height int) string {
	if width <= 0 {
		width = 60
	}
	if height <= 0 {
		height = 12
	}
	data := samples(d, width)
	caption := fmt.Sprintf("Bar %d — %s (%s)", barID, label, unit)
	return asciigraph.Plot(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}

// DrawBarDiagrams renders N, V and M for one bar stacked vertically.
func DrawBarDiagrams(barID int, n, v, m geometry.Diagram) string {
	var sb strings.Builder
	sb.WriteString(DrawASCIIDiagram(barID, "Axial Force N", "kN", n, 60, 10))
	sb.WriteString("\n\n")
	sb.WriteString(DrawASCIIDiagram(barID, "Shear Force V", "kN", v, 60, 10))
	sb.WriteString("\n\n")
	sb.WriteString(DrawASCIIDiagram(barID, "Bending Moment M", "kN·m", m, 60, 10))
	sb.WriteString("\n")
	return sb.String()
}

// DrawSummaryBox creates a boxed summary for headline results. Used by
// cmd/analyze.go to open the frame-analysis report (node/bar counts,
// indeterminacy degree, pass/fail) the way the teacher opened its
// RC-beam report; the box itself stays domain-agnostic.
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len(title)
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, title))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %-*s  ║\n", maxLen-2, line))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
