package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goframe/internal/analysis"
	"github.com/alexiusacademia/goframe/internal/diagram"
	"github.com/alexiusacademia/goframe/internal/model"
	"github.com/alexiusacademia/goframe/internal/persist"
	"github.com/alexiusacademia/goframe/internal/solver"
)

var (
	analyzeFile         string
	analyzeIncludeAxial bool
	analyzeIncludeShear bool
	analyzeSolver       string
	analyzePoints       int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a plane frame model by the Force Method",
	Long: `Run the full force-method pipeline on a JSON model file:
model validation, indeterminacy, redundant selection, substructure
generation, flexibility assembly, compatibility solve and final
superposition.

Examples:
  goframe analyze --file portal.json
  goframe analyze --file beam.json --solver cholesky --axial`,
	Run: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Path to the JSON model file [required]")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeAxial, "axial", false, "Include axial flexibility in the compatibility system")
	analyzeCmd.Flags().BoolVar(&analyzeIncludeShear, "shear", false, "Shear flexibility switch (no shear term is added: the analysis sets no shear factor)")
	analyzeCmd.Flags().StringVar(&analyzeSolver, "solver", "direct", "Compatibility solver: direct|cholesky|iterative")
	analyzeCmd.Flags().IntVar(&analyzePoints, "points", 0, "Simpson integration sample points (0 = default)")

	analyzeCmd.MarkFlagRequired("file")
}

func runAnalyze(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(analyzeFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	m, err := persist.Unmarshal(data)
	if err != nil {
		fmt.Printf("Error: invalid model file: %v\n", err)
		return
	}

	opts := analysis.DefaultOptions()
	opts.IncludeAxialFlex = analyzeIncludeAxial
	opts.IncludeShearFlex = analyzeIncludeShear
	if analyzePoints > 0 {
		opts.IntegrationPoints = analyzePoints
	}
	switch analyzeSolver {
	case "cholesky":
		opts.Solver = solver.CholeskyStrategy
	case "iterative":
		opts.Solver = solver.Iterative
	default:
		opts.Solver = solver.Direct
	}

	res := analysis.Analyze(m, opts)

	fmt.Println()
	fmt.Print(diagram.DrawSummaryBox(fmt.Sprintf("PLANE FRAME ANALYSIS — %s", m.Name), summaryLines(m, res)))
	fmt.Println()

	if !res.Success {
		fmt.Println("ANALYSIS FAILED:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		for _, e := range res.Errors {
			fmt.Printf("  ✗ %s\n", e)
		}
		fmt.Println()
		return
	}

	if len(res.Redundants) > 0 {
		fmt.Println("REDUNDANTS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, r := range res.Redundants {
			fmt.Fprintf(w, "  X%d:\t%s\n", r.Index, r.Description)
		}
		w.Flush()
		fmt.Println()

		fmt.Println("COMPATIBILITY SOLUTION:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for i, x := range res.X {
			fmt.Fprintf(w, "  X%d:\t%.6g\n", i+1, x)
		}
		fmt.Fprintf(w, "  SECE residual:\t%.3g\n", res.SeceResidual)
		fmt.Fprintf(w, "  cond(F):\t%.3g\n", res.ConditionNumber)
		w.Flush()
		fmt.Println()
	}

	fmt.Println("REACTIONS (Rx, Ry, Mz):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, n := range m.Nodes {
		if n.Support == nil {
			continue
		}
		r := res.Reactions[n.ID]
		fmt.Fprintf(w, "  Node %d:\t%.4g kN\t%.4g kN\t%.4g kN·m\n", n.ID, r[0], r[1], r[2])
	}
	w.Flush()
	fmt.Println()

	fmt.Println("BAR END FORCES (N, V, M at i and j):")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, b := range m.Bars {
		d, ok := res.Diagrams[b.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  Bar %d (i):\t%.4g kN\t%.4g kN\t%.4g kN·m\n", b.ID, d.N.Eval(0), d.V.Eval(0), d.M.Eval(0))
		fmt.Fprintf(w, "  Bar %d (j):\t%.4g kN\t%.4g kN\t%.4g kN·m\n", b.ID, d.N.Eval(b.Length()), d.V.Eval(b.Length()), d.M.Eval(b.Length()))
	}
	w.Flush()
	fmt.Println()

	if len(res.SpringDisplacements) > 0 {
		fmt.Println("SPRING DISPLACEMENTS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for nodeID, d := range res.SpringDisplacements {
			fmt.Fprintf(w, "  Node %d:\t%.6g m\t%.6g m\t%.6g rad\n", nodeID, d[0], d[1], d[2])
		}
		w.Flush()
		fmt.Println()
	}

	if len(res.Warnings) > 0 {
		fmt.Println("WARNINGS:")
		fmt.Println("───────────────────────────────────────────────────────────────")
		for _, warn := range res.Warnings {
			fmt.Printf("  ⚠ %s\n", warn)
		}
		fmt.Println()
	}

	fmt.Println("  ─────────────────────────────────────────────────────────────")
	fmt.Println("  ✓ Analysis complete.")
	fmt.Println()
}

// summaryLines builds the boxed header's body: model size, indeterminacy
// degree and pass/fail, adapted from the teacher's RC-beam summary box
// (internal/diagram/ascii.go) to this package's frame-analysis fields.
func summaryLines(m *model.Model, res *analysis.Result) []string {
	lines := []string{
		fmt.Sprintf("Nodes: %d   Bars: %d", len(m.Nodes), len(m.Bars)),
		fmt.Sprintf("Degree of indeterminacy (GH): %d", res.Degree),
	}
	if res.Success {
		lines = append(lines, "Status: OK")
	} else {
		lines = append(lines, "Status: FAILED")
	}
	return lines
}
