package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goframe/internal/analysis"
	"github.com/alexiusacademia/goframe/internal/diagram"
	"github.com/alexiusacademia/goframe/internal/persist"
)

var (
	diagramFile  string
	diagramBar   int
	diagramImage string
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Render a bar's N/V/M diagrams",
	Long: `Analyze a model and render the final axial, shear and moment
diagrams of one bar (or every bar) to the terminal, and optionally to
image files.

Examples:
  goframe diagram --file portal.json --bar 2
  goframe diagram --file portal.json --bar 2 --image out/bar2.png`,
	Run: runDiagram,
}

func init() {
	rootCmd.AddCommand(diagramCmd)

	diagramCmd.Flags().StringVarP(&diagramFile, "file", "f", "", "Path to the JSON model file [required]")
	diagramCmd.Flags().IntVar(&diagramBar, "bar", 0, "Bar id to render (0 = every bar)")
	diagramCmd.Flags().StringVar(&diagramImage, "image", "", "Optional base path to also export PNG/SVG/PDF diagrams")

	diagramCmd.MarkFlagRequired("file")
}

func runDiagram(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(diagramFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	m, err := persist.Unmarshal(data)
	if err != nil {
		fmt.Printf("Error: invalid model file: %v\n", err)
		return
	}

	res := analysis.Analyze(m, analysis.DefaultOptions())
	if !res.Success {
		fmt.Println("Analysis failed:")
		for _, e := range res.Errors {
			fmt.Printf("  ✗ %s\n", e)
		}
		return
	}

	for _, b := range m.Bars {
		if diagramBar != 0 && b.ID != diagramBar {
			continue
		}
		bd, ok := res.Diagrams[b.ID]
		if !ok {
			continue
		}
		fmt.Println(diagram.DrawBarDiagrams(b.ID, bd.N, bd.V, bd.M))

		if diagramImage != "" {
			path := diagramImage
			if diagramBar == 0 {
				path = imagePathForBar(diagramImage, b.ID)
			}
			if err := diagram.ExportBarDiagrams(b.ID, bd.N, bd.V, bd.M, path); err != nil {
				fmt.Printf("  ✗ failed to export images for bar %d: %v\n", b.ID, err)
			} else {
				fmt.Printf("  ✓ images written alongside %s\n", path)
			}
		}
	}
}

func imagePathForBar(base string, barID int) string {
	ext := ""
	for i := len(base) - 1; i >= 0 && base[i] != '/'; i-- {
		if base[i] == '.' {
			ext = base[i:]
			base = base[:i]
			break
		}
	}
	return base + "_bar" + strconv.Itoa(barID) + ext
}
