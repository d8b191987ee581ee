package cmd

import (
	"fmt"
	"os"

	"github.com/alexiusacademia/goframe/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "goframe",
	Short: "2-D Planar Frame Analyzer (Force Method)",
	Long: `goframe - 2-D Planar Frame Analyzer

A CLI tool for the static analysis of plane frames and beams by the
classical Force (Flexibility) Method.

This tool helps structural engineers:
  - Determine the degree of static indeterminacy (GH)
  - Select and validate redundants, automatically or by hand
  - Assemble the flexibility matrix and solve for compatibility
  - Recover final N/V/M diagrams, reactions and spring displacements
  - Render diagrams to the terminal or to PNG

Every model is loaded from a JSON file describing nodes, bars,
materials, sections and loads.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   goframe v%-47s║\n", version.Version)
		fmt.Println("  ║   2-D Planar Frame Analyzer (Force Method)                ║")
		fmt.Println("  ║   Alexius S. Academia ©  2025                             ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for the static analysis of plane frames and beams")
		fmt.Println("  by the classical Force (Flexibility) Method.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Degree of static indeterminacy (GH) and stability check")
		fmt.Println("    • Automatic or manual redundant selection")
		fmt.Println("    • Flexibility matrix assembly via virtual work")
		fmt.Println("    • Final N/V/M diagrams, reactions, spring displacements")
		fmt.Println("    • ASCII and PNG diagram rendering")
		fmt.Println()
		fmt.Println("  Use 'goframe --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
