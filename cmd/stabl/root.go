package main

import (
	"github.com/spf13/cobra"

	"stabl/internal/version"
)

var (
	// formatFlag is the CLI --format flag value
	formatFlag string
	// graphFlag points at a graph document to analyze instead of the store
	graphFlag string
)

var rootCmd = &cobra.Command{
	Use:   "stabl",
	Short: "stabl - type stability and recomposition analysis",
	Long: `stabl classifies types by stability (can changes to a value be detected
by structural equality?) and walks call graphs to decide which callables a
UI runtime may skip re-rendering when their arguments are unchanged.

Graphs come from a YAML document (--graph), from the imported store in
.stabl/, or from Kotlin sources via 'stabl extract'.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("stabl version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "json", "Output format (json, human)")
	rootCmd.PersistentFlags().StringVar(&graphFlag, "graph", "", "Graph document to analyze (default: imported store, then config graph.path)")
}
