package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stabl/internal/extract"
	"stabl/internal/graphfile"
)

var extractOut string

var extractCmd = &cobra.Command{
	Use:   "extract <dir>",
	Short: "Extract a graph document from Kotlin sources",
	Long: `Parse the Kotlin sources under a directory with tree-sitter and write
the extracted type and call graph as a graph document. Extraction is
syntactic and best-effort; unresolvable types degrade to runtime
verdicts at classification time.

Requires a CGO-enabled build.`,
	Args: cobra.ExactArgs(1),
	Run:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractOut, "out", "stabl.yaml", "Output graph document path")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	logger := newLogger(formatFlag)
	dir := args[0]

	extractor := extract.NewExtractor(logger)
	if extractor == nil {
		fmt.Fprintln(os.Stderr, "Error: source extraction requires a CGO-enabled build")
		os.Exit(1)
	}

	ctx, cancel := newContext()
	defer cancel()

	doc, err := extractor.ExtractDirectory(ctx, dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting sources: %v\n", err)
		os.Exit(1)
	}

	if err := graphfile.Save(extractOut, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing graph document: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Extracted %d types and %d callables to %s\n",
		len(doc.Types), len(doc.Callables), extractOut)
}
