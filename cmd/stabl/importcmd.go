package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stabl/internal/graphfile"
	"stabl/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <graph.yaml>",
	Short: "Import a graph document into the store",
	Long: `Validate a graph document and load it into the SQLite store under
.stabl/, replacing any previously imported graph. Subsequent classify and
cascade commands read from the store unless --graph overrides it.`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) {
	logger := newLogger(formatFlag)
	path := args[0]

	doc, err := graphfile.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading graph document: %v\n", err)
		os.Exit(1)
	}

	root := mustGetRoot()
	st, err := store.Open(root, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Import(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing graph: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d types and %d callables into %s\n",
		len(doc.Types), len(doc.Callables), st.Path())
}
