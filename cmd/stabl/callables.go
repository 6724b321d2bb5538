package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stabl/internal/graphfile"
	"stabl/internal/store"
)

var callablesCmd = &cobra.Command{
	Use:   "callables",
	Short: "List the callables known to the graph",
	Args:  cobra.NoArgs,
	Run:   runCallables,
}

func init() {
	rootCmd.AddCommand(callablesCmd)
}

func runCallables(cmd *cobra.Command, args []string) {
	logger := newLogger(formatFlag)
	root := mustGetRoot()

	var ids []string
	if graphFlag != "" {
		doc, err := graphfile.Load(graphFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading graph document: %v\n", err)
			os.Exit(1)
		}
		g, err := doc.Build(nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building graph: %v\n", err)
			os.Exit(1)
		}
		ids = g.CallableIDs()
	} else {
		st, err := store.Open(root, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		ids, err = st.CallableIDs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing callables: %v\n", err)
			os.Exit(1)
		}
	}

	output, err := FormatResponse(&CallablesResponseCLI{Callables: ids}, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
