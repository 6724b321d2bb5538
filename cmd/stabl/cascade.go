package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stabl/internal/errors"
	"stabl/internal/report"
)

var (
	cascadeMaxDepth int
	cascadeOut      string
)

var cascadeCmd = &cobra.Command{
	Use:   "cascade <callable-id>",
	Short: "Walk the re-render cascade from a callable",
	Long: `Walk the call graph from a root callable, annotating every reachable
callable with whether its invocation may be skipped when arguments are
unchanged. Cycles truncate; an interrupt returns the partial tree.

Examples:
  stabl cascade com.example.render
  stabl cascade --max-depth=4 --format=human com.example.render`,
	Args: cobra.ExactArgs(1),
	Run:  runCascade,
}

func init() {
	cascadeCmd.Flags().IntVar(&cascadeMaxDepth, "max-depth", 0, "Maximum walk depth (default: config cascade.maxDepth)")
	cascadeCmd.Flags().StringVar(&cascadeOut, "out", "", "Write a report envelope to this path (.gz compresses)")
	rootCmd.AddCommand(cascadeCmd)
}

func runCascade(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(formatFlag)
	rootCallable := args[0]

	root := mustGetRoot()
	eng, cfg, cleanup := mustGetEngine(root, logger)
	defer cleanup()

	maxDepth := cascadeMaxDepth
	if maxDepth <= 0 {
		maxDepth = cfg.Cascade.MaxDepth
	}

	ctx, cancel := newContext()
	defer cancel()

	tree, err := eng.Cascade(ctx, rootCallable, maxDepth)
	partial := false
	if err != nil {
		if errors.CodeOf(err) != errors.WalkCancelled || tree == nil {
			fmt.Fprintf(os.Stderr, "Error walking cascade: %v\n", err)
			os.Exit(1)
		}
		partial = true
	}

	cliResponse := &CascadeResponseCLI{Root: rootCallable, Tree: tree, Partial: partial}

	output, err := FormatResponse(cliResponse, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	if cascadeOut != "" {
		rep := report.NewCascade(rootCallable, tree)
		if partial {
			rep.Warn(string(errors.WalkCancelled), "walk cancelled, tree is partial")
		}
		if err := report.Write(cascadeOut, rep); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Debug("Cascade completed", map[string]interface{}{
		"root":     rootCallable,
		"nodes":    tree.Summary.TotalNodes,
		"partial":  partial,
		"duration": time.Since(start).Milliseconds(),
	})
}
