package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stabl/internal/report"
)

var classifyOut string

var classifyCmd = &cobra.Command{
	Use:   "classify <type>",
	Short: "Classify the stability of a type",
	Long: `Classify a type reference against the loaded graph. The verdict is one
of stable, unstable, runtime, parameter, unknown or combined, together
with the reason chain that produced it.

Examples:
  stabl classify com.example.User
  stabl classify 'kotlin.collections.List<com.example.Item>'
  stabl classify --format=human 'com.example.User?'`,
	Args: cobra.ExactArgs(1),
	Run:  runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyOut, "out", "", "Write a report envelope to this path (.gz compresses)")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	start := time.Now()
	logger := newLogger(formatFlag)
	typeName := args[0]

	root := mustGetRoot()
	eng, _, cleanup := mustGetEngine(root, logger)
	defer cleanup()

	result, err := eng.ClassifyType(typeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error classifying type: %v\n", err)
		os.Exit(1)
	}

	cliResponse := &ClassifyResponseCLI{Type: typeName, Result: result}

	output, err := FormatResponse(cliResponse, OutputFormat(formatFlag))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	if classifyOut != "" {
		if err := report.Write(classifyOut, report.NewClassification(typeName, result)); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Debug("Classification completed", map[string]interface{}{
		"type":     typeName,
		"verdict":  string(result.Verdict),
		"duration": time.Since(start).Milliseconds(),
	})
}
