package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stabl/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the stabl configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .stabl/config.json",
	Args:  cobra.NoArgs,
	Run:   runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	Run:   runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	root := mustGetRoot()
	cfg := config.DefaultConfig()
	if err := cfg.Save(root); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Wrote .stabl/config.json")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	root := mustGetRoot()
	cfg, err := config.LoadConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	output, err := FormatResponse(cfg, FormatJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
