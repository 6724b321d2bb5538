package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stabl/internal/config"
	"stabl/internal/engine"
	"stabl/internal/graphfile"
	"stabl/internal/logging"
	"stabl/internal/policy"
	"stabl/internal/stability"
	"stabl/internal/store"
	"stabl/internal/typemodel"
)

// getEngine builds the analysis engine for one command invocation. The
// graph comes from --graph when given, otherwise from the imported store
// in .stabl/, otherwise from the configured graph document path. The
// returned cleanup releases the store when one was opened.
func getEngine(root string, logger *logging.Logger) (*engine.Engine, *config.Config, func(), error) {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		logger.Warn("Failed to load config, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	pol := buildPolicy(cfg, logger)
	noop := func() {}

	if graphFlag != "" {
		e, err := engineFromDocument(graphFlag, pol, logger)
		return e, cfg, noop, err
	}

	if storeExists(root) {
		st, err := store.Open(root, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		facade := typemodel.Layer(st, stability.Prelude())
		e := engine.New(facade, st, st, pol, logger)
		return e, cfg, func() { st.Close() }, nil
	}

	e, err := engineFromDocument(cfg.Graph.Path, pol, logger)
	return e, cfg, noop, err
}

func engineFromDocument(path string, pol policy.Policy, logger *logging.Logger) (*engine.Engine, error) {
	doc, err := graphfile.Load(path)
	if err != nil {
		return nil, err
	}
	g, err := doc.Build(stability.Prelude())
	if err != nil {
		return nil, err
	}
	return engine.New(g.Snapshot, g, g, pol, logger), nil
}

// buildPolicy compiles the configured patterns, logging each invalid one
// as a configuration warning. Invalid patterns match nothing.
func buildPolicy(cfg *config.Config, logger *logging.Logger) policy.Policy {
	pol, invalid := policy.New(cfg.PolicyOptions())
	for _, p := range invalid {
		logger.Warn("Ignoring invalid policy pattern", map[string]interface{}{
			"pattern": p.Pattern,
			"error":   p.Err.Error(),
		})
	}
	return pol
}

func storeExists(root string) bool {
	_, err := os.Stat(root + "/.stabl/stabl.db")
	return err == nil
}

// mustGetEngine returns the engine or exits on error.
func mustGetEngine(root string, logger *logging.Logger) (*engine.Engine, *config.Config, func()) {
	e, cfg, cleanup, err := getEngine(root, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing engine: %v\n", err)
		os.Exit(1)
	}
	return e, cfg, cleanup
}

// getRoot returns the project root directory.
func getRoot() (string, error) {
	return os.Getwd()
}

// mustGetRoot returns the project root or exits on error.
func mustGetRoot() string {
	root, err := getRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return root
}

// newContext creates a context cancelled by SIGINT/SIGTERM so that long
// cascade walks return their partial tree on interrupt.
func newContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// newLogger creates a logger with the specified output format.
func newLogger(format string) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  logging.InfoLevel,
	})
}
