//go:build !cgo

// Package extract builds graph documents from Kotlin sources using
// tree-sitter. This stub is used when CGO is not available.
package extract

import (
	"context"

	"stabl/internal/errors"
	"stabl/internal/graphfile"
	"stabl/internal/logging"
)

// ErrNoCGO is returned when extraction is unavailable due to missing CGO.
var ErrNoCGO = errors.New(errors.ExtractUnavailable, "source extraction requires CGO (tree-sitter)", nil)

// Extractor builds graph documents from Kotlin sources.
// This is a stub implementation for non-CGO builds.
type Extractor struct{}

// NewExtractor creates a new extractor.
// Returns nil when CGO is disabled.
func NewExtractor(logger *logging.Logger) *Extractor {
	return nil
}

// ExtractFile is unavailable without CGO.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*graphfile.Document, error) {
	return nil, ErrNoCGO
}

// ExtractDirectory is unavailable without CGO.
func (e *Extractor) ExtractDirectory(ctx context.Context, root string) (*graphfile.Document, error) {
	return nil, ErrNoCGO
}

// ExtractSource is unavailable without CGO.
func (e *Extractor) ExtractSource(ctx context.Context, source []byte) (*graphfile.Document, error) {
	return nil, ErrNoCGO
}
