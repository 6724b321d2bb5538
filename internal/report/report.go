// Package report wraps analysis results in a stable envelope for export:
// a request id, timestamps, tool identity and non-fatal warnings around
// the classification or cascade payload. Reports serialize to JSON, with
// transparent gzip when the target path ends in .gz.
package report

import (
	"time"

	"github.com/google/uuid"

	"stabl/internal/cascade"
	"stabl/internal/stability"
	"stabl/internal/version"
)

// Tool identifies which operation produced a report.
type Tool string

const (
	ToolClassify Tool = "classify"
	ToolCascade  Tool = "cascade"
)

// Warning represents a non-fatal issue surfaced during analysis.
type Warning struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Report is the export envelope. Exactly one payload field is set,
// matching Tool.
type Report struct {
	RequestID   string    `json:"requestId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Tool        Tool      `json:"tool"`
	Version     string    `json:"version"`
	Warnings    []Warning `json:"warnings,omitempty"`

	Type           string                    `json:"type,omitempty"`
	Classification *stability.Classification `json:"classification,omitempty"`

	Root    string        `json:"root,omitempty"`
	Cascade *cascade.Tree `json:"cascade,omitempty"`
}

// NewClassification builds a classify report for one type.
func NewClassification(typeName string, result stability.Classification) *Report {
	r := newReport(ToolClassify)
	r.Type = typeName
	r.Classification = &result
	return r
}

// NewCascade builds a cascade report for one walk.
func NewCascade(root string, tree *cascade.Tree) *Report {
	r := newReport(ToolCascade)
	r.Root = root
	r.Cascade = tree
	return r
}

func newReport(tool Tool) *Report {
	return &Report{
		RequestID:   uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Tool:        tool,
		Version:     version.Version,
	}
}

// Warn appends a non-fatal warning to the envelope.
func (r *Report) Warn(code, message string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: message})
}
