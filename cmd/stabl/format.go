package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"stabl/internal/cascade"
	"stabl/internal/stability"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *ClassifyResponseCLI:
		return formatClassifyHuman(v), nil
	case *CascadeResponseCLI:
		return formatCascadeHuman(v), nil
	case *CallablesResponseCLI:
		return formatCallablesHuman(v), nil
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

// ClassifyResponseCLI contains a classification result for CLI output
type ClassifyResponseCLI struct {
	Type   string                   `json:"type"`
	Result stability.Classification `json:"result"`
}

// CascadeResponseCLI contains a cascade walk result for CLI output
type CascadeResponseCLI struct {
	Root    string        `json:"root"`
	Tree    *cascade.Tree `json:"tree"`
	Partial bool          `json:"partial,omitempty"`
}

// CallablesResponseCLI lists the callables known to the graph
type CallablesResponseCLI struct {
	Callables []string `json:"callables"`
}

func formatClassifyHuman(resp *ClassifyResponseCLI) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s\n", resp.Type, resp.Result.String()))
	if len(resp.Result.Members) > 0 {
		b.WriteString("Members:\n")
		for _, m := range resp.Result.Members {
			b.WriteString(fmt.Sprintf("  - %s\n", m.String()))
		}
	}
	return b.String()
}

func formatCascadeHuman(resp *CascadeResponseCLI) string {
	var b strings.Builder
	if resp.Partial {
		b.WriteString("(partial result, walk cancelled)\n")
	}
	if resp.Tree == nil || resp.Tree.Root == nil {
		b.WriteString("no result\n")
		return b.String()
	}

	writeNodeHuman(&b, resp.Tree.Root)

	s := resp.Tree.Summary
	b.WriteString(fmt.Sprintf("\n%d callables: %d skippable, %d not skippable (max depth %d",
		s.TotalNodes, s.Skippable, s.NonSkippable, s.MaxDepth))
	if s.Truncated {
		b.WriteString(", truncated")
	}
	b.WriteString(")\n")
	return b.String()
}

func writeNodeHuman(b *strings.Builder, n *cascade.Node) {
	indent := strings.Repeat("  ", n.Depth)
	marker := "skip"
	if n.Stability == nil || !n.Stability.Skippable {
		marker = "re-render"
	}
	b.WriteString(fmt.Sprintf("%s%s [%s]", indent, n.ID, marker))
	if n.Truncated != "" {
		b.WriteString(fmt.Sprintf(" (%s)", n.Truncated))
	}
	b.WriteString("\n")
	for _, child := range n.Children {
		writeNodeHuman(b, child)
	}
}

func formatCallablesHuman(resp *CallablesResponseCLI) string {
	var b strings.Builder
	for _, id := range resp.Callables {
		b.WriteString(id)
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%d callables\n", len(resp.Callables)))
	return b.String()
}
