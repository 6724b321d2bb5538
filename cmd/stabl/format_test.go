package main

import (
	"strings"
	"testing"

	"stabl/internal/cascade"
	"stabl/internal/stability"
)

func TestFormatClassifyJSON(t *testing.T) {
	resp := &ClassifyResponseCLI{
		Type:   "com.example.User",
		Result: stability.Stable("all properties stable"),
	}
	out, err := FormatResponse(resp, FormatJSON)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(out, `"verdict": "stable"`) {
		t.Errorf("missing verdict in output:\n%s", out)
	}
}

func TestFormatClassifyHuman(t *testing.T) {
	resp := &ClassifyResponseCLI{
		Type:   "com.example.Counter",
		Result: stability.Unstable("1 mutable properties"),
	}
	out, err := FormatResponse(resp, FormatHuman)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(out, "com.example.Counter") || !strings.Contains(out, "unstable") {
		t.Errorf("unexpected human output:\n%s", out)
	}
}

func TestFormatCascadeHuman(t *testing.T) {
	tree := &cascade.Tree{
		Root: &cascade.Node{
			ID:        "com.example.render",
			Stability: &cascade.NodeStability{Skippable: true},
			Children: []*cascade.Node{
				{
					ID:        "com.example.renderList",
					Depth:     1,
					Stability: &cascade.NodeStability{Skippable: false},
					Truncated: cascade.TruncatedMaxDepth,
				},
			},
		},
		Summary: cascade.Summary{TotalNodes: 2, Skippable: 1, NonSkippable: 1, MaxDepth: 1, Truncated: true},
	}
	out, err := FormatResponse(&CascadeResponseCLI{Root: "com.example.render", Tree: tree}, FormatHuman)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, want := range []string{"[skip]", "[re-render]", "max depth reached", "truncated"} {
		if !strings.Contains(out, want) {
			t.Errorf("human cascade output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatUnsupported(t *testing.T) {
	if _, err := FormatResponse(struct{}{}, OutputFormat("xml")); err == nil {
		t.Errorf("expected error for unsupported format")
	}
}
