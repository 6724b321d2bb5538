//go:build cgo

package extract

import (
	"context"
	"testing"

	"stabl/internal/graphfile"
)

const sampleSource = `
package com.example

import kotlinx.collections.immutable.ImmutableList

@Immutable
data class User(val name: String, val age: Int)

class Counter(var count: Int)

value class UserId(val raw: String)

enum class Color { RED, GREEN }

abstract class Shape

interface Renderer

fun render(user: User) {
    renderHeader(user)
    renderBody(user)
}

fun renderHeader(user: User) {
    format(user.name)
}

fun renderBody(user: User) {
}
`

func extractSample(t *testing.T) *graphfile.Document {
	t.Helper()
	e := NewExtractor(nil)
	doc, err := e.ExtractSource(context.Background(), []byte(sampleSource))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return doc
}

func findType(doc *graphfile.Document, name string) *graphfile.TypeDoc {
	for i := range doc.Types {
		if doc.Types[i].Name == name {
			return &doc.Types[i]
		}
	}
	return nil
}

func findCallable(doc *graphfile.Document, id string) *graphfile.CallableDoc {
	for i := range doc.Callables {
		if doc.Callables[i].ID == id {
			return &doc.Callables[i]
		}
	}
	return nil
}

func TestExtractDataClass(t *testing.T) {
	doc := extractSample(t)

	user := findType(doc, "com.example.User")
	if user == nil {
		t.Fatalf("User not extracted; have %+v", doc.Types)
	}
	if len(user.Properties) != 2 {
		t.Fatalf("expected 2 constructor properties, got %+v", user.Properties)
	}
	if user.Properties[0].Type != "kotlin.String" || user.Properties[0].Mutable {
		t.Errorf("unexpected name property: %+v", user.Properties[0])
	}
	if len(user.Annotations) != 1 || user.Annotations[0] != "Immutable" {
		t.Errorf("annotation not extracted: %v", user.Annotations)
	}
}

func TestExtractMutability(t *testing.T) {
	doc := extractSample(t)

	counter := findType(doc, "com.example.Counter")
	if counter == nil {
		t.Fatalf("Counter not extracted")
	}
	if len(counter.Properties) != 1 || !counter.Properties[0].Mutable {
		t.Errorf("var constructor parameter must be mutable: %+v", counter.Properties)
	}
}

func TestExtractKinds(t *testing.T) {
	doc := extractSample(t)

	tests := []struct {
		name     string
		kind     string
		modality string
	}{
		{"com.example.UserId", "value_class", "final"},
		{"com.example.Color", "enum", "final"},
		{"com.example.Shape", "class", "abstract"},
		{"com.example.Renderer", "interface", "final"},
	}
	for _, tt := range tests {
		td := findType(doc, tt.name)
		if td == nil {
			t.Errorf("%s not extracted", tt.name)
			continue
		}
		if td.Kind != tt.kind || td.Modality != tt.modality {
			t.Errorf("%s: got kind=%s modality=%s, want %s/%s", tt.name, td.Kind, td.Modality, tt.kind, tt.modality)
		}
	}

	userId := findType(doc, "com.example.UserId")
	if userId.Wrapped == nil || userId.Wrapped.Type != "kotlin.String" {
		t.Errorf("value class wrapped property missing: %+v", userId)
	}
}

func TestExtractCallGraph(t *testing.T) {
	doc := extractSample(t)

	render := findCallable(doc, "com.example.render")
	if render == nil {
		t.Fatalf("render not extracted; have %+v", doc.Callables)
	}
	if len(render.Params) != 1 || render.Params[0].Type != "com.example.User" {
		t.Errorf("unexpected params: %+v", render.Params)
	}

	// format has no local definition, so only the two resolvable callees
	// survive.
	if len(render.Callees) != 2 {
		t.Errorf("expected 2 resolved callees, got %v", render.Callees)
	}
	header := findCallable(doc, "com.example.renderHeader")
	if header == nil || len(header.Callees) != 0 {
		t.Errorf("unresolvable callee must be dropped: %+v", header)
	}
}

func TestExtractedDocumentBuilds(t *testing.T) {
	doc := extractSample(t)
	if _, err := doc.Build(nil); err != nil {
		t.Fatalf("extracted document must validate: %v", err)
	}
}
