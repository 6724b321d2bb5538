// Package typemodel defines the read-only type facts the stability
// classifier consumes: type references, resolved class declarations, and
// the facade interface that supplies them from a fixed snapshot of the
// host's symbol table.
package typemodel

import (
	"strings"
)

// ClassKind is the declaration shape of a resolved type.
type ClassKind string

const (
	KindClass      ClassKind = "class"
	KindInterface  ClassKind = "interface"
	KindEnum       ClassKind = "enum"
	KindValueClass ClassKind = "value_class"
	KindUnknown    ClassKind = "unknown"
)

// Modality describes how open a declaration is to subclassing.
type Modality string

const (
	ModalityFinal    Modality = "final"
	ModalityOpen     Modality = "open"
	ModalityAbstract Modality = "abstract"
	ModalitySealed   Modality = "sealed"
)

// TypeRef is a reference to a type as used at a call site. Immutable;
// constructed by the facade or parsed from a graph document.
type TypeRef struct {
	// Name is the qualified name of the referenced declaration, or the
	// bare parameter name when TypeParam is set.
	Name        string
	Nullable    bool
	TypeParam   bool // unbound generic parameter
	Arguments   []TypeRef
	Annotations []string
	// Alias points at the aliased type when this ref is a type alias
	// usage. Chains are possible; ExpandAlias follows them.
	Alias *TypeRef
}

// WithoutNullability returns the non-null form of the reference.
// Nullability never changes a stability verdict.
func (r TypeRef) WithoutNullability() TypeRef {
	r.Nullable = false
	return r
}

// HasAnnotation reports whether the reference carries the annotation,
// matching either the qualified name or its trailing simple name.
func (r TypeRef) HasAnnotation(names ...string) bool {
	return annotated(r.Annotations, names)
}

// Render produces the canonical signature string for a reference. The
// signature-level cycle guard keys on this rendering, so it must be
// deterministic and include type arguments.
func Render(ref TypeRef) string {
	var sb strings.Builder
	sb.WriteString(ref.Name)
	if len(ref.Arguments) > 0 {
		sb.WriteString("<")
		for i, arg := range ref.Arguments {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(Render(arg))
		}
		sb.WriteString(">")
	}
	if ref.Nullable {
		sb.WriteString("?")
	}
	return sb.String()
}

// PropertyDecl is a declared property of a class.
type PropertyDecl struct {
	Name string
	Type TypeRef
	// Mutable marks var-like properties. A single mutable property makes
	// the owning class unstable regardless of everything else.
	Mutable bool
}

// ClassDecl is a resolved declaration snapshot. Immutable; the universal
// root type never appears among Supertypes.
type ClassDecl struct {
	QualifiedName string
	SimpleName    string
	Kind          ClassKind
	Modality      Modality
	TypeParams    []string
	Properties    []PropertyDecl
	Supertypes    []TypeRef
	Annotations   []string
	// Wrapped is the single wrapped property of a value/inline class.
	Wrapped *PropertyDecl
	// InferredStability carries cross-module inferred-stability metadata
	// emitted by a prior compilation of the declaring module: the number
	// of parameters the inference depends on. 0 means unconditionally
	// stable; nil means no metadata.
	InferredStability *int
}

// HasAnnotation reports whether the declaration carries the annotation,
// matching either the qualified name or its trailing simple name.
func (d *ClassDecl) HasAnnotation(names ...string) bool {
	return annotated(d.Annotations, names)
}

// Facade is the read-only query surface over the host's symbol facts.
// Implementations must be deterministic for a fixed snapshot; slow lookups
// are allowed, failed lookups are reported via ok=false and never as
// errors.
type Facade interface {
	// Resolve maps a reference to its declaration. ok is false when the
	// symbol cannot be resolved; the classifier degrades to a runtime
	// verdict in that case.
	Resolve(ref TypeRef) (*ClassDecl, bool)

	// ExpandAlias returns the fully expanded reference with any alias
	// chain followed. Must return the input unchanged when there is
	// nothing to expand.
	ExpandAlias(ref TypeRef) TypeRef
}

// Annotated reports whether any of the annotation identifiers matches one
// of the wanted names, by qualified name or trailing simple name.
func Annotated(annotations []string, names ...string) bool {
	return annotated(annotations, names)
}

func annotated(have []string, want []string) bool {
	for _, a := range have {
		simple := a
		if i := strings.LastIndex(a, "."); i >= 0 {
			simple = a[i+1:]
		}
		for _, w := range want {
			if a == w || simple == w {
				return true
			}
		}
	}
	return false
}

// CallableParam is one declared parameter of a callable.
type CallableParam struct {
	Name string
	Type TypeRef
}

// Callable is a function or method whose parameters the engine classifies
// and whose call sites the cascade walker follows.
type Callable struct {
	ID         string
	TypeParams []string
	Params     []CallableParam
}

// SimpleNameOf returns the trailing segment of a qualified name.
func SimpleNameOf(qualifiedName string) string {
	if i := strings.LastIndex(qualifiedName, "."); i >= 0 {
		return qualifiedName[i+1:]
	}
	return qualifiedName
}
