package typemodel

import (
	"testing"
)

func TestSnapshotResolve(t *testing.T) {
	snap := NewSnapshot().AddClass(&ClassDecl{
		QualifiedName: "com.example.User",
		Kind:          KindClass,
		Properties: []PropertyDecl{
			{Name: "name", Type: TypeRef{Name: "kotlin.String"}},
		},
	})

	decl, ok := snap.Resolve(TypeRef{Name: "com.example.User"})
	if !ok {
		t.Fatalf("expected resolution to succeed")
	}
	if decl.SimpleName != "User" {
		t.Errorf("expected derived simple name User, got %s", decl.SimpleName)
	}
	if decl.Modality != ModalityFinal {
		t.Errorf("expected default final modality, got %s", decl.Modality)
	}

	if _, ok := snap.Resolve(TypeRef{Name: "com.example.Missing"}); ok {
		t.Errorf("expected unresolved symbol to report ok=false")
	}
}

func TestExpandAliasChain(t *testing.T) {
	snap := NewSnapshot().
		AddAlias("UserAlias", TypeRef{Name: "UserAlias2"}).
		AddAlias("UserAlias2", TypeRef{Name: "com.example.User"})

	got := snap.ExpandAlias(TypeRef{Name: "UserAlias"})
	if got.Name != "com.example.User" {
		t.Errorf("expected chain expansion to com.example.User, got %s", got.Name)
	}
}

func TestExpandAliasPreservesNullability(t *testing.T) {
	snap := NewSnapshot().AddAlias("MaybeUser", TypeRef{Name: "com.example.User"})

	got := snap.ExpandAlias(TypeRef{Name: "MaybeUser", Nullable: true})
	if !got.Nullable {
		t.Errorf("expected outer nullability to survive expansion")
	}
}

func TestExpandAliasCycleTerminates(t *testing.T) {
	snap := NewSnapshot().
		AddAlias("A", TypeRef{Name: "B"}).
		AddAlias("B", TypeRef{Name: "A"})

	// Must terminate; the unresolved result then degrades downstream.
	got := snap.ExpandAlias(TypeRef{Name: "A"})
	if got.Name != "A" && got.Name != "B" {
		t.Errorf("unexpected expansion result %s", got.Name)
	}
}

func TestExpandAliasInlineTarget(t *testing.T) {
	target := TypeRef{Name: "com.example.User"}
	snap := NewSnapshot()

	got := snap.ExpandAlias(TypeRef{Name: "UserAlias", Alias: &target})
	if got.Name != "com.example.User" {
		t.Errorf("expected inline alias expansion, got %s", got.Name)
	}
}

func TestHasAnnotationSimpleName(t *testing.T) {
	decl := &ClassDecl{
		QualifiedName: "com.example.User",
		Annotations:   []string{"androidx.compose.runtime.Stable"},
	}
	if !decl.HasAnnotation("Stable") {
		t.Errorf("expected simple-name annotation match")
	}
	if !decl.HasAnnotation("androidx.compose.runtime.Stable") {
		t.Errorf("expected qualified annotation match")
	}
	if decl.HasAnnotation("Immutable") {
		t.Errorf("unexpected annotation match")
	}
}
