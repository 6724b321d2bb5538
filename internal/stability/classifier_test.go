package stability

import (
	"fmt"
	"strings"
	"testing"

	"stabl/internal/policy"
	"stabl/internal/typemodel"
)

func mustRef(t *testing.T, s string) typemodel.TypeRef {
	t.Helper()
	ref, err := typemodel.ParseTypeRef(s, nil)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ref
}

func newTestClassifier(t *testing.T, snap *typemodel.Snapshot, opts policy.Options) *Classifier {
	t.Helper()
	pol, invalid := policy.New(opts)
	if len(invalid) != 0 {
		t.Fatalf("invalid patterns: %v", invalid)
	}
	return New(snap, pol, nil)
}

func stableUser(snap *typemodel.Snapshot) *typemodel.Snapshot {
	return snap.AddClass(&typemodel.ClassDecl{
		QualifiedName: "com.example.User",
		Kind:          typemodel.KindClass,
		Properties: []typemodel.PropertyDecl{
			{Name: "name", Type: typemodel.TypeRef{Name: "kotlin.String"}},
			{Name: "age", Type: typemodel.TypeRef{Name: "kotlin.Int"}},
		},
	})
}

func TestDataClassAllValStableProperties(t *testing.T) {
	c := newTestClassifier(t, stableUser(Prelude()), policy.Options{})

	got := c.Classify(mustRef(t, "com.example.User"))
	if !got.IsStable() {
		t.Fatalf("expected stable, got %s", got)
	}
	if !strings.Contains(got.Reason, "all properties stable") {
		t.Errorf("unexpected reason %q", got.Reason)
	}
}

func TestDataClassVarPropertiesUnstable(t *testing.T) {
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "com.example.MutableUser",
		Kind:          typemodel.KindClass,
		Properties: []typemodel.PropertyDecl{
			{Name: "name", Type: typemodel.TypeRef{Name: "kotlin.String"}, Mutable: true},
			{Name: "age", Type: typemodel.TypeRef{Name: "kotlin.Int"}, Mutable: true},
		},
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.MutableUser"))
	if !got.IsUnstable() {
		t.Fatalf("expected unstable, got %s", got)
	}
	if !strings.Contains(got.Reason, "mutable properties") {
		t.Errorf("reason should mention mutable properties, got %q", got.Reason)
	}
}

func TestMutableCollectionUnstable(t *testing.T) {
	c := newTestClassifier(t, Prelude(), policy.Options{})

	got := c.Classify(mustRef(t, "kotlin.collections.MutableList<kotlin.Int>"))
	if !got.IsUnstable() {
		t.Fatalf("expected unstable, got %s", got)
	}
	if !strings.Contains(got.Reason, "mutable collection") {
		t.Errorf("unexpected reason %q", got.Reason)
	}
}

func TestImmutableCollectionLibraryStable(t *testing.T) {
	c := newTestClassifier(t, Prelude(), policy.Options{})

	tests := []string{
		"kotlinx.collections.immutable.ImmutableList<kotlin.Int>",
		"kotlinx.collections.immutable.PersistentMap<kotlin.String,kotlin.Int>",
	}
	for _, in := range tests {
		got := c.Classify(mustRef(t, in))
		if !got.IsStable() {
			t.Errorf("%s: expected stable, got %s", in, got)
		}
	}
}

func TestImmutableCollectionSimpleNameFallback(t *testing.T) {
	// Unqualified reference, as produced from partially resolved sources.
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "ImmutableList",
		Kind:          typemodel.KindInterface,
		Modality:      typemodel.ModalityOpen,
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "ImmutableList<kotlin.Int>"))
	if !got.IsStable() {
		t.Errorf("expected simple-name allowlist to win over the interface rule, got %s", got)
	}
}

func TestReadonlyCollectionInterfaceRuntime(t *testing.T) {
	c := newTestClassifier(t, Prelude(), policy.Options{})

	got := c.Classify(mustRef(t, "kotlin.collections.List<kotlin.Int>"))
	if got.Verdict != VerdictRuntime {
		t.Fatalf("expected runtime, got %s", got)
	}
	if !strings.Contains(got.Reason, "mutable") {
		t.Errorf("reason should note the implementation may be mutable, got %q", got.Reason)
	}
}

func TestPlainInterfaceRuntime(t *testing.T) {
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "com.example.Shape",
		Kind:          typemodel.KindInterface,
		Modality:      typemodel.ModalityOpen,
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Shape"))
	if got.Verdict != VerdictRuntime {
		t.Errorf("expected runtime for interface, got %s", got)
	}
}

func TestAllowlistPrecedesInterfaceRule(t *testing.T) {
	// A declaration on the built-in allowlist classifies stable even when
	// its declaration shape alone would make it runtime-resolved.
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "androidx.compose.ui.graphics.Color",
		Kind:          typemodel.KindInterface,
		Modality:      typemodel.ModalityOpen,
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "androidx.compose.ui.graphics.Color"))
	if !got.IsStable() {
		t.Errorf("allowlist must win over interface rule, got %s", got)
	}
}

func TestPolicyPrecedence(t *testing.T) {
	snap := Prelude().
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.generated.Proto",
			Kind:          typemodel.KindInterface,
			Modality:      typemodel.ModalityOpen,
		}).
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.vendor.Widget",
			Kind:          typemodel.KindClass,
			Properties: []typemodel.PropertyDecl{
				{Name: "items", Type: mustRef(t, "kotlin.collections.MutableList<kotlin.Int>")},
			},
		})
	c := newTestClassifier(t, snap, policy.Options{
		IgnoredPatterns: []string{"com.generated.*"},
		StablePatterns:  []string{"com.example.vendor.*"},
	})

	got := c.Classify(mustRef(t, "com.generated.Proto"))
	if !got.IsStable() || !strings.Contains(got.Reason, "ignored") {
		t.Errorf("expected ignored-by-policy stable, got %s", got)
	}

	got = c.Classify(mustRef(t, "com.example.vendor.Widget"))
	if !got.IsStable() || !strings.Contains(got.Reason, "custom stable") {
		t.Errorf("expected custom-stable to win over unstable property, got %s", got)
	}
}

func TestStableAnnotationWins(t *testing.T) {
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "com.example.Cache",
		Kind:          typemodel.KindClass,
		Annotations:   []string{"androidx.compose.runtime.Stable"},
		Properties: []typemodel.PropertyDecl{
			{Name: "entries", Type: typemodel.TypeRef{Name: "kotlin.Int"}, Mutable: true},
		},
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Cache"))
	if !got.IsStable() || !strings.Contains(got.Reason, "annotation") {
		t.Errorf("expected annotation-trusted stable, got %s", got)
	}
}

func TestMutabilityDominatesStableSupertype(t *testing.T) {
	snap := Prelude().
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.Base",
			Kind:          typemodel.KindClass,
			Modality:      typemodel.ModalityOpen,
			Properties: []typemodel.PropertyDecl{
				{Name: "id", Type: typemodel.TypeRef{Name: "kotlin.Int"}},
			},
		}).
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.Child",
			Kind:          typemodel.KindClass,
			Supertypes:    []typemodel.TypeRef{{Name: "com.example.Base"}},
			Properties: []typemodel.PropertyDecl{
				{Name: "label", Type: typemodel.TypeRef{Name: "kotlin.String"}, Mutable: true},
				{Name: "count", Type: typemodel.TypeRef{Name: "kotlin.Int"}},
			},
		})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Child"))
	if !got.IsUnstable() {
		t.Fatalf("expected unstable, got %s", got)
	}
	if !strings.Contains(got.Reason, "mutable properties") {
		t.Errorf("unexpected reason %q", got.Reason)
	}
}

func TestUnstableSupertypeFirstMatch(t *testing.T) {
	snap := Prelude().
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.MutableBase",
			Kind:          typemodel.KindClass,
			Modality:      typemodel.ModalityOpen,
			Properties: []typemodel.PropertyDecl{
				{Name: "state", Type: typemodel.TypeRef{Name: "kotlin.Int"}, Mutable: true},
			},
		}).
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.Child",
			Kind:          typemodel.KindClass,
			Supertypes:    []typemodel.TypeRef{{Name: "com.example.MutableBase"}},
			Properties: []typemodel.PropertyDecl{
				{Name: "label", Type: typemodel.TypeRef{Name: "kotlin.String"}},
			},
		})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Child"))
	if !got.IsUnstable() {
		t.Fatalf("expected unstable via supertype, got %s", got)
	}
	if !strings.Contains(got.Reason, "extends unstable type") {
		t.Errorf("unexpected reason %q", got.Reason)
	}
}

func TestRuntimeSupertype(t *testing.T) {
	snap := Prelude().
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.Drawable",
			Kind:          typemodel.KindInterface,
			Modality:      typemodel.ModalityOpen,
		}).
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.Circle",
			Kind:          typemodel.KindClass,
			Supertypes:    []typemodel.TypeRef{{Name: "com.example.Drawable"}},
			Properties: []typemodel.PropertyDecl{
				{Name: "radius", Type: typemodel.TypeRef{Name: "kotlin.Double"}},
			},
		})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Circle"))
	if got.Verdict != VerdictRuntime {
		t.Fatalf("expected runtime, got %s", got)
	}
	if !strings.Contains(got.Reason, "extends") {
		t.Errorf("unexpected reason %q", got.Reason)
	}
}

func TestSelfReferentialTypeTerminates(t *testing.T) {
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "com.example.Node",
		Kind:          typemodel.KindClass,
		Properties: []typemodel.PropertyDecl{
			{Name: "next", Type: typemodel.TypeRef{Name: "com.example.Node", Nullable: true}},
		},
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Node"))
	if got.IsStable() {
		t.Errorf("self-referential type must not be stable, got %s", got)
	}
	if got.Verdict != VerdictRuntime {
		t.Errorf("expected runtime circular verdict, got %s", got)
	}
	if !strings.Contains(got.Reason, "circular") {
		t.Errorf("expected circular reason, got %q", got.Reason)
	}
}

func TestMutuallyReferentialTypesTerminate(t *testing.T) {
	snap := Prelude().
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.A",
			Kind:          typemodel.KindClass,
			Properties: []typemodel.PropertyDecl{
				{Name: "b", Type: typemodel.TypeRef{Name: "com.example.B"}},
			},
		}).
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.B",
			Kind:          typemodel.KindClass,
			Properties: []typemodel.PropertyDecl{
				{Name: "a", Type: typemodel.TypeRef{Name: "com.example.A"}},
			},
		})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.A"))
	if got.IsStable() {
		t.Errorf("mutually referential types must not be stable, got %s", got)
	}
}

func TestValueClassPassThrough(t *testing.T) {
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "com.example.ItemsHolder",
		Kind:          typemodel.KindValueClass,
		Wrapped: &typemodel.PropertyDecl{
			Name: "items",
			Type: mustRef(t, "kotlin.collections.MutableList<kotlin.Int>"),
		},
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.ItemsHolder"))
	if !got.IsUnstable() {
		t.Fatalf("expected wrapper to inherit instability, got %s", got)
	}
	if !strings.Contains(got.Reason, "inherited from wrapped type") {
		t.Errorf("reason should mention inheritance, got %q", got.Reason)
	}
}

func TestNullabilityNeverChangesVerdict(t *testing.T) {
	c := newTestClassifier(t, stableUser(Prelude()), policy.Options{})

	inputs := [][2]string{
		{"com.example.User", "com.example.User?"},
		{"kotlin.collections.MutableList<kotlin.Int>", "kotlin.collections.MutableList<kotlin.Int>?"},
		{"kotlin.collections.List<kotlin.Int>", "kotlin.collections.List<kotlin.Int>?"},
	}
	for _, pair := range inputs {
		a := c.Classify(mustRef(t, pair[0]))
		b := c.Classify(mustRef(t, pair[1]))
		if a.String() != b.String() {
			t.Errorf("%s vs %s: %s != %s", pair[0], pair[1], a, b)
		}
	}
}

func TestDeterminism(t *testing.T) {
	c := newTestClassifier(t, stableUser(Prelude()), policy.Options{})
	ref := mustRef(t, "com.example.User")

	first := c.Classify(ref)
	for i := 0; i < 5; i++ {
		if got := c.Classify(ref); got.String() != first.String() {
			t.Fatalf("run %d diverged: %s vs %s", i, got, first)
		}
	}
}

func TestCombinedSemantics(t *testing.T) {
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "com.example.Box",
		Kind:          typemodel.KindClass,
		TypeParams:    []string{"T"},
		Properties: []typemodel.PropertyDecl{
			{Name: "payload", Type: typemodel.TypeRef{Name: "T", TypeParam: true}},
			{Name: "origin", Type: typemodel.TypeRef{Name: "com.unresolved.Source"}},
		},
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Box"))
	if got.Verdict != VerdictCombined {
		t.Fatalf("expected combined, got %s", got)
	}
	if got.IsStable() || got.IsUnstable() {
		t.Errorf("combined of runtime+parameter must be indeterminate, got stable=%v unstable=%v",
			got.IsStable(), got.IsUnstable())
	}
	if len(got.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(got.Members))
	}
}

func TestTypeParameterClassification(t *testing.T) {
	c := newTestClassifier(t, Prelude(), policy.Options{})

	got := c.Classify(typemodel.TypeRef{Name: "T", TypeParam: true})
	if got.Verdict != VerdictParameter || got.Name != "T" {
		t.Errorf("expected parameter T, got %s", got)
	}
}

func TestFunctionTypes(t *testing.T) {
	c := newTestClassifier(t, Prelude(), policy.Options{})

	tests := []struct {
		name         string
		ref          typemodel.TypeRef
		reasonSubstr string
	}{
		{
			name:         "plain function",
			ref:          typemodel.TypeRef{Name: "kotlin.Function1", Arguments: []typemodel.TypeRef{{Name: "kotlin.Int"}, {Name: "kotlin.Unit"}}},
			reasonSubstr: "function type",
		},
		{
			name:         "suspending function",
			ref:          typemodel.TypeRef{Name: "kotlin.coroutines.SuspendFunction0", Arguments: []typemodel.TypeRef{{Name: "kotlin.Unit"}}},
			reasonSubstr: "suspending",
		},
		{
			name:         "callback annotated",
			ref:          typemodel.TypeRef{Name: "kotlin.Function0", Annotations: []string{"Composable"}, Arguments: []typemodel.TypeRef{{Name: "kotlin.Unit"}}},
			reasonSubstr: "callback-annotated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.ref)
			if !got.IsStable() {
				t.Fatalf("function values are always stable, got %s", got)
			}
			if !strings.Contains(got.Reason, tt.reasonSubstr) {
				t.Errorf("expected reason containing %q, got %q", tt.reasonSubstr, got.Reason)
			}
		})
	}
}

func TestFunctionDeclMasquerading(t *testing.T) {
	// Aliased reference resolving to a Function1-style synthetic interface
	// must classify as a function, not as an interface.
	snap := Prelude().
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "kotlin.jvm.functions.Function1",
			Kind:          typemodel.KindInterface,
			Modality:      typemodel.ModalityOpen,
		}).
		AddAlias("com.example.Handler", typemodel.TypeRef{Name: "kotlin.jvm.functions.Function1"})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(typemodel.TypeRef{Name: "com.example.Handler"})
	if !got.IsStable() || !strings.Contains(got.Reason, "function") {
		t.Errorf("expected function-type stable, got %s", got)
	}
}

func TestEnumStable(t *testing.T) {
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "com.example.Direction",
		Kind:          typemodel.KindEnum,
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Direction"))
	if !got.IsStable() {
		t.Errorf("expected stable enum, got %s", got)
	}
}

func TestAbstractAndSealedRuntime(t *testing.T) {
	snap := Prelude().
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.AbstractShape",
			Kind:          typemodel.KindClass,
			Modality:      typemodel.ModalityAbstract,
		}).
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.SealedResult",
			Kind:          typemodel.KindClass,
			Modality:      typemodel.ModalitySealed,
		})
	c := newTestClassifier(t, snap, policy.Options{})

	for _, name := range []string{"com.example.AbstractShape", "com.example.SealedResult"} {
		got := c.Classify(mustRef(t, name))
		if got.Verdict != VerdictRuntime {
			t.Errorf("%s: expected runtime, got %s", name, got)
		}
	}
}

func TestUnresolvedRuntime(t *testing.T) {
	c := newTestClassifier(t, Prelude(), policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Missing"))
	if got.Verdict != VerdictRuntime || got.Reason != ReasonUnresolved {
		t.Errorf("expected runtime unresolved, got %s", got)
	}
}

func TestUnknownDeclaration(t *testing.T) {
	snap := Prelude().AddClass(&typemodel.ClassDecl{
		QualifiedName: "com.example.Partial",
		Kind:          typemodel.KindUnknown,
	})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Partial"))
	if got.Verdict != VerdictUnknown {
		t.Errorf("expected unknown, got %s", got)
	}
}

func TestMarkerType(t *testing.T) {
	t.Run("all stable properties", func(t *testing.T) {
		snap := Prelude().AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.Payload",
			Kind:          typemodel.KindClass,
			Annotations:   []string{"kotlinx.serialization.Serializable"},
			Supertypes:    []typemodel.TypeRef{{Name: "java.io.Serializable"}}, // marker supertype ignored
			Properties: []typemodel.PropertyDecl{
				{Name: "id", Type: typemodel.TypeRef{Name: "kotlin.Long"}},
			},
		})
		c := newTestClassifier(t, snap, policy.Options{})

		got := c.Classify(mustRef(t, "com.example.Payload"))
		if !got.IsStable() || !strings.Contains(got.Reason, "marker type") {
			t.Errorf("expected marker-stable, got %s", got)
		}
	})

	t.Run("mutable property", func(t *testing.T) {
		snap := Prelude().AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.Payload",
			Kind:          typemodel.KindClass,
			Annotations:   []string{"Serializable"},
			Properties: []typemodel.PropertyDecl{
				{Name: "id", Type: typemodel.TypeRef{Name: "kotlin.Long"}, Mutable: true},
			},
		})
		c := newTestClassifier(t, snap, policy.Options{})

		got := c.Classify(mustRef(t, "com.example.Payload"))
		if !got.IsUnstable() {
			t.Errorf("expected unstable marker type, got %s", got)
		}
	})

	t.Run("inconclusive falls through past interface rule", func(t *testing.T) {
		snap := Prelude().AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.Payload",
			Kind:          typemodel.KindInterface,
			Modality:      typemodel.ModalityOpen,
			Annotations:   []string{"Serializable"},
			Properties: []typemodel.PropertyDecl{
				{Name: "items", Type: mustRef(t, "kotlin.collections.List<kotlin.Int>")},
			},
		})
		c := newTestClassifier(t, snap, policy.Options{})

		got := c.Classify(mustRef(t, "com.example.Payload"))
		if got.Verdict != VerdictRuntime {
			t.Errorf("expected runtime after fall-through, got %s", got)
		}
		if strings.Contains(got.Reason, "implementation could vary") {
			t.Errorf("marker types must skip the plain interface rule, got %q", got.Reason)
		}
	})
}

func TestInferredStabilityMetadata(t *testing.T) {
	zero, two := 0, 2
	snap := Prelude().
		AddClass(&typemodel.ClassDecl{
			QualifiedName:     "com.other.Imported",
			Kind:              typemodel.KindClass,
			InferredStability: &zero,
			Properties: []typemodel.PropertyDecl{
				{Name: "source", Type: typemodel.TypeRef{Name: "com.unresolved.Dep"}},
			},
		}).
		AddClass(&typemodel.ClassDecl{
			QualifiedName:     "com.other.Conditional",
			Kind:              typemodel.KindClass,
			InferredStability: &two,
			Properties: []typemodel.PropertyDecl{
				{Name: "source", Type: typemodel.TypeRef{Name: "com.unresolved.Dep"}},
			},
		})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.other.Imported"))
	if !got.IsStable() {
		t.Errorf("parameter count 0 means unconditionally stable, got %s", got)
	}

	got = c.Classify(mustRef(t, "com.other.Conditional"))
	if got.Verdict != VerdictRuntime {
		t.Errorf("non-zero parameter count means runtime, got %s", got)
	}
}

func TestDeepNestingDegradesToTooComplex(t *testing.T) {
	snap := Prelude()
	depth := MaxRecursionDepth + 8
	for i := 0; i < depth; i++ {
		next := fmt.Sprintf("com.deep.T%d", i+1)
		if i == depth-1 {
			next = "kotlin.Int"
		}
		snap.AddClass(&typemodel.ClassDecl{
			QualifiedName: fmt.Sprintf("com.deep.T%d", i),
			Kind:          typemodel.KindClass,
			Properties: []typemodel.PropertyDecl{
				{Name: "next", Type: typemodel.TypeRef{Name: next}},
			},
		})
	}
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.deep.T0"))
	if got.Verdict != VerdictRuntime {
		t.Fatalf("expected runtime degradation, got %s", got)
	}
	if !strings.Contains(got.Reason, ReasonTooComplex) {
		t.Errorf("expected too-complex reason, got %q", got.Reason)
	}
}

func TestAliasExpansion(t *testing.T) {
	snap := stableUser(Prelude()).AddAlias("UserAlias", typemodel.TypeRef{Name: "com.example.User"})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(typemodel.TypeRef{Name: "UserAlias"})
	if !got.IsStable() {
		t.Errorf("alias must classify as its target, got %s", got)
	}
}

func TestSupertypeCombinedPropagation(t *testing.T) {
	snap := Prelude().
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.MixedBase",
			Kind:          typemodel.KindClass,
			Modality:      typemodel.ModalityOpen,
			TypeParams:    []string{"T"},
			Properties: []typemodel.PropertyDecl{
				{Name: "payload", Type: typemodel.TypeRef{Name: "T", TypeParam: true}},
				{Name: "origin", Type: typemodel.TypeRef{Name: "com.unresolved.Source"}},
			},
		}).
		AddClass(&typemodel.ClassDecl{
			QualifiedName: "com.example.Child",
			Kind:          typemodel.KindClass,
			Supertypes:    []typemodel.TypeRef{{Name: "com.example.MixedBase"}},
		})
	c := newTestClassifier(t, snap, policy.Options{})

	got := c.Classify(mustRef(t, "com.example.Child"))
	if got.Verdict != VerdictCombined {
		t.Errorf("expected combined supertype propagated unchanged, got %s", got)
	}
}
