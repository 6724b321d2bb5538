package stability

import (
	"fmt"
	"strings"

	"stabl/internal/logging"
	"stabl/internal/policy"
	"stabl/internal/typemodel"
)

// Reason strings for outcomes callers may want to test against. Their
// meaning is stable across releases even if the wording is tuned.
const (
	ReasonCircular       = "circular reference"
	ReasonCircularSymbol = "circular reference, assumed stable"
	ReasonUnresolved     = "unresolved"
	ReasonTooComplex     = "too complex"
)

// Classifier is the stability classification engine for one analysis
// request. It is pure and re-entrant: all state lives in the per-call
// Guard, the facade is read-only, and the policy is immutable, so any
// number of classifiers may run in parallel against the same snapshot.
type Classifier struct {
	facade typemodel.Facade
	policy policy.Policy
	logger *logging.Logger
}

// New creates a classifier over the given facade and policy. A nil logger
// discards debug output.
func New(facade typemodel.Facade, pol policy.Policy, logger *logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Classifier{facade: facade, policy: pol, logger: logger}
}

// Classify is the public entry point. It allocates a fresh guard, so each
// call is an independent top-level analysis request. It never panics on
// malformed input; unresolved or too-deep input degrades to a runtime or
// unknown verdict.
func (c *Classifier) Classify(ref typemodel.TypeRef) Classification {
	result := c.classify(ref, NewGuard())
	c.logger.Debug("classified type", logging.Fields{
		"type":    typemodel.Render(ref),
		"verdict": string(result.Verdict),
	})
	return result
}

// classify implements the ordered rule chain. First matching rule wins;
// the order encodes precedence, not just correctness.
func (c *Classifier) classify(ref typemodel.TypeRef, guard *Guard) Classification {
	// 1. Expand alias chains to the underlying type.
	ref = c.facade.ExpandAlias(ref)

	// 2. Strip nullability: it never changes the verdict.
	ref = ref.WithoutNullability()

	if guard.Depth() >= MaxRecursionDepth {
		return Runtime(ref.Name, ReasonTooComplex)
	}

	// Signature-level cycle guard: the primary defense against
	// self-referential and mutually-referential types.
	signature := typemodel.Render(ref)
	if !guard.EnterType(signature) {
		return Runtime(ref.Name, ReasonCircular)
	}
	defer guard.LeaveType(signature)

	// 3. Unbound type parameter.
	if ref.TypeParam {
		return Parameter(ref.Name)
	}

	// 4. Function types are stable regardless of captured state; capture
	// safety is the calling framework's concern.
	if isFunctionTypeName(ref.Name) {
		return functionClassification(ref.Name, ref.Annotations)
	}

	// 5. Resolve the nominal declaration.
	decl, ok := c.facade.Resolve(ref)
	if !ok || decl == nil {
		return Runtime(ref.Name, ReasonUnresolved)
	}
	if decl.Kind == typemodel.KindUnknown {
		return Unknown(decl.QualifiedName)
	}

	// 6. Re-check function-ness by declaration identity: a function type
	// can masquerade as a nominal interface (Function1-style synthetic
	// declarations).
	if isFunctionTypeName(decl.QualifiedName) {
		return functionClassification(decl.QualifiedName, decl.Annotations)
	}

	return c.analyzeClass(decl, guard)
}

func functionClassification(name string, annotations []string) Classification {
	switch {
	case typemodel.Annotated(annotations, uiCallbackAnnotations...):
		return Stable("callback-annotated function type")
	case isSuspendFunctionName(name):
		return Stable("suspending function type")
	default:
		return Stable("function type")
	}
}

// analyzeClass classifies a resolved declaration, rules (a) through (s).
func (c *Classifier) analyzeClass(decl *typemodel.ClassDecl, guard *Guard) Classification {
	qn := decl.QualifiedName

	// (a) Symbol-level cycle guard; the signature guard in classify
	// normally fires first.
	if !guard.EnterSymbol(qn) {
		return Stable(ReasonCircularSymbol)
	}
	defer guard.LeaveSymbol(qn)

	// (b, c) Policy wins over everything built in.
	if c.policy.Ignores(qn) {
		return Stable("ignored by policy")
	}
	if c.policy.CustomStable(qn) {
		return Stable("custom stable type")
	}

	// (d, e) Built-in allowlist, qualified then simple-name fallback.
	if knownStableQualified[qn] {
		return Stable("known stable type")
	}
	// Simple-name fallback applies only when qualified resolution failed
	// and the declaration carries a bare name (test sources, partial
	// extraction).
	if qn == decl.SimpleName && knownStableSimple[decl.SimpleName] {
		return Stable("known stable type (simple name match)")
	}

	// (f) The author vouches for it.
	if decl.HasAnnotation(stableAnnotations...) {
		return Stable("marked stable via annotation")
	}

	// (g, h, i) Primitives, strings, unit-like types.
	if primitiveTypes[qn] {
		return Stable("primitive type")
	}
	if stringTypes[qn] {
		return Stable("immutable text type")
	}
	if unitTypes[qn] {
		return Stable("unit type")
	}

	// (j) Function type safety net; normally handled before resolution.
	if isFunctionTypeName(qn) {
		return functionClassification(qn, decl.Annotations)
	}

	// (k) Growable collections are unstable by construction.
	if isMutableCollection(qn) {
		return Unstable("mutable collection")
	}

	// (l) Immutable collection library types.
	if isImmutableCollection(qn) {
		return Stable("immutable collection type")
	}

	// (m) Read-only collection interfaces: read-only is not immutable.
	if isReadonlyCollectionInterface(qn) {
		return Runtime(qn, "interface; concrete implementation may be mutable")
	}

	// (n) Value classes inherit the stability of the wrapped property.
	if decl.Kind == typemodel.KindValueClass && decl.Wrapped != nil {
		sub := c.classify(decl.Wrapped.Type, guard)
		return inheritWrapped(sub, decl.Wrapped.Type.Name)
	}

	// (o) Enum entries are fixed singletons.
	if decl.Kind == typemodel.KindEnum {
		return Stable("enum type")
	}

	// (p) Serialization/parcel markers: declared properties alone decide;
	// the marker-interface supertype is ignored. Inconclusive results
	// fall through past the interface check to (r).
	if decl.HasAnnotation(serializationMarkerAnnotations...) {
		if result, decided := c.analyzeMarkerType(decl, guard); decided {
			return result
		}
	} else if decl.Kind == typemodel.KindInterface {
		// (q) Any implementation could be behind the interface.
		return Runtime(qn, "interface; implementation could vary")
	}

	// (r) Abstract (and sealed) classes: a subclass could vary.
	if decl.Modality == typemodel.ModalityAbstract || decl.Modality == typemodel.ModalitySealed {
		return Runtime(qn, "abstract; subclass could vary")
	}

	// (s) Concrete class: property and supertype analysis, then
	// cross-module inferred-stability metadata as a tie breaker.
	result := c.analyzeProperties(decl, guard)
	if result.Verdict == VerdictStable || result.Verdict == VerdictUnstable {
		return result
	}
	if decl.InferredStability != nil {
		if *decl.InferredStability == 0 {
			return Stable("inferred stable at compile time")
		}
		return Runtime(qn, fmt.Sprintf("inferred stability depends on %d parameters", *decl.InferredStability))
	}
	return result
}

// analyzeMarkerType inspects only the declared properties of a
// serialization-marked type. decided is false when the result is
// inconclusive and the regular rule chain should continue.
func (c *Classifier) analyzeMarkerType(decl *typemodel.ClassDecl, guard *Guard) (Classification, bool) {
	mutable := 0
	for _, prop := range decl.Properties {
		if prop.Mutable {
			mutable++
		}
	}
	if mutable > 0 {
		return Unstable(fmt.Sprintf("%d mutable properties", mutable)), true
	}
	for _, prop := range decl.Properties {
		sub := c.classify(prop.Type, guard)
		if !sub.IsStable() {
			return Classification{}, false
		}
	}
	return Stable("marker type, all properties stable"), true
}

// analyzeProperties classifies a concrete class from its supertypes and
// declared properties.
func (c *Classifier) analyzeProperties(decl *typemodel.ClassDecl, guard *Guard) Classification {
	// First non-stable supertype decides the supertype contribution; this
	// is first-match in declaration order, not a merge across all.
	var superResult *Classification
	for _, super := range decl.Supertypes {
		sub := c.classify(super, guard)
		if sub.Verdict == VerdictStable {
			continue
		}
		switch sub.Verdict {
		case VerdictUnstable:
			return Unstable("extends unstable type " + super.Name)
		case VerdictCombined:
			superResult = &sub
		default:
			r := Runtime(decl.QualifiedName, "extends "+super.Name+" with runtime stability")
			superResult = &r
		}
		break
	}

	if len(decl.Properties) == 0 {
		if superResult != nil {
			return *superResult
		}
		return Stable("no mutable state")
	}

	// A single var-like property dominates every other check.
	mutable := 0
	for _, prop := range decl.Properties {
		if prop.Mutable {
			mutable++
		}
	}
	if mutable > 0 {
		return Unstable(fmt.Sprintf("%d mutable properties", mutable))
	}

	var unstableProps []string
	var nonStable []Classification
	for _, prop := range decl.Properties {
		sub := c.classify(prop.Type, guard)
		switch {
		case sub.IsUnstable():
			unstableProps = append(unstableProps, prop.Name)
		case sub.Verdict != VerdictStable:
			nonStable = append(nonStable, sub)
		}
	}
	if len(unstableProps) > 0 {
		return Unstable("properties with unstable types: " + strings.Join(unstableProps, ", "))
	}

	if len(nonStable) == 0 && superResult == nil {
		return Stable("all properties stable")
	}
	if superResult != nil {
		nonStable = append(nonStable, *superResult)
	}
	return Combine(nonStable)
}

// inheritWrapped rewrites the reason of a wrapped-property result so the
// wrapper's verdict explains where it came from, preserving the variant.
func inheritWrapped(sub Classification, wrappedType string) Classification {
	note := " (inherited from wrapped type " + wrappedType + ")"
	switch sub.Verdict {
	case VerdictStable, VerdictUnstable, VerdictRuntime:
		sub.Reason += note
		return sub
	default:
		// Parameter, unknown and combined results carry no single reason
		// to annotate; pass them through unchanged.
		return sub
	}
}
