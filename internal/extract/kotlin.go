// Package extract builds graph documents from Kotlin sources using
// tree-sitter. Extraction is best-effort: it resolves what it can
// syntactically and leaves the rest to the classifier's runtime
// degradation. Requires CGO; without it the stub returns ErrNoCGO.
package extract

import (
	"strconv"
	"strings"

	"stabl/internal/typemodel"
)

// kotlinQualified maps Kotlin source-level shorthand names to their
// qualified standard-library names.
var kotlinQualified = map[string]string{
	"Any":          "kotlin.Any",
	"Boolean":      "kotlin.Boolean",
	"Byte":         "kotlin.Byte",
	"Char":         "kotlin.Char",
	"CharSequence": "kotlin.CharSequence",
	"Double":       "kotlin.Double",
	"Float":        "kotlin.Float",
	"Int":          "kotlin.Int",
	"Long":         "kotlin.Long",
	"Nothing":      "kotlin.Nothing",
	"Short":        "kotlin.Short",
	"String":       "kotlin.String",
	"UInt":         "kotlin.UInt",
	"ULong":        "kotlin.ULong",
	"Unit":         "kotlin.Unit",

	"Collection":        "kotlin.collections.Collection",
	"Iterable":          "kotlin.collections.Iterable",
	"List":              "kotlin.collections.List",
	"Map":               "kotlin.collections.Map",
	"MutableCollection": "kotlin.collections.MutableCollection",
	"MutableIterable":   "kotlin.collections.MutableIterable",
	"MutableList":       "kotlin.collections.MutableList",
	"MutableMap":        "kotlin.collections.MutableMap",
	"MutableSet":        "kotlin.collections.MutableSet",
	"Set":               "kotlin.collections.Set",

	"ImmutableCollection": "kotlinx.collections.immutable.ImmutableCollection",
	"ImmutableList":       "kotlinx.collections.immutable.ImmutableList",
	"ImmutableMap":        "kotlinx.collections.immutable.ImmutableMap",
	"ImmutableSet":        "kotlinx.collections.immutable.ImmutableSet",
	"PersistentList":      "kotlinx.collections.immutable.PersistentList",
	"PersistentMap":       "kotlinx.collections.immutable.PersistentMap",
	"PersistentSet":       "kotlinx.collections.immutable.PersistentSet",
}

// MapTypeText normalizes a source-level type expression into the
// canonical qualified form used in graph documents: shorthand
// standard-library names are qualified, unqualified user names get the
// file's package prefix, and declared type parameters pass through
// untouched.
func MapTypeText(text, pkg string, typeParams map[string]bool) (string, error) {
	ref, err := typemodel.ParseTypeRef(text, typeParams)
	if err != nil {
		return "", err
	}
	return typemodel.Render(qualifyRef(ref, pkg)), nil
}

func qualifyRef(ref typemodel.TypeRef, pkg string) typemodel.TypeRef {
	if !ref.TypeParam {
		ref.Name = QualifyName(ref.Name, pkg)
	}
	for i, arg := range ref.Arguments {
		ref.Arguments[i] = qualifyRef(arg, pkg)
	}
	return ref
}

// QualifyName resolves a source-level type or callable name: already
// qualified names pass through, known standard-library shorthands map to
// their qualified form, and everything else is assumed to live in the
// file's package.
func QualifyName(name, pkg string) string {
	if name == "" {
		return name
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name
		}
	}
	if qualified, ok := kotlinQualified[name]; ok {
		return qualified
	}
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

// baseTypeText strips a constructor invocation down to the type it
// names: `Base(arg)` becomes `Base`.
func baseTypeText(text string) string {
	text = stripSpace(text)
	if i := strings.IndexByte(text, '('); i >= 0 {
		text = text[:i]
	}
	return text
}

// lowerFunctionType maps Kotlin function-type syntax onto the synthetic
// kotlin.FunctionN names. Returns ok=false for non-function types.
func lowerFunctionType(text string) (string, bool) {
	clean := stripSpace(text)
	suspend := strings.HasPrefix(clean, "suspend")
	if suspend {
		clean = strings.TrimPrefix(clean, "suspend")
	}
	arrow := strings.LastIndex(clean, "->")
	if arrow < 0 {
		return "", false
	}

	arity := functionArity(clean[:arrow])
	name := "kotlin.Function" + strconv.Itoa(arity)
	if suspend {
		name = "kotlin.coroutines.SuspendFunction" + strconv.Itoa(arity)
	}
	return name, true
}

func functionArity(params string) int {
	params = strings.TrimPrefix(params, "(")
	params = strings.TrimSuffix(params, ")")
	if params == "" {
		return 0
	}
	depth, arity := 0, 1
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				arity++
			}
		}
	}
	return arity
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
