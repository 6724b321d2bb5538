package stability

import (
	"strings"

	"stabl/internal/typemodel"
)

// Allowlists and denylists for declarations whose stability is known up
// front. Qualified names are checked first; simple-name fallbacks cover
// graphs where qualified resolution failed (test sources, partial
// extraction).

// knownStableQualified lists immutable value types: collection, geometry,
// time and text value objects that never mutate after construction.
var knownStableQualified = map[string]bool{
	"kotlin.Pair":                              true,
	"kotlin.Triple":                            true,
	"kotlin.Result":                            true,
	"kotlin.time.Duration":                     true,
	"kotlin.ranges.IntRange":                   true,
	"kotlin.ranges.LongRange":                  true,
	"kotlin.ranges.CharRange":                  true,
	"kotlin.text.Regex":                        true,
	"java.math.BigDecimal":                     true,
	"java.math.BigInteger":                     true,
	"java.time.Duration":                       true,
	"java.time.Instant":                        true,
	"java.time.LocalDate":                      true,
	"java.time.LocalDateTime":                  true,
	"java.time.LocalTime":                      true,
	"java.time.ZonedDateTime":                  true,
	"java.util.UUID":                           true,
	"java.net.URI":                             true,
	"androidx.compose.ui.unit.Dp":              true,
	"androidx.compose.ui.unit.DpSize":          true,
	"androidx.compose.ui.unit.IntOffset":       true,
	"androidx.compose.ui.unit.IntSize":         true,
	"androidx.compose.ui.unit.TextUnit":        true,
	"androidx.compose.ui.geometry.Offset":      true,
	"androidx.compose.ui.geometry.Size":        true,
	"androidx.compose.ui.geometry.Rect":        true,
	"androidx.compose.ui.graphics.Color":       true,
	"androidx.compose.ui.graphics.Shadow":      true,
	"androidx.compose.ui.text.AnnotatedString": true,
}

// knownStableSimple is the simple-name fallback for the allowlist above.
var knownStableSimple = map[string]bool{}

func init() {
	for qn := range knownStableQualified {
		knownStableSimple[typemodel.SimpleNameOf(qn)] = true
	}
	for qn := range primitiveTypes {
		knownStableSimple[typemodel.SimpleNameOf(qn)] = true
	}
}

var primitiveTypes = map[string]bool{
	"kotlin.Boolean": true,
	"kotlin.Byte":    true,
	"kotlin.Short":   true,
	"kotlin.Int":     true,
	"kotlin.Long":    true,
	"kotlin.Float":   true,
	"kotlin.Double":  true,
	"kotlin.Char":    true,
	"kotlin.UByte":   true,
	"kotlin.UShort":  true,
	"kotlin.UInt":    true,
	"kotlin.ULong":   true,
}

var stringTypes = map[string]bool{
	"kotlin.String":    true,
	"java.lang.String": true,
}

var unitTypes = map[string]bool{
	"kotlin.Unit":    true,
	"kotlin.Nothing": true,
	"java.lang.Void": true,
}

// functionTypePrefixes identify synthetic function-type declarations
// (Function0..FunctionN and friends) by qualified name.
var functionTypePrefixes = []string{
	"kotlin.Function",
	"kotlin.jvm.functions.Function",
	"kotlin.reflect.KFunction",
}

var suspendFunctionPrefixes = []string{
	"kotlin.coroutines.SuspendFunction",
}

// mutableCollections lists growable collection types. Arrays are included:
// their elements can be replaced in place.
var mutableCollections = map[string]bool{
	"kotlin.Array":                           true,
	"kotlin.collections.MutableCollection":   true,
	"kotlin.collections.MutableIterable":     true,
	"kotlin.collections.MutableIterator":     true,
	"kotlin.collections.MutableList":         true,
	"kotlin.collections.MutableSet":          true,
	"kotlin.collections.MutableMap":          true,
	"kotlin.collections.ArrayList":           true,
	"kotlin.collections.HashMap":             true,
	"kotlin.collections.HashSet":             true,
	"kotlin.collections.LinkedHashMap":       true,
	"kotlin.collections.LinkedHashSet":       true,
	"kotlin.collections.ArrayDeque":          true,
	"java.util.ArrayList":                    true,
	"java.util.LinkedList":                   true,
	"java.util.HashMap":                      true,
	"java.util.HashSet":                      true,
	"java.util.TreeMap":                      true,
	"java.util.TreeSet":                      true,
	"java.util.ArrayDeque":                   true,
	"java.util.concurrent.ConcurrentHashMap": true,
}

var mutableCollectionSimple = map[string]bool{}

func init() {
	for qn := range mutableCollections {
		mutableCollectionSimple[typemodel.SimpleNameOf(qn)] = true
	}
}

// immutableCollectionQualified lists immutable collection library types by
// exact qualified name.
var immutableCollectionQualified = map[string]bool{
	"kotlinx.collections.immutable.ImmutableCollection":  true,
	"kotlinx.collections.immutable.ImmutableList":        true,
	"kotlinx.collections.immutable.ImmutableSet":         true,
	"kotlinx.collections.immutable.ImmutableMap":         true,
	"kotlinx.collections.immutable.PersistentCollection": true,
	"kotlinx.collections.immutable.PersistentList":       true,
	"kotlinx.collections.immutable.PersistentSet":        true,
	"kotlinx.collections.immutable.PersistentMap":        true,
	"com.google.common.collect.ImmutableList":            true,
	"com.google.common.collect.ImmutableSet":             true,
	"com.google.common.collect.ImmutableMap":             true,
}

// immutableCollectionSimple is the fixed simple-name fallback allowlist.
var immutableCollectionSimple = map[string]bool{
	"ImmutableCollection":  true,
	"ImmutableList":        true,
	"ImmutableSet":         true,
	"ImmutableMap":         true,
	"PersistentCollection": true,
	"PersistentList":       true,
	"PersistentSet":        true,
	"PersistentMap":        true,
}

// readonlyCollectionInterfaces are the standard read-only collection
// interfaces. Read-only is not immutable: the concrete implementation
// behind the interface may still mutate.
var readonlyCollectionInterfaces = map[string]bool{
	"kotlin.collections.Collection": true,
	"kotlin.collections.Iterable":   true,
	"kotlin.collections.List":       true,
	"kotlin.collections.Set":        true,
	"kotlin.collections.Map":        true,
	"kotlin.sequences.Sequence":     true,
	"java.util.Collection":          true,
	"java.util.List":                true,
	"java.util.Set":                 true,
	"java.util.Map":                 true,
}

var readonlyCollectionSimple = map[string]bool{
	"Collection": true,
	"Iterable":   true,
	"List":       true,
	"Set":        true,
	"Map":        true,
	"Sequence":   true,
}

// stableAnnotations mark declarations the author vouches for.
var stableAnnotations = []string{
	"Stable",
	"Immutable",
	"StableMarker",
	"androidx.compose.runtime.Stable",
	"androidx.compose.runtime.Immutable",
	"androidx.compose.runtime.StableMarker",
}

// uiCallbackAnnotations mark UI-callback function types.
var uiCallbackAnnotations = []string{
	"Composable",
	"androidx.compose.runtime.Composable",
}

// serializationMarkerAnnotations mark serialization/parcel-style types
// whose declared properties alone decide stability.
var serializationMarkerAnnotations = []string{
	"Serializable",
	"kotlinx.serialization.Serializable",
	"Parcelize",
	"kotlinx.parcelize.Parcelize",
}

func isFunctionTypeName(name string) bool {
	return hasAnyPrefix(name, functionTypePrefixes) || hasAnyPrefix(name, suspendFunctionPrefixes)
}

func isSuspendFunctionName(name string) bool {
	return hasAnyPrefix(name, suspendFunctionPrefixes)
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func isMutableCollection(qualifiedName string) bool {
	if mutableCollections[qualifiedName] {
		return true
	}
	return mutableCollectionSimple[typemodel.SimpleNameOf(qualifiedName)]
}

func isImmutableCollection(qualifiedName string) bool {
	if immutableCollectionQualified[qualifiedName] {
		return true
	}
	return immutableCollectionSimple[typemodel.SimpleNameOf(qualifiedName)]
}

func isReadonlyCollectionInterface(qualifiedName string) bool {
	if readonlyCollectionInterfaces[qualifiedName] {
		return true
	}
	return readonlyCollectionSimple[typemodel.SimpleNameOf(qualifiedName)]
}
