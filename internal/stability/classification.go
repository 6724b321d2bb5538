// Package stability implements the type stability classification engine:
// a recursive, cycle-safe decision procedure that assigns each type in a
// nominal type graph one of a fixed set of stability outcomes. A stable
// type is one whose values can be assumed identical across two observation
// points unless explicitly replaced by a different instance.
package stability

import (
	"sort"
	"strings"
)

// Verdict is the outcome tag of a Classification.
type Verdict string

const (
	VerdictStable    Verdict = "stable"
	VerdictUnstable  Verdict = "unstable"
	VerdictRuntime   Verdict = "runtime"
	VerdictParameter Verdict = "parameter"
	VerdictUnknown   Verdict = "unknown"
	VerdictCombined  Verdict = "combined"
)

// Classification is the result of analyzing one type. It is a closed
// tagged union: exactly the fields belonging to the verdict are set.
//
//   - stable / unstable: Reason
//   - runtime: TypeName + Reason (stability resolved at execution time)
//   - parameter: Name of the unbound generic parameter
//   - unknown: Name of the unresolvable declaration
//   - combined: Members, a deduplicated set of non-uniform sub-results
type Classification struct {
	Verdict  Verdict          `json:"verdict"`
	Reason   string           `json:"reason,omitempty"`
	TypeName string           `json:"typeName,omitempty"`
	Name     string           `json:"name,omitempty"`
	Members  []Classification `json:"members,omitempty"`
}

// Stable constructs a stable classification.
func Stable(reason string) Classification {
	return Classification{Verdict: VerdictStable, Reason: reason}
}

// Unstable constructs an unstable classification.
func Unstable(reason string) Classification {
	return Classification{Verdict: VerdictUnstable, Reason: reason}
}

// Runtime constructs a runtime-resolved classification for the named type.
func Runtime(typeName, reason string) Classification {
	return Classification{Verdict: VerdictRuntime, TypeName: typeName, Reason: reason}
}

// Parameter constructs a classification for an unbound type parameter.
func Parameter(name string) Classification {
	return Classification{Verdict: VerdictParameter, Name: name}
}

// Unknown constructs a classification for a declaration that could not be
// resolved at all.
func Unknown(name string) Classification {
	return Classification{Verdict: VerdictUnknown, Name: name}
}

// IsStable reports whether the classification guarantees stability. A
// combined result is stable only when every member is stable, which never
// happens for combinations produced by the classifier (members are always
// non-stable) but is defined for completeness.
func (c Classification) IsStable() bool {
	switch c.Verdict {
	case VerdictStable:
		return true
	case VerdictCombined:
		for _, m := range c.Members {
			if !m.IsStable() {
				return false
			}
		}
		return len(c.Members) > 0
	default:
		return false
	}
}

// IsUnstable reports whether the classification asserts instability with
// certainty. A combined result of only runtime/parameter/unknown members
// is indeterminate, not unstable.
func (c Classification) IsUnstable() bool {
	switch c.Verdict {
	case VerdictUnstable:
		return true
	case VerdictCombined:
		for _, m := range c.Members {
			if m.IsUnstable() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// String renders a short human-readable form for logs and messages.
func (c Classification) String() string {
	switch c.Verdict {
	case VerdictStable, VerdictUnstable:
		return string(c.Verdict) + " (" + c.Reason + ")"
	case VerdictRuntime:
		return "runtime (" + c.TypeName + ": " + c.Reason + ")"
	case VerdictParameter:
		return "parameter " + c.Name
	case VerdictUnknown:
		return "unknown " + c.Name
	case VerdictCombined:
		parts := make([]string, 0, len(c.Members))
		for _, m := range c.Members {
			parts = append(parts, m.String())
		}
		return "combined [" + strings.Join(parts, "; ") + "]"
	default:
		return string(c.Verdict)
	}
}

// key is the identity used for member set deduplication.
func (c Classification) key() string {
	return string(c.Verdict) + "|" + c.Reason + "|" + c.TypeName + "|" + c.Name
}

// Combine merges several sub-classifications into one result with set
// semantics. Nested combined members are flattened, duplicates removed,
// and members ordered deterministically. An empty set is stable; a
// singleton collapses to its only member.
func Combine(members []Classification) Classification {
	flat := make([]Classification, 0, len(members))
	seen := make(map[string]bool)
	var add func(c Classification)
	add = func(c Classification) {
		if c.Verdict == VerdictCombined {
			for _, m := range c.Members {
				add(m)
			}
			return
		}
		if seen[c.key()] {
			return
		}
		seen[c.key()] = true
		flat = append(flat, c)
	}
	for _, m := range members {
		add(m)
	}

	switch len(flat) {
	case 0:
		return Stable("no unstable members")
	case 1:
		return flat[0]
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].key() < flat[j].key() })
	return Classification{Verdict: VerdictCombined, Members: flat}
}
