// Package policy holds the immutable configuration that steers the
// stability classifier: which types to ignore, which to force-stable, and
// how non-stable parameters count toward skippability.
package policy

import (
	"regexp"
)

// Policy is the classifier configuration for one analysis request.
// It is a pure value object; construct it once and share it freely.
type Policy struct {
	ignored      []*regexp.Regexp
	customStable []*regexp.Regexp

	// TreatUnstableAsIdentityComparable relaxes the skippable derivation:
	// parameters whose types are not provably stable are compared by
	// identity instead of blocking the skip. It never changes the
	// intrinsic classification of a type.
	TreatUnstableAsIdentityComparable bool
}

// Options carries the raw pattern lists used to build a Policy.
type Options struct {
	IgnoredPatterns                   []string
	StablePatterns                    []string
	TreatUnstableAsIdentityComparable bool
}

// InvalidPattern describes a pattern that failed to compile and was dropped.
type InvalidPattern struct {
	Pattern string
	Err     error
}

// New builds a Policy from pattern lists. Invalid patterns are dropped, not
// errors: they match nothing. The dropped patterns are returned so the
// caller can log a configuration warning.
func New(opts Options) (Policy, []InvalidPattern) {
	var invalid []InvalidPattern

	compile := func(patterns []string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			re, err := CompileGlob(p)
			if err != nil {
				invalid = append(invalid, InvalidPattern{Pattern: p, Err: err})
				continue
			}
			out = append(out, re)
		}
		return out
	}

	return Policy{
		ignored:      compile(opts.IgnoredPatterns),
		customStable: compile(opts.StablePatterns),

		TreatUnstableAsIdentityComparable: opts.TreatUnstableAsIdentityComparable,
	}, invalid
}

// Ignores reports whether the qualified type name matches an ignore pattern.
func (p Policy) Ignores(qualifiedName string) bool {
	return matchesAny(p.ignored, qualifiedName)
}

// CustomStable reports whether the qualified type name matches a
// custom-stable pattern.
func (p Policy) CustomStable(qualifiedName string) bool {
	return matchesAny(p.customStable, qualifiedName)
}

func matchesAny(patterns []*regexp.Regexp, name string) bool {
	for _, re := range patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
