package policy

import (
	"regexp"
	"strings"
)

// CompileGlob converts a glob pattern to an anchored regular expression.
// `*` matches any run of characters (including dots), `?` matches a single
// character, everything else is literal. The whole name must match.
func CompileGlob(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}
