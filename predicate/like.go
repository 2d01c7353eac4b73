package predicate

import (
	"regexp"
	"strings"
)

// likeToRegexp translates a SQL-style LIKE pattern ("%" = any run of
// characters, "_" = exactly one character, anything else literal) into an
// anchored regular expression.
func likeToRegexp(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return regexp.MustCompile(b.String())
}
