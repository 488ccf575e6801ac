package registry

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Matcher is the palette's filter predicate bound to one query.
//
// An item matches when the query is empty, or when the lowercased label or
// lowercased description contains the lowercased query. There is no ranking.
type Matcher struct {
	needle string
}

// NewMatcher prepares a Matcher for query.
func NewMatcher(query string) Matcher {
	return Matcher{needle: lower(query)}
}

// Match reports whether it satisfies the predicate.
func (m Matcher) Match(it ActionItem) bool {
	if m.needle == "" {
		return true
	}
	return strings.Contains(lower(it.Label), m.needle) ||
		strings.Contains(lower(it.Description), m.needle)
}

// Matches is the one-shot form of NewMatcher(query).Match(it).
func Matches(it ActionItem, query string) bool {
	return NewMatcher(query).Match(it)
}

// cases.Caser keeps state and is not safe for concurrent use, so each call
// gets its own.
func lower(s string) string {
	if s == "" {
		return ""
	}
	return cases.Lower(language.Und).String(s)
}

// Fold lowercases s the way the matcher does.
func Fold(s string) string {
	return lower(s)
}
