// Package suggest produces "did you mean" hints for queries and names that
// matched nothing. It never influences palette filtering or ordering.
package suggest

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/oakwood-commons/quickbar/pkg/registry"
)

// maxRatio is the largest edit distance, relative to the longer string,
// still treated as a likely typo.
const maxRatio = 0.4

type scored struct {
	value string
	score float64
	order int
}

// similarity is 1 for equal strings and falls towards 0 as they diverge.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	n := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(n)
}

func rank(hits []scored, limit int) []string {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].order < hits[j].order
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.value)
	}
	return out
}

// Similar returns the candidates close to input, best first. Ties keep the
// candidates' order. limit <= 0 means no limit.
func Similar(input string, candidates []string, limit int) []string {
	needle := registry.Fold(strings.TrimSpace(input))
	if needle == "" {
		return nil
	}
	var hits []scored
	for i, c := range candidates {
		s := similarity(needle, registry.Fold(c))
		if s > 1-maxRatio {
			hits = append(hits, scored{value: c, score: s, order: i})
		}
	}
	return rank(hits, limit)
}

// Labels suggests registry labels for a query with no matches. A label is
// compared as a whole and word by word so "prodcts" finds "Create Product".
func Labels(query string, reg *registry.Registry, limit int) []string {
	needle := registry.Fold(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	seen := make(map[string]bool)
	var hits []scored
	for i, it := range reg.AllItems() {
		if seen[it.Label] {
			continue
		}
		best := similarity(needle, registry.Fold(it.Label))
		for _, word := range strings.Fields(registry.Fold(it.Label)) {
			best = max(best, similarity(needle, word))
		}
		if best > 1-maxRatio {
			seen[it.Label] = true
			hits = append(hits, scored{value: it.Label, score: best, order: i})
		}
	}
	return rank(hits, limit)
}

// Phrase formats suggestions as `did you mean "a" or "b"?`, or "" when empty.
func Phrase(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	quoted := make([]string, len(suggestions))
	for i, s := range suggestions {
		quoted[i] = `"` + s + `"`
	}
	return "did you mean " + strings.Join(quoted, " or ") + "?"
}
