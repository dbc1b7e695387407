package suggest

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// List is the default filterable list model over a fixed set of candidates.
// Filtering is synchronous: Filter always returns true.
type List struct {
	candidates []string
	opts       options
	query      string
	view       []string
}

// NewList builds a List. Until the first Filter call the view holds every
// candidate.
func NewList(candidates []string, opts ...Option) *List {
	l := &List{
		candidates: clone(candidates),
		opts:       buildOptions(opts),
	}
	l.view = Match(l.candidates, "", opts...)
	return l
}

// Filter recomputes the view for query.
func (l *List) Filter(query string) bool {
	l.query = query
	l.view = match(l.candidates, query, l.opts)
	return true
}

// Suggestions returns the current view.
func (l *List) Suggestions() []string {
	return clone(l.view)
}

// Candidates returns the unfiltered candidate set.
func (l *List) Candidates() []string {
	return clone(l.candidates)
}

// SetCandidates replaces the candidate set and re-applies the last query.
func (l *List) SetCandidates(candidates []string) {
	l.candidates = clone(candidates)
	l.view = match(l.candidates, l.query, l.opts)
}

// Match filters candidates by query. It is the predicate List applies.
//
// An empty query matches everything. Prefix and contains keep candidate
// order; fuzzy orders by match score.
func Match(candidates []string, query string, opts ...Option) []string {
	return match(candidates, query, buildOptions(opts))
}

func match(candidates []string, query string, o options) []string {
	out := make([]string, 0, len(candidates))
	if query == "" {
		return capped(append(out, candidates...), o.limit)
	}

	if o.match == MatchFuzzy {
		return capped(fuzzyMatch(candidates, query, o.caseSensitive), o.limit)
	}

	q := query
	if !o.caseSensitive {
		q = strings.ToLower(q)
	}
	for _, c := range candidates {
		s := c
		if !o.caseSensitive {
			s = strings.ToLower(s)
		}
		var ok bool
		switch o.match {
		case MatchContains:
			ok = strings.Contains(s, q)
		default:
			ok = strings.HasPrefix(s, q)
		}
		if ok {
			out = append(out, c)
			if o.limit > 0 && len(out) == o.limit {
				break
			}
		}
	}
	return out
}

func fuzzyMatch(candidates []string, query string, caseSensitive bool) []string {
	matches := fuzzy.Find(query, candidates)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Index < 0 || m.Index >= len(candidates) {
			continue
		}
		c := candidates[m.Index]
		if caseSensitive && !isSubsequence(query, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// isSubsequence reports whether the runes of q appear in s in order.
func isSubsequence(q, s string) bool {
	qr := []rune(q)
	i := 0
	for _, r := range s {
		if i < len(qr) && qr[i] == r {
			i++
		}
	}
	return i == len(qr)
}
