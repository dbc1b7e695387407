package suggest

import (
	"sort"
	"strings"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Trie is a prefix source backed by a patricia trie, suited to large
// dictionaries where scanning every candidate per keystroke is too slow.
// Results are ordered by key; spellings that fold to the same key keep
// their insertion order.
type Trie struct {
	trie  *patricia.Trie
	opts  options
	size  int
	query string
	view  []string
}

// NewTrie builds a Trie from candidates. The match mode option is ignored.
func NewTrie(candidates []string, opts ...Option) *Trie {
	t := &Trie{opts: buildOptions(opts)}
	t.SetCandidates(candidates)
	return t
}

func (t *Trie) key(s string) string {
	if t.opts.caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// SetCandidates rebuilds the trie and re-applies the last query.
func (t *Trie) SetCandidates(candidates []string) {
	t.trie = patricia.NewTrie()
	t.size = 0
	for _, c := range candidates {
		if t.add(c) {
			t.size++
		}
	}
	t.view = t.search(t.query)
}

// Add inserts one candidate and reports whether it was new. The current
// view is refreshed so a matching candidate shows up without a new Filter.
func (t *Trie) Add(candidate string) bool {
	if !t.add(candidate) {
		return false
	}
	t.size++
	t.view = t.search(t.query)
	return true
}

func (t *Trie) add(candidate string) bool {
	key := patricia.Prefix(t.key(candidate))
	if item := t.trie.Get(key); item != nil {
		spellings := item.([]string)
		for _, s := range spellings {
			if s == candidate {
				return false
			}
		}
		t.trie.Set(key, append(spellings, candidate))
		return true
	}
	t.trie.Insert(key, []string{candidate})
	return true
}

// Len returns the number of distinct candidates.
func (t *Trie) Len() int {
	return t.size
}

// Filter recomputes the view for query.
func (t *Trie) Filter(query string) bool {
	t.query = query
	t.view = t.search(query)
	return true
}

// Suggestions returns the current view.
func (t *Trie) Suggestions() []string {
	return clone(t.view)
}

func (t *Trie) search(query string) []string {
	type entry struct {
		key       string
		spellings []string
	}
	var entries []entry
	collect := func(p patricia.Prefix, item patricia.Item) error {
		entries = append(entries, entry{key: string(p), spellings: item.([]string)})
		return nil
	}
	if query == "" {
		_ = t.trie.Visit(collect)
	} else {
		_ = t.trie.VisitSubtree(patricia.Prefix(t.key(query)), collect)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.spellings...)
	}
	return capped(out, t.opts.limit)
}
