package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var fruit = []string{"Apple", "Banana", "Avocado", "apricot", "Blueberry"}

func TestListFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		opts  []Option
		want  []string
	}{
		{name: "empty query keeps everything", query: "", want: fruit},
		{name: "prefix folds case", query: "a", want: []string{"Apple", "Avocado", "apricot"}},
		{name: "prefix case sensitive", query: "A", opts: []Option{WithCaseSensitive(true)}, want: []string{"Apple", "Avocado"}},
		{name: "contains", query: "an", opts: []Option{WithMatch(MatchContains)}, want: []string{"Banana"}},
		{name: "contains folds case", query: "BERRY", opts: []Option{WithMatch(MatchContains)}, want: []string{"Blueberry"}},
		{name: "limit", query: "a", opts: []Option{WithLimit(2)}, want: []string{"Apple", "Avocado"}},
		{name: "no match", query: "zz", want: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewList(fruit, tc.opts...)
			require.True(t, l.Filter(tc.query))
			if diff := cmp.Diff(tc.want, l.Suggestions(), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListViewMatchesPredicate(t *testing.T) {
	queries := []string{"", "a", "A", "ap", "b", "blue", "x", "avocado"}
	modes := []MatchMode{MatchPrefix, MatchContains, MatchFuzzy}
	for _, mode := range modes {
		for _, q := range queries {
			l := NewList(fruit, WithMatch(mode))
			l.Filter(q)
			want := Match(fruit, q, WithMatch(mode))
			if diff := cmp.Diff(want, l.Suggestions(), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("mode %s query %q (-want +got):\n%s", mode, q, diff)
			}
		}
	}
}

func TestListFuzzy(t *testing.T) {
	l := NewList([]string{"Banana", "Blueberry", "Apple"}, WithMatch(MatchFuzzy))
	l.Filter("bby")
	require.Equal(t, []string{"Blueberry"}, l.Suggestions())
}

func TestListSetCandidatesKeepsQuery(t *testing.T) {
	l := NewList([]string{"Apple"})
	l.Filter("b")
	require.Empty(t, l.Suggestions())

	l.SetCandidates([]string{"Banana", "Cherry", "blackberry"})
	require.Equal(t, []string{"Banana", "blackberry"}, l.Suggestions())
	require.Equal(t, []string{"Banana", "Cherry", "blackberry"}, l.Candidates())
}

func TestListSuggestionsAreCopies(t *testing.T) {
	l := NewList([]string{"Apple"})
	got := l.Suggestions()
	got[0] = "mutated"
	require.Equal(t, []string{"Apple"}, l.Suggestions())
}

func TestParseMatch(t *testing.T) {
	for name, want := range map[string]MatchMode{"": MatchPrefix, "Prefix": MatchPrefix, "contains": MatchContains, "fuzzy": MatchFuzzy} {
		got, err := ParseMatch(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseMatch("regex")
	require.Error(t, err)
}

func TestTrieFilter(t *testing.T) {
	tr := NewTrie([]string{"banana", "Apple", "apple", "apricot", "Avocado", "apple"})
	require.Equal(t, 5, tr.Len())

	require.True(t, tr.Filter("ap"))
	require.Equal(t, []string{"Apple", "apple", "apricot"}, tr.Suggestions())

	tr.Filter("")
	require.Equal(t, []string{"Apple", "apple", "apricot", "Avocado", "banana"}, tr.Suggestions())

	tr.Filter("q")
	require.Empty(t, tr.Suggestions())
}

func TestTrieCaseSensitiveAndLimit(t *testing.T) {
	tr := NewTrie([]string{"Apple", "apple", "Avocado"}, WithCaseSensitive(true), WithLimit(1))
	tr.Filter("A")
	require.Equal(t, []string{"Apple"}, tr.Suggestions())
}

func TestTrieAgreesWithListPrefix(t *testing.T) {
	words := strings.Fields("alpha alphabet alpine beta betamax gamma gam")
	tr := NewTrie(words)
	for _, q := range []string{"al", "alp", "be", "g", "gam", "z"} {
		tr.Filter(q)
		want := Match(words, q)
		if diff := cmp.Diff(want, tr.Suggestions(), cmpopts.EquateEmpty(), cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
			t.Fatalf("query %q (-want +got):\n%s", q, diff)
		}
	}
}

func TestTrieAdd(t *testing.T) {
	tr := NewTrie(nil)
	require.True(t, tr.Add("go"))
	require.False(t, tr.Add("go"))
	require.True(t, tr.Add("Go"))
	tr.Filter("g")
	require.Equal(t, []string{"go", "Go"}, tr.Suggestions())
}

func TestTrieAddRefreshesView(t *testing.T) {
	tr := NewTrie([]string{"alpha", "beta"})
	tr.Filter("g")
	require.Empty(t, tr.Suggestions())

	require.True(t, tr.Add("gamma"))
	require.Equal(t, []string{"gamma"}, tr.Suggestions())

	require.True(t, tr.Add("delta"))
	require.Equal(t, []string{"gamma"}, tr.Suggestions())
}

func TestAsyncDiscardsStaleResults(t *testing.T) {
	a := NewAsync(FetcherFunc(func(ctx context.Context, q string) ([]string, error) {
		return []string{q + "!"}, nil
	}), 0)

	require.False(t, a.Filter("a"))
	first, ok := a.Take()
	require.True(t, ok)
	_, ok = a.Take()
	require.False(t, ok, "a request is handed out once")

	require.False(t, a.Filter("ab"))
	second, ok := a.Take()
	require.True(t, ok)
	require.Greater(t, second.Seq, first.Seq)

	// The newer request finishes first, then the old one arrives late.
	require.True(t, a.Resolve(second.Seq, []string{"abc"}))
	require.False(t, a.Resolve(first.Seq, []string{"apple"}))
	require.Equal(t, []string{"abc"}, a.Suggestions())
}

func TestAsyncSameQueryIsFresh(t *testing.T) {
	a := NewAsync(FetcherFunc(func(ctx context.Context, q string) ([]string, error) { return nil, nil }), 0)

	require.False(t, a.Filter("x"))
	req, _ := a.Take()

	require.False(t, a.Filter("x"), "still in flight")
	_, ok := a.Take()
	require.False(t, ok, "no duplicate request while in flight")

	require.True(t, a.Resolve(req.Seq, nil))
	require.True(t, a.Filter("x"), "resolved results are reused")
	require.Equal(t, []string{}, a.Suggestions())
}

func TestAsyncFailAllowsRetry(t *testing.T) {
	a := NewAsync(FetcherFunc(func(ctx context.Context, q string) ([]string, error) { return nil, errors.New("down") }), 0)

	a.Filter("x")
	req, _ := a.Take()
	_, err := a.Fetch(context.Background(), req)
	require.Error(t, err)
	a.Fail(req.Seq)
	require.False(t, a.Pending())

	require.False(t, a.Filter("x"))
	retry, ok := a.Take()
	require.True(t, ok)
	require.Greater(t, retry.Seq, req.Seq)
}

func TestAsyncFetchTimeout(t *testing.T) {
	a := NewAsync(FetcherFunc(func(ctx context.Context, q string) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), 10*time.Millisecond)

	a.Filter("slow")
	req, _ := a.Take()
	_, err := a.Fetch(context.Background(), req)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

var (
	_ Source    = (*List)(nil)
	_ Source    = (*Trie)(nil)
	_ Reloader  = (*List)(nil)
	_ Reloader  = (*Trie)(nil)
	_ Requester = (*Async)(nil)
)
