// Package suggest provides the suggestion sources an autocomplete field
// filters as the user types.
//
// A Source owns a filtered view of its candidates. Filter recomputes that
// view for a query and reports whether the view is already up to date;
// asynchronous sources return false and deliver their results later through
// the Requester methods.
package suggest

import (
	"context"
	"fmt"
	"strings"
)

// Source is the strategy an autocomplete field filters through.
type Source interface {
	// Filter recomputes the view for query. It returns true when the view
	// was updated synchronously and false when nothing changed yet.
	Filter(query string) bool
	// Suggestions returns the current filtered view.
	Suggestions() []string
}

// Reloader is implemented by sources whose candidate set can be swapped.
type Reloader interface {
	SetCandidates(candidates []string)
}

// Request identifies one asynchronous filter call.
type Request struct {
	Seq   uint64
	Query string
}

// Requester is implemented by sources that fill their view asynchronously.
// All methods except Fetch must be called from the UI event loop.
type Requester interface {
	Source
	// Take hands out the request queued by the last Filter call, once.
	Take() (Request, bool)
	// Fetch runs a request. It may block and is safe to call off the event loop.
	Fetch(ctx context.Context, req Request) ([]string, error)
	// Resolve installs items for req.Seq and reports whether they were accepted.
	Resolve(seq uint64, items []string) bool
	// Fail marks req.Seq as finished without results.
	Fail(seq uint64)
}

// MatchMode selects how a query is matched against a candidate.
type MatchMode int

const (
	MatchPrefix MatchMode = iota
	MatchContains
	MatchFuzzy
)

func (m MatchMode) String() string {
	switch m {
	case MatchPrefix:
		return "prefix"
	case MatchContains:
		return "contains"
	case MatchFuzzy:
		return "fuzzy"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatch converts a mode name into a MatchMode.
func ParseMatch(name string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "prefix":
		return MatchPrefix, nil
	case "contains", "substring":
		return MatchContains, nil
	case "fuzzy":
		return MatchFuzzy, nil
	default:
		return 0, fmt.Errorf("unknown match mode %q", name)
	}
}

type options struct {
	match         MatchMode
	caseSensitive bool
	limit         int
}

// Option configures List and Trie sources.
type Option func(*options)

// WithMatch sets the match mode. Trie ignores it and always matches prefixes.
func WithMatch(m MatchMode) Option {
	return func(o *options) { o.match = m }
}

// WithCaseSensitive turns case folding off.
func WithCaseSensitive(on bool) Option {
	return func(o *options) { o.caseSensitive = on }
}

// WithLimit caps the number of suggestions. Zero means no cap.
func WithLimit(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.limit = n
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func clone(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func capped(items []string, limit int) []string {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
