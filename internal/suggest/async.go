package suggest

import (
	"context"
	"time"
)

// Fetcher produces suggestions for a query, possibly slowly (network,
// model inference).
type Fetcher interface {
	Fetch(ctx context.Context, query string) ([]string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, query string) ([]string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, query string) ([]string, error) {
	return f(ctx, query)
}

// Async is a Source whose view is filled by a Fetcher off the event loop.
//
// Every Filter call for a new query issues a request with a higher sequence
// number. Only the newest request may resolve the view, so a slow response
// for an old query can't overwrite the results of a newer one.
type Async struct {
	fetcher Fetcher
	timeout time.Duration

	seq         uint64
	latest      Request
	queued      bool
	inflight    bool
	resolvedSeq uint64
	view        []string
}

// NewAsync wraps fetcher. A positive timeout bounds every Fetch call.
func NewAsync(fetcher Fetcher, timeout time.Duration) *Async {
	return &Async{fetcher: fetcher, timeout: timeout}
}

// Filter queues a request for query and returns false. It returns true
// without queueing when the view already holds the results for query.
func (a *Async) Filter(query string) bool {
	if a.latest.Seq != 0 && query == a.latest.Query {
		if a.resolvedSeq == a.latest.Seq {
			return true
		}
		if a.inflight {
			return false
		}
	}
	a.seq++
	a.latest = Request{Seq: a.seq, Query: query}
	a.queued = true
	a.inflight = true
	return false
}

// Suggestions returns the results of the newest resolved request.
func (a *Async) Suggestions() []string {
	return clone(a.view)
}

// Take returns the request queued by the last Filter call, at most once.
func (a *Async) Take() (Request, bool) {
	if !a.queued {
		return Request{}, false
	}
	a.queued = false
	return a.latest, true
}

// Fetch runs req against the fetcher.
func (a *Async) Fetch(ctx context.Context, req Request) ([]string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.fetcher.Fetch(ctx, req.Query)
}

// Resolve installs items if seq is the newest request.
func (a *Async) Resolve(seq uint64, items []string) bool {
	if seq != a.latest.Seq {
		return false
	}
	a.view = clone(items)
	if a.view == nil {
		a.view = []string{}
	}
	a.resolvedSeq = seq
	a.inflight = false
	return true
}

// Fail marks the newest request as finished so the next Filter retries it.
func (a *Async) Fail(seq uint64) {
	if seq == a.latest.Seq {
		a.inflight = false
	}
}

// Pending reports whether the newest request is still outstanding.
func (a *Async) Pending() bool {
	return a.inflight
}
