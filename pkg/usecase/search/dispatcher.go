package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/faro/pkg/repository"
)

const (
	defaultDebounce       = 300 * time.Millisecond
	defaultMinQueryLength = 2
)

// State is the observable search surface: the committed result list,
// whether a fan-out is in flight, and whether the result surface should
// be shown (tied to query length, not to result count).
type State struct {
	Results     []*model.SearchResult
	IsSearching bool
	IsVisible   bool
}

// Dispatcher owns the current search term. It gates queries below the
// minimum length, debounces fan-out dispatch, and guarantees that only
// the most recent generation's results are ever committed. There is no
// true cancellation of issued lookups; superseded fan-outs detect their
// staleness at the commit point and drop their results.
type Dispatcher struct {
	store    repository.ContentStore
	debounce time.Duration
	minQuery int

	mu        sync.Mutex
	timer     *time.Timer
	gen       uint64
	query     string
	results   []*model.SearchResult
	searching bool
	visible   bool
}

// Option is a functional option for Dispatcher
type Option func(*Dispatcher)

// WithDebounce overrides the quiet period before a fan-out is issued
func WithDebounce(d time.Duration) Option {
	return func(x *Dispatcher) {
		x.debounce = d
	}
}

// WithMinQueryLength overrides the minimum query length gate
func WithMinQueryLength(n int) Option {
	return func(x *Dispatcher) {
		x.minQuery = n
	}
}

// New creates a search dispatcher over the given content store
func New(store repository.ContentStore, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		debounce: defaultDebounce,
		minQuery: defaultMinQueryLength,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Update accepts the query string on every edit. Queries shorter than
// the minimum clear results immediately with no store activity; anything
// else re-arms the debounce timer. Every call supersedes whatever was
// pending or in flight.
func (d *Dispatcher) Update(ctx context.Context, query string) {
	q := strings.TrimSpace(query)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++ // any in-flight fan-out is now stale
	d.query = q
	d.searching = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if len([]rune(q)) < d.minQuery {
		d.results = nil
		d.visible = false
		return
	}

	d.visible = true
	gen := d.gen
	d.timer = time.AfterFunc(d.debounce, func() {
		d.dispatch(ctx, q, gen)
	})
}

func (d *Dispatcher) dispatch(ctx context.Context, query string, gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.searching = true
	d.mu.Unlock()

	results := fanOut(ctx, d.store, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		// A newer generation owns the state now; this result set is
		// dropped even if it finished last
		return
	}
	d.results = results
	d.searching = false
}

// Snapshot returns the current observable state
func (d *Dispatcher) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := make([]*model.SearchResult, len(d.results))
	copy(results, d.results)
	return State{
		Results:     results,
		IsSearching: d.searching,
		IsVisible:   d.visible,
	}
}

// Select resolves the navigation target for a chosen result and ends the
// search session: the query is cleared and the surface hidden.
func (d *Dispatcher) Select(result *model.SearchResult) model.Navigation {
	d.mu.Lock()
	defer d.mu.Unlock()

	nav := resolveNavigation(result, d.query)

	d.gen++
	d.query = ""
	d.results = nil
	d.searching = false
	d.visible = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	return nav
}

// Close stops any pending dispatch and invalidates in-flight fan-outs
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
