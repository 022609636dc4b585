package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// PageObserver is told about every page a Fetcher applies.
type PageObserver interface {
	ObservePage(reported, kept int, done bool)
}

// Fetcher pulls pages from a PageSource one Next call at a time. It owns its
// State and must not be shared between goroutines.
type Fetcher struct {
	source   PageSource
	filter   Filter
	bounds   Bounds
	state    State
	id       string
	logger   *slog.Logger
	observer PageObserver
}

type Option func(*Fetcher)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func WithObserver(observer PageObserver) Option {
	return func(f *Fetcher) {
		f.observer = observer
	}
}

func NewFetcher(source PageSource, filter Filter, bounds Bounds, opts ...Option) (*Fetcher, error) {
	if source == nil {
		return nil, errors.New("history: page source is required")
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	f := &Fetcher{
		source: source,
		filter: filter,
		bounds: bounds,
		state:  NewState(bounds),
		id:     uuid.NewString(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.state.Done = !f.state.more()
	return f, nil
}

// Next fetches and applies one page. It returns the page's yielded records and
// whether the fetch is over. A page that stalls the cursor still returns its
// in-bounds records alongside ErrCursorStalled. After done, Next returns nothing.
func (f *Fetcher) Next(ctx context.Context) (records []Record, done bool, err error) {
	if f.state.Done {
		return nil, true, nil
	}

	req := f.state.Request(f.filter, f.bounds)
	page, err := f.source.FetchMatchPage(ctx, req)
	if err != nil {
		f.state.Done = true
		return nil, true, &UpstreamFetchError{Request: req, Err: err}
	}

	kept, next, err := Advance(f.state, f.bounds, page)
	f.state = next
	if err != nil {
		f.state.Done = true
		return kept, true, fmt.Errorf("fetch %s: %w", f.id, err)
	}

	f.logger.Debug("Match history page applied",
		"fetch_id", f.id,
		"account_id", f.filter.AccountID,
		"platform", f.filter.Platform,
		"page", next.Pages,
		"reported", len(page.Records),
		"kept", len(kept),
		"begin_index", next.BeginIndex,
		"begin_time", next.BeginTime.UnixMilli(),
		"unbounded", next.unbounded(),
		"remaining", next.Remaining,
		"done", next.Done,
	)
	if f.observer != nil {
		f.observer.ObservePage(len(page.Records), len(kept), next.Done)
	}
	return kept, next.Done, nil
}

func (f *Fetcher) State() State {
	return f.state
}

func (f *Fetcher) ID() string {
	return f.id
}
