package loader

import (
	"context"
	"log/slog"
	"sync"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"
	"pawcircle/internal/observability"
)

// ListState is a snapshot of what a list loader currently holds.
type ListState[T any] struct {
	Items   []T  `json:"items"`
	HasNext bool `json:"hasNext"`
	Loading bool `json:"-"`
	// Loaded counts records consumed from the store; it is the skip of the next page.
	Loaded int `json:"loaded"`
}

// ListLoader fetches a collection page by page and accumulates the results.
//
// Every fetch captures the loader generation. Load, Reset and Close bump it and
// cancel the fetch in flight, so a late response can never overwrite newer state.
type ListLoader[T models.Entity] struct {
	store crud.Store[T]
	opts  options

	mu       sync.Mutex
	items    []T
	seen     map[string]struct{}
	hasNext  bool
	consumed int
	loading  bool
	gen      uint64
	cancel   context.CancelFunc
	closed   bool
}

func NewListLoader[T models.Entity](store crud.Store[T], opts ...Option) *ListLoader[T] {
	return &ListLoader[T]{
		store: store,
		opts:  buildOptions(opts),
		seen:  make(map[string]struct{}),
	}
}

// Load fetches the first page and replaces the current list with it.
// On failure the previous state is kept and the error is returned.
func (l *ListLoader[T]) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.supersedeLocked()
	fetchCtx, gen := l.beginLocked(ctx)
	l.mu.Unlock()

	page, err := l.fetch(fetchCtx, 0)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		l.record("load", "stale")
		return ErrStale
	}
	l.endLocked()
	if err != nil {
		l.fail(ctx, "load", 0, err)
		return err
	}

	l.items = nil
	l.seen = make(map[string]struct{}, len(page.Items))
	l.consumed = 0
	l.appendLocked(page)
	l.record("load", "ok")
	return nil
}

// LoadMore fetches the page after the records already consumed and appends it.
// It does nothing while a fetch is running or when no further page exists.
func (l *ListLoader[T]) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if l.loading || !l.hasNext {
		l.mu.Unlock()
		return nil
	}
	skip := l.consumed
	fetchCtx, gen := l.beginLocked(ctx)
	l.mu.Unlock()

	page, err := l.fetch(fetchCtx, skip)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		l.record("more", "stale")
		return ErrStale
	}
	l.endLocked()
	if err != nil {
		l.fail(ctx, "more", skip, err)
		return err
	}

	l.appendLocked(page)
	l.record("more", "ok")
	return nil
}

// LoadPages runs Load followed by up to pages-1 LoadMore calls, stopping early
// once the collection is exhausted.
func (l *ListLoader[T]) LoadPages(ctx context.Context, pages int) error {
	if err := l.Load(ctx); err != nil {
		return err
	}
	for i := 1; i < pages; i++ {
		if !l.State().HasNext {
			break
		}
		if err := l.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}

// State returns a copy of the loaded list.
func (l *ListLoader[T]) State() ListState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]T, len(l.items))
	copy(items, l.items)
	return ListState[T]{
		Items:   items,
		HasNext: l.hasNext,
		Loading: l.loading,
		Loaded:  l.consumed,
	}
}

// Reset drops the loaded list and discards any fetch in flight.
func (l *ListLoader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.supersedeLocked()
	l.items = nil
	l.seen = make(map[string]struct{})
	l.hasNext = false
	l.consumed = 0
}

// Close discards any fetch in flight and rejects further calls.
func (l *ListLoader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.supersedeLocked()
	l.closed = true
}

func (l *ListLoader[T]) supersedeLocked() {
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.loading = false
}

func (l *ListLoader[T]) beginLocked(ctx context.Context) (context.Context, uint64) {
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.loading = true
	return fetchCtx, l.gen
}

func (l *ListLoader[T]) endLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.loading = false
}

func (l *ListLoader[T]) fetch(ctx context.Context, skip int) (*crud.Page[T], error) {
	return l.store.GetAll(ctx, crud.Query{
		Filter: l.opts.filter,
		Limit:  l.opts.pageSize,
		Skip:   skip,
	})
}

// appendLocked adds a page, skipping ids already in the list.
func (l *ListLoader[T]) appendLocked(page *crud.Page[T]) {
	for _, item := range page.Items {
		l.consumed++
		id := item.GetID()
		if _, dup := l.seen[id]; dup {
			continue
		}
		l.seen[id] = struct{}{}
		l.items = append(l.items, item)
	}
	l.hasNext = page.HasNext
}

func (l *ListLoader[T]) fail(ctx context.Context, kind string, skip int, err error) {
	l.record(kind, "error")
	l.opts.logger.ErrorContext(ctx, "list fetch failed",
		slog.String("collection", l.store.Collection()),
		slog.String("kind", kind),
		slog.Int("skip", skip),
		slog.String("error", err.Error()),
	)
}

func (l *ListLoader[T]) record(kind, outcome string) {
	observability.LoaderFetches.WithLabelValues(l.store.Collection(), kind, outcome).Inc()
}
