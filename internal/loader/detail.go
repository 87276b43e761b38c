package loader

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"
	"pawcircle/internal/observability"
)

// Status describes the outcome of a detail load.
type Status string

const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
	// StatusStale marks a response that arrived after a newer Load or after Close.
	StatusStale Status = "stale"
)

// DetailState is what a detail page renders.
type DetailState[T any] struct {
	Status Status
	Item   T
}

func (s DetailState[T]) Found() bool { return s.Status == StatusFound }

// DetailLoader fetches a single record by id. It never fails: a missing record
// and a backend error both produce StatusNotFound.
type DetailLoader[T models.Entity] struct {
	store crud.Store[T]
	opts  options

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	closed  bool
	current DetailState[T]
}

func NewDetailLoader[T models.Entity](store crud.Store[T], opts ...Option) *DetailLoader[T] {
	return &DetailLoader[T]{
		store:   store,
		opts:    buildOptions(opts),
		current: DetailState[T]{Status: StatusNotFound},
	}
}

// Load fetches id and stores the result as the current state.
func (d *DetailLoader[T]) Load(ctx context.Context, id string) DetailState[T] {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return DetailState[T]{Status: StatusStale}
	}
	d.gen++
	if d.cancel != nil {
		d.cancel()
	}
	gen := d.gen
	if strings.TrimSpace(id) == "" {
		d.cancel = nil
		d.current = DetailState[T]{Status: StatusNotFound}
		d.mu.Unlock()
		return d.current
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	item, err := d.store.GetByID(fetchCtx, id)
	cancel()

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		d.record("stale")
		return DetailState[T]{Status: StatusStale}
	}
	d.cancel = nil

	if err != nil {
		if !errors.Is(err, crud.ErrNotFound) {
			d.opts.logger.ErrorContext(ctx, "detail fetch failed",
				slog.String("collection", d.store.Collection()),
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
			d.record("error")
		} else {
			d.record("not_found")
		}
		d.current = DetailState[T]{Status: StatusNotFound}
		return d.current
	}

	d.record("ok")
	d.current = DetailState[T]{Status: StatusFound, Item: item}
	return d.current
}

// Current returns the state of the last load that was not superseded.
func (d *DetailLoader[T]) Current() DetailState[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Close discards any fetch in flight. Later loads report StatusStale.
func (d *DetailLoader[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.closed = true
}

func (d *DetailLoader[T]) record(outcome string) {
	observability.LoaderFetches.WithLabelValues(d.store.Collection(), "detail", outcome).Inc()
}
