// Package loader implements the page-level data flows: paginated list loading,
// detail loading, record submission and in-memory filtering.
package loader

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrStale is returned when a fetch finished after the loader moved on
	// (a newer Load, a Reset or a Close). Its result was discarded.
	ErrStale = errors.New("loader: response superseded")
	// ErrClosed is returned by every call made after Close.
	ErrClosed = errors.New("loader: closed")
	// ErrSubmitInFlight is returned when a submit starts while another is still running.
	ErrSubmitInFlight = errors.New("loader: submission already in flight")
)

// DefaultPageSize is the number of records fetched per list page.
const DefaultPageSize = 12

type options struct {
	pageSize int
	filter   map[string]string
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a loader or submitter.
type Option func(*options)

// WithPageSize sets the list page size. Non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithFilter passes exact-match conditions through to the store on every list fetch.
func WithFilter(filter map[string]string) Option {
	return func(o *options) { o.filter = filter }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides how submitted records get their id.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

func buildOptions(opts []Option) options {
	o := options{
		pageSize: DefaultPageSize,
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
