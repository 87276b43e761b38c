package loader

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"
	"pawcircle/internal/observability"
)

// Blueprint describes how a draft becomes a stored record.
type Blueprint[T models.Entity] struct {
	// Redirect is the listing route to show after a successful submit.
	Redirect string
	// Validate rejects drafts with missing required fields.
	Validate func(draft T) error
	// Defaults fills author, placeholder image and timestamps.
	Defaults func(draft T, author string, now time.Time)
}

// Submission is the result of a successful submit.
type Submission[T any] struct {
	Record   T      `json:"record"`
	Redirect string `json:"redirect"`
}

// Submitter validates, completes and creates records of one collection.
type Submitter[T models.Entity] struct {
	store crud.Store[T]
	bp    Blueprint[T]
	opts  options

	mu       sync.Mutex
	inFlight bool
}

func NewSubmitter[T models.Entity](store crud.Store[T], bp Blueprint[T], opts ...Option) *Submitter[T] {
	return &Submitter[T]{store: store, bp: bp, opts: buildOptions(opts)}
}

// Submit validates draft, assigns its id, timestamps and defaults, and creates it.
// On failure the submitter is ready for another attempt.
func (s *Submitter[T]) Submit(ctx context.Context, draft T, author string) (*Submission[T], error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if s.bp.Validate != nil {
		if err := s.bp.Validate(draft); err != nil {
			observability.Submissions.WithLabelValues(s.store.Collection(), "invalid").Inc()
			return nil, err
		}
	}

	now := s.opts.now()
	draft.SetID(s.opts.newID())
	draft.Stamp(now)
	if s.bp.Defaults != nil {
		s.bp.Defaults(draft, author, now)
	}

	created, err := s.store.Create(ctx, draft)
	if err != nil {
		observability.Submissions.WithLabelValues(s.store.Collection(), "error").Inc()
		s.opts.logger.ErrorContext(ctx, "submission failed",
			slog.String("collection", s.store.Collection()),
			slog.String("id", draft.GetID()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	observability.Submissions.WithLabelValues(s.store.Collection(), "ok").Inc()
	return &Submission[T]{Record: created, Redirect: s.bp.Redirect}, nil
}

// Submitting reports whether a submit is running.
func (s *Submitter[T]) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
