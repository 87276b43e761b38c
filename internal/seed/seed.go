// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pawcircle/internal/crud"
	"pawcircle/internal/middleware"
	"pawcircle/internal/models"
	"pawcircle/internal/service"
)

// Options configuration for the seeder
type Options struct {
	Seed     int64
	Posts    int
	Articles int
	Alerts   int
	Events   int
	Circles  int
	Clubs    int
	Profiles int
	// MaxDays bounds how far back generated records are dated.
	MaxDays int
}

// DefaultOptions returns a small but browsable data set.
func DefaultOptions() Options {
	return Options{
		Seed:     42,
		Posts:    60,
		Articles: 24,
		Alerts:   8,
		Events:   12,
		Circles:  10,
		Clubs:    10,
		Profiles: 20,
		MaxDays:  90,
	}
}

// Report counts the records created per collection.
type Report map[string]int

// Total sums every collection.
func (r Report) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}

// Seeder writes generated records through the catalog's stores, so it works
// against any backend the catalog is built on.
type Seeder struct {
	catalog *service.Catalog
	factory *Factory
	opts    Options
}

func NewSeeder(catalog *service.Catalog, opts Options) *Seeder {
	return &Seeder{
		catalog: catalog,
		factory: NewFactory(opts.Seed, time.Now(), opts.MaxDays),
		opts:    opts,
	}
}

// Run seeds the built-in fixtures and then the generated records.
func (s *Seeder) Run(ctx context.Context) (Report, error) {
	report := Report{}

	if err := s.seedFixtures(ctx, report); err != nil {
		return report, err
	}

	steps := []func(context.Context, Report) error{
		func(ctx context.Context, r Report) error {
			return fill(ctx, r, s.catalog.Posts, s.opts.Posts, s.factory.Post)
		},
		func(ctx context.Context, r Report) error {
			return fill(ctx, r, s.catalog.Articles, s.opts.Articles, s.factory.Article)
		},
		func(ctx context.Context, r Report) error {
			return fill(ctx, r, s.catalog.Alerts, s.opts.Alerts, s.factory.Alert)
		},
		func(ctx context.Context, r Report) error {
			return fill(ctx, r, s.catalog.Events, s.opts.Events, s.factory.Event)
		},
		func(ctx context.Context, r Report) error {
			return fill(ctx, r, s.catalog.Circles, s.opts.Circles, s.factory.Circle)
		},
		func(ctx context.Context, r Report) error {
			return fill(ctx, r, s.catalog.Clubs, s.opts.Clubs, s.factory.Club)
		},
		func(ctx context.Context, r Report) error {
			return fill(ctx, r, s.catalog.Profiles, s.opts.Profiles, s.factory.Profile)
		},
	}
	for _, step := range steps {
		if err := step(ctx, report); err != nil {
			return report, err
		}
	}

	middleware.Logger.InfoContext(ctx, "seeding complete", slog.Int("records", report.Total()))
	return report, nil
}

func (s *Seeder) seedFixtures(ctx context.Context, report Report) error {
	rescues, err := RescueFixtures()
	if err != nil {
		return err
	}
	if err := createOnce(ctx, report, s.catalog.Rescues, rescues); err != nil {
		return err
	}

	challenges, err := ChallengeFixtures()
	if err != nil {
		return err
	}
	return createOnce(ctx, report, s.catalog.Challenges, challenges)
}

// createOnce inserts fixtures, skipping ids that already exist.
func createOnce[T models.Entity](ctx context.Context, report Report, store crud.Store[T], items []T) error {
	for _, item := range items {
		if _, err := store.Create(ctx, item); err != nil {
			if errors.Is(err, crud.ErrDuplicateID) {
				continue
			}
			return fmt.Errorf("seed %s %s: %w", store.Collection(), item.GetID(), err)
		}
		report[store.Collection()]++
	}
	return nil
}

func fill[T models.Entity](ctx context.Context, report Report, store crud.Store[T], n int, build func() T) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := store.Create(ctx, build()); err != nil {
			return fmt.Errorf("seed %s: %w", store.Collection(), err)
		}
		report[store.Collection()]++
	}
	return nil
}
