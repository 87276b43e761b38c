// Package bootstrap connects the configured content backend and Redis and builds the store catalog.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pawcircle/internal/cache"
	"pawcircle/internal/config"
	"pawcircle/internal/crud"
	"pawcircle/internal/database"
	"pawcircle/internal/middleware"
	"pawcircle/internal/seed"
	"pawcircle/internal/service"
	"pawcircle/internal/store/mongostore"
	"pawcircle/internal/store/remote"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedFixtures writes the built-in rescue and challenge records.
	SeedFixtures bool
}

// Runtime holds the connections a process needs. Only the handle of the
// configured backend is set.
type Runtime struct {
	Backend string
	DB      *gorm.DB
	Mongo   *mongo.Client
	Redis   *redis.Client
	Catalog *service.Catalog
}

// InitRuntime connects the content backend selected by CONTENT_BACKEND and Redis,
// then builds the catalog. Redis is optional; a nil client disables caching and
// cross-instance events.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	rt := &Runtime{Backend: strings.ToLower(cfg.ContentBackend)}
	rt.Redis = cache.Connect(cfg.RedisURL)

	var err error
	switch rt.Backend {
	case config.BackendPostgres:
		if rt.DB, err = database.Connect(cfg); err != nil {
			return nil, rt.abort(ctx, fmt.Errorf("database connection failed: %w", err))
		}
		reg, err := service.NewSQLRegistry(rt.DB, cache.New(rt.Redis))
		if err != nil {
			return nil, rt.abort(ctx, err)
		}
		if rt.Catalog, err = service.NewCatalog(reg); err != nil {
			return nil, rt.abort(ctx, err)
		}
	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, rt.abort(ctx, fmt.Errorf("mongo connection failed: %w", err))
		}
		rt.Mongo = client
		if rt.Catalog, err = service.NewCatalog(service.NewMongoRegistry(db)); err != nil {
			return nil, rt.abort(ctx, err)
		}
	case config.BackendRemote:
		client := remote.NewClient(cfg.ContentAPIURL, cfg.ContentAPIKey)
		if rt.Catalog, err = service.NewCatalog(service.NewRemoteRegistry(client)); err != nil {
			return nil, rt.abort(ctx, err)
		}
	default:
		return nil, rt.abort(ctx, fmt.Errorf("unknown content backend %q", cfg.ContentBackend))
	}

	middleware.Logger.InfoContext(ctx, "content backend ready",
		slog.String("backend", rt.Backend),
		slog.Bool("cache", rt.Redis != nil),
	)

	if opts.SeedFixtures {
		if _, err := seed.NewSeeder(rt.Catalog, seed.Options{}).Run(ctx); err != nil {
			return nil, rt.abort(ctx, fmt.Errorf("failed to seed built-in fixtures: %w", err))
		}
	}

	return rt, nil
}

// Ready pings the content backend. A remote backend is probed with a one-record list.
func (rt *Runtime) Ready(ctx context.Context) error {
	switch {
	case rt.DB != nil:
		return database.Ping(ctx, rt.DB)
	case rt.Mongo != nil:
		return rt.Mongo.Ping(ctx, nil)
	case rt.Catalog != nil:
		if _, err := rt.Catalog.Posts.GetAll(ctx, crud.Query{Limit: 1}); err != nil {
			return fmt.Errorf("content service unreachable: %w", err)
		}
		return nil
	default:
		return errors.New("no content backend configured")
	}
}

// Close releases every connection, returning the joined errors.
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.DB != nil {
		if sqlDB, err := rt.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	if rt.Mongo != nil {
		errs = append(errs, rt.Mongo.Disconnect(ctx))
	}
	if rt.Redis != nil {
		errs = append(errs, rt.Redis.Close())
	}
	return errors.Join(errs...)
}

func (rt *Runtime) abort(ctx context.Context, err error) error {
	if cerr := rt.Close(ctx); cerr != nil {
		middleware.Logger.WarnContext(ctx, "cleanup after failed init", slog.String("error", cerr.Error()))
	}
	return err
}
