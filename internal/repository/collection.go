// Package repository provides the GORM-backed record stores.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pawcircle/internal/cache"
	"pawcircle/internal/crud"
	"pawcircle/internal/models"
	"pawcircle/internal/observability"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const backendName = "postgres"

const pgUniqueViolation = "23505"

// Collection is a crud.Store over the table of record type E.
// Reads go through the Redis cache when one is attached; a create retires the cached pages.
type Collection[E any, T models.EntityPtr[E]] struct {
	db      *gorm.DB
	cache   *cache.Cache
	name    string
	columns map[string]string
	bools   map[string]bool
	now     func() time.Time
}

// NewCollection creates a store for E. c may be nil.
func NewCollection[E any, T models.EntityPtr[E]](db *gorm.DB, c *cache.Cache) (*Collection[E, T], error) {
	var zero E
	entity := T(&zero)

	s, err := schema.Parse(&zero, &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse schema for %s: %w", entity.Collection(), err)
	}

	columns := entity.Filterable()
	bools := make(map[string]bool)
	for _, column := range columns {
		if f := s.LookUpField(column); f != nil && f.DataType == schema.Bool {
			bools[column] = true
		}
	}

	return &Collection[E, T]{
		db:      db,
		cache:   c,
		name:    entity.Collection(),
		columns: columns,
		bools:   bools,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (r *Collection[E, T]) Collection() string { return r.name }

// GetAll returns one page in newest-first order, breaking ties by id.
func (r *Collection[E, T]) GetAll(ctx context.Context, q crud.Query) (*crud.Page[T], error) {
	ctx, span := observability.TraceStoreMethod(ctx, backendName, "GetAll", r.name)
	defer observability.TrackStore(backendName, r.name, "get_all")()

	q = crud.NormalizeQuery(q)
	where, err := crud.ResolveFilter(q.Filter, r.columns)
	if err != nil {
		observability.EndSpan(span, err)
		return nil, err
	}

	page := &crud.Page[T]{}
	err = r.cache.Aside(ctx, r.name, r.cache.ListKey(ctx, r.name, q), page, cache.ListTTL, func() error {
		var rows []T
		tx := r.db.WithContext(ctx).Model(new(E))
		for _, column := range crud.SortedKeys(where) {
			tx = tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: r.coerce(column, where[column])})
		}
		if err := tx.Order("created_at DESC").Order("id ASC").
			Limit(q.Limit + 1).
			Offset(q.Skip).
			Find(&rows).Error; err != nil {
			return err
		}
		page.Items, page.HasNext = crud.Trim(rows, q.Limit)
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

// GetByID returns crud.ErrNotFound when no row has id.
func (r *Collection[E, T]) GetByID(ctx context.Context, id string) (T, error) {
	ctx, span := observability.TraceStoreMethod(ctx, backendName, "GetByID", r.name)
	defer observability.TrackStore(backendName, r.name, "get_by_id")()

	item := T(new(E))
	err := r.cache.Aside(ctx, r.name, cache.RecordKey(r.name, id), item, cache.RecordTTL, func() error {
		return r.db.WithContext(ctx).Where("id = ?", id).First(item).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		observability.EndSpan(span, nil)
		return nil, fmt.Errorf("%w: %s/%s", crud.ErrNotFound, r.name, id)
	}
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Create inserts item as given. A blank id is replaced with a fresh UUID.
func (r *Collection[E, T]) Create(ctx context.Context, item T) (T, error) {
	ctx, span := observability.TraceStoreMethod(ctx, backendName, "Create", r.name)
	defer observability.TrackStore(backendName, r.name, "create")()

	if item.GetID() == "" {
		item.SetID(uuid.NewString())
	}
	item.Touch(r.now())

	err := r.db.WithContext(ctx).Create(item).Error
	if isDuplicateKey(err) {
		observability.EndSpan(span, nil)
		return nil, fmt.Errorf("%w: %s/%s", crud.ErrDuplicateID, r.name, item.GetID())
	}
	observability.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	r.cache.InvalidateLists(ctx, r.name)
	return item, nil
}

// coerce turns "true"/"false" into booleans for boolean columns.
func (r *Collection[E, T]) coerce(column, value string) any {
	if !r.bools[column] {
		return value
	}
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
