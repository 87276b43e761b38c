// Package crud defines the generic record-store boundary every page reads and writes through.
package crud

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"pawcircle/internal/models"
)

var (
	// ErrNotFound is returned by GetByID when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Create when the id is already taken.
	ErrDuplicateID = errors.New("record id already exists")
	// ErrUnknownCollection is returned when a collection name has no registered store.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrInvalidFilter is returned when a filter names a field the collection does not expose.
	ErrInvalidFilter = errors.New("invalid filter field")
)

const (
	// DefaultLimit applies when a query leaves Limit unset.
	DefaultLimit = 50
	// MaxLimit caps a single page.
	MaxLimit = 100
)

// Query selects one page of a collection.
// Filter holds exact-match conditions keyed by JSON field name.
type Query struct {
	Filter map[string]string
	Limit  int
	Skip   int
}

// Page is one slice of a collection plus whether more records follow it.
type Page[T any] struct {
	Items   []T  `json:"items"`
	HasNext bool `json:"hasNext"`
}

// Store is the list/get/create boundary for a single collection.
type Store[T models.Entity] interface {
	Collection() string
	GetAll(ctx context.Context, q Query) (*Page[T], error)
	GetByID(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) (T, error)
}

// NormalizeQuery clamps limit and skip into their valid ranges.
func NormalizeQuery(q Query) Query {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	return q
}

// ResolveFilter translates a query filter into column conditions using the
// entity's whitelist. Unknown fields fail with ErrInvalidFilter.
func ResolveFilter(filter map[string]string, allowed map[string]string) (map[string]string, error) {
	if len(filter) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(filter))
	for field, value := range filter {
		column, ok := allowed[field]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidFilter, field)
		}
		out[column] = value
	}
	return out, nil
}

// SortedKeys returns the keys of m in ascending order, giving stable query text for cache keys and SQL.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Trim cuts a limit+1 result down to the page and reports whether a record was left over.
func Trim[T any](rows []T, limit int) ([]T, bool) {
	if len(rows) > limit {
		return rows[:limit], true
	}
	return rows, false
}
