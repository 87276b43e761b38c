package crud

import (
	"fmt"
	"sort"
	"sync"

	"pawcircle/internal/models"
)

// Registry maps collection names to their typed stores.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]any
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]any)}
}

// Register adds s under its collection name, replacing any earlier store.
func Register[T models.Entity](r *Registry, s Store[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[s.Collection()] = s
}

// Lookup returns the store registered for collection with record type T.
func Lookup[T models.Entity](r *Registry, collection string) (Store[T], error) {
	r.mu.RLock()
	s, ok := r.stores[collection]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	typed, ok := s.(Store[T])
	if !ok {
		return nil, fmt.Errorf("collection %s holds %T, not a store of the requested type", collection, s)
	}
	return typed, nil
}

// MustLookup is Lookup for wiring code where a missing store is a programming error.
func MustLookup[T models.Entity](r *Registry, collection string) Store[T] {
	s, err := Lookup[T](r, collection)
	if err != nil {
		panic(err)
	}
	return s
}

// Names lists the registered collections in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
