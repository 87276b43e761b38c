package loader

import (
	"context"
	"fmt"
	"sync"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"
)

// memStore is an in-memory crud.Store used across loader tests.
type memStore struct {
	mu      sync.Mutex
	posts   []*models.CommunityPost
	calls   []crud.Query
	failing error
	// gate, when set, blocks GetAll and GetByID until it is closed or ctx ends.
	gate    chan struct{}
	started chan struct{}
}

func newMemStore(n int) *memStore {
	s := &memStore{}
	for i := 0; i < n; i++ {
		s.posts = append(s.posts, &models.CommunityPost{
			Record:      models.Record{ID: fmt.Sprintf("post-%02d", i)},
			LocationTag: fmt.Sprintf("District %d", i%3),
			PostContent: fmt.Sprintf("post %d", i),
		})
	}
	return s
}

func (s *memStore) Collection() string { return models.CollectionCommunityPosts }

func (s *memStore) wait(ctx context.Context) error {
	s.mu.Lock()
	gate, started := s.gate, s.started
	s.mu.Unlock()
	if gate == nil {
		return nil
	}
	if started != nil {
		started <- struct{}{}
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *memStore) GetAll(ctx context.Context, q crud.Query) (*crud.Page[*models.CommunityPost], error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, q)
	if s.failing != nil {
		return nil, s.failing
	}
	q = crud.NormalizeQuery(q)
	if q.Skip >= len(s.posts) {
		return &crud.Page[*models.CommunityPost]{Items: []*models.CommunityPost{}}, nil
	}
	end := q.Skip + q.Limit + 1
	if end > len(s.posts) {
		end = len(s.posts)
	}
	rows := append([]*models.CommunityPost(nil), s.posts[q.Skip:end]...)
	items, more := crud.Trim(rows, q.Limit)
	return &crud.Page[*models.CommunityPost]{Items: items, HasNext: more}, nil
}

func (s *memStore) GetByID(ctx context.Context, id string) (*models.CommunityPost, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing != nil {
		return nil, s.failing
	}
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, crud.ErrNotFound
}

func (s *memStore) Create(_ context.Context, p *models.CommunityPost) (*models.CommunityPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing != nil {
		return nil, s.failing
	}
	s.posts = append([]*models.CommunityPost{p}, s.posts...)
	return p, nil
}

func (s *memStore) setFailing(err error) {
	s.mu.Lock()
	s.failing = err
	s.mu.Unlock()
}

func (s *memStore) block() {
	s.mu.Lock()
	s.gate = make(chan struct{})
	s.started = make(chan struct{}, 4)
	s.mu.Unlock()
}

func (s *memStore) release() {
	s.mu.Lock()
	close(s.gate)
	s.gate = nil
	s.mu.Unlock()
}
