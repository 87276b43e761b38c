package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	mu       sync.Mutex
	posts    []*models.CommunityPost
	lastKey  string
	lastAuth string
	lastURL  string
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/collections/communityposts/items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastKey = r.Header.Get(APIKeyHeader)
		f.lastURL = r.URL.RawQuery
		if r.URL.Query().Get("bogus") != "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "invalid filter field: bogus"})
			return
		}
		_ = json.NewEncoder(w).Encode(crud.Page[*models.CommunityPost]{Items: f.posts, HasNext: true})
	})
	mux.HandleFunc("GET /api/collections/communityposts/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range f.posts {
			if p.ID == r.PathValue("id") {
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Post not found", Code: models.CodeNotFound})
	})
	mux.HandleFunc("POST /api/collections/communityposts/items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastAuth = r.Header.Get("Authorization")
		var p models.CommunityPost
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for _, existing := range f.posts {
			if existing.ID == p.ID {
				w.WriteHeader(http.StatusConflict)
				return
			}
		}
		f.posts = append([]*models.CommunityPost{&p}, f.posts...)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&p)
	})
	return mux
}

func newTestCollection(t *testing.T, f *fakeService) *Collection[models.CommunityPost, *models.CommunityPost] {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL+"/", "secret-key")
	client.Token = "member-token"
	return NewCollection[models.CommunityPost](client)
}

func post(id, location string) *models.CommunityPost {
	p := &models.CommunityPost{LocationTag: location, PostContent: "hi"}
	p.ID = id
	return p
}

func TestGetAll(t *testing.T) {
	f := &fakeService{posts: []*models.CommunityPost{post("p1", "park"), post("p2", "beach")}}
	s := newTestCollection(t, f)

	page, err := s.GetAll(context.Background(), crud.Query{Limit: 12, Skip: 24, Filter: map[string]string{"locationTag": "park"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.HasNext)
	assert.Equal(t, "p1", page.Items[0].ID)
	assert.Equal(t, "secret-key", f.lastKey)
	assert.Contains(t, f.lastURL, "limit=12")
	assert.Contains(t, f.lastURL, "skip=24")
	assert.Contains(t, f.lastURL, "locationTag=park")
}

func TestGetAllInvalidFilter(t *testing.T) {
	s := newTestCollection(t, &fakeService{})

	_, err := s.GetAll(context.Background(), crud.Query{Filter: map[string]string{"bogus": "1"}})
	assert.ErrorIs(t, err, crud.ErrInvalidFilter)
}

func TestGetByID(t *testing.T) {
	s := newTestCollection(t, &fakeService{posts: []*models.CommunityPost{post("p1", "park")}})

	got, err := s.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "park", got.LocationTag)

	_, err = s.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestCreate(t *testing.T) {
	f := &fakeService{}
	s := newTestCollection(t, f)

	created, err := s.Create(context.Background(), post("new-1", "park"))
	require.NoError(t, err)
	assert.Equal(t, "new-1", created.ID)
	assert.Equal(t, "Bearer member-token", f.lastAuth)

	_, err = s.Create(context.Background(), post("new-1", "park"))
	assert.ErrorIs(t, err, crud.ErrDuplicateID)
}

func TestCanceledContext(t *testing.T) {
	s := newTestCollection(t, &fakeService{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetAll(ctx, crud.Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	s := NewCollection[models.CommunityPost](NewClient(srv.URL, ""))

	_, err := s.GetByID(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, crud.ErrNotFound)
}
