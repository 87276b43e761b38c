package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	posts   []*models.CommunityPost
	created *models.CommunityPost
	auth    string
}

func newFakeAPI(t *testing.T, n int) (*fakeAPI, *httptest.Server) {
	t.Helper()
	f := &fakeAPI{}
	for i := 0; i < n; i++ {
		p := &models.CommunityPost{PostContent: "post " + strconv.Itoa(i), LocationTag: "riverside"}
		if i%2 == 1 {
			p.LocationTag = "harbour"
		}
		p.ID = "p-" + strconv.Itoa(i)
		f.posts = append(f.posts, p)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/collections/communityposts/items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		skip, _ := strconv.Atoi(q.Get("skip"))
		var rows []*models.CommunityPost
		for _, p := range f.posts {
			if tag := q.Get("locationTag"); tag != "" && p.LocationTag != tag {
				continue
			}
			rows = append(rows, p)
		}
		page := crud.Page[*models.CommunityPost]{Items: []*models.CommunityPost{}}
		if skip < len(rows) {
			rows = rows[skip:]
			page.Items, page.HasNext = crud.Trim(rows, limit)
		}
		_ = json.NewEncoder(w).Encode(page)
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
	})
	mux.HandleFunc("POST /api/collections/communityposts/items", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.auth = r.Header.Get("Authorization")
		var p models.CommunityPost
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.created = &p
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(&p)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func runCLI(stdin string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestListLoadsRequestedPages(t *testing.T) {
	_, srv := newFakeAPI(t, 30)

	code, out, errOut := runCLI("", "list", "communityposts", "-server", srv.URL, "-pages", "2")
	require.Equal(t, 0, code, errOut)

	var state struct {
		Items   []models.CommunityPost `json:"items"`
		HasNext bool                   `json:"hasNext"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Len(t, state.Items, 24)
	assert.True(t, state.HasNext)
	assert.Equal(t, "p-0", state.Items[0].ID)
}

func TestListWithFilter(t *testing.T) {
	_, srv := newFakeAPI(t, 10)

	code, out, errOut := runCLI("", "list", "communityposts", "-server", srv.URL, "-filter", "locationTag=harbour")
	require.Equal(t, 0, code, errOut)

	var state struct {
		Items   []models.CommunityPost `json:"items"`
		HasNext bool                   `json:"hasNext"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Len(t, state.Items, 5)
	assert.False(t, state.HasNext)
	for _, p := range state.Items {
		assert.Equal(t, "harbour", p.LocationTag)
	}
}

func TestGet(t *testing.T) {
	_, srv := newFakeAPI(t, 3)

	code, out, errOut := runCLI("", "get", "communityposts", "p-2", "-server", srv.URL)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `"_id": "p-2"`)

	code, _, errOut = runCLI("", "get", "communityposts", "missing", "-server", srv.URL)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "missing not found")
}

func TestPost(t *testing.T) {
	f, srv := newFakeAPI(t, 0)

	code, out, errOut := runCLI(`{"postContent":"Found a tabby on Elm St"}`,
		"post", "communityposts", "-server", srv.URL, "-token", "tok", "-author", "Ada")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, `"redirect": "/community-feed"`)

	require.NotNil(t, f.created)
	assert.Equal(t, "Bearer tok", f.auth)
	assert.NotEmpty(t, f.created.ID)
	assert.Equal(t, "Found a tabby on Elm St", f.created.PostContent)
}

func TestPostValidationAndUsage(t *testing.T) {
	_, srv := newFakeAPI(t, 0)

	code, _, errOut := runCLI(`{}`, "post", "communityposts", "-server", srv.URL, "-token", "tok")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "postContent is required")

	code, _, errOut = runCLI(`{}`, "post", "communityposts", "-server", srv.URL)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "member token is required")

	code, _, _ = runCLI("", "list", "kennels")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI("", "delete", "communityposts")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI("", "list", "communityposts", "-filter", "nonsense")
	assert.Equal(t, 2, code)

	code, out, _ := runCLI("", "collections")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "rescuengodirectory")
}
