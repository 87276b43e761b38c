package bootstrap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"pawcircle/internal/config"
	"pawcircle/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRuntimeRemoteBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	var mu sync.Mutex
	created := map[string]int{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/collections/{collection}/items", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		created[r.PathValue("collection")]++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	})
	mux.HandleFunc("GET /api/collections/{collection}/items", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"hasNext":false}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ContentBackend: config.BackendRemote,
		ContentAPIURL:  srv.URL,
		RedisURL:       mr.Addr(),
	}
	ctx := context.Background()

	rt, err := InitRuntime(ctx, cfg, Options{SeedFixtures: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close(ctx) })

	assert.Equal(t, config.BackendRemote, rt.Backend)
	assert.NotNil(t, rt.Redis)
	assert.Nil(t, rt.DB)
	assert.Len(t, rt.Catalog.Registry.Names(), 9)
	assert.NoError(t, rt.Ready(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 4, created[models.CollectionRescueDirectory])
	assert.Equal(t, 3, created[models.CollectionChallenges])
}

func TestInitRuntimeWithoutRedis(t *testing.T) {
	cfg := &config.Config{
		ContentBackend: config.BackendRemote,
		ContentAPIURL:  "http://127.0.0.1:1",
		RedisURL:       "redis://:bad@127.0.0.1:1/0",
	}
	rt, err := InitRuntime(context.Background(), cfg, Options{})
	require.NoError(t, err)
	assert.Nil(t, rt.Redis)
	assert.Error(t, rt.Ready(context.Background()))
	assert.NoError(t, rt.Close(context.Background()))
}

func TestReadyWithoutBackend(t *testing.T) {
	assert.Error(t, (&Runtime{}).Ready(context.Background()))
}

func TestInitRuntimeUnknownBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	_, err := InitRuntime(context.Background(), &config.Config{ContentBackend: "dynamo", RedisURL: mr.Addr()}, Options{})
	assert.ErrorContains(t, err, `unknown content backend "dynamo"`)
}
