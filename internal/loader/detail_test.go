package loader

import (
	"context"
	"errors"
	"testing"

	"pawcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailLoader_Found(t *testing.T) {
	d := NewDetailLoader[*models.CommunityPost](newMemStore(3))

	state := d.Load(context.Background(), "post-01")
	require.True(t, state.Found())
	assert.Equal(t, "post-01", state.Item.ID)
	assert.Equal(t, state, d.Current())
}

func TestDetailLoader_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		failing error
	}{
		{name: "missing id", id: "post-99"},
		{name: "blank id", id: "   "},
		{name: "backend error", id: "post-01", failing: errors.New("timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore(3)
			store.setFailing(tt.failing)
			d := NewDetailLoader[*models.CommunityPost](store)

			var state DetailState[*models.CommunityPost]
			assert.NotPanics(t, func() { state = d.Load(context.Background(), tt.id) })
			assert.Equal(t, StatusNotFound, state.Status)
			assert.Nil(t, state.Item)
		})
	}
}

func TestDetailLoader_NoCachingBetweenLoads(t *testing.T) {
	store := newMemStore(3)
	d := NewDetailLoader[*models.CommunityPost](store)
	ctx := context.Background()

	require.True(t, d.Load(ctx, "post-00").Found())
	store.setFailing(errors.New("gone"))
	assert.Equal(t, StatusNotFound, d.Load(ctx, "post-00").Status)
}

func TestDetailLoader_LateResponseIsStale(t *testing.T) {
	store := newMemStore(3)
	d := NewDetailLoader[*models.CommunityPost](store)
	ctx := context.Background()
	require.True(t, d.Load(ctx, "post-00").Found())

	store.block()
	done := make(chan DetailState[*models.CommunityPost], 1)
	go func() { done <- d.Load(ctx, "post-01") }()
	<-store.started

	d.Close()
	state := <-done
	assert.Equal(t, StatusStale, state.Status)
	assert.Equal(t, "post-00", d.Current().Item.ID, "stale response must not replace current state")
	assert.Equal(t, StatusStale, d.Load(ctx, "post-02").Status)
}
