package loader

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pawcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func postBlueprint() Blueprint[*models.CommunityPost] {
	return Blueprint[*models.CommunityPost]{
		Redirect: "/community-feed",
		Validate: func(p *models.CommunityPost) error {
			if strings.TrimSpace(p.PostContent) == "" {
				return models.NewValidationError("postContent is required")
			}
			return nil
		},
		Defaults: func(p *models.CommunityPost, author string, now time.Time) {
			p.ApplyDefaults(author, now)
		},
	}
}

func TestSubmitter_CreatesRecordVisibleOnNextList(t *testing.T) {
	store := newMemStore(5)
	s := NewSubmitter[*models.CommunityPost](store, postBlueprint(),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "new-id" }),
	)
	ctx := context.Background()

	l := NewListLoader[*models.CommunityPost](store)
	require.NoError(t, l.Load(ctx))
	before := len(l.State().Items)

	sub, err := s.Submit(ctx, &models.CommunityPost{PostContent: "Lost a ball at the park", LocationTag: "Hackney"}, "maya")
	require.NoError(t, err)
	assert.Equal(t, "/community-feed", sub.Redirect)
	assert.Equal(t, "new-id", sub.Record.ID)
	assert.Equal(t, "maya", sub.Record.AuthorUsername)
	assert.Equal(t, models.PlaceholderPostImage, sub.Record.PostImage)
	require.NotNil(t, sub.Record.PostDateTime)
	assert.True(t, sub.Record.PostDateTime.Equal(fixedNow))

	require.NoError(t, l.Load(ctx))
	after := l.State().Items
	assert.Len(t, after, before+1)

	count := 0
	for _, p := range after {
		if p.ID == "new-id" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestSubmitter_IgnoresClientTimestamps(t *testing.T) {
	store := newMemStore(0)
	s := NewSubmitter[*models.CommunityPost](store, postBlueprint(),
		WithClock(func() time.Time { return fixedNow }),
	)

	future := time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC)
	draft := &models.CommunityPost{PostContent: "first forever", AuthorUsername: "someone-else", PostDateTime: &future}
	draft.CreatedAt = future
	draft.UpdatedAt = future

	sub, err := s.Submit(context.Background(), draft, "maya")
	require.NoError(t, err)
	assert.True(t, sub.Record.CreatedAt.Equal(fixedNow))
	assert.True(t, sub.Record.UpdatedAt.Equal(fixedNow))
	require.NotNil(t, sub.Record.PostDateTime)
	assert.True(t, sub.Record.PostDateTime.Equal(fixedNow))
	assert.Equal(t, "maya", sub.Record.AuthorUsername)
}

func TestSubmitter_ValidationFailure(t *testing.T) {
	store := newMemStore(0)
	s := NewSubmitter[*models.CommunityPost](store, postBlueprint())

	_, err := s.Submit(context.Background(), &models.CommunityPost{PostContent: "   "}, "maya")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Empty(t, store.posts)
	assert.False(t, s.Submitting())
}

func TestSubmitter_StoreFailureReenables(t *testing.T) {
	store := newMemStore(0)
	store.setFailing(errors.New("write refused"))
	s := NewSubmitter[*models.CommunityPost](store, postBlueprint())
	ctx := context.Background()

	_, err := s.Submit(ctx, &models.CommunityPost{PostContent: "hello"}, "maya")
	require.Error(t, err)
	assert.False(t, s.Submitting())

	store.setFailing(nil)
	_, err = s.Submit(ctx, &models.CommunityPost{PostContent: "hello"}, "maya")
	require.NoError(t, err)
	assert.Len(t, store.posts, 1)
}

type slowStore struct {
	*memStore
	entered chan struct{}
	proceed chan struct{}
}

func (s *slowStore) Create(ctx context.Context, p *models.CommunityPost) (*models.CommunityPost, error) {
	s.entered <- struct{}{}
	<-s.proceed
	return s.memStore.Create(ctx, p)
}

func TestSubmitter_RejectsConcurrentSubmit(t *testing.T) {
	store := &slowStore{memStore: newMemStore(0), entered: make(chan struct{}, 1), proceed: make(chan struct{})}
	s := NewSubmitter[*models.CommunityPost](store, postBlueprint())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(ctx, &models.CommunityPost{PostContent: "first"}, "maya")
		done <- err
	}()
	<-store.entered
	assert.True(t, s.Submitting())

	_, err := s.Submit(ctx, &models.CommunityPost{PostContent: "second"}, "maya")
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(store.proceed)
	require.NoError(t, <-done)
	assert.Len(t, store.posts, 1)
}
