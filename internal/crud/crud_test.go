package crud

import (
	"context"
	"errors"
	"testing"

	"pawcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventStore struct{}

func (eventStore) Collection() string { return models.CollectionEvents }

func (eventStore) GetAll(context.Context, Query) (*Page[*models.Event], error) {
	return &Page[*models.Event]{}, nil
}

func (eventStore) GetByID(context.Context, string) (*models.Event, error) {
	return nil, ErrNotFound
}

func (eventStore) Create(_ context.Context, e *models.Event) (*models.Event, error) {
	return e, nil
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name     string
		in       Query
		expected Query
	}{
		{name: "defaults", in: Query{}, expected: Query{Limit: DefaultLimit}},
		{name: "caps limit", in: Query{Limit: 500, Skip: 12}, expected: Query{Limit: MaxLimit, Skip: 12}},
		{name: "negative skip", in: Query{Limit: 12, Skip: -4}, expected: Query{Limit: 12}},
		{name: "keeps filter", in: Query{Limit: 12, Filter: map[string]string{"a": "b"}}, expected: Query{Limit: 12, Filter: map[string]string{"a": "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeQuery(tt.in))
		})
	}
}

func TestResolveFilter(t *testing.T) {
	allowed := models.CommunityPost{}.Filterable()

	cols, err := ResolveFilter(map[string]string{"locationTag": "Brooklyn"}, allowed)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"location_tag": "Brooklyn"}, cols)

	cols, err = ResolveFilter(nil, allowed)
	require.NoError(t, err)
	assert.Nil(t, cols)

	_, err = ResolveFilter(map[string]string{"postContent": "x"}, allowed)
	assert.True(t, errors.Is(err, ErrInvalidFilter))
}

func TestTrim(t *testing.T) {
	rows, more := Trim([]int{1, 2, 3}, 2)
	assert.Equal(t, []int{1, 2}, rows)
	assert.True(t, more)

	rows, more = Trim([]int{1, 2}, 2)
	assert.Equal(t, []int{1, 2}, rows)
	assert.False(t, more)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	Register[*models.Event](r, eventStore{})

	s, err := Lookup[*models.Event](r, models.CollectionEvents)
	require.NoError(t, err)
	assert.Equal(t, models.CollectionEvents, s.Collection())

	_, err = Lookup[*models.Event](r, "nope")
	assert.True(t, errors.Is(err, ErrUnknownCollection))

	_, err = Lookup[*models.Challenge](r, models.CollectionEvents)
	assert.Error(t, err)

	assert.Equal(t, []string{models.CollectionEvents}, r.Names())
	assert.Panics(t, func() { MustLookup[*models.Event](r, "nope") })
}
