package mongostore

import (
	"context"
	"testing"
	"time"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func postDoc(id, location string, created time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "_createdDate", Value: created},
		{Key: "locationTag", Value: location},
		{Key: "postContent", Value: "hello from " + location},
	}
}

func TestCollection(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ns := "test." + models.CollectionCommunityPosts

	mt.Run("GetAll trims the lookahead row", func(mt *mtest.T) {
		s := NewCollection[models.CommunityPost](mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			postDoc("p3", "park", created.Add(2*time.Minute)),
			postDoc("p2", "park", created.Add(time.Minute)),
			postDoc("p1", "park", created),
		))

		page, err := s.GetAll(context.Background(), crud.Query{Limit: 2})
		require.NoError(mt, err)
		require.Len(mt, page.Items, 2)
		assert.True(mt, page.HasNext)
		assert.Equal(mt, "p3", page.Items[0].ID)
		assert.Equal(mt, "park", page.Items[0].LocationTag)
	})

	mt.Run("GetAll empty", func(mt *mtest.T) {
		s := NewCollection[models.CommunityPost](mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		page, err := s.GetAll(context.Background(), crud.Query{})
		require.NoError(mt, err)
		assert.NotNil(mt, page.Items)
		assert.Empty(mt, page.Items)
		assert.False(mt, page.HasNext)
	})

	mt.Run("GetAll rejects unknown filter", func(mt *mtest.T) {
		s := NewCollection[models.CommunityPost](mt.DB)
		_, err := s.GetAll(context.Background(), crud.Query{Filter: map[string]string{"postContent": "x"}})
		assert.ErrorIs(mt, err, crud.ErrInvalidFilter)
	})

	mt.Run("GetByID found", func(mt *mtest.T) {
		s := NewCollection[models.CommunityPost](mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, postDoc("p1", "beach", created)))

		got, err := s.GetByID(context.Background(), "p1")
		require.NoError(mt, err)
		assert.Equal(mt, "beach", got.LocationTag)
		assert.True(mt, got.CreatedAt.Equal(created))
	})

	mt.Run("GetByID missing", func(mt *mtest.T) {
		s := NewCollection[models.CommunityPost](mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := s.GetByID(context.Background(), "nope")
		assert.ErrorIs(mt, err, crud.ErrNotFound)
	})

	mt.Run("Create", func(mt *mtest.T) {
		s := NewCollection[models.CommunityPost](mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := s.Create(context.Background(), &models.CommunityPost{PostContent: "new"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, got.ID)
		assert.False(mt, got.CreatedAt.IsZero())
	})

	mt.Run("Create duplicate id", func(mt *mtest.T) {
		s := NewCollection[models.CommunityPost](mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		p := &models.CommunityPost{PostContent: "dup"}
		p.ID = "p1"
		_, err := s.Create(context.Background(), p)
		assert.ErrorIs(mt, err, crud.ErrDuplicateID)
	})
}

func TestBuildFilter(t *testing.T) {
	s := &Collection[models.BreedClub, *models.BreedClub]{allowed: models.BreedClub{}.Filterable()}

	got, err := s.buildFilter(map[string]string{"targetSpeciesBreed": "Corgi", "isPublic": "true"})
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "isPublic", Value: bson.M{"$in": bson.A{"true", true}}},
		{Key: "targetSpeciesBreed", Value: "Corgi"},
	}, got)
}
