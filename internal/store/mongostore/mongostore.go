// Package mongostore provides record stores backed by MongoDB collections.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"
	"pawcircle/internal/observability"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const backendName = "mongo"

// Connect opens a client for uri and returns the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(database), nil
}

// Collection is a crud.Store over the Mongo collection holding E.
type Collection[E any, T models.EntityPtr[E]] struct {
	coll    *mongo.Collection
	name    string
	allowed map[string]string
	now     func() time.Time
}

func NewCollection[E any, T models.EntityPtr[E]](db *mongo.Database) *Collection[E, T] {
	var zero E
	entity := T(&zero)
	return &Collection[E, T]{
		coll:    db.Collection(entity.Collection()),
		name:    entity.Collection(),
		allowed: entity.Filterable(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *Collection[E, T]) Collection() string { return r.name }

// GetAll returns one page sorted by _createdDate descending, then _id.
func (r *Collection[E, T]) GetAll(ctx context.Context, q crud.Query) (*crud.Page[T], error) {
	ctx, span := observability.TraceStoreMethod(ctx, backendName, "GetAll", r.name)
	defer observability.TrackStore(backendName, r.name, "get_all")()

	q = crud.NormalizeQuery(q)
	filter, err := r.buildFilter(q.Filter)
	if err != nil {
		observability.EndSpan(span, err)
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_createdDate", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit + 1))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		observability.EndSpan(span, err)
		return nil, fmt.Errorf("find %s: %w", r.name, err)
	}

	rows := []T{}
	if err := cursor.All(ctx, &rows); err != nil {
		observability.EndSpan(span, err)
		return nil, fmt.Errorf("decode %s: %w", r.name, err)
	}
	observability.EndSpan(span, nil)

	items, hasNext := crud.Trim(rows, q.Limit)
	return &crud.Page[T]{Items: items, HasNext: hasNext}, nil
}

func (r *Collection[E, T]) GetByID(ctx context.Context, id string) (T, error) {
	ctx, span := observability.TraceStoreMethod(ctx, backendName, "GetByID", r.name)
	defer observability.TrackStore(backendName, r.name, "get_by_id")()

	item := T(new(E))
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.EndSpan(span, nil)
		return nil, fmt.Errorf("%w: %s/%s", crud.ErrNotFound, r.name, id)
	}
	observability.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("find %s/%s: %w", r.name, id, err)
	}
	return item, nil
}

// Create inserts item. A blank id is replaced with a fresh UUID.
func (r *Collection[E, T]) Create(ctx context.Context, item T) (T, error) {
	ctx, span := observability.TraceStoreMethod(ctx, backendName, "Create", r.name)
	defer observability.TrackStore(backendName, r.name, "create")()

	if item.GetID() == "" {
		item.SetID(uuid.NewString())
	}
	item.Touch(r.now())

	_, err := r.coll.InsertOne(ctx, item)
	if mongo.IsDuplicateKeyError(err) {
		observability.EndSpan(span, nil)
		return nil, fmt.Errorf("%w: %s/%s", crud.ErrDuplicateID, r.name, item.GetID())
	}
	observability.EndSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", r.name, err)
	}
	return item, nil
}

// buildFilter matches documents by JSON field name. Values that parse as
// booleans also match the boolean, so "true" finds isPublic: true.
func (r *Collection[E, T]) buildFilter(filter map[string]string) (bson.D, error) {
	fields := make([]string, 0, len(filter))
	for field := range filter {
		if _, ok := r.allowed[field]; !ok {
			return nil, fmt.Errorf("%w: %s", crud.ErrInvalidFilter, field)
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := bson.D{}
	for _, field := range fields {
		value := filter[field]
		if value == "true" || value == "false" {
			out = append(out, bson.E{Key: field, Value: bson.M{"$in": bson.A{value, value == "true"}}})
			continue
		}
		out = append(out, bson.E{Key: field, Value: value})
	}
	return out, nil
}
