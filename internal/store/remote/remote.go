// Package remote provides record stores that talk to a hosted content service
// over its collection API.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"
	"pawcircle/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const backendName = "remote"

// APIKeyHeader carries the service key on every request.
const APIKeyHeader = "X-API-Key"

const defaultTimeout = 10 * time.Second

// Client holds the connection settings shared by every remote collection.
type Client struct {
	BaseURL string
	APIKey  string
	// Token is sent as a bearer token when set; the service requires it for creates.
	Token   string
	Timeout time.Duration
}

// NewClient returns a client for baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Timeout: defaultTimeout,
	}
}

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote store: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote store: status %d", e.Status)
}

func (c *Client) itemsURL(collection string) string {
	return c.BaseURL + "/api/collections/" + url.PathEscape(collection) + "/items"
}

func (c *Client) prepare(a *fiber.Agent) *fiber.Agent {
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.APIKey != "" {
		a.Set(APIKeyHeader, c.APIKey)
	}
	if c.Token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.Token)
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return a.Timeout(timeout)
}

// do runs the agent and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, a *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	code, body, errs := c.prepare(a).Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("remote store: %w", errors.Join(errs...))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if code < 200 || code > 299 {
		var payload models.ErrorResponse
		_ = json.Unmarshal(body, &payload)
		return &StatusError{Status: code, Message: payload.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("remote store: decode response: %w", err)
	}
	return nil
}

// Collection is a crud.Store over one collection of the hosted service.
type Collection[E any, T models.EntityPtr[E]] struct {
	client *Client
	name   string
}

func NewCollection[E any, T models.EntityPtr[E]](client *Client) *Collection[E, T] {
	var zero E
	return &Collection[E, T]{client: client, name: T(&zero).Collection()}
}

func (r *Collection[E, T]) Collection() string { return r.name }

func (r *Collection[E, T]) GetAll(ctx context.Context, q crud.Query) (*crud.Page[T], error) {
	ctx, span := observability.TraceStoreMethod(ctx, backendName, "GetAll", r.name)
	defer observability.TrackStore(backendName, r.name, "get_all")()

	q = crud.NormalizeQuery(q)
	a := fiber.Get(r.client.itemsURL(r.name))
	args := fiber.AcquireArgs()
	args.Set("limit", strconv.Itoa(q.Limit))
	args.Set("skip", strconv.Itoa(q.Skip))
	for _, field := range crud.SortedKeys(q.Filter) {
		args.Set(field, q.Filter[field])
	}
	a.QueryString(args.String())
	fiber.ReleaseArgs(args)

	page := &crud.Page[T]{}
	err := r.client.do(ctx, a, page)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, r.translate(err, "list", "")
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

func (r *Collection[E, T]) GetByID(ctx context.Context, id string) (T, error) {
	ctx, span := observability.TraceStoreMethod(ctx, backendName, "GetByID", r.name)
	defer observability.TrackStore(backendName, r.name, "get_by_id")()

	item := T(new(E))
	err := r.client.do(ctx, fiber.Get(r.client.itemsURL(r.name)+"/"+url.PathEscape(id)), item)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, r.translate(err, "get", id)
	}
	return item, nil
}

func (r *Collection[E, T]) Create(ctx context.Context, item T) (T, error) {
	ctx, span := observability.TraceStoreMethod(ctx, backendName, "Create", r.name)
	defer observability.TrackStore(backendName, r.name, "create")()

	created := T(new(E))
	err := r.client.do(ctx, fiber.Post(r.client.itemsURL(r.name)).JSON(item), created)
	observability.EndSpan(span, err)
	if err != nil {
		return nil, r.translate(err, "create", item.GetID())
	}
	return created, nil
}

// translate maps service statuses onto the crud sentinel errors.
func (r *Collection[E, T]) translate(err error, op, id string) error {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	switch {
	case statusErr.Status == fiber.StatusNotFound && op == "get":
		return fmt.Errorf("%w: %s/%s", crud.ErrNotFound, r.name, id)
	case statusErr.Status == fiber.StatusNotFound:
		return fmt.Errorf("%w: %s", crud.ErrUnknownCollection, r.name)
	case statusErr.Status == fiber.StatusConflict:
		return fmt.Errorf("%w: %s/%s", crud.ErrDuplicateID, r.name, id)
	case statusErr.Status == fiber.StatusBadRequest && op == "list":
		return fmt.Errorf("%w: %s", crud.ErrInvalidFilter, statusErr.Message)
	case statusErr.Status == fiber.StatusBadRequest:
		return models.NewValidationError(statusErr.Message)
	case statusErr.Status == fiber.StatusUnauthorized:
		return models.NewUnauthorizedError(statusErr.Message)
	}
	return err
}
