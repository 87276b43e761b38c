package server

import (
	"errors"
	"log/slog"

	"pawcircle/internal/crud"
	"pawcircle/internal/loader"
	"pawcircle/internal/models"
	"pawcircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/skip query parameters.
type Pagination struct {
	Limit int
	Skip  int
}

// reservedQueryKeys are query parameters that are never treated as filters.
var reservedQueryKeys = map[string]struct{}{
	"limit": {},
	"skip":  {},
}

// parsePagination extracts limit and skip query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > crud.MaxLimit {
		limit = crud.MaxLimit
	}

	skip := c.QueryInt("skip", 0)
	if skip < 0 {
		skip = 0
	}

	return Pagination{Limit: limit, Skip: skip}
}

// parseFilter collects every non-reserved query parameter as an equality filter.
func parseFilter(c *fiber.Ctx) map[string]string {
	var filter map[string]string
	for key, value := range c.Queries() {
		if _, reserved := reservedQueryKeys[key]; reserved || value == "" {
			continue
		}
		if filter == nil {
			filter = make(map[string]string)
		}
		filter[key] = value
	}
	return filter
}

// parsePages reads ?pages=N for list views, clamped to 1..MaxPages.
func parsePages(c *fiber.Ctx) int {
	return service.ClampPages(c.QueryInt("pages", 1))
}

// respondError maps store, loader and validation errors onto HTTP responses.
// label names the resource in not-found messages.
func (s *Server) respondError(c *fiber.Ctx, err error, label string) error {
	var appErr *models.AppError
	switch {
	case errors.As(err, &appErr):
		return models.RespondWithError(c, models.StatusFor(err), err)
	case errors.Is(err, crud.ErrNotFound):
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError(label))
	case errors.Is(err, crud.ErrUnknownCollection):
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Collection"))
	case errors.Is(err, crud.ErrInvalidFilter):
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(err.Error()))
	case errors.Is(err, crud.ErrDuplicateID):
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError(label+" already exists", err))
	case errors.Is(err, loader.ErrSubmitInFlight):
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("A submission is already in progress", nil))
	}

	s.logger.ErrorContext(c.UserContext(), "request failed",
		slog.String("resource", label),
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}
