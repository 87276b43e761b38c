package server

import (
	"strings"

	"pawcircle/internal/crud"
	"pawcircle/internal/models"
	"pawcircle/internal/service"
	"pawcircle/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localsCollection = "collection"

// collectionHandlers serves the generic boundary for one typed store.
type collectionHandlers struct {
	list   fiber.Handler
	get    fiber.Handler
	create fiber.Handler
}

func newCollectionHandlers(s *Server, cat *service.Catalog) map[string]collectionHandlers {
	return map[string]collectionHandlers{
		models.CollectionCommunityPosts:       handlersFor[models.CommunityPost](s, cat.Posts),
		models.CollectionPetWikiArticles:      handlersFor[models.PetWikiArticle](s, cat.Articles),
		models.CollectionEmergencyAlerts:      handlersFor[models.EmergencyAlert](s, cat.Alerts),
		models.CollectionEvents:               handlersFor[models.Event](s, cat.Events),
		models.CollectionNeighbourhoodCircles: handlersFor[models.NeighbourhoodCircle](s, cat.Circles),
		models.CollectionBreedClubs:           handlersFor[models.BreedClub](s, cat.Clubs),
		models.CollectionRescueDirectory:      handlersFor[models.RescueOrganization](s, cat.Rescues),
		models.CollectionChallenges:           handlersFor[models.Challenge](s, cat.Challenges),
		models.CollectionUserProfiles:         handlersFor[models.UserProfile](s, cat.Profiles),
	}
}

func handlersFor[E any, T models.EntityPtr[E]](s *Server, store crud.Store[T]) collectionHandlers {
	return collectionHandlers{
		list: func(c *fiber.Ctx) error {
			p := parsePagination(c, crud.DefaultLimit)
			page, err := store.GetAll(c.UserContext(), crud.Query{
				Filter: parseFilter(c),
				Limit:  p.Limit,
				Skip:   p.Skip,
			})
			if err != nil {
				return s.respondError(c, err, "Collection")
			}
			return c.JSON(page)
		},
		get: func(c *fiber.Ctx) error {
			id := c.Params("id")
			if err := validation.ValidateRecordID(id); err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest, err)
			}
			item, err := store.GetByID(c.UserContext(), id)
			if err != nil {
				return s.respondError(c, err, "Record")
			}
			return c.JSON(item)
		},
		create: func(c *fiber.Ctx) error {
			item := T(new(E))
			if err := c.BodyParser(item); err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest,
					models.NewValidationError("Invalid request body"))
			}
			if item.GetID() == "" {
				item.SetID(uuid.NewString())
			} else if err := validation.ValidateRecordID(item.GetID()); err != nil {
				return models.RespondWithError(c, fiber.StatusBadRequest, err)
			}
			created, err := store.Create(c.UserContext(), item)
			if err != nil {
				return s.respondError(c, err, "Record")
			}
			c.Location(strings.TrimSuffix(c.Path(), "/") + "/" + created.GetID())
			return c.Status(fiber.StatusCreated).JSON(created)
		},
	}
}

// resolveCollection validates the :collection parameter and stashes its handlers.
func (s *Server) resolveCollection(c *fiber.Ctx) error {
	name := c.Params("collection")
	if err := validation.ValidateCollectionName(name); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}
	h, ok := s.collections[name]
	if !ok {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Collection "+name))
	}
	c.Locals(localsCollection, h)
	return c.Next()
}

func collectionFrom(c *fiber.Ctx) collectionHandlers {
	h, _ := c.Locals(localsCollection).(collectionHandlers)
	return h
}

// ListItems handles GET /api/collections/:collection/items
func (s *Server) ListItems(c *fiber.Ctx) error {
	return collectionFrom(c).list(c)
}

// GetItem handles GET /api/collections/:collection/items/:id
func (s *Server) GetItem(c *fiber.Ctx) error {
	return collectionFrom(c).get(c)
}

// CreateItem handles POST /api/collections/:collection/items. A missing _id is assigned.
func (s *Server) CreateItem(c *fiber.Ctx) error {
	return collectionFrom(c).create(c)
}
