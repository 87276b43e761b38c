package server

import (
	"strings"

	"pawcircle/internal/loader"
	"pawcircle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondView writes a list view. A view only fails when the request itself was cancelled.
func (s *Server) respondView(c *fiber.Ctx, view any, err error, label string) error {
	if err != nil {
		return s.respondError(c, err, label)
	}
	return c.JSON(view)
}

// respondDetail writes {item} or a 404 naming the resource.
func respondDetail[T any](c *fiber.Ctx, state loader.DetailState[T], label string) error {
	if !state.Found() {
		return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError(label))
	}
	return c.JSON(fiber.Map{"item": state.Item})
}

// GetHome returns the most recent community posts.
func (s *Server) GetHome(c *fiber.Ctx) error {
	view, err := s.pages.Home(c.UserContext())
	return s.respondView(c, view, err, "Posts")
}

// GetCommunityFeed returns ?pages=N pages of posts narrowed by ?location=.
func (s *Server) GetCommunityFeed(c *fiber.Ctx) error {
	view, err := s.pages.CommunityFeed(c.UserContext(), parsePages(c), strings.TrimSpace(c.Query("location")))
	return s.respondView(c, view, err, "Posts")
}

// GetPetWiki returns ?pages=N pages of articles narrowed by ?category=.
func (s *Server) GetPetWiki(c *fiber.Ctx) error {
	view, err := s.pages.PetWiki(c.UserContext(), parsePages(c), strings.TrimSpace(c.Query("category")))
	return s.respondView(c, view, err, "Articles")
}

func (s *Server) GetEmergencyAlerts(c *fiber.Ctx) error {
	view, err := s.pages.EmergencyAlerts(c.UserContext())
	return s.respondView(c, view, err, "Alerts")
}

func (s *Server) GetNeighbourhoodCircles(c *fiber.Ctx) error {
	view, err := s.pages.NeighbourhoodCircles(c.UserContext(), parsePages(c))
	return s.respondView(c, view, err, "Circles")
}

func (s *Server) GetBreedClubs(c *fiber.Ctx) error {
	view, err := s.pages.BreedClubs(c.UserContext(), parsePages(c))
	return s.respondView(c, view, err, "Clubs")
}

func (s *Server) GetRescueDirectory(c *fiber.Ctx) error {
	view, err := s.pages.RescueDirectory(c.UserContext(), parsePages(c))
	return s.respondView(c, view, err, "Rescue organizations")
}

func (s *Server) GetEvents(c *fiber.Ctx) error {
	view, err := s.pages.Events(c.UserContext(), parsePages(c))
	return s.respondView(c, view, err, "Events")
}

func (s *Server) GetChallenges(c *fiber.Ctx) error {
	view, err := s.pages.Challenges(c.UserContext(), parsePages(c))
	return s.respondView(c, view, err, "Challenges")
}

func (s *Server) GetPost(c *fiber.Ctx) error {
	return respondDetail(c, s.pages.Post(c.UserContext(), c.Params("id")), "Post")
}

func (s *Server) GetCircle(c *fiber.Ctx) error {
	return respondDetail(c, s.pages.Circle(c.UserContext(), c.Params("id")), "Circle")
}

func (s *Server) GetClub(c *fiber.Ctx) error {
	return respondDetail(c, s.pages.Club(c.UserContext(), c.Params("id")), "Club")
}

func (s *Server) GetArticle(c *fiber.Ctx) error {
	return respondDetail(c, s.pages.Article(c.UserContext(), c.Params("id")), "Article")
}

func (s *Server) GetRescue(c *fiber.Ctx) error {
	return respondDetail(c, s.pages.Rescue(c.UserContext(), c.Params("id")), "Rescue organization")
}

func (s *Server) GetEvent(c *fiber.Ctx) error {
	return respondDetail(c, s.pages.Event(c.UserContext(), c.Params("id")), "Event")
}

func (s *Server) GetChallenge(c *fiber.Ctx) error {
	return respondDetail(c, s.pages.Challenge(c.UserContext(), c.Params("id")), "Challenge")
}
