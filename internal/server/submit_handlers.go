package server

import (
	"pawcircle/internal/loader"
	"pawcircle/internal/member"
	"pawcircle/internal/models"
	"pawcircle/internal/notifications"
	"pawcircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// submitDraft parses the body into a draft and submits it through form. Signed-in
// members submit under their id; anonymous callers, when allowed, under their IP.
// On failure it writes the response and returns errResponseWritten.
func submitDraft[E any, T models.EntityPtr[E]](s *Server, c *fiber.Ctx, form *service.Form[T], label string, requireMember bool) (*loader.Submission[T], error) {
	m, ok := member.FromCtx(c)
	if !ok && requireMember {
		_ = models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
		return nil, errResponseWritten
	}
	party := "ip:" + c.IP()
	if ok {
		party = m.ID
	}

	draft := T(new(E))
	if err := c.BodyParser(draft); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return nil, errResponseWritten
	}

	sub, err := form.Submit(c.UserContext(), party, draft, m.DisplayName())
	if err != nil {
		_ = s.respondError(c, err, label)
		return nil, errResponseWritten
	}
	return sub, nil
}

func respondSubmission[T any](c *fiber.Ctx, sub *loader.Submission[T]) error {
	c.Location(sub.Redirect)
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// SubmitPost handles POST /api/submit-post
func (s *Server) SubmitPost(c *fiber.Ctx) error {
	sub, err := submitDraft[models.CommunityPost](s, c, s.forms.Posts, "Post", true)
	if err != nil {
		return nil
	}
	return respondSubmission(c, sub)
}

// SubmitArticle handles POST /api/submit-article
func (s *Server) SubmitArticle(c *fiber.Ctx) error {
	sub, err := submitDraft[models.PetWikiArticle](s, c, s.forms.Articles, "Article", true)
	if err != nil {
		return nil
	}
	return respondSubmission(c, sub)
}

// SubmitAlert handles POST /api/emergency-alert and notifies alert subscribers.
// Anyone may raise an alert.
func (s *Server) SubmitAlert(c *fiber.Ctx) error {
	sub, err := submitDraft[models.EmergencyAlert](s, c, s.forms.Alerts, "Alert", false)
	if err != nil {
		return nil
	}
	s.publisher.Broadcast(c.UserContext(), notifications.EventEmergencyAlertCreated, sub.Record)
	return respondSubmission(c, sub)
}
