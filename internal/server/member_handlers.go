package server

import (
	"log/slog"
	"net/url"
	"strings"

	"pawcircle/internal/member"
	"pawcircle/internal/models"
	"pawcircle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profile
func (s *Server) GetProfile(c *fiber.Ctx) error {
	m, ok := member.FromCtx(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}
	return c.JSON(service.Profile(c.UserContext(), s.catalog.Profiles, m, s.logger))
}

// GetMe handles GET /api/members/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	m, ok := member.FromCtx(c)
	if !ok {
		return c.JSON(fiber.Map{"authenticated": false, "member": nil})
	}
	return c.JSON(fiber.Map{"authenticated": true, "member": m})
}

// Login handles GET /api/members/login by redirecting to the member provider.
// A relative ?returnTo= is forwarded so the provider can send the member back.
func (s *Server) Login(c *fiber.Ctx) error {
	target, err := url.Parse(s.config.MemberLoginURL)
	if err != nil || s.config.MemberLoginURL == "" {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Member login is not configured"))
	}
	if returnTo := c.Query("returnTo"); isLocalPath(returnTo) {
		q := target.Query()
		q.Set("returnTo", returnTo)
		target.RawQuery = q.Encode()
	}
	return c.Redirect(target.String(), fiber.StatusFound)
}

func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, `\`)
}

// Logout handles POST /api/members/logout by revoking the presented token.
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := member.ClaimsFromCtx(c)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}
	if err := s.verifier.Revoke(c.UserContext(), claims); err != nil {
		s.logger.WarnContext(c.UserContext(), "token revocation failed",
			slog.String("jti", claims.ID), slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}
