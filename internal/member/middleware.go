package member

import (
	"context"
	"strings"

	"pawcircle/internal/middleware"
	"pawcircle/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	localsMember = "member"
	localsClaims = "memberClaims"
	// LocalsMemberID matches the key the request logger reads.
	LocalsMemberID = "memberID"
)

func bearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get(fiber.HeaderAuthorization), " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

func (v *Verifier) attach(c *fiber.Ctx, claims *Claims) {
	m := claims.Member()
	c.Locals(localsMember, m)
	c.Locals(localsClaims, claims)
	c.Locals(LocalsMemberID, m.ID)
	ctx := context.WithValue(c.UserContext(), middleware.MemberIDKey, m.ID)
	c.SetUserContext(ctx)
}

// Optional attaches the member when the request carries a valid token and
// otherwise lets the request through anonymously.
func (v *Verifier) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}
		claims, err := v.Verify(c.UserContext(), token)
		if err == nil {
			v.attach(c, claims)
		}
		return c.Next()
	}
}

// Required rejects requests without a valid member token.
func (v *Verifier) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := FromCtx(c); ok {
			return c.Next()
		}
		token := bearerToken(c)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}
		claims, err := v.Verify(c.UserContext(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				&models.AppError{Code: models.CodeUnauthorized, Message: "Invalid or expired token", Err: err})
		}
		v.attach(c, claims)
		return c.Next()
	}
}

// FromCtx returns the member attached by Optional or Required.
func FromCtx(c *fiber.Ctx) (*Member, bool) {
	m, ok := c.Locals(localsMember).(*Member)
	return m, ok && m != nil
}

// ClaimsFromCtx returns the verified claims of the current request.
func ClaimsFromCtx(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(localsClaims).(*Claims)
	return claims, ok && claims != nil
}
