package middleware

import (
	"github.com/gofiber/fiber/v2"

	"tenanthub/internal/auth"
	"tenanthub/internal/model"
)

// UserLocalKey is the Fiber locals key holding the authenticated user.
const UserLocalKey = "user"

// BearerAuth resolves the Authorization header into a user identity and
// stores it in context locals. Any resolution failure is a 401; there is no
// anonymous fallback.
func BearerAuth(resolver *auth.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolver.Resolve(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// UserFromCtx returns the user stored by BearerAuth.
func UserFromCtx(c *fiber.Ctx) (model.User, bool) {
	u, ok := c.Locals(UserLocalKey).(model.User)
	return u, ok
}
