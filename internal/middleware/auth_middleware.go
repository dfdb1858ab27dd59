package middleware

import (
	"strings"

	"elever/internal/models"
	"elever/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the Locals key under which the authenticated user is stored.
const UserKey = "user"

// tokenFromRequest extracts the session token from the HTTP-only cookie or,
// failing that, from a Bearer authorization header.
func tokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies("token"); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// Protect requires a valid session token and stores the resolved user in
// the request context.
func Protect(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authenticated",
			})
		}

		user, err := authService.UserFromToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// AdminOnly requires that Protect already resolved an admin user.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present but never
// rejects the request.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := tokenFromRequest(c); token != "" {
			if user, err := authService.UserFromToken(token); err == nil {
				c.Locals(UserKey, user)
			}
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Protect or
// OptionalAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
