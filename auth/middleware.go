package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// Required rejects requests without a valid bearer token.
func Required(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "No token provided"})
		}
		token, ok := bearer(header)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token format"})
		}
		userID, err := s.Parse(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		}
		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// Optional records the user of a valid bearer token and lets every
// request through.
func Optional(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearer(c.Get(fiber.HeaderAuthorization)); ok {
			if userID, err := s.Parse(token); err == nil {
				c.Locals(userIDKey, userID)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(userIDKey).(uint)
	return id
}

// Token returns the raw bearer token of the request.
func Token(c *fiber.Ctx) string {
	token, _ := bearer(c.Get(fiber.HeaderAuthorization))
	return token
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
