package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"shelfsensei/auth"
)

func (h *Handler) login(c *fiber.Ctx) error {
	var body loginBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}

	user, token, err := h.Auth.Login(c.UserContext(), uint(body.UserID))
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return reply(c, fiber.StatusUnauthorized, "message", err.Error())
	case errors.Is(err, auth.ErrNoShops):
		return reply(c, fiber.StatusForbidden, "message", err.Error())
	case err != nil:
		h.Log.Error("login failed", zap.Error(err))
		return reply(c, fiber.StatusInternalServerError, "message", "Internal server error")
	}
	return c.JSON(fiber.Map{"user": user, "token": token})
}

// verify runs behind auth.Required and reloads the current user.
func (h *Handler) verify(c *fiber.Ctx) error {
	user, err := h.Auth.Verify(c.UserContext(), auth.Token(c))
	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidToken):
		return reply(c, fiber.StatusUnauthorized, "message", err.Error())
	case err != nil:
		h.Log.Error("verify failed", zap.Error(err))
		return reply(c, fiber.StatusInternalServerError, "message", "Internal server error")
	}
	return c.JSON(fiber.Map{"user": user})
}
