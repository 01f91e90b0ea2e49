package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"
)

// forward relays the request, path and query string included, to the
// service at base.
func (h *Handler) forward(base string) fiber.Handler {
	base = strings.TrimRight(base, "/")
	return func(c *fiber.Ctx) error {
		target := base + c.OriginalURL()
		if err := proxy.Do(c, target); err != nil {
			h.Log.Warn("upstream request failed", zap.String("target", target), zap.Error(err))
			return reply(c, fiber.StatusBadGateway, "error", "Upstream service unavailable")
		}
		return nil
	}
}
