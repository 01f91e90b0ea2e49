package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (h *Handler) summary(c *fiber.Ctx) error {
	sc, code, err := h.scope(c)
	if err != nil {
		return reply(c, code, "message", err.Error())
	}
	s, err := h.Dashboard.Summary(c.UserContext(), sc, time.Now())
	if err != nil {
		h.Log.Error("dashboard data error", zap.Error(err))
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	return c.JSON(s)
}

func (h *Handler) stats(c *fiber.Ctx) error {
	s, err := h.Dashboard.Stats(c.UserContext())
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	return c.JSON(s)
}

func (h *Handler) history(c *fiber.Ctx) error {
	rows, err := h.Dashboard.History(c.UserContext())
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	return c.JSON(rows)
}

func (h *Handler) productsByCategory(c *fiber.Ctx) error {
	rows, err := h.Dashboard.ProductsByCategory(c.UserContext())
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "error", err.Error())
	}
	return c.JSON(rows)
}

func (h *Handler) inventoryByCategory(c *fiber.Ctx) error {
	rows, err := h.Dashboard.InventoryByCategory(c.UserContext())
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "error", err.Error())
	}
	return c.JSON(rows)
}

func (h *Handler) priceRanges(c *fiber.Ctx) error {
	rows, err := h.Dashboard.PriceRanges(c.UserContext())
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "error", err.Error())
	}
	return c.JSON(rows)
}

func (h *Handler) topProducts(c *fiber.Ctx) error {
	rows, err := h.Dashboard.TopProducts(c.UserContext())
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "error", err.Error())
	}
	return c.JSON(rows)
}
