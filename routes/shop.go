package routes

import (
	"github.com/gofiber/fiber/v2"

	"shelfsensei/models"
	"shelfsensei/query"
)

var shopSorts = query.NewSorts("shop.id", map[string]query.Sort{
	"name": query.Text("shop.name"),
	"user": query.Text("users.name"),
})

var shopListing = listing{
	table:   "shop",
	model:   &models.Shop{},
	sorts:   shopSorts,
	search:  []string{"shop.name", "users.name"},
	joins:   []string{"JOIN users ON users.id = shop.usr_id"},
	preload: []string{"User"},
}

func (h *Handler) listShops(c *fiber.Ctx) error {
	shops, p, total, err := findPage[models.Shop](c, h.DB, shopListing)
	if err != nil {
		return listError(c, listStatus(err), err)
	}
	return c.JSON(query.NewList(shops, p, total))
}

func (h *Handler) getShop(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	shop, err := h.loadShop(c, id)
	if err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "Shop not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	return c.JSON(shop)
}

func (h *Handler) createShop(c *fiber.Ctx) error {
	var body shopBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	tx := h.DB.WithContext(c.UserContext())
	if err := tx.First(&models.User{}, uint(body.UserID)).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusBadRequest, "message", "User not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}

	shop := models.Shop{Name: body.Name, UserID: uint(body.UserID)}
	if err := tx.Create(&shop).Error; err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	created, err := h.loadShop(c, shop.ID)
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateShop(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	var body shopBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}

	tx := h.DB.WithContext(c.UserContext())
	var shop models.Shop
	if err := tx.First(&shop, id).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "Shop not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	err = tx.Model(&shop).Updates(map[string]interface{}{
		"name":   body.Name,
		"usr_id": uint(body.UserID),
	}).Error
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	updated, err := h.loadShop(c, id)
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.JSON(updated)
}

func (h *Handler) deleteShop(c *fiber.Ctx) error {
	return h.destroy(c, &models.Shop{}, "message", "Shop not found")
}

func (h *Handler) loadShop(c *fiber.Ctx, id uint) (*models.Shop, error) {
	var shop models.Shop
	if err := h.DB.WithContext(c.UserContext()).Preload("User").First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}
