package routes

import (
	"github.com/gofiber/fiber/v2"

	"shelfsensei/models"
	"shelfsensei/query"
)

var userSorts = query.NewSorts("users.id", map[string]query.Sort{
	"name": query.Text("users.name"),
})

var userListing = listing{
	table:   "users",
	model:   &models.User{},
	sorts:   userSorts,
	search:  []string{"users.name"},
	preload: []string{"Shops"},
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	users, p, total, err := findPage[models.User](c, h.DB, userListing)
	if err != nil {
		return listError(c, listStatus(err), err)
	}
	return c.JSON(query.NewList(users, p, total))
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	var user models.User
	if err := h.DB.WithContext(c.UserContext()).Preload("Shops").First(&user, id).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "User not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	return c.JSON(user)
}

func (h *Handler) createUser(c *fiber.Ctx) error {
	var body nameBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	user := models.User{Name: body.Name, Shops: []models.Shop{}}
	if err := h.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	var body nameBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}

	tx := h.DB.WithContext(c.UserContext())
	var user models.User
	if err := tx.Preload("Shops").First(&user, id).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "User not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	if err := tx.Model(&user).Update("name", body.Name).Error; err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	user.Name = body.Name
	h.Dashboard.Invalidate(c.UserContext())
	return c.JSON(user)
}

// deleteUser also removes the user's shops and their movements.
func (h *Handler) deleteUser(c *fiber.Ctx) error {
	return h.destroy(c, &models.User{}, "message", "User not found")
}
