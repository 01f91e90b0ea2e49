package routes

import (
	"github.com/gofiber/fiber/v2"

	"shelfsensei/models"
	"shelfsensei/query"
)

var categorySorts = query.NewSorts("category.id", map[string]query.Sort{
	"name": query.Text("category.name"),
})

var categoryListing = listing{
	table:   "category",
	model:   &models.Category{},
	sorts:   categorySorts,
	search:  []string{"category.name"},
	preload: []string{"Products"},
}

func (h *Handler) listCategories(c *fiber.Ctx) error {
	categories, p, total, err := findPage[models.Category](c, h.DB, categoryListing)
	if err != nil {
		return listError(c, listStatus(err), err)
	}
	return c.JSON(query.NewList(categories, p, total))
}

func (h *Handler) getCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	var category models.Category
	if err := h.DB.WithContext(c.UserContext()).Preload("Products").First(&category, id).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "Category not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	return c.JSON(category)
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	var body nameBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	category := models.Category{Name: body.Name}
	if err := h.DB.WithContext(c.UserContext()).Create(&category).Error; err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	var body nameBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}

	tx := h.DB.WithContext(c.UserContext())
	var category models.Category
	if err := tx.First(&category, id).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "Category not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	category.Name = body.Name
	if err := tx.Save(&category).Error; err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.JSON(category)
}

// deleteCategory leaves its products uncategorized.
func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	return h.destroy(c, &models.Category{}, "message", "Category not found")
}
