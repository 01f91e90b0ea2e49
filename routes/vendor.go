package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"shelfsensei/models"
	"shelfsensei/query"
)

var vendorSorts = query.NewSorts("vendors.id", map[string]query.Sort{
	"name": query.Text("vendors.name"),
})

var vendorListing = listing{
	table:  "vendors",
	model:  &models.Vendor{},
	sorts:  vendorSorts,
	search: []string{"vendors.name"},
}

func (h *Handler) listVendors(c *fiber.Ctx) error {
	vendors, p, total, err := findPage[models.Vendor](c, h.DB, vendorListing)
	if err != nil {
		return listError(c, listStatus(err), err)
	}
	return c.JSON(query.NewList(vendors, p, total))
}

func (h *Handler) getVendor(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "error", err.Error())
	}
	var vendor models.Vendor
	if err := h.DB.WithContext(c.UserContext()).First(&vendor, id).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "error", "Vendor not found")
		}
		return reply(c, fiber.StatusInternalServerError, "error", err.Error())
	}
	return c.JSON(vendor)
}

func (h *Handler) createVendor(c *fiber.Ctx) error {
	var body nameBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "error", err.Error())
	}
	vendor := models.Vendor{Name: body.Name}
	if err := h.DB.WithContext(c.UserContext()).Create(&vendor).Error; err != nil {
		h.Log.Error("failed to create vendor", zap.Error(err))
		return reply(c, fiber.StatusBadRequest, "error", err.Error())
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(vendor)
}

func (h *Handler) updateVendor(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "error", err.Error())
	}
	var body nameBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "error", err.Error())
	}

	tx := h.DB.WithContext(c.UserContext())
	var vendor models.Vendor
	if err := tx.First(&vendor, id).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "error", "Vendor not found")
		}
		return reply(c, fiber.StatusInternalServerError, "error", err.Error())
	}
	vendor.Name = body.Name
	if err := tx.Save(&vendor).Error; err != nil {
		h.Log.Error("failed to update vendor", zap.Error(err))
		return reply(c, fiber.StatusBadRequest, "error", err.Error())
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.JSON(vendor)
}

func (h *Handler) deleteVendor(c *fiber.Ctx) error {
	return h.destroy(c, &models.Vendor{}, "error", "Vendor not found")
}
