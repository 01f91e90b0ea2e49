package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shelfsensei/models"
	"shelfsensei/query"
)

var productSorts = query.NewSorts("product.id", map[string]query.Sort{
	"name":     query.Text("product.name"),
	"category": query.Text("category.name"),
	"price":    query.Column("product.price"),
})

var productListing = listing{
	table:   "product",
	model:   &models.Product{},
	sorts:   productSorts,
	search:  []string{"product.name", "category.name"},
	joins:   []string{"LEFT JOIN category ON category.id = product.cat_id"},
	preload: []string{"Category"},
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	products, p, total, err := findPage[models.Product](c, h.DB, productListing)
	if err != nil {
		return listError(c, listStatus(err), err)
	}
	return c.JSON(query.NewList(products, p, total))
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	product, err := h.loadProduct(c, id)
	if err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "Product not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	return c.JSON(product)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	var body productBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	product := models.Product{}
	body.apply(&product)
	if err := h.DB.WithContext(c.UserContext()).Create(&product).Error; err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	created, err := h.loadProduct(c, product.ID)
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	var body productBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}

	tx := h.DB.WithContext(c.UserContext())
	var product models.Product
	if err := tx.First(&product, id).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "Product not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	body.apply(&product)
	err = tx.Model(&product).Select("name", "cat_id", "price").Updates(map[string]interface{}{
		"name":   product.Name,
		"cat_id": product.CategoryID,
		"price":  product.Price,
	}).Error
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	updated, err := h.loadProduct(c, id)
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	h.Dashboard.Invalidate(c.UserContext())
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	return h.destroy(c, &models.Product{}, "message", "Product not found")
}

func (h *Handler) loadProduct(c *fiber.Ctx, id uint) (*models.Product, error) {
	var product models.Product
	if err := h.DB.WithContext(c.UserContext()).Preload("Category").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// apply copies the body onto p. A missing or zero category clears it and
// a missing price is 0.
func (b productBody) apply(p *models.Product) {
	p.Name = b.Name
	p.CategoryID = nil
	if b.CategoryID != nil && *b.CategoryID > 0 {
		id := uint(*b.CategoryID)
		p.CategoryID = &id
	}
	p.Price = decimal.Zero
	if b.Price != nil {
		p.Price = b.Price.Decimal
	}
}
