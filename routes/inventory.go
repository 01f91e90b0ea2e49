package routes

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"shelfsensei/auth"
	"shelfsensei/dashboard"
	"shelfsensei/events"
	"shelfsensei/models"
	"shelfsensei/query"
)

var movementSorts = query.NewSorts("product_in.id", map[string]query.Sort{
	"product":   query.Text("product.name"),
	"shop":      query.Text("shop.name"),
	"vendor":    query.Text("vendors.name"),
	"type":      query.Column("product_in.type"),
	"quantity":  query.Column("product_in.quantity"),
	"price":     query.Column("product_in.price"),
	"createdAt": query.Column("product_in.created_at"),
})

var movementJoins = []string{
	"JOIN product ON product.id = product_in.prod_id",
	"JOIN shop ON shop.id = product_in.shop_id",
	"JOIN vendors ON vendors.id = product_in.ven_id",
}

// movement is a ledger entry with the names of what it references, added
// for display.
type movement struct {
	models.ProductIn
	ProductName string `json:"productName"`
	ShopName    string `json:"shopName"`
	VendorName  string `json:"vendorName"`
}

func newMovement(p models.ProductIn) movement {
	m := movement{ProductIn: p}
	if p.Product != nil {
		m.ProductName = p.Product.Name
	}
	if p.Shop != nil {
		m.ShopName = p.Shop.Name
	}
	if p.Vendor != nil {
		m.VendorName = p.Vendor.Name
	}
	return m
}

// scope resolves the shops a request may see: userId from the query, or
// the authenticated user, narrowed by an optional shopId.
func (h *Handler) scope(c *fiber.Ctx) (dashboard.Scope, int, error) {
	userID := uint(max(c.QueryInt("userId"), 0))
	if userID == 0 {
		userID = auth.UserID(c)
	}
	shopID := uint(max(c.QueryInt("shopId"), 0))

	sc, err := h.Dashboard.Scope(c.UserContext(), userID, shopID)
	switch {
	case errors.Is(err, dashboard.ErrUserRequired):
		return sc, fiber.StatusBadRequest, err
	case errors.Is(err, dashboard.ErrNoShops):
		return sc, fiber.StatusForbidden, err
	case err != nil:
		return sc, fiber.StatusInternalServerError, err
	}
	return sc, 0, nil
}

func (h *Handler) listMovements(c *fiber.Ctx) error {
	sc, code, err := h.scope(c)
	if err != nil {
		return listError(c, code, err)
	}

	l := listing{
		table:   "product_in",
		model:   &models.ProductIn{},
		sorts:   movementSorts,
		search:  []string{"product.name", "shop.name", "vendors.name"},
		joins:   movementJoins,
		preload: []string{"Product", "Shop", "Vendor"},
		scope: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("product_in.shop_id IN ?", sc.ShopIDs)
		},
	}
	rows, p, total, err := findPage[models.ProductIn](c, h.DB, l)
	if err != nil {
		return listError(c, listStatus(err), err)
	}

	data := make([]movement, len(rows))
	for i, r := range rows {
		data[i] = newMovement(r)
	}
	return c.JSON(query.NewList(data, p, total))
}

func (h *Handler) getMovement(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	m, err := h.loadMovement(c.UserContext(), id)
	if err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "Inventory movement not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	return c.JSON(m)
}

// createMovement appends to the ledger. OUT movements are not checked
// against the current stock.
func (h *Handler) createMovement(c *fiber.Ctx) error {
	var body movementBody
	if err := h.bind(c, &body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "data": nil})
	}
	ctx := c.UserContext()
	if err := h.checkRefs(ctx, body); err != nil {
		return c.Status(refStatus(err)).JSON(fiber.Map{"error": err.Error(), "data": nil})
	}

	record := body.record()
	if err := h.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "data": nil})
	}
	m, err := h.loadMovement(ctx, record.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "data": nil})
	}
	h.changed(ctx, events.MovementCreated, m)
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *Handler) updateMovement(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	var body movementBody
	if err := h.bind(c, &body); err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	ctx := c.UserContext()
	tx := h.DB.WithContext(ctx)

	var existing models.ProductIn
	if err := tx.First(&existing, id).Error; err != nil {
		if notFound(err) {
			return reply(c, fiber.StatusNotFound, "message", "Inventory movement not found")
		}
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	if err := h.checkRefs(ctx, body); err != nil {
		return reply(c, refStatus(err), "message", err.Error())
	}

	r := body.record()
	err = tx.Model(&existing).Updates(map[string]interface{}{
		"shop_id":  r.ShopID,
		"ven_id":   r.VendorID,
		"prod_id":  r.ProductID,
		"type":     r.Type,
		"quantity": r.Quantity,
		"price":    r.Price,
	}).Error
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	m, err := h.loadMovement(ctx, id)
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	h.changed(ctx, events.MovementUpdated, m)
	return c.JSON(m)
}

func (h *Handler) deleteMovement(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return reply(c, fiber.StatusBadRequest, "message", err.Error())
	}
	res := h.DB.WithContext(c.UserContext()).Delete(&models.ProductIn{}, id)
	if res.Error != nil {
		return reply(c, fiber.StatusInternalServerError, "message", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return reply(c, fiber.StatusNotFound, "message", "Inventory movement not found")
	}
	h.changed(c.UserContext(), events.MovementDeleted, fiber.Map{"id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// stock reports derived stock levels in scope, optionally for one product.
func (h *Handler) stock(c *fiber.Ctx) error {
	sc, code, err := h.scope(c)
	if err != nil {
		return reply(c, code, "message", err.Error())
	}
	productID := uint(max(c.QueryInt("productId"), 0))
	levels, err := h.Dashboard.Stock(c.UserContext(), sc, productID)
	if err != nil {
		return reply(c, fiber.StatusInternalServerError, "message", err.Error())
	}
	return c.JSON(levels)
}

func (h *Handler) loadMovement(ctx context.Context, id uint) (movement, error) {
	var record models.ProductIn
	err := h.DB.WithContext(ctx).
		Preload("Product").Preload("Shop").Preload("Vendor").
		First(&record, id).Error
	if err != nil {
		return movement{}, err
	}
	return newMovement(record), nil
}

type missingRefError struct{ entity string }

func (e missingRefError) Error() string { return e.entity + " not found" }

// checkRefs makes sure the shop, product and vendor of b exist.
func (h *Handler) checkRefs(ctx context.Context, b movementBody) error {
	tx := h.DB.WithContext(ctx)
	refs := []struct {
		entity string
		model  interface{}
		id     Int
	}{
		{"Shop", &models.Shop{}, b.ShopID},
		{"Product", &models.Product{}, b.ProductID},
		{"Vendor", &models.Vendor{}, b.VendorID},
	}
	for _, ref := range refs {
		var n int64
		if err := tx.Model(ref.model).Where("id = ?", uint(ref.id)).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return missingRefError{entity: ref.entity}
		}
	}
	return nil
}

func refStatus(err error) int {
	var missing missingRefError
	if errors.As(err, &missing) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// changed notifies subscribers of a ledger write and drops cached
// dashboards.
func (h *Handler) changed(ctx context.Context, kind string, data interface{}) {
	_ = h.Events.Publish(ctx, events.New(kind, data))
	h.Dashboard.Invalidate(ctx)
}

func (b movementBody) record() models.ProductIn {
	return models.ProductIn{
		ShopID:    uint(b.ShopID),
		VendorID:  uint(b.VendorID),
		ProductID: uint(b.ProductID),
		Type:      b.Type,
		Quantity:  int(b.Quantity),
		Price:     b.Price.Decimal,
	}
}
