package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"shelfsensei/models"
)

const (
	historyLimit      = 50
	topProductsLimit  = 10
	lowStockThreshold = 10
)

// MovementView is a movement with the names of what it references.
type MovementView struct {
	ID          uint            `db:"id" json:"id"`
	Type        string          `db:"type" json:"type"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ShopID      uint            `db:"shop_id" json:"shop_id"`
	ProductID   uint            `db:"prod_id" json:"prod_id"`
	VendorID    uint            `db:"ven_id" json:"ven_id"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	ProductName string          `db:"product_name" json:"productName"`
	ShopName    string          `db:"shop_name" json:"shopName"`
	VendorName  string          `db:"vendor_name" json:"vendorName"`
}

type CategoryCount struct {
	ID           uint   `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	ProductCount int64  `db:"product_count" json:"productCount"`
}

type LowStockProduct struct {
	ID           uint    `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	CategoryName *string `db:"category_name" json:"categoryName"`
	NetQuantity  int64   `db:"net_quantity" json:"netQuantity"`
}

type Stats struct {
	TotalInventoryValue decimal.Decimal   `json:"totalInventoryValue"`
	ProductsByCategory  []CategoryCount   `json:"productsByCategory"`
	LowStockProducts    []LowStockProduct `json:"lowStockProducts"`
	TotalProducts       int64             `json:"totalProducts"`
	TotalVendors        int64             `json:"totalVendors"`
}

// Stats is the unscoped overview. Low stock means a product that has moved
// and whose net quantity across all shops is below ten.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	out := &Stats{ProductsByCategory: []CategoryCount{}, LowStockProducts: []LowStockProduct{}}

	if err := s.DB.GetContext(ctx, &out.TotalInventoryValue,
		s.DB.Rebind(`SELECT COALESCE(SUM(price), 0) FROM product_in WHERE type = ?`), models.MovementIn); err != nil {
		return nil, fmt.Errorf("sum inventory value: %w", err)
	}
	out.TotalInventoryValue = out.TotalInventoryValue.Round(2)

	if err := s.DB.SelectContext(ctx, &out.ProductsByCategory, `
		SELECT c.id, c.name, COUNT(p.id) AS product_count
		FROM category c
		LEFT JOIN product p ON p.cat_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.id`); err != nil {
		return nil, fmt.Errorf("products by category: %w", err)
	}

	if err := s.DB.SelectContext(ctx, &out.LowStockProducts, s.DB.Rebind(`
		SELECT p.id, p.name, c.name AS category_name,
			SUM(CASE WHEN pi.type = 'IN' THEN pi.quantity ELSE -pi.quantity END) AS net_quantity
		FROM product p
		JOIN product_in pi ON pi.prod_id = p.id
		LEFT JOIN category c ON c.id = p.cat_id
		GROUP BY p.id, p.name, c.name
		HAVING SUM(CASE WHEN pi.type = 'IN' THEN pi.quantity ELSE -pi.quantity END) < ?
		ORDER BY p.id`), lowStockThreshold); err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}

	if err := s.DB.GetContext(ctx, &out.TotalProducts, `SELECT COUNT(*) FROM product`); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if err := s.DB.GetContext(ctx, &out.TotalVendors, `SELECT COUNT(*) FROM vendors`); err != nil {
		return nil, fmt.Errorf("count vendors: %w", err)
	}
	return out, nil
}

const movementViewSelect = `
	SELECT pi.id, pi.type, pi.quantity, pi.price, pi.shop_id, pi.prod_id, pi.ven_id, pi.created_at,
		p.name AS product_name, s.name AS shop_name, v.name AS vendor_name
	FROM product_in pi
	JOIN product p ON p.id = pi.prod_id
	JOIN shop s ON s.id = pi.shop_id
	JOIN vendors v ON v.id = pi.ven_id`

// History lists the latest movements, newest id first.
func (s *Service) History(ctx context.Context) ([]MovementView, error) {
	out := []MovementView{}
	q := s.DB.Rebind(movementViewSelect + ` ORDER BY pi.id DESC LIMIT ?`)
	if err := s.DB.SelectContext(ctx, &out, q, historyLimit); err != nil {
		return nil, fmt.Errorf("inventory history: %w", err)
	}
	return out, nil
}

type CategoryProducts struct {
	CategoryName string `db:"category_name" json:"category_name"`
	Count        int64  `db:"count" json:"count"`
}

func (s *Service) ProductsByCategory(ctx context.Context) ([]CategoryProducts, error) {
	out := []CategoryProducts{}
	if err := s.DB.SelectContext(ctx, &out, `
		SELECT c.name AS category_name, COUNT(p.id) AS count
		FROM category c
		LEFT JOIN product p ON p.cat_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.id`); err != nil {
		return nil, fmt.Errorf("products by category: %w", err)
	}
	return out, nil
}

type CategoryQuantity struct {
	CategoryName  string `db:"category_name" json:"category_name"`
	TotalQuantity int64  `db:"total_quantity" json:"total_quantity"`
}

// InventoryByCategory is the net quantity of every category's products.
func (s *Service) InventoryByCategory(ctx context.Context) ([]CategoryQuantity, error) {
	out := []CategoryQuantity{}
	if err := s.DB.SelectContext(ctx, &out, `
		SELECT c.name AS category_name,
			COALESCE(SUM(CASE WHEN pi.type = 'IN' THEN pi.quantity ELSE -pi.quantity END), 0) AS total_quantity
		FROM category c
		LEFT JOIN product p ON p.cat_id = c.id
		LEFT JOIN product_in pi ON pi.prod_id = p.id
		GROUP BY c.id, c.name
		ORDER BY c.id`); err != nil {
		return nil, fmt.Errorf("inventory by category: %w", err)
	}
	return out, nil
}

type PriceRange struct {
	MinPrice float64     `json:"min_price"`
	MaxPrice interface{} `json:"max_price"` // number, or "1000+" for the open bucket
	Count    int         `json:"count"`
}

var priceBuckets = []struct{ min, max float64 }{
	{0, 50},
	{50, 100},
	{100, 500},
	{500, 1000},
	{1000, -1},
}

// PriceRanges buckets products by their average movement price.
func (s *Service) PriceRanges(ctx context.Context) ([]PriceRange, error) {
	var avgs []float64
	if err := s.DB.SelectContext(ctx, &avgs, `SELECT AVG(price) FROM product_in GROUP BY prod_id`); err != nil {
		return nil, fmt.Errorf("average prices: %w", err)
	}

	out := make([]PriceRange, len(priceBuckets))
	for i, b := range priceBuckets {
		out[i] = PriceRange{MinPrice: b.min, MaxPrice: b.max}
		if b.max < 0 {
			out[i].MaxPrice = "1000+"
		}
		for _, avg := range avgs {
			if avg >= b.min && (b.max < 0 || avg < b.max) {
				out[i].Count++
			}
		}
	}
	return out, nil
}

type ProductQuantity struct {
	Name          string `db:"name" json:"name"`
	TotalQuantity int64  `db:"total_quantity" json:"total_quantity"`
}

// TopProducts ranks products by quantity moved out.
func (s *Service) TopProducts(ctx context.Context) ([]ProductQuantity, error) {
	out := []ProductQuantity{}
	q := s.DB.Rebind(`
		SELECT p.name, COALESCE(SUM(pi.quantity), 0) AS total_quantity
		FROM product p
		LEFT JOIN product_in pi ON pi.prod_id = p.id AND pi.type = ?
		GROUP BY p.id, p.name
		ORDER BY total_quantity DESC, p.id ASC
		LIMIT ?`)
	if err := s.DB.SelectContext(ctx, &out, q, models.MovementOut, topProductsLimit); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return out, nil
}

// StockLevel is the derived current stock of one product in one shop.
type StockLevel struct {
	ShopID      uint   `db:"shop_id" json:"shop_id"`
	ProductID   uint   `db:"prod_id" json:"prod_id"`
	ShopName    string `db:"shop_name" json:"shopName"`
	ProductName string `db:"product_name" json:"productName"`
	Quantity    int64  `db:"quantity" json:"quantity"`
}

// Stock returns net quantities per (shop, product) within sc, optionally
// for one product only.
func (s *Service) Stock(ctx context.Context, sc Scope, productID uint) ([]StockLevel, error) {
	query := `
		SELECT pi.shop_id, pi.prod_id, s.name AS shop_name, p.name AS product_name,
			SUM(CASE WHEN pi.type = 'IN' THEN pi.quantity ELSE -pi.quantity END) AS quantity
		FROM product_in pi
		JOIN shop s ON s.id = pi.shop_id
		JOIN product p ON p.id = pi.prod_id
		WHERE pi.shop_id IN (?)`
	args := []interface{}{sc.ShopIDs}
	if productID != 0 {
		query += ` AND pi.prod_id = ?`
		args = append(args, productID)
	}
	query += `
		GROUP BY pi.shop_id, pi.prod_id, s.name, p.name
		ORDER BY pi.shop_id, pi.prod_id`

	q, a, err := s.in(query, args...)
	if err != nil {
		return nil, err
	}
	out := []StockLevel{}
	if err := s.DB.SelectContext(ctx, &out, q, a...); err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}
	return out, nil
}
