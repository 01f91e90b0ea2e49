package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shelfsensei/models"
)

type InOut struct {
	In  int64 `json:"in"`
	Out int64 `json:"out"`
}

type RecentMovement struct {
	ID          uint      `db:"id" json:"id"`
	ProductName string    `db:"product_name" json:"productName"`
	ShopName    string    `db:"shop_name" json:"shopName"`
	Type        string    `db:"type" json:"type"`
	Quantity    int       `db:"quantity" json:"quantity"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Summary is the dashboard payload. TotalProducts counts distinct products
// across the whole scope, so it is not the sum of the per-shop values.
type Summary struct {
	TotalProducts      int64            `json:"totalProducts"`
	TotalCategories    int64            `json:"totalCategories"`
	TotalVendors       int64            `json:"totalVendors"`
	InventoryValue     decimal.Decimal  `json:"inventoryValue"`
	ProductsByCategory map[string]int64 `json:"productsByCategory"`
	MonthlyMovements   map[string]InOut `json:"monthlyMovements"`
	InventoryByShop    map[string]int64 `json:"inventoryByShop"`
	RecentMovements    []RecentMovement `json:"recentMovements"`
}

const recentLimit = 10

// Summary computes the dashboard for sc. Monthly movements cover the
// calendar month containing now.
func (s *Service) Summary(ctx context.Context, sc Scope, now time.Time) (*Summary, error) {
	var cached Summary
	if hit, err := s.Cache.Get(ctx, sc.cacheKey(), &cached); err != nil {
		s.Log.Warn("dashboard cache read failed", zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	out := &Summary{}
	steps := []func(context.Context, Scope, *Summary) error{
		s.totals,
		s.inventoryValue,
		s.productsByCategory,
		s.inventoryByShop,
		s.recentMovements,
	}
	for _, step := range steps {
		if err := step(ctx, sc, out); err != nil {
			return nil, err
		}
	}
	monthly, err := s.monthlyMovements(ctx, sc, now)
	if err != nil {
		return nil, err
	}
	out.MonthlyMovements = monthly

	if err := s.Cache.Set(ctx, sc.cacheKey(), out); err != nil {
		s.Log.Warn("dashboard cache write failed", zap.Error(err))
	}
	return out, nil
}

func (s *Service) totals(ctx context.Context, sc Scope, out *Summary) error {
	q, args, err := s.in(`SELECT COUNT(DISTINCT prod_id) FROM product_in WHERE shop_id IN (?)`, sc.ShopIDs)
	if err != nil {
		return err
	}
	if err := s.DB.GetContext(ctx, &out.TotalProducts, q, args...); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if err := s.DB.GetContext(ctx, &out.TotalCategories, `SELECT COUNT(*) FROM category`); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if err := s.DB.GetContext(ctx, &out.TotalVendors, `SELECT COUNT(*) FROM vendors`); err != nil {
		return fmt.Errorf("count vendors: %w", err)
	}
	return nil
}

func (s *Service) inventoryValue(ctx context.Context, sc Scope, out *Summary) error {
	q, args, err := s.in(`SELECT COALESCE(SUM(price), 0) FROM product_in WHERE shop_id IN (?) AND type = ?`,
		sc.ShopIDs, models.MovementIn)
	if err != nil {
		return err
	}
	if err := s.DB.GetContext(ctx, &out.InventoryValue, q, args...); err != nil {
		return fmt.Errorf("sum inventory value: %w", err)
	}
	out.InventoryValue = out.InventoryValue.Round(2)
	return nil
}

type namedCount struct {
	Name  string `db:"name"`
	Count int64  `db:"count"`
}

// productsByCategory counts, per category, the products that moved in
// scope. Every category is listed, with 0 when nothing moved.
func (s *Service) productsByCategory(ctx context.Context, sc Scope, out *Summary) error {
	q, args, err := s.in(`
		SELECT c.name AS name, COUNT(DISTINCT pi.prod_id) AS count
		FROM category c
		LEFT JOIN product p ON p.cat_id = c.id
		LEFT JOIN product_in pi ON pi.prod_id = p.id AND pi.shop_id IN (?)
		GROUP BY c.id, c.name
		ORDER BY c.id`, sc.ShopIDs)
	if err != nil {
		return err
	}
	var rows []namedCount
	if err := s.DB.SelectContext(ctx, &rows, q, args...); err != nil {
		return fmt.Errorf("products by category: %w", err)
	}
	out.ProductsByCategory = make(map[string]int64, len(rows))
	for _, r := range rows {
		out.ProductsByCategory[r.Name] = r.Count
	}
	return nil
}

// inventoryByShop is the net quantity of each in-scope shop.
func (s *Service) inventoryByShop(ctx context.Context, sc Scope, out *Summary) error {
	q, args, err := s.in(`
		SELECT s.name AS name,
			COALESCE(SUM(CASE WHEN pi.type = 'IN' THEN pi.quantity ELSE -pi.quantity END), 0) AS count
		FROM shop s
		LEFT JOIN product_in pi ON pi.shop_id = s.id
		WHERE s.id IN (?)
		GROUP BY s.id, s.name
		ORDER BY s.id`, sc.ShopIDs)
	if err != nil {
		return err
	}
	var rows []namedCount
	if err := s.DB.SelectContext(ctx, &rows, q, args...); err != nil {
		return fmt.Errorf("inventory by shop: %w", err)
	}
	out.InventoryByShop = make(map[string]int64, len(rows))
	for _, r := range rows {
		out.InventoryByShop[r.Name] = r.Count
	}
	return nil
}

func (s *Service) recentMovements(ctx context.Context, sc Scope, out *Summary) error {
	q, args, err := s.in(`
		SELECT pi.id, pi.type, pi.quantity, pi.created_at, p.name AS product_name, s.name AS shop_name
		FROM product_in pi
		JOIN product p ON p.id = pi.prod_id
		JOIN shop s ON s.id = pi.shop_id
		WHERE pi.shop_id IN (?)
		ORDER BY pi.created_at DESC, pi.id DESC
		LIMIT ?`, sc.ShopIDs, recentLimit)
	if err != nil {
		return err
	}
	out.RecentMovements = []RecentMovement{}
	if err := s.DB.SelectContext(ctx, &out.RecentMovements, q, args...); err != nil {
		return fmt.Errorf("recent movements: %w", err)
	}
	return nil
}

type movementTime struct {
	Type      string    `db:"type"`
	Quantity  int64     `db:"quantity"`
	CreatedAt time.Time `db:"created_at"`
}

// monthlyMovements sums IN and OUT quantities of the current month. SQL
// narrows the rows to the month give or take a day; the exact month
// filter runs in Go because stored timestamps carry their own zone offset
// and do not compare reliably as SQLite text.
func (s *Service) monthlyMovements(ctx context.Context, sc Scope, now time.Time) (map[string]InOut, error) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	q, args, err := s.in(`SELECT type, quantity, created_at FROM product_in
		WHERE shop_id IN (?) AND created_at >= ? AND created_at < ?`,
		sc.ShopIDs, start.AddDate(0, 0, -1).UTC(), end.AddDate(0, 0, 1).UTC())
	if err != nil {
		return nil, err
	}
	var rows []movementTime
	if err := s.DB.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("monthly movements: %w", err)
	}

	var sum InOut
	for _, r := range rows {
		at := r.CreatedAt.In(now.Location())
		if at.Before(start) || !at.Before(end) {
			continue
		}
		switch r.Type {
		case models.MovementIn:
			sum.In += r.Quantity
		case models.MovementOut:
			sum.Out += r.Quantity
		}
	}
	return map[string]InOut{monthKey(now): sum}, nil
}
