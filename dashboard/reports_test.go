package dashboard

import (
	"context"
	"testing"

	"shelfsensei/db/dbtest"
	"shelfsensei/models"
)

func TestStats(t *testing.T) {
	e := newEnv(t)
	e.seedLedger(t)

	st, err := e.svc.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.TotalProducts != 3 || st.TotalVendors != 2 {
		t.Errorf("totals = %d/%d", st.TotalProducts, st.TotalVendors)
	}
	if st.TotalInventoryValue.String() != "200" {
		t.Errorf("value = %s", st.TotalInventoryValue)
	}
	// Net: laptop 11, cable 5, phone 2.
	if len(st.LowStockProducts) != 2 {
		t.Fatalf("low stock = %+v", st.LowStockProducts)
	}
	for _, p := range st.LowStockProducts {
		if p.ID == e.f.Laptop.ID {
			t.Errorf("laptop has 11 in stock and is not low")
		}
	}
	if len(st.ProductsByCategory) != 2 || st.ProductsByCategory[0].ProductCount != 2 {
		t.Errorf("by category = %+v", st.ProductsByCategory)
	}
}

func TestHistory(t *testing.T) {
	e := newEnv(t)
	e.seedLedger(t)

	h, err := e.svc.History(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(h) != 5 {
		t.Fatalf("history = %d", len(h))
	}
	if h[0].ID < h[1].ID {
		t.Error("history should be id desc")
	}
	if h[0].VendorName == "" || h[0].ProductName == "" || h[0].ShopName == "" {
		t.Errorf("names missing: %+v", h[0])
	}
}

func TestCategoryReports(t *testing.T) {
	e := newEnv(t)
	e.seedLedger(t)
	ctx := context.Background()

	counts, err := e.svc.ProductsByCategory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 2 || counts[0].CategoryName != "Electronics" || counts[0].Count != 2 || counts[1].Count != 0 {
		t.Errorf("products by category = %+v", counts)
	}

	qty, err := e.svc.InventoryByCategory(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Electronics: laptop 10-3+4, phone 2.
	if qty[0].TotalQuantity != 13 || qty[1].TotalQuantity != 0 {
		t.Errorf("inventory by category = %+v", qty)
	}
}

func TestPriceRanges(t *testing.T) {
	e := newEnv(t)
	e.seedLedger(t)

	ranges, err := e.svc.PriceRanges(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(ranges) != 5 || ranges[4].MaxPrice != "1000+" {
		t.Fatalf("ranges = %+v", ranges)
	}
	// Averages: laptop (100+100+50)/3, cable 20, phone 30.
	if ranges[0].Count != 2 || ranges[1].Count != 1 {
		t.Errorf("bucket counts = %+v", ranges)
	}
}

func TestTopProducts(t *testing.T) {
	e := newEnv(t)
	e.seedLedger(t)
	dbtest.Move(t, e.db, e.f.ShopB, e.f.Phone, e.f.Acme, models.MovementOut, 1, 30, now)

	top, err := e.svc.TopProducts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 3 || top[0].Name != "Laptop Pro" || top[0].TotalQuantity != 3 || top[1].TotalQuantity != 1 {
		t.Fatalf("top = %+v", top)
	}
}
