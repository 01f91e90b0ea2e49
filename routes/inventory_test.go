package routes

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"shelfsensei/dashboard"
	"shelfsensei/db/dbtest"
	"shelfsensei/events"
	"shelfsensei/models"
	"shelfsensei/query"
)

func movementJSON(shop, vendor, product uint, kind string, qty, price interface{}) string {
	return fmt.Sprintf(`{"shopId":%q,"vendorId":%d,"productId":%d,"type":%q,"quantity":%v,"price":%v}`,
		fmt.Sprint(shop), vendor, product, kind, qty, price)
}

func TestMovementsYieldNetStock(t *testing.T) {
	ta := newTestApp(t)
	f := ta.f

	code, body := ta.call(t, http.MethodPost, "/api/inventory",
		movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", `"10"`, `"100.50"`))
	if code != http.StatusCreated {
		t.Fatalf("IN = %d: %s", code, body)
	}
	var in movement
	decode(t, body, &in)
	if in.ProductName != "Laptop Pro" || in.ShopName != "Main Street Store" || in.VendorName != "Acme Supply" {
		t.Fatalf("names missing: %s", body)
	}
	if in.Price.String() != "100.5" {
		t.Fatalf("price = %s", in.Price)
	}

	code, body = ta.call(t, http.MethodPost, "/api/inventory",
		movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "OUT", 3, 120))
	if code != http.StatusCreated {
		t.Fatalf("OUT = %d: %s", code, body)
	}

	var levels []dashboard.StockLevel
	ta.getJSON(t, fmt.Sprintf("/api/inventory/stock?userId=%d&shopId=%d&productId=%d", f.Owner.ID, f.ShopA.ID, f.Laptop.ID),
		http.StatusOK, &levels)
	if len(levels) != 1 || levels[0].Quantity != 7 {
		t.Fatalf("stock = %+v, want 7", levels)
	}

	if got := strings.Join(ta.events.types(), ","); got != events.MovementCreated+","+events.MovementCreated {
		t.Fatalf("events = %s", got)
	}
}

func TestOversellIsRecorded(t *testing.T) {
	ta := newTestApp(t)
	f := ta.f

	code, body := ta.call(t, http.MethodPost, "/api/inventory",
		movementJSON(f.ShopB.ID, f.Globex.ID, f.Cable.ID, "OUT", 4, 9))
	if code != http.StatusCreated {
		t.Fatalf("OUT without stock = %d: %s", code, body)
	}
	var levels []dashboard.StockLevel
	ta.getJSON(t, fmt.Sprintf("/api/inventory/stock?userId=%d&shopId=%d", f.Owner.ID, f.ShopB.ID), http.StatusOK, &levels)
	if len(levels) != 1 || levels[0].Quantity != -4 {
		t.Fatalf("stock = %+v", levels)
	}
}

func TestCreateMovementValidation(t *testing.T) {
	ta := newTestApp(t)
	f := ta.f

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "SIDEWAYS", 1, 1)},
		{"zero quantity", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", 0, 1)},
		{"negative price", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", 1, -1)},
		{"missing price", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", 1, "null")},
		{"empty price", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", 1, `""`)},
		{"infinite price", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", 1, `"Inf"`)},
		{"NaN price", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", 1, `"NaN"`)},
		{"infinite quantity", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", `"Infinity"`, 1)},
		{"fractional quantity", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", 1.5, 1)},
		{"non-numeric quantity", movementJSON(f.ShopA.ID, f.Acme.ID, f.Laptop.ID, "IN", `"lots"`, 1)},
		{"unknown shop", movementJSON(9999, f.Acme.ID, f.Laptop.ID, "IN", 1, 1)},
		{"unknown vendor", movementJSON(f.ShopA.ID, 9999, f.Laptop.ID, "IN", 1, 1)},
		{"missing fields", `{"type":"IN"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := ta.call(t, http.MethodPost, "/api/inventory", tt.body)
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d: %s", code, body)
			}
			if !strings.Contains(string(body), `"error"`) {
				t.Fatalf("body = %s", body)
			}
		})
	}

	var n int64
	ta.db.Model(&models.ProductIn{}).Count(&n)
	if n != 0 {
		t.Fatalf("%d movements stored", n)
	}
	if len(ta.events.types()) != 0 {
		t.Fatalf("rejected writes published %v", ta.events.types())
	}
}

func TestListMovements(t *testing.T) {
	ta := newTestApp(t)
	f := ta.f
	at := time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
	dbtest.Move(t, ta.db, f.ShopA, f.Laptop, f.Acme, models.MovementIn, 5, 100, at)
	dbtest.Move(t, ta.db, f.ShopA, f.Cable, f.Globex, models.MovementIn, 8, 2, at)
	dbtest.Move(t, ta.db, f.ShopB, f.Phone, f.Acme, models.MovementIn, 1, 50, at)

	var env envelope
	ta.getJSON(t, "/api/inventory", http.StatusBadRequest, &env)
	if env.Error != "User ID is required" || len(env.Data) != 0 {
		t.Fatalf("no user = %+v", env)
	}
	ta.getJSON(t, fmt.Sprintf("/api/inventory?userId=%d", f.Loner.ID), http.StatusForbidden, &env)
	if env.Error != "No shops assigned to this user" {
		t.Fatalf("loner = %+v", env)
	}

	var list query.List[movement]
	ta.getJSON(t, fmt.Sprintf("/api/inventory?userId=%d", f.Owner.ID), http.StatusOK, &list)
	if list.Pagination.Total != 3 {
		t.Fatalf("owner total = %d", list.Pagination.Total)
	}

	ta.getJSON(t, fmt.Sprintf("/api/inventory?userId=%d&shopId=%d", f.Owner.ID, f.ShopB.ID), http.StatusOK, &list)
	if list.Pagination.Total != 1 || list.Data[0].ShopID != f.ShopB.ID {
		t.Fatalf("shop B = %+v", list)
	}

	ta.getJSON(t, fmt.Sprintf("/api/inventory?userId=%d&search=GLOBEX", f.Owner.ID), http.StatusOK, &list)
	if list.Pagination.Total != 1 || list.Data[0].VendorName != "globex" {
		t.Fatalf("vendor search = %+v", list)
	}

	ta.getJSON(t, fmt.Sprintf("/api/inventory?userId=%d&sortBy=product", f.Owner.ID), http.StatusOK, &list)
	got := make([]string, len(list.Data))
	for i, m := range list.Data {
		got[i] = m.ProductName
	}
	if strings.Join(got, ",") != "Laptop Pro,phone Y20,USB Cable" {
		t.Fatalf("product order = %v", got)
	}

	token, err := ta.auth.Issue(f.Owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	ta.getJSON(t, "/api/inventory?limit=2", http.StatusOK, &list, "Authorization", "Bearer "+token)
	if list.Pagination.Total != 3 || len(list.Data) != 2 || list.Pagination.TotalPages != 2 {
		t.Fatalf("token user = %+v", list.Pagination)
	}
}

func TestUpdateAndDeleteMovement(t *testing.T) {
	ta := newTestApp(t)
	f := ta.f
	m := dbtest.Move(t, ta.db, f.ShopA, f.Laptop, f.Acme, models.MovementIn, 5, 100, time.Now())
	path := fmt.Sprintf("/api/inventory/%d", m.ID)

	code, body := ta.call(t, http.MethodPut, path, movementJSON(f.ShopB.ID, f.Globex.ID, f.Phone.ID, "OUT", 2, 30))
	if code != http.StatusOK {
		t.Fatalf("update = %d: %s", code, body)
	}
	var updated movement
	decode(t, body, &updated)
	if updated.Type != models.MovementOut || updated.Quantity != 2 || updated.ShopName != "downtown Branch" {
		t.Fatalf("updated = %s", body)
	}

	if code, _ := ta.call(t, http.MethodPut, "/api/inventory/9999", movementJSON(f.ShopB.ID, f.Globex.ID, f.Phone.ID, "OUT", 2, 30)); code != http.StatusNotFound {
		t.Fatalf("update unknown = %d", code)
	}
	if code, _ := ta.call(t, http.MethodDelete, path, ""); code != http.StatusNoContent {
		t.Fatalf("delete = %d", code)
	}
	ta.getJSON(t, path, http.StatusNotFound, nil)

	want := events.MovementUpdated + "," + events.MovementDeleted
	if got := strings.Join(ta.events.types(), ","); got != want {
		t.Fatalf("events = %s, want %s", got, want)
	}
}
