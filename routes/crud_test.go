package routes

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"testing"
	"time"

	"shelfsensei/db/dbtest"
	"shelfsensei/models"
	"shelfsensei/query"
)

func names[T any](rows []T, name func(T) string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = name(r)
	}
	return out
}

func categoryName(c models.Category) string { return c.Name }
func productName(p models.Product) string   { return p.Name }
func shopName(s models.Shop) string         { return s.Name }

func TestListCategoriesPagination(t *testing.T) {
	ta := newTestApp(t)

	for _, limit := range []int{1, 2, 5} {
		var list query.List[models.Category]
		ta.getJSON(t, fmt.Sprintf("/api/categories?limit=%d&page=2", limit), http.StatusOK, &list)

		pg := list.Pagination
		if len(list.Data) > limit {
			t.Errorf("limit %d: got %d rows", limit, len(list.Data))
		}
		if pg.Total != 2 || pg.TotalPages != int(math.Ceil(2/float64(limit))) {
			t.Errorf("limit %d: pagination = %+v", limit, pg)
		}
	}

	var list query.List[models.Category]
	ta.getJSON(t, "/api/categories?page=abc&limit=-3", http.StatusOK, &list)
	if list.Pagination.Page != 1 || list.Pagination.Limit != 10 {
		t.Fatalf("bad page and limit should default: %+v", list.Pagination)
	}
}

func TestListCategoriesSortAndSearch(t *testing.T) {
	ta := newTestApp(t)

	var list query.List[models.Category]
	ta.getJSON(t, "/api/categories?sortBy=name&sortOrder=DESC", http.StatusOK, &list)
	if got := strings.Join(names(list.Data, categoryName), ","); got != "garden,Electronics" {
		t.Fatalf("name desc = %s", got)
	}

	var byID, unknown query.List[models.Category]
	ta.getJSON(t, "/api/categories?sortBy=id&sortOrder=desc", http.StatusOK, &byID)
	ta.getJSON(t, "/api/categories?sortBy=password&sortOrder=desc", http.StatusOK, &unknown)
	if strings.Join(names(byID.Data, categoryName), ",") != strings.Join(names(unknown.Data, categoryName), ",") {
		t.Fatalf("unknown sortBy should sort by id")
	}

	var found query.List[models.Category]
	ta.getJSON(t, "/api/categories?search=ELEC", http.StatusOK, &found)
	if found.Pagination.Total != 1 || found.Data[0].Name != "Electronics" || len(found.Data[0].Products) != 2 {
		t.Fatalf("search = %+v", found)
	}
}

func TestListProducts(t *testing.T) {
	ta := newTestApp(t)

	var list query.List[models.Product]
	ta.getJSON(t, "/api/products?search=electronics", http.StatusOK, &list)
	if list.Pagination.Total != 2 {
		t.Fatalf("category name search: total = %d", list.Pagination.Total)
	}
	for _, p := range list.Data {
		if p.Category == nil || !strings.Contains(strings.ToLower(p.Category.Name), "electronics") {
			t.Errorf("%s does not match", p.Name)
		}
	}

	ta.getJSON(t, "/api/products?search=PHONE", http.StatusOK, &list)
	if list.Pagination.Total != 1 || list.Data[0].ID != ta.f.Phone.ID {
		t.Fatalf("name search = %+v", list.Data)
	}

	ta.getJSON(t, "/api/products?search=%25", http.StatusOK, &list)
	if list.Pagination.Total != 0 {
		t.Fatalf("%% should match literally, got %d", list.Pagination.Total)
	}

	ta.getJSON(t, "/api/products?sortBy=price&sortOrder=desc", http.StatusOK, &list)
	if got := strings.Join(names(list.Data, productName), ","); got != "Laptop Pro,phone Y20,USB Cable" {
		t.Fatalf("price desc = %s", got)
	}

	ta.getJSON(t, "/api/products?sortBy=name&sortOrder=desc", http.StatusOK, &list)
	if got := strings.Join(names(list.Data, productName), ","); got != "USB Cable,phone Y20,Laptop Pro" {
		t.Fatalf("name desc = %s", got)
	}
}

func TestProductCRUD(t *testing.T) {
	ta := newTestApp(t)

	code, body := ta.call(t, http.MethodPost, "/api/products",
		fmt.Sprintf(`{"name":"Rake","cat_id":"%d","price":"12.5"}`, ta.f.Garden.ID))
	if code != http.StatusCreated {
		t.Fatalf("create = %d: %s", code, body)
	}
	var created models.Product
	decode(t, body, &created)
	if created.Category == nil || created.Category.Name != "garden" || created.Price.String() != "12.5" {
		t.Fatalf("created = %+v", created)
	}

	path := fmt.Sprintf("/api/products/%d", created.ID)
	code, body = ta.call(t, http.MethodPut, path, `{"name":"Rake XL"}`)
	if code != http.StatusOK {
		t.Fatalf("update = %d: %s", code, body)
	}
	var updated models.Product
	decode(t, body, &updated)
	if updated.Name != "Rake XL" || updated.CategoryID != nil || !updated.Price.IsZero() {
		t.Fatalf("updated = %+v", updated)
	}

	if code, _ := ta.call(t, http.MethodPost, "/api/products", `{"price":3}`); code != http.StatusBadRequest {
		t.Fatalf("create without name = %d", code)
	}
	if code, _ := ta.call(t, http.MethodDelete, path, ""); code != http.StatusNoContent {
		t.Fatalf("delete = %d", code)
	}
	if code, _ := ta.call(t, http.MethodDelete, path, ""); code != http.StatusNotFound {
		t.Fatalf("second delete = %d", code)
	}

	var msg map[string]string
	ta.getJSON(t, path, http.StatusNotFound, &msg)
	if msg["message"] != "Product not found" {
		t.Fatalf("message = %v", msg)
	}
	ta.getJSON(t, "/api/products/abc", http.StatusBadRequest, nil)
}

func TestVendorErrorsUseErrorKey(t *testing.T) {
	ta := newTestApp(t)

	var msg map[string]string
	ta.getJSON(t, "/api/vendors/9999", http.StatusNotFound, &msg)
	if msg["error"] != "Vendor not found" {
		t.Fatalf("body = %v", msg)
	}

	code, body := ta.call(t, http.MethodPut, fmt.Sprintf("/api/vendors/%d", ta.f.Globex.ID), `{"name":"Globex Corp"}`)
	if code != http.StatusOK || !strings.Contains(string(body), "Globex Corp") {
		t.Fatalf("update = %d: %s", code, body)
	}

	var list query.List[models.Vendor]
	ta.getJSON(t, "/api/vendors?search=corp", http.StatusOK, &list)
	if list.Pagination.Total != 1 {
		t.Fatalf("search after rename = %+v", list)
	}
}

func TestShops(t *testing.T) {
	ta := newTestApp(t)

	var list query.List[models.Shop]
	ta.getJSON(t, "/api/shops?search=ALICE&sortBy=name", http.StatusOK, &list)
	if got := strings.Join(names(list.Data, shopName), ","); got != "downtown Branch,Main Street Store" {
		t.Fatalf("owner search sorted by name = %s", got)
	}
	for _, s := range list.Data {
		if s.User == nil || s.User.ID != ta.f.Owner.ID {
			t.Fatalf("shop %s should include its owner", s.Name)
		}
	}

	code, body := ta.call(t, http.MethodPost, "/api/shops", fmt.Sprintf(`{"name":"Kiosk","userId":"%d"}`, ta.f.Loner.ID))
	if code != http.StatusCreated {
		t.Fatalf("create = %d: %s", code, body)
	}
	var shop models.Shop
	decode(t, body, &shop)
	if shop.UserID != ta.f.Loner.ID || shop.User == nil {
		t.Fatalf("created = %+v", shop)
	}

	if code, _ := ta.call(t, http.MethodPost, "/api/shops", `{"name":"Ghost","userId":9999}`); code != http.StatusBadRequest {
		t.Fatalf("shop for unknown user = %d", code)
	}
}

func TestUserCRUD(t *testing.T) {
	ta := newTestApp(t)

	code, body := ta.call(t, http.MethodPost, "/api/users", `{"name":"Carol"}`)
	if code != http.StatusCreated {
		t.Fatalf("create = %d: %s", code, body)
	}
	var user models.User
	decode(t, body, &user)

	path := fmt.Sprintf("/api/users/%d", user.ID)
	if code, body := ta.call(t, http.MethodPut, path, `{"name":"Caroline"}`); code != http.StatusOK || !strings.Contains(string(body), "Caroline") {
		t.Fatalf("update = %d: %s", code, body)
	}
	if code, _ := ta.call(t, http.MethodPut, path, `{"name":""}`); code != http.StatusBadRequest {
		t.Fatalf("empty name = %d", code)
	}

	var owner models.User
	ta.getJSON(t, fmt.Sprintf("/api/users/%d", ta.f.Owner.ID), http.StatusOK, &owner)
	if len(owner.Shops) != 2 {
		t.Fatalf("owner shops = %d", len(owner.Shops))
	}

	if code, _ := ta.call(t, http.MethodDelete, path, ""); code != http.StatusNoContent {
		t.Fatalf("delete = %d", code)
	}
	ta.getJSON(t, path, http.StatusNotFound, nil)
}

func TestDeleteCategoryKeepsProducts(t *testing.T) {
	ta := newTestApp(t)

	if code, _ := ta.call(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", ta.f.Electronics.ID), ""); code != http.StatusNoContent {
		t.Fatalf("delete = %d", code)
	}
	var p models.Product
	ta.getJSON(t, fmt.Sprintf("/api/products/%d", ta.f.Laptop.ID), http.StatusOK, &p)
	if p.CategoryID != nil {
		t.Fatalf("laptop should be uncategorized, cat_id = %v", *p.CategoryID)
	}
}

func TestRelationSorts(t *testing.T) {
	ta := newTestApp(t)
	f := ta.f
	lonerShop := models.Shop{Name: "Corner Kiosk", UserID: f.Loner.ID}
	if err := ta.db.Create(&lonerShop).Error; err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
	m1 := dbtest.Move(t, ta.db, f.ShopA, f.Laptop, f.Acme, models.MovementIn, 5, 100, at)
	m2 := dbtest.Move(t, ta.db, f.ShopB, f.Phone, f.Globex, models.MovementIn, 1, 50, at)
	m3 := dbtest.Move(t, ta.db, f.ShopA, f.Cable, f.Globex, models.MovementIn, 8, 2, at)
	inventory := fmt.Sprintf("/api/inventory?userId=%d&", f.Owner.ID)

	// SQLite sorts NULL first ascending and last descending.
	tests := []struct {
		target string
		want   []uint
	}{
		{"/api/products?sortBy=category", []uint{f.Cable.ID, f.Laptop.ID, f.Phone.ID}},
		{"/api/products?sortBy=category&sortOrder=desc", []uint{f.Phone.ID, f.Laptop.ID, f.Cable.ID}},
		{"/api/shops?sortBy=user", []uint{f.ShopA.ID, f.ShopB.ID, lonerShop.ID}},
		{"/api/shops?sortBy=user&sortOrder=desc", []uint{lonerShop.ID, f.ShopB.ID, f.ShopA.ID}},
		{inventory + "sortBy=shop", []uint{m2.ID, m1.ID, m3.ID}},
		{inventory + "sortBy=shop&sortOrder=desc", []uint{m3.ID, m1.ID, m2.ID}},
		{inventory + "sortBy=vendor", []uint{m1.ID, m2.ID, m3.ID}},
		{inventory + "sortBy=vendor&sortOrder=desc", []uint{m3.ID, m2.ID, m1.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var list struct {
				Data []struct {
					ID uint `json:"id"`
				} `json:"data"`
			}
			ta.getJSON(t, tt.target, http.StatusOK, &list)
			got := make([]uint, len(list.Data))
			for i, row := range list.Data {
				got[i] = row.ID
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Fatalf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}
