package main

import (
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"shelfsensei/models"
)

const historyDays = 90

var shopNames = []string{
	"Main Street Store",
	"Downtown Branch",
	"Shopping Mall Outlet",
	"Express Corner",
	"Wholesale Center",
}

var productCatalog = []struct {
	name  string
	price string
}{
	{"Laptop Pro X", "1299.99"},
	{"Smartphone Y20", "699.99"},
	{"Wireless Earbuds", "129.99"},
	{"Smart Watch Elite", "249.99"},
	{"Tablet Air", "449.99"},
	{"Gaming Console X", "499.99"},
	{"4K Monitor", "399.99"},
	{"Wireless Keyboard", "79.99"},
	{"Bluetooth Speaker", "89.99"},
	{"Power Bank 20000mAh", "49.99"},
}

func populateShops(shops *[]models.Shop, userID uint) {
	for index, name := range shopNames {
		(*shops)[index] = models.Shop{Name: name, UserID: userID}
	}
}

func populateProducts(products *[]models.Product, categoryID uint) {
	for index, p := range productCatalog {
		catID := categoryID
		(*products)[index] = models.Product{
			Name:       p.name,
			Price:      decimal.RequireFromString(p.price),
			CategoryID: &catID,
		}
	}
}

// generateMovements builds the demo ledger: three to seven random
// movements per day over the last 90 days, 60% of them IN, plus a weekly
// restock of ten units of the first three products in every shop.
func generateMovements(rng *rand.Rand, now time.Time, shops []models.Shop, products []models.Product, vendor models.Vendor) []models.ProductIn {
	var out []models.ProductIn
	start := now.AddDate(0, 0, -historyDays)

	for day := 0; day < historyDays; day++ {
		date := start.AddDate(0, 0, day)
		perDay := rng.IntN(5) + 3
		for j := 0; j < perDay; j++ {
			shop := shops[rng.IntN(len(shops))]
			product := products[rng.IntN(len(products))]
			kind := models.MovementOut
			if rng.Float64() < 0.6 {
				kind = models.MovementIn
			}
			at := time.Date(date.Year(), date.Month(), date.Day(), rng.IntN(24), date.Minute(), date.Second(), 0, date.Location())
			out = append(out, models.ProductIn{
				ShopID:    shop.ID,
				ProductID: product.ID,
				VendorID:  vendor.ID,
				Type:      kind,
				Quantity:  rng.IntN(19) + 1,
				Price:     product.Price,
				CreatedAt: at,
			})
		}
	}

	top := products
	if len(top) > 3 {
		top = top[:3]
	}
	for _, shop := range shops {
		for _, product := range top {
			for week := 1; week <= 12; week++ {
				if rng.Float64() >= 0.9 {
					continue
				}
				out = append(out, models.ProductIn{
					ShopID:    shop.ID,
					ProductID: product.ID,
					VendorID:  vendor.ID,
					Type:      models.MovementIn,
					Quantity:  10,
					Price:     product.Price,
					CreatedAt: now.AddDate(0, 0, -7*week),
				})
			}
		}
	}
	return out
}
