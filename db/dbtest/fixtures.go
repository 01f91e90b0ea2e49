package dbtest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"shelfsensei/models"
)

// Fixture is a small shop network: Owner runs ShopA and ShopB, Loner owns
// nothing. Laptop and Phone sit in Electronics, Cable has no category.
type Fixture struct {
	Owner, Loner        models.User
	ShopA, ShopB        models.Shop
	Electronics, Garden models.Category
	Laptop, Phone       models.Product
	Cable               models.Product
	Acme                models.Vendor
	Globex              models.Vendor
}

func Seed(t testing.TB, database *gorm.DB) *Fixture {
	t.Helper()

	f := &Fixture{
		Owner:       models.User{Name: "Alice Owner"},
		Loner:       models.User{Name: "bob loner"},
		Electronics: models.Category{Name: "Electronics"},
		Garden:      models.Category{Name: "garden"},
		Acme:        models.Vendor{Name: "Acme Supply"},
		Globex:      models.Vendor{Name: "globex"},
	}
	mustCreate(t, database, &f.Owner)
	mustCreate(t, database, &f.Loner)
	mustCreate(t, database, &f.Electronics)
	mustCreate(t, database, &f.Garden)
	mustCreate(t, database, &f.Acme)
	mustCreate(t, database, &f.Globex)

	f.ShopA = models.Shop{Name: "Main Street Store", UserID: f.Owner.ID}
	f.ShopB = models.Shop{Name: "downtown Branch", UserID: f.Owner.ID}
	mustCreate(t, database, &f.ShopA)
	mustCreate(t, database, &f.ShopB)

	f.Laptop = models.Product{Name: "Laptop Pro", Price: decimal.NewFromFloat(1299.99), CategoryID: &f.Electronics.ID}
	f.Phone = models.Product{Name: "phone Y20", Price: decimal.NewFromFloat(699.5), CategoryID: &f.Electronics.ID}
	f.Cable = models.Product{Name: "USB Cable", Price: decimal.NewFromInt(9)}
	mustCreate(t, database, &f.Laptop)
	mustCreate(t, database, &f.Phone)
	mustCreate(t, database, &f.Cable)
	return f
}

// Move records one movement at the given time.
func Move(t testing.TB, database *gorm.DB, shop models.Shop, product models.Product, vendor models.Vendor,
	kind string, qty int, price float64, at time.Time) models.ProductIn {
	t.Helper()

	m := models.ProductIn{
		Type:      kind,
		Quantity:  qty,
		Price:     decimal.NewFromFloat(price),
		ShopID:    shop.ID,
		ProductID: product.ID,
		VendorID:  vendor.ID,
		CreatedAt: at,
	}
	mustCreate(t, database, &m)
	return m
}

func mustCreate(t testing.TB, database *gorm.DB, v interface{}) {
	t.Helper()
	if err := database.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}
