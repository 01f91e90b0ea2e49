package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement types.
const (
	MovementIn  = "IN"  // stock added
	MovementOut = "OUT" // stock removed
)

func init() {
	// Prices go out as JSON numbers, as the client expects.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductIn is one immutable inventory movement. Current stock is never
// stored; it is the sum of IN quantities minus OUT quantities.
type ProductIn struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Type      string          `gorm:"type:varchar(3);not null;index" json:"type"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	ShopID    uint            `gorm:"column:shop_id;not null;index" json:"shop_id"`
	ProductID uint            `gorm:"column:prod_id;not null;index" json:"prod_id"`
	VendorID  uint            `gorm:"column:ven_id;not null;index" json:"ven_id"`
	CreatedAt time.Time       `gorm:"autoCreateTime;index" json:"createdAt"`
	Shop      *Shop           `gorm:"foreignKey:ShopID" json:"shop,omitempty"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Vendor    *Vendor         `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
}

func (ProductIn) TableName() string { return "product_in" }

// Signed returns the movement's contribution to net quantity.
func (p ProductIn) Signed() int {
	if p.Type == MovementOut {
		return -p.Quantity
	}
	return p.Quantity
}

// All is the migration set in dependency order.
func All() []interface{} {
	return []interface{}{&User{}, &Shop{}, &Category{}, &Product{}, &Vendor{}, &ProductIn{}}
}
