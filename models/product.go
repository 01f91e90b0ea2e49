package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	CategoryID *uint           `gorm:"column:cat_id;index" json:"cat_id"` // Optional foreign key to Category
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	Category   *Category       `gorm:"foreignKey:CategoryID" json:"category"`
	ProductIns []ProductIn     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"productIns,omitempty"`
}

func (Product) TableName() string { return "product" }
