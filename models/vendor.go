package models

import "time"

type Vendor struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"not null" json:"name"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
	ProductIns []ProductIn `gorm:"foreignKey:VendorID;constraint:OnDelete:CASCADE" json:"productIns,omitempty"`
}

func (Vendor) TableName() string { return "vendors" }
