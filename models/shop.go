package models

import "time"

type Shop struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"not null" json:"name"`
	UserID     uint        `gorm:"column:usr_id;not null;index" json:"usr_id"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProductIns []ProductIn `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"productIns,omitempty"`
}

func (Shop) TableName() string { return "shop" }
