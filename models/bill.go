package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bill struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	RestaurantID  string     `gorm:"type:varchar(36);index:idx_bills_restaurant_created,priority:1;not null" json:"restaurant_id"`
	Restaurant    Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableNumber   int        `gorm:"not null" json:"table_number"`
	CustomerPhone string     `gorm:"type:varchar(50);not null" json:"customer_phone"`
	TotalAmount   float64    `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	CreatedAt     time.Time  `gorm:"index:idx_bills_restaurant_created,priority:2;not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
	Items         []BillItem `gorm:"foreignKey:BillID" json:"bill_items"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// BillItem keeps a snapshot of the menu item name and price at billing time,
// so a bill still renders after its menu item is edited or deleted.
type BillItem struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BillID     string    `gorm:"type:varchar(36);index;not null" json:"bill_id"`
	Bill       Bill      `gorm:"foreignKey:BillID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID string    `gorm:"type:varchar(36);index;not null" json:"menu_item_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == "" {
		bi.ID = uuid.NewString()
	}
	return nil
}
