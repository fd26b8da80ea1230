package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID           string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	RestaurantID string     `gorm:"type:varchar(36);index:idx_menu_items_restaurant_available,priority:1;not null" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Price        float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Category     string     `gorm:"type:varchar(100)" json:"category"`
	// No gorm default here: a default of true would turn an explicit false
	// into true on insert.
	Available bool      `gorm:"index:idx_menu_items_restaurant_available,priority:2;not null" json:"available"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
