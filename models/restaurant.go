package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restaurant is the tenant. Every menu item and bill belongs to exactly one
// restaurant, and the unique index on OwnerID keeps it at one per user.
type Restaurant struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID   string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:varchar(255)" json:"address"`
	Contact   string    `gorm:"type:varchar(50)" json:"contact"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
