package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/restaurant-biller/models"
	"gorm.io/gorm"
)

type TenantResolver struct {
	db *gorm.DB
}

func NewTenantResolver(db *gorm.DB) *TenantResolver {
	return &TenantResolver{db: db}
}

// Resolve finds the restaurant owned by userID. A user without one is not an
// error: found is false and the caller sends them to onboarding.
func (r *TenantResolver) Resolve(ctx context.Context, userID string) (*models.Restaurant, bool, error) {
	var rows []models.Restaurant
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Limit(2).
		Find(&rows).Error
	if err != nil {
		return nil, false, fmt.Errorf("resolve restaurant for user %s: %w", userID, err)
	}

	switch len(rows) {
	case 0:
		return nil, false, nil
	case 1:
		return &rows[0], true, nil
	default:
		return nil, false, ErrMultipleTenants
	}
}
