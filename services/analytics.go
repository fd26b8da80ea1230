package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/restaurant-biller/models"
	"gorm.io/gorm"
)

const bestSellerLimit = 10

type ItemSales struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
	Bills   int64   `json:"bills"`
}

type Sales struct {
	BestSellers  []ItemSales    `json:"best_sellers"`
	DailyRevenue []DailyRevenue `json:"daily_revenue"`
}

type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) Sales(ctx context.Context, tenantID string) (*Sales, error) {
	db := s.db.WithContext(ctx)
	out := &Sales{}

	err := db.Model(&models.BillItem{}).
		Select("bill_items.name AS name, SUM(bill_items.quantity) AS quantity, SUM(bill_items.quantity * bill_items.price) AS revenue").
		Joins("JOIN bills ON bills.id = bill_items.bill_id").
		Where("bills.restaurant_id = ?", tenantID).
		Group("bill_items.name").
		Order("quantity DESC, name ASC").
		Limit(bestSellerLimit).
		Scan(&out.BestSellers).Error
	if err != nil {
		return nil, fmt.Errorf("best sellers: %w", err)
	}

	err = db.Model(&models.Bill{}).
		Select("DATE(created_at) AS day, SUM(total_amount) AS revenue, COUNT(*) AS bills").
		Where("restaurant_id = ?", tenantID).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&out.DailyRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("daily revenue: %w", err)
	}
	// Drivers return the date as either "2006-01-02" or a full timestamp.
	for i := range out.DailyRevenue {
		if len(out.DailyRevenue[i].Day) > 10 {
			out.DailyRevenue[i].Day = out.DailyRevenue[i].Day[:10]
		}
	}
	return out, nil
}
