package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-biller/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Stats struct {
	TotalRevenue   float64 `json:"total_revenue"`
	TotalBills     int64   `json:"total_bills"`
	TotalCustomers int64   `json:"total_customers"`
}

// Reports is the aggregation backend for the dashboard.
type Reports interface {
	Stats(ctx context.Context, tenantID string, from, to time.Time) (Stats, error)
	Bills(ctx context.Context, tenantID string, from, to time.Time) ([]models.Bill, error)
}

type sqlReports struct {
	db *gorm.DB
}

func NewSQLReports(db *gorm.DB) Reports {
	return &sqlReports{db: db}
}

func (r *sqlReports) Stats(ctx context.Context, tenantID string, from, to time.Time) (Stats, error) {
	var st Stats
	err := r.db.WithContext(ctx).
		Model(&models.Bill{}).
		Select("COALESCE(SUM(total_amount), 0) AS total_revenue, COUNT(*) AS total_bills, COUNT(DISTINCT customer_phone) AS total_customers").
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from.UTC(), to.UTC()).
		Scan(&st).Error
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return st, nil
}

func (r *sqlReports) Bills(ctx context.Context, tenantID string, from, to time.Time) ([]models.Bill, error) {
	var bills []models.Bill
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from.UTC(), to.UTC()).
		Order("created_at DESC").
		Find(&bills).Error
	if err != nil {
		return nil, fmt.Errorf("dashboard bills: %w", err)
	}
	return bills, nil
}

type Dashboard struct {
	From  time.Time
	To    time.Time
	Stats Stats
	Bills []models.Bill
}

type DashboardService struct {
	reports Reports
}

func NewDashboardService(reports Reports) *DashboardService {
	return &DashboardService{reports: reports}
}

// DayRange returns [start of from's day, start of the day after to) in UTC.
func DayRange(from, to time.Time) (time.Time, time.Time) {
	from = from.UTC()
	to = to.UTC()
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return start, end
}

// Load reads stats and the bill list concurrently. Either both succeed or
// an error is returned; a partial dashboard is never produced.
func (s *DashboardService) Load(ctx context.Context, tenantID string, from, to time.Time) (*Dashboard, error) {
	start, end := DayRange(from, to)
	if end.Before(start) {
		return nil, invalid("Start date must not be after the end date.")
	}

	var (
		stats Stats
		bills []models.Bill
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.reports.Stats(gctx, tenantID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		bills, err = s.reports.Bills(gctx, tenantID, start, end)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{From: start, To: end, Stats: stats, Bills: bills}, nil
}
