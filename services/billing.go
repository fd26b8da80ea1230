package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-biller/models"
	"github.com/yeremiapane/restaurant-biller/utils"
	"gorm.io/gorm"
)

// BillLine is one entry of the cart the billing page submits. Price is what
// the client saw; it is checked against the current menu price.
type BillLine struct {
	MenuItemID string  `json:"id" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required,gt=0,lte=10000"`
	Price      float64 `json:"price" binding:"gt=0"`
}

type NewBill struct {
	TableNumber   int
	CustomerPhone string
	Items         []BillLine
}

type CreatedBill struct {
	Bill        *models.Bill
	BillURL     string
	WhatsAppURL string
}

type BillService struct {
	db      *gorm.DB
	siteURL string
}

func NewBillService(db *gorm.DB, siteURL string) *BillService {
	return &BillService{db: db, siteURL: siteURL}
}

const (
	// MaxLineQuantity matches the lte rule on BillLine.Quantity.
	MaxLineQuantity = 10000
	// maxBillCents is the largest total a decimal(12,2) column holds.
	maxBillCents int64 = 999_999_999_999
)

func validateNewBill(in *NewBill) error {
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	if in.TableNumber <= 0 {
		return invalid("Table number must be a positive number.")
	}
	if in.CustomerPhone == "" {
		return invalid("Customer phone number is required.")
	}
	if len(in.Items) == 0 {
		return invalid("Add at least one item to the bill.")
	}
	for _, line := range in.Items {
		if strings.TrimSpace(line.MenuItemID) == "" {
			return invalid("Every bill item must reference a menu item.")
		}
		if line.Quantity <= 0 {
			return invalid("Item quantities must be at least 1.")
		}
		if line.Quantity > MaxLineQuantity {
			return invalid(fmt.Sprintf("Item quantities cannot exceed %d.", MaxLineQuantity))
		}
	}
	return nil
}

// CreateBill prices the lines from the tenant's current menu, then writes the
// bill and all its items in one transaction.
func (s *BillService) CreateBill(ctx context.Context, restaurant *models.Restaurant, in NewBill) (*CreatedBill, error) {
	if err := validateNewBill(&in); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(in.Items))
	for _, line := range in.Items {
		ids = append(ids, line.MenuItemID)
	}
	var menu []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND id IN ?", restaurant.ID, ids).
		Find(&menu).Error
	if err != nil {
		return nil, fmt.Errorf("load menu items for bill: %w", err)
	}
	byID := make(map[string]models.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	var totalCents int64
	items := make([]models.BillItem, 0, len(in.Items))
	for _, line := range in.Items {
		m, ok := byID[line.MenuItemID]
		if !ok {
			return nil, invalid("One of the selected items is no longer on the menu.")
		}
		if !m.Available {
			return nil, invalid(fmt.Sprintf("%s is currently unavailable.", m.Name))
		}
		priceCents := utils.ToCents(m.Price)
		if utils.ToCents(line.Price) != priceCents {
			return nil, invalid(fmt.Sprintf("The price of %s has changed. Please review the bill.", m.Name))
		}
		if priceCents > (maxBillCents-totalCents)/int64(line.Quantity) {
			return nil, invalid("The bill total is too large.")
		}
		totalCents += priceCents * int64(line.Quantity)
		items = append(items, models.BillItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Quantity:   line.Quantity,
			Price:      utils.FromCents(priceCents),
		})
	}

	bill := &models.Bill{
		RestaurantID:  restaurant.ID,
		TableNumber:   in.TableNumber,
		CustomerPhone: in.CustomerPhone,
		TotalAmount:   utils.FromCents(totalCents),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(bill).Error; err != nil {
			return fmt.Errorf("insert bill: %w", err)
		}
		for i := range items {
			items[i].BillID = bill.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("insert bill items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	bill.Items = items

	billURL := utils.BillURL(s.siteURL, bill.ID)
	return &CreatedBill{
		Bill:        bill,
		BillURL:     billURL,
		WhatsAppURL: utils.WhatsAppURL(bill.CustomerPhone, utils.BillMessage(restaurant.Name, bill.TotalAmount, billURL)),
	}, nil
}

type PublicRestaurant struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Contact string `json:"contact"`
}

type PublicMenuItem struct {
	Name string `json:"name"`
}

type PublicBillItem struct {
	Quantity  int            `json:"quantity"`
	Price     float64        `json:"price"`
	MenuItems PublicMenuItem `json:"menu_items"`
}

// PublicBill is what anyone holding a bill link may see. It never carries
// the customer's phone number.
type PublicBill struct {
	ID          string           `json:"id"`
	TableNumber int              `json:"table_number"`
	TotalAmount float64          `json:"total_amount"`
	CreatedAt   time.Time        `json:"created_at"`
	Restaurants PublicRestaurant `json:"restaurants"`
	BillItems   []PublicBillItem `json:"bill_items"`
}

// LineTotal is quantity times price for item i.
func (b *PublicBill) LineTotal(i int) float64 {
	it := b.BillItems[i]
	return utils.FromCents(utils.ToCents(it.Price) * int64(it.Quantity))
}

func (s *BillService) PublicBill(ctx context.Context, billID string) (*PublicBill, error) {
	var bill models.Bill
	err := s.db.WithContext(ctx).
		Preload("Restaurant").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", billID).
		First(&bill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load bill %s: %w", billID, err)
	}

	out := &PublicBill{
		ID:          bill.ID,
		TableNumber: bill.TableNumber,
		TotalAmount: bill.TotalAmount,
		CreatedAt:   bill.CreatedAt,
		Restaurants: PublicRestaurant{
			Name:    bill.Restaurant.Name,
			Address: bill.Restaurant.Address,
			Contact: bill.Restaurant.Contact,
		},
		BillItems: make([]PublicBillItem, 0, len(bill.Items)),
	}
	for _, it := range bill.Items {
		out.BillItems = append(out.BillItems, PublicBillItem{
			Quantity:  it.Quantity,
			Price:     it.Price,
			MenuItems: PublicMenuItem{Name: it.Name},
		})
	}
	return out, nil
}
