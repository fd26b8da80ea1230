package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yeremiapane/restaurant-biller/models"
	"gorm.io/gorm"
)

type MenuItemInput struct {
	Name      string  `json:"name" form:"name" binding:"required"`
	Price     float64 `json:"price" form:"price" binding:"gt=0"`
	Category  string  `json:"category" form:"category"`
	Available bool    `json:"available" form:"available"`
}

func (in *MenuItemInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return invalid("Item name is required.")
	}
	if in.Price <= 0 {
		return invalid("Price must be greater than zero.")
	}
	return nil
}

// MenuService scopes every query to one restaurant id.
type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

func (s *MenuService) List(ctx context.Context, tenantID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return items, nil
}

// ListAvailable returns what can be put on a bill, ordered by name.
func (s *MenuService) ListAvailable(ctx context.Context, tenantID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.db.WithContext(ctx).
		Where("restaurant_id = ? AND available = ?", tenantID, true).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list available menu items: %w", err)
	}
	return items, nil
}

// Uncategorized heads the section for items saved without a category.
const Uncategorized = "Uncategorized"

type MenuSection struct {
	Category string
	Items    []models.MenuItem
}

// GroupByCategory splits items into sections sorted by category name, with
// Uncategorized last. Items keep their order within a section.
func GroupByCategory(items []models.MenuItem) []MenuSection {
	index := make(map[string]int)
	var sections []MenuSection
	for _, item := range items {
		category := strings.TrimSpace(item.Category)
		if category == "" {
			category = Uncategorized
		}
		i, ok := index[category]
		if !ok {
			i = len(sections)
			index[category] = i
			sections = append(sections, MenuSection{Category: category})
		}
		sections[i].Items = append(sections[i].Items, item)
	}
	sort.SliceStable(sections, func(a, b int) bool {
		if (sections[a].Category == Uncategorized) != (sections[b].Category == Uncategorized) {
			return sections[b].Category == Uncategorized
		}
		return sections[a].Category < sections[b].Category
	})
	return sections
}

func (s *MenuService) Add(ctx context.Context, tenantID string, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		RestaurantID: tenantID,
		Name:         in.Name,
		Price:        in.Price,
		Category:     in.Category,
		Available:    in.Available,
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, tenantID, itemID string, in MenuItemInput) (*models.MenuItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	// Map updates so that available=false is written.
	res := s.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("id = ? AND restaurant_id = ?", itemID, tenantID).
		Updates(map[string]interface{}{
			"name":      in.Name,
			"price":     in.Price,
			"category":  in.Category,
			"available": in.Available,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update menu item %s: %w", itemID, res.Error)
	}

	// MySQL counts changed rows, not matched ones, so zero rows affected can
	// still mean the item exists. The scoped reload decides.
	var item models.MenuItem
	err := s.db.WithContext(ctx).Where("id = ? AND restaurant_id = ?", itemID, tenantID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reload menu item %s: %w", itemID, err)
	}
	return &item, nil
}

func (s *MenuService) Delete(ctx context.Context, tenantID, itemID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND restaurant_id = ?", itemID, tenantID).
		Delete(&models.MenuItem{})
	if res.Error != nil {
		return fmt.Errorf("delete menu item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
