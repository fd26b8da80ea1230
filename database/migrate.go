package database

import (
	"fmt"

	"github.com/yeremiapane/restaurant-biller/models"
	"github.com/yeremiapane/restaurant-biller/utils"
	"gorm.io/gorm"
)

// Models lists every table in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Restaurant{},
		&models.MenuItem{},
		&models.Bill{},
		&models.BillItem{},
	}
}

type requiredIndex struct {
	model interface{}
	name  string
}

// Indexes the tenant-scoped queries rely on.
var requiredIndexes = []requiredIndex{
	{&models.Restaurant{}, "idx_restaurants_owner_id"},
	{&models.MenuItem{}, "idx_menu_items_restaurant_available"},
	{&models.Bill{}, "idx_bills_restaurant_created"},
	{&models.BillItem{}, "idx_bill_items_bill_id"},
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	m := db.Migrator()
	for _, idx := range requiredIndexes {
		if m.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := m.CreateIndex(idx.model, idx.name); err != nil {
			utils.ErrorLogger.Printf("Error creating index %s: %v", idx.name, err)
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
		utils.InfoLogger.Printf("Created index %s", idx.name)
	}

	utils.InfoLogger.Printf("Database schema up to date (%d tables)", len(Models()))
	return nil
}
