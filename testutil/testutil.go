// Package testutil opens throwaway databases and seeds fixtures for tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-biller/database"
	"github.com/yeremiapane/restaurant-biller/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const Password = "correct-horse-battery"

var nameReplacer = strings.NewReplacer("/", "_", " ", "_", "#", "_", "'", "_", "\"", "_")

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := "file:" + nameReplacer.Replace(t.Name()) + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Email: email, PasswordHash: string(hash)}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateOwner creates a user together with their restaurant.
func CreateOwner(t testing.TB, db *gorm.DB, email, restaurantName string) (*models.User, *models.Restaurant) {
	t.Helper()
	u := CreateUser(t, db, email)
	r := &models.Restaurant{OwnerID: u.ID, Name: restaurantName, Address: "12 MG Road", Contact: "080-1234"}
	require.NoError(t, db.Create(r).Error)
	return u, r
}

func CreateMenuItem(t testing.TB, db *gorm.DB, restaurantID, name string, price float64, available bool) *models.MenuItem {
	t.Helper()
	m := &models.MenuItem{RestaurantID: restaurantID, Name: name, Price: price, Category: "Mains", Available: available}
	require.NoError(t, db.Create(m).Error)
	return m
}

func Count(t testing.TB, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
